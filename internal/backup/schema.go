package backup

import (
	"fmt"
	"strings"
)

// tables lists every exported table in dependency order. Export clears them
// in reverse and fills them in this order.
var tables = []string{
	"snapshot_meta",
	"users",
	"projects",
	"tasks",
	"habits",
	"habit_entries",
	"notes",
	"note_tags",
	"events",
	"quotes",
}

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS snapshot_meta (
	taken_at {{ts}} NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id           INTEGER PRIMARY KEY,
	username     TEXT NOT NULL UNIQUE,
	password     TEXT NOT NULL,
	display_name TEXT NOT NULL DEFAULT '',
	avatar       TEXT NOT NULL DEFAULT '',
	theme        TEXT NOT NULL DEFAULT 'light'
);

CREATE TABLE IF NOT EXISTS projects (
	id          INTEGER PRIMARY KEY,
	user_id     INTEGER NOT NULL,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	color       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tasks (
	id          INTEGER PRIMARY KEY,
	user_id     INTEGER NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	priority    TEXT NOT NULL,
	due_date    {{ts}},
	category    TEXT NOT NULL DEFAULT '',
	project     TEXT NOT NULL DEFAULT '',
	progress    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS habits (
	id           INTEGER PRIMARY KEY,
	user_id      INTEGER NOT NULL,
	name         TEXT NOT NULL,
	icon         TEXT NOT NULL DEFAULT '',
	color        TEXT NOT NULL DEFAULT '',
	streak_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS habit_entries (
	id        INTEGER PRIMARY KEY,
	habit_id  INTEGER NOT NULL,
	date      {{ts}} NOT NULL,
	completed BOOLEAN NOT NULL
);

CREATE TABLE IF NOT EXISTS notes (
	id           INTEGER PRIMARY KEY,
	user_id      INTEGER NOT NULL,
	title        TEXT NOT NULL,
	content      TEXT NOT NULL DEFAULT '',
	last_updated {{ts}}
);

CREATE TABLE IF NOT EXISTS note_tags (
	note_id  INTEGER NOT NULL,
	position INTEGER NOT NULL,
	tag      TEXT NOT NULL,
	PRIMARY KEY (note_id, position)
);

CREATE TABLE IF NOT EXISTS events (
	id          INTEGER PRIMARY KEY,
	user_id     INTEGER NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	start_time  {{ts}} NOT NULL,
	end_time    {{ts}} NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	color       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS quotes (
	id     INTEGER PRIMARY KEY,
	text   TEXT NOT NULL,
	author TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_habit_entries_habit_id ON habit_entries(habit_id);
CREATE INDEX IF NOT EXISTS idx_events_start_time ON events(start_time);
`

// schemaStatements renders the schema for driverName, one statement per
// element so it runs on drivers without multi-statement Exec.
func schemaStatements(driverName string) []string {
	ts := "TIMESTAMP"
	if driverName == driverPostgres {
		ts = "TIMESTAMPTZ"
	}
	ddl := strings.ReplaceAll(schemaTemplate, "{{ts}}", ts)

	var stmts []string
	for _, stmt := range strings.Split(ddl, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func insertStatement(table string, columns ...string) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s)",
		table, strings.Join(columns, ", "), strings.Join(columns, ", :"))
}

var (
	insertUser    = insertStatement("users", "id", "username", "password", "display_name", "avatar", "theme")
	insertProject = insertStatement("projects", "id", "user_id", "name", "description", "color")
	insertTask    = insertStatement("tasks", "id", "user_id", "title", "description", "status", "priority",
		"due_date", "category", "project", "progress")
	insertHabit      = insertStatement("habits", "id", "user_id", "name", "icon", "color", "streak_count")
	insertHabitEntry = insertStatement("habit_entries", "id", "habit_id", "date", "completed")
	insertNote       = insertStatement("notes", "id", "user_id", "title", "content", "last_updated")
	insertEvent      = insertStatement("events", "id", "user_id", "title", "description", "start_time",
		"end_time", "category", "color")
	insertQuote = insertStatement("quotes", "id", "text", "author")
)
