// Package backup writes point-in-time copies of the record store into SQL
// databases. Snapshots are write-only: nothing reads them back at startup.
package backup

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/daydash/internal/logger"
	"github.com/julianstephens/daydash/internal/storage"
)

const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

func init() {
	// sqlx only knows the cgo driver name for SQLite bindvars.
	sqlx.BindDriver(driverSQLite, sqlx.QUESTION)
}

// OpenSQLite opens (or creates) a SQLite snapshot file.
func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverSQLite, path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite snapshot %s: %w", path, err)
	}
	return db, nil
}

// OpenPostgres connects to the PostgreSQL database at dsn.
func OpenPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres connection string: %w", err)
	}
	db := sqlx.NewDb(sql.OpenDB(connector), driverPostgres)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return db, nil
}

// Export replaces the contents of db with snap in a single transaction,
// creating the schema first if needed.
func Export(ctx context.Context, db *sqlx.DB, snap storage.Snapshot) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning export: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Warn("Failed to roll back snapshot export", "error", rbErr)
			}
		}
	}()

	for _, stmt := range schemaStatements(db.DriverName()) {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating snapshot schema: %w", err)
		}
	}
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+tables[i]); err != nil {
			return fmt.Errorf("clearing %s: %w", tables[i], err)
		}
	}

	if _, err = tx.ExecContext(ctx, tx.Rebind("INSERT INTO snapshot_meta (taken_at) VALUES (?)"), snap.TakenAt); err != nil {
		return fmt.Errorf("writing snapshot_meta: %w", err)
	}
	if err = insertAll(ctx, tx, insertUser, snap.Users); err != nil {
		return err
	}
	if err = insertAll(ctx, tx, insertProject, snap.Projects); err != nil {
		return err
	}
	if err = insertAll(ctx, tx, insertTask, snap.Tasks); err != nil {
		return err
	}
	if err = insertAll(ctx, tx, insertHabit, snap.Habits); err != nil {
		return err
	}
	if err = insertAll(ctx, tx, insertHabitEntry, snap.HabitEntries); err != nil {
		return err
	}
	if err = insertAll(ctx, tx, insertNote, snap.Notes); err != nil {
		return err
	}
	insertTag := tx.Rebind("INSERT INTO note_tags (note_id, position, tag) VALUES (?, ?, ?)")
	for _, n := range snap.Notes {
		for pos, tag := range n.Tags {
			if _, err = tx.ExecContext(ctx, insertTag, n.ID, pos, tag); err != nil {
				return fmt.Errorf("writing tags of note %d: %w", n.ID, err)
			}
		}
	}
	if err = insertAll(ctx, tx, insertEvent, snap.Events); err != nil {
		return err
	}
	if err = insertAll(ctx, tx, insertQuote, snap.Quotes); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing export: %w", err)
	}
	logger.Debug("Exported snapshot", "driver", db.DriverName(), "taken_at", snap.TakenAt)
	return nil
}

func insertAll[T any](ctx context.Context, tx *sqlx.Tx, query string, rows []T) error {
	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("exporting %T: %w", row, err)
		}
	}
	return nil
}

// Counts returns the number of rows in each exported table.
func Counts(ctx context.Context, db *sqlx.DB) (map[string]int, error) {
	counts := make(map[string]int, len(tables))
	for _, table := range tables {
		var n int
		if err := db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
			return nil, fmt.Errorf("counting %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
