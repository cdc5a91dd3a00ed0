package storage

import (
	"errors"
	"time"

	"github.com/julianstephens/daydash/internal/models"
)

var (
	// ErrNotFound is returned by get and update operations for an unknown id.
	ErrNotFound = errors.New("record not found")
	// ErrNoQuotes is returned by RandomQuote when no quotes are stored.
	ErrNoQuotes = errors.New("no quotes available")
	// ErrUsernameTaken is returned when creating or renaming a user to an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrDuplicateDay is returned when moving a habit entry onto a day that already has one.
	ErrDuplicateDay = errors.New("habit already has an entry for that day")
)

// Provider is the record store consumed by the API and CLI layers.
// Deletes are idempotent and never fail.
type Provider interface {
	// Users
	CreateUser(models.User) (models.User, error)
	GetUser(id int) (models.User, error)
	GetUserByUsername(username string) (models.User, error)
	ListUsers() []models.User
	UpdateUser(id int, patch models.UserPatch) (models.User, error)
	DeleteUser(id int)

	// Tasks
	CreateTask(models.Task) models.Task
	GetTask(id int) (models.Task, error)
	ListTasks() []models.Task
	ListTasksByUser(userID int) []models.Task
	UpdateTask(id int, patch models.TaskPatch) (models.Task, error)
	DeleteTask(id int)

	// Projects
	CreateProject(models.Project) models.Project
	GetProject(id int) (models.Project, error)
	ListProjects() []models.Project
	ListProjectsByUser(userID int) []models.Project
	UpdateProject(id int, patch models.ProjectPatch) (models.Project, error)
	DeleteProject(id int)

	// Habits
	CreateHabit(models.Habit) models.Habit
	GetHabit(id int) (models.Habit, error)
	ListHabits() []models.Habit
	ListHabitsByUser(userID int) []models.Habit
	UpdateHabit(id int, patch models.HabitPatch) (models.Habit, error)
	DeleteHabit(id int)

	// Habit Entries
	GetHabitEntry(id int) (models.HabitEntry, error)
	ListHabitEntries(habitID int) []models.HabitEntry
	ListHabitEntriesByRange(habitID int, start, end *time.Time) []models.HabitEntry
	UpsertHabitEntry(habitID int, date time.Time, completed bool) models.HabitEntry
	UpdateHabitEntry(id int, patch models.HabitEntryPatch) (models.HabitEntry, error)
	DeleteHabitEntry(id int)

	// Notes
	CreateNote(models.Note) models.Note
	GetNote(id int) (models.Note, error)
	ListNotes() []models.Note
	ListNotesByUser(userID int) []models.Note
	UpdateNote(id int, patch models.NotePatch) (models.Note, error)
	DeleteNote(id int)

	// Events
	CreateEvent(models.Event) models.Event
	GetEvent(id int) (models.Event, error)
	ListEvents() []models.Event
	ListEventsByUser(userID int) []models.Event
	ListEventsByRange(start, end *time.Time) []models.Event
	UpdateEvent(id int, patch models.EventPatch) (models.Event, error)
	DeleteEvent(id int)

	// Quotes
	CreateQuote(models.Quote) models.Quote
	GetQuote(id int) (models.Quote, error)
	ListQuotes() []models.Quote
	RandomQuote() (models.Quote, error)

	// Utils
	Location() *time.Location
	Snapshot() Snapshot
}

// Snapshot is a point-in-time copy of every table, in insertion order.
type Snapshot struct {
	TakenAt      time.Time           `json:"takenAt"`
	Users        []models.User       `json:"users"`
	Tasks        []models.Task       `json:"tasks"`
	Projects     []models.Project    `json:"projects"`
	Habits       []models.Habit      `json:"habits"`
	HabitEntries []models.HabitEntry `json:"habitEntries"`
	Notes        []models.Note       `json:"notes"`
	Events       []models.Event      `json:"events"`
	Quotes       []models.Quote      `json:"quotes"`
}
