package storage

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/julianstephens/daydash/internal/logger"
	"github.com/julianstephens/daydash/internal/models"
	"github.com/julianstephens/daydash/internal/utils"
)

// MemoryStore keeps every record in process memory. It is safe for
// concurrent use: one lock guards all tables, and every mutation, including
// an entry upsert together with its streak recomputation, runs under it.
type MemoryStore struct {
	mu sync.RWMutex

	loc                   *time.Location
	now                   func() time.Time
	rng                   *rand.Rand
	recomputeOnUncomplete bool

	users        *table[models.User]
	tasks        *table[models.Task]
	projects     *table[models.Project]
	habits       *table[models.Habit]
	habitEntries *table[models.HabitEntry]
	notes        *table[models.Note]
	events       *table[models.Event]
	quotes       *table[models.Quote]
}

type Option func(*MemoryStore)

// WithLocation sets the timezone used to truncate dates to calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *MemoryStore) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces time.Now, which decides what "today" is for streaks.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRandSource fixes the source RandomQuote draws from.
func WithRandSource(src rand.Source) Option {
	return func(s *MemoryStore) {
		if src != nil {
			s.rng = rand.New(src)
		}
	}
}

// WithRecomputeOnUncomplete also recomputes a habit's streak when an upsert
// leaves the entry uncompleted. By default only completions trigger it, so
// un-marking today keeps the previous count until the next completion.
func WithRecomputeOnUncomplete(enabled bool) Option {
	return func(s *MemoryStore) {
		s.recomputeOnUncomplete = enabled
	}
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		loc: time.Local,
		now: time.Now,
		rng: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),

		users:        newTable[models.User](nil),
		tasks:        newTable(cloneTask),
		projects:     newTable[models.Project](nil),
		habits:       newTable(cloneHabit),
		habitEntries: newTable[models.HabitEntry](nil),
		notes:        newTable(models.Note.Clone),
		events:       newTable[models.Event](nil),
		quotes:       newTable[models.Quote](nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func cloneTask(t models.Task) models.Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

// Entries are never stored on the habit record itself.
func cloneHabit(h models.Habit) models.Habit {
	h.Entries = nil
	return h
}

func (s *MemoryStore) Location() *time.Location {
	return s.loc
}

// Users

func (s *MemoryStore) CreateUser(u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usernameTaken(u.Username, 0) {
		return models.User{}, ErrUsernameTaken
	}
	if u.Theme == "" {
		u.Theme = models.DefaultTheme
	}
	u.ID = s.users.allocate()
	s.users.put(u.ID, u)
	return u, nil
}

func (s *MemoryStore) usernameTaken(username string, exceptID int) bool {
	for _, u := range s.users.rows {
		if u.Username == username && u.ID != exceptID {
			return true
		}
	}
	return false
}

func (s *MemoryStore) GetUser(id int) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.users, id)
}

func (s *MemoryStore) GetUserByUsername(username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := s.users.filter(func(u models.User) bool { return u.Username == username })
	if len(matches) == 0 {
		return models.User{}, ErrNotFound
	}
	return matches[0], nil
}

func (s *MemoryStore) ListUsers() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.all()
}

func (s *MemoryStore) UpdateUser(id int, patch models.UserPatch) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users.get(id)
	if !ok {
		return models.User{}, ErrNotFound
	}
	if patch.Username != nil && s.usernameTaken(*patch.Username, id) {
		return models.User{}, ErrUsernameTaken
	}
	patch.Apply(&u)
	s.users.put(id, u)
	return u, nil
}

func (s *MemoryStore) DeleteUser(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users.remove(id)
}

// Tasks

func (s *MemoryStore) CreateTask(t models.Task) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.tasks.allocate()
	s.tasks.put(t.ID, t)
	return t
}

func (s *MemoryStore) GetTask(id int) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.tasks, id)
}

func (s *MemoryStore) ListTasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks.all()
}

func (s *MemoryStore) ListTasksByUser(userID int) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks.filter(func(t models.Task) bool { return t.UserID == userID })
}

func (s *MemoryStore) UpdateTask(id int, patch models.TaskPatch) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks.get(id)
	if !ok {
		return models.Task{}, ErrNotFound
	}
	patch.Apply(&t)
	s.tasks.put(id, t)
	return t, nil
}

func (s *MemoryStore) DeleteTask(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks.remove(id)
}

// Projects

func (s *MemoryStore) CreateProject(p models.Project) models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.projects.allocate()
	s.projects.put(p.ID, p)
	return p
}

func (s *MemoryStore) GetProject(id int) (models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.projects, id)
}

func (s *MemoryStore) ListProjects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects.all()
}

func (s *MemoryStore) ListProjectsByUser(userID int) []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects.filter(func(p models.Project) bool { return p.UserID == userID })
}

func (s *MemoryStore) UpdateProject(id int, patch models.ProjectPatch) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects.get(id)
	if !ok {
		return models.Project{}, ErrNotFound
	}
	patch.Apply(&p)
	s.projects.put(id, p)
	return p, nil
}

func (s *MemoryStore) DeleteProject(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects.remove(id)
}

// Habits

func (s *MemoryStore) CreateHabit(h models.Habit) models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()

	h.ID = s.habits.allocate()
	s.habits.put(h.ID, h)
	return s.withEntries(h)
}

func (s *MemoryStore) GetHabit(id int) (models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.habits.get(id)
	if !ok {
		return models.Habit{}, ErrNotFound
	}
	return s.withEntries(h), nil
}

func (s *MemoryStore) ListHabits() []models.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enrichHabits(s.habits.all())
}

func (s *MemoryStore) ListHabitsByUser(userID int) []models.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enrichHabits(s.habits.filter(func(h models.Habit) bool { return h.UserID == userID }))
}

func (s *MemoryStore) UpdateHabit(id int, patch models.HabitPatch) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.habits.get(id)
	if !ok {
		return models.Habit{}, ErrNotFound
	}
	patch.Apply(&h)
	s.habits.put(id, h)
	return s.withEntries(h), nil
}

// DeleteHabit removes the habit and every entry recorded against it.
func (s *MemoryStore) DeleteHabit(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.habits.remove(id)
	removed := 0
	for _, e := range s.entriesFor(id) {
		if s.habitEntries.remove(e.ID) {
			removed++
		}
	}
	if removed > 0 {
		logger.Debug("Removed habit entries with habit", "habit", id, "entries", removed)
	}
}

func (s *MemoryStore) withEntries(h models.Habit) models.Habit {
	h.Entries = s.entriesFor(h.ID)
	return h
}

func (s *MemoryStore) enrichHabits(habits []models.Habit) []models.Habit {
	for i := range habits {
		habits[i] = s.withEntries(habits[i])
	}
	return habits
}

func (s *MemoryStore) entriesFor(habitID int) []models.HabitEntry {
	return s.habitEntries.filter(func(e models.HabitEntry) bool { return e.HabitID == habitID })
}

// Habit Entries

func (s *MemoryStore) GetHabitEntry(id int) (models.HabitEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.habitEntries, id)
}

func (s *MemoryStore) ListHabitEntries(habitID int) []models.HabitEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entriesFor(habitID)
}

// ListHabitEntriesByRange filters a habit's entries on their date, inclusive
// on both supplied bounds. A nil bound is open.
func (s *MemoryStore) ListHabitEntriesByRange(habitID int, start, end *time.Time) []models.HabitEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.habitEntries.filter(func(e models.HabitEntry) bool {
		if e.HabitID != habitID {
			return false
		}
		if start != nil && e.Date.Before(*start) {
			return false
		}
		if end != nil && e.Date.After(*end) {
			return false
		}
		return true
	})
}

// UpsertHabitEntry records completion for the calendar day of date. An
// existing entry for that habit and day keeps its id and date and only has
// Completed overwritten; otherwise a new entry is created.
func (s *MemoryStore) UpsertHabitEntry(habitID int, date time.Time, completed bool) models.HabitEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, found := s.entryOnDay(habitID, date, 0)
	if found {
		entry.Completed = completed
	} else {
		entry = models.HabitEntry{
			ID:        s.habitEntries.allocate(),
			HabitID:   habitID,
			Date:      date,
			Completed: completed,
		}
	}
	s.habitEntries.put(entry.ID, entry)

	if completed || s.recomputeOnUncomplete {
		s.recomputeStreak(habitID)
	}
	return entry
}

// UpdateHabitEntry merges patch onto an entry. Moving an entry onto a day
// that already holds another entry of the same habit fails with ErrDuplicateDay.
func (s *MemoryStore) UpdateHabitEntry(id int, patch models.HabitEntryPatch) (models.HabitEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.habitEntries.get(id)
	if !ok {
		return models.HabitEntry{}, ErrNotFound
	}
	if patch.Date != nil {
		if _, clash := s.entryOnDay(entry.HabitID, *patch.Date, id); clash {
			return models.HabitEntry{}, ErrDuplicateDay
		}
	}
	patch.Apply(&entry)
	s.habitEntries.put(id, entry)

	if patch.Completed != nil || patch.Date != nil {
		s.recomputeStreak(entry.HabitID)
	}
	return entry, nil
}

func (s *MemoryStore) DeleteHabitEntry(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.habitEntries.get(id)
	if !ok {
		return
	}
	s.habitEntries.remove(id)
	s.recomputeStreak(entry.HabitID)
}

// entryOnDay returns the first entry of habitID on date's calendar day,
// skipping exceptID.
func (s *MemoryStore) entryOnDay(habitID int, date time.Time, exceptID int) (models.HabitEntry, bool) {
	for _, id := range s.habitEntries.order {
		e := s.habitEntries.rows[id]
		if e.HabitID == habitID && e.ID != exceptID && utils.SameDay(e.Date, date, s.loc) {
			return e, true
		}
	}
	return models.HabitEntry{}, false
}

// recomputeStreak must be called with the write lock held.
func (s *MemoryStore) recomputeStreak(habitID int) {
	h, ok := s.habits.get(habitID)
	if !ok {
		return
	}
	streak := computeStreak(s.entriesFor(habitID), s.now(), s.loc)
	if streak != h.StreakCount {
		logger.Debug("Habit streak changed", "habit", habitID, "from", h.StreakCount, "to", streak)
	}
	h.StreakCount = streak
	s.habits.put(habitID, h)
}

// Notes

func (s *MemoryStore) CreateNote(n models.Note) models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = s.notes.allocate()
	s.notes.put(n.ID, n)
	return n
}

func (s *MemoryStore) GetNote(id int) (models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.notes, id)
}

func (s *MemoryStore) ListNotes() []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes.all()
}

func (s *MemoryStore) ListNotesByUser(userID int) []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes.filter(func(n models.Note) bool { return n.UserID == userID })
}

func (s *MemoryStore) UpdateNote(id int, patch models.NotePatch) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes.get(id)
	if !ok {
		return models.Note{}, ErrNotFound
	}
	patch.Apply(&n)
	s.notes.put(id, n)
	return n, nil
}

func (s *MemoryStore) DeleteNote(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes.remove(id)
}

// Events

func (s *MemoryStore) CreateEvent(e models.Event) models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.events.allocate()
	s.events.put(e.ID, e)
	return e
}

func (s *MemoryStore) GetEvent(id int) (models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.events, id)
}

func (s *MemoryStore) ListEvents() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events.all()
}

func (s *MemoryStore) ListEventsByUser(userID int) []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events.filter(func(e models.Event) bool { return e.UserID == userID })
}

// ListEventsByRange returns events whose [StartTime, EndTime] overlaps
// [start, end]. With both bounds nil every event is returned.
func (s *MemoryStore) ListEventsByRange(start, end *time.Time) []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events.filter(func(e models.Event) bool { return e.Overlaps(start, end) })
}

func (s *MemoryStore) UpdateEvent(id int, patch models.EventPatch) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events.get(id)
	if !ok {
		return models.Event{}, ErrNotFound
	}
	patch.Apply(&e)
	s.events.put(id, e)
	return e, nil
}

func (s *MemoryStore) DeleteEvent(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events.remove(id)
}

// Quotes

func (s *MemoryStore) CreateQuote(q models.Quote) models.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	q.ID = s.quotes.allocate()
	s.quotes.put(q.ID, q)
	return q
}

func (s *MemoryStore) GetQuote(id int) (models.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.quotes, id)
}

func (s *MemoryStore) ListQuotes() []models.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quotes.all()
}

// RandomQuote picks uniformly among stored quotes. It takes the write lock
// because the random source is not safe for concurrent use.
func (s *MemoryStore) RandomQuote() (models.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quotes.len() == 0 {
		return models.Quote{}, ErrNoQuotes
	}
	id := s.quotes.order[s.rng.IntN(s.quotes.len())]
	q, _ := s.quotes.get(id)
	return q, nil
}

// Utils

func (s *MemoryStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		TakenAt:      s.now(),
		Users:        s.users.all(),
		Tasks:        s.tasks.all(),
		Projects:     s.projects.all(),
		Habits:       s.enrichHabits(s.habits.all()),
		HabitEntries: s.habitEntries.all(),
		Notes:        s.notes.all(),
		Events:       s.events.all(),
		Quotes:       s.quotes.all(),
	}
}

func lookup[T any](t *table[T], id int) (T, error) {
	v, ok := t.get(id)
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return v, nil
}
