package models

import "time"

// Habit represents a recurring practice to track.
//
// StreakCount is cached on the record and only rewritten by the store's
// streak recomputation. Entries is never stored; it is filled on every read.
type Habit struct {
	ID          int          `json:"id" db:"id"`
	UserID      int          `json:"userId" db:"user_id"`
	Name        string       `json:"name" db:"name"`
	Icon        string       `json:"icon,omitempty" db:"icon"`
	Color       string       `json:"color,omitempty" db:"color"`
	StreakCount int          `json:"streakCount" db:"streak_count"`
	Entries     []HabitEntry `json:"entries" db:"-"`
}

// HabitPatch has no Entries field: entries are only managed through the
// habit entry operations.
type HabitPatch struct {
	UserID      *int    `json:"userId,omitempty"`
	Name        *string `json:"name,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Color       *string `json:"color,omitempty"`
	StreakCount *int    `json:"streakCount,omitempty"`
}

func (p HabitPatch) Apply(h *Habit) {
	if p.UserID != nil {
		h.UserID = *p.UserID
	}
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Icon != nil {
		h.Icon = *p.Icon
	}
	if p.Color != nil {
		h.Color = *p.Color
	}
	if p.StreakCount != nil {
		h.StreakCount = *p.StreakCount
	}
}

// HabitEntry represents a single day's record of a habit.
type HabitEntry struct {
	ID        int       `json:"id" db:"id"`
	HabitID   int       `json:"habitId" db:"habit_id"`
	Date      time.Time `json:"date" db:"date"`
	Completed bool      `json:"completed" db:"completed"`
}

type HabitEntryPatch struct {
	Date      *time.Time `json:"date,omitempty"`
	Completed *bool      `json:"completed,omitempty"`
}

func (p HabitEntryPatch) Apply(e *HabitEntry) {
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Completed != nil {
		e.Completed = *p.Completed
	}
}
