package models

import "time"

// Event is a calendar block. StartTime <= EndTime is assumed, not enforced.
type Event struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"userId" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	StartTime   time.Time `json:"startTime" db:"start_time"`
	EndTime     time.Time `json:"endTime" db:"end_time"`
	Category    string    `json:"category,omitempty" db:"category"`
	Color       string    `json:"color,omitempty" db:"color"`
}

// Overlaps reports whether the event shares at least one instant with the
// range. A nil bound leaves that side open.
func (e Event) Overlaps(start, end *time.Time) bool {
	if end != nil && e.StartTime.After(*end) {
		return false
	}
	if start != nil && e.EndTime.Before(*start) {
		return false
	}
	return true
}

type EventPatch struct {
	UserID      *int       `json:"userId,omitempty"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Color       *string    `json:"color,omitempty"`
}

func (p EventPatch) Apply(e *Event) {
	if p.UserID != nil {
		e.UserID = *p.UserID
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.StartTime != nil {
		e.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		e.EndTime = *p.EndTime
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Color != nil {
		e.Color = *p.Color
	}
}
