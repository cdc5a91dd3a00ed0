package models

import (
	"slices"
	"time"
)

type Note struct {
	ID          int        `json:"id" db:"id"`
	UserID      int        `json:"userId" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Content     string     `json:"content,omitempty" db:"content"`
	Tags        []string   `json:"tags,omitempty" db:"-"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty" db:"last_updated"`
}

// Clone returns a copy that does not share the Tags backing array.
func (n Note) Clone() Note {
	n.Tags = slices.Clone(n.Tags)
	return n
}

type NotePatch struct {
	UserID      *int       `json:"userId,omitempty"`
	Title       *string    `json:"title,omitempty"`
	Content     *string    `json:"content,omitempty"`
	Tags        *[]string  `json:"tags,omitempty"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

func (p NotePatch) Apply(n *Note) {
	if p.UserID != nil {
		n.UserID = *p.UserID
	}
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Tags != nil {
		n.Tags = slices.Clone(*p.Tags)
	}
	if p.LastUpdated != nil {
		t := *p.LastUpdated
		n.LastUpdated = &t
	}
}
