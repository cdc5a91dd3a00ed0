package models

type Project struct {
	ID          int    `json:"id" db:"id"`
	UserID      int    `json:"userId" db:"user_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`
	Color       string `json:"color,omitempty" db:"color"`
}

type ProjectPatch struct {
	UserID      *int    `json:"userId,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

func (p ProjectPatch) Apply(pr *Project) {
	if p.UserID != nil {
		pr.UserID = *p.UserID
	}
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
	if p.Color != nil {
		pr.Color = *p.Color
	}
}
