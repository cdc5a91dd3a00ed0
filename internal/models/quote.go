package models

type Quote struct {
	ID     int    `json:"id" db:"id"`
	Text   string `json:"text" db:"text"`
	Author string `json:"author" db:"author"`
}
