package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

type Task struct {
	ID          int          `json:"id" db:"id"`
	UserID      int          `json:"userId" db:"user_id"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description,omitempty" db:"description"`
	Status      TaskStatus   `json:"status" db:"status"`
	Priority    TaskPriority `json:"priority" db:"priority"`
	DueDate     *time.Time   `json:"dueDate,omitempty" db:"due_date"`
	Category    string       `json:"category,omitempty" db:"category"`
	Project     string       `json:"project,omitempty" db:"project"` // project name, not id
	Progress    int          `json:"progress" db:"progress"`         // 0-100
}

// ApplyDefaults fills the status and priority a new task gets when the
// caller leaves them blank.
func (t *Task) ApplyDefaults() {
	if t.Status == "" {
		t.Status = TaskStatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
}

// TaskPatch carries the fields of a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	UserID      *int          `json:"userId,omitempty"`
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	DueDate     *time.Time    `json:"dueDate,omitempty"`
	Category    *string       `json:"category,omitempty"`
	Project     *string       `json:"project,omitempty"`
	Progress    *int          `json:"progress,omitempty"`
}

func (p TaskPatch) Apply(t *Task) {
	if p.UserID != nil {
		t.UserID = *p.UserID
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Project != nil {
		t.Project = *p.Project
	}
	if p.Progress != nil {
		t.Progress = *p.Progress
	}
}
