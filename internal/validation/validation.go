package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/daydash/internal/constants"
	"github.com/julianstephens/daydash/internal/models"
)

// ProblemType represents the kind of validation problem
type ProblemType string

const (
	ProblemMissingField      ProblemType = "missing_field"
	ProblemInvalidEnum       ProblemType = "invalid_enum"
	ProblemOutOfRange        ProblemType = "out_of_range"
	ProblemInvalidTimeRange  ProblemType = "invalid_time_range"
	ProblemOverlappingEvents ProblemType = "overlapping_events"
)

// Problem is one rule a record or patch breaks.
type Problem struct {
	Type        ProblemType
	Field       string
	Description string
	Items       []string // titles of the records involved, if any
}

// Result collects every problem found, in detection order.
type Result struct {
	Problems []Problem
}

func (r *Result) HasProblems() bool {
	return len(r.Problems) > 0
}

// Err returns nil for a clean result, otherwise an error listing every problem.
func (r *Result) Err() error {
	if !r.HasProblems() {
		return nil
	}
	msgs := make([]string, len(r.Problems))
	for i, p := range r.Problems {
		msgs[i] = p.Description
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

// FormatReport returns a human-readable report of all problems
func (r *Result) FormatReport() string {
	if !r.HasProblems() {
		return "No problems detected."
	}
	var b strings.Builder
	b.WriteString("Problems detected:\n")
	for _, p := range r.Problems {
		fmt.Fprintf(&b, "- %s\n", p.Description)
	}
	return b.String()
}

func (r *Result) add(typ ProblemType, field, format string, args ...any) {
	r.Problems = append(r.Problems, Problem{
		Type:        typ,
		Field:       field,
		Description: fmt.Sprintf(format, args...),
	})
}

func (r *Result) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		r.add(ProblemMissingField, field, "%s is required", field)
	}
}

// requiredIfSet rejects a patch that blanks a required field.
func (r *Result) requiredIfSet(field string, value *string) {
	if value != nil {
		r.required(field, *value)
	}
}

func (r *Result) status(s models.TaskStatus) {
	switch s {
	case models.TaskStatusTodo, models.TaskStatusInProgress, models.TaskStatusDone:
	default:
		r.add(ProblemInvalidEnum, "status", "status %q must be one of todo, in-progress, done", s)
	}
}

func (r *Result) priority(p models.TaskPriority) {
	switch p {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
	default:
		r.add(ProblemInvalidEnum, "priority", "priority %q must be one of low, medium, high", p)
	}
}

func (r *Result) progress(p int) {
	if p < 0 || p > 100 {
		r.add(ProblemOutOfRange, "progress", "progress %d must be between 0 and 100", p)
	}
}

func (r *Result) timeRange(start, end time.Time) {
	if end.Before(start) {
		r.add(ProblemInvalidTimeRange, "endTime", "endTime %s is before startTime %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
}

// Validator checks incoming records and patches before they reach the store.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateUser(u models.User) Result {
	var r Result
	r.required("username", u.Username)
	r.required("password", u.Password)
	return r
}

func (v *Validator) ValidateUserPatch(p models.UserPatch) Result {
	var r Result
	r.requiredIfSet("username", p.Username)
	r.requiredIfSet("password", p.Password)
	return r
}

func (v *Validator) ValidateTask(t models.Task) Result {
	var r Result
	r.required("title", t.Title)
	r.status(t.Status)
	r.priority(t.Priority)
	r.progress(t.Progress)
	return r
}

func (v *Validator) ValidateTaskPatch(p models.TaskPatch) Result {
	var r Result
	r.requiredIfSet("title", p.Title)
	if p.Status != nil {
		r.status(*p.Status)
	}
	if p.Priority != nil {
		r.priority(*p.Priority)
	}
	if p.Progress != nil {
		r.progress(*p.Progress)
	}
	return r
}

func (v *Validator) ValidateProject(p models.Project) Result {
	var r Result
	r.required("name", p.Name)
	return r
}

func (v *Validator) ValidateProjectPatch(p models.ProjectPatch) Result {
	var r Result
	r.requiredIfSet("name", p.Name)
	return r
}

func (v *Validator) ValidateHabit(h models.Habit) Result {
	var r Result
	r.required("name", h.Name)
	if h.StreakCount < 0 {
		r.add(ProblemOutOfRange, "streakCount", "streakCount %d cannot be negative", h.StreakCount)
	}
	return r
}

func (v *Validator) ValidateHabitPatch(p models.HabitPatch) Result {
	var r Result
	r.requiredIfSet("name", p.Name)
	if p.StreakCount != nil && *p.StreakCount < 0 {
		r.add(ProblemOutOfRange, "streakCount", "streakCount %d cannot be negative", *p.StreakCount)
	}
	return r
}

func (v *Validator) ValidateNote(n models.Note) Result {
	var r Result
	r.required("title", n.Title)
	return r
}

func (v *Validator) ValidateNotePatch(p models.NotePatch) Result {
	var r Result
	r.requiredIfSet("title", p.Title)
	return r
}

func (v *Validator) ValidateEvent(e models.Event) Result {
	var r Result
	r.required("title", e.Title)
	if e.StartTime.IsZero() {
		r.add(ProblemMissingField, "startTime", "startTime is required")
	}
	if e.EndTime.IsZero() {
		r.add(ProblemMissingField, "endTime", "endTime is required")
	}
	if !e.StartTime.IsZero() && !e.EndTime.IsZero() {
		r.timeRange(e.StartTime, e.EndTime)
	}
	return r
}

// ValidateEventPatch checks a patch against the event it will be applied to,
// so a patch moving only one end of the range is still checked.
func (v *Validator) ValidateEventPatch(current models.Event, p models.EventPatch) Result {
	var r Result
	r.requiredIfSet("title", p.Title)
	merged := current
	p.Apply(&merged)
	r.timeRange(merged.StartTime, merged.EndTime)
	return r
}

func (v *Validator) ValidateQuote(q models.Quote) Result {
	var r Result
	r.required("text", q.Text)
	r.required("author", q.Author)
	return r
}

// CheckEventOverlaps reports every pair of events whose time ranges overlap.
// Overlaps are allowed in the store; the dashboard surfaces them as warnings.
func (v *Validator) CheckEventOverlaps(events []models.Event) Result {
	var r Result

	sorted := make([]models.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			a, b := sorted[i], sorted[j]
			// Sorted by start: nothing later can overlap a once b starts at or after a's end.
			if !b.StartTime.Before(a.EndTime) {
				break
			}
			r.Problems = append(r.Problems, Problem{
				Type: ProblemOverlappingEvents,
				Description: fmt.Sprintf("Events \"%s\" (%s-%s) and \"%s\" (%s-%s) overlap",
					a.Title, a.StartTime.Format(constants.TimeFormat), a.EndTime.Format(constants.TimeFormat),
					b.Title, b.StartTime.Format(constants.TimeFormat), b.EndTime.Format(constants.TimeFormat)),
				Items: []string{a.Title, b.Title},
			})
		}
	}
	return r
}
