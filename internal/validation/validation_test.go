package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/daydash/internal/models"
)

func ptr[T any](v T) *T {
	return &v
}

func problemTypes(r Result) []ProblemType {
	types := make([]ProblemType, 0, len(r.Problems))
	for _, p := range r.Problems {
		types = append(types, p.Type)
	}
	return types
}

func TestValidateTask(t *testing.T) {
	validator := New()

	valid := models.Task{
		Title:    "Update portfolio",
		Status:   models.TaskStatusInProgress,
		Priority: models.PriorityMedium,
		Progress: 45,
	}

	tests := []struct {
		name   string
		mutate func(*models.Task)
		want   []ProblemType
	}{
		{name: "valid", mutate: func(*models.Task) {}},
		{name: "blank title", mutate: func(t *models.Task) { t.Title = "  " }, want: []ProblemType{ProblemMissingField}},
		{name: "unknown status", mutate: func(t *models.Task) { t.Status = "blocked" }, want: []ProblemType{ProblemInvalidEnum}},
		{name: "unknown priority", mutate: func(t *models.Task) { t.Priority = "urgent" }, want: []ProblemType{ProblemInvalidEnum}},
		{name: "progress over 100", mutate: func(t *models.Task) { t.Progress = 101 }, want: []ProblemType{ProblemOutOfRange}},
		{name: "negative progress", mutate: func(t *models.Task) { t.Progress = -1 }, want: []ProblemType{ProblemOutOfRange}},
		{
			name:   "several problems",
			mutate: func(t *models.Task) { t.Title = ""; t.Status = ""; t.Progress = 200 },
			want:   []ProblemType{ProblemMissingField, ProblemInvalidEnum, ProblemOutOfRange},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := valid
			tt.mutate(&task)
			result := validator.ValidateTask(task)

			got := problemTypes(result)
			if len(got) != len(tt.want) {
				t.Fatalf("ValidateTask() problems = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("problem %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestValidateTaskPatchOnlyChecksSuppliedFields(t *testing.T) {
	validator := New()

	if r := validator.ValidateTaskPatch(models.TaskPatch{}); r.HasProblems() {
		t.Errorf("empty patch: %s", r.FormatReport())
	}
	if r := validator.ValidateTaskPatch(models.TaskPatch{Progress: ptr(100), Status: ptr(models.TaskStatusDone)}); r.HasProblems() {
		t.Errorf("valid patch: %s", r.FormatReport())
	}

	r := validator.ValidateTaskPatch(models.TaskPatch{Title: ptr(""), Priority: ptr(models.TaskPriority("none"))})
	if len(r.Problems) != 2 {
		t.Errorf("ValidateTaskPatch() = %d problems, want 2: %s", len(r.Problems), r.FormatReport())
	}
}

func TestValidateRequiredFields(t *testing.T) {
	validator := New()

	tests := []struct {
		name  string
		r     Result
		field string
	}{
		{name: "user username", r: validator.ValidateUser(models.User{Password: "pw"}), field: "username"},
		{name: "user password", r: validator.ValidateUser(models.User{Username: "sai"}), field: "password"},
		{name: "project name", r: validator.ValidateProject(models.Project{}), field: "name"},
		{name: "habit name", r: validator.ValidateHabit(models.Habit{}), field: "name"},
		{name: "note title", r: validator.ValidateNote(models.Note{}), field: "title"},
		{name: "quote text", r: validator.ValidateQuote(models.Quote{Author: "Anon"}), field: "text"},
		{name: "project patch name", r: validator.ValidateProjectPatch(models.ProjectPatch{Name: ptr("")}), field: "name"},
		{name: "user patch username", r: validator.ValidateUserPatch(models.UserPatch{Username: ptr("")}), field: "username"},
		{name: "note patch title", r: validator.ValidateNotePatch(models.NotePatch{Title: ptr(" ")}), field: "title"},
		{name: "habit patch name", r: validator.ValidateHabitPatch(models.HabitPatch{Name: ptr("")}), field: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.r.Problems) != 1 {
				t.Fatalf("problems = %d, want 1: %s", len(tt.r.Problems), tt.r.FormatReport())
			}
			p := tt.r.Problems[0]
			if p.Type != ProblemMissingField || p.Field != tt.field {
				t.Errorf("problem = %+v, want missing %s", p, tt.field)
			}
		})
	}
}

func TestValidateEvent(t *testing.T) {
	validator := New()
	nine := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	ten := nine.Add(time.Hour)

	if r := validator.ValidateEvent(models.Event{Title: "Standup", StartTime: nine, EndTime: ten}); r.HasProblems() {
		t.Errorf("valid event: %s", r.FormatReport())
	}
	if r := validator.ValidateEvent(models.Event{Title: "Instant", StartTime: nine, EndTime: nine}); r.HasProblems() {
		t.Errorf("zero-length event: %s", r.FormatReport())
	}

	r := validator.ValidateEvent(models.Event{Title: "Backwards", StartTime: ten, EndTime: nine})
	if len(r.Problems) != 1 || r.Problems[0].Type != ProblemInvalidTimeRange {
		t.Errorf("backwards event: %s", r.FormatReport())
	}

	r = validator.ValidateEvent(models.Event{Title: "No times"})
	if len(r.Problems) != 2 {
		t.Errorf("event without times = %d problems, want 2", len(r.Problems))
	}
}

func TestValidateEventPatchUsesCurrentRange(t *testing.T) {
	validator := New()
	nine := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	current := models.Event{Title: "Design Review", StartTime: nine, EndTime: nine.Add(time.Hour)}

	r := validator.ValidateEventPatch(current, models.EventPatch{StartTime: ptr(nine.Add(2 * time.Hour))})
	if len(r.Problems) != 1 || r.Problems[0].Type != ProblemInvalidTimeRange {
		t.Errorf("moving start past end: %s", r.FormatReport())
	}

	r = validator.ValidateEventPatch(current, models.EventPatch{EndTime: ptr(nine.Add(3 * time.Hour))})
	if r.HasProblems() {
		t.Errorf("extending end: %s", r.FormatReport())
	}
}

func TestCheckEventOverlaps(t *testing.T) {
	validator := New()
	at := func(h, m int) time.Time { return time.Date(2024, 6, 15, h, m, 0, 0, time.UTC) }

	events := []models.Event{
		{Title: "Client Meeting", StartTime: at(14, 30), EndTime: at(15, 30)},
		{Title: "Team Standup", StartTime: at(9, 0), EndTime: at(9, 30)},
		{Title: "Design Review", StartTime: at(11, 0), EndTime: at(12, 0)},
		{Title: "Lunch", StartTime: at(11, 30), EndTime: at(12, 30)},
		{Title: "Sync", StartTime: at(12, 30), EndTime: at(13, 0)}, // touches Lunch only
	}

	result := validator.CheckEventOverlaps(events)
	if len(result.Problems) != 1 {
		t.Fatalf("CheckEventOverlaps() = %d problems, want 1: %s", len(result.Problems), result.FormatReport())
	}
	p := result.Problems[0]
	if p.Type != ProblemOverlappingEvents || p.Items[0] != "Design Review" || p.Items[1] != "Lunch" {
		t.Errorf("problem = %+v", p)
	}
	if !strings.Contains(p.Description, "11:00-12:00") {
		t.Errorf("description %q missing time range", p.Description)
	}

	// Input order is left untouched.
	if events[0].Title != "Client Meeting" {
		t.Error("CheckEventOverlaps() reordered its input")
	}
}

func TestResultErr(t *testing.T) {
	var clean Result
	if clean.Err() != nil {
		t.Errorf("Err() on clean result = %v", clean.Err())
	}
	if got := clean.FormatReport(); got != "No problems detected." {
		t.Errorf("FormatReport() = %q", got)
	}

	r := New().ValidateQuote(models.Quote{})
	err := r.Err()
	if err == nil {
		t.Fatal("Err() = nil, want error")
	}
	if !strings.Contains(err.Error(), "text is required") || !strings.Contains(err.Error(), "author is required") {
		t.Errorf("Err() = %q", err)
	}
}
