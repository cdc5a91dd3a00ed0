package seed

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/daydash/internal/models"
	"github.com/julianstephens/daydash/internal/storage"
)

var now = time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)

func newStore() *storage.MemoryStore {
	return storage.NewMemoryStore(
		storage.WithLocation(time.UTC),
		storage.WithClock(func() time.Time { return now }),
	)
}

func TestApplySeedsEmptyStore(t *testing.T) {
	store := newStore()

	applied, err := Apply(store, now)
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if !applied {
		t.Fatal("Apply() = false on an empty store")
	}

	users := store.ListUsers()
	if len(users) != 1 || users[0].Username != "saipraneeth" || users[0].ID != 1 {
		t.Fatalf("users = %+v", users)
	}

	counts := map[string]int{
		"projects": len(store.ListProjectsByUser(1)),
		"tasks":    len(store.ListTasksByUser(1)),
		"habits":   len(store.ListHabitsByUser(1)),
		"events":   len(store.ListEventsByUser(1)),
		"quotes":   len(store.ListQuotes()),
	}
	want := map[string]int{"projects": 2, "tasks": 6, "habits": 3, "events": 4, "quotes": 8}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("seeded counts mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyHabitStreaks(t *testing.T) {
	store := newStore()
	if _, err := Apply(store, now); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}

	streaks := map[string]int{}
	for _, h := range store.ListHabits() {
		streaks[h.Name] = h.StreakCount
		if len(h.Entries) != h.StreakCount {
			t.Errorf("%s has %d entries, streak %d", h.Name, len(h.Entries), h.StreakCount)
		}
	}
	want := map[string]int{"Workout": 6, "Reading": 5, "Coding": 7}
	if diff := cmp.Diff(want, streaks); diff != "" {
		t.Errorf("streaks mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyDatesAreRelativeToNow(t *testing.T) {
	store := newStore()
	if _, err := Apply(store, now); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}

	first := store.ListTasks()[0]
	if first.DueDate == nil || !first.DueDate.Equal(now.AddDate(0, 0, 7)) {
		t.Errorf("first task due = %v, want %v", first.DueDate, now.AddDate(0, 0, 7))
	}
	if first.Status != models.TaskStatusTodo || first.Priority != models.PriorityHigh {
		t.Errorf("first task = %+v", first)
	}

	review := store.ListEvents()[0]
	wantStart := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	if !review.StartTime.Equal(wantStart) || !review.EndTime.Equal(wantStart.Add(time.Hour)) {
		t.Errorf("Design Review = %v-%v", review.StartTime, review.EndTime)
	}
}

func TestApplySkipsPopulatedStore(t *testing.T) {
	store := newStore()
	if _, err := store.CreateUser(models.User{Username: "existing"}); err != nil {
		t.Fatal(err)
	}

	applied, err := Apply(store, now)
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if applied {
		t.Error("Apply() = true on a store with users")
	}
	if got := len(store.ListQuotes()); got != 0 {
		t.Errorf("quotes = %d, want 0", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "minimal", raw: "user:\n  username: solo\n"},
		{name: "missing user", raw: "quotes: []\n", wantErr: true},
		{name: "malformed", raw: "user: [\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyRejectsBadEventTime(t *testing.T) {
	d, err := Parse([]byte("user:\n  username: solo\nevents:\n  - title: Broken\n    start: \"25:00\"\n    end: \"26:00\"\n"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if _, err := d.Apply(newStore(), now); err == nil {
		t.Error("Apply() with invalid event time should fail")
	}
}
