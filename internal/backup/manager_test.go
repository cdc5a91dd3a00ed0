package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/daydash/internal/storage"
)

func newTestManager(t *testing.T, max int, now time.Time) *Manager {
	t.Helper()
	m := NewManager(filepath.Join(t.TempDir(), "snapshots"), max)
	m.now = func() time.Time { return now }
	return m
}

func TestManagerCreate(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 30, 0, 0, time.Local)
	m := newTestManager(t, 14, now)

	path, err := m.Create(context.Background(), seededSnapshot(t))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if want := filepath.Join(m.Dir(), "daydash-20240615-0930.db"); path != want {
		t.Errorf("Create() path = %q, want %q", path, want)
	}

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	defer db.Close()
	counts, err := Counts(context.Background(), db)
	if err != nil {
		t.Fatalf("Counts() failed: %v", err)
	}
	if counts["tasks"] != 6 {
		t.Errorf("snapshot tasks = %d, want 6", counts["tasks"])
	}
}

func TestManagerUniqueNamesWithinMinute(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 30, 15, 0, time.Local)
	m := newTestManager(t, 14, now)
	snap := storage.Snapshot{TakenAt: now}

	want := []string{
		"daydash-20240615-0930.db",
		"daydash-20240615-093015.db",
		"daydash-20240615-093015-1.db",
		"daydash-20240615-093015-2.db",
	}
	for i, name := range want {
		path, err := m.Create(context.Background(), snap)
		if err != nil {
			t.Fatalf("Create() #%d failed: %v", i, err)
		}
		if filepath.Base(path) != name {
			t.Errorf("Create() #%d = %s, want %s", i, filepath.Base(path), name)
		}
	}

	list, err := m.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(list) != 4 || filepath.Base(list[0].Path) != "daydash-20240615-093015-2.db" {
		t.Errorf("List() newest = %+v", list)
	}
}

func TestManagerRotation(t *testing.T) {
	m := newTestManager(t, 3, time.Time{})
	snap := storage.Snapshot{}
	start := time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local)

	for i := 0; i < 5; i++ {
		ts := start.AddDate(0, 0, i)
		m.now = func() time.Time { return ts }
		if _, err := m.Create(context.Background(), snap); err != nil {
			t.Fatalf("Create() #%d failed: %v", i, err)
		}
	}

	list, err := m.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List() = %d snapshots, want 3", len(list))
	}
	for i, info := range list {
		want := start.AddDate(0, 0, 4-i)
		if !info.Timestamp.Equal(want) {
			t.Errorf("snapshot %d timestamp = %v, want %v", i, info.Timestamp, want)
		}
		if info.Size == 0 {
			t.Errorf("snapshot %d is empty", i)
		}
	}
}

func TestManagerListIgnoresForeignFiles(t *testing.T) {
	m := newTestManager(t, 14, time.Time{})
	if err := os.MkdirAll(m.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "daydash-latest.db", "daydash-20240615-0930.json", "other-20240615-0930.db"} {
		if err := os.WriteFile(filepath.Join(m.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(m.Dir(), "daydash-20240615-0930.db"), 0700); err != nil {
		t.Fatal(err)
	}

	list, err := m.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List() = %+v, want none", list)
	}
}

func TestManagerListMissingDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "absent"), 0)
	list, err := m.List()
	if err != nil || len(list) != 0 {
		t.Errorf("List() = %v, %v; want empty", list, err)
	}
	if m.max != 14 {
		t.Errorf("default max = %d, want 14", m.max)
	}
}

func TestParseStamp(t *testing.T) {
	tests := []struct {
		name    string
		want    time.Time
		wantSeq int
		ok      bool
	}{
		{name: "daydash-20240615-0930.db", want: time.Date(2024, 6, 15, 9, 30, 0, 0, time.Local), ok: true},
		{name: "daydash-20240615-093015.db", want: time.Date(2024, 6, 15, 9, 30, 15, 0, time.Local), ok: true},
		{name: "daydash-20240615-093015-12.db", want: time.Date(2024, 6, 15, 9, 30, 15, 0, time.Local), wantSeq: 12, ok: true},
		{name: "daydash-20240615-093015-x.db"},
		{name: "daydash-2024-06-15.db"},
		{name: "daydash-20240615.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, seq, ok := parseStamp(tt.name)
			if ok != tt.ok {
				t.Fatalf("parseStamp() ok = %v, want %v", ok, tt.ok)
			}
			if ok && (!got.Equal(tt.want) || seq != tt.wantSeq) {
				t.Errorf("parseStamp() = %v/%d, want %v/%d", got, seq, tt.want, tt.wantSeq)
			}
		})
	}
}
