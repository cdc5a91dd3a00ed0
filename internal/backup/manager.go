package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/daydash/internal/constants"
	"github.com/julianstephens/daydash/internal/logger"
	"github.com/julianstephens/daydash/internal/storage"
)

const (
	minuteStamp = "20060102-1504"
	secondStamp = "20060102-150405"
)

// SnapshotInfo describes a snapshot file on disk.
type SnapshotInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64

	seq int // numeric suffix for same-second snapshots
}

// Manager writes timestamped SQLite snapshot files into one directory and
// keeps at most max of them.
type Manager struct {
	dir string
	max int
	now func() time.Time
}

func NewManager(dir string, max int) *Manager {
	if max < 1 {
		max = constants.MaxSnapshots
	}
	return &Manager{dir: dir, max: max, now: time.Now}
}

func (m *Manager) Dir() string {
	return m.dir
}

// Create writes snap to a new file named daydash-YYYYMMDD-HHMM.db, then
// removes the oldest files beyond the retention limit.
func (m *Manager) Create(ctx context.Context, snap storage.Snapshot) (string, error) {
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}

	db, err := OpenSQLite(path)
	if err != nil {
		return "", err
	}
	exportErr := Export(ctx, db, snap)
	if err := db.Close(); err != nil && exportErr == nil {
		exportErr = fmt.Errorf("closing snapshot: %w", err)
	}
	if exportErr != nil {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Warn("Failed to remove partial snapshot", "path", path, "error", rmErr)
		}
		return "", exportErr
	}

	if err := m.rotate(); err != nil {
		// The snapshot itself succeeded.
		logger.Warn("Failed to rotate old snapshots", "dir", m.dir, "error", err)
	}
	logger.Info("Wrote snapshot", "path", path)
	return path, nil
}

// nextPath picks an unused file name, falling back to second precision and
// then a numeric suffix when several snapshots land in the same minute.
func (m *Manager) nextPath() (string, error) {
	now := m.now()
	candidate := m.pathFor(now.Format(minuteStamp))
	if !exists(candidate) {
		return candidate, nil
	}

	stamp := now.Format(secondStamp)
	candidate = m.pathFor(stamp)
	for n := 1; exists(candidate); n++ {
		if n > 100 {
			return "", fmt.Errorf("failed to generate unique snapshot filename")
		}
		candidate = m.pathFor(fmt.Sprintf("%s-%d", stamp, n))
	}
	return candidate, nil
}

func (m *Manager) pathFor(stamp string) string {
	return filepath.Join(m.dir, constants.SnapshotFilePrefix+stamp+constants.SnapshotFileSuffix)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// List returns the snapshot files in the directory, newest first. Files that
// do not follow the naming scheme are ignored.
func (m *Manager) List() ([]SnapshotInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return []SnapshotInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	snapshots := []SnapshotInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, seq, ok := parseStamp(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		snapshots = append(snapshots, SnapshotInfo{
			Path:      filepath.Join(m.dir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
			seq:       seq,
		})
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		if snapshots[i].Timestamp.Equal(snapshots[j].Timestamp) {
			return snapshots[i].seq > snapshots[j].seq
		}
		return snapshots[i].Timestamp.After(snapshots[j].Timestamp)
	})
	return snapshots, nil
}

// parseStamp extracts the timestamp from daydash-<stamp>[-N].db.
func parseStamp(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.SnapshotFilePrefix) || !strings.HasSuffix(name, constants.SnapshotFileSuffix) {
		return time.Time{}, 0, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.SnapshotFilePrefix), constants.SnapshotFileSuffix)

	// YYYYMMDD-HHMM or YYYYMMDD-HHMMSS, optionally followed by -N.
	parts := strings.Split(stamp, "-")
	if len(parts) < 2 || len(parts) > 3 {
		return time.Time{}, 0, false
	}
	seq := 0
	if len(parts) == 3 {
		n, err := strconv.Atoi(parts[2])
		if err != nil || n < 1 {
			return time.Time{}, 0, false
		}
		seq = n
	}
	stamp = parts[0] + "-" + parts[1]
	for _, layout := range []string{minuteStamp, secondStamp} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, seq, true
		}
	}
	return time.Time{}, 0, false
}

func (m *Manager) rotate() error {
	snapshots, err := m.List()
	if err != nil {
		return err
	}
	for i := m.max; i < len(snapshots); i++ {
		if err := os.Remove(snapshots[i].Path); err != nil {
			return fmt.Errorf("failed to remove old snapshot %s: %w", snapshots[i].Path, err)
		}
		logger.Debug("Removed old snapshot", "path", snapshots[i].Path)
	}
	return nil
}
