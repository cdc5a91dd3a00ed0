package storage

import (
	"slices"
	"time"

	"github.com/julianstephens/daydash/internal/models"
	"github.com/julianstephens/daydash/internal/utils"
)

// computeStreak counts consecutive calendar days with a completed entry,
// ending today or yesterday relative to now. Several completed entries on
// the same day count once.
func computeStreak(entries []models.HabitEntry, now time.Time, loc *time.Location) int {
	seen := make(map[string]struct{}, len(entries))
	days := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		if !e.Completed {
			continue
		}
		key := utils.DayKey(e.Date, loc)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, utils.StartOfDay(e.Date, loc))
	}
	if len(days) == 0 {
		return 0
	}

	slices.SortFunc(days, func(a, b time.Time) int { return b.Compare(a) })

	// The chain is broken unless the newest completion is today or yesterday.
	if gap := utils.DaysBetween(now, days[0], loc); gap != 0 && gap != 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if utils.DaysBetween(days[i-1], days[i], loc) != 1 {
			break
		}
		streak++
	}
	return streak
}
