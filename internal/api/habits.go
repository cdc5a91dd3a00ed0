package api

import (
	"net/http"
	"time"

	"github.com/julianstephens/daydash/internal/models"
	"github.com/julianstephens/daydash/internal/utils"
)

func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	listFiltered(w, r, s.store.ListHabits, s.store.ListHabitsByUser)
}

func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var h models.Habit
	if !decode(w, r, &h) || invalid(w, s.validator.ValidateHabit(h)) {
		return
	}
	writeJSON(w, http.StatusCreated, s.store.CreateHabit(h))
}

func (s *Server) handleGetHabit(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Habit", func(id int) (any, error) { return s.store.GetHabit(id) })
}

func (s *Server) handleUpdateHabit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch models.HabitPatch
	if !decode(w, r, &patch) || invalid(w, s.validator.ValidateHabitPatch(patch)) {
		return
	}
	h, err := s.store.UpdateHabit(id, patch)
	if err != nil {
		writeStoreError(w, r, "Habit", err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, s.store.DeleteHabit)
}

func (s *Server) handleListHabitEntries(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := s.store.GetHabit(id); err != nil {
		writeStoreError(w, r, "Habit", err)
		return
	}
	start, end, ok := dateRange(w, r, s.store.Location())
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(s.store.ListHabitEntriesByRange(id, start, end)))
}

// entryRequest carries the date as text so bare YYYY-MM-DD dates resolve in
// the store's timezone rather than UTC.
type entryRequest struct {
	Date      *string `json:"date"`
	Completed *bool   `json:"completed"`
}

func (s *Server) parseEntryDate(w http.ResponseWriter, raw *string) (*time.Time, bool) {
	if raw == nil {
		return nil, true
	}
	t, err := utils.ParseTimestamp(*raw, s.store.Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, "date: "+err.Error())
		return nil, false
	}
	return &t, true
}

// handleUpsertHabitEntry records the habit's completion for a day. A second
// post for the same day updates the existing entry.
func (s *Server) handleUpsertHabitEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := s.store.GetHabit(id); err != nil {
		writeStoreError(w, r, "Habit", err)
		return
	}
	var req entryRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Date == nil {
		writeError(w, http.StatusBadRequest, "validation failed: date is required")
		return
	}
	date, ok := s.parseEntryDate(w, req.Date)
	if !ok {
		return
	}
	completed := req.Completed != nil && *req.Completed
	writeJSON(w, http.StatusCreated, s.store.UpsertHabitEntry(id, *date, completed))
}

func (s *Server) handleGetHabitEntry(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Habit entry", func(id int) (any, error) { return s.store.GetHabitEntry(id) })
}

func (s *Server) handleUpdateHabitEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req entryRequest
	if !decode(w, r, &req) {
		return
	}
	date, ok := s.parseEntryDate(w, req.Date)
	if !ok {
		return
	}
	e, err := s.store.UpdateHabitEntry(id, models.HabitEntryPatch{Date: date, Completed: req.Completed})
	if err != nil {
		writeStoreError(w, r, "Habit entry", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteHabitEntry(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, s.store.DeleteHabitEntry)
}
