package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/julianstephens/daydash/internal/constants"
	"github.com/julianstephens/daydash/internal/logger"
	"github.com/julianstephens/daydash/internal/storage"
	"github.com/julianstephens/daydash/internal/utils"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

// writeStoreError maps store sentinels onto HTTP statuses. kind names the
// record in the not-found message, e.g. "Task not found".
func writeStoreError(w http.ResponseWriter, r *http.Request, kind string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, kind+" not found")
	case errors.Is(err, storage.ErrUsernameTaken), errors.Is(err, storage.ErrDuplicateDay):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, storage.ErrNoQuotes):
		writeError(w, http.StatusInternalServerError, "Failed to fetch quote")
	default:
		logger.Error("Store operation failed", "kind", kind, "error", err, "request_id", RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// userFilter reads the optional ?userId= query parameter.
func userFilter(w http.ResponseWriter, r *http.Request) (int, bool, bool) {
	raw := r.URL.Query().Get("userId")
	if raw == "" {
		return 0, false, true
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId")
		return 0, false, false
	}
	return id, true, true
}

// dateRange reads the optional ?startDate= and ?endDate= query parameters.
func dateRange(w http.ResponseWriter, r *http.Request, loc *time.Location) (start, end *time.Time, ok bool) {
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"startDate", &start}, {"endDate", &end}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		t, err := utils.ParseTimestamp(raw, loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, p.name+": "+err.Error())
			return nil, nil, false
		}
		*p.dst = &t
	}
	return start, end, true
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
