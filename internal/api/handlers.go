package api

import (
	"net/http"

	"github.com/julianstephens/daydash/internal/models"
	"github.com/julianstephens/daydash/internal/validation"
)

// Shared shapes for the per-kind handlers below.

func getByID(w http.ResponseWriter, r *http.Request, kind string, get func(int) (any, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	v, err := get(id)
	if err != nil {
		writeStoreError(w, r, kind, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func deleteByID(w http.ResponseWriter, r *http.Request, del func(int)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	del(id)
	w.WriteHeader(http.StatusNoContent)
}

func listFiltered[T any](w http.ResponseWriter, r *http.Request, all func() []T, byUser func(int) []T) {
	userID, filtered, ok := userFilter(w, r)
	if !ok {
		return
	}
	if filtered {
		writeJSON(w, http.StatusOK, emptyIfNil(byUser(userID)))
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(all()))
}

func invalid(w http.ResponseWriter, result validation.Result) bool {
	if err := result.Err(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return true
	}
	return false
}

// Users

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if username := r.URL.Query().Get("username"); username != "" {
		u, err := s.store.GetUserByUsername(username)
		if err != nil {
			writeStoreError(w, r, "User", err)
			return
		}
		writeJSON(w, http.StatusOK, []models.User{u})
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(s.store.ListUsers()))
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if !decode(w, r, &u) || invalid(w, s.validator.ValidateUser(u)) {
		return
	}
	created, err := s.store.CreateUser(u)
	if err != nil {
		writeStoreError(w, r, "User", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "User", func(id int) (any, error) { return s.store.GetUser(id) })
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch models.UserPatch
	if !decode(w, r, &patch) || invalid(w, s.validator.ValidateUserPatch(patch)) {
		return
	}
	u, err := s.store.UpdateUser(id, patch)
	if err != nil {
		writeStoreError(w, r, "User", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, s.store.DeleteUser)
}

// Tasks

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	listFiltered(w, r, s.store.ListTasks, s.store.ListTasksByUser)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var t models.Task
	if !decode(w, r, &t) {
		return
	}
	t.ApplyDefaults()
	if invalid(w, s.validator.ValidateTask(t)) {
		return
	}
	writeJSON(w, http.StatusCreated, s.store.CreateTask(t))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Task", func(id int) (any, error) { return s.store.GetTask(id) })
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch models.TaskPatch
	if !decode(w, r, &patch) || invalid(w, s.validator.ValidateTaskPatch(patch)) {
		return
	}
	t, err := s.store.UpdateTask(id, patch)
	if err != nil {
		writeStoreError(w, r, "Task", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, s.store.DeleteTask)
}

// Projects

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	listFiltered(w, r, s.store.ListProjects, s.store.ListProjectsByUser)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var p models.Project
	if !decode(w, r, &p) || invalid(w, s.validator.ValidateProject(p)) {
		return
	}
	writeJSON(w, http.StatusCreated, s.store.CreateProject(p))
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Project", func(id int) (any, error) { return s.store.GetProject(id) })
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch models.ProjectPatch
	if !decode(w, r, &patch) || invalid(w, s.validator.ValidateProjectPatch(patch)) {
		return
	}
	p, err := s.store.UpdateProject(id, patch)
	if err != nil {
		writeStoreError(w, r, "Project", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, s.store.DeleteProject)
}

// Notes

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	listFiltered(w, r, s.store.ListNotes, s.store.ListNotesByUser)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var n models.Note
	if !decode(w, r, &n) || invalid(w, s.validator.ValidateNote(n)) {
		return
	}
	if n.LastUpdated == nil {
		now := s.now()
		n.LastUpdated = &now
	}
	writeJSON(w, http.StatusCreated, s.store.CreateNote(n))
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Note", func(id int) (any, error) { return s.store.GetNote(id) })
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch models.NotePatch
	if !decode(w, r, &patch) || invalid(w, s.validator.ValidateNotePatch(patch)) {
		return
	}
	if patch.LastUpdated == nil {
		now := s.now()
		patch.LastUpdated = &now
	}
	n, err := s.store.UpdateNote(id, patch)
	if err != nil {
		writeStoreError(w, r, "Note", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, s.store.DeleteNote)
}

// Events

// handleListEvents switches to the overlap query when either bound is given.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	start, end, ok := dateRange(w, r, s.store.Location())
	if !ok {
		return
	}
	if start == nil && end == nil {
		listFiltered(w, r, s.store.ListEvents, s.store.ListEventsByUser)
		return
	}

	userID, filtered, ok := userFilter(w, r)
	if !ok {
		return
	}
	events := s.store.ListEventsByRange(start, end)
	if filtered {
		kept := events[:0]
		for _, e := range events {
			if e.UserID == userID {
				kept = append(kept, e)
			}
		}
		events = kept
	}
	writeJSON(w, http.StatusOK, emptyIfNil(events))
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var e models.Event
	if !decode(w, r, &e) || invalid(w, s.validator.ValidateEvent(e)) {
		return
	}
	writeJSON(w, http.StatusCreated, s.store.CreateEvent(e))
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Event", func(id int) (any, error) { return s.store.GetEvent(id) })
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	current, err := s.store.GetEvent(id)
	if err != nil {
		writeStoreError(w, r, "Event", err)
		return
	}
	var patch models.EventPatch
	if !decode(w, r, &patch) || invalid(w, s.validator.ValidateEventPatch(current, patch)) {
		return
	}
	e, err := s.store.UpdateEvent(id, patch)
	if err != nil {
		writeStoreError(w, r, "Event", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, s.store.DeleteEvent)
}

// Quotes

func (s *Server) handleListQuotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, emptyIfNil(s.store.ListQuotes()))
}

func (s *Server) handleCreateQuote(w http.ResponseWriter, r *http.Request) {
	var q models.Quote
	if !decode(w, r, &q) || invalid(w, s.validator.ValidateQuote(q)) {
		return
	}
	writeJSON(w, http.StatusCreated, s.store.CreateQuote(q))
}

func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Quote", func(id int) (any, error) { return s.store.GetQuote(id) })
}

func (s *Server) handleRandomQuote(w http.ResponseWriter, r *http.Request) {
	q, err := s.store.RandomQuote()
	if err != nil {
		writeStoreError(w, r, "Quote", err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}
