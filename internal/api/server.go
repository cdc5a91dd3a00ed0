// Package api exposes the record store over a JSON HTTP interface.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/daydash/internal/constants"
	"github.com/julianstephens/daydash/internal/logger"
	"github.com/julianstephens/daydash/internal/storage"
	"github.com/julianstephens/daydash/internal/validation"
)

type Server struct {
	store     storage.Provider
	validator *validation.Validator
	now       func() time.Time
	mux       *http.ServeMux
}

type Option func(*Server)

// WithClock replaces time.Now for note timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

func New(store storage.Provider, opts ...Option) *Server {
	s := &Server{
		store:     store,
		validator: validation.New(),
		now:       time.Now,
		mux:       http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	// Users
	s.mux.HandleFunc("GET /api/users", s.handleListUsers)
	s.mux.HandleFunc("POST /api/users", s.handleCreateUser)
	s.mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)
	s.mux.HandleFunc("PATCH /api/users/{id}", s.handleUpdateUser)
	s.mux.HandleFunc("DELETE /api/users/{id}", s.handleDeleteUser)

	// Tasks
	s.mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	s.mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	s.mux.HandleFunc("GET /api/tasks/{id}", s.handleGetTask)
	s.mux.HandleFunc("PATCH /api/tasks/{id}", s.handleUpdateTask)
	s.mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)

	// Projects
	s.mux.HandleFunc("GET /api/projects", s.handleListProjects)
	s.mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	s.mux.HandleFunc("GET /api/projects/{id}", s.handleGetProject)
	s.mux.HandleFunc("PATCH /api/projects/{id}", s.handleUpdateProject)
	s.mux.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)

	// Habits
	s.mux.HandleFunc("GET /api/habits", s.handleListHabits)
	s.mux.HandleFunc("POST /api/habits", s.handleCreateHabit)
	s.mux.HandleFunc("GET /api/habits/{id}", s.handleGetHabit)
	s.mux.HandleFunc("PATCH /api/habits/{id}", s.handleUpdateHabit)
	s.mux.HandleFunc("DELETE /api/habits/{id}", s.handleDeleteHabit)
	s.mux.HandleFunc("GET /api/habits/{id}/entries", s.handleListHabitEntries)
	s.mux.HandleFunc("POST /api/habits/{id}/entries", s.handleUpsertHabitEntry)

	// Habit entries
	s.mux.HandleFunc("GET /api/habit-entries/{id}", s.handleGetHabitEntry)
	s.mux.HandleFunc("PATCH /api/habit-entries/{id}", s.handleUpdateHabitEntry)
	s.mux.HandleFunc("DELETE /api/habit-entries/{id}", s.handleDeleteHabitEntry)

	// Notes
	s.mux.HandleFunc("GET /api/notes", s.handleListNotes)
	s.mux.HandleFunc("POST /api/notes", s.handleCreateNote)
	s.mux.HandleFunc("GET /api/notes/{id}", s.handleGetNote)
	s.mux.HandleFunc("PATCH /api/notes/{id}", s.handleUpdateNote)
	s.mux.HandleFunc("DELETE /api/notes/{id}", s.handleDeleteNote)

	// Events
	s.mux.HandleFunc("GET /api/events", s.handleListEvents)
	s.mux.HandleFunc("POST /api/events", s.handleCreateEvent)
	s.mux.HandleFunc("GET /api/events/{id}", s.handleGetEvent)
	s.mux.HandleFunc("PATCH /api/events/{id}", s.handleUpdateEvent)
	s.mux.HandleFunc("DELETE /api/events/{id}", s.handleDeleteEvent)

	// Quotes
	s.mux.HandleFunc("GET /api/quotes", s.handleListQuotes)
	s.mux.HandleFunc("POST /api/quotes", s.handleCreateQuote)
	s.mux.HandleFunc("GET /api/quotes/random", s.handleRandomQuote)
	s.mux.HandleFunc("GET /api/quotes/{id}", s.handleGetQuote)

	s.mux.HandleFunc("GET /api/export", s.handleExport)
}

// Handler returns the routes wrapped in request id, logging and panic
// recovery middleware.
func (s *Server) Handler() http.Handler {
	return withRequestID(withLogging(withRecovery(s.mux)))
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully, waiting up to the shutdown timeout for in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  constants.ServerReadTimeout,
		WriteTimeout: constants.ServerWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		logger.Info("Server stopped")
		return nil
	})
	return g.Wait()
}
