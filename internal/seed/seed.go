// Package seed loads the bundled sample dashboard into an empty store.
package seed

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/daydash/internal/constants"
	"github.com/julianstephens/daydash/internal/logger"
	"github.com/julianstephens/daydash/internal/models"
	"github.com/julianstephens/daydash/internal/storage"
	"github.com/julianstephens/daydash/internal/utils"
)

//go:embed seed.yaml
var sampleData []byte

type Data struct {
	User     userSeed      `yaml:"user"`
	Projects []projectSeed `yaml:"projects"`
	Tasks    []taskSeed    `yaml:"tasks"`
	Habits   []habitSeed   `yaml:"habits"`
	Events   []eventSeed   `yaml:"events"`
	Quotes   []quoteSeed   `yaml:"quotes"`
}

type userSeed struct {
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	DisplayName string `yaml:"display_name"`
	Avatar      string `yaml:"avatar"`
	Theme       string `yaml:"theme"`
}

type projectSeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Color       string `yaml:"color"`
}

type taskSeed struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
	Priority    string `yaml:"priority"`
	DueInDays   int    `yaml:"due_in_days"`
	Project     string `yaml:"project"`
	Progress    int    `yaml:"progress"`
}

type habitSeed struct {
	Name          string `yaml:"name"`
	Icon          string `yaml:"icon"`
	Color         string `yaml:"color"`
	CompletedDays int    `yaml:"completed_days"`
}

type eventSeed struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Start       string `yaml:"start"` // HH:MM today
	End         string `yaml:"end"`
	Category    string `yaml:"category"`
	Color       string `yaml:"color"`
}

type quoteSeed struct {
	Text   string `yaml:"text"`
	Author string `yaml:"author"`
}

// Parse decodes seed YAML.
func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parsing seed data: %w", err)
	}
	if d.User.Username == "" {
		return nil, fmt.Errorf("parsing seed data: user.username is required")
	}
	return &d, nil
}

// Default returns the bundled sample data.
func Default() *Data {
	d, err := Parse(sampleData)
	if err != nil {
		panic(err)
	}
	return d
}

// Apply loads the bundled sample data. See Data.Apply.
func Apply(store storage.Provider, now time.Time) (bool, error) {
	return Default().Apply(store, now)
}

// Apply populates store relative to now, but only when the store has no
// users yet. It reports whether anything was written.
func (d *Data) Apply(store storage.Provider, now time.Time) (bool, error) {
	if len(store.ListUsers()) > 0 {
		logger.Debug("Store already has users, skipping seed")
		return false, nil
	}

	loc := store.Location()
	now = now.In(loc)
	today := utils.StartOfDay(now, loc)

	user, err := store.CreateUser(models.User{
		Username:    d.User.Username,
		Password:    d.User.Password,
		DisplayName: d.User.DisplayName,
		Avatar:      d.User.Avatar,
		Theme:       d.User.Theme,
	})
	if err != nil {
		return false, fmt.Errorf("seeding user: %w", err)
	}

	for _, p := range d.Projects {
		store.CreateProject(models.Project{
			UserID:      user.ID,
			Name:        p.Name,
			Description: p.Description,
			Color:       p.Color,
		})
	}

	for _, t := range d.Tasks {
		due := now.AddDate(0, 0, t.DueInDays)
		store.CreateTask(models.Task{
			UserID:      user.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      models.TaskStatus(t.Status),
			Priority:    models.TaskPriority(t.Priority),
			DueDate:     &due,
			Project:     t.Project,
			Progress:    t.Progress,
		})
	}

	for _, h := range d.Habits {
		habit := store.CreateHabit(models.Habit{
			UserID: user.ID,
			Name:   h.Name,
			Icon:   h.Icon,
			Color:  h.Color,
		})
		for i := 0; i < h.CompletedDays; i++ {
			store.UpsertHabitEntry(habit.ID, now.AddDate(0, 0, -i), true)
		}
	}

	for _, e := range d.Events {
		start, err := atClock(today, e.Start, loc)
		if err != nil {
			return false, fmt.Errorf("seeding event %q: %w", e.Title, err)
		}
		end, err := atClock(today, e.End, loc)
		if err != nil {
			return false, fmt.Errorf("seeding event %q: %w", e.Title, err)
		}
		store.CreateEvent(models.Event{
			UserID:      user.ID,
			Title:       e.Title,
			Description: e.Description,
			StartTime:   start,
			EndTime:     end,
			Category:    e.Category,
			Color:       e.Color,
		})
	}

	for _, q := range d.Quotes {
		store.CreateQuote(models.Quote{Text: q.Text, Author: q.Author})
	}

	logger.Info("Seeded sample data",
		"user", user.Username,
		"tasks", len(d.Tasks),
		"habits", len(d.Habits),
		"events", len(d.Events),
		"quotes", len(d.Quotes))
	return true, nil
}

func atClock(day time.Time, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.TimeFormat, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
