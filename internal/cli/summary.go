package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daydash/internal/constants"
	"github.com/julianstephens/daydash/internal/models"
	"github.com/julianstephens/daydash/internal/storage"
	"github.com/julianstephens/daydash/internal/utils"
	"github.com/julianstephens/daydash/internal/validation"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true).
			MarginTop(1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	quoteStyle = lipgloss.NewStyle().
			Italic(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color("240")).
			PaddingLeft(1)
)

// habitWindow is how many days the habit grid shows, ending today.
const habitWindow = 7

type SummaryCmd struct {
	User string `help:"Username whose dashboard to show. Defaults to the first user." short:"u"`
}

func (c *SummaryCmd) Run(ctx *Context) error {
	user, err := c.resolveUser(ctx.Store)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.Out, renderSummary(ctx.Store, user, ctx.Now()))
	return nil
}

func (c *SummaryCmd) resolveUser(store storage.Provider) (models.User, error) {
	if c.User != "" {
		user, err := store.GetUserByUsername(c.User)
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, fmt.Errorf("user %q not found", c.User)
		}
		return user, err
	}
	users := store.ListUsers()
	if len(users) == 0 {
		return models.User{}, errors.New("no users yet; enable seed in the config or create one through the API")
	}
	return users[0], nil
}

// renderSummary draws the dashboard for user as of now.
func renderSummary(store storage.Provider, user models.User, now time.Time) string {
	loc := store.Location()
	var b strings.Builder

	name := user.DisplayName
	if name == "" {
		name = user.Username
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s · %s", name, now.In(loc).Format("Monday, January 2"))))
	b.WriteString("\n")

	writeTasks(&b, store.ListTasksByUser(user.ID), now, loc)
	writeHabits(&b, store.ListHabitsByUser(user.ID), now, loc)
	writeEvents(&b, store, user.ID, now, loc)

	if q, err := store.RandomQuote(); err == nil {
		b.WriteString("\n")
		b.WriteString(quoteStyle.Render(fmt.Sprintf("%q\n%s", q.Text, mutedStyle.Render("- "+q.Author))))
		b.WriteString("\n")
	}
	return b.String()
}

func writeTasks(b *strings.Builder, tasks []models.Task, now time.Time, loc *time.Location) {
	b.WriteString(sectionStyle.Render("Tasks"))
	b.WriteString("\n")

	counts := map[models.TaskStatus]int{}
	var overdue, dueToday []models.Task
	for _, t := range tasks {
		counts[t.Status]++
		if t.Status == models.TaskStatusDone || t.DueDate == nil {
			continue
		}
		switch days := utils.DaysBetween(*t.DueDate, now, loc); {
		case days < 0:
			overdue = append(overdue, t)
		case days == 0:
			dueToday = append(dueToday, t)
		}
	}

	fmt.Fprintf(b, "  %d to do · %d in progress · %s\n",
		counts[models.TaskStatusTodo], counts[models.TaskStatusInProgress],
		doneStyle.Render(fmt.Sprintf("%d done", counts[models.TaskStatusDone])))
	for _, t := range dueToday {
		fmt.Fprintf(b, "  due today: %s\n", t.Title)
	}
	for _, t := range overdue {
		fmt.Fprintf(b, "  %s\n", warningStyle.Render(fmt.Sprintf("overdue: %s (%s)", t.Title, t.DueDate.In(loc).Format(constants.DateFormat))))
	}
}

func writeHabits(b *strings.Builder, habits []models.Habit, now time.Time, loc *time.Location) {
	b.WriteString(sectionStyle.Render("Habits"))
	b.WriteString("\n")
	if len(habits) == 0 {
		b.WriteString(mutedStyle.Render("  No habits tracked"))
		b.WriteString("\n")
		return
	}

	for _, h := range habits {
		done := map[string]bool{}
		for _, e := range h.Entries {
			if e.Completed {
				done[utils.DayKey(e.Date, loc)] = true
			}
		}
		var grid strings.Builder
		for i := habitWindow - 1; i >= 0; i-- {
			if done[utils.DayKey(now.AddDate(0, 0, -i), loc)] {
				grid.WriteString(doneStyle.Render("■"))
			} else {
				grid.WriteString(mutedStyle.Render("□"))
			}
		}
		fmt.Fprintf(b, "  %-20s %s  %d day streak\n", h.Name, grid.String(), h.StreakCount)
	}
}

func writeEvents(b *strings.Builder, store storage.Provider, userID int, now time.Time, loc *time.Location) {
	b.WriteString(sectionStyle.Render("Today"))
	b.WriteString("\n")

	start := utils.StartOfDay(now, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	var events []models.Event
	for _, e := range store.ListEventsByRange(&start, &end) {
		if e.UserID == userID {
			events = append(events, e)
		}
	}
	if len(events) == 0 {
		b.WriteString(mutedStyle.Render("  Nothing scheduled"))
		b.WriteString("\n")
		return
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	for _, e := range events {
		fmt.Fprintf(b, "  %s-%s  %s\n",
			e.StartTime.In(loc).Format(constants.TimeFormat), e.EndTime.In(loc).Format(constants.TimeFormat), e.Title)
	}

	overlaps := validation.New().CheckEventOverlaps(events)
	for _, p := range overlaps.Problems {
		fmt.Fprintf(b, "  %s\n", warningStyle.Render("! "+p.Description))
	}
}
