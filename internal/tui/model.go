// Package tui is the terminal dashboard: today's overview, tasks, habits,
// prayer times and a pomodoro timer.
package tui

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/hayati/internal/app"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/pomodoro"
	"github.com/julianstephens/hayati/internal/tasks"
	"github.com/julianstephens/hayati/internal/utils"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateTasks
	StateHabits
	StatePrayers
	StatePomodoro
	StateAddTask
	StateAddHabit
)

var tabs = []struct {
	state SessionState
	title string
}{
	{StateToday, "Today"},
	{StateTasks, "Tasks"},
	{StateHabits, "Habits"},
	{StatePrayers, "Prayers"},
	{StatePomodoro, "Pomodoro"},
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type Model struct {
	app *app.App
	ctx context.Context
	now func() time.Time

	state    SessionState
	keys     KeyMap
	help     help.Model
	width    int
	height   int
	quitting bool

	tasks     table.Model
	taskRows  []models.Task
	habits    table.Model
	habitRows []models.Habit
	doneToday map[string]bool

	prayers     table.Model
	prayerTimes models.PrayerTime
	prayerLogs  map[models.PrayerName]bool
	next        *models.NextPrayer
	lastMinute  int

	timer    *pomodoro.Timer
	progress progress.Model
	stats    models.PomodoroStats

	form      *huh.Form
	taskForm  *TaskForm
	habitForm *HabitForm

	status string
	err    error
}

// NewModel loads the dashboard data from a.
func NewModel(ctx context.Context, a *app.App) Model {
	m := Model{
		app:        a,
		ctx:        ctx,
		now:        time.Now,
		state:      StateToday,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		tasks:      newTable([]table.Column{{Title: "", Width: 2}, {Title: "Title", Width: 32}, {Title: "Category", Width: 10}, {Title: "Priority", Width: 8}, {Title: "Due", Width: 16}}),
		habits:     newTable([]table.Column{{Title: "", Width: 2}, {Title: "Habit", Width: 28}, {Title: "Frequency", Width: 9}, {Title: "Streak", Width: 6}, {Title: "Best", Width: 6}, {Title: "Reminder", Width: 8}}),
		prayers:    newTable([]table.Column{{Title: "", Width: 2}, {Title: "Prayer", Width: 10}, {Title: "Time", Width: 6}}),
		doneToday:  map[string]bool{},
		prayerLogs: map[models.PrayerName]bool{},
		lastMinute: -1,
		timer:      pomodoro.NewTimer(a.PomodoroConfig()),
		progress:   progress.New(progress.WithDefaultGradient()),
	}
	m.refresh()
	return m
}

func newTable(cols []table.Column) table.Model {
	return table.New(table.WithColumns(cols), table.WithFocused(true), table.WithHeight(10))
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) location() *time.Location {
	return utils.MustLocation(m.app.Settings().Timezone)
}

func (m Model) language() string {
	return m.app.Settings().Language
}

// refresh reloads everything shown on the tabs. The first failure is kept
// in m.err and shown in the status line.
func (m *Model) refresh() {
	m.err = nil
	m.refreshTasks()
	m.refreshHabits()
	m.refreshPrayers()
	m.refreshStats()
}

func (m *Model) setErr(err error) {
	if err != nil && m.err == nil {
		m.err = err
	}
}

func (m *Model) refreshTasks() {
	list, err := m.app.Tasks.List(m.ctx, tasks.Filter{})
	if err != nil {
		m.setErr(err)
		return
	}
	m.taskRows = list
	now := m.now()
	loc := m.location()
	rows := make([]table.Row, len(list))
	for i, t := range list {
		due := ""
		if t.DueAt != nil {
			due = t.DueAt.In(loc).Format("2006-01-02 15:04")
			if t.IsOverdue(now) {
				due += " !"
			}
		}
		rows[i] = table.Row{checkbox(t.IsCompleted), t.Title, string(t.Category), t.Priority.String(), due}
	}
	m.tasks.SetRows(rows)
}

func (m *Model) refreshHabits() {
	list, err := m.app.Habits.List(m.ctx)
	if err != nil {
		m.setErr(err)
		return
	}
	m.habitRows = list
	today := utils.DateKey(m.now(), m.location())
	m.doneToday = make(map[string]bool, len(list))
	rows := make([]table.Row, len(list))
	for i, h := range list {
		days, err := m.app.Habits.Calendar(m.ctx, h.ID, today, today)
		if err != nil {
			m.setErr(err)
		} else if len(days) == 1 && days[0].Completed {
			m.doneToday[h.ID] = true
		}
		rows[i] = table.Row{checkbox(m.doneToday[h.ID]), h.Name, string(h.Frequency), strconv.Itoa(h.CurrentStreak), strconv.Itoa(h.LongestStreak), h.ReminderTime}
	}
	m.habits.SetRows(rows)
}

func (m *Model) refreshPrayers() {
	now := m.now()
	times, err := m.app.Prayers.ForDate(m.ctx, now)
	if err != nil {
		m.setErr(err)
		return
	}
	m.prayerTimes = times

	logs, err := m.app.Prayers.Logs(m.ctx, times.Date)
	if err != nil {
		m.setErr(err)
	}
	m.prayerLogs = make(map[models.PrayerName]bool, len(logs))
	for _, l := range logs {
		m.prayerLogs[l.PrayerName] = true
	}

	lang := m.language()
	rows := make([]table.Row, 0, len(models.PrayerEvents))
	for _, name := range models.PrayerEvents {
		mark := checkbox(m.prayerLogs[name])
		if name == models.Sunrise {
			mark = ""
		}
		rows = append(rows, table.Row{mark, name.DisplayName(lang), times.TimeOf(name)})
	}
	m.prayers.SetRows(rows)

	next, err := m.app.Prayers.GetNextPrayer(m.ctx, now)
	if err != nil {
		m.setErr(err)
		m.next = nil
		return
	}
	m.next = &next
}

func (m *Model) refreshStats() {
	stats, err := m.app.Pomodoro.Stats(m.ctx)
	if err != nil {
		m.setErr(err)
		return
	}
	m.stats = stats
}

func checkbox(done bool) string {
	if done {
		return "✓"
	}
	return "○"
}
