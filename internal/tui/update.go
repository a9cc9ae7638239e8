package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/hayati/internal/app"
	"github.com/julianstephens/hayati/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		h := msg.Height - 8
		if h < 3 {
			h = 3
		}
		m.tasks.SetHeight(h)
		m.habits.SetHeight(h)
		m.progress.Width = min(msg.Width-8, 60)
		return m, nil

	case tickMsg:
		return m.onTick(time.Time(msg))

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		if p, ok := pm.(progress.Model); ok {
			m.progress = p
		}
		return m, cmd
	}

	if m.state == StateAddTask || m.state == StateAddHabit {
		cmd := m.updateForm(msg)
		return m, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.Tab):
		m.state = (m.state + 1) % SessionState(len(tabs))
		return m, nil
	case key.Matches(keyMsg, m.keys.ShiftTab):
		m.state = (m.state + SessionState(len(tabs)) - 1) % SessionState(len(tabs))
		return m, nil
	case key.Matches(keyMsg, m.keys.Refresh):
		m.refresh()
		m.status = "Refreshed"
		return m, nil
	}

	m.status = ""
	switch m.state {
	case StateTasks:
		return m.updateTasks(keyMsg)
	case StateHabits:
		return m.updateHabits(keyMsg)
	case StatePrayers:
		return m.updatePrayers(keyMsg)
	case StatePomodoro:
		return m.updatePomodoro(keyMsg)
	}
	return m, nil
}

// onTick advances the pomodoro timer, records a finished interval and
// recomputes the next prayer once a minute.
func (m Model) onTick(t time.Time) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tick()}

	if c := m.timer.Advance(t); c != nil {
		if _, err := m.app.Pomodoro.Record(m.ctx, *c); err != nil {
			m.err = err
		} else {
			m.status = fmt.Sprintf("%s session recorded", modeTitle(c.Mode))
		}
		m.refreshStats()
	}
	if m.state == StatePomodoro {
		cmds = append(cmds, m.progress.SetPercent(m.timerPercent()))
	}

	if minute := t.Hour()*60 + t.Minute(); minute != m.lastMinute {
		if m.lastMinute >= 0 && minute < m.lastMinute {
			// Midnight: new day's tasks, habits and prayer times.
			m.refresh()
		} else {
			m.refreshPrayers()
		}
		m.lastMinute = minute
	}
	return m, tea.Batch(cmds...)
}

func (m Model) timerPercent() float64 {
	st := m.timer.Status()
	total := m.app.PomodoroConfig().Duration(st.Mode)
	if total <= 0 {
		return 0
	}
	return 1 - float64(st.Remaining)/float64(total)
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.closeForm()
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		var err error
		if m.state == StateAddTask {
			err = m.saveTask()
		} else {
			err = m.saveHabit()
		}
		if err != nil {
			// Stay in the form so the input can be corrected.
			m.err = err
			m.form.State = huh.StateNormal
			return cmd
		}
		m.closeForm()
	case huh.StateAborted:
		m.closeForm()
	}
	return cmd
}

func (m *Model) closeForm() {
	if m.state == StateAddHabit {
		m.state = StateHabits
	} else {
		m.state = StateTasks
	}
	m.form = nil
	m.taskForm = nil
	m.habitForm = nil
}

func (m *Model) saveTask() error {
	in, err := m.taskForm.Input(m.now(), m.location())
	if err != nil {
		return err
	}
	t, err := m.app.Tasks.Create(m.ctx, in)
	if err != nil {
		return err
	}
	m.status = "Added task: " + t.Title
	m.err = nil
	m.refreshTasks()
	return nil
}

func (m *Model) saveHabit() error {
	in, err := m.habitForm.Input()
	if err != nil {
		return err
	}
	h, err := m.app.Habits.Create(m.ctx, in)
	if err != nil {
		return err
	}
	m.status = "Added habit: " + h.Name
	m.err = nil
	m.refreshHabits()
	return nil
}

func (m Model) selectedTask() (models.Task, bool) {
	i := m.tasks.Cursor()
	if i < 0 || i >= len(m.taskRows) {
		return models.Task{}, false
	}
	return m.taskRows[i], true
}

func (m Model) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		m.taskForm = NewTaskFormModel()
		m.form = NewTaskForm(m.taskForm)
		m.state = StateAddTask
		return m, m.form.Init()
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selectedTask(); ok {
			if _, err := m.app.Tasks.Toggle(m.ctx, t.ID); err != nil {
				m.err = err
			}
			m.refreshTasks()
		}
		return m, nil
	case key.Matches(msg, m.keys.Snooze):
		if t, ok := m.selectedTask(); ok {
			if _, err := m.app.Tasks.Snooze(m.ctx, t.ID, app.SnoozeDuration); err != nil {
				m.err = err
			} else {
				m.status = "Snoozed: " + t.Title
			}
			m.refreshTasks()
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selectedTask(); ok {
			if err := m.app.Tasks.Delete(m.ctx, t.ID); err != nil {
				m.err = err
			} else {
				m.status = "Deleted: " + t.Title
			}
			m.refreshTasks()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tasks, cmd = m.tasks.Update(msg)
	return m, cmd
}

func (m Model) selectedHabit() (models.Habit, bool) {
	i := m.habits.Cursor()
	if i < 0 || i >= len(m.habitRows) {
		return models.Habit{}, false
	}
	return m.habitRows[i], true
}

func (m Model) updateHabits(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		m.habitForm = NewHabitFormModel()
		m.form = NewHabitForm(m.habitForm)
		m.state = StateAddHabit
		return m, m.form.Init()
	case key.Matches(msg, m.keys.Log), key.Matches(msg, m.keys.Toggle):
		if h, ok := m.selectedHabit(); ok {
			if _, err := m.app.LogHabit(m.ctx, h.ID, 1); err != nil {
				m.err = err
			} else {
				m.status = "Logged: " + h.Name
			}
			m.refreshHabits()
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if h, ok := m.selectedHabit(); ok {
			if err := m.app.Habits.Delete(m.ctx, h.ID); err != nil {
				m.err = err
			} else {
				m.status = "Deleted: " + h.Name
			}
			m.refreshHabits()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.habits, cmd = m.habits.Update(msg)
	return m, cmd
}

func (m Model) updatePrayers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Log) || key.Matches(msg, m.keys.Toggle) {
		i := m.prayers.Cursor()
		if i < 0 || i >= len(models.PrayerEvents) {
			return m, nil
		}
		name := models.PrayerEvents[i]
		if name == models.Sunrise {
			m.status = "Sunrise is not a prayer"
			return m, nil
		}
		if m.prayerLogs[name] {
			m.status = name.DisplayName(m.language()) + " already logged"
			return m, nil
		}
		log, err := m.app.Prayers.LogPrayer(m.ctx, name, m.prayerTimes.Date, m.now(), "")
		if err != nil {
			m.err = err
			return m, nil
		}
		m.status = name.DisplayName(m.language()) + " logged"
		if !log.IsOnTime {
			m.status += " (late)"
		}
		m.refreshPrayers()
		return m, nil
	}

	var cmd tea.Cmd
	m.prayers, cmd = m.prayers.Update(msg)
	return m, cmd
}

func (m Model) updatePomodoro(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := m.now()
	switch {
	case key.Matches(msg, m.keys.Start):
		if m.timer.Status().Running {
			m.timer.Pause(now)
		} else {
			m.timer.Start(now)
		}
	case key.Matches(msg, m.keys.Reset):
		m.timer.Reset()
	case key.Matches(msg, m.keys.Work):
		m.timer.Switch(models.ModeWork)
	case key.Matches(msg, m.keys.Break):
		m.timer.Switch(models.ModeShortBreak)
	case key.Matches(msg, m.keys.Long):
		m.timer.Switch(models.ModeLongBreak)
	default:
		return m, nil
	}
	return m, m.progress.SetPercent(m.timerPercent())
}

func modeTitle(mode models.PomodoroMode) string {
	switch mode {
	case models.ModeShortBreak:
		return "Short break"
	case models.ModeLongBreak:
		return "Long break"
	default:
		return "Focus"
	}
}
