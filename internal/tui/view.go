package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateToday:
		content = m.viewToday()
	case StateTasks:
		content = m.viewTable(m.tasks.View(), len(m.taskRows), "No tasks yet. Press 'a' to add one.")
	case StateHabits:
		content = m.viewTable(m.habits.View(), len(m.habitRows), "No habits yet. Press 'a' to add one.")
	case StatePrayers:
		content = m.viewPrayers()
	case StatePomodoro:
		content = m.viewPomodoro()
	case StateAddTask, StateAddHabit:
		content = m.form.View()
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		"",
		content,
		m.viewStatus(),
		m.help.View(m.keys),
	))
}

func (m Model) viewTabs() string {
	current := m.state
	switch current {
	case StateAddTask:
		current = StateTasks
	case StateAddHabit:
		current = StateHabits
	}

	var rendered []string
	for _, t := range tabs {
		if t.state == current {
			rendered = append(rendered, activeTabStyle.Render(t.title))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(t.title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return dangerStyle.Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return mutedStyle.Render(m.status)
	}
	return ""
}

func (m Model) viewTable(table string, rows int, empty string) string {
	if rows == 0 {
		return mutedStyle.Render(empty)
	}
	return table
}

func (m Model) viewToday() string {
	var b strings.Builder
	now := m.now()
	loc := m.location()

	b.WriteString(titleStyle.Render(utils.DateKey(now, loc)))
	b.WriteString("\n\n")

	if m.next != nil {
		when := m.next.Time
		if m.next.Tomorrow {
			when += " (tomorrow)"
		}
		fmt.Fprintf(&b, "Next prayer:  %s at %s, %s\n", m.next.Name.DisplayName(m.language()), when, m.next.Display)
	}

	pending, overdue := 0, 0
	for _, t := range m.taskRows {
		if t.IsCompleted {
			continue
		}
		pending++
		if t.IsOverdue(now) {
			overdue++
		}
	}
	fmt.Fprintf(&b, "Tasks:        %d pending", pending)
	if overdue > 0 {
		b.WriteString(", " + warningStyle.Render(fmt.Sprintf("%d overdue", overdue)))
	}
	b.WriteString("\n")

	done := 0
	for _, h := range m.habitRows {
		if m.doneToday[h.ID] {
			done++
		}
	}
	fmt.Fprintf(&b, "Habits:       %d/%d done today\n", done, len(m.habitRows))

	prayed := 0
	for _, name := range models.Prayers {
		if m.prayerLogs[name] {
			prayed++
		}
	}
	fmt.Fprintf(&b, "Prayers:      %d/%d logged\n", prayed, len(models.Prayers))
	fmt.Fprintf(&b, "Focus:        %d sessions, %d min today\n", m.stats.TodaySessions, m.stats.TodayFocusMin)
	return b.String()
}

func (m Model) viewPrayers() string {
	var b strings.Builder
	b.WriteString(m.prayers.View())
	b.WriteString("\n")
	if m.next != nil {
		fmt.Fprintf(&b, "\nNext: %s %s (%s)", m.next.Name.DisplayName(m.language()), m.next.Time, m.next.Display)
	}
	if m.prayerTimes.Method != "" {
		b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("Method: %s  (%.4f, %.4f)", m.prayerTimes.Method, m.prayerTimes.Latitude, m.prayerTimes.Longitude)))
	}
	return b.String()
}

func (m Model) viewPomodoro() string {
	st := m.timer.Status()
	state := "paused"
	if st.Running {
		state = "running"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(modeTitle(st.Mode)) + "  " + mutedStyle.Render(state))
	b.WriteString("\n")
	b.WriteString(clockStyle.Render(st.Display))
	b.WriteString("\n")
	b.WriteString(m.progress.View())
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Completed this run: %d   Towards long break: %d/%d\n", st.Completed, st.Cycle, m.app.PomodoroConfig().LongBreakEvery)
	fmt.Fprintf(&b, "Today: %d sessions, %d min   All time: %d sessions, %d min",
		m.stats.TodaySessions, m.stats.TodayFocusMin, m.stats.TotalSessions, m.stats.TotalFocusMin)
	return b.String()
}
