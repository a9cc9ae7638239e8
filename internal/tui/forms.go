package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/hayati/internal/habits"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/tasks"
	"github.com/julianstephens/hayati/internal/utils"
)

// TaskForm holds the values edited by the add-task form.
type TaskForm struct {
	Title       string
	Description string
	Category    models.TaskCategory
	Priority    models.Priority
	Due         string
	Tags        string
}

func NewTaskFormModel() *TaskForm {
	return &TaskForm{Category: models.TaskCategoryPersonal, Priority: models.PriorityMedium}
}

// NewTaskForm creates a form for adding tasks
func NewTaskForm(fm *TaskForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title cannot be empty")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Value(&fm.Description),
			huh.NewSelect[models.TaskCategory]().
				Title("Category").
				Options(
					huh.NewOption("Personal", models.TaskCategoryPersonal),
					huh.NewOption("Daily", models.TaskCategoryDaily),
					huh.NewOption("Work", models.TaskCategoryWork),
					huh.NewOption("Study", models.TaskCategoryStudy),
					huh.NewOption("Health", models.TaskCategoryHealth),
					huh.NewOption("Shopping", models.TaskCategoryShopping),
					huh.NewOption("Religious", models.TaskCategoryReligious),
				).
				Value(&fm.Category),
			huh.NewSelect[models.Priority]().
				Title("Priority").
				Options(
					huh.NewOption("Low", models.PriorityLow),
					huh.NewOption("Medium", models.PriorityMedium),
					huh.NewOption("High", models.PriorityHigh),
					huh.NewOption("Urgent", models.PriorityUrgent),
				).
				Value(&fm.Priority),
			huh.NewInput().
				Title("Due").
				Description("YYYY-MM-DD HH:MM, YYYY-MM-DD or HH:MM; leave empty for none").
				Value(&fm.Due).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, err := utils.ParseDue(s, time.Now(), time.Local)
					return err
				}),
			huh.NewInput().
				Title("Tags").
				Description("Comma separated").
				Value(&fm.Tags),
		),
	).WithTheme(huh.ThemeDracula())
}

// Input converts the form values, resolving the due time in loc.
func (fm TaskForm) Input(now time.Time, loc *time.Location) (tasks.TaskInput, error) {
	title := strings.TrimSpace(fm.Title)
	in := tasks.TaskInput{
		Title:       &title,
		Description: &fm.Description,
		Category:    &fm.Category,
		Priority:    &fm.Priority,
	}
	if strings.TrimSpace(fm.Due) != "" {
		due, err := utils.ParseDue(fm.Due, now, loc)
		if err != nil {
			return tasks.TaskInput{}, err
		}
		in.DueAt = &due
	}
	if strings.TrimSpace(fm.Tags) != "" {
		tags := strings.Split(fm.Tags, ",")
		in.Tags = &tags
	}
	return in, nil
}

// HabitForm holds the values edited by the add-habit form.
type HabitForm struct {
	Name         string
	Category     models.HabitCategory
	Frequency    models.HabitFrequency
	TargetCount  string
	ReminderTime string
}

func NewHabitFormModel() *HabitForm {
	return &HabitForm{Category: models.HabitCategoryPersonal, Frequency: models.FrequencyDaily, TargetCount: "1"}
}

// NewHabitForm creates a form for adding habits
func NewHabitForm(fm *HabitForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[models.HabitCategory]().
				Title("Category").
				Options(
					huh.NewOption("Personal", models.HabitCategoryPersonal),
					huh.NewOption("Religious", models.HabitCategoryReligious),
					huh.NewOption("Health", models.HabitCategoryHealth),
					huh.NewOption("Study", models.HabitCategoryStudy),
				).
				Value(&fm.Category),
			huh.NewSelect[models.HabitFrequency]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", models.FrequencyDaily),
					huh.NewOption("Weekly", models.FrequencyWeekly),
				).
				Value(&fm.Frequency),
			huh.NewInput().
				Title("Target per period").
				Value(&fm.TargetCount).
				Validate(func(s string) error {
					i, err := strconv.Atoi(s)
					if err != nil {
						return err
					}
					if i < 1 {
						return fmt.Errorf("target must be at least 1")
					}
					return nil
				}),
			huh.NewInput().
				Title("Reminder (HH:MM)").
				Description("Leave empty for no reminder").
				Value(&fm.ReminderTime).
				Validate(func(s string) error {
					if s == "" || utils.ValidateTimeFormat(s) {
						return nil
					}
					return fmt.Errorf("invalid time format, use HH:MM")
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func (fm HabitForm) Input() (habits.HabitInput, error) {
	target, err := strconv.Atoi(fm.TargetCount)
	if err != nil {
		return habits.HabitInput{}, fmt.Errorf("invalid target: %w", err)
	}
	name := strings.TrimSpace(fm.Name)
	in := habits.HabitInput{
		Name:        &name,
		Category:    &fm.Category,
		Frequency:   &fm.Frequency,
		TargetCount: &target,
	}
	if fm.ReminderTime != "" {
		in.ReminderTime = &fm.ReminderTime
	}
	return in, nil
}
