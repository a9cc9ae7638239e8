package tasks

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/tasks"
	"github.com/julianstephens/hayati/internal/tui"
	"github.com/julianstephens/hayati/internal/utils"
)

var priorities = map[string]models.Priority{
	"low":    models.PriorityLow,
	"medium": models.PriorityMedium,
	"high":   models.PriorityHigh,
	"urgent": models.PriorityUrgent,
}

type TaskAddCmd struct {
	Title       string   `arg:"" optional:"" help:"Task title."`
	Description string   `short:"D" help:"Longer description."`
	Category    string   `short:"c" help:"Category (daily|study|health|shopping|work|personal|religious)." default:"daily" enum:"daily,study,health,shopping,work,personal,religious"`
	Priority    string   `short:"p" help:"Priority (low|medium|high|urgent)." default:"medium" enum:"low,medium,high,urgent"`
	Due         string   `short:"d" help:"Due time: 'YYYY-MM-DD HH:MM', 'YYYY-MM-DD' or 'HH:MM' today."`
	Recurring   string   `short:"r" help:"Repeat pattern (daily|weekly|monthly|weekdays|weekends)."`
	Tags        []string `short:"t" help:"Tags, comma separated."`
	Interactive bool     `short:"i" help:"Fill in the task with a form."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}

	var in tasks.TaskInput
	if c.Interactive {
		in, err = c.fromForm(ctx)
	} else {
		in, err = c.input(time.Now(), ctx.Location())
	}
	if err != nil {
		return err
	}

	task, err := a.Tasks.Create(ctx.Background(), in)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Added task: %s (ID: %s)\n", task.Title, task.ID)
	if task.DueAt != nil {
		fmt.Printf("  Due %s\n", task.DueAt.In(ctx.Location()).Format("Mon Jan 2 15:04"))
	}
	return nil
}

func (c *TaskAddCmd) input(now time.Time, loc *time.Location) (tasks.TaskInput, error) {
	if strings.TrimSpace(c.Title) == "" {
		return tasks.TaskInput{}, errors.New("task title is required (or use --interactive)")
	}
	category := models.TaskCategory(c.Category)
	priority := priorities[c.Priority]
	in := tasks.TaskInput{
		Title:       &c.Title,
		Description: &c.Description,
		Category:    &category,
		Priority:    &priority,
	}
	if c.Due != "" {
		due, err := utils.ParseDue(c.Due, now, loc)
		if err != nil {
			return tasks.TaskInput{}, err
		}
		in.DueAt = &due
	}
	if c.Recurring != "" {
		recurring := true
		pattern := models.RecurringPattern(c.Recurring)
		in.IsRecurring = &recurring
		in.RecurringPattern = &pattern
	}
	if len(c.Tags) > 0 {
		in.Tags = &c.Tags
	}
	return in, nil
}

func (c *TaskAddCmd) fromForm(ctx *cli.Context) (tasks.TaskInput, error) {
	fm := tui.NewTaskFormModel()
	fm.Title = c.Title
	if err := tui.NewTaskForm(fm).Run(); err != nil {
		return tasks.TaskInput{}, err
	}
	return fm.Input(time.Now(), ctx.Location())
}
