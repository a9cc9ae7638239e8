package tasks

import (
	"fmt"
	"time"

	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/tasks"
	"github.com/julianstephens/hayati/internal/utils"
)

type TaskEditCmd struct {
	ID          string   `arg:"" help:"Task ID."`
	Title       *string  `help:"New title."`
	Description *string  `short:"D" help:"New description."`
	Category    *string  `short:"c" help:"New category."`
	Priority    *string  `short:"p" help:"New priority (low|medium|high|urgent)."`
	Due         *string  `short:"d" help:"New due time."`
	ClearDue    bool     `help:"Remove the due time."`
	Recurring   *string  `short:"r" help:"Repeat pattern, or 'none' to stop repeating."`
	Tags        []string `short:"t" help:"Replace tags."`
	ClearTags   bool     `help:"Remove all tags."`
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}

	in, err := c.input(time.Now(), ctx.Location())
	if err != nil {
		return err
	}
	task, err := a.Tasks.Update(ctx.Background(), c.ID, in)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Updated task: %s\n", task.Title)
	return nil
}

func (c *TaskEditCmd) input(now time.Time, loc *time.Location) (tasks.TaskInput, error) {
	in := tasks.TaskInput{
		Title:       c.Title,
		Description: c.Description,
		ClearDue:    c.ClearDue,
	}
	switch {
	case c.ClearTags:
		in.Tags = &[]string{}
	case len(c.Tags) > 0:
		in.Tags = &c.Tags
	}
	if c.Category != nil {
		category := models.TaskCategory(*c.Category)
		in.Category = &category
	}
	if c.Priority != nil {
		priority, ok := priorities[*c.Priority]
		if !ok {
			return tasks.TaskInput{}, fmt.Errorf("unknown priority %q", *c.Priority)
		}
		in.Priority = &priority
	}
	if c.Due != nil {
		due, err := utils.ParseDue(*c.Due, now, loc)
		if err != nil {
			return tasks.TaskInput{}, err
		}
		in.DueAt = &due
	}
	if c.Recurring != nil {
		recurring := *c.Recurring != "none"
		in.IsRecurring = &recurring
		if recurring {
			pattern := models.RecurringPattern(*c.Recurring)
			in.RecurringPattern = &pattern
		}
	}
	return in, nil
}
