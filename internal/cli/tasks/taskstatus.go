package tasks

import (
	"fmt"
	"time"

	"github.com/julianstephens/hayati/internal/app"
	"github.com/julianstephens/hayati/internal/cli"
)

type TaskDoneCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	task, err := a.Tasks.Toggle(ctx.Background(), c.ID)
	if err != nil {
		return err
	}
	if task.IsCompleted {
		fmt.Printf("✓ Completed: %s\n", task.Title)
	} else {
		fmt.Printf("Reopened: %s\n", task.Title)
	}
	return nil
}

type TaskSnoozeCmd struct {
	ID  string        `arg:"" help:"Task ID."`
	For time.Duration `help:"How long to snooze." default:"10m"`
}

func (c *TaskSnoozeCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	d := c.For
	if d <= 0 {
		d = app.SnoozeDuration
	}
	task, err := a.Tasks.Snooze(ctx.Background(), c.ID, d)
	if err != nil {
		return err
	}
	fmt.Printf("Snoozed %s until %s\n", task.Title, task.DueAt.In(ctx.Location()).Format("15:04"))
	return nil
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	task, err := a.Tasks.Get(ctx.Background(), c.ID)
	if err != nil {
		return err
	}
	if err := a.Tasks.Delete(ctx.Background(), c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted task: %s\n", task.Title)
	return nil
}
