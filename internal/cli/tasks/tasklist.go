package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/tasks"
)

type TaskListCmd struct {
	Status   string `short:"s" help:"Filter by status (all|pending|completed|overdue)." default:"all" enum:"all,pending,completed,overdue"`
	Category string `short:"c" help:"Filter by category."`
	Query    string `short:"q" help:"Match title or description."`
	Tag      string `help:"Filter by tag."`
	ShowIDs  bool   `help:"Show task IDs." name:"show-ids"`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}

	list, err := a.Tasks.List(ctx.Background(), tasks.Filter{
		Status:   c.Status,
		Category: models.TaskCategory(c.Category),
		Query:    c.Query,
		Tag:      c.Tag,
	})
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}
	if len(list) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	now := time.Now()
	loc := ctx.Location()
	fmt.Println("Tasks:")
	for _, t := range list {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", t.ID)
		}
		fmt.Printf("  [%s] %s%s - %s, %s\n", cli.Check(t.IsCompleted), t.Title, idStr, t.Category, t.Priority)

		var details []string
		if t.DueAt != nil {
			due := "due " + t.DueAt.In(loc).Format("Mon Jan 2 15:04")
			if t.IsOverdue(now) {
				due += " (overdue)"
			}
			details = append(details, due)
		}
		if t.IsRecurring {
			details = append(details, "repeats "+string(t.RecurringPattern))
		}
		if len(t.Tags) > 0 {
			details = append(details, "#"+strings.Join(t.Tags, " #"))
		}
		if len(details) > 0 {
			fmt.Printf("      %s\n", strings.Join(details, " · "))
		}
	}
	return nil
}
