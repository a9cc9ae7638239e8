package goals

import (
	"fmt"
	"strings"

	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/goals"
	"github.com/julianstephens/hayati/internal/models"
)

type GoalCmd struct {
	Add      GoalAddCmd      `cmd:"" help:"Add a goal."`
	List     GoalListCmd     `cmd:"" help:"List goals with progress." default:"1"`
	Edit     GoalEditCmd     `cmd:"" help:"Edit a goal."`
	Progress GoalProgressCmd `cmd:"" help:"Set the current value of a goal."`
	Delete   GoalDeleteCmd   `cmd:"" help:"Delete a goal."`
}

type GoalAddCmd struct {
	Title       string  `arg:"" help:"Goal title."`
	Target      float64 `short:"t" help:"Target value." required:""`
	Current     float64 `help:"Starting value."`
	Unit        string  `short:"u" help:"Unit, e.g. pages or km."`
	Description string  `short:"D" help:"Longer description."`
	Category    string  `short:"c" help:"Free-form category." default:"personal"`
	Priority    string  `short:"p" help:"Priority (low|medium|high)." default:"medium" enum:"low,medium,high"`
	Start       string  `help:"Start date (YYYY-MM-DD). Defaults to today."`
	By          string  `short:"b" help:"Target date (YYYY-MM-DD)." required:""`
}

func (c *GoalAddCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	priority := models.GoalPriority(c.Priority)
	in := goals.GoalInput{
		Title:        &c.Title,
		Description:  &c.Description,
		Category:     &c.Category,
		Priority:     &priority,
		TargetValue:  &c.Target,
		CurrentValue: &c.Current,
		Unit:         &c.Unit,
		TargetDate:   &c.By,
	}
	if c.Start != "" {
		in.StartDate = &c.Start
	}
	v, err := a.Goals.Create(ctx.Background(), in)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Added goal: %s (ID: %s)\n", v.Title, v.ID)
	return nil
}

type GoalListCmd struct {
	Status  string `short:"s" help:"Filter by status (not-started|in-progress|completed|overdue)." enum:"all,not-started,in-progress,completed,overdue" default:"all"`
	ShowIDs bool   `help:"Show goal IDs." name:"show-ids"`
}

func (c *GoalListCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	status := models.GoalStatus(c.Status)
	if c.Status == "all" {
		status = ""
	}
	list, err := a.Goals.List(ctx.Background(), status)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No goals found")
		return nil
	}

	fmt.Println("Goals:")
	for _, v := range list {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", v.ID)
		}
		fmt.Printf("  %s%s - %s, due %s\n", v.Title, idStr, v.Status, v.TargetDate)
		fmt.Printf("      %s %3d%%  %g/%g %s\n", bar(v.Progress), v.Progress, v.CurrentValue, v.TargetValue, v.Unit)
	}
	return nil
}

func bar(percent int) string {
	const width = 20
	filled := percent * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

type GoalEditCmd struct {
	ID          string   `arg:"" help:"Goal ID."`
	Title       *string  `help:"New title."`
	Description *string  `short:"D" help:"New description."`
	Category    *string  `short:"c" help:"New category."`
	Priority    *string  `short:"p" help:"New priority."`
	Target      *float64 `short:"t" help:"New target value."`
	Unit        *string  `short:"u" help:"New unit."`
	Start       *string  `help:"New start date."`
	By          *string  `short:"b" help:"New target date."`
}

func (c *GoalEditCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	in := goals.GoalInput{
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		TargetValue: c.Target,
		Unit:        c.Unit,
		StartDate:   c.Start,
		TargetDate:  c.By,
	}
	if c.Priority != nil {
		p := models.GoalPriority(*c.Priority)
		in.Priority = &p
	}
	v, err := a.Goals.Update(ctx.Background(), c.ID, in)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Updated goal: %s\n", v.Title)
	return nil
}

type GoalProgressCmd struct {
	ID    string  `arg:"" help:"Goal ID."`
	Value float64 `arg:"" help:"Current value."`
}

func (c *GoalProgressCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	v, err := a.Goals.UpdateProgress(ctx.Background(), c.ID, c.Value)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s %d%% (%s)\n", v.Title, bar(v.Progress), v.Progress, v.Status)
	if v.Status == models.GoalCompleted {
		fmt.Println("✓ Goal reached")
	}
	return nil
}

type GoalDeleteCmd struct {
	ID string `arg:"" help:"Goal ID."`
}

func (c *GoalDeleteCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	if err := a.Goals.Delete(ctx.Background(), c.ID); err != nil {
		return err
	}
	fmt.Println("Deleted goal")
	return nil
}
