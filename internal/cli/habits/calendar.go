package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/constants"
	"github.com/julianstephens/hayati/internal/models"
)

const nameWidth = 20

type HabitCalendarCmd struct {
	ID   string `arg:"" optional:"" help:"Habit ID. Defaults to all active habits."`
	Days int    `short:"d" help:"Number of days to show." default:"14"`
}

func (c *HabitCalendarCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	if c.Days < 1 {
		return fmt.Errorf("days must be at least 1")
	}

	var selected []models.Habit
	if c.ID != "" {
		h, err := a.Habits.Get(ctx.Background(), c.ID)
		if err != nil {
			return err
		}
		selected = []models.Habit{h}
	} else if selected, err = a.Habits.List(ctx.Background()); err != nil {
		return err
	}
	if len(selected) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	end := time.Now().In(ctx.Location())
	start := end.AddDate(0, 0, -(c.Days - 1))
	from, to := start.Format(constants.DateFormat), end.Format(constants.DateFormat)

	fmt.Printf("Habit calendar (last %d days):\n\n", c.Days)
	fmt.Print(pad("Habit"))
	for i := 0; i < c.Days; i++ {
		fmt.Printf(" %5s", start.AddDate(0, 0, i).Format("01/02"))
	}
	fmt.Println()
	fmt.Println(strings.Repeat("-", nameWidth+6*c.Days))

	for _, h := range selected {
		days, err := a.Habits.Calendar(ctx.Background(), h.ID, from, to)
		if err != nil {
			return err
		}
		fmt.Print(pad(h.Name))
		for _, d := range days {
			mark := "."
			switch {
			case d.Completed:
				mark = "✓"
			case d.Count > 0:
				mark = fmt.Sprint(d.Count)
			}
			fmt.Printf(" %5s", mark)
		}
		fmt.Println()
	}
	return nil
}

func pad(name string) string {
	r := []rune(name)
	if len(r) > nameWidth-1 {
		r = append(r[:nameWidth-2], '…')
	}
	return fmt.Sprintf("%-*s", nameWidth, string(r))
}

type HabitStatsCmd struct {
	Days int `short:"d" help:"Window in days." default:"30"`
}

func (c *HabitStatsCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	stats, err := a.Habits.Stats(ctx.Background(), c.Days)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	fmt.Printf("Habit stats (last %d days):\n", c.Days)
	for _, s := range stats {
		fmt.Printf("  %s%5.1f%%  %d/%d days  streak %d (best %d)\n",
			pad(s.Name), s.CompletionRate, s.CompletedDays, s.TotalDays, s.CurrentStreak, s.LongestStreak)
	}
	return nil
}
