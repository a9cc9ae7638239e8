package habits

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/constants"
	"github.com/julianstephens/hayati/internal/habits"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/tui"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Add a new habit."`
	List     HabitListCmd     `cmd:"" help:"List habits with their streaks." default:"1"`
	Edit     HabitEditCmd     `cmd:"" help:"Edit a habit."`
	Log      HabitLogCmd      `cmd:"" help:"Record a completion."`
	Calendar HabitCalendarCmd `cmd:"" help:"Show completion history (ASCII grid)."`
	Stats    HabitStatsCmd    `cmd:"" help:"Show completion rates."`
	Delete   HabitDeleteCmd   `cmd:"" help:"Deactivate a habit. Its logs are kept."`
}

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name."`
	Description string `short:"D" help:"Longer description."`
	Frequency   string `short:"f" help:"Frequency (daily|weekly|custom)." default:"daily" enum:"daily,weekly,custom"`
	PeriodDays  int    `help:"Period length in days for custom frequency."`
	Target      int    `short:"n" help:"Completions needed per period." default:"1"`
	Reminder    string `short:"r" help:"Daily reminder time (HH:MM)."`
	Category    string `short:"c" help:"Category (religious|health|study|personal)." default:"personal" enum:"religious,health,study,personal"`
	Interactive bool   `short:"i" help:"Fill in the habit with a form."`
}

func (c *HabitAddCmd) input() (habits.HabitInput, error) {
	if c.Interactive {
		fm := tui.NewHabitFormModel()
		fm.Name = c.Name
		if err := tui.NewHabitForm(fm).Run(); err != nil {
			return habits.HabitInput{}, err
		}
		return fm.Input()
	}
	if strings.TrimSpace(c.Name) == "" {
		return habits.HabitInput{}, errors.New("habit name is required (or use --interactive)")
	}
	freq := models.HabitFrequency(c.Frequency)
	category := models.HabitCategory(c.Category)
	in := habits.HabitInput{
		Name:         &c.Name,
		Description:  &c.Description,
		Frequency:    &freq,
		TargetCount:  &c.Target,
		ReminderTime: &c.Reminder,
		Category:     &category,
	}
	if freq == models.FrequencyCustom {
		in.PeriodDays = &c.PeriodDays
	}
	return in, nil
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	in, err := c.input()
	if err != nil {
		return err
	}
	h, err := a.Habits.Create(ctx.Background(), in)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Added habit: %s (ID: %s)\n", h.Name, h.ID)
	if h.ReminderTime != "" {
		fmt.Printf("  Reminder at %s\n", h.ReminderTime)
	}
	return nil
}

type HabitListCmd struct {
	ShowIDs bool `help:"Show habit IDs." name:"show-ids"`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	list, err := a.Habits.List(ctx.Background())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today := time.Now().In(ctx.Location()).Format(constants.DateFormat)
	fmt.Println("Habits:")
	for _, h := range list {
		done := false
		if days, err := a.Habits.Calendar(ctx.Background(), h.ID, today, today); err == nil && len(days) == 1 {
			done = days[0].Completed
		}
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", h.ID)
		}
		fmt.Printf("  [%s] %s%s - %s, %s\n", cli.Check(done), h.Name, idStr, describeFrequency(h), h.Category)
		fmt.Printf("      streak %d (best %d)", h.CurrentStreak, h.LongestStreak)
		if h.ReminderTime != "" {
			fmt.Printf(" · reminder %s", h.ReminderTime)
		}
		fmt.Println()
	}
	return nil
}

func describeFrequency(h models.Habit) string {
	var s string
	switch h.Frequency {
	case models.FrequencyDaily:
		s = "daily"
	case models.FrequencyWeekly:
		s = "weekly"
	default:
		s = fmt.Sprintf("every %d days", h.PeriodDays)
	}
	if h.TargetCount > 1 {
		s = fmt.Sprintf("%dx %s", h.TargetCount, s)
	}
	return s
}

type HabitEditCmd struct {
	ID          string  `arg:"" help:"Habit ID."`
	Name        *string `help:"New name."`
	Description *string `short:"D" help:"New description."`
	Frequency   *string `short:"f" help:"New frequency (daily|weekly|custom)."`
	PeriodDays  *int    `help:"New period length in days."`
	Target      *int    `short:"n" help:"New target count."`
	Reminder    *string `short:"r" help:"New reminder time, or empty to remove it."`
	Category    *string `short:"c" help:"New category."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	in := habits.HabitInput{
		Name:         c.Name,
		Description:  c.Description,
		PeriodDays:   c.PeriodDays,
		TargetCount:  c.Target,
		ReminderTime: c.Reminder,
	}
	if c.Frequency != nil {
		freq := models.HabitFrequency(*c.Frequency)
		in.Frequency = &freq
	}
	if c.Category != nil {
		category := models.HabitCategory(*c.Category)
		in.Category = &category
	}
	h, err := a.Habits.Update(ctx.Background(), c.ID, in)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Updated habit: %s\n", h.Name)
	return nil
}

type HabitLogCmd struct {
	ID    string `arg:"" help:"Habit ID."`
	Count int    `short:"n" help:"Completions to record." default:"1"`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	if _, err := a.LogHabit(ctx.Background(), c.ID, c.Count); err != nil {
		return err
	}
	h, err := a.Habits.Get(ctx.Background(), c.ID)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Logged %s (streak %d, best %d)\n", h.Name, h.CurrentStreak, h.LongestStreak)
	return nil
}

type HabitDeleteCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	h, err := a.Habits.Get(ctx.Background(), c.ID)
	if err != nil {
		return err
	}
	if err := a.Habits.Delete(ctx.Background(), c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s\n", h.Name)
	return nil
}
