package system

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/constants"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/utils"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" help:"Show database location."`
	DumpTask     DebugDumpTaskCmd     `cmd:"" help:"Dump task data as JSON."`
	DumpHabit    DebugDumpHabitCmd    `cmd:"" help:"Dump a habit and its logs as JSON."`
	DumpPrayers  DebugDumpPrayersCmd  `cmd:"" help:"Dump cached prayer times and logs for a day as JSON."`
	DumpSettings DebugDumpSettingsCmd `cmd:"" help:"Dump settings data as JSON."`
	Timers       DebugTimersCmd       `cmd:"" help:"List the reminder timers that would be armed."`
}

func dump(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(b))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return dump(map[string]string{"path": displayLocation(ctx.Store.GetConfigPath())})
}

type DebugDumpTaskCmd struct {
	ID string `arg:"" help:"ID of the task to dump."`
}

func (cmd *DebugDumpTaskCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Store.GetTask(ctx.Background(), cmd.ID)
	if err != nil {
		return err
	}
	return dump(task)
}

type DebugDumpHabitCmd struct {
	ID string `arg:"" help:"ID of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Store.GetHabit(ctx.Background(), cmd.ID)
	if err != nil {
		return err
	}
	logs, err := ctx.Store.GetHabitLogs(ctx.Background(), habit.ID, time.Unix(0, 0), time.Now().Add(24*time.Hour))
	if err != nil {
		return err
	}
	return dump(struct {
		Habit models.Habit      `json:"habit"`
		Logs  []models.HabitLog `json:"logs"`
	}{habit, logs})
}

type DebugDumpPrayersCmd struct {
	Date string `arg:"" help:"Date to dump (YYYY-MM-DD or 'today')." default:"today"`
}

func (cmd *DebugDumpPrayersCmd) Run(ctx *cli.Context) error {
	date := cmd.Date
	if date == "today" {
		date = utils.DateKey(time.Now(), ctx.Location())
	}
	if _, err := time.Parse(constants.DateFormat, date); err != nil {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD or 'today')", date)
	}

	out := struct {
		Times *models.PrayerTime `json:"times"`
		Logs  []models.PrayerLog `json:"logs"`
	}{}
	if pt, err := ctx.Store.GetPrayerTime(ctx.Background(), date); err == nil {
		out.Times = &pt
	}
	logs, err := ctx.Store.GetPrayerLogs(ctx.Background(), date)
	if err != nil {
		return err
	}
	out.Logs = logs
	return dump(out)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings(ctx.Background())
	if err != nil {
		return err
	}
	return dump(settings)
}

type DebugTimersCmd struct{}

// Run arms every reminder into a scheduler that is never started and prints
// the resulting queue.
func (cmd *DebugTimersCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	if _, err := a.Tasks.Rearm(ctx.Background()); err != nil {
		return err
	}
	if _, err := a.Habits.Rearm(ctx.Background()); err != nil {
		return err
	}
	keys := a.Scheduler.Queue().Keys()
	if len(keys) == 0 {
		fmt.Println("No timers armed.")
		return nil
	}
	for _, k := range keys {
		fmt.Println(k)
	}
	return nil
}
