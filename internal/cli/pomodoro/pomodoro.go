package pomodoro

import (
	"fmt"
	"time"

	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/pomodoro"
	"github.com/julianstephens/hayati/internal/utils"
)

type PomodoroCmd struct {
	Run     PomodoroRunCmd     `cmd:"" help:"Run one interval in the terminal and record it." default:"1"`
	Record  PomodoroRecordCmd  `cmd:"" help:"Record a finished session."`
	Stats   PomodoroStatsCmd   `cmd:"" help:"Show focus totals."`
	History PomodoroHistoryCmd `cmd:"" help:"List recent sessions."`
}

var modes = map[string]models.PomodoroMode{
	"work":  models.ModeWork,
	"break": models.ModeShortBreak,
	"long":  models.ModeLongBreak,
}

type PomodoroRunCmd struct {
	Mode string `arg:"" optional:"" help:"Interval to run (work|break|long)." default:"work" enum:"work,break,long"`
}

func (c *PomodoroRunCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	mode := modes[c.Mode]
	timer := pomodoro.NewTimer(a.PomodoroConfig())
	timer.Switch(mode)

	start := time.Now()
	timer.Start(start)
	fmt.Printf("%s started (%s). Press Ctrl+C to abandon.\n", label(mode), timer.Status().Display)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	bg := ctx.Background()
	for {
		select {
		case <-bg.Done():
			fmt.Println("\nSession abandoned, nothing recorded.")
			return nil
		case now := <-ticker.C:
			done := timer.Advance(now)
			if done == nil {
				fmt.Printf("\r%s %s ", label(mode), timer.Status().Display)
				continue
			}
			if _, err := a.Pomodoro.Record(bg, *done); err != nil {
				return err
			}
			fmt.Printf("\r✓ %s complete (%d min). Next up: %s\n", label(done.Mode), done.DurationMin, label(done.Next))
			return nil
		}
	}
}

func label(mode models.PomodoroMode) string {
	switch mode {
	case models.ModeShortBreak:
		return "Short break"
	case models.ModeLongBreak:
		return "Long break"
	default:
		return "Focus"
	}
}

type PomodoroRecordCmd struct {
	Minutes int    `arg:"" help:"Session length in minutes."`
	Mode    string `short:"m" help:"Session kind (work|break|long)." default:"work" enum:"work,break,long"`
}

func (c *PomodoroRecordCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	s, err := a.Pomodoro.Record(ctx.Background(), pomodoro.Completion{
		Mode:        modes[c.Mode],
		DurationMin: c.Minutes,
		CompletedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Recorded %d min %s session\n", s.DurationMin, label(s.Mode))
	return nil
}

type PomodoroStatsCmd struct{}

func (c *PomodoroStatsCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	st, err := a.Pomodoro.Stats(ctx.Background())
	if err != nil {
		return err
	}
	fmt.Println("Focus:")
	fmt.Printf("  Today:  %d sessions, %s\n", st.TodaySessions, focus(st.TodayFocusMin))
	fmt.Printf("  Total:  %d sessions, %s\n", st.TotalSessions, focus(st.TotalFocusMin))
	return nil
}

func focus(minutes int) string {
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

type PomodoroHistoryCmd struct {
	Days int `short:"d" help:"Number of days to include." default:"7"`
}

func (c *PomodoroHistoryCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	if c.Days < 1 {
		return fmt.Errorf("days must be at least 1")
	}
	loc := ctx.Location()
	end := utils.StartOfDay(time.Now(), loc).AddDate(0, 0, 1)
	sessions, err := a.Pomodoro.History(ctx.Background(), end.AddDate(0, 0, -c.Days), end)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions found")
		return nil
	}
	fmt.Printf("Sessions (last %d days):\n", c.Days)
	for _, s := range sessions {
		fmt.Printf("  %s  %-11s %3d min\n", s.CompletedAt.In(loc).Format("Mon Jan 2 15:04"), label(s.Mode), s.DurationMin)
	}
	return nil
}
