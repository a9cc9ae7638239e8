// Package pomodoro implements the focus timer and records finished sessions.
package pomodoro

import (
	"fmt"
	"time"

	"github.com/julianstephens/hayati/internal/constants"
	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/models"
)

type Config struct {
	WorkMin         int  `json:"work_min"`
	ShortBreakMin   int  `json:"short_break_min"`
	LongBreakMin    int  `json:"long_break_min"`
	LongBreakEvery  int  `json:"long_break_every"`
	AutoStartBreaks bool `json:"auto_start_breaks"`
	AutoStartWork   bool `json:"auto_start_work"`
}

func DefaultConfig() Config {
	return Config{
		WorkMin:         constants.DefaultPomodoroWorkMin,
		ShortBreakMin:   constants.DefaultPomodoroShortBreakMin,
		LongBreakMin:    constants.DefaultPomodoroLongBreakMin,
		LongBreakEvery:  constants.DefaultPomodoroLongBreakEvery,
		AutoStartBreaks: constants.DefaultPomodoroAutoStartBreaks,
		AutoStartWork:   constants.DefaultPomodoroAutoStartWorking,
	}
}

func (c Config) Validate() error {
	if c.WorkMin <= 0 || c.ShortBreakMin <= 0 || c.LongBreakMin <= 0 {
		return apperrors.Validation("pomodoro durations must be positive")
	}
	if c.LongBreakEvery <= 0 {
		return apperrors.Validation("long_break_every must be positive")
	}
	return nil
}

func (c Config) Duration(mode models.PomodoroMode) time.Duration {
	switch mode {
	case models.ModeShortBreak:
		return time.Duration(c.ShortBreakMin) * time.Minute
	case models.ModeLongBreak:
		return time.Duration(c.LongBreakMin) * time.Minute
	default:
		return time.Duration(c.WorkMin) * time.Minute
	}
}

// Completion describes an interval that ran to zero.
type Completion struct {
	Mode        models.PomodoroMode
	DurationMin int
	StartedAt   time.Time
	CompletedAt time.Time
	// Next is the mode the timer moved to.
	Next models.PomodoroMode
}

// Status is a snapshot of the timer.
type Status struct {
	Mode      models.PomodoroMode `json:"mode"`
	Remaining time.Duration       `json:"-"`
	Display   string              `json:"remaining"`
	Running   bool                `json:"running"`
	Completed int                 `json:"completed"`
	// Cycle counts work sessions towards the next long break.
	Cycle int `json:"cycle"`
}

// Timer is a pomodoro state machine driven by the caller's clock. It is not
// safe for concurrent use.
type Timer struct {
	cfg       Config
	mode      models.PomodoroMode
	remaining time.Duration
	running   bool
	lastTick  time.Time
	startedAt time.Time
	completed int
}

func NewTimer(cfg Config) *Timer {
	return &Timer{cfg: cfg, mode: models.ModeWork, remaining: cfg.Duration(models.ModeWork)}
}

func (t *Timer) Start(now time.Time) {
	if t.running {
		return
	}
	if t.startedAt.IsZero() {
		t.startedAt = now
	}
	t.running = true
	t.lastTick = now
}

func (t *Timer) Pause(now time.Time) {
	if !t.running {
		return
	}
	t.elapse(now)
	t.running = false
}

// Reset stops the timer and restores the full duration of the current mode.
func (t *Timer) Reset() {
	t.running = false
	t.remaining = t.cfg.Duration(t.mode)
	t.startedAt = time.Time{}
}

// Switch stops the timer and moves to mode.
func (t *Timer) Switch(mode models.PomodoroMode) {
	t.mode = mode
	t.Reset()
}

func (t *Timer) elapse(now time.Time) {
	if d := now.Sub(t.lastTick); d > 0 {
		t.remaining -= d
	}
	t.lastTick = now
}

// Advance applies the time elapsed since the last call. When the interval
// reaches zero it returns the completion and moves to the next mode, which
// starts running when the matching auto-start flag is set.
func (t *Timer) Advance(now time.Time) *Completion {
	if !t.running {
		return nil
	}
	t.elapse(now)
	if t.remaining > 0 {
		return nil
	}

	c := &Completion{
		Mode:        t.mode,
		DurationMin: int(t.cfg.Duration(t.mode) / time.Minute),
		StartedAt:   t.startedAt,
		CompletedAt: now,
	}

	autoStart := t.cfg.AutoStartWork
	next := models.ModeWork
	if t.mode == models.ModeWork {
		t.completed++
		autoStart = t.cfg.AutoStartBreaks
		next = models.ModeShortBreak
		if t.completed%t.cfg.LongBreakEvery == 0 {
			next = models.ModeLongBreak
		}
	}
	c.Next = next

	t.Switch(next)
	if autoStart {
		t.Start(now)
	}
	return c
}

func (t *Timer) Status() Status {
	remaining := t.remaining
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		Mode:      t.mode,
		Remaining: remaining,
		Display:   FormatClock(remaining),
		Running:   t.running,
		Completed: t.completed,
		Cycle:     t.completed % t.cfg.LongBreakEvery,
	}
}

// FormatClock renders d as MM:SS, rounding partial seconds up.
func FormatClock(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
