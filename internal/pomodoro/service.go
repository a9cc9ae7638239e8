package pomodoro

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/hayati/internal/constants"
	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/logger"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/notifier"
	"github.com/julianstephens/hayati/internal/storage"
	"github.com/julianstephens/hayati/internal/utils"
)

type SettingsSource interface {
	Settings() models.Settings
}

type Notifier interface {
	Show(ctx context.Context, opts notifier.Options) (*notifier.Notification, error)
}

// Service persists finished intervals and reports focus statistics.
type Service struct {
	store    storage.PomodoroStore
	settings SettingsSource
	notifier Notifier
	now      func() time.Time
}

func NewService(store storage.PomodoroStore, settings SettingsSource, n Notifier) *Service {
	return &Service{store: store, settings: settings, notifier: n, now: time.Now}
}

// Record stores the finished interval and announces it.
func (s *Service) Record(ctx context.Context, c Completion) (models.PomodoroSession, error) {
	if c.DurationMin <= 0 {
		return models.PomodoroSession{}, apperrors.Validation("session duration must be positive")
	}
	if c.StartedAt.IsZero() {
		c.StartedAt = c.CompletedAt.Add(-time.Duration(c.DurationMin) * time.Minute)
	}
	session := models.PomodoroSession{
		ID:          uuid.NewString(),
		Mode:        c.Mode,
		DurationMin: c.DurationMin,
		StartedAt:   c.StartedAt.UTC(),
		CompletedAt: c.CompletedAt.UTC(),
	}
	if err := s.store.AddPomodoroSession(ctx, session); err != nil {
		return models.PomodoroSession{}, err
	}

	if s.notifier != nil {
		opts := notice(s.settings.Settings().Language, c.Mode)
		opts.Category = models.CategorySystem
		opts.Tag = "pomodoro:" + session.ID
		if _, err := s.notifier.Show(ctx, opts); err != nil {
			logger.Debug("Pomodoro notification not shown", "error", err)
		}
	}
	return session, nil
}

// Stats counts work sessions overall and today.
func (s *Service) Stats(ctx context.Context) (models.PomodoroStats, error) {
	total, focus, err := s.store.PomodoroTotals(ctx)
	if err != nil {
		return models.PomodoroStats{}, err
	}

	loc := utils.MustLocation(s.settings.Settings().Timezone)
	start := utils.StartOfDay(s.now(), loc)
	today, err := s.store.GetPomodoroSessions(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return models.PomodoroStats{}, err
	}

	stats := models.PomodoroStats{TotalSessions: total, TotalFocusMin: focus}
	for _, sess := range today {
		if sess.Mode == models.ModeWork {
			stats.TodaySessions++
			stats.TodayFocusMin += sess.DurationMin
		}
	}
	return stats, nil
}

// History returns sessions completed in [from, to).
func (s *Service) History(ctx context.Context, from, to time.Time) ([]models.PomodoroSession, error) {
	if !to.After(from) {
		return nil, apperrors.Validation("history range end must be after its start")
	}
	return s.store.GetPomodoroSessions(ctx, from, to)
}

func notice(language string, mode models.PomodoroMode) notifier.Options {
	if language == constants.LanguageEnglish {
		if mode == models.ModeWork {
			return notifier.Options{Title: "Break time!", Body: "Well done! Time for a short break."}
		}
		return notifier.Options{Title: "Back to work!", Body: "Break is over, time to get back to work."}
	}
	if mode == models.ModeWork {
		return notifier.Options{Title: "وقت الراحة!", Body: "أحسنت! حان وقت أخذ استراحة قصيرة."}
	}
	return notifier.Options{Title: "وقت العمل!", Body: "انتهت الاستراحة، حان وقت العودة للعمل."}
}
