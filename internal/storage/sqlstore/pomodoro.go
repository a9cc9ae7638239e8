package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/hayati/internal/models"
)

const pomodoroColumns = `id, mode, duration_min, started_at, completed_at`

func (s *Store) AddPomodoroSession(ctx context.Context, session models.PomodoroSession) error {
	_, err := s.exec(ctx, "add pomodoro session", `INSERT INTO pomodoro_sessions (`+pomodoroColumns+`)
		VALUES (?, ?, ?, ?, ?)`,
		session.ID, string(session.Mode), session.DurationMin, ts(session.StartedAt), ts(session.CompletedAt))
	return err
}

func (s *Store) GetPomodoroSessions(ctx context.Context, from, to time.Time) ([]models.PomodoroSession, error) {
	sessions := []models.PomodoroSession{}
	err := s.queryRows(ctx, "list pomodoro sessions", func(sc scanner) error {
		var (
			p                    models.PomodoroSession
			mode                 string
			startedAt, completed string
		)
		if err := sc.Scan(&p.ID, &mode, &p.DurationMin, &startedAt, &completed); err != nil {
			return err
		}
		p.Mode = models.PomodoroMode(mode)
		var err error
		if p.StartedAt, err = parseTS(startedAt); err != nil {
			return fmt.Errorf("parsing started_at: %w", err)
		}
		if p.CompletedAt, err = parseTS(completed); err != nil {
			return fmt.Errorf("parsing completed_at: %w", err)
		}
		sessions = append(sessions, p)
		return nil
	}, `SELECT `+pomodoroColumns+` FROM pomodoro_sessions
		WHERE completed_at >= ? AND completed_at < ?
		ORDER BY completed_at ASC, id ASC`, ts(from), ts(to))
	return sessions, err
}

func (s *Store) PomodoroTotals(ctx context.Context) (int, int, error) {
	var sessions, minutes int
	err := s.queryRow(ctx, "pomodoro totals", "pomodoro totals", "", func(sc scanner) error {
		return sc.Scan(&sessions, &minutes)
	}, `SELECT COUNT(*), COALESCE(SUM(duration_min), 0) FROM pomodoro_sessions WHERE mode = ?`,
		string(models.ModeWork))
	return sessions, minutes, err
}
