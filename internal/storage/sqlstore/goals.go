package sqlstore

import (
	"context"
	"fmt"

	"github.com/julianstephens/hayati/internal/models"
)

const goalColumns = `id, title, description, category, priority, target_value, current_value, unit,
	start_date, target_date, created_at, updated_at`

func goalArgs(g models.Goal) []interface{} {
	return []interface{}{
		g.ID, g.Title, g.Description, g.Category, string(g.Priority), g.TargetValue, g.CurrentValue,
		g.Unit, g.StartDate, g.TargetDate, ts(g.CreatedAt), ts(g.UpdatedAt),
	}
}

func scanGoal(sc scanner) (models.Goal, error) {
	var (
		g                    models.Goal
		priority             string
		createdAt, updatedAt string
	)
	if err := sc.Scan(&g.ID, &g.Title, &g.Description, &g.Category, &priority, &g.TargetValue,
		&g.CurrentValue, &g.Unit, &g.StartDate, &g.TargetDate, &createdAt, &updatedAt); err != nil {
		return models.Goal{}, err
	}
	g.Priority = models.GoalPriority(priority)
	var err error
	if g.CreatedAt, err = parseTS(createdAt); err != nil {
		return models.Goal{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if g.UpdatedAt, err = parseTS(updatedAt); err != nil {
		return models.Goal{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return g, nil
}

func (s *Store) AddGoal(ctx context.Context, goal models.Goal) error {
	_, err := s.exec(ctx, "add goal", `INSERT INTO goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, goalArgs(goal)...)
	return err
}

func (s *Store) UpsertGoal(ctx context.Context, goal models.Goal) error {
	_, err := s.exec(ctx, "upsert goal", `INSERT INTO goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			category = excluded.category,
			priority = excluded.priority,
			target_value = excluded.target_value,
			current_value = excluded.current_value,
			unit = excluded.unit,
			start_date = excluded.start_date,
			target_date = excluded.target_date,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`, goalArgs(goal)...)
	return err
}

func (s *Store) GetGoal(ctx context.Context, id string) (models.Goal, error) {
	var goal models.Goal
	err := s.queryRow(ctx, "get goal", "goal", id, func(sc scanner) error {
		var err error
		goal, err = scanGoal(sc)
		return err
	}, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	return goal, err
}

func (s *Store) GetAllGoals(ctx context.Context) ([]models.Goal, error) {
	goals := []models.Goal{}
	err := s.queryRows(ctx, "list goals", func(sc scanner) error {
		g, err := scanGoal(sc)
		if err != nil {
			return err
		}
		goals = append(goals, g)
		return nil
	}, `SELECT `+goalColumns+` FROM goals ORDER BY target_date ASC, id ASC`)
	return goals, err
}

func (s *Store) UpdateGoal(ctx context.Context, goal models.Goal) error {
	args := goalArgs(goal)
	return s.execOne(ctx, "update goal", "goal", goal.ID, `UPDATE goals SET
			title = ?, description = ?, category = ?, priority = ?, target_value = ?, current_value = ?,
			unit = ?, start_date = ?, target_date = ?, created_at = ?, updated_at = ?
		WHERE id = ?`, append(args[1:], goal.ID)...)
}

func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	return s.execOne(ctx, "delete goal", "goal", id, `DELETE FROM goals WHERE id = ?`, id)
}
