package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/hayati/internal/models"
)

const taskColumns = `id, title, description, category, priority, due_at, is_completed,
	is_recurring, recurring_pattern, tags, created_at, updated_at`

func taskArgs(t models.Task) ([]interface{}, error) {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encoding tags: %w", err)
	}
	return []interface{}{
		t.ID, t.Title, nullString(t.Description), string(t.Category), int(t.Priority),
		nullTimestamp(t.DueAt), t.IsCompleted, t.IsRecurring, nullString(string(t.RecurringPattern)),
		string(tagsJSON), ts(t.CreatedAt), ts(t.UpdatedAt),
	}, nil
}

func scanTask(sc scanner) (models.Task, error) {
	var (
		t                    models.Task
		desc, due, pattern   sql.NullString
		category, tags       string
		priority             int
		createdAt, updatedAt string
	)
	if err := sc.Scan(&t.ID, &t.Title, &desc, &category, &priority, &due, &t.IsCompleted,
		&t.IsRecurring, &pattern, &tags, &createdAt, &updatedAt); err != nil {
		return models.Task{}, err
	}
	t.Description = desc.String
	t.Category = models.TaskCategory(category)
	t.Priority = models.Priority(priority)
	t.RecurringPattern = models.RecurringPattern(pattern.String)
	if due.Valid {
		d, err := parseTS(due.String)
		if err != nil {
			return models.Task{}, fmt.Errorf("parsing due_at: %w", err)
		}
		t.DueAt = &d
	}
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		return models.Task{}, fmt.Errorf("parsing tags: %w", err)
	}
	var err error
	if t.CreatedAt, err = parseTS(createdAt); err != nil {
		return models.Task{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTS(updatedAt); err != nil {
		return models.Task{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return t, nil
}

func (s *Store) AddTask(ctx context.Context, task models.Task) error {
	args, err := taskArgs(task)
	if err != nil {
		return err
	}
	_, err = s.exec(ctx, "add task", `INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	return err
}

func (s *Store) UpsertTask(ctx context.Context, task models.Task) error {
	args, err := taskArgs(task)
	if err != nil {
		return err
	}
	_, err = s.exec(ctx, "upsert task", `INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			category = excluded.category,
			priority = excluded.priority,
			due_at = excluded.due_at,
			is_completed = excluded.is_completed,
			is_recurring = excluded.is_recurring,
			recurring_pattern = excluded.recurring_pattern,
			tags = excluded.tags,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`, args...)
	return err
}

func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	var task models.Task
	err := s.queryRow(ctx, "get task", "task", id, func(sc scanner) error {
		var err error
		task, err = scanTask(sc)
		return err
	}, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return task, err
}

func (s *Store) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	tasks := []models.Task{}
	err := s.queryRows(ctx, "list tasks", func(sc scanner) error {
		task, err := scanTask(sc)
		if err != nil {
			return err
		}
		tasks = append(tasks, task)
		return nil
	}, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC, id DESC`)
	return tasks, err
}

func (s *Store) UpdateTask(ctx context.Context, task models.Task) error {
	args, err := taskArgs(task)
	if err != nil {
		return err
	}
	// args[0] is the id; it moves to the WHERE clause.
	return s.execOne(ctx, "update task", "task", task.ID, `UPDATE tasks SET
			title = ?, description = ?, category = ?, priority = ?, due_at = ?, is_completed = ?,
			is_recurring = ?, recurring_pattern = ?, tags = ?, created_at = ?, updated_at = ?
		WHERE id = ?`, append(args[1:], task.ID)...)
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return s.execOne(ctx, "delete task", "task", id, `DELETE FROM tasks WHERE id = ?`, id)
}
