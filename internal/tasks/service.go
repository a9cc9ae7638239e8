// Package tasks manages to-do items and keeps their due-date reminders in step
// with every edit.
package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/logger"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/storage"
	"github.com/julianstephens/hayati/internal/validation"
)

// Reminders arms and clears the due and overdue reminders of a task.
type Reminders interface {
	ScheduleTaskReminder(taskID, title string, dueAt time.Time) error
	ClearTaskTimers(taskID string)
}

type noReminders struct{}

func (noReminders) ScheduleTaskReminder(string, string, time.Time) error { return nil }
func (noReminders) ClearTaskTimers(string)                               {}

type Service struct {
	store     storage.TaskStore
	reminders Reminders
	now       func() time.Time
}

type Option func(*Service)

func WithReminders(r Reminders) Option {
	return func(s *Service) {
		if r != nil {
			s.reminders = r
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store storage.TaskStore, opts ...Option) *Service {
	s := &Service{store: store, reminders: noReminders{}, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) SetReminders(r Reminders) {
	if r == nil {
		r = noReminders{}
	}
	s.reminders = r
}

// TaskInput carries the user-editable fields of a task. Nil fields are left
// unchanged on update and defaulted on create. ClearDue removes the due date.
type TaskInput struct {
	Title            *string                  `json:"title,omitempty"`
	Description      *string                  `json:"description,omitempty"`
	Category         *models.TaskCategory     `json:"category,omitempty"`
	Priority         *models.Priority         `json:"priority,omitempty"`
	DueAt            *time.Time               `json:"due_at,omitempty"`
	ClearDue         bool                     `json:"clear_due,omitempty"`
	IsCompleted      *bool                    `json:"is_completed,omitempty"`
	IsRecurring      *bool                    `json:"is_recurring,omitempty"`
	RecurringPattern *models.RecurringPattern `json:"recurring_pattern,omitempty"`
	Tags             *[]string                `json:"tags,omitempty"`
}

func (in TaskInput) apply(t models.Task) models.Task {
	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Category != nil {
		t.Category = *in.Category
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.DueAt != nil {
		due := in.DueAt.UTC()
		t.DueAt = &due
	}
	if in.ClearDue {
		t.DueAt = nil
	}
	if in.IsCompleted != nil {
		t.IsCompleted = *in.IsCompleted
	}
	if in.IsRecurring != nil {
		t.IsRecurring = *in.IsRecurring
	}
	if in.RecurringPattern != nil {
		t.RecurringPattern = *in.RecurringPattern
	}
	if !t.IsRecurring {
		t.RecurringPattern = ""
	}
	if in.Tags != nil {
		t.Tags = normalizeTags(*in.Tags)
	}
	return t
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func (s *Service) Create(ctx context.Context, in TaskInput) (models.Task, error) {
	now := s.now().UTC()
	t := in.apply(models.Task{
		ID:        uuid.NewString(),
		Category:  models.TaskCategoryDaily,
		Priority:  models.PriorityMedium,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err := validation.Struct(t); err != nil {
		return models.Task{}, err
	}
	if err := s.store.AddTask(ctx, t); err != nil {
		return models.Task{}, err
	}
	s.arm(t)
	return t, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.Task, error) {
	return s.store.GetTask(ctx, id)
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	// Status is "pending", "completed" or "overdue".
	Status   string              `json:"status,omitempty" form:"status" validate:"omitempty,oneof=all pending completed overdue"`
	Category models.TaskCategory `json:"category,omitempty" form:"category"`
	Priority models.Priority     `json:"priority,omitempty" form:"priority" validate:"omitempty,min=1,max=4"`
	// Query matches the title or description, case-insensitively.
	Query string `json:"query,omitempty" form:"q"`
	Tag   string `json:"tag,omitempty" form:"tag"`
}

// List returns the tasks matching f, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]models.Task, error) {
	if err := validation.Struct(f); err != nil {
		return nil, err
	}
	all, err := s.store.GetAllTasks(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]models.Task, 0, len(all))
	for _, t := range all {
		if f.matches(t, query, now) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f Filter) matches(t models.Task, query string, now time.Time) bool {
	switch f.Status {
	case "pending":
		if t.IsCompleted {
			return false
		}
	case "completed":
		if !t.IsCompleted {
			return false
		}
	case "overdue":
		if !t.IsOverdue(now) {
			return false
		}
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Priority != 0 && t.Priority != f.Priority {
		return false
	}
	if query != "" &&
		!strings.Contains(strings.ToLower(t.Title), query) &&
		!strings.Contains(strings.ToLower(t.Description), query) {
		return false
	}
	if f.Tag != "" {
		found := false
		for _, tag := range t.Tags {
			if strings.EqualFold(tag, f.Tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *Service) Update(ctx context.Context, id string, in TaskInput) (models.Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	t = in.apply(t)
	t.UpdatedAt = s.now().UTC()
	if err := validation.Struct(t); err != nil {
		return models.Task{}, err
	}
	if err := s.store.UpdateTask(ctx, t); err != nil {
		return models.Task{}, err
	}
	s.arm(t)
	return t, nil
}

// Toggle flips the completion flag.
func (s *Service) Toggle(ctx context.Context, id string) (models.Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	done := !t.IsCompleted
	return s.Update(ctx, id, TaskInput{IsCompleted: &done})
}

// Complete marks the task done. Completing a completed task is a no-op.
func (s *Service) Complete(ctx context.Context, id string) (models.Task, error) {
	done := true
	return s.Update(ctx, id, TaskInput{IsCompleted: &done})
}

// Snooze moves the due date forward by d.
func (s *Service) Snooze(ctx context.Context, id string, d time.Duration) (models.Task, error) {
	if d <= 0 {
		return models.Task{}, apperrors.Validation("snooze duration must be positive")
	}
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	base := s.now()
	if t.DueAt != nil && t.DueAt.After(base) {
		base = *t.DueAt
	}
	due := base.Add(d)
	return s.Update(ctx, id, TaskInput{DueAt: &due})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.reminders.ClearTaskTimers(id)
	return nil
}

// Rearm schedules reminders for every incomplete task with a future due date.
func (s *Service) Rearm(ctx context.Context) (int, error) {
	all, err := s.store.GetAllTasks(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, t := range all {
		if s.arm(t) {
			n++
		}
	}
	return n, nil
}

// arm clears the task's timers and re-arms them for open tasks with a due date.
func (s *Service) arm(t models.Task) bool {
	s.reminders.ClearTaskTimers(t.ID)
	if t.IsCompleted || t.DueAt == nil {
		return false
	}
	if err := s.reminders.ScheduleTaskReminder(t.ID, t.Title, *t.DueAt); err != nil {
		logger.Warn("Failed to schedule task reminder", "task", t.ID, "error", err)
		return false
	}
	return true
}
