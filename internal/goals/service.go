// Package goals tracks measurable goals. Progress and status are derived from
// the stored values on read.
package goals

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/storage"
	"github.com/julianstephens/hayati/internal/utils"
	"github.com/julianstephens/hayati/internal/validation"
)

type SettingsSource interface {
	Settings() models.Settings
}

// View is a goal with its derived fields.
type View struct {
	models.Goal
	Progress int               `json:"progress"`
	Status   models.GoalStatus `json:"status"`
}

type Service struct {
	store    storage.GoalStore
	settings SettingsSource
	now      func() time.Time
}

func NewService(store storage.GoalStore, settings SettingsSource) *Service {
	return &Service{store: store, settings: settings, now: time.Now}
}

func (s *Service) today() string {
	return utils.DateKey(s.now(), utils.MustLocation(s.settings.Settings().Timezone))
}

func (s *Service) view(g models.Goal) View {
	return View{Goal: g, Progress: g.Progress(), Status: g.Status(s.today())}
}

type GoalInput struct {
	Title        *string              `json:"title,omitempty"`
	Description  *string              `json:"description,omitempty"`
	Category     *string              `json:"category,omitempty"`
	Priority     *models.GoalPriority `json:"priority,omitempty"`
	TargetValue  *float64             `json:"target_value,omitempty"`
	CurrentValue *float64             `json:"current_value,omitempty"`
	Unit         *string              `json:"unit,omitempty"`
	StartDate    *string              `json:"start_date,omitempty"`
	TargetDate   *string              `json:"target_date,omitempty"`
}

func (in GoalInput) apply(g models.Goal) models.Goal {
	if in.Title != nil {
		g.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		g.Description = *in.Description
	}
	if in.Category != nil {
		g.Category = *in.Category
	}
	if in.Priority != nil {
		g.Priority = *in.Priority
	}
	if in.TargetValue != nil {
		g.TargetValue = *in.TargetValue
	}
	if in.CurrentValue != nil {
		g.CurrentValue = *in.CurrentValue
	}
	if in.Unit != nil {
		g.Unit = *in.Unit
	}
	if in.StartDate != nil {
		g.StartDate = *in.StartDate
	}
	if in.TargetDate != nil {
		g.TargetDate = *in.TargetDate
	}
	return g
}

func validate(g models.Goal) error {
	if err := validation.Struct(g); err != nil {
		return err
	}
	if g.TargetDate < g.StartDate {
		return apperrors.Validation("target_date must not be before start_date")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in GoalInput) (View, error) {
	now := s.now().UTC()
	today := s.today()
	g := in.apply(models.Goal{
		ID:         uuid.NewString(),
		Category:   "personal",
		Priority:   models.GoalPriorityMedium,
		StartDate:  today,
		TargetDate: today,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err := validate(g); err != nil {
		return View{}, err
	}
	if err := s.store.AddGoal(ctx, g); err != nil {
		return View{}, err
	}
	return s.view(g), nil
}

func (s *Service) Get(ctx context.Context, id string) (View, error) {
	g, err := s.store.GetGoal(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.view(g), nil
}

// List returns goals ordered by target date. An empty status matches all.
func (s *Service) List(ctx context.Context, status models.GoalStatus) ([]View, error) {
	all, err := s.store.GetAllGoals(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(all))
	for _, g := range all {
		v := s.view(g)
		if status == "" || v.Status == status {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id string, in GoalInput) (View, error) {
	g, err := s.store.GetGoal(ctx, id)
	if err != nil {
		return View{}, err
	}
	g = in.apply(g)
	g.UpdatedAt = s.now().UTC()
	if err := validate(g); err != nil {
		return View{}, err
	}
	if err := s.store.UpdateGoal(ctx, g); err != nil {
		return View{}, err
	}
	return s.view(g), nil
}

// UpdateProgress sets the current value of the goal.
func (s *Service) UpdateProgress(ctx context.Context, id string, value float64) (View, error) {
	return s.Update(ctx, id, GoalInput{CurrentValue: &value})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteGoal(ctx, id)
}
