// Package portability exports the user's data as a JSON snapshot or a tasks
// CSV and imports snapshots back.
package portability

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/julianstephens/hayati/internal/constants"
	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/logger"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/storage"
	"github.com/julianstephens/hayati/internal/validation"
)

// Snapshot is the export file format.
type Snapshot struct {
	ExportDate time.Time         `json:"export_date"`
	Version    string            `json:"version"`
	Tasks      []models.Task     `json:"tasks"`
	Habits     []models.Habit    `json:"habits"`
	HabitLogs  []models.HabitLog `json:"habit_logs,omitempty"`
	Goals      []models.Goal     `json:"goals,omitempty"`
	Settings   *models.Settings  `json:"settings,omitempty"`
}

type Store interface {
	storage.TaskStore
	storage.HabitStore
	storage.GoalStore
	storage.SettingsStore
}

// Backuper snapshots the database before an import overwrites rows.
type Backuper interface {
	Create(ctx context.Context) (string, error)
}

type ImportResult struct {
	Tasks           int    `json:"tasks"`
	Habits          int    `json:"habits"`
	HabitLogs       int    `json:"habit_logs"`
	Goals           int    `json:"goals"`
	SettingsApplied bool   `json:"settings_applied"`
	BackupPath      string `json:"backup_path,omitempty"`
}

type Service struct {
	store  Store
	backup Backuper
	now    func() time.Time
}

// NewService returns a service. backup may be nil when the store cannot be
// snapshotted.
func NewService(store Store, backup Backuper) *Service {
	return &Service{store: store, backup: backup, now: time.Now}
}

func (s *Service) Export(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{ExportDate: s.now().UTC(), Version: constants.ExportVersion}

	var err error
	if snap.Tasks, err = s.store.GetAllTasks(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Habits, err = s.store.GetAllHabitsIncludingInactive(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.HabitLogs, err = s.store.GetAllHabitLogs(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Goals, err = s.store.GetAllGoals(ctx); err != nil {
		return Snapshot{}, err
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Settings = &settings
	return snap, nil
}

// Validate checks the snapshot before anything is written.
func (snap Snapshot) Validate() error {
	if snap.Tasks == nil || snap.Habits == nil {
		return apperrors.Validation("invalid backup file: tasks and habits are required")
	}
	if snap.Version != "" && snap.Version != constants.ExportVersion {
		return apperrors.Validation("unsupported export version %q", snap.Version)
	}
	for i, t := range snap.Tasks {
		if t.ID == "" {
			return apperrors.Validation("tasks[%d]: id is required", i)
		}
		if err := validation.Struct(t); err != nil {
			return apperrors.WrapValidation(fmt.Sprintf("tasks[%d]", i), err)
		}
	}
	for i, h := range snap.Habits {
		if h.ID == "" {
			return apperrors.Validation("habits[%d]: id is required", i)
		}
		if err := validation.Struct(h); err != nil {
			return apperrors.WrapValidation(fmt.Sprintf("habits[%d]", i), err)
		}
	}
	for i, l := range snap.HabitLogs {
		if l.ID == "" || l.HabitID == "" || l.Count < 1 {
			return apperrors.Validation("habit_logs[%d]: id, habit_id and a positive count are required", i)
		}
	}
	for i, g := range snap.Goals {
		if g.ID == "" {
			return apperrors.Validation("goals[%d]: id is required", i)
		}
		if err := validation.Struct(g); err != nil {
			return apperrors.WrapValidation(fmt.Sprintf("goals[%d]", i), err)
		}
	}
	if snap.Settings != nil {
		if err := validation.Struct(*snap.Settings); err != nil {
			return apperrors.WrapValidation("settings", err)
		}
	}
	return nil
}

// Import upserts every row of the snapshot by id. Rows not in the snapshot
// are left alone. A backup is taken first when a Backuper is configured.
func (s *Service) Import(ctx context.Context, snap Snapshot) (ImportResult, error) {
	if err := snap.Validate(); err != nil {
		return ImportResult{}, err
	}

	var res ImportResult
	if s.backup != nil {
		path, err := s.backup.Create(ctx)
		if err != nil {
			return ImportResult{}, fmt.Errorf("failed to back up before import: %w", err)
		}
		res.BackupPath = path
		logger.Info("Backup created before import", "path", path)
	}

	for _, t := range snap.Tasks {
		if err := s.store.UpsertTask(ctx, t); err != nil {
			return res, err
		}
		res.Tasks++
	}
	for _, h := range snap.Habits {
		if err := s.store.UpsertHabit(ctx, h); err != nil {
			return res, err
		}
		res.Habits++
	}
	for _, l := range snap.HabitLogs {
		if err := s.store.UpsertHabitLog(ctx, l); err != nil {
			return res, err
		}
		res.HabitLogs++
	}
	for _, g := range snap.Goals {
		if err := s.store.UpsertGoal(ctx, g); err != nil {
			return res, err
		}
		res.Goals++
	}
	if snap.Settings != nil {
		if err := s.store.SaveSettings(ctx, *snap.Settings); err != nil {
			return res, err
		}
		res.SettingsApplied = true
	}

	logger.Info("Data imported", "tasks", res.Tasks, "habits", res.Habits, "habit_logs", res.HabitLogs, "goals", res.Goals)
	return res, nil
}

func WriteJSON(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func ReadJSON(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, apperrors.WrapValidation("invalid backup file", err)
	}
	return snap, nil
}

var csvHeader = []string{"Title", "Description", "Category", "Priority", "Due Date", "Completed", "Created Date"}

// ExportTasksCSV writes one row per task.
func ExportTasksCSV(w io.Writer, tasks []models.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range tasks {
		due := ""
		if t.DueAt != nil {
			due = t.DueAt.UTC().Format(time.RFC3339)
		}
		row := []string{
			t.Title,
			t.Description,
			string(t.Category),
			strconv.Itoa(int(t.Priority)),
			due,
			strconv.FormatBool(t.IsCompleted),
			t.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileName returns the default file name for an export made at t.
func FileName(kind string, t time.Time) string {
	if kind == "csv" {
		return "tasks-export-" + t.Format(constants.DateFormat) + ".csv"
	}
	return constants.AppName + "-backup-" + t.Format(constants.DateFormat) + ".json"
}
