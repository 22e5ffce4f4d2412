package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Gitsandu/taskmanagementBackend/internal/domain/apperror"
	"github.com/Gitsandu/taskmanagementBackend/internal/domain/entity"
	"github.com/Gitsandu/taskmanagementBackend/internal/domain/policy"
	repo "github.com/Gitsandu/taskmanagementBackend/internal/domain/repository"
	"github.com/Gitsandu/taskmanagementBackend/pkg/helpers"
)

type TaskService struct {
	Repo   repo.TaskRepository
	Logger *logrus.Logger
}

func NewTaskService(repo repo.TaskRepository, logger *logrus.Logger) *TaskService {
	return &TaskService{Repo: repo, Logger: logger}
}

// CreateTaskInput carries raw request values. Empty Priority and Status take their defaults.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     string
	Priority    string
	Status      string
}

// UpdateTaskInput carries raw request values. Empty fields are left unchanged,
// so a field cannot be cleared through an update.
type UpdateTaskInput struct {
	Title       string
	Description string
	DueDate     string
	Priority    string
	Status      string
}

type ListTasksInput struct {
	Status string
	Search string
	// SortBy is "field:direction"; only "desc" sorts descending.
	SortBy string
}

func (s *TaskService) Create(ctx context.Context, ownerID string, in CreateTaskInput) (*entity.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.Validation("title is required", map[string]string{"title": "required"})
	}
	t := &entity.Task{
		Title:       title,
		Description: in.Description,
		Priority:    entity.PriorityMedium,
		Status:      entity.StatusPending,
		OwnerID:     ownerID,
	}
	if in.Priority != "" {
		p := entity.Priority(in.Priority)
		if !p.Valid() {
			return nil, invalidField("priority", "must be one of Low Medium High")
		}
		t.Priority = p
	}
	if in.Status != "" {
		st := entity.Status(in.Status)
		if !st.Valid() {
			return nil, invalidField("status", "must be one of Pending Completed")
		}
		t.Status = st
	}
	if in.DueDate != "" {
		d, err := helpers.ParseDate(in.DueDate)
		if err != nil {
			return nil, invalidField("dueDate", "must be a valid ISO-8601 date")
		}
		t.DueDate = &d
	}

	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, apperror.Internal("create task", err)
	}
	helpers.LogInfo(s.Logger, "task created", logrus.Fields{"task_id": t.ID, "user_id": ownerID})
	return t, nil
}

func (s *TaskService) List(ctx context.Context, ownerID string, in ListTasksInput) ([]*entity.Task, error) {
	f := repo.TaskFilter{OwnerID: ownerID, Search: strings.TrimSpace(in.Search)}
	if in.Status != "" {
		st := entity.Status(in.Status)
		if !st.Valid() {
			return nil, invalidField("status", "must be one of Pending Completed")
		}
		f.Status = st
	}
	sort, err := ParseSort(in.SortBy)
	if err != nil {
		return nil, err
	}

	tasks, err := s.Repo.FindMany(ctx, f, sort)
	if err != nil {
		return nil, apperror.Internal("list tasks", err)
	}
	return tasks, nil
}

// ParseSort reads "field:direction". An empty value yields DefaultTaskSort.
func ParseSort(v string) (repo.TaskSort, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return repo.DefaultTaskSort, nil
	}
	field, dir, _ := strings.Cut(v, ":")
	sf := repo.SortField(strings.TrimSpace(field))
	if !sf.Valid() {
		return repo.TaskSort{}, invalidField("sortBy", "unknown sort field "+string(sf))
	}
	return repo.TaskSort{Field: sf, Desc: strings.TrimSpace(dir) == "desc"}, nil
}

func (s *TaskService) Get(ctx context.Context, taskID, ownerID string) (*entity.Task, error) {
	return s.authorize(ctx, taskID, ownerID)
}

func (s *TaskService) Update(ctx context.Context, taskID, ownerID string, in UpdateTaskInput) (*entity.Task, error) {
	t, err := s.authorize(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		t.Title = title
	}
	if in.Description != "" {
		t.Description = in.Description
	}
	if in.DueDate != "" {
		d, err := helpers.ParseDate(in.DueDate)
		if err != nil {
			return nil, invalidField("dueDate", "must be a valid ISO-8601 date")
		}
		t.DueDate = &d
	}
	if in.Priority != "" {
		p := entity.Priority(in.Priority)
		if !p.Valid() {
			return nil, invalidField("priority", "must be one of Low Medium High")
		}
		t.Priority = p
	}
	if in.Status != "" {
		st := entity.Status(in.Status)
		if !st.Valid() {
			return nil, invalidField("status", "must be one of Pending Completed")
		}
		t.Status = st
	}

	if err := s.Repo.Update(ctx, t); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.NotFound("task not found")
		}
		return nil, apperror.Internal("update task", err)
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, taskID, ownerID string) error {
	if _, err := s.authorize(ctx, taskID, ownerID); err != nil {
		return err
	}
	if err := s.Repo.DeleteByID(ctx, taskID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("task not found")
		}
		return apperror.Internal("delete task", err)
	}
	helpers.LogInfo(s.Logger, "task deleted", logrus.Fields{"task_id": taskID, "user_id": ownerID})
	return nil
}

// authorize loads the task and applies the ownership policy before anything else happens.
func (s *TaskService) authorize(ctx context.Context, taskID, userID string) (*entity.Task, error) {
	t, err := s.Repo.FindByID(ctx, taskID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.Internal("find task", err)
		}
		t = nil
	}
	if d := policy.Decide(t, userID); d != policy.Allow {
		return nil, d.Err()
	}
	return t, nil
}

func invalidField(field, msg string) error {
	return apperror.Validation("validation failed", map[string]string{field: msg})
}
