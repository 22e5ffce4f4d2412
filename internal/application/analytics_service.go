package application

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Gitsandu/taskmanagementBackend/internal/domain/apperror"
	"github.com/Gitsandu/taskmanagementBackend/internal/domain/entity"
	repo "github.com/Gitsandu/taskmanagementBackend/internal/domain/repository"
	"github.com/Gitsandu/taskmanagementBackend/pkg/helpers"
)

const (
	DefaultWindowDays = 7
	MinWindowDays     = 1
	MaxWindowDays     = 365
)

// CompletionRatePoint is one calendar-day bucket of the completion series.
type CompletionRatePoint struct {
	Date           string  `json:"date"`
	CompletionRate float64 `json:"completionRate"`
	Completed      int     `json:"completed"`
	Total          int     `json:"total"`
}

type AnalyticsService struct {
	Repo   repo.TaskRepository
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewAnalyticsService(repo repo.TaskRepository, logger *logrus.Logger) *AnalyticsService {
	return &AnalyticsService{Repo: repo, Logger: logger, Now: time.Now}
}

func (s *AnalyticsService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func checkDays(days int) error {
	if days < MinWindowDays || days > MaxWindowDays {
		return apperror.Validation("days must be between 1 and 365", map[string]string{"days": "must be between 1 and 365"})
	}
	return nil
}

// PriorityDistribution counts the user's tasks per priority. Absent priorities are omitted.
func (s *AnalyticsService) PriorityDistribution(ctx context.Context, userID string) ([]repo.PriorityCount, error) {
	out, err := s.Repo.CountByPriority(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("count by priority", err)
	}
	if out == nil {
		out = []repo.PriorityCount{}
	}
	return out, nil
}

// CompletionRate returns exactly days buckets, oldest first, ending with today (UTC).
// Each task created in [now-days, now] lands in the bucket of its creation day.
func (s *AnalyticsService) CompletionRate(ctx context.Context, userID string, days int) ([]CompletionRatePoint, error) {
	if err := checkDays(days); err != nil {
		return nil, err
	}
	now := s.now()
	from := now.AddDate(0, 0, -days)

	tasks, err := s.Repo.FindMany(ctx, repo.TaskFilter{
		OwnerID:     userID,
		CreatedFrom: &from,
		CreatedTo:   &now,
	}, repo.TaskSort{Field: repo.SortByCreatedAt})
	if err != nil {
		return nil, apperror.Internal("load tasks for completion rate", err)
	}

	points := make([]CompletionRatePoint, days)
	index := make(map[string]int, days)
	first := helpers.StartOfDayUTC(now).AddDate(0, 0, -(days - 1))
	for i := range points {
		key := helpers.DayKey(first.AddDate(0, 0, i))
		points[i].Date = key
		index[key] = i
	}

	for _, t := range tasks {
		i, ok := index[helpers.DayKey(t.CreatedAt)]
		if !ok {
			continue
		}
		points[i].Total++
		if t.Status == entity.StatusCompleted {
			points[i].Completed++
		}
	}
	for i := range points {
		points[i].CompletionRate = rate(points[i].Completed, points[i].Total)
	}
	return points, nil
}

// rate is completed/total as a percentage rounded to two decimals; 0 for an empty bucket.
func rate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*100*100) / 100
}

// UpcomingDeadlines lists pending tasks due within [now, now+days], soonest first.
func (s *AnalyticsService) UpcomingDeadlines(ctx context.Context, userID string, days int) ([]*entity.Task, error) {
	if err := checkDays(days); err != nil {
		return nil, err
	}
	now := s.now()
	until := now.AddDate(0, 0, days)

	tasks, err := s.Repo.FindMany(ctx, repo.TaskFilter{
		OwnerID: userID,
		Status:  entity.StatusPending,
		DueFrom: &now,
		DueTo:   &until,
	}, repo.TaskSort{Field: repo.SortByDueDate})
	if err != nil {
		return nil, apperror.Internal("load upcoming deadlines", err)
	}
	return tasks, nil
}
