package repository

import (
	"context"
	"time"

	"github.com/Gitsandu/taskmanagementBackend/internal/domain/entity"
)

// SortField names a sortable task attribute using its JSON name.
type SortField string

const (
	SortByCreatedAt   SortField = "createdAt"
	SortByUpdatedAt   SortField = "updatedAt"
	SortByDueDate     SortField = "dueDate"
	SortByTitle       SortField = "title"
	SortByDescription SortField = "description"
	SortByPriority    SortField = "priority"
	SortByStatus      SortField = "status"
)

var sortable = map[SortField]struct{}{
	SortByCreatedAt:   {},
	SortByUpdatedAt:   {},
	SortByDueDate:     {},
	SortByTitle:       {},
	SortByDescription: {},
	SortByPriority:    {},
	SortByStatus:      {},
}

func (f SortField) Valid() bool {
	_, ok := sortable[f]
	return ok
}

// TaskSort orders a result set. Nil due dates come first ascending and last descending.
type TaskSort struct {
	Field SortField
	Desc  bool
}

// DefaultTaskSort is newest first.
var DefaultTaskSort = TaskSort{Field: SortByCreatedAt, Desc: true}

// TaskFilter narrows FindMany. OwnerID is mandatory; zero values of the other
// fields disable the corresponding condition. Time bounds are inclusive.
type TaskFilter struct {
	OwnerID string
	Status  entity.Status
	// Search is a case-insensitive literal substring matched against title OR description.
	Search string

	CreatedFrom *time.Time
	CreatedTo   *time.Time
	DueFrom     *time.Time
	DueTo       *time.Time
}

// PriorityCount is one group of the priority aggregation.
type PriorityCount struct {
	Priority entity.Priority `json:"priority"`
	Count    int             `json:"count"`
}

// TaskRepository is the task store. Implementations must be safe for concurrent use.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	FindByID(ctx context.Context, id string) (*entity.Task, error)
	FindMany(ctx context.Context, f TaskFilter, s TaskSort) ([]*entity.Task, error)
	// Update writes every mutable field except OwnerID and refreshes UpdatedAt.
	Update(ctx context.Context, t *entity.Task) error
	DeleteByID(ctx context.Context, id string) error
	// CountByPriority groups the owner's tasks by priority. Empty groups are absent.
	CountByPriority(ctx context.Context, ownerID string) ([]PriorityCount, error)
}
