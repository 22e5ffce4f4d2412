// Package memory is an in-process implementation of the user and task stores.
// It backs STORE_DRIVER=memory and the service and handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Gitsandu/taskmanagementBackend/internal/domain/entity"
	"github.com/Gitsandu/taskmanagementBackend/internal/domain/repository"
)

// Store keeps users and tasks in maps guarded by one RWMutex.
type Store struct {
	mu      sync.RWMutex
	users   map[string]*entity.User
	byEmail map[string]string
	tasks   map[string]*entity.Task
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]*entity.User),
		byEmail: make(map[string]string),
		tasks:   make(map[string]*entity.Task),
		now:     time.Now,
	}
}

// WithClock replaces the timestamp source used for created/updated times.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	return s
}

// Users returns the store as a UserRepository.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Tasks returns the store as a TaskRepository.
func (s *Store) Tasks() repository.TaskRepository { return taskRepo{s} }

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.byEmail[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	now := r.s.now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	r.s.users[u.ID] = &cp
	r.s.byEmail[u.Email] = u.ID
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	id, ok := r.s.byEmail[email]
	r.s.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

type taskRepo struct{ s *Store }

func copyTask(t *entity.Task) *entity.Task {
	cp := *t
	if t.DueDate != nil {
		d := *t.DueDate
		cp.DueDate = &d
	}
	return &cp
}

func (r taskRepo) Create(_ context.Context, t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt, t.UpdatedAt = now, now
	r.s.tasks[t.ID] = copyTask(t)
	return nil
}

func (r taskRepo) FindByID(_ context.Context, id string) (*entity.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyTask(t), nil
}

func (r taskRepo) FindMany(_ context.Context, f repository.TaskFilter, s repository.TaskSort) ([]*entity.Task, error) {
	r.s.mu.RLock()
	out := make([]*entity.Task, 0)
	for _, t := range r.s.tasks {
		if matches(t, f) {
			out = append(out, copyTask(t))
		}
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j], s.Field)
		if c == 0 {
			return out[i].ID < out[j].ID
		}
		if s.Desc {
			return c > 0
		}
		return c < 0
	})
	return out, nil
}

func (r taskRepo) Update(_ context.Context, t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.tasks[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	next := copyTask(t)
	next.OwnerID = cur.OwnerID
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = r.s.now().UTC()
	r.s.tasks[t.ID] = next
	t.UpdatedAt = next.UpdatedAt
	return nil
}

func (r taskRepo) DeleteByID(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

func (r taskRepo) CountByPriority(_ context.Context, ownerID string) ([]repository.PriorityCount, error) {
	r.s.mu.RLock()
	counts := make(map[entity.Priority]int)
	for _, t := range r.s.tasks {
		if t.OwnerID == ownerID {
			counts[t.Priority]++
		}
	}
	r.s.mu.RUnlock()

	out := make([]repository.PriorityCount, 0, len(counts))
	for p, n := range counts {
		out = append(out, repository.PriorityCount{Priority: p, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out, nil
}

func matches(t *entity.Task, f repository.TaskFilter) bool {
	if t.OwnerID != f.OwnerID {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	if f.CreatedFrom != nil && t.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && t.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	if f.DueFrom != nil || f.DueTo != nil {
		if t.DueDate == nil {
			return false
		}
		if f.DueFrom != nil && t.DueDate.Before(*f.DueFrom) {
			return false
		}
		if f.DueTo != nil && t.DueDate.After(*f.DueTo) {
			return false
		}
	}
	return true
}

// compare orders a before b on field; nil due dates sort lowest.
func compare(a, b *entity.Task, field repository.SortField) int {
	switch field {
	case repository.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case repository.SortByDueDate:
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return -1
		case b.DueDate == nil:
			return 1
		}
		return a.DueDate.Compare(*b.DueDate)
	case repository.SortByTitle:
		return strings.Compare(a.Title, b.Title)
	case repository.SortByDescription:
		return strings.Compare(a.Description, b.Description)
	case repository.SortByPriority:
		return strings.Compare(string(a.Priority), string(b.Priority))
	case repository.SortByStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
