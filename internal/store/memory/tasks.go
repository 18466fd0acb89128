package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"crewhunt/internal/model"
	"crewhunt/internal/repository"
)

// TaskStore is an in-memory repository.TaskRepo
type TaskStore struct {
	tasks map[string]*model.Task
	seq   int
	order map[string]int
	mu    sync.RWMutex
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[string]*model.Task),
		order: make(map[string]int),
	}
}

func (s *TaskStore) Create(ctx context.Context, task *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if _, exists := s.tasks[task.ID]; exists {
		return repository.ErrDuplicate
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	c := *task
	s.tasks[task.ID] = &c
	s.seq++
	s.order[task.ID] = s.seq
	return nil
}

func (s *TaskStore) GetByID(ctx context.Context, id string) (*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, exists := s.tasks[id]
	if !exists {
		return nil, nil
	}
	c := *t
	return &c, nil
}

func (s *TaskStore) GetByIDs(ctx context.Context, ids []string) (map[string]*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*model.Task, len(ids))
	for _, id := range ids {
		if t, exists := s.tasks[id]; exists {
			c := *t
			out[id] = &c
		}
	}
	return out, nil
}

// List returns tasks in insertion order
func (s *TaskStore) List(ctx context.Context) ([]*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		c := *t
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return s.order[out[i].ID] < s.order[out[j].ID] })
	return out, nil
}

func (s *TaskStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks), nil
}

var _ repository.TaskRepo = (*TaskStore)(nil)
