package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"crewhunt/internal/model"
	"crewhunt/internal/repository"
)

// AssignmentStore is an in-memory repository.AssignmentRepo. Rows are kept
// in insertion order.
type AssignmentStore struct {
	rows []*model.TaskAssignment
	mu   sync.Mutex
}

func NewAssignmentStore() *AssignmentStore {
	return &AssignmentStore{}
}

func (s *AssignmentStore) InsertMany(ctx context.Context, assignments []*model.TaskAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for _, a := range assignments {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.AssignedAt.IsZero() {
			a.AssignedAt = now
		}
		c := *a
		s.rows = append(s.rows, &c)
	}
	return nil
}

func (s *AssignmentStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = nil
	return nil
}

func (s *AssignmentStore) ListByUsername(ctx context.Context, username string) ([]*model.TaskAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.TaskAssignment
	for _, a := range s.rows {
		if a.Username == username {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *AssignmentStore) TakeIncomplete(ctx context.Context, username string) ([]*model.TaskAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var taken []*model.TaskAssignment
	kept := s.rows[:0]
	for _, a := range s.rows {
		if a.Username == username && !a.Completed {
			taken = append(taken, a)
			continue
		}
		kept = append(kept, a)
	}
	s.rows = kept
	return taken, nil
}

func (s *AssignmentStore) IncompleteCounts(ctx context.Context, usernames []string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[string]int, len(usernames))
	for _, u := range usernames {
		counts[u] = 0
	}
	for _, a := range s.rows {
		if _, wanted := counts[a.Username]; wanted && !a.Completed {
			counts[a.Username]++
		}
	}
	return counts, nil
}

func (s *AssignmentStore) CompleteOne(ctx context.Context, username, taskID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.rows {
		if a.Username == username && a.TaskID == taskID && !a.Completed {
			a.Completed = true
			return true, nil
		}
	}
	return false, nil
}

func (s *AssignmentStore) Exists(ctx context.Context, username, taskID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.rows {
		if a.Username == username && a.TaskID == taskID {
			return true, nil
		}
	}
	return false, nil
}

func (s *AssignmentStore) CountAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows), nil
}

func (s *AssignmentStore) CountCompleted(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.rows {
		if a.Completed {
			n++
		}
	}
	return n, nil
}

var _ repository.AssignmentRepo = (*AssignmentStore)(nil)
