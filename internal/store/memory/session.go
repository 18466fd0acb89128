package memory

import (
	"context"
	"sync"
	"time"

	"crewhunt/internal/model"
	"crewhunt/internal/repository"
)

// SessionStore is an in-memory repository.SessionRepo
type SessionStore struct {
	session model.GameSession
	mu      sync.Mutex
}

func NewSessionStore() *SessionStore {
	return &SessionStore{session: *model.NewGameSession()}
}

func (s *SessionStore) Get(ctx context.Context) (*model.GameSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.session
	return &c, nil
}

func (s *SessionStore) SetMeetingActive(ctx context.Context, from, to bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.EmergencyMeetingActive != from {
		return false, nil
	}
	s.session.EmergencyMeetingActive = to
	s.session.Version++
	return true, nil
}

func (s *SessionStore) ClaimWinnerAward(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.WinnerAwarded {
		return false, nil
	}
	s.session.WinnerAwarded = true
	s.session.Version++
	return true, nil
}

func (s *SessionStore) ReleaseWinnerAward(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.WinnerAwarded {
		s.session.WinnerAwarded = false
		s.session.Version++
	}
	return nil
}

func (s *SessionStore) StartRound(ctx context.Context, tasksPerPlayer, target int, at time.Time) (*model.GameSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.TasksPerPlayer = tasksPerPlayer
	s.session.TaskCompletionTarget = target
	s.session.WinnerAwarded = false
	s.session.RoundStartedAt = at
	s.session.Round++
	s.session.Version++
	c := s.session
	return &c, nil
}

var _ repository.SessionRepo = (*SessionStore)(nil)
