// Package memory keeps every repository and cache in process memory.
// It backs STORE_BACKEND=memory and the service tests.
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

// PlayerStore is an in-memory repository.PlayerRepo
type PlayerStore struct {
	players map[string]*model.Player // by username
	mu      sync.RWMutex
}

// NewPlayerStore creates an empty player store
func NewPlayerStore() *PlayerStore {
	return &PlayerStore{
		players: make(map[string]*model.Player),
	}
}

func clonePlayer(p *model.Player) *model.Player {
	c := *p
	return &c
}

func (s *PlayerStore) Create(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.players[player.Username]; exists {
		return repository.ErrDuplicate
	}
	if player.ID == "" {
		player.ID = uuid.NewString()
	}
	if player.CreatedAt.IsZero() {
		player.CreatedAt = time.Now()
	}
	s.players[player.Username] = clonePlayer(player)
	return nil
}

func (s *PlayerStore) GetByID(ctx context.Context, id string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.players {
		if p.ID == id {
			return clonePlayer(p), nil
		}
	}
	return nil, nil
}

func (s *PlayerStore) GetByUsername(ctx context.Context, username string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, exists := s.players[username]
	if !exists {
		return nil, nil
	}
	return clonePlayer(p), nil
}

func (s *PlayerStore) List(ctx context.Context) ([]*model.Player, error) {
	return s.filter(func(*model.Player) bool { return true }), nil
}

func (s *PlayerStore) ListByRole(ctx context.Context, role model.Role) ([]*model.Player, error) {
	return s.filter(func(p *model.Player) bool { return p.Role == role }), nil
}

func (s *PlayerStore) filter(keep func(*model.Player) bool) []*model.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		if keep(p) {
			out = append(out, clonePlayer(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (s *PlayerStore) CountByRole(ctx context.Context) (map[model.Role]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := map[model.Role]int{
		model.RoleCrewmate: 0,
		model.RoleImposter: 0,
		model.RoleDead:     0,
	}
	for _, p := range s.players {
		counts[p.Role]++
	}
	return counts, nil
}

func (s *PlayerStore) SetRole(ctx context.Context, username string, role model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, exists := s.players[username]
	if !exists {
		return repository.ErrNotFound
	}
	p.Role = role
	return nil
}

func (s *PlayerStore) CompareAndSetRole(ctx context.Context, username string, from, to model.Role) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, exists := s.players[username]
	if !exists || p.Role != from {
		return false, nil
	}
	p.Role = to
	return true, nil
}

func (s *PlayerStore) ResetRoles(ctx context.Context, role model.Role, excluding string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for username, p := range s.players {
		if username != excluding {
			p.Role = role
		}
	}
	return nil
}

func (s *PlayerStore) SetLastKillTime(ctx context.Context, username string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, exists := s.players[username]
	if !exists {
		return repository.ErrNotFound
	}
	p.LastKillTime = t
	return nil
}

func (s *PlayerStore) ClaimKillSlot(ctx context.Context, username string, now time.Time, cooldown time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, exists := s.players[username]
	if !exists {
		return false, nil
	}
	if !p.LastKillTime.IsZero() && now.Sub(p.LastKillTime) < cooldown {
		return false, nil
	}
	p.LastKillTime = now
	return true, nil
}

func (s *PlayerStore) AdjustScore(ctx context.Context, username string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, exists := s.players[username]
	if !exists {
		return 0, repository.ErrNotFound
	}
	p.Score += delta
	return p.Score, nil
}

func (s *PlayerStore) BulkAdjustScore(ctx context.Context, role model.Role, delta int) ([]model.ScoreEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []model.ScoreEntry
	for _, p := range s.players {
		if p.Role != role {
			continue
		}
		p.Score += delta
		entries = append(entries, model.ScoreEntry{Username: p.Username, Score: p.Score})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Username < entries[j].Username })
	return entries, nil
}

func (s *PlayerStore) ClearScores(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		p.Score = 0
	}
	return nil
}

func (s *PlayerStore) DeleteAllExcept(ctx context.Context, username string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for u := range s.players {
		if u != username {
			delete(s.players, u)
			deleted++
		}
	}
	return deleted, nil
}

var _ repository.PlayerRepo = (*PlayerStore)(nil)
