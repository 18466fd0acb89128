package memory

import (
	"context"
	"sort"
	"sync"

	"crewhunt/internal/cache"
	"crewhunt/internal/model"
)

// LocationStore is an in-memory cache.LocationCache
type LocationStore struct {
	locations map[string]model.Location
	mu        sync.RWMutex
}

func NewLocationStore() *LocationStore {
	return &LocationStore{locations: make(map[string]model.Location)}
}

func (s *LocationStore) Set(ctx context.Context, loc *model.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[loc.Username] = *loc
	return nil
}

func (s *LocationStore) Get(ctx context.Context, username string) (*model.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, exists := s.locations[username]
	if !exists {
		return nil, nil
	}
	return &loc, nil
}

func (s *LocationStore) GetAll(ctx context.Context) (map[string]*model.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*model.Location, len(s.locations))
	for u, loc := range s.locations {
		loc := loc
		out[u] = &loc
	}
	return out, nil
}

func (s *LocationStore) Delete(ctx context.Context, usernames ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range usernames {
		delete(s.locations, u)
	}
	return nil
}

func (s *LocationStore) ClearExcept(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for u := range s.locations {
		if u != username {
			delete(s.locations, u)
		}
	}
	return nil
}

func (s *LocationStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations = make(map[string]model.Location)
	return nil
}

// VoteStore is an in-memory cache.VoteCache
type VoteStore struct {
	votes map[string]string
	mu    sync.Mutex
}

func NewVoteStore() *VoteStore {
	return &VoteStore{votes: make(map[string]string)}
}

func (s *VoteStore) Cast(ctx context.Context, voterID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes[voterID] = targetID
	return nil
}

func (s *VoteStore) All(ctx context.Context) ([]model.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	votes := make([]model.Vote, 0, len(s.votes))
	for voter, target := range s.votes {
		votes = append(votes, model.Vote{VoterID: voter, TargetID: target})
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].VoterID < votes[j].VoterID })
	return votes, nil
}

func (s *VoteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes = make(map[string]string)
	return nil
}

// LeaderboardStore is an in-memory cache.LeaderboardCache
type LeaderboardStore struct {
	scores map[string]int
	mu     sync.RWMutex
}

func NewLeaderboardStore() *LeaderboardStore {
	return &LeaderboardStore{scores: make(map[string]int)}
}

func (s *LeaderboardStore) UpdateScore(ctx context.Context, username string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[username] = score
	return nil
}

func (s *LeaderboardStore) UpdateScores(ctx context.Context, entries []model.ScoreEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.scores[e.Username] = e.Score
	}
	return nil
}

func (s *LeaderboardStore) Remove(ctx context.Context, usernames ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range usernames {
		delete(s.scores, u)
	}
	return nil
}

func (s *LeaderboardStore) Reset(ctx context.Context, entries []model.ScoreEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = make(map[string]int, len(entries))
	for _, e := range entries {
		s.scores[e.Username] = e.Score
	}
	return nil
}

func (s *LeaderboardStore) GetRankings(ctx context.Context) ([]model.LeaderboardEntry, error) {
	s.mu.RLock()
	entries := make([]model.ScoreEntry, 0, len(s.scores))
	for u, score := range s.scores {
		entries = append(entries, model.ScoreEntry{Username: u, Score: score})
	}
	s.mu.RUnlock()
	return cache.DenseRank(entries), nil
}

var (
	_ cache.LocationCache    = (*LocationStore)(nil)
	_ cache.VoteCache        = (*VoteStore)(nil)
	_ cache.LeaderboardCache = (*LeaderboardStore)(nil)
)
