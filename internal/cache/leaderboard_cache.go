package cache

import (
	"context"
	"sort"

	"github.com/redis/go-redis/v9"

	"crewhunt/internal/model"
)

// LeaderboardCache handles Redis ZSET operations for the score leaderboard.
// It mirrors the scores held by the player registry.
type LeaderboardCache interface {
	UpdateScore(ctx context.Context, username string, score int) error
	UpdateScores(ctx context.Context, entries []model.ScoreEntry) error
	Remove(ctx context.Context, usernames ...string) error
	// Reset replaces the whole leaderboard with entries
	Reset(ctx context.Context, entries []model.ScoreEntry) error
	GetRankings(ctx context.Context) ([]model.LeaderboardEntry, error)
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

func (c *leaderboardCache) key() string {
	return "game:lb"
}

func (c *leaderboardCache) UpdateScore(ctx context.Context, username string, score int) error {
	return c.client.ZAdd(ctx, c.key(), redis.Z{
		Score:  float64(score),
		Member: username,
	}).Err()
}

func (c *leaderboardCache) UpdateScores(ctx context.Context, entries []model.ScoreEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return c.client.ZAdd(ctx, c.key(), toMembers(entries)...).Err()
}

func (c *leaderboardCache) Remove(ctx context.Context, usernames ...string) error {
	if len(usernames) == 0 {
		return nil
	}
	members := make([]interface{}, len(usernames))
	for i, u := range usernames {
		members[i] = u
	}
	return c.client.ZRem(ctx, c.key(), members...).Err()
}

func (c *leaderboardCache) Reset(ctx context.Context, entries []model.ScoreEntry) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.key())
		if len(entries) > 0 {
			pipe.ZAdd(ctx, c.key(), toMembers(entries)...)
		}
		return nil
	})
	return err
}

func (c *leaderboardCache) GetRankings(ctx context.Context) ([]model.LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.ScoreEntry, len(results))
	for i, z := range results {
		entries[i] = model.ScoreEntry{
			Username: z.Member.(string),
			Score:    int(z.Score),
		}
	}
	return DenseRank(entries), nil
}

func toMembers(entries []model.ScoreEntry) []redis.Z {
	members := make([]redis.Z, len(entries))
	for i, e := range entries {
		members[i] = redis.Z{Score: float64(e.Score), Member: e.Username}
	}
	return members
}

// DenseRank orders entries by score descending then username ascending and
// assigns dense ranks: equal scores share a rank, the next score gets rank+1.
func DenseRank(entries []model.ScoreEntry) []model.LeaderboardEntry {
	sorted := make([]model.ScoreEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Username < sorted[j].Username
	})

	ranked := make([]model.LeaderboardEntry, len(sorted))
	rank := 0
	for i, e := range sorted {
		if i == 0 || e.Score != sorted[i-1].Score {
			rank++
		}
		ranked[i] = model.LeaderboardEntry{Username: e.Username, Score: e.Score, Rank: rank}
	}
	return ranked
}
