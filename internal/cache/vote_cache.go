package cache

import (
	"context"
	"sort"

	"github.com/redis/go-redis/v9"

	"crewhunt/internal/model"
)

// VoteCache holds the votes of the current emergency meeting, one per voter
type VoteCache interface {
	// Cast records the voter's choice, replacing any earlier one.
	// An empty targetID is a skip and is stored as an empty value.
	Cast(ctx context.Context, voterID, targetID string) error
	All(ctx context.Context) ([]model.Vote, error)
	Clear(ctx context.Context) error
}

type voteCache struct {
	client *redis.Client
}

func NewVoteCache(client *redis.Client) VoteCache {
	return &voteCache{
		client: client,
	}
}

func (c *voteCache) key() string {
	return "game:meeting:votes"
}

func (c *voteCache) Cast(ctx context.Context, voterID, targetID string) error {
	return c.client.HSet(ctx, c.key(), voterID, targetID).Err()
}

func (c *voteCache) All(ctx context.Context) ([]model.Vote, error) {
	data, err := c.client.HGetAll(ctx, c.key()).Result()
	if err != nil {
		return nil, err
	}
	votes := make([]model.Vote, 0, len(data))
	for voter, target := range data {
		votes = append(votes, model.Vote{VoterID: voter, TargetID: target})
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].VoterID < votes[j].VoterID })
	return votes, nil
}

func (c *voteCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, c.key()).Err()
}
