package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"crewhunt/internal/model"
)

// LocationCache holds the last reported coordinate of each player.
// Its lifecycle is independent of the player registry.
type LocationCache interface {
	Set(ctx context.Context, loc *model.Location) error
	Get(ctx context.Context, username string) (*model.Location, error)
	GetAll(ctx context.Context) (map[string]*model.Location, error)
	Delete(ctx context.Context, usernames ...string) error
	ClearExcept(ctx context.Context, username string) error
	Clear(ctx context.Context) error
}

type locationCache struct {
	client *redis.Client
}

// NewLocationCache creates a new location cache
func NewLocationCache(client *redis.Client) LocationCache {
	return &locationCache{
		client: client,
	}
}

func (c *locationCache) key() string {
	return "game:locations"
}

func (c *locationCache) Set(ctx context.Context, loc *model.Location) error {
	data, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return c.client.HSet(ctx, c.key(), loc.Username, data).Err()
}

func (c *locationCache) Get(ctx context.Context, username string) (*model.Location, error) {
	data, err := c.client.HGet(ctx, c.key(), username).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var loc model.Location
	if err := json.Unmarshal([]byte(data), &loc); err != nil {
		return nil, fmt.Errorf("decode location of %s: %w", username, err)
	}
	return &loc, nil
}

func (c *locationCache) GetAll(ctx context.Context) (map[string]*model.Location, error) {
	data, err := c.client.HGetAll(ctx, c.key()).Result()
	if err != nil {
		return nil, err
	}
	locations := make(map[string]*model.Location, len(data))
	for username, jsonStr := range data {
		var loc model.Location
		if err := json.Unmarshal([]byte(jsonStr), &loc); err != nil {
			continue
		}
		locations[username] = &loc
	}
	return locations, nil
}

func (c *locationCache) Delete(ctx context.Context, usernames ...string) error {
	if len(usernames) == 0 {
		return nil
	}
	return c.client.HDel(ctx, c.key(), usernames...).Err()
}

func (c *locationCache) ClearExcept(ctx context.Context, username string) error {
	fields, err := c.client.HKeys(ctx, c.key()).Result()
	if err != nil {
		return err
	}
	doomed := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != username {
			doomed = append(doomed, f)
		}
	}
	return c.Delete(ctx, doomed...)
}

func (c *locationCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, c.key()).Err()
}
