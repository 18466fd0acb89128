package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"crewhunt/internal/model"
)

func newClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestLocationCache(t *testing.T) {
	ctx := context.Background()
	c := NewLocationCache(newClient(t))

	missing, err := c.Get(ctx, "alice")
	if err != nil || missing != nil {
		t.Fatalf("expected nil location, got %+v, %v", missing, err)
	}

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for _, loc := range []*model.Location{
		{Username: "alice", Latitude: 1.5, Longitude: 2.5, UpdatedAt: at},
		{Username: "bob", Latitude: 3, Longitude: 4, UpdatedAt: at},
		{Username: "admin", Latitude: 5, Longitude: 6, UpdatedAt: at},
	} {
		if err := c.Set(ctx, loc); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	// Last report wins
	if err := c.Set(ctx, &model.Location{Username: "alice", Latitude: 9, Longitude: 8, UpdatedAt: at}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Latitude != 9 || got.Longitude != 8 || !got.UpdatedAt.Equal(at) {
		t.Fatalf("unexpected location %+v", got)
	}

	if err := c.ClearExcept(ctx, "admin"); err != nil {
		t.Fatalf("ClearExcept: %v", err)
	}
	all, err := c.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 || all["admin"] == nil {
		t.Fatalf("expected only admin left, got %v", all)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	all, _ = c.GetAll(ctx)
	if len(all) != 0 {
		t.Fatalf("expected empty cache, got %v", all)
	}
}

func TestVoteCacheLastVoteWins(t *testing.T) {
	ctx := context.Background()
	c := NewVoteCache(newClient(t))

	c.Cast(ctx, "bob", "carol")
	c.Cast(ctx, "alice", "bob")
	c.Cast(ctx, "bob", "")

	votes, err := c.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	want := []model.Vote{{VoterID: "alice", TargetID: "bob"}, {VoterID: "bob", TargetID: ""}}
	if len(votes) != len(want) {
		t.Fatalf("expected %d votes, got %v", len(want), votes)
	}
	for i := range want {
		if votes[i] != want[i] {
			t.Fatalf("vote %d: expected %+v, got %+v", i, want[i], votes[i])
		}
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	votes, _ = c.All(ctx)
	if len(votes) != 0 {
		t.Fatalf("expected no votes after clear, got %v", votes)
	}
}

func TestLeaderboardDenseRanking(t *testing.T) {
	ctx := context.Background()
	c := NewLeaderboardCache(newClient(t))

	err := c.Reset(ctx, []model.ScoreEntry{
		{Username: "dave", Score: 3},
		{Username: "carol", Score: 7},
		{Username: "bob", Score: 7},
		{Username: "erin", Score: 0},
	})
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := c.UpdateScore(ctx, "alice", 3); err != nil {
		t.Fatalf("UpdateScore: %v", err)
	}

	rankings, err := c.GetRankings(ctx)
	if err != nil {
		t.Fatalf("GetRankings: %v", err)
	}
	want := []model.LeaderboardEntry{
		{Username: "bob", Score: 7, Rank: 1},
		{Username: "carol", Score: 7, Rank: 1},
		{Username: "alice", Score: 3, Rank: 2},
		{Username: "dave", Score: 3, Rank: 2},
		{Username: "erin", Score: 0, Rank: 3},
	}
	if len(rankings) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), rankings)
	}
	for i := range want {
		if rankings[i] != want[i] {
			t.Fatalf("entry %d: expected %+v, got %+v", i, want[i], rankings[i])
		}
	}

	if err := c.Remove(ctx, "erin", "dave"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := c.Reset(ctx, nil); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	rankings, _ = c.GetRankings(ctx)
	if len(rankings) != 0 {
		t.Fatalf("expected empty leaderboard, got %v", rankings)
	}
}
