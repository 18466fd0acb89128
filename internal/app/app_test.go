package app

import (
	"context"
	"testing"

	"crewhunt/internal/config"
	"crewhunt/internal/model"
)

func TestInitOnMemoryBackend(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		StoreBackend:  config.BackendMemory,
		JWTSecret:     "test-secret",
		AdminUsername: "admin",
		AdminPassword: "admin-password",
		Game:          config.DefaultGameConfig(),
	}

	a, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close(ctx)

	a.Stores.Locations.Set(ctx, &model.Location{Username: "ghost", Latitude: 1, Longitude: 1})
	for i := 0; i < 2; i++ {
		if err := a.Init(ctx); err != nil {
			t.Fatalf("Init #%d: %v", i+1, err)
		}
	}

	admin, err := a.PlayerService.GetPlayer(ctx, "admin")
	if err != nil {
		t.Fatalf("admin missing: %v", err)
	}
	if admin.Role != model.RoleDead {
		t.Fatalf("admin must be DEAD, got %s", admin.Role)
	}
	if n, _ := a.TaskService.PoolSize(ctx); n != 1 {
		t.Fatalf("expected the default task once, got %d", n)
	}
	if loc, _ := a.Stores.Locations.Get(ctx, "ghost"); loc != nil {
		t.Fatalf("stale locations must be cleared")
	}
	if board, _ := a.PlayerService.Leaderboard(ctx); len(board) != 0 {
		t.Fatalf("admin must not be ranked, got %v", board)
	}
}
