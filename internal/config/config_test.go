package config

import (
	"testing"
	"time"

	"crewhunt/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("PORT", "")
	t.Setenv("ADMIN_USERNAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreBackend != BackendMongo {
		t.Fatalf("expected mongo backend, got %s", cfg.StoreBackend)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.AdminUsername != "admin" {
		t.Fatalf("expected admin, got %s", cfg.AdminUsername)
	}

	g := cfg.Game
	if g.CooldownTime != 30*time.Second || g.KillRangeMeters != 7 {
		t.Fatalf("unexpected kill tuning: %+v", g)
	}
	if g.DefaultTasksPerPlayer != 4 || g.CompletionRatio != 0.8 {
		t.Fatalf("unexpected task tuning: %+v", g)
	}
	if g.RegisterRole != model.RoleDead {
		t.Fatalf("expected new players to start DEAD, got %s", g.RegisterRole)
	}
	if g.Rewards.TaskCompleted != 1 || g.Rewards.Kill != 2 || g.Rewards.WinBonus != 5 {
		t.Fatalf("unexpected rewards: %+v", g.Rewards)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("REDIS_URI", "redis://cache:6380")
	t.Setenv("COOLDOWN_TIME", "10")
	t.Setenv("KILL_RANGE", "12.5")
	t.Setenv("REGISTER_ROLE", "CREWMATE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreBackend != BackendMemory {
		t.Fatalf("expected memory backend, got %s", cfg.StoreBackend)
	}
	if cfg.RedisAddr != "cache:6380" {
		t.Fatalf("expected redis:// prefix stripped, got %s", cfg.RedisAddr)
	}
	if cfg.Game.CooldownTime != 10*time.Second {
		t.Fatalf("expected 10s cooldown, got %s", cfg.Game.CooldownTime)
	}
	if cfg.Game.KillRangeMeters != 12.5 {
		t.Fatalf("expected 12.5m range, got %f", cfg.Game.KillRangeMeters)
	}
	if cfg.Game.RegisterRole != model.RoleCrewmate {
		t.Fatalf("expected CREWMATE, got %s", cfg.Game.RegisterRole)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"STORE_BACKEND":         "postgres",
		"COOLDOWN_TIME":         "soon",
		"TASK_COMPLETION_RATIO": "1.5",
		"REGISTER_ROLE":         "IMPOSTER",
		"REMOTE_SCALE_DIVISOR":  "0",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}

func TestRemoteScale(t *testing.T) {
	c := DefaultGameConfig()
	cases := map[int]int{0: 2, 5: 2, 19: 2, 30: 3, 45: 4, 100: 10}
	for players, want := range cases {
		if got := c.RemoteScale(players); got != want {
			t.Fatalf("RemoteScale(%d) = %d, want %d", players, got, want)
		}
	}
}
