package config

import (
	"fmt"
	"time"

	"crewhunt/internal/model"
)

// Rewards defines the score deltas paid by the round engine
type Rewards struct {
	// TaskCompleted is paid once per completed assignment
	TaskCompleted int `json:"taskCompleted"`

	// Kill is paid to the imposter for every elimination, proximity or remote
	Kill int `json:"kill"`

	// WinBonus is paid once per round to every player holding the winning role
	WinBonus int `json:"winBonus"`
}

// GameConfig holds all round-engine tuning
type GameConfig struct {
	CooldownTime       time.Duration `json:"cooldownTime"`
	KillRangeMeters    float64       `json:"killRangeMeters"`
	RemoteKillCooldown time.Duration `json:"remoteKillCooldown"` // 0 leaves remote kills client-throttled only

	DefaultTasksPerPlayer int     `json:"defaultTasksPerPlayer"`
	CompletionRatio       float64 `json:"completionRatio"`

	// Remote kills keep each orphaned task with probability 1/scale where
	// scale = max(RemoteScaleMin, totalPlayers/RemoteScaleDivisor)
	RemoteScaleMin     int `json:"remoteScaleMin"`
	RemoteScaleDivisor int `json:"remoteScaleDivisor"`

	RegisterRole model.Role `json:"registerRole"`
	Rewards      Rewards    `json:"rewards"`
}

// DefaultGameConfig returns the stock game tuning
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		CooldownTime:          30 * time.Second,
		KillRangeMeters:       7,
		RemoteKillCooldown:    0,
		DefaultTasksPerPlayer: 4,
		CompletionRatio:       0.8,
		RemoteScaleMin:        2,
		RemoteScaleDivisor:    10,
		RegisterRole:          model.RoleDead,
		Rewards: Rewards{
			TaskCompleted: 1,
			Kill:          2,
			WinBonus:      5,
		},
	}
}

// LoadGameConfig applies environment overrides on top of DefaultGameConfig
func LoadGameConfig() (*GameConfig, error) {
	c := DefaultGameConfig()
	var err error

	if c.CooldownTime, err = getEnvSeconds("COOLDOWN_TIME", c.CooldownTime); err != nil {
		return nil, err
	}
	if c.RemoteKillCooldown, err = getEnvSeconds("REMOTE_KILL_COOLDOWN", c.RemoteKillCooldown); err != nil {
		return nil, err
	}
	if c.KillRangeMeters, err = getEnvFloat("KILL_RANGE", c.KillRangeMeters); err != nil {
		return nil, err
	}
	if c.DefaultTasksPerPlayer, err = getEnvInt("DEFAULT_TASKS_PER_PLAYER", c.DefaultTasksPerPlayer); err != nil {
		return nil, err
	}
	if c.CompletionRatio, err = getEnvFloat("TASK_COMPLETION_RATIO", c.CompletionRatio); err != nil {
		return nil, err
	}
	if c.RemoteScaleMin, err = getEnvInt("REMOTE_SCALE_MIN", c.RemoteScaleMin); err != nil {
		return nil, err
	}
	if c.RemoteScaleDivisor, err = getEnvInt("REMOTE_SCALE_DIVISOR", c.RemoteScaleDivisor); err != nil {
		return nil, err
	}
	if raw := getEnv("REGISTER_ROLE", ""); raw != "" {
		role, err := model.ParseRole(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REGISTER_ROLE: %w", err)
		}
		c.RegisterRole = role
	}

	return c, c.Validate()
}

// Validate rejects tuning the engine cannot run with
func (c *GameConfig) Validate() error {
	if c.KillRangeMeters < 0 {
		return fmt.Errorf("kill range must not be negative")
	}
	if c.DefaultTasksPerPlayer < 1 {
		return fmt.Errorf("default tasks per player must be at least 1")
	}
	if c.CompletionRatio <= 0 || c.CompletionRatio > 1 {
		return fmt.Errorf("completion ratio must be in (0, 1]")
	}
	if c.RemoteScaleMin < 1 || c.RemoteScaleDivisor < 1 {
		return fmt.Errorf("remote scale parameters must be positive")
	}
	if c.RegisterRole == model.RoleImposter {
		return fmt.Errorf("players cannot register as %s", model.RoleImposter)
	}
	return nil
}

// RemoteScale returns the scaling factor for probabilistic task redistribution
func (c *GameConfig) RemoteScale(totalPlayers int) int {
	scale := totalPlayers / c.RemoteScaleDivisor
	if scale < c.RemoteScaleMin {
		return c.RemoteScaleMin
	}
	return scale
}
