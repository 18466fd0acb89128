package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"crewhunt/internal/cache"
	"crewhunt/internal/config"
	"crewhunt/internal/geo"
	"crewhunt/internal/model"
	"crewhunt/internal/repository"
)

// PlayerService is the player registry: roles, scores and locations.
// Score changes go to the repository first and are mirrored to the
// leaderboard afterwards.
type PlayerService struct {
	players       repository.PlayerRepo
	locations     cache.LocationCache
	leaderboard   cache.LeaderboardCache
	cfg           *config.GameConfig
	adminUsername string
	now           func() time.Time
}

// NewPlayerService creates a new player service
func NewPlayerService(
	players repository.PlayerRepo,
	locations cache.LocationCache,
	leaderboard cache.LeaderboardCache,
	cfg *config.GameConfig,
	adminUsername string,
) *PlayerService {
	return &PlayerService{
		players:       players,
		locations:     locations,
		leaderboard:   leaderboard,
		cfg:           cfg,
		adminUsername: adminUsername,
		now:           time.Now,
	}
}

// IsAdmin reports whether username is the admin account
func (s *PlayerService) IsAdmin(username string) bool {
	return username == s.adminUsername
}

// GetPlayer returns the player or ErrPlayerNotFound
func (s *PlayerService) GetPlayer(ctx context.Context, username string) (*model.Player, error) {
	player, err := s.players.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

func (s *PlayerService) GetRole(ctx context.Context, username string) (model.Role, error) {
	player, err := s.GetPlayer(ctx, username)
	if err != nil {
		return "", err
	}
	return player.Role, nil
}

// SetRole unconditionally changes the role of username
func (s *PlayerService) SetRole(ctx context.Context, username string, role model.Role) error {
	err := s.players.SetRole(ctx, username, role)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPlayerNotFound
	}
	return err
}

func (s *PlayerService) IsDead(ctx context.Context, username string) (bool, error) {
	role, err := s.GetRole(ctx, username)
	if err != nil {
		return false, err
	}
	return role == model.RoleDead, nil
}

func (s *PlayerService) GetScore(ctx context.Context, username string) (int, error) {
	player, err := s.GetPlayer(ctx, username)
	if err != nil {
		return 0, err
	}
	return player.Score, nil
}

// AdjustScore atomically adds delta and returns the new score
func (s *PlayerService) AdjustScore(ctx context.Context, username string, delta int) (int, error) {
	score, err := s.players.AdjustScore(ctx, username, delta)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, ErrPlayerNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to adjust score: %w", err)
	}
	s.mirrorScores(ctx, model.ScoreEntry{Username: username, Score: score})
	return score, nil
}

// BulkAdjustScore adds delta to every player currently holding role
func (s *PlayerService) BulkAdjustScore(ctx context.Context, role model.Role, delta int) ([]model.ScoreEntry, error) {
	entries, err := s.players.BulkAdjustScore(ctx, role, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust scores: %w", err)
	}
	s.mirrorScores(ctx, entries...)
	return entries, nil
}

func (s *PlayerService) mirrorScores(ctx context.Context, entries ...model.ScoreEntry) {
	ranked := entries[:0:0]
	for _, e := range entries {
		if !s.IsAdmin(e.Username) {
			ranked = append(ranked, e)
		}
	}
	if err := s.leaderboard.UpdateScores(ctx, ranked); err != nil {
		log.Printf("[Players] Failed to update leaderboard: %v", err)
	}
}

// ResetAll makes every non-admin player a crewmate
func (s *PlayerService) ResetAll(ctx context.Context) error {
	if err := s.players.ResetRoles(ctx, model.RoleCrewmate, s.adminUsername); err != nil {
		return fmt.Errorf("failed to reset roles: %w", err)
	}
	return nil
}

// ClearExcept deletes every player except the admin along with their
// locations and leaderboard entries
func (s *PlayerService) ClearExcept(ctx context.Context) (int64, error) {
	deleted, err := s.players.DeleteAllExcept(ctx, s.adminUsername)
	if err != nil {
		return 0, fmt.Errorf("failed to delete players: %w", err)
	}
	if err := s.locations.ClearExcept(ctx, s.adminUsername); err != nil {
		return deleted, fmt.Errorf("failed to clear locations: %w", err)
	}
	if err := s.leaderboard.Reset(ctx, nil); err != nil {
		log.Printf("[Players] Failed to reset leaderboard: %v", err)
	}
	log.Printf("[Players] Cleared %d players", deleted)
	return deleted, nil
}

// ClearScores resets every score to 0
func (s *PlayerService) ClearScores(ctx context.Context) error {
	if err := s.players.ClearScores(ctx); err != nil {
		return fmt.Errorf("failed to clear scores: %w", err)
	}
	return s.RebuildLeaderboard(ctx)
}

// RebuildLeaderboard replaces the leaderboard with the scores held by the registry
func (s *PlayerService) RebuildLeaderboard(ctx context.Context) error {
	players, err := s.players.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list players: %w", err)
	}
	entries := make([]model.ScoreEntry, 0, len(players))
	for _, p := range players {
		if !s.IsAdmin(p.Username) {
			entries = append(entries, model.ScoreEntry{Username: p.Username, Score: p.Score})
		}
	}
	if err := s.leaderboard.Reset(ctx, entries); err != nil {
		return fmt.Errorf("failed to reset leaderboard: %w", err)
	}
	return nil
}

// Leaderboard returns the dense-ranked scores
func (s *PlayerService) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	rankings, err := s.leaderboard.GetRankings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return rankings, nil
}

// ReportLocation stores the caller's latest coordinate
func (s *PlayerService) ReportLocation(ctx context.Context, username string, lat, lon float64) (*model.Location, error) {
	if !geo.ValidCoordinate(lat, lon) {
		return nil, ErrInvalidCoordinates
	}
	loc := &model.Location{
		Username:  username,
		Latitude:  lat,
		Longitude: lon,
		UpdatedAt: s.now(),
	}
	if err := s.locations.Set(ctx, loc); err != nil {
		return nil, fmt.Errorf("failed to save location: %w", err)
	}
	return loc, nil
}

// GetLocation returns the caller's last coordinate or ErrNoLocation
func (s *PlayerService) GetLocation(ctx context.Context, username string) (*model.Location, error) {
	loc, err := s.locations.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	if loc == nil {
		return nil, ErrNoLocation
	}
	return loc, nil
}

// Nearby lists alive players within kill range of username, nearest first
func (s *PlayerService) Nearby(ctx context.Context, username string) ([]model.NearbyPlayer, error) {
	origin, err := s.GetLocation(ctx, username)
	if err != nil {
		return nil, err
	}

	alive, err := s.alive(ctx)
	if err != nil {
		return nil, err
	}
	locations, err := s.locations.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get locations: %w", err)
	}

	candidates := make([]geo.Point, 0, len(alive))
	for _, p := range alive {
		if p.Username == username {
			continue
		}
		if loc, ok := locations[p.Username]; ok {
			candidates = append(candidates, geo.Point{Name: p.Username, Latitude: loc.Latitude, Longitude: loc.Longitude})
		}
	}

	matches := geo.Within(locationPoint(origin), candidates, s.cfg.KillRangeMeters)
	nearby := make([]model.NearbyPlayer, len(matches))
	for i, m := range matches {
		nearby[i] = model.NearbyPlayer{Username: m.Name, Meters: m.Meters}
	}
	return nearby, nil
}

// AlivePlayers lists every non-dead player without revealing roles
func (s *PlayerService) AlivePlayers(ctx context.Context) ([]model.PlayerSummary, error) {
	alive, err := s.alive(ctx)
	if err != nil {
		return nil, err
	}
	return summaries(alive), nil
}

// Imposters lists the imposters. Only imposters and the admin may ask.
func (s *PlayerService) Imposters(ctx context.Context, requester string) ([]model.PlayerSummary, error) {
	if !s.IsAdmin(requester) {
		role, err := s.GetRole(ctx, requester)
		if err != nil {
			return nil, err
		}
		if role != model.RoleImposter {
			return nil, ErrForbidden
		}
	}
	imposters, err := s.players.ListByRole(ctx, model.RoleImposter)
	if err != nil {
		return nil, fmt.Errorf("failed to list imposters: %w", err)
	}
	return summaries(imposters), nil
}

func (s *PlayerService) alive(ctx context.Context) ([]*model.Player, error) {
	players, err := s.players.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	alive := players[:0]
	for _, p := range players {
		if p.Role.Alive() && !s.IsAdmin(p.Username) {
			alive = append(alive, p)
		}
	}
	return alive, nil
}

func summaries(players []*model.Player) []model.PlayerSummary {
	out := make([]model.PlayerSummary, len(players))
	for i, p := range players {
		out[i] = model.PlayerSummary{ID: p.ID, Username: p.Username}
	}
	return out
}

func locationPoint(loc *model.Location) geo.Point {
	return geo.Point{Name: loc.Username, Latitude: loc.Latitude, Longitude: loc.Longitude}
}
