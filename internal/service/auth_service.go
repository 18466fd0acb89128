package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"crewhunt/internal/cache"
	"crewhunt/internal/config"
	"crewhunt/internal/model"
	"crewhunt/internal/repository"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 32
	minPasswordLen = 6

	tokenTTL = 24 * time.Hour
)

// AuthService handles registration, login and bearer tokens
type AuthService struct {
	players       repository.PlayerRepo
	leaderboard   cache.LeaderboardCache
	jwtSecret     []byte
	adminUsername string
	adminPassword string
	registerRole  model.Role
	hashCost      int
	now           func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(players repository.PlayerRepo, leaderboard cache.LeaderboardCache, cfg *config.Config) *AuthService {
	return &AuthService{
		players:       players,
		leaderboard:   leaderboard,
		jwtSecret:     []byte(cfg.JWTSecret),
		adminUsername: cfg.AdminUsername,
		adminPassword: cfg.AdminPassword,
		registerRole:  cfg.Game.RegisterRole,
		hashCost:      bcrypt.DefaultCost,
		now:           time.Now,
	}
}

// AdminUsername returns the name of the admin account
func (s *AuthService) AdminUsername() string {
	return s.adminUsername
}

// EnsureAdmin creates the admin account if it does not exist. The admin is
// stored as DEAD so it never counts as a side, a voter or a target.
func (s *AuthService) EnsureAdmin(ctx context.Context) error {
	existing, err := s.players.GetByUsername(ctx, s.adminUsername)
	if err != nil {
		return fmt.Errorf("failed to get admin: %w", err)
	}
	if existing != nil {
		if existing.Role != model.RoleDead {
			return s.players.SetRole(ctx, s.adminUsername, model.RoleDead)
		}
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.adminPassword), s.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := &model.Player{
		ID:           newPlayerID(),
		Username:     s.adminUsername,
		PasswordHash: string(hash),
		Role:         model.RoleDead,
	}
	if err := s.players.Create(ctx, admin); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	log.Printf("[Auth] Admin account %q created", s.adminUsername)
	return nil
}

// Register creates a player and logs them in
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	username = strings.TrimSpace(username)
	if n := len([]rune(username)); n < minUsernameLen || n > maxUsernameLen {
		return nil, ErrInvalidUsername
	}
	if len(password) < minPasswordLen {
		return nil, ErrInvalidPassword
	}
	if strings.EqualFold(username, s.adminUsername) {
		return nil, ErrReservedUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	player := &model.Player{
		ID:           newPlayerID(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         s.registerRole,
		CreatedAt:    s.now(),
	}
	if err := s.players.Create(ctx, player); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	if err := s.leaderboard.UpdateScore(ctx, username, 0); err != nil {
		log.Printf("[Auth] Failed to init leaderboard for %s: %v", username, err)
	}
	log.Printf("[Auth] Registered %s as %s", username, player.Role)

	return s.issue(player)
}

// Login validates credentials and returns a bearer token
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	player, err := s.players.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(player)
}

func (s *AuthService) issue(player *model.Player) (*model.LoginResponse, error) {
	admin := player.Username == s.adminUsername
	now := s.now()
	claims := &model.PlayerClaims{
		PlayerID: player.ID,
		Username: player.Username,
		Admin:    admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   player.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:    tokenString,
		PlayerID: player.ID,
		Username: player.Username,
		Role:     player.Role,
		Admin:    admin,
	}, nil
}

// ValidateToken validates a bearer JWT and returns its claims
func (s *AuthService) ValidateToken(tokenString string) (*model.PlayerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.PlayerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.PlayerClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	// Admin rights follow the configured account, not the token alone
	claims.Admin = claims.Username == s.adminUsername

	return claims, nil
}

func newPlayerID() string {
	return "p_" + uuid.New().String()[:8]
}
