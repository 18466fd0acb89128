package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"crewhunt/internal/model"
)

func TestRegister(t *testing.T) {
	h := newHarness(t)

	resp, err := h.auth.Register(h.ctx, "  amy  ", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.Username != "amy" || resp.Role != model.RoleDead || resp.Admin || resp.Token == "" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if !strings.HasPrefix(resp.PlayerID, "p_") {
		t.Fatalf("unexpected player id %q", resp.PlayerID)
	}
	if h.role(t, "amy") != model.RoleDead {
		t.Fatalf("new players wait as DEAD until a round starts")
	}

	board, _ := h.playerSvc.Leaderboard(h.ctx)
	if len(board) != 1 || board[0].Username != "amy" || board[0].Score != 0 {
		t.Fatalf("expected amy on the leaderboard, got %+v", board)
	}
}

func TestRegisterValidation(t *testing.T) {
	h := newHarness(t)
	if _, err := h.auth.Register(h.ctx, "amy", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	cases := []struct {
		name, username, password string
		want                     error
	}{
		{"short username", "ab", "secret1", ErrInvalidUsername},
		{"long username", strings.Repeat("x", 33), "secret1", ErrInvalidUsername},
		{"short password", "bob", "12345", ErrInvalidPassword},
		{"admin name", "ADMIN", "secret1", ErrReservedUsername},
		{"duplicate", "amy", "secret2", ErrUsernameTaken},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := h.auth.Register(h.ctx, c.username, c.password); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	if _, err := h.auth.Register(h.ctx, "amy", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	resp, err := h.auth.Login(h.ctx, "amy", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := h.auth.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Username != "amy" || claims.PlayerID != resp.PlayerID || claims.Admin {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, err := h.auth.Login(h.ctx, "amy", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := h.auth.Login(h.ctx, "nobody", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAdminLogin(t *testing.T) {
	h := newHarness(t)
	resp, err := h.auth.Login(h.ctx, "admin", "admin-password")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !resp.Admin {
		t.Fatalf("admin token must carry admin rights")
	}
	claims, err := h.auth.ValidateToken(resp.Token)
	if err != nil || !claims.Admin {
		t.Fatalf("expected admin claims, got %+v, %v", claims, err)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	h := newHarness(t)
	resp, err := h.auth.Register(h.ctx, "amy", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := h.auth.ValidateToken(resp.Token + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
	if _, err := h.auth.ValidateToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}

	other := newHarness(t)
	other.auth.jwtSecret = []byte("another-secret")
	if _, err := other.auth.ValidateToken(resp.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}

	h.advance(25 * time.Hour)
	if _, err := h.auth.ValidateToken(resp.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.setRole(t, "admin", model.RoleCrewmate)

	if err := h.auth.EnsureAdmin(h.ctx); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if err := h.auth.EnsureAdmin(h.ctx); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if h.role(t, "admin") != model.RoleDead {
		t.Fatalf("admin must be DEAD")
	}
	players, _ := h.players.List(h.ctx)
	if len(players) != 1 {
		t.Fatalf("expected only the admin, got %d players", len(players))
	}
}
