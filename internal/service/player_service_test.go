package service

import (
	"errors"
	"testing"
	"time"

	"crewhunt/internal/model"
)

func TestReportLocationValidates(t *testing.T) {
	h := newHarness(t)
	h.addPlayer(t, "amy", model.RoleCrewmate)

	for _, c := range [][2]float64{{91, 0}, {-90.5, 0}, {0, 180.1}, {0, -181}} {
		if _, err := h.playerSvc.ReportLocation(h.ctx, "amy", c[0], c[1]); !errors.Is(err, ErrInvalidCoordinates) {
			t.Fatalf("expected ErrInvalidCoordinates for %v, got %v", c, err)
		}
	}
	if _, err := h.playerSvc.GetLocation(h.ctx, "amy"); !errors.Is(err, ErrNoLocation) {
		t.Fatalf("expected ErrNoLocation, got %v", err)
	}

	if _, err := h.playerSvc.ReportLocation(h.ctx, "amy", 52.52, 13.405); err != nil {
		t.Fatalf("ReportLocation: %v", err)
	}
	h.advance(5 * time.Second)
	if _, err := h.playerSvc.ReportLocation(h.ctx, "amy", 48.8566, 2.3522); err != nil {
		t.Fatalf("ReportLocation: %v", err)
	}
	loc, err := h.playerSvc.GetLocation(h.ctx, "amy")
	if err != nil {
		t.Fatalf("GetLocation: %v", err)
	}
	if loc.Latitude != 48.8566 || loc.Longitude != 2.3522 || !loc.UpdatedAt.Equal(h.now()) {
		t.Fatalf("expected latest report to win, got %+v", loc)
	}
}

func TestNearby(t *testing.T) {
	h := newHarness(t)
	h.addPlayer(t, "imp", model.RoleImposter)
	h.addPlayer(t, "amy", model.RoleCrewmate)
	h.addPlayer(t, "bob", model.RoleImposter)
	h.addPlayer(t, "cat", model.RoleCrewmate)
	h.addPlayer(t, "ghost", model.RoleDead)
	h.addPlayer(t, "dan", model.RoleCrewmate)
	h.place(t, "imp", 0)
	h.place(t, "amy", 4)
	h.place(t, "bob", 2)
	h.place(t, "cat", 30)
	h.place(t, "ghost", 1)
	h.place(t, "admin", 1)

	nearby, err := h.playerSvc.Nearby(h.ctx, "imp")
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(nearby) != 2 || nearby[0].Username != "bob" || nearby[1].Username != "amy" {
		t.Fatalf("expected [bob amy], got %+v", nearby)
	}
	if nearby[0].Meters < 1.9 || nearby[0].Meters > 2.1 {
		t.Fatalf("expected about 2m to bob, got %v", nearby[0].Meters)
	}

	if _, err := h.playerSvc.Nearby(h.ctx, "dan"); !errors.Is(err, ErrNoLocation) {
		t.Fatalf("expected ErrNoLocation, got %v", err)
	}
}

func TestAlivePlayers(t *testing.T) {
	h := newHarness(t)
	h.addPlayer(t, "amy", model.RoleCrewmate)
	h.addPlayer(t, "bob", model.RoleImposter)
	h.addPlayer(t, "ghost", model.RoleDead)

	alive, err := h.playerSvc.AlivePlayers(h.ctx)
	if err != nil {
		t.Fatalf("AlivePlayers: %v", err)
	}
	if len(alive) != 2 || alive[0].Username != "amy" || alive[1].Username != "bob" {
		t.Fatalf("expected [amy bob], got %+v", alive)
	}
}

func TestImpostersVisibility(t *testing.T) {
	h := newHarness(t)
	h.addPlayer(t, "amy", model.RoleCrewmate)
	h.addPlayer(t, "bob", model.RoleImposter)
	h.addPlayer(t, "cat", model.RoleImposter)

	if _, err := h.playerSvc.Imposters(h.ctx, "amy"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("crewmates must not see imposters, got %v", err)
	}
	if _, err := h.playerSvc.Imposters(h.ctx, "nobody"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}

	for _, requester := range []string{"bob", "admin"} {
		imposters, err := h.playerSvc.Imposters(h.ctx, requester)
		if err != nil {
			t.Fatalf("Imposters(%s): %v", requester, err)
		}
		if len(imposters) != 2 || imposters[0].Username != "bob" || imposters[1].Username != "cat" {
			t.Fatalf("expected [bob cat], got %+v", imposters)
		}
	}
}

func TestAdjustScoreUnknownPlayer(t *testing.T) {
	h := newHarness(t)
	if _, err := h.playerSvc.AdjustScore(h.ctx, "nobody", 1); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
	if err := h.playerSvc.SetRole(h.ctx, "nobody", model.RoleDead); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}
