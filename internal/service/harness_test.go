package service

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"crewhunt/internal/config"
	"crewhunt/internal/geo"
	"crewhunt/internal/model"
	"crewhunt/internal/store/memory"
)

// fakeRand draws tasks in rotation, never shuffles and returns a fixed float
type fakeRand struct {
	mu    sync.Mutex
	next  int
	float float64
}

func (f *fakeRand) Intn(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.next % n
	f.next++
	return v
}

func (f *fakeRand) Float64() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.float
}

func (f *fakeRand) Shuffle(n int, swap func(i, j int)) {}

type harness struct {
	ctx context.Context
	cfg *config.Config

	players     *memory.PlayerStore
	tasks       *memory.TaskStore
	assignments *memory.AssignmentStore
	sessions    *memory.SessionStore
	locations   *memory.LocationStore
	votes       *memory.VoteStore
	leaderboard *memory.LeaderboardStore

	auth      *AuthService
	playerSvc *PlayerService
	taskSvc   *TaskService
	game      *GameService

	rng   *fakeRand
	mu    sync.Mutex
	clock time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		ctx: context.Background(),
		cfg: &config.Config{
			JWTSecret:     "test-secret",
			AdminUsername: "admin",
			AdminPassword: "admin-password",
			Game:          config.DefaultGameConfig(),
		},
		players:     memory.NewPlayerStore(),
		tasks:       memory.NewTaskStore(),
		assignments: memory.NewAssignmentStore(),
		sessions:    memory.NewSessionStore(),
		locations:   memory.NewLocationStore(),
		votes:       memory.NewVoteStore(),
		leaderboard: memory.NewLeaderboardStore(),
		rng:         &fakeRand{},
		clock:       time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC),
	}

	h.playerSvc = NewPlayerService(h.players, h.locations, h.leaderboard, h.cfg.Game, h.cfg.AdminUsername)
	h.taskSvc = NewTaskService(h.tasks, h.assignments, h.sessions, h.players, h.playerSvc, h.cfg.Game, h.rng)
	h.game = NewGameService(h.players, h.sessions, h.votes, h.locations, h.playerSvc, h.taskSvc, h.cfg.Game, h.rng)
	h.auth = NewAuthService(h.players, h.leaderboard, h.cfg)
	h.auth.hashCost = bcrypt.MinCost

	h.playerSvc.now = h.now
	h.taskSvc.now = h.now
	h.game.now = h.now
	h.auth.now = h.now

	if err := h.auth.EnsureAdmin(h.ctx); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	return h
}

func (h *harness) now() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clock
}

func (h *harness) advance(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clock = h.clock.Add(d)
}

func (h *harness) addPlayer(t *testing.T, username string, role model.Role) {
	t.Helper()
	if err := h.players.Create(h.ctx, &model.Player{ID: "p_" + username, Username: username, Role: role}); err != nil {
		t.Fatalf("create %s: %v", username, err)
	}
}

func (h *harness) setRole(t *testing.T, username string, role model.Role) {
	t.Helper()
	if err := h.players.SetRole(h.ctx, username, role); err != nil {
		t.Fatalf("set role of %s: %v", username, err)
	}
}

func (h *harness) role(t *testing.T, username string) model.Role {
	t.Helper()
	role, err := h.playerSvc.GetRole(h.ctx, username)
	if err != nil {
		t.Fatalf("get role of %s: %v", username, err)
	}
	return role
}

func (h *harness) score(t *testing.T, username string) int {
	t.Helper()
	score, err := h.playerSvc.GetScore(h.ctx, username)
	if err != nil {
		t.Fatalf("get score of %s: %v", username, err)
	}
	return score
}

func (h *harness) addTask(t *testing.T, question, answer, hint string) *model.Task {
	t.Helper()
	task, err := h.taskSvc.AddTask(h.ctx, &model.AddTaskRequest{Question: question, Answer: answer, Hint: hint})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	return task
}

// place puts username the given distance north of the origin
func (h *harness) place(t *testing.T, username string, metersNorth float64) {
	t.Helper()
	lat := metersNorth / (geo.EarthRadiusMeters * math.Pi / 180)
	if _, err := h.playerSvc.ReportLocation(h.ctx, username, lat, 0); err != nil {
		t.Fatalf("place %s: %v", username, err)
	}
}

func (h *harness) startGame(t *testing.T, tasksPerPlayer int) *model.RoundStarted {
	t.Helper()
	round, err := h.game.StartGame(h.ctx, tasksPerPlayer)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	return round
}

func (h *harness) openTasks(t *testing.T, username string) int {
	t.Helper()
	counts, err := h.assignments.IncompleteCounts(h.ctx, []string{username})
	if err != nil {
		t.Fatalf("count open tasks: %v", err)
	}
	return counts[username]
}

func (h *harness) totalOpen(t *testing.T, usernames ...string) int {
	t.Helper()
	total := 0
	for _, u := range usernames {
		total += h.openTasks(t, u)
	}
	return total
}
