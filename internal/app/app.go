// Package app wires the stores, services and router of the game server.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crewhunt/internal/cache"
	"crewhunt/internal/config"
	"crewhunt/internal/repository"
	"crewhunt/internal/service"
	"crewhunt/internal/store/memory"
	"crewhunt/internal/transport/rest"
)

// Stores is the persistence behind the services
type Stores struct {
	Players     repository.PlayerRepo
	Tasks       repository.TaskRepo
	Assignments repository.AssignmentRepo
	Sessions    repository.SessionRepo
	Locations   cache.LocationCache
	Votes       cache.VoteCache
	Leaderboard cache.LeaderboardCache
}

// MemoryStores returns empty in-process stores
func MemoryStores() Stores {
	return Stores{
		Players:     memory.NewPlayerStore(),
		Tasks:       memory.NewTaskStore(),
		Assignments: memory.NewAssignmentStore(),
		Sessions:    memory.NewSessionStore(),
		Locations:   memory.NewLocationStore(),
		Votes:       memory.NewVoteStore(),
		Leaderboard: memory.NewLeaderboardStore(),
	}
}

// MongoStores returns stores backed by MongoDB and Redis
func MongoStores(db *mongo.Database, rdb *redis.Client) Stores {
	return Stores{
		Players:     repository.NewPlayerRepo(db),
		Tasks:       repository.NewTaskRepo(db),
		Assignments: repository.NewAssignmentRepo(db),
		Sessions:    repository.NewSessionRepo(db),
		Locations:   cache.NewLocationCache(rdb),
		Votes:       cache.NewVoteCache(rdb),
		Leaderboard: cache.NewLeaderboardCache(rdb),
	}
}

type App struct {
	Config *config.Config
	Stores Stores

	AuthService   *service.AuthService
	PlayerService *service.PlayerService
	TaskService   *service.TaskService
	GameService   *service.GameService

	closers []func(context.Context) error
}

// New connects the configured backend and builds the services
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg.StoreBackend == config.BackendMemory {
		log.Println("Using in-memory store")
		return NewWithStores(cfg, MemoryStores(), service.NewRandomizer(0)), nil
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)
	repository.EnsureIndexes(ctx, db)

	rdb := redis.NewClient(&redis.Options{
		Addr: strings.TrimPrefix(cfg.RedisAddr, "redis://"),
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	log.Println("Connected to Redis")

	a := NewWithStores(cfg, MongoStores(db, rdb), service.NewRandomizer(0))
	a.closers = append(a.closers,
		func(context.Context) error { return rdb.Close() },
		mongoClient.Disconnect,
	)
	return a, nil
}

// NewWithStores builds the services over the given stores
func NewWithStores(cfg *config.Config, stores Stores, rng service.Randomizer) *App {
	playerSvc := service.NewPlayerService(stores.Players, stores.Locations, stores.Leaderboard, cfg.Game, cfg.AdminUsername)
	taskSvc := service.NewTaskService(stores.Tasks, stores.Assignments, stores.Sessions, stores.Players, playerSvc, cfg.Game, rng)
	gameSvc := service.NewGameService(stores.Players, stores.Sessions, stores.Votes, stores.Locations, playerSvc, taskSvc, cfg.Game, rng)

	return &App{
		Config:        cfg,
		Stores:        stores,
		AuthService:   service.NewAuthService(stores.Players, stores.Leaderboard, cfg),
		PlayerService: playerSvc,
		TaskService:   taskSvc,
		GameService:   gameSvc,
	}
}

// Init prepares a freshly started server. It seeds the admin account and an
// empty task pool, drops stale locations from the previous run and rebuilds
// the leaderboard from the registry.
func (a *App) Init(ctx context.Context) error {
	if err := a.AuthService.EnsureAdmin(ctx); err != nil {
		return err
	}
	if err := a.Stores.Locations.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear locations: %w", err)
	}
	if n, err := a.TaskService.SeedDefaults(ctx, service.DefaultTasks); err != nil {
		return fmt.Errorf("failed to seed tasks: %w", err)
	} else if n > 0 {
		log.Printf("Inserted %d default tasks", n)
	}
	return a.PlayerService.RebuildLeaderboard(ctx)
}

// Router returns the HTTP handler for the API
func (a *App) Router() http.Handler {
	return rest.NewRouter(&rest.Container{
		Config:        a.Config,
		AuthService:   a.AuthService,
		PlayerService: a.PlayerService,
		TaskService:   a.TaskService,
		GameService:   a.GameService,
	})
}

// Close releases backend connections
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	for _, c := range a.closers {
		if err := c(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
