package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"

	"crewhunt/internal/config"
	"crewhunt/internal/service"
	"crewhunt/internal/transport/rest/handler"
	"crewhunt/internal/transport/rest/middleware"

	_ "crewhunt/docs"
)

// Container holds all dependencies for the router
type Container struct {
	Config        *config.Config
	AuthService   *service.AuthService
	PlayerService *service.PlayerService
	TaskService   *service.TaskService
	GameService   *service.GameService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	playerHandler := handler.NewPlayerHandler(c.PlayerService)
	taskHandler := handler.NewTaskHandler(c.TaskService)
	gameHandler := handler.NewGameHandler(c.GameService, c.Config.Game)
	joinHandler := handler.NewJoinHandler(c.Config.PublicURL)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.Config))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/meeting", gameHandler.MeetingStatus).Methods("GET", "OPTIONS")
	v1.HandleFunc("/game/win", gameHandler.CheckWin).Methods("GET", "OPTIONS")
	v1.HandleFunc("/game/status", gameHandler.Status).Methods("GET", "OPTIONS")
	v1.HandleFunc("/join-qr.png", joinHandler.QRCode).Methods("GET")

	// Health check
	health := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
	r.HandleFunc("/health", health).Methods("GET")
	v1.HandleFunc("/health", health).Methods("GET")

	// API doc
	r.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	}).Methods("GET")

	// Player routes (require player auth)
	playerRoutes := v1.NewRoute().Subrouter()
	playerRoutes.Use(authMW.RequirePlayer)

	playerRoutes.HandleFunc("/location", playerHandler.ReportLocation).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/location", playerHandler.GetLocation).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/players", playerHandler.AlivePlayers).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/players/nearby", playerHandler.Nearby).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/imposters", playerHandler.Imposters).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/me/role", playerHandler.Role).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/me/dead", playerHandler.Dead).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/me/score", playerHandler.Score).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/me/admin", playerHandler.Admin).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/leaderboard", playerHandler.Leaderboard).Methods("GET", "OPTIONS")

	playerRoutes.HandleFunc("/kill", gameHandler.Kill).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/kill/remote", gameHandler.KillRemote).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/meeting/vote", gameHandler.Vote).Methods("POST", "OPTIONS")

	playerRoutes.HandleFunc("/me/tasks", taskHandler.MyTasks).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/tasks/{taskId}/answer", taskHandler.SubmitAnswer).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/tasks/{taskId}/hint", taskHandler.Hint).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/game/progress", taskHandler.Progress).Methods("GET", "OPTIONS")

	// Admin routes (require the admin account)
	adminRoutes := v1.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/game/start", gameHandler.StartGame).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/meeting/start", gameHandler.StartMeeting).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/meeting/end", gameHandler.EndMeeting).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/crewmates/convert", gameHandler.ConvertCrewmates).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/scores/clear", gameHandler.ClearScores).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/users/clear", gameHandler.ClearUsers).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/tasks", taskHandler.AddTask).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/tasks", taskHandler.ListTasks).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(cfg *config.Config) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", cfg.CORSAllowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", cfg.CORSAllowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
