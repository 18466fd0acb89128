package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crewhunt/internal/app"
	"crewhunt/internal/config"
)

// @title Crewhunt API
// @version 1.0
// @description Location-based social deduction game server
// @host localhost:8080
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Println("started")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}
	log.Printf("Game Config:")
	log.Printf("  Kill cooldown: %s", cfg.Game.CooldownTime)
	log.Printf("  Kill range:    %.1fm", cfg.Game.KillRangeMeters)
	log.Printf("  Tasks/player:  %d (target ratio %.2f)", cfg.Game.DefaultTasksPerPlayer, cfg.Game.CompletionRatio)
	log.Printf("  New players:   %s", cfg.Game.RegisterRole)

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close(context.Background())

	if err := a.Init(ctx); err != nil {
		log.Fatal("Failed to initialize game:", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: a.Router(),
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Printf("Admin account: %s", cfg.AdminUsername)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/register, /v1/auth/login")
		log.Println("  POST/GET /v1/location")
		log.Println("  POST /v1/kill, /v1/kill/remote")
		log.Println("  GET  /v1/me/tasks, POST /v1/tasks/{taskId}/answer")
		log.Println("  POST /v1/meeting/vote, GET /v1/meeting")
		log.Println("  GET  /v1/game/win, /v1/game/status")
		log.Println("  POST /v1/admin/...")
		log.Println("  GET  /swagger/doc.json")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
