package main

import (
	"context"
	"log"
	"time"

	"crewhunt/internal/app"
	"crewhunt/internal/config"
	"crewhunt/internal/model"
	"crewhunt/internal/service"
)

// starterTasks fills an empty pool for a first game
var starterTasks = append(append([]model.AddTaskRequest{}, service.DefaultTasks...),
	model.AddTaskRequest{Question: "How many legs does a spider have?", Answer: "8", Hint: "more than an insect"},
	model.AddTaskRequest{Question: "What is the capital of France?", Answer: "Paris", Hint: "city of the Eiffel Tower"},
	model.AddTaskRequest{Question: "What gas do plants absorb from the air?", Answer: "carbon dioxide", Hint: "CO2"},
	model.AddTaskRequest{Question: "What is 7 times 8?", Answer: "56"},
	model.AddTaskRequest{Question: "Which planet is known as the Red Planet?", Answer: "Mars", Hint: "named after a god of war"},
	model.AddTaskRequest{Question: "What is the largest ocean on Earth?", Answer: "Pacific", Hint: "its name means peaceful"},
	model.AddTaskRequest{Question: "What color do you get by mixing blue and yellow?", Answer: "green"},
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.StoreBackend == config.BackendMemory {
		log.Fatal("Seeding needs STORE_BACKEND=mongo")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer a.Close(context.Background())

	if err := a.AuthService.EnsureAdmin(ctx); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	n, err := a.TaskService.SeedDefaults(ctx, starterTasks)
	if err != nil {
		log.Fatalf("Failed to seed tasks: %v", err)
	}
	if n == 0 {
		log.Println("Task pool already populated, nothing to do")
		return
	}
	log.Printf("Inserted %d tasks", n)
}
