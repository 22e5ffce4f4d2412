package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/Gitsandu/taskmanagementBackend/config"
	"github.com/Gitsandu/taskmanagementBackend/internal/domain/entity"
	repo "github.com/Gitsandu/taskmanagementBackend/internal/domain/repository"
	pginfra "github.com/Gitsandu/taskmanagementBackend/internal/infrastructure/postgres"
	"github.com/Gitsandu/taskmanagementBackend/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	users := pginfra.NewUserRepository(pool)
	tasks := pginfra.NewTaskRepository(pool)

	email := "demo@example.com"
	password := "password123"

	u, err := users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		hash, herr := helpers.HashPassword(password)
		if herr != nil {
			log.Fatalf("failed to hash password: %v", herr)
		}
		u = &entity.User{Username: "demoUser", Email: email, Password: hash}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("failed to seed user: %v", err)
		}
	case err != nil:
		log.Fatalf("failed to look up user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, email, password)

	existing, err := tasks.FindMany(ctx, repo.TaskFilter{OwnerID: u.ID}, repo.DefaultTaskSort)
	if err != nil {
		log.Fatalf("failed to list tasks: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("user already has %d tasks; skipping\n", len(existing))
		return
	}

	now := time.Now().UTC()
	due := func(d int) *time.Time { t := now.AddDate(0, 0, d); return &t }
	demo := []entity.Task{
		{Title: "Write project proposal", Description: "Draft scope and milestones", DueDate: due(2), Priority: entity.PriorityHigh, Status: entity.StatusPending},
		{Title: "Review pull requests", DueDate: due(1), Priority: entity.PriorityMedium, Status: entity.StatusPending},
		{Title: "Book dentist appointment", Priority: entity.PriorityLow, Status: entity.StatusPending},
		{Title: "Renew domain", DueDate: due(-1), Priority: entity.PriorityMedium, Status: entity.StatusCompleted},
		{Title: "Plan sprint retro", Description: "Collect feedback first", DueDate: due(5), Priority: entity.PriorityHigh, Status: entity.StatusCompleted},
	}
	for i := range demo {
		t := demo[i]
		t.OwnerID = u.ID
		if err := tasks.Create(ctx, &t); err != nil {
			log.Fatalf("failed to seed task %q: %v", t.Title, err)
		}
	}
	fmt.Printf("seeded %d tasks\n", len(demo))
}
