package main

import (
	"context"
	"log"
	"time"

	"orgrecon/adapters/postgres"
	"orgrecon/app"
	"orgrecon/internal/config"
	"orgrecon/ports"
	"orgrecon/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var archive ports.RosterRepository
	if cfg.Database.Enabled {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("database: %v", err)
		}
		archive = postgres.NewRosterRepository(db)
	}

	pipeline := app.NewPipelineService(cfg.Recon, archive)
	server := ui.NewServer(pipeline, cfg.Server.GinMode)

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := server.Run(cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
