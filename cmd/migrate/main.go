// Command migrate applies the embedded schema.
//
//	migrate [up|down|status]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/recipehub/internal/config"
	"github.com/geocoder89/recipehub/internal/db"
	"github.com/geocoder89/recipehub/internal/observability"
	"github.com/geocoder89/recipehub/internal/repo/postgres"
)

func main() {
	cfg := config.Load()
	log := observability.NewLogger(cfg.Env)

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	pool, err := db.NewPool(cfg.DBURL, 1)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	if err := db.Migrate(ctx, pool, command); err != nil {
		log.Error("migrate failed", "command", command, "err", err)
		pool.Close()
		os.Exit(1)
	}

	log.Info("migrate finished", "command", command)

	if command == "up" {
		created, err := db.EnsureSeedUser(ctx, postgres.NewUsersRepo(pool, nil), cfg)
		if err != nil {
			log.Error("seed user failed", "err", err)
			pool.Close()
			os.Exit(1)
		}
		if created {
			log.Info("seed user created", "email", cfg.SeedEmail)
		}
	}
}
