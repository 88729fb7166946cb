package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/geocoder89/recipehub/internal/db/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// gooseUp and friends are seams so tests can run without a database.
var (
	gooseUp     = goose.UpContext
	gooseDown   = goose.DownContext
	gooseStatus = goose.StatusContext
)

// Migrate runs one goose command ("up", "down" or "status") against the
// embedded schema. goose needs database/sql, so the pool is bridged through
// pgx's stdlib adapter; closing that *sql.DB leaves the pool open.
func Migrate(ctx context.Context, pool *pgxpool.Pool, command string) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	return runGoose(ctx, db, command)
}

func runGoose(ctx context.Context, db *sql.DB, command string) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	switch command {
	case "up":
		return gooseUp(ctx, db, ".")
	case "down":
		return gooseDown(ctx, db, ".")
	case "status":
		return gooseStatus(ctx, db, ".")
	default:
		return fmt.Errorf("unknown migrate command %q (want up, down or status)", command)
	}
}
