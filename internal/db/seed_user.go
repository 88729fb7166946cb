package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/recipehub/internal/config"
	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/geocoder89/recipehub/internal/security"
)

type SeedStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, fullName, email, passwordHash string) (user.User, error)
}

// EnsureSeedUser creates the configured bootstrap account once. It reports
// whether a user was created; an existing account is left untouched.
func EnsureSeedUser(ctx context.Context, users SeedStore, cfg config.Config) (bool, error) {
	if cfg.SeedEmail == "" || cfg.SeedPassword == "" {
		return false, nil
	}

	if len(cfg.SeedPassword) > security.MaxPasswordBytes {
		return false, fmt.Errorf("SEED_USER_PASSWORD must be at most %d bytes", security.MaxPasswordBytes)
	}

	email := user.NormalizeEmail(cfg.SeedEmail)

	// check if the user exists
	_, err := users.GetByEmail(ctx, email)

	if err == nil {
		return false, nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return false, err
	}

	hash, err := security.HashPassword(cfg.SeedPassword)

	if err != nil {
		return false, err
	}

	name := cfg.SeedName
	if name == "" {
		name = "RecipeHub Admin"
	}

	_, err = users.Create(ctx, name, email, hash)

	// another replica won the race
	if errors.Is(err, user.ErrEmailTaken) {
		return false, nil
	}

	return err == nil, err
}
