// Package memory keeps users and recipes in process. It backs the router in
// tests and local runs without Postgres, and mirrors the Postgres constraints:
// unique emails, owner foreign keys, and cascade on user delete.
package memory

import (
	"sync"
	"time"

	"github.com/geocoder89/recipehub/internal/domain/recipe"
	"github.com/geocoder89/recipehub/internal/domain/user"
)

type Store struct {
	mu      sync.RWMutex
	users   map[string]user.User // {"id": user}
	emails  map[string]string    // {"email": id}
	recipes map[string]recipe.Recipe
	now     func() time.Time
}

func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		users:   make(map[string]user.User),
		emails:  make(map[string]string),
		recipes: make(map[string]recipe.Recipe),
		now:     now,
	}
}

func (s *Store) Users() *UsersRepo {
	return &UsersRepo{s: s}
}

func (s *Store) Recipes() *RecipesRepo {
	return &RecipesRepo{s: s}
}
