package memory

import (
	"context"
	"sort"

	"github.com/geocoder89/recipehub/internal/domain/recipe"
	"github.com/geocoder89/recipehub/internal/domain/user"
)

type RecipesRepo struct {
	s *Store
}

func (r *RecipesRepo) Create(_ context.Context, ownerID string, req recipe.CreateRecipeRequest) (recipe.Recipe, error) {
	rc := recipe.NewFromCreateRequest(ownerID, req, r.s.now())

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[ownerID]; !ok {
		return recipe.Recipe{}, user.ErrNotFound
	}

	r.s.recipes[rc.ID] = rc

	return rc, nil
}

func (r *RecipesRepo) List(_ context.Context, f recipe.ListFilter) ([]recipe.Recipe, error) {
	r.s.mu.RLock()

	all := make([]recipe.Recipe, 0, len(r.s.recipes))
	for _, rc := range r.s.recipes {
		if f.OwnerID != nil && rc.OwnerID != *f.OwnerID {
			continue
		}
		all = append(all, rc)
	}

	r.s.mu.RUnlock()

	// newest first, id as a stable tie-break
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	out := make([]recipe.Recipe, 0, f.Limit)

	if f.Offset >= len(all) || f.Limit <= 0 {
		return out, nil
	}

	end := f.Offset + f.Limit
	if end > len(all) {
		end = len(all)
	}

	return append(out, all[f.Offset:end]...), nil
}

func (r *RecipesRepo) GetOwned(_ context.Context, ownerID, id string) (recipe.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rc, ok := r.s.recipes[id]
	if !ok || rc.OwnerID != ownerID {
		return recipe.Recipe{}, recipe.ErrNotFound
	}
	return rc, nil
}

func (r *RecipesRepo) UpdateOwned(_ context.Context, ownerID, id string, req recipe.UpdateRecipeRequest) (recipe.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rc, ok := r.s.recipes[id]
	if !ok || rc.OwnerID != ownerID {
		return recipe.Recipe{}, recipe.ErrNotFound
	}

	rc.Title = req.Title
	rc.Description = req.Description
	rc.UpdatedAt = r.s.now().UTC()

	r.s.recipes[id] = rc

	return rc, nil
}

func (r *RecipesRepo) DeleteOwned(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rc, ok := r.s.recipes[id]
	if !ok || rc.OwnerID != ownerID {
		return recipe.ErrNotFound
	}

	delete(r.s.recipes, id)

	return nil
}
