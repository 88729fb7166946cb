package service

import (
	"context"
	"strings"

	"github.com/geocoder89/recipehub/internal/domain/recipe"
	"github.com/geocoder89/recipehub/internal/validation"
	"github.com/google/uuid"
)

type RecipeStore interface {
	Create(ctx context.Context, ownerID string, req recipe.CreateRecipeRequest) (recipe.Recipe, error)
	List(ctx context.Context, f recipe.ListFilter) ([]recipe.Recipe, error)
	GetOwned(ctx context.Context, ownerID, id string) (recipe.Recipe, error)
	UpdateOwned(ctx context.Context, ownerID, id string, req recipe.UpdateRecipeRequest) (recipe.Recipe, error)
	DeleteOwned(ctx context.Context, ownerID, id string) error
}

// Recipes scopes every single-recipe operation to the calling owner. A recipe
// that exists but belongs to someone else is reported as not found.
type Recipes struct {
	store    RecipeStore
	validate *validation.Validator
}

func NewRecipes(store RecipeStore, v *validation.Validator) *Recipes {
	if v == nil {
		v = validation.New()
	}
	return &Recipes{store: store, validate: v}
}

func (s *Recipes) ListAll(ctx context.Context, page recipe.Page) ([]recipe.Recipe, error) {
	return s.store.List(ctx, recipe.ListFilter{Limit: page.Limit(), Offset: page.Offset()})
}

func (s *Recipes) ListOwned(ctx context.Context, ownerID string, page recipe.Page) ([]recipe.Recipe, error) {
	return s.store.List(ctx, recipe.ListFilter{OwnerID: &ownerID, Limit: page.Limit(), Offset: page.Offset()})
}

func (s *Recipes) Create(ctx context.Context, ownerID string, req recipe.CreateRecipeRequest) (recipe.Recipe, error) {
	req.Title = strings.TrimSpace(req.Title)

	if err := checkStruct(s.validate, req); err != nil {
		return recipe.Recipe{}, err
	}

	rc, err := s.store.Create(ctx, ownerID, req)
	if err != nil {
		return recipe.Recipe{}, subjectErr(err)
	}
	return rc, nil
}

func (s *Recipes) Get(ctx context.Context, ownerID, id string) (recipe.Recipe, error) {
	if !validID(id) {
		return recipe.Recipe{}, recipe.ErrNotFound
	}
	return s.store.GetOwned(ctx, ownerID, id)
}

func (s *Recipes) Update(ctx context.Context, ownerID, id string, req recipe.UpdateRecipeRequest) (recipe.Recipe, error) {
	req.Title = strings.TrimSpace(req.Title)

	if err := checkStruct(s.validate, req); err != nil {
		return recipe.Recipe{}, err
	}

	if !validID(id) {
		return recipe.Recipe{}, recipe.ErrNotFound
	}
	return s.store.UpdateOwned(ctx, ownerID, id, req)
}

func (s *Recipes) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return recipe.ErrNotFound
	}
	return s.store.DeleteOwned(ctx, ownerID, id)
}

// malformed ids can never match a row; the uuid column would reject them
// with a driver error instead
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}
