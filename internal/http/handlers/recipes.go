package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/geocoder89/recipehub/internal/cache"
	"github.com/geocoder89/recipehub/internal/domain/recipe"
	"github.com/geocoder89/recipehub/internal/observability"
	"github.com/gin-gonic/gin"
)

type RecipeService interface {
	ListAll(ctx context.Context, page recipe.Page) ([]recipe.Recipe, error)
	Create(ctx context.Context, ownerID string, req recipe.CreateRecipeRequest) (recipe.Recipe, error)
	Get(ctx context.Context, ownerID, id string) (recipe.Recipe, error)
	Update(ctx context.Context, ownerID, id string, req recipe.UpdateRecipeRequest) (recipe.Recipe, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type RecipesHandler struct {
	svc       RecipeService
	listCache listPages
	prom      *observability.Prom
}

func NewRecipesHandler(svc RecipeService) *RecipesHandler {
	return &RecipesHandler{svc: svc}
}

func NewRecipesHandlerWithCache(svc RecipeService, c cache.Cache, prom *observability.Prom) *RecipesHandler {
	return &RecipesHandler{svc: svc, listCache: listPages{c: c}, prom: prom}
}

// ListRecipes is the public, newest-first feed.
func (h *RecipesHandler) ListRecipes(ctx *gin.Context) {
	page := pageFromQuery(ctx)

	cctx, cancel := requestCtx(ctx)
	defer cancel()

	cached := h.listCache.c != nil
	var gen string

	if cached {
		gen = h.listCache.generation(cctx)
		if body, ok := h.listCache.get(cctx, gen, page); ok {
			h.prom.RecordCache(true)
			RespondRawJSONWithETag(ctx, http.StatusOK, body)
			return
		}
		h.prom.RecordCache(false)
	}

	items, err := h.svc.ListAll(cctx, page)

	if err != nil {
		RespondInternal(ctx, err, "Could not list recipes")
		return
	}

	body, err := json.Marshal(newRecipeList(items, page))

	if err != nil {
		RespondInternal(ctx, err, "Could not list recipes")
		return
	}

	if cached {
		h.listCache.set(cctx, gen, page, body)
	}

	RespondRawJSONWithETag(ctx, http.StatusOK, body)
}

func (h *RecipesHandler) CreateRecipe(ctx *gin.Context) {
	owner, ok := subjectFrom(ctx)
	if !ok {
		return
	}

	var req recipe.CreateRecipeRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestCtx(ctx)
	defer cancel()

	rc, err := h.svc.Create(cctx, owner, req)

	if err != nil {
		respondServiceError(ctx, err, "Could not create recipe")
		return
	}

	h.invalidateList(cctx)

	ctx.JSON(http.StatusCreated, rc)
}

func (h *RecipesHandler) GetRecipeByID(ctx *gin.Context) {
	owner, ok := subjectFrom(ctx)
	if !ok {
		return
	}

	cctx, cancel := requestCtx(ctx)
	defer cancel()

	rc, err := h.svc.Get(cctx, owner, ctx.Param("id"))

	if err != nil {
		respondServiceError(ctx, err, "Could not fetch recipe")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, rc)
}

func (h *RecipesHandler) UpdateRecipe(ctx *gin.Context) {
	owner, ok := subjectFrom(ctx)
	if !ok {
		return
	}

	var req recipe.UpdateRecipeRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestCtx(ctx)
	defer cancel()

	rc, err := h.svc.Update(cctx, owner, ctx.Param("id"), req)

	if err != nil {
		respondServiceError(ctx, err, "Could not update recipe")
		return
	}

	h.invalidateList(cctx)

	ctx.JSON(http.StatusOK, rc)
}

func (h *RecipesHandler) DeleteRecipe(ctx *gin.Context) {
	owner, ok := subjectFrom(ctx)
	if !ok {
		return
	}

	cctx, cancel := requestCtx(ctx)
	defer cancel()

	if err := h.svc.Delete(cctx, owner, ctx.Param("id")); err != nil {
		respondServiceError(ctx, err, "Could not delete recipe")
		return
	}

	h.invalidateList(cctx)

	ctx.Status(http.StatusNoContent)
}

func (h *RecipesHandler) invalidateList(ctx context.Context) {
	h.listCache.invalidate(ctx)
}
