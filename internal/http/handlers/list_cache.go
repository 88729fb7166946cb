package handlers

import (
	"context"

	"github.com/geocoder89/recipehub/internal/cache"
	"github.com/geocoder89/recipehub/internal/domain/recipe"
	"github.com/geocoder89/recipehub/internal/utils"
	"github.com/google/uuid"
)

// listPages caches rendered public list pages under a generation id. Writers
// replace the generation, so a page built from a read that raced a write is
// stored under a key nobody looks up again.
type listPages struct {
	c cache.Cache
}

// generation must be read before the store is queried.
func (p listPages) generation(ctx context.Context) string {
	if b, ok := p.c.Get(ctx, utils.RecipesListGenerationKey); ok && len(b) > 0 {
		return string(b)
	}

	gen := uuid.NewString()
	p.c.Set(ctx, utils.RecipesListGenerationKey, []byte(gen))
	return gen
}

func (p listPages) get(ctx context.Context, gen string, page recipe.Page) ([]byte, bool) {
	return p.c.Get(ctx, utils.BuildRecipesListCacheKey(gen, page.Number, page.PerPage))
}

func (p listPages) set(ctx context.Context, gen string, page recipe.Page, body []byte) {
	p.c.Set(ctx, utils.BuildRecipesListCacheKey(gen, page.Number, page.PerPage), body)
}

func (p listPages) invalidate(ctx context.Context) {
	if p.c == nil {
		return
	}
	p.c.Set(ctx, utils.RecipesListGenerationKey, []byte(uuid.NewString()))
	p.c.DeletePrefix(ctx, utils.RecipesListCachePrefix)
}
