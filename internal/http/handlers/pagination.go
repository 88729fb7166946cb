package handlers

import (
	"strconv"

	"github.com/geocoder89/recipehub/internal/domain/recipe"
	"github.com/gin-gonic/gin"
)

// pageFromQuery reads ?page=&per_page=. Bad values fall back to defaults
// instead of failing the request.
func pageFromQuery(ctx *gin.Context) recipe.Page {
	number, _ := strconv.Atoi(ctx.Query("page"))
	perPage, _ := strconv.Atoi(ctx.Query("per_page"))

	return recipe.NewPage(number, perPage)
}

type recipeListResponse struct {
	Items   []recipe.Recipe `json:"items"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
	Count   int             `json:"count"`
}

func newRecipeList(items []recipe.Recipe, page recipe.Page) recipeListResponse {
	if items == nil {
		items = []recipe.Recipe{}
	}

	return recipeListResponse{
		Items:   items,
		Page:    page.Number,
		PerPage: page.PerPage,
		Count:   len(items),
	}
}
