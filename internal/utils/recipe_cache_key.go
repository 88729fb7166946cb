package utils

import "strconv"

// RecipesListCachePrefix covers every cached public list page; writers drop
// the whole prefix since any change can shift every page.
const RecipesListCachePrefix = "recipes:list:"

// RecipesListGenerationKey holds the current page generation. It is outside
// the page prefix so dropping pages does not reset it.
const RecipesListGenerationKey = "recipes:list-gen"

func BuildRecipesListCacheKey(gen string, page, perPage int) string {
	return RecipesListCachePrefix + gen + ":page=" + strconv.Itoa(page) +
		":per_page=" + strconv.Itoa(perPage)
}
