package utils

import (
	"strings"
	"testing"
)

func TestBuildRecipesListCacheKey(t *testing.T) {
	a := BuildRecipesListCacheKey("g1", 1, 6)
	b := BuildRecipesListCacheKey("g1", 1, 60)
	c := BuildRecipesListCacheKey("g1", 16, 0)
	d := BuildRecipesListCacheKey("g2", 1, 6)

	keys := []string{a, b, c, d}
	seen := map[string]bool{}
	for _, k := range keys {
		if seen[k] {
			t.Fatalf("keys must differ per generation and page shape: %q", keys)
		}
		seen[k] = true

		if !strings.HasPrefix(k, RecipesListCachePrefix) {
			t.Fatalf("key %q missing invalidation prefix", k)
		}
	}

	if strings.HasPrefix(RecipesListGenerationKey, RecipesListCachePrefix) {
		t.Fatalf("generation key must survive prefix invalidation")
	}
}
