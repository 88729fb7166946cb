package recipe

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(ownerID string, req CreateRecipeRequest, now time.Time) Recipe {
	// timestamptz keeps microseconds
	now = now.UTC().Truncate(time.Microsecond)

	return Recipe{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
