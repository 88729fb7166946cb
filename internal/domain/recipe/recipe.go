package recipe

import (
	"errors"
	"time"
)

type Recipe struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"desc"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ErrNotFound covers both a missing recipe and one owned by someone else.
var ErrNotFound = errors.New("recipe not found")

// No owner field: the owner always comes from the authenticated caller.
type CreateRecipeRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=80"`
	Description string `json:"desc" binding:"required,min=1,max=10000"`
}

// a full update payload; both fields are replaced.
type UpdateRecipeRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=80"`
	Description string `json:"desc" binding:"required,min=1,max=10000"`
}

const (
	DefaultPerPage = 6
	MaxPerPage     = 100

	// keeps Offset far from overflow; anything this deep is empty anyway
	maxPageNumber = 1_000_000
)

// Page is a 1-based offset page.
type Page struct {
	Number  int
	PerPage int
}

// NewPage clamps out-of-range input to defaults rather than failing.
func NewPage(number, perPage int) Page {
	if number < 1 {
		number = 1
	}

	if number > maxPageNumber {
		number = maxPageNumber
	}

	if perPage < 1 {
		perPage = DefaultPerPage
	}

	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	return Page{Number: number, PerPage: perPage}
}

func (p Page) Limit() int {
	return p.PerPage
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

type ListFilter struct {
	// nil lists every owner
	OwnerID *string
	Limit   int
	Offset  int
}
