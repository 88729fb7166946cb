package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/geocoder89/recipehub/internal/domain/recipe"
	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/geocoder89/recipehub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RecipesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewRecipesRepo(pool *pgxpool.Pool, prom *observability.Prom) *RecipesRepo {
	return &RecipesRepo{pool: pool, prom: prom}
}

const recipeColumns = `id, title, description, owner_id, created_at, updated_at`

func scanRecipe(row pgx.Row) (recipe.Recipe, error) {
	var rc recipe.Recipe
	err := row.Scan(&rc.ID, &rc.Title, &rc.Description, &rc.OwnerID, &rc.CreatedAt, &rc.UpdatedAt)
	return rc, err
}

func (r *RecipesRepo) Create(ctx context.Context, ownerID string, req recipe.CreateRecipeRequest) (recipe.Recipe, error) {
	rc := recipe.NewFromCreateRequest(ownerID, req, time.Now())

	err := r.prom.ObserveDB("recipes.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO recipes (id, title, description, owner_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			rc.ID, rc.Title, rc.Description, rc.OwnerID, rc.CreatedAt, rc.UpdatedAt,
		)
		return err
	})

	if err != nil {
		// the owner was deleted between token issue and now
		if IsForeignKeyViolation(err) {
			return recipe.Recipe{}, user.ErrNotFound
		}
		return recipe.Recipe{}, err
	}

	return rc, nil
}

func (r *RecipesRepo) List(ctx context.Context, f recipe.ListFilter) ([]recipe.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes`
	args := make([]any, 0, 3)
	argsPosition := 1

	if f.OwnerID != nil {
		query += fmt.Sprintf(" WHERE owner_id = $%d", argsPosition)
		args = append(args, *f.OwnerID)
		argsPosition++
	}

	// stable ordering for pagination
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)
	args = append(args, f.Limit, f.Offset)

	op := "recipes.list"
	if f.OwnerID != nil {
		op = "recipes.list_owned"
	}

	out := make([]recipe.Recipe, 0, f.Limit)

	err := r.prom.ObserveDB(op, func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			rc, err := scanRecipe(rows)
			if err != nil {
				return err
			}
			out = append(out, rc)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RecipesRepo) GetOwned(ctx context.Context, ownerID, id string) (recipe.Recipe, error) {
	var rc recipe.Recipe

	err := r.prom.ObserveDB("recipes.get_owned", func() error {
		var err error
		rc, err = scanRecipe(r.pool.QueryRow(ctx,
			`SELECT `+recipeColumns+` FROM recipes WHERE id = $1 AND owner_id = $2`,
			id, ownerID,
		))
		return err
	})

	return rc, notFound(err)
}

func (r *RecipesRepo) UpdateOwned(ctx context.Context, ownerID, id string, req recipe.UpdateRecipeRequest) (recipe.Recipe, error) {
	var rc recipe.Recipe

	err := r.prom.ObserveDB("recipes.update_owned", func() error {
		var err error
		rc, err = scanRecipe(r.pool.QueryRow(ctx,
			`UPDATE recipes
			SET title = $3, description = $4, updated_at = $5
			WHERE id = $1 AND owner_id = $2
			RETURNING `+recipeColumns,
			id, ownerID, req.Title, req.Description, time.Now().UTC(),
		))
		return err
	})

	return rc, notFound(err)
}

func (r *RecipesRepo) DeleteOwned(ctx context.Context, ownerID, id string) error {
	var affected int64

	err := r.prom.ObserveDB("recipes.delete_owned", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1 AND owner_id = $2`, id, ownerID)
		affected = tag.RowsAffected()
		return err
	})

	if err != nil {
		return err
	}
	if affected == 0 {
		return recipe.ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return recipe.ErrNotFound
	}
	return err
}
