package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"mealplansolver/internal/domain"
)

// RecipeStore handles database operations for the recipe pool.
type RecipeStore struct {
	db DBTX
}

// NewRecipeStore creates a new RecipeStore.
func NewRecipeStore(db DBTX) *RecipeStore {
	return &RecipeStore{db: db}
}

// ListAll retrieves every recipe in the pool, ordered by id.
func (s *RecipeStore) ListAll(ctx context.Context) (domain.RecipePool, error) {
	const query = `
		SELECT id, name, cooking_time_minutes, ingredients, nutrition, primary_carb_contribution
		FROM recipes
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return domain.RecipePool{}, fmt.Errorf("store: listing recipes: %w", err)
	}
	defer rows.Close()

	var recipes []domain.Recipe
	for rows.Next() {
		var r domain.Recipe
		var ingredientsJSON, nutritionJSON []byte
		var contributionJSON sql.NullString
		if err := rows.Scan(&r.ID, &r.Name, &r.CookingTimeMinutes, &ingredientsJSON, &nutritionJSON, &contributionJSON); err != nil {
			return domain.RecipePool{}, fmt.Errorf("store: scanning recipe: %w", err)
		}
		if err := json.Unmarshal(ingredientsJSON, &r.Ingredients); err != nil {
			return domain.RecipePool{}, fmt.Errorf("store: decoding ingredients for %s: %w", r.ID, err)
		}
		if err := json.Unmarshal(nutritionJSON, &r.Nutrition); err != nil {
			return domain.RecipePool{}, fmt.Errorf("store: decoding nutrition for %s: %w", r.ID, err)
		}
		if contributionJSON.Valid {
			var c domain.CarbContribution
			if err := json.Unmarshal([]byte(contributionJSON.String), &c); err != nil {
				return domain.RecipePool{}, fmt.Errorf("store: decoding carb contribution for %s: %w", r.ID, err)
			}
			r.PrimaryCarbContribution = &c
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return domain.RecipePool{}, err
	}

	return domain.NewRecipePool(recipes)
}

// Upsert inserts or replaces a recipe.
func (s *RecipeStore) Upsert(ctx context.Context, r domain.Recipe) error {
	ingredientsJSON, err := json.Marshal(r.Ingredients)
	if err != nil {
		return fmt.Errorf("store: encoding ingredients: %w", err)
	}
	nutritionJSON, err := json.Marshal(r.Nutrition)
	if err != nil {
		return fmt.Errorf("store: encoding nutrition: %w", err)
	}
	var contributionJSON []byte
	if r.PrimaryCarbContribution != nil {
		contributionJSON, err = json.Marshal(r.PrimaryCarbContribution)
		if err != nil {
			return fmt.Errorf("store: encoding carb contribution: %w", err)
		}
	}

	const query = `
		INSERT INTO recipes (id, name, cooking_time_minutes, ingredients, nutrition, primary_carb_contribution)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			cooking_time_minutes = EXCLUDED.cooking_time_minutes,
			ingredients = EXCLUDED.ingredients,
			nutrition = EXCLUDED.nutrition,
			primary_carb_contribution = EXCLUDED.primary_carb_contribution
	`
	_, err = s.db.ExecContext(ctx, query, r.ID, r.Name, r.CookingTimeMinutes, ingredientsJSON, nutritionJSON, contributionJSON)
	return err
}
