package store_test

import (
	"context"
	"database/sql"
	"testing"

	"mealplansolver/internal/domain"
	"mealplansolver/internal/store"
	"mealplansolver/internal/testutil"

	"github.com/stretchr/testify/suite"
)

// Justification: the store package is the only place that round-trips
// domain types through Postgres JSONB columns; a unit test against a mock
// DBTX would not catch a marshal/column-type mismatch, so this exercises a
// real Postgres instance via testcontainers.
type RecipeStoreSuite struct {
	suite.Suite
	pg  *testutil.PostgresContainer
	db  *sql.DB
	rs  *store.RecipeStore
	ctx context.Context
}

func TestRecipeStoreSuite(t *testing.T) {
	suite.Run(t, new(RecipeStoreSuite))
}

func (s *RecipeStoreSuite) SetupSuite() {
	s.pg = testutil.SetupPostgres(s.T())
	s.db = s.pg.DB
}

func (s *RecipeStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.pg.ClearTables(s.ctx))
	s.rs = store.NewRecipeStore(s.db)
}

func (s *RecipeStoreSuite) carbContributionRecipe() domain.Recipe {
	return domain.Recipe{
		ID:                 "oatmeal",
		Name:               "Oatmeal",
		CookingTimeMinutes: 5,
		Ingredients: []domain.Ingredient{
			{NormalizedName: "oats"},
			{NormalizedName: "salt", ToTaste: true},
		},
		Nutrition: domain.Nutrition{
			Calories:       350,
			ProteinG:       12,
			FatG:           6,
			CarbsG:         60,
			FiberG:         8,
			Micronutrients: map[string]float64{"iron_mg": 3.5, "calcium_mg": 80},
		},
		PrimaryCarbContribution: &domain.CarbContribution{
			IngredientName:    "oats",
			OriginalQuantityG: 80,
			Nutrition: domain.Nutrition{
				Calories: 300,
				CarbsG:   54,
			},
		},
	}
}

func (s *RecipeStoreSuite) TestUpsertAndListAllRoundTrip() {
	recipe := s.carbContributionRecipe()
	s.Require().NoError(s.rs.Upsert(s.ctx, recipe))

	pool, err := s.rs.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(pool.Recipes, 1)

	got, ok := pool.ByID("oatmeal")
	s.Require().True(ok)
	s.Equal(recipe.Name, got.Name)
	s.Equal(recipe.CookingTimeMinutes, got.CookingTimeMinutes)
	s.Equal(recipe.Ingredients, got.Ingredients)
	s.Equal(recipe.Nutrition, got.Nutrition)
	s.Require().NotNil(got.PrimaryCarbContribution)
	s.Equal(*recipe.PrimaryCarbContribution, *got.PrimaryCarbContribution)
}

func (s *RecipeStoreSuite) TestUpsertWithoutCarbContribution() {
	recipe := domain.Recipe{
		ID:                 "chicken_breast",
		Name:               "Grilled Chicken Breast",
		CookingTimeMinutes: 20,
		Ingredients:        []domain.Ingredient{{NormalizedName: "chicken_breast"}},
		Nutrition: domain.Nutrition{
			Calories:       280,
			ProteinG:       52,
			FatG:           6,
			CarbsG:         0,
			Micronutrients: map[string]float64{},
		},
	}
	s.Require().NoError(s.rs.Upsert(s.ctx, recipe))

	pool, err := s.rs.ListAll(s.ctx)
	s.Require().NoError(err)
	got, ok := pool.ByID("chicken_breast")
	s.Require().True(ok)
	s.Nil(got.PrimaryCarbContribution)
}

func (s *RecipeStoreSuite) TestUpsertUpdatesExistingRow() {
	recipe := s.carbContributionRecipe()
	s.Require().NoError(s.rs.Upsert(s.ctx, recipe))

	recipe.Name = "Steel-Cut Oatmeal"
	recipe.CookingTimeMinutes = 15
	s.Require().NoError(s.rs.Upsert(s.ctx, recipe))

	pool, err := s.rs.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Len(pool.Recipes, 1)

	got, ok := pool.ByID("oatmeal")
	s.Require().True(ok)
	s.Equal("Steel-Cut Oatmeal", got.Name)
	s.Equal(15, got.CookingTimeMinutes)
}

func (s *RecipeStoreSuite) TestListAllOrderedByID() {
	for _, id := range []string{"zucchini_bake", "apple_toast", "mango_bowl"} {
		recipe := domain.Recipe{
			ID:   id,
			Name: id,
			Nutrition: domain.Nutrition{
				Micronutrients: map[string]float64{},
			},
		}
		s.Require().NoError(s.rs.Upsert(s.ctx, recipe))
	}

	pool, err := s.rs.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(pool.Recipes, 3)
	s.Equal([]string{"apple_toast", "mango_bowl", "zucchini_bake"}, []string{
		pool.Recipes[0].ID, pool.Recipes[1].ID, pool.Recipes[2].ID,
	})
}

func (s *RecipeStoreSuite) TestListAllEmptyPool() {
	pool, err := s.rs.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(pool.Recipes)
}
