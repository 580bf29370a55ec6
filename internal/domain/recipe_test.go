package domain

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type RecipeSuite struct {
	suite.Suite
}

func TestRecipeSuite(t *testing.T) {
	suite.Run(t, new(RecipeSuite))
}

func (s *RecipeSuite) TestNutritionArithmetic() {
	a := Nutrition{Calories: 500, ProteinG: 30, FatG: 10, CarbsG: 50, FiberG: 5,
		Micronutrients: map[string]float64{"iron_mg": 2}}
	b := Nutrition{Calories: 100, ProteinG: 5, FatG: 2, CarbsG: 10, FiberG: 1,
		Micronutrients: map[string]float64{"iron_mg": 1}}

	s.Run("add sums every field including micronutrients", func() {
		sum := a.Add(b)
		s.Equal(600.0, sum.Calories)
		s.Equal(35.0, sum.ProteinG)
		s.Equal(12.0, sum.FatG)
		s.Equal(60.0, sum.CarbsG)
		s.Equal(6.0, sum.FiberG)
		s.Equal(3.0, sum.Micronutrients["iron_mg"])
	})

	s.Run("sub is the exact inverse of add", func() {
		sum := a.Add(b)
		back := sum.Sub(b)
		s.Equal(a.Calories, back.Calories)
		s.Equal(a.ProteinG, back.ProteinG)
		s.Equal(a.Micronutrients["iron_mg"], back.Micronutrients["iron_mg"])
	})

	s.Run("scale multiplies every field", func() {
		scaled := a.Scale(0.5)
		s.Equal(250.0, scaled.Calories)
		s.Equal(15.0, scaled.ProteinG)
		s.Equal(1.0, scaled.Micronutrients["iron_mg"])
	})

	s.Run("get resolves macro keys and micronutrients alike", func() {
		s.Equal(500.0, a.Get(NutrientCalories))
		s.Equal(30.0, a.Get(NutrientProtein))
		s.Equal(10.0, a.Get(NutrientFat))
		s.Equal(50.0, a.Get(NutrientCarbs))
		s.Equal(5.0, a.Get(NutrientFiber))
		s.Equal(2.0, a.Get("iron_mg"))
		s.Equal(0.0, a.Get("unknown_nutrient"))
	})
}

func (s *RecipeSuite) TestRecipeIngredientMatching() {
	r := Recipe{
		ID: "r1",
		Ingredients: []Ingredient{
			{NormalizedName: "peanut"},
			{NormalizedName: "chicken_breast"},
			{NormalizedName: "salt", ToTaste: true},
		},
	}

	s.Run("flags an excluded ingredient present in the recipe", func() {
		s.True(r.HasExcludedIngredient(map[string]bool{"peanut": true}))
	})

	s.Run("does not flag when no excluded ingredient is present", func() {
		s.False(r.HasExcludedIngredient(map[string]bool{"shellfish": true}))
	})

	s.Run("counts liked-food matches", func() {
		s.Equal(1, r.LikedFoodMatches(map[string]bool{"chicken_breast": true, "salmon": true}))
	})
}

func (s *RecipeSuite) TestRecipePool() {
	s.Run("indexes recipes by id for lookup", func() {
		pool, err := NewRecipePool([]Recipe{{ID: "r1", Name: "One"}, {ID: "r2", Name: "Two"}})
		s.Require().NoError(err)
		r, ok := pool.ByID("r2")
		s.True(ok)
		s.Equal("Two", r.Name)
	})

	s.Run("reports absent ids", func() {
		pool, err := NewRecipePool([]Recipe{{ID: "r1"}})
		s.Require().NoError(err)
		_, ok := pool.ByID("missing")
		s.False(ok)
	})

	s.Run("rejects duplicate ids", func() {
		_, err := NewRecipePool([]Recipe{{ID: "r1"}, {ID: "r1"}})
		s.ErrorIs(err, ErrDuplicateRecipeID)
	})
}

func (s *RecipeSuite) TestCandidate() {
	s.Run("wraps a base recipe as a non-variant candidate", func() {
		r := Recipe{ID: "r1", Name: "One", CookingTimeMinutes: 20, Nutrition: Nutrition{Calories: 400}}
		c := CandidateFromRecipe(r)
		s.Equal("r1", c.RecipeID)
		s.False(c.IsVariant())
	})

	s.Run("a variant index marks the candidate as a variant", func() {
		idx := 1
		c := Candidate{RecipeID: "r1", VariantIndex: &idx}
		s.True(c.IsVariant())
	})
}
