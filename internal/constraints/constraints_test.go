package constraints

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"mealplansolver/internal/domain"
)

type ConstraintsSuite struct {
	suite.Suite
}

func TestConstraintsSuite(t *testing.T) {
	suite.Run(t, new(ConstraintsSuite))
}

func (s *ConstraintsSuite) baseProfile() *domain.Profile {
	return &domain.Profile{
		DailyCalories:       2000,
		DailyProteinG:       100,
		DailyFatG:           domain.MacroRange{Min: 50, Max: 80},
		DailyCarbsG:         250,
		ExcludedIngredients: map[string]bool{},
		LikedFoods:          map[string]bool{},
	}
}

func (s *ConstraintsSuite) candidate(id string, calories float64) domain.Candidate {
	return domain.Candidate{RecipeID: id, Name: id, Nutrition: domain.Nutrition{Calories: calories}}
}

func (s *ConstraintsSuite) TestHC1ExcludedIngredient() {
	profile := s.baseProfile()
	profile.ExcludedIngredients["peanut"] = true
	ctx := Context{Profile: profile}

	s.Run("denies a candidate containing an excluded ingredient", func() {
		r := HC1ExcludedIngredient(ctx, []domain.Ingredient{{NormalizedName: "peanut"}})
		s.False(r.Pass)
		s.Equal("HC-1", r.Code)
	})

	s.Run("passes a candidate with no excluded ingredients", func() {
		r := HC1ExcludedIngredient(ctx, []domain.Ingredient{{NormalizedName: "rice"}})
		s.True(r.Pass)
	})
}

func (s *ConstraintsSuite) TestHC2Uniqueness() {
	daily := domain.NewDailyTracker(3)
	daily.UsedRecipeIDs["r1"] = true
	ctx := Context{Candidate: s.candidate("r1", 100), Daily: daily}
	s.False(HC2Uniqueness(ctx).Pass)

	ctx2 := Context{Candidate: s.candidate("r2", 100), Daily: daily}
	s.True(HC2Uniqueness(ctx2).Pass)
}

func (s *ConstraintsSuite) TestHC3CookingTime() {
	s.Run("denies a candidate over the slot ceiling", func() {
		ctx := Context{
			Candidate: domain.Candidate{CookingTimeMinutes: 20},
			Slot:      domain.SlotContext{CookingTimeMaxMin: 15},
		}
		s.False(HC3CookingTime(ctx).Pass)
	})

	s.Run("passes at exactly the ceiling", func() {
		ctx := Context{
			Candidate: domain.Candidate{CookingTimeMinutes: 15},
			Slot:      domain.SlotContext{CookingTimeMaxMin: 15},
		}
		s.True(HC3CookingTime(ctx).Pass)
	})

	s.Run("unbounded ceiling always passes", func() {
		ctx := Context{
			Candidate: domain.Candidate{CookingTimeMinutes: 500},
			Slot:      domain.SlotContext{CookingTimeMaxMin: -1},
		}
		s.True(HC3CookingTime(ctx).Pass)
	})
}

func (s *ConstraintsSuite) TestHC4DailyUpperLimit() {
	limit := 100.0
	ul := domain.ResolvedUpperLimits{"sodium_mg": &limit}

	s.Run("denies when the daily total strictly exceeds the limit", func() {
		daily := domain.NewDailyTracker(3)
		daily.Consumed.Micronutrients["sodium_mg"] = 150
		ctx := Context{Daily: daily, ResolvedUL: ul}
		s.False(HC4DailyUpperLimit(ctx).Pass)
	})

	s.Run("equality is allowed", func() {
		daily := domain.NewDailyTracker(3)
		daily.Consumed.Micronutrients["sodium_mg"] = 100
		ctx := Context{Daily: daily, ResolvedUL: ul}
		s.True(HC4DailyUpperLimit(ctx).Pass)
	})
}

func (s *ConstraintsSuite) TestHC5CalorieCeiling() {
	ceiling := 1800
	profile := s.baseProfile()
	profile.MaxDailyCalories = &ceiling

	s.Run("denies when tentative total exceeds the ceiling", func() {
		daily := domain.NewDailyTracker(3)
		daily.Consumed.Calories = 1700
		ctx := Context{Profile: profile, Daily: daily, Candidate: s.candidate("r1", 200)}
		s.False(HC5CalorieCeiling(ctx).Pass)
	})

	s.Run("no ceiling means always pass", func() {
		daily := domain.NewDailyTracker(3)
		ctx := Context{Profile: s.baseProfile(), Daily: daily, Candidate: s.candidate("r1", 5000)}
		s.True(HC5CalorieCeiling(ctx).Pass)
	})
}

func (s *ConstraintsSuite) TestHC8ConsecutiveRepetition() {
	s.Run("day 1 is never restricted", func() {
		ctx := Context{DayIndex: 0, Candidate: s.candidate("r1", 100), PreviousDayNonWorkout: map[string]bool{"r1": true}}
		s.True(HC8ConsecutiveRepetition(ctx).Pass)
	})

	s.Run("workout slots are never restricted", func() {
		ctx := Context{
			DayIndex:              1,
			Candidate:             s.candidate("r1", 100),
			Slot:                  domain.SlotContext{IsWorkoutSlot: true},
			PreviousDayNonWorkout: map[string]bool{"r1": true},
		}
		s.True(HC8ConsecutiveRepetition(ctx).Pass)
	})

	s.Run("non-workout slot repeating the prior day's recipe is denied", func() {
		ctx := Context{
			DayIndex:              1,
			Candidate:             s.candidate("r1", 100),
			PreviousDayNonWorkout: map[string]bool{"r1": true},
		}
		r := HC8ConsecutiveRepetition(ctx)
		s.False(r.Pass)
		s.Equal("HC-8", r.Code)
	})

	s.Run("a recipe not used the prior day is unaffected", func() {
		ctx := Context{
			DayIndex:              1,
			Candidate:             s.candidate("r2", 100),
			PreviousDayNonWorkout: map[string]bool{"r1": true},
		}
		s.True(HC8ConsecutiveRepetition(ctx).Pass)
	})
}

func (s *ConstraintsSuite) TestEvaluateForGenerationStopsAtFirstFailure() {
	profile := s.baseProfile()
	profile.ExcludedIngredients["peanut"] = true
	daily := domain.NewDailyTracker(3)
	daily.UsedRecipeIDs["r1"] = true

	ctx := Context{
		Candidate: s.candidate("r1", 100),
		Daily:     daily,
		Profile:   profile,
		Slot:      domain.SlotContext{CookingTimeMaxMin: 30},
	}
	r := EvaluateForGeneration(ctx, []domain.Ingredient{{NormalizedName: "peanut"}})
	s.False(r.Pass)
	s.Equal("HC-1", r.Code, "HC-1 runs before HC-2 per the fixed evaluation order")
}
