package domain

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type TrackerSuite struct {
	suite.Suite
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerSuite))
}

func (s *TrackerSuite) candidate(id string, calories float64) Candidate {
	return Candidate{RecipeID: id, Nutrition: Nutrition{Calories: calories}}
}

func (s *TrackerSuite) TestDailyTrackerApplyUndo() {
	s.Run("apply accumulates consumed nutrition and marks recipe used", func() {
		t := NewDailyTracker(3)
		t.Apply(s.candidate("r1", 400), false)
		s.Equal(400.0, t.Consumed.Calories)
		s.True(t.UsedRecipeIDs["r1"])
		s.True(t.NonWorkoutRecipeIDs["r1"])
		s.Equal(1, t.SlotsAssigned)
	})

	s.Run("workout slot does not join non-workout set", func() {
		t := NewDailyTracker(3)
		t.Apply(s.candidate("r1", 400), true)
		s.True(t.UsedRecipeIDs["r1"])
		s.False(t.NonWorkoutRecipeIDs["r1"])
	})

	s.Run("undo exactly reverses apply", func() {
		t := NewDailyTracker(3)
		c := s.candidate("r1", 400)
		t.Apply(c, false)
		t.Undo(c, false, true)
		s.Equal(0.0, t.Consumed.Calories)
		s.False(t.UsedRecipeIDs["r1"])
		s.False(t.NonWorkoutRecipeIDs["r1"])
		s.Equal(0, t.SlotsAssigned)
	})

	s.Run("undo keeps non-workout membership if another slot still depends on it", func() {
		t := NewDailyTracker(3)
		c := s.candidate("r1", 400)
		t.Apply(c, false)
		t.Apply(c, false) // a second non-workout slot reusing the id hypothetically
		t.Undo(c, false, false)
		s.True(t.NonWorkoutRecipeIDs["r1"])
	})

	s.Run("clone is independent of the original", func() {
		t := NewDailyTracker(3)
		t.Apply(s.candidate("r1", 400), false)
		clone := t.Clone()
		clone.Apply(s.candidate("r2", 200), false)
		s.Equal(400.0, t.Consumed.Calories)
		s.Equal(600.0, clone.Consumed.Calories)
	})
}

func (s *TrackerSuite) TestWeeklyTracker() {
	s.Run("commit day folds totals and increments completed count", func() {
		w := NewWeeklyTracker(7)
		w.CommitDay(Nutrition{Calories: 2000})
		s.Equal(2000.0, w.WeeklyTotals.Calories)
		s.Equal(1, w.DaysCompleted)
		s.Equal(6, w.DaysRemaining())
	})

	s.Run("uncommit reverses the most recent commit", func() {
		w := NewWeeklyTracker(7)
		w.CommitDay(Nutrition{Calories: 2000})
		w.CommitDay(Nutrition{Calories: 1800})
		w.UncommitLastDay()
		s.Equal(2000.0, w.WeeklyTotals.Calories)
		s.Equal(1, w.DaysCompleted)
	})

	s.Run("uncommit on an empty tracker is a no-op", func() {
		w := NewWeeklyTracker(7)
		w.UncommitLastDay()
		s.Equal(0, w.DaysCompleted)
	})

	s.Run("carryover needs computes unmet RDI given days completed", func() {
		w := NewWeeklyTracker(7)
		w.CommitDay(Nutrition{Calories: 1800, Micronutrients: map[string]float64{}})
		rdiOf := func(n string) (float64, bool) {
			if n == NutrientCalories {
				return 2000, true
			}
			return 0, false
		}
		needs := w.CarryoverNeeds([]string{NutrientCalories}, rdiOf)
		s.Equal(200.0, needs[NutrientCalories])
	})

	s.Run("carryover needs floors at zero when ahead of target", func() {
		w := NewWeeklyTracker(7)
		w.CommitDay(Nutrition{Calories: 2200})
		rdiOf := func(n string) (float64, bool) { return 2000, true }
		needs := w.CarryoverNeeds([]string{NutrientCalories}, rdiOf)
		s.Equal(0.0, needs[NutrientCalories])
	})
}
