package domain

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ProfileSuite struct {
	suite.Suite
}

func TestProfileSuite(t *testing.T) {
	suite.Run(t, new(ProfileSuite))
}

func (s *ProfileSuite) validProfile() Profile {
	return Profile{
		DailyCalories: 2400,
		DailyProteinG: 150,
		DailyFatG:     MacroRange{Min: 60, Max: 90},
		DailyCarbsG:   280,
		Schedule: Schedule{
			Days: []Day{
				{Slots: []Slot{
					{Time: 420, Busyness: BusynessBusy, MealLabel: "breakfast"},
					{Time: 750, Busyness: BusynessModerate, MealLabel: "lunch"},
				}},
			},
		},
	}
}

func (s *ProfileSuite) pool() RecipePool {
	pool, err := NewRecipePool([]Recipe{{ID: "r1", Name: "Recipe One"}})
	s.Require().NoError(err)
	return pool
}

func (s *ProfileSuite) TestValidate() {
	s.Run("accepts a well-formed profile", func() {
		err := s.validProfile().Validate(s.pool())
		s.NoError(err)
	})

	s.Run("rejects non-positive daily calories", func() {
		p := s.validProfile()
		p.DailyCalories = 0
		s.ErrorIs(p.Validate(s.pool()), ErrInvalidDailyCalories)
	})

	s.Run("rejects non-positive protein target", func() {
		p := s.validProfile()
		p.DailyProteinG = 0
		s.ErrorIs(p.Validate(s.pool()), ErrInvalidProteinTarget)
	})

	s.Run("rejects an inverted fat range", func() {
		p := s.validProfile()
		p.DailyFatG = MacroRange{Min: 90, Max: 60}
		s.ErrorIs(p.Validate(s.pool()), ErrInvalidFatRange)
	})

	s.Run("rejects an empty schedule", func() {
		p := s.validProfile()
		p.Schedule = Schedule{}
		s.ErrorIs(p.Validate(s.pool()), ErrEmptySchedule)
	})

	s.Run("rejects more than 7 days", func() {
		p := s.validProfile()
		days := make([]Day, 8)
		for i := range days {
			days[i] = Day{Slots: []Slot{{Time: 420, Busyness: BusynessBusy}}}
		}
		p.Schedule = Schedule{Days: days}
		s.ErrorIs(p.Validate(s.pool()), ErrEmptySchedule)
	})

	s.Run("rejects a day with no slots", func() {
		p := s.validProfile()
		p.Schedule.Days[0].Slots = nil
		s.ErrorIs(p.Validate(s.pool()), ErrEmptyDaySlots)
	})

	s.Run("rejects an invalid busyness level", func() {
		p := s.validProfile()
		p.Schedule.Days[0].Slots[0].Busyness = BusynessLevel(99)
		s.ErrorIs(p.Validate(s.pool()), ErrInvalidBusyness)
	})

	s.Run("rejects a pinned slot outside the schedule", func() {
		p := s.validProfile()
		p.PinnedAssignments = map[SlotKey]string{{DayIndex: 5, SlotIndex: 0}: "r1"}
		s.ErrorIs(p.Validate(s.pool()), ErrPinnedOutOfRange)
	})

	s.Run("rejects a pinned recipe absent from the pool", func() {
		p := s.validProfile()
		p.PinnedAssignments = map[SlotKey]string{{DayIndex: 0, SlotIndex: 0}: "unknown"}
		s.ErrorIs(p.Validate(s.pool()), ErrPinnedUnknownRecipe)
	})
}

func (s *ProfileSuite) TestDailyRDI() {
	p := s.validProfile()
	p.MicronutrientTargets = map[string]float64{"iron_mg": 18}

	s.Run("resolves macro keys directly", func() {
		v, ok := p.DailyRDI(NutrientCalories)
		s.True(ok)
		s.Equal(2400.0, v)
	})

	s.Run("resolves fat to the range midpoint", func() {
		v, ok := p.DailyRDI(NutrientFat)
		s.True(ok)
		s.Equal(75.0, v)
	})

	s.Run("resolves a tracked micronutrient", func() {
		v, ok := p.DailyRDI("iron_mg")
		s.True(ok)
		s.Equal(18.0, v)
	})

	s.Run("reports false for an untracked nutrient", func() {
		_, ok := p.DailyRDI("zinc_mg")
		s.False(ok)
	})
}
