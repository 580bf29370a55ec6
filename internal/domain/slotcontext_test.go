package domain

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type SlotContextSuite struct {
	suite.Suite
}

func TestSlotContextSuite(t *testing.T) {
	suite.Run(t, new(SlotContextSuite))
}

func (s *SlotContextSuite) TestDeriveSlotContexts() {
	s.Run("flags a slot within 2h before a workout as pre-workout", func() {
		schedule := Schedule{Days: []Day{{
			Slots:      []Slot{{Time: 360, Busyness: BusynessModerate}},
			Activities: []ActivityEntry{{StartTime: 420, EndTime: 480}},
		}}}
		ctxs := DeriveSlotContexts(schedule)
		ctx := ctxs[SlotKey{DayIndex: 0, SlotIndex: 0}]
		s.True(ctx.HasFlag(ActivityPreWorkout))
		s.True(ctx.IsWorkoutSlot)
	})

	s.Run("flags a slot within 3h after a workout as post-workout", func() {
		schedule := Schedule{Days: []Day{{
			Slots:      []Slot{{Time: 600, Busyness: BusynessModerate}},
			Activities: []ActivityEntry{{StartTime: 420, EndTime: 480}},
		}}}
		ctxs := DeriveSlotContexts(schedule)
		ctx := ctxs[SlotKey{DayIndex: 0, SlotIndex: 0}]
		s.True(ctx.HasFlag(ActivityPostWorkout))
	})

	s.Run("flags a slot far from any workout as sedentary", func() {
		schedule := Schedule{Days: []Day{{
			Slots: []Slot{{Time: 420, Busyness: BusynessModerate}},
		}}}
		ctxs := DeriveSlotContexts(schedule)
		ctx := ctxs[SlotKey{DayIndex: 0, SlotIndex: 0}]
		s.True(ctx.HasFlag(ActivitySedentary))
		s.False(ctx.IsWorkoutSlot)
	})

	s.Run("derives cooking time ceiling from busyness", func() {
		schedule := Schedule{Days: []Day{{
			Slots: []Slot{
				{Time: 420, Busyness: BusynessRelaxed},
				{Time: 480, Busyness: BusynessUnbounded},
			},
		}}}
		ctxs := DeriveSlotContexts(schedule)
		s.Equal(5, ctxs[SlotKey{DayIndex: 0, SlotIndex: 0}].CookingTimeMaxMin)
		s.Equal(-1, ctxs[SlotKey{DayIndex: 0, SlotIndex: 1}].CookingTimeMaxMin)
	})

	s.Run("flags high satiety ahead of an overnight fast", func() {
		schedule := Schedule{Days: []Day{
			{Slots: []Slot{{Time: 1300, Busyness: BusynessModerate}}},
			{Slots: []Slot{{Time: 420, Busyness: BusynessModerate}}},
		}}
		ctxs := DeriveSlotContexts(schedule)
		lastSlotDay0 := ctxs[SlotKey{DayIndex: 0, SlotIndex: 0}]
		s.True(lastSlotDay0.HasFlag(ActivityOvernightFastAhead))
		s.Equal(SatietyHigh, lastSlotDay0.SatietyRequirement)
	})

	s.Run("reports no next meal for the very last slot", func() {
		schedule := Schedule{Days: []Day{
			{Slots: []Slot{{Time: 1300, Busyness: BusynessModerate}}},
		}}
		ctxs := DeriveSlotContexts(schedule)
		s.Equal(-1, ctxs[SlotKey{DayIndex: 0, SlotIndex: 0}].TimeToNextMealMin)
	})
}

func (s *SlotContextSuite) TestClockTimeGapTo() {
	s.Run("forward gap within the same day", func() {
		s.Equal(60, ClockTime(420).GapTo(480))
	})

	s.Run("gap wraps past midnight", func() {
		s.Equal(60, ClockTime(1430).GapTo(30))
	})
}
