package domain

// ActivityFlag is one of the activity-context tags a slot may carry (§3).
// A slot may hold more than one flag simultaneously.
type ActivityFlag string

const (
	ActivityPreWorkout          ActivityFlag = "pre_workout"
	ActivityPostWorkout         ActivityFlag = "post_workout"
	ActivitySedentary           ActivityFlag = "sedentary"
	ActivityOvernightFastAhead  ActivityFlag = "overnight_fast_ahead"
	preWorkoutWindowMinutes                  = 120 // workout starts within 2h after the slot
	postWorkoutWindowMinutes                 = 180 // workout ended within 3h before the slot
	overnightFastThresholdMin                = 240 // time-to-next-meal > 4h
	overnightGapThresholdMin                 = 12 * 60
)

// SatietyRequirement is the derived satiety preference for a slot.
type SatietyRequirement string

const (
	SatietyHigh     SatietyRequirement = "high"
	SatietyModerate SatietyRequirement = "moderate"
)

// SlotContext holds the attributes derived once per slot at plan start
// (§3): activity context flags, whether the slot is a workout slot, the
// cooking-time ceiling, and the satiety requirement.
type SlotContext struct {
	Key                SlotKey
	ActivityFlags      map[ActivityFlag]bool
	IsWorkoutSlot      bool
	CookingTimeMaxMin  int // -1 means unbounded (busyness 4)
	SatietyRequirement SatietyRequirement
	TimeToNextMealMin  int // minutes to the next meal, wrapping overnight; -1 if none exists (last slot, last day)
}

// HasFlag reports whether the slot carries the given activity flag.
func (c SlotContext) HasFlag(f ActivityFlag) bool {
	return c.ActivityFlags[f]
}

func cookingTimeMaxFor(b BusynessLevel) int {
	switch b {
	case BusynessRelaxed:
		return 5
	case BusynessModerate:
		return 15
	case BusynessBusy:
		return 30
	default:
		return -1 // unbounded
	}
}

// DeriveSlotContexts computes the SlotContext for every (day, slot) in the
// schedule, in day/slot order. It is computed once per run, before the
// search begins, per §3 and §5 ("all reference data is precomputed").
func DeriveSlotContexts(schedule Schedule) map[SlotKey]SlotContext {
	out := make(map[SlotKey]SlotContext)
	for d, day := range schedule.Days {
		for s, slot := range day.Slots {
			key := SlotKey{DayIndex: d, SlotIndex: s}
			flags := map[ActivityFlag]bool{}

			preWorkout := false
			postWorkout := false
			for _, a := range day.Activities {
				if forwardGap(slot.Time, a.StartTime) <= preWorkoutWindowMinutes {
					preWorkout = true
				}
				if forwardGap(a.EndTime, slot.Time) <= postWorkoutWindowMinutes {
					postWorkout = true
				}
			}
			if preWorkout {
				flags[ActivityPreWorkout] = true
			}
			if postWorkout {
				flags[ActivityPostWorkout] = true
			}
			if !preWorkout && !postWorkout {
				flags[ActivitySedentary] = true
			}

			timeToNext := -1
			if s+1 < len(day.Slots) {
				timeToNext = forwardGap(slot.Time, day.Slots[s+1].Time)
			} else if d+1 < len(schedule.Days) && len(schedule.Days[d+1].Slots) > 0 {
				timeToNext = forwardGap(slot.Time, schedule.Days[d+1].Slots[0].Time)
			}

			overnightGap := s == len(day.Slots)-1 && timeToNext >= overnightGapThresholdMin
			if timeToNext > overnightFastThresholdMin || overnightGap {
				flags[ActivityOvernightFastAhead] = true
			}

			satiety := SatietyModerate
			if timeToNext > overnightFastThresholdMin || overnightGap {
				satiety = SatietyHigh
			}

			out[key] = SlotContext{
				Key:                key,
				ActivityFlags:      flags,
				IsWorkoutSlot:      preWorkout || postWorkout,
				CookingTimeMaxMin:  cookingTimeMaxFor(slot.Busyness),
				SatietyRequirement: satiety,
				TimeToNextMealMin:  timeToNext,
			}
		}
	}
	return out
}

// forwardGap is the number of minutes from t forward to next, wrapping past
// midnight.
func forwardGap(t, next ClockTime) int {
	return t.GapTo(next)
}
