package domain

import "fmt"

// MacroRange is an inclusive (min, max) range, used for the daily fat target.
type MacroRange struct {
	Min float64
	Max float64
}

// Mid returns the midpoint of the range.
func (r MacroRange) Mid() float64 {
	return (r.Min + r.Max) / 2
}

// Contains reports whether v falls within [Min, Max] inclusive.
func (r MacroRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Profile is the immutable user-profile input to a single solver run (§3).
type Profile struct {
	DailyCalories        int
	DailyProteinG        float64
	DailyFatG            MacroRange
	DailyCarbsG          float64
	MaxDailyCalories     *int
	Schedule             Schedule
	ExcludedIngredients  map[string]bool
	LikedFoods           map[string]bool
	Demographic          string
	UpperLimitOverrides  map[string]*float64
	PinnedAssignments    map[SlotKey]string
	MicronutrientTargets map[string]float64
}

// DailyRDI returns the daily recommended target for a nutrient, covering
// both the four macro keys and any tracked micronutrient. ok is false if the
// nutrient is neither a macro key nor present in MicronutrientTargets.
func (p Profile) DailyRDI(nutrient string) (value float64, ok bool) {
	switch nutrient {
	case NutrientCalories:
		return float64(p.DailyCalories), true
	case NutrientProtein:
		return p.DailyProteinG, true
	case NutrientFat:
		return p.DailyFatG.Mid(), true
	case NutrientCarbs:
		return p.DailyCarbsG, true
	default:
		v, ok := p.MicronutrientTargets[nutrient]
		return v, ok
	}
}

// TrackedNutrients returns the micronutrient names participating in scoring
// and weekly validation (§3, §8) — the keys of MicronutrientTargets. Macro
// nutrients are always tracked implicitly and are not repeated here.
func (p Profile) TrackedNutrients() []string {
	out := make([]string, 0, len(p.MicronutrientTargets))
	for n := range p.MicronutrientTargets {
		out = append(out, n)
	}
	return out
}

// Validate checks the structural invariants of a profile before a search
// begins: sane macro targets, a well-formed schedule, and well-formed
// pinned assignments relative to that schedule and the given pool. Pinned
// assignments against HC/UL constraints are validated separately (FM-3
// pre-validation) since that requires resolved ULs and is not a pure
// structural check.
func (p Profile) Validate(pool RecipePool) error {
	if p.DailyCalories <= 0 {
		return ErrInvalidDailyCalories
	}
	if p.DailyProteinG <= 0 {
		return ErrInvalidProteinTarget
	}
	if p.DailyFatG.Min < 0 || p.DailyFatG.Min > p.DailyFatG.Max {
		return ErrInvalidFatRange
	}
	if len(p.Schedule.Days) < 1 || len(p.Schedule.Days) > 7 {
		return ErrEmptySchedule
	}
	for _, day := range p.Schedule.Days {
		if len(day.Slots) < 1 || len(day.Slots) > 8 {
			return ErrEmptyDaySlots
		}
		for _, slot := range day.Slots {
			if !ValidBusynessLevels[slot.Busyness] {
				return ErrInvalidBusyness
			}
		}
	}
	for key, recipeID := range p.PinnedAssignments {
		if key.DayIndex < 0 || key.DayIndex >= len(p.Schedule.Days) {
			return fmt.Errorf("%w: day %d", ErrPinnedOutOfRange, key.DayIndex)
		}
		if key.SlotIndex < 0 || key.SlotIndex >= len(p.Schedule.Days[key.DayIndex].Slots) {
			return fmt.Errorf("%w: slot %d on day %d", ErrPinnedOutOfRange, key.SlotIndex, key.DayIndex)
		}
		if _, ok := pool.ByID(recipeID); !ok {
			return fmt.Errorf("%w: %s", ErrPinnedUnknownRecipe, recipeID)
		}
	}
	return nil
}
