package domain

// AdjustedDailyTarget computes, for every nutrient in nutrients, the start-
// of-day target (§3):
//
//	adjusted_daily_target(n) = daily_RDI(n) + carryover_needs(n) / days_remaining_including_d
func AdjustedDailyTarget(profile Profile, carryover map[string]float64, daysRemainingIncludingD int) map[string]float64 {
	out := make(map[string]float64, len(carryover))
	for n, need := range carryover {
		rdi, ok := profile.DailyRDI(n)
		if !ok {
			continue
		}
		out[n] = rdi + need/float64(daysRemainingIncludingD)
	}
	return out
}

// PerMealTarget is the macro target for a single decision point, after
// activity-context shifts have been applied (§3).
type PerMealTarget struct {
	Calories float64
	ProteinG float64
	FatG     float64
	CarbsG   float64
}

// PerMealMacroTarget computes remaining(m)/slots_left for each macro, then
// applies the multiplicative activity-context shifts named in
// internal/domain/constants.go: pre_workout lowers protein and raises
// carbs; post_workout raises both; high-satiety raises calories, protein,
// and fat (§3).
func PerMealMacroTarget(daily *DailyTracker, dailyTarget PerMealTarget, slotsLeft int, ctx SlotContext) PerMealTarget {
	if slotsLeft <= 0 {
		slotsLeft = 1
	}
	remaining := PerMealTarget{
		Calories: dailyTarget.Calories - daily.Consumed.Calories,
		ProteinG: dailyTarget.ProteinG - daily.Consumed.ProteinG,
		FatG:     dailyTarget.FatG - daily.Consumed.FatG,
		CarbsG:   dailyTarget.CarbsG - daily.Consumed.CarbsG,
	}
	target := PerMealTarget{
		Calories: remaining.Calories / float64(slotsLeft),
		ProteinG: remaining.ProteinG / float64(slotsLeft),
		FatG:     remaining.FatG / float64(slotsLeft),
		CarbsG:   remaining.CarbsG / float64(slotsLeft),
	}

	if ctx.HasFlag(ActivityPreWorkout) {
		target.ProteinG *= 1 + PreWorkoutProteinShiftFraction
		target.CarbsG *= 1 + PreWorkoutCarbShiftFraction
	}
	if ctx.HasFlag(ActivityPostWorkout) {
		target.ProteinG *= 1 + PostWorkoutProteinShiftFraction
		target.CarbsG *= 1 + PostWorkoutCarbShiftFraction
	}
	if ctx.SatietyRequirement == SatietyHigh {
		target.Calories *= 1 + HighSatietyCalorieShiftFraction
		target.ProteinG *= 1 + HighSatietyProteinShiftFraction
		target.FatG *= 1 + HighSatietyFatShiftFraction
	}
	return target
}

// DailyTargetFromProfile is the flat per-macro daily target derived directly
// from the profile (the "target" in remaining(m) = dailyTarget - consumed).
func DailyTargetFromProfile(p Profile) PerMealTarget {
	return PerMealTarget{
		Calories: float64(p.DailyCalories),
		ProteinG: p.DailyProteinG,
		FatG:     p.DailyFatG.Mid(),
		CarbsG:   p.DailyCarbsG,
	}
}
