package search

import (
	"fmt"

	"mealplansolver/internal/domain"
)

// dailyValidationFailures returns the list of violated constraints for a
// completed day (§4.6): calories/protein/carbs within ±10%, fat within
// range, every UL obeyed, max_daily_calories obeyed if set. An empty slice
// means the day passes.
func (rs *runState) dailyValidationFailures(dayIndex int) []string {
	var failures []string
	tracker := rs.dailyTrackers[dayIndex]
	target := rs.dayTotalTarget()

	if !withinTolerance(tracker.Consumed.Calories, target.Calories) {
		failures = append(failures, "calories outside ±10% of target")
	}
	if !withinTolerance(tracker.Consumed.ProteinG, target.ProteinG) {
		failures = append(failures, "protein outside ±10% of target")
	}
	if !withinTolerance(tracker.Consumed.CarbsG, target.CarbsG) {
		failures = append(failures, "carbs outside ±10% of target")
	}
	if !rs.profile.DailyFatG.Contains(tracker.Consumed.FatG) {
		failures = append(failures, "fat outside [fat_min, fat_max]")
	}
	for nutrient := range rs.resolvedUL {
		limit, ok := rs.resolvedUL.Get(nutrient)
		if !ok {
			continue
		}
		if tracker.Consumed.Get(nutrient) > limit {
			failures = append(failures, fmt.Sprintf("%s exceeds upper limit", nutrient))
		}
	}
	if rs.profile.MaxDailyCalories != nil && tracker.Consumed.Calories > float64(*rs.profile.MaxDailyCalories) {
		failures = append(failures, "calories exceed max_daily_calories")
	}
	return failures
}

func withinTolerance(actual, target float64) bool {
	if target == 0 {
		return actual == 0
	}
	lower := target * (1 - domain.MacroToleranceFraction)
	upper := target * (1 + domain.MacroToleranceFraction)
	return actual >= lower && actual <= upper
}

// weeklyValidationDeficits returns, for every tracked micronutrient whose
// weekly total is below daily_RDI*D, the achieved/target gap (§4.6).
func (rs *runState) weeklyValidationDeficits() map[string]NutrientGap {
	deficits := map[string]NutrientGap{}
	for _, nutrient := range rs.profile.TrackedNutrients() {
		rdi, ok := rs.profile.DailyRDI(nutrient)
		if !ok {
			continue
		}
		target := rdi * float64(rs.totalDays)
		achieved := rs.weekly.WeeklyTotals.Get(nutrient)
		if achieved < target {
			deficits[nutrient] = NutrientGap{Achieved: achieved, Target: target}
		}
	}
	return deficits
}

// normalizedDeviation is a day's total normalized deviation: the sum of each
// macro's fractional distance outside its tolerance band. Nothing in the
// search calls it; FM-2's ClosestToValidPlan is the longest prefix seen.
func (rs *runState) normalizedDeviation(dayIndex int) float64 {
	tracker := rs.dailyTrackers[dayIndex]
	target := rs.dayTotalTarget()
	deviation := 0.0
	deviation += fractionalExcess(tracker.Consumed.Calories, target.Calories)
	deviation += fractionalExcess(tracker.Consumed.ProteinG, target.ProteinG)
	deviation += fractionalExcess(tracker.Consumed.CarbsG, target.CarbsG)
	if !rs.profile.DailyFatG.Contains(tracker.Consumed.FatG) {
		mid := rs.profile.DailyFatG.Mid()
		span := (rs.profile.DailyFatG.Max - rs.profile.DailyFatG.Min) / 2
		if span > 0 {
			deviation += absF(tracker.Consumed.FatG-mid) / span
		}
	}
	return deviation
}

func fractionalExcess(actual, target float64) float64 {
	if target == 0 {
		return 0
	}
	lower := target * (1 - domain.MacroToleranceFraction)
	upper := target * (1 + domain.MacroToleranceFraction)
	if actual < lower {
		return (lower - actual) / target
	}
	if actual > upper {
		return (actual - upper) / target
	}
	return 0
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// classifyWeeklyDeficiency decides "marginal" vs "structural" (§7 FM-4): a
// deficiency is structural if no achievable combination in the pool could
// have closed the gap (the weekly target exceeds what BuildMaxAchievableIndex
// says the pool could ever deliver across the run), marginal otherwise.
func (rs *runState) classifyWeeklyDeficiency(deficits map[string]NutrientGap) string {
	for nutrient, gap := range deficits {
		maxPerDay := 0.0
		for _, day := range rs.profile.Schedule.Days {
			m := rs.maxAchievable.Get(nutrient, len(day.Slots))
			if m > maxPerDay {
				maxPerDay = m
			}
		}
		totalAchievable := maxPerDay * float64(rs.totalDays)
		if totalAchievable < gap.Target {
			return "structural"
		}
	}
	return "marginal"
}
