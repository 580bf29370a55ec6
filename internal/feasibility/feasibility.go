// Package feasibility implements the forward-looking pruning checks
// FC-1..FC-5 (§4.2): conservative predicates that may let a doomed
// candidate through but must never prune one capable of leading to a valid
// plan.
package feasibility

import "mealplansolver/internal/domain"

// Result is the outcome of a feasibility check.
type Result struct {
	Pass   bool
	Code   string
	Reason string
}

func pass() Result { return Result{Pass: true} }

func fail(code, reason string) Result {
	return Result{Pass: false, Code: code, Reason: reason}
}

// Context bundles the inputs FC-1..FC-3 need: the tentative post-add state.
type Context struct {
	Candidate           domain.Candidate
	Slot                domain.SlotContext
	Profile             *domain.Profile
	Daily               *domain.DailyTracker // pre-add totals; checks add Candidate.Nutrition tentatively
	ResolvedUL          domain.ResolvedUpperLimits
	DailyTarget         domain.PerMealTarget // flat daily target from the profile
	SlotsRemainingInDay int                  // slots left AFTER this one in the day
}

// FC1DailyCalorieFeasibility fails fast on an outright ceiling breach, then
// verifies the remaining calorie budget can plausibly land the day's final
// total within [daily_calories*0.90, daily_calories*1.10].
func FC1DailyCalorieFeasibility(ctx Context) Result {
	tentative := ctx.Daily.Consumed.Calories + ctx.Candidate.Nutrition.Calories
	if ctx.Profile.MaxDailyCalories != nil && tentative > float64(*ctx.Profile.MaxDailyCalories) {
		return fail("FC-1", "exceeds max_daily_calories")
	}
	lower := ctx.DailyTarget.Calories * (1 - domain.MacroToleranceFraction)
	upper := ctx.DailyTarget.Calories * (1 + domain.MacroToleranceFraction)
	if !remainingSlotsCanReach(tentative, lower, upper, ctx.SlotsRemainingInDay) {
		return fail("FC-1", "remaining slots cannot plausibly land calories within tolerance")
	}
	return pass()
}

// FC2PerMacroFeasibility applies the same ±10% reachability logic to
// protein and carbs, and verifies fat stays reachable into [fat_min,
// fat_max].
func FC2PerMacroFeasibility(ctx Context) Result {
	proteinTentative := ctx.Daily.Consumed.ProteinG + ctx.Candidate.Nutrition.ProteinG
	proteinLower := ctx.DailyTarget.ProteinG * (1 - domain.MacroToleranceFraction)
	proteinUpper := ctx.DailyTarget.ProteinG * (1 + domain.MacroToleranceFraction)
	if !remainingSlotsCanReach(proteinTentative, proteinLower, proteinUpper, ctx.SlotsRemainingInDay) {
		return fail("FC-2", "remaining slots cannot plausibly land protein within tolerance")
	}

	carbsTentative := ctx.Daily.Consumed.CarbsG + ctx.Candidate.Nutrition.CarbsG
	carbsLower := ctx.DailyTarget.CarbsG * (1 - domain.MacroToleranceFraction)
	carbsUpper := ctx.DailyTarget.CarbsG * (1 + domain.MacroToleranceFraction)
	if !remainingSlotsCanReach(carbsTentative, carbsLower, carbsUpper, ctx.SlotsRemainingInDay) {
		return fail("FC-2", "remaining slots cannot plausibly land carbs within tolerance")
	}

	fatTentative := ctx.Daily.Consumed.FatG + ctx.Candidate.Nutrition.FatG
	fatMin, fatMax := dailyFatRangeFromTarget(ctx)
	if !remainingSlotsCanReach(fatTentative, fatMin, fatMax, ctx.SlotsRemainingInDay) {
		return fail("FC-2", "remaining slots cannot plausibly land fat within range")
	}
	return pass()
}

func dailyFatRangeFromTarget(ctx Context) (float64, float64) {
	// DailyTarget.FatG already carries the midpoint; the caller threads the
	// true [min,max] range through Profile.DailyFatG for this check.
	return ctx.Profile.DailyFatG.Min, ctx.Profile.DailyFatG.Max
}

// remainingSlotsCanReach is the conservative optimistic reachability test
// shared by FC-1/FC-2: assuming the remaining slots could contribute
// anywhere from 0 up to an unbounded amount each, the tentative total must
// not already be above upper, and there must be room left to still reach
// lower (zero-contribution from here on cannot already be below lower with
// no slots left to fix it).
func remainingSlotsCanReach(tentative, lower, upper float64, slotsRemaining int) bool {
	if tentative > upper {
		return false
	}
	if slotsRemaining == 0 {
		return tentative >= lower
	}
	return true
}

// FC3ULFeasibility fails if adding the candidate's contribution would put
// any UL-bound nutrient over its resolved limit.
func FC3ULFeasibility(ctx Context) Result {
	for nutrient := range ctx.ResolvedUL {
		limit, ok := ctx.ResolvedUL.Get(nutrient)
		if !ok {
			continue
		}
		tentative := ctx.Daily.Consumed.Get(nutrient) + ctx.Candidate.Nutrition.Get(nutrient)
		if tentative > limit {
			return fail("FC-3", "tentative total exceeds upper limit for "+nutrient)
		}
	}
	return pass()
}

// MaxAchievableIndex is the precomputed table feeding FC-4: for each
// (nutrient, M) pair that appears in the schedule, the sum of the M largest
// values of that nutrient across distinct recipes in the pool (§4.2).
// Indexed once per search; read-only thereafter.
type MaxAchievableIndex map[maxAchievableKey]float64

type maxAchievableKey struct {
	Nutrient string
	M        int
}

// BuildMaxAchievableIndex precomputes MaxAchievableIndex for every (n, M)
// combination of tracked nutrient n and distinct per-day slot count M that
// occurs in the schedule.
func BuildMaxAchievableIndex(pool domain.RecipePool, nutrients []string, slotCounts []int) MaxAchievableIndex {
	distinctM := map[int]bool{}
	for _, m := range slotCounts {
		distinctM[m] = true
	}

	idx := make(MaxAchievableIndex, len(nutrients)*len(distinctM))
	for _, nutrient := range nutrients {
		values := make([]float64, 0, len(pool.Recipes))
		for _, r := range pool.Recipes {
			values = append(values, r.Nutrition.Get(nutrient))
		}
		sortDescending(values)

		for m := range distinctM {
			idx[maxAchievableKey{Nutrient: nutrient, M: m}] = sumTopN(values, m)
		}
	}
	return idx
}

// Get returns the precomputed max-achievable bound for (nutrient, M).
func (idx MaxAchievableIndex) Get(nutrient string, m int) float64 {
	return idx[maxAchievableKey{Nutrient: nutrient, M: m}]
}

func sortDescending(values []float64) {
	for i := 1; i < len(values); i++ {
		for j := i; j > 0 && values[j] > values[j-1]; j-- {
			values[j], values[j-1] = values[j-1], values[j]
		}
	}
}

func sumTopN(sortedDescending []float64, n int) float64 {
	if n > len(sortedDescending) {
		n = len(sortedDescending)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += sortedDescending[i]
	}
	return sum
}

// FC4WeeklyMicronutrientFeasibility is evaluated at the start of day d>1,
// before any assignment on d (§4.2). For each tracked nutrient it compares
// the remaining deficit against the conservative upper bound of what the
// remaining days could still deliver.
func FC4WeeklyMicronutrientFeasibility(
	weekly *domain.WeeklyTracker,
	profile *domain.Profile,
	totalDays int,
	slotsOnDayD int,
	idx MaxAchievableIndex,
) Result {
	daysLeft := weekly.DaysRemaining()
	for _, nutrient := range profile.TrackedNutrients() {
		rdi, ok := profile.DailyRDI(nutrient)
		if !ok {
			continue
		}
		deficit := rdi*float64(totalDays) - weekly.WeeklyTotals.Get(nutrient)
		if deficit <= 0 {
			continue
		}
		bound := float64(daysLeft) * idx.Get(nutrient, slotsOnDayD)
		if deficit > bound {
			return fail("FC-4", "weekly deficit for "+nutrient+" exceeds achievable bound")
		}
	}
	return pass()
}

// FC5PoolSufficiency fails if no candidates survive HC/FC filtering at a
// decision point.
func FC5PoolSufficiency(candidates []domain.Candidate) Result {
	if len(candidates) == 0 {
		return fail("FC-5", "no eligible candidates at this decision point")
	}
	return pass()
}

// FC5FutureSlotOptimism fails if any later same-day slot would have zero
// eligible candidates under optimistic assumptions (no additional same-day
// exclusions beyond the current tentative assignment). eligibleCounts is
// the optimistic eligible count computed by the caller for every
// not-yet-visited slot later in the day.
func FC5FutureSlotOptimism(eligibleCounts []int) Result {
	for _, count := range eligibleCounts {
		if count == 0 {
			return fail("FC-5", "a later slot this day has zero optimistic eligibility")
		}
	}
	return pass()
}
