// Package scoring implements the composite cost function and deterministic
// tie-break cascade (§4.3, §4.4). It contains no constraint logic: every
// candidate it scores has already survived hard-constraint and feasibility
// filtering.
package scoring

import (
	"sort"

	"mealplansolver/internal/domain"
)

// Context bundles everything a scoring pass needs for one candidate at one
// decision point.
type Context struct {
	Candidate           domain.Candidate
	Slot                domain.SlotContext
	Daily               *domain.DailyTracker // running totals BEFORE this candidate
	Profile             *domain.Profile
	PerMealTarget       domain.PerMealTarget // activity-shifted per-meal target (§3)
	AdjustedDailyTarget map[string]float64   // nutrient -> adjusted RDI for today
	CarryoverNeeds      map[string]float64
}

// Score computes the composite score in [0, 100] (§4.3).
func Score(ctx Context) float64 {
	return (domain.WeightNutrition*NutritionMatch(ctx) +
		domain.WeightMicronutrient*MicronutrientMatch(ctx) +
		domain.WeightSatiety*SatietyMatch(ctx) +
		domain.WeightBalance*Balance(ctx) +
		domain.WeightSchedule*Schedule(ctx)) / domain.WeightTotal
}

// percentMatch is the shared sub-score curve used for calories/protein/
// carbs: max(0, 100*(1 - |actual-target|/(0.10*target))).
func percentMatch(actual, target float64) float64 {
	if target == 0 {
		if actual == 0 {
			return 100
		}
		return 0
	}
	tolerance := domain.MacroToleranceFraction * target
	if tolerance == 0 {
		tolerance = 1
	}
	diff := actual - target
	if diff < 0 {
		diff = -diff
	}
	score := 100 * (1 - diff/tolerance)
	if score < 0 {
		return 0
	}
	return score
}

// NutritionMatch is the equal-weighted average of the calories/protein/fat/
// carbs sub-scores against the per-meal target (§4.3). Fat favors keeping
// the day's running total projecting toward the midpoint of [fat_min,
// fat_max] rather than a fixed target.
func NutritionMatch(ctx Context) float64 {
	caloriesScore := percentMatch(ctx.Candidate.Nutrition.Calories, ctx.PerMealTarget.Calories)
	proteinScore := percentMatch(ctx.Candidate.Nutrition.ProteinG, ctx.PerMealTarget.ProteinG)
	carbsScore := percentMatch(ctx.Candidate.Nutrition.CarbsG, ctx.PerMealTarget.CarbsG)
	fatScore := fatProjectionScore(ctx)
	return (caloriesScore + proteinScore + fatScore + carbsScore) / 4
}

// fatProjectionScore rewards a candidate whose fat content moves the day's
// running total closer to the midpoint of [fat_min, fat_max], rather than
// scoring the candidate's fat in isolation — because fat has a range
// target, not a point target (§3, §4.3).
func fatProjectionScore(ctx Context) float64 {
	mid := ctx.Profile.DailyFatG.Mid()
	before := ctx.Daily.Consumed.FatG
	after := before + ctx.Candidate.Nutrition.FatG

	distBefore := absFloat(before - mid)
	distAfter := absFloat(after - mid)

	span := (ctx.Profile.DailyFatG.Max - ctx.Profile.DailyFatG.Min) / 2
	if span <= 0 {
		span = 1
	}
	improvement := (distBefore - distAfter) / span
	score := 50 + 50*improvement
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// MicronutrientMatch scores the candidate's contribution to each tracked
// nutrient relative to the remaining gap against the adjusted daily target,
// weighted up for nutrients carrying carryover debt; nutrients already at
// target contribute zero; larger relative gaps dominate (§4.3).
func MicronutrientMatch(ctx Context) float64 {
	tracked := ctx.Profile.TrackedNutrients()
	if len(tracked) == 0 {
		return 100
	}

	totalWeight := 0.0
	weightedScore := 0.0
	for _, nutrient := range tracked {
		target, ok := ctx.AdjustedDailyTarget[nutrient]
		if !ok || target <= 0 {
			continue
		}
		consumed := ctx.Daily.Consumed.Get(nutrient)
		remainingGap := target - consumed
		if remainingGap <= 0 {
			continue // already at or past target: contributes zero
		}
		contribution := ctx.Candidate.Nutrition.Get(nutrient)
		coverage := contribution / remainingGap
		if coverage > 1 {
			coverage = 1
		}

		weight := remainingGap / target // larger relative gap dominates
		weight += ctx.CarryoverNeeds[nutrient] / target

		weightedScore += coverage * 100 * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 100
	}
	return weightedScore / totalWeight
}

// SatietyMatch favors high fiber/protein/low calorie-density/high calories
// when satiety_requirement is high, and balanced mid-range macros when
// moderate (§4.3).
func SatietyMatch(ctx Context) float64 {
	n := ctx.Candidate.Nutrition
	density := 0.0
	if n.Calories > 0 {
		density = (n.ProteinG + n.CarbsG + n.FatG) / n.Calories
	}

	if ctx.Slot.SatietyRequirement == domain.SatietyHigh {
		fiberScore := clamp01(n.FiberG/10) * 100
		proteinScore := clamp01(n.ProteinG/40) * 100
		// density is macro grams per kcal; 0.25 g/kcal (all protein/carbs)
		// is the least calorie-dense mix, so more grams per kcal scores higher.
		densityScore := clamp01(density*4) * 100
		caloriesScore := clamp01(n.Calories/ctx.PerMealTarget.Calories) * 100
		return (fiberScore + proteinScore + densityScore + caloriesScore) / 4
	}

	// Moderate: reward recipes whose macro split is close to an even
	// calorie-weighted thirds split.
	total := n.ProteinG*4 + n.CarbsG*4 + n.FatG*9
	if total == 0 {
		return 50
	}
	proteinShare := n.ProteinG * 4 / total
	carbShare := n.CarbsG * 4 / total
	fatShare := n.FatG * 9 / total
	deviation := absFloat(proteinShare-1.0/3) + absFloat(carbShare-1.0/3) + absFloat(fatShare-1.0/3)
	score := 100 * (1 - deviation)
	if score < 0 {
		return 0
	}
	return score
}

// Balance rewards novelty across the day: diverse micronutrient coverage,
// diverse fat sources (approximated here via ingredient diversity proxies
// unavailable at this layer, so via distinct nutrient coverage), and
// recipes that correct the day's running macro trajectory back toward the
// per-meal target ratios (§4.3).
func Balance(ctx Context) float64 {
	novelty := microCoverageNovelty(ctx)
	correction := trajectoryCorrection(ctx)
	return (novelty + correction) / 2
}

func microCoverageNovelty(ctx Context) float64 {
	tracked := ctx.Profile.TrackedNutrients()
	if len(tracked) == 0 {
		return 100
	}
	covered := 0
	newlyCovered := 0
	for _, n := range tracked {
		if ctx.Candidate.Nutrition.Get(n) > 0 {
			covered++
			if ctx.Daily.Consumed.Get(n) == 0 {
				newlyCovered++
			}
		}
	}
	if covered == 0 {
		return 0
	}
	return 100 * float64(newlyCovered) / float64(covered)
}

// trajectoryCorrection rewards a candidate whose macro ratio pulls the
// day's running protein:carbs:fat ratio closer to the per-meal target
// ratio, rather than compounding an existing skew.
func trajectoryCorrection(ctx Context) float64 {
	target := ctx.PerMealTarget
	targetTotal := target.ProteinG + target.CarbsG + target.FatG
	if targetTotal <= 0 {
		return 50
	}
	targetProteinShare := target.ProteinG / targetTotal
	targetCarbShare := target.CarbsG / targetTotal

	consumed := ctx.Daily.Consumed
	after := consumed.Add(ctx.Candidate.Nutrition)

	beforeDeviation := macroShareDeviation(consumed, targetProteinShare, targetCarbShare)
	afterDeviation := macroShareDeviation(after, targetProteinShare, targetCarbShare)

	improvement := beforeDeviation - afterDeviation
	score := 50 + 200*improvement
	return clamp01(score/100) * 100
}

func macroShareDeviation(n domain.Nutrition, targetProteinShare, targetCarbShare float64) float64 {
	total := n.ProteinG + n.CarbsG + n.FatG
	if total <= 0 {
		return 0
	}
	proteinShare := n.ProteinG / total
	carbShare := n.CarbsG / total
	return absFloat(proteinShare-targetProteinShare) + absFloat(carbShare-targetCarbShare)
}

// Schedule gives full credit if cooking_time <= cooking_time_max,
// differentiates among fitting recipes by favoring shorter times closer to
// need, and for busyness 4 peaks near a reasonable cooking time instead of
// rewarding arbitrarily long recipes (§4.3).
const reasonableUnboundedCookingMinutes = 30

func Schedule(ctx Context) float64 {
	cookTime := float64(ctx.Candidate.CookingTimeMinutes)
	max := ctx.Slot.CookingTimeMaxMin
	if max < 0 {
		// Unbounded: peak near a reasonable cooking time, falling off on
		// either side rather than rewarding arbitrarily long recipes.
		diff := absFloat(cookTime - reasonableUnboundedCookingMinutes)
		score := 100 * (1 - diff/reasonableUnboundedCookingMinutes)
		if score < 0 {
			return 0
		}
		return score
	}
	if cookTime > float64(max) {
		return 0
	}
	if max == 0 {
		return 100
	}
	return 100 * (1 - cookTime/float64(max)*0.3)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// TieBreakInfo is the precomputed per-candidate data the tie-break cascade
// needs (§4.4): deficient-nutrient coverage count, deficit-reduction share,
// and liked-food match count.
type TieBreakInfo struct {
	RecipeID                  string
	DeficientNutrientsCovered int
	DeficitReductionShare     float64
	LikedFoodMatches          int
}

// ComputeTieBreakInfo builds the TieBreakInfo for one candidate.
func ComputeTieBreakInfo(candidate domain.Candidate, recipeIngredients []domain.Ingredient, profile *domain.Profile, daily *domain.DailyTracker, adjustedDailyTarget map[string]float64) TieBreakInfo {
	covered := 0
	reductionShare := 0.0
	for _, n := range profile.TrackedNutrients() {
		target, ok := adjustedDailyTarget[n]
		if !ok {
			continue
		}
		remainingGap := target - daily.Consumed.Get(n)
		if remainingGap <= 0 {
			continue
		}
		contribution := candidate.Nutrition.Get(n)
		if contribution > 0 {
			covered++
			reductionShare += contribution / remainingGap
		}
	}
	return TieBreakInfo{
		RecipeID:                  candidate.RecipeID,
		DeficientNutrientsCovered: covered,
		DeficitReductionShare:     reductionShare,
		LikedFoodMatches:          domain.Recipe{Ingredients: recipeIngredients}.LikedFoodMatches(profile.LikedFoods),
	}
}

// Ranked is one scored candidate carrying everything needed to sort it.
type Ranked struct {
	Candidate domain.Candidate
	Score     float64
	TieBreak  TieBreakInfo
}

// Rank stable-sorts candidates by score descending, then resolves ties via
// the deterministic cascade (§4.4): more deficient-nutrient coverage, then
// higher deficit-reduction share, then more liked-food matches, then
// lexicographically smaller recipe id.
func Rank(candidates []Ranked) []Ranked {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.TieBreak.DeficientNutrientsCovered != b.TieBreak.DeficientNutrientsCovered {
			return a.TieBreak.DeficientNutrientsCovered > b.TieBreak.DeficientNutrientsCovered
		}
		if a.TieBreak.DeficitReductionShare != b.TieBreak.DeficitReductionShare {
			return a.TieBreak.DeficitReductionShare > b.TieBreak.DeficitReductionShare
		}
		if a.TieBreak.LikedFoodMatches != b.TieBreak.LikedFoodMatches {
			return a.TieBreak.LikedFoodMatches > b.TieBreak.LikedFoodMatches
		}
		return a.Candidate.RecipeID < b.Candidate.RecipeID
	})
	return candidates
}
