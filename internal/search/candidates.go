package search

import (
	"mealplansolver/internal/constraints"
	"mealplansolver/internal/domain"
	"mealplansolver/internal/feasibility"
	"mealplansolver/internal/scoring"
)

// dayTotalTarget returns the profile's flat daily macro target, the thing
// remaining(m) subtracts consumed from (§3).
func (rs *runState) dayTotalTarget() domain.PerMealTarget {
	return domain.DailyTargetFromProfile(*rs.profile)
}

// previousDayNonWorkout returns the prior day's non-workout recipe ids, or
// nil on day 1 (HC-8 never restricts day 1).
func (rs *runState) previousDayNonWorkout(dayIndex int) map[string]bool {
	if dayIndex == 0 {
		return nil
	}
	prev, ok := rs.dailyTrackers[dayIndex-1]
	if !ok {
		return nil
	}
	return prev.NonWorkoutRecipeIDs
}

// generateAndScore builds the full ranked candidate list for a non-pinned
// decision point, composing Constraints + Feasibility (never Scoring) for
// filtering, then Scoring for ranking (§4.5). It returns the ranked list and
// a feasibility.Result recording the reason generation failed, if it did
// (empty post-filter set, or a future same-day slot left with zero
// optimistic eligibility).
func (rs *runState) generateAndScore(key domain.SlotKey) ([]scoring.Ranked, feasibility.Result) {
	day := rs.profile.Schedule.Days[key.DayIndex]
	slotCtx := rs.slotContexts[key]
	daily := rs.dailyTrackers[key.DayIndex]
	prevNonWorkout := rs.previousDayNonWorkout(key.DayIndex)
	dailyTarget := rs.dayTotalTarget()
	slotsRemainingAfter := len(day.Slots) - key.SlotIndex - 1

	var survivors []domain.Candidate
	var droppedForCalories []domain.Recipe

	for _, recipe := range rs.pool.Recipes {
		candidate := domain.CandidateFromRecipe(recipe)
		cctx := constraints.Context{
			Candidate:             candidate,
			Slot:                  slotCtx,
			DayIndex:              key.DayIndex,
			Daily:                 daily,
			Profile:               rs.profile,
			ResolvedUL:            rs.resolvedUL,
			PreviousDayNonWorkout: prevNonWorkout,
		}
		hcResult := constraints.EvaluateForGeneration(cctx, recipe.Ingredients)
		if !hcResult.Pass {
			if hcResult.Code == "HC-5" {
				droppedForCalories = append(droppedForCalories, recipe)
			}
			continue
		}

		fctx := feasibility.Context{
			Candidate:           candidate,
			Slot:                slotCtx,
			Profile:             rs.profile,
			Daily:               daily,
			ResolvedUL:          rs.resolvedUL,
			DailyTarget:         dailyTarget,
			SlotsRemainingInDay: slotsRemainingAfter,
		}
		if r := feasibility.FC1DailyCalorieFeasibility(fctx); !r.Pass {
			droppedForCalories = append(droppedForCalories, recipe)
			continue
		}
		if r := feasibility.FC2PerMacroFeasibility(fctx); !r.Pass {
			continue
		}
		if r := feasibility.FC3ULFeasibility(fctx); !r.Pass {
			continue
		}
		survivors = append(survivors, candidate)
	}

	if rs.opts.EnableCarbDownscaling && slotCtx.HasFlag(domain.ActivitySedentary) {
		survivors = append(survivors, rs.generateCarbDownscaleVariants(droppedForCalories, cctxBase(rs, key), dailyTarget, slotsRemainingAfter)...)
	}

	if r := feasibility.FC5PoolSufficiency(survivors); !r.Pass {
		return nil, r
	}

	if r := rs.checkFutureSlotOptimism(key); !r.Pass {
		return nil, r
	}

	return rs.rankCandidates(key, survivors), feasibility.Result{Pass: true}
}

func cctxBase(rs *runState, key domain.SlotKey) constraints.Context {
	return constraints.Context{
		Slot:                  rs.slotContexts[key],
		DayIndex:              key.DayIndex,
		Daily:                 rs.dailyTrackers[key.DayIndex],
		Profile:               rs.profile,
		ResolvedUL:            rs.resolvedUL,
		PreviousDayNonWorkout: rs.previousDayNonWorkout(key.DayIndex),
	}
}

// generateCarbDownscaleVariants implements §4.5's optional variant step: for
// each recipe dropped solely for calorie excess that carries a primary carb
// contribution, generate up to K variants with carb quantity scaled down by
// sigma per step, re-checking all HC and FC-1..FC-3 with recalculated
// nutrition.
func (rs *runState) generateCarbDownscaleVariants(dropped []domain.Recipe, base constraints.Context, dailyTarget domain.PerMealTarget, slotsRemainingAfter int) []domain.Candidate {
	var variants []domain.Candidate
	sigma := rs.opts.CarbDownscaleStepFraction
	k := rs.opts.CarbDownscaleMaxVariants
	if sigma <= 0 || k <= 0 || float64(k)*sigma >= 1.0 {
		return nil
	}

	for _, recipe := range dropped {
		contribution := recipe.PrimaryCarbContribution
		if contribution == nil || contribution.OriginalQuantityG <= 0 {
			continue
		}
		for i := 1; i <= k; i++ {
			factor := 1 - float64(i)*sigma
			q := contribution.OriginalQuantityG * factor
			if q <= 0 {
				break
			}
			scaledContribution := contribution.Nutrition.Scale(q / contribution.OriginalQuantityG)
			nutrition := recipe.Nutrition.Sub(contribution.Nutrition).Add(scaledContribution)
			variantIndex := i
			candidate := domain.Candidate{
				RecipeID:           recipe.ID,
				Name:               recipe.Name,
				CookingTimeMinutes: recipe.CookingTimeMinutes,
				Nutrition:          nutrition,
				VariantIndex:       &variantIndex,
			}

			cctx := base
			cctx.Candidate = candidate
			if r := constraints.EvaluateForGeneration(cctx, recipe.Ingredients); !r.Pass {
				continue
			}
			fctx := feasibility.Context{
				Candidate:           candidate,
				Slot:                base.Slot,
				Profile:             rs.profile,
				Daily:               base.Daily,
				ResolvedUL:          rs.resolvedUL,
				DailyTarget:         dailyTarget,
				SlotsRemainingInDay: slotsRemainingAfter,
			}
			if r := feasibility.FC1DailyCalorieFeasibility(fctx); !r.Pass {
				continue
			}
			if r := feasibility.FC2PerMacroFeasibility(fctx); !r.Pass {
				continue
			}
			if r := feasibility.FC3ULFeasibility(fctx); !r.Pass {
				continue
			}
			variants = append(variants, candidate)
		}
	}
	return variants
}

// checkFutureSlotOptimism implements FC-5's second half: for every
// not-yet-visited slot later in the same day, verify at least one recipe
// could be eligible under optimistic assumptions (no same-day exclusions:
// neither recipes already used today nor the pick being made now count).
func (rs *runState) checkFutureSlotOptimism(key domain.SlotKey) feasibility.Result {
	day := rs.profile.Schedule.Days[key.DayIndex]
	daily := rs.dailyTrackers[key.DayIndex]
	prevNonWorkout := rs.previousDayNonWorkout(key.DayIndex)

	var counts []int
	for s := key.SlotIndex + 1; s < len(day.Slots); s++ {
		futureKey := domain.SlotKey{DayIndex: key.DayIndex, SlotIndex: s}
		if _, pinned := rs.profile.PinnedAssignments[futureKey]; pinned {
			counts = append(counts, 1) // pinned slots are always "eligible" optimistically
			continue
		}
		futureSlotCtx := rs.slotContexts[futureKey]
		count := 0
		for _, recipe := range rs.pool.Recipes {
			candidate := domain.CandidateFromRecipe(recipe)
			cctx := constraints.Context{
				Candidate:             candidate,
				Slot:                  futureSlotCtx,
				DayIndex:              key.DayIndex,
				Daily:                 daily,
				Profile:               rs.profile,
				ResolvedUL:            rs.resolvedUL,
				PreviousDayNonWorkout: prevNonWorkout,
			}
			// Optimistic: only HC-1/HC-3/HC-8 apply (ingredient exclusion,
			// cooking time, and repetition are stable regardless of which
			// candidate is picked now); HC-2/HC-5 are skipped entirely, so
			// neither recipes already used today nor the current pick are
			// excluded here.
			if !constraints.HC1ExcludedIngredient(cctx, recipe.Ingredients).Pass {
				continue
			}
			if !constraints.HC3CookingTime(cctx).Pass {
				continue
			}
			if !constraints.HC8ConsecutiveRepetition(cctx).Pass {
				continue
			}
			count++
		}
		counts = append(counts, count)
	}
	return feasibility.FC5FutureSlotOptimism(counts)
}

func (rs *runState) rankCandidates(key domain.SlotKey, candidates []domain.Candidate) []scoring.Ranked {
	slotCtx := rs.slotContexts[key]
	daily := rs.dailyTrackers[key.DayIndex]
	dailyTarget := rs.dayTotalTarget()
	day := rs.profile.Schedule.Days[key.DayIndex]
	slotsLeft := len(day.Slots) - key.SlotIndex

	perMealTarget := domain.PerMealMacroTarget(daily, dailyTarget, slotsLeft, slotCtx)

	weekly := rs.weekly
	carryover := weekly.CarryoverNeeds(rs.profile.TrackedNutrients(), rs.profile.DailyRDI)
	adjusted := domain.AdjustedDailyTarget(*rs.profile, carryover, weekly.DaysRemaining())

	ranked := make([]scoring.Ranked, 0, len(candidates))
	for _, c := range candidates {
		sctx := scoring.Context{
			Candidate:           c,
			Slot:                slotCtx,
			Daily:               daily,
			Profile:             rs.profile,
			PerMealTarget:       perMealTarget,
			AdjustedDailyTarget: adjusted,
			CarryoverNeeds:      carryover,
		}
		recipe, _ := rs.pool.ByID(c.RecipeID)
		tieBreak := scoring.ComputeTieBreakInfo(c, recipe.Ingredients, rs.profile, daily, adjusted)
		ranked = append(ranked, scoring.Ranked{
			Candidate: c,
			Score:     scoring.Score(sctx),
			TieBreak:  tieBreak,
		})
	}
	return scoring.Rank(ranked)
}

