// Package constraints implements the hard-constraint predicate module
// (HC-1..HC-8): pure functions over (recipe_or_variant, slot, day, state,
// profile, resolved_ul) that return allow/deny with no mutation and no
// scoring.
package constraints

import "mealplansolver/internal/domain"

// Context bundles the inputs every hard constraint reads. It is built once
// per candidate evaluation by the search orchestrator.
type Context struct {
	Candidate  domain.Candidate
	Slot       domain.SlotContext
	DayIndex   int
	Daily      *domain.DailyTracker
	Profile    *domain.Profile
	ResolvedUL domain.ResolvedUpperLimits
	// PreviousDayNonWorkout is the prior day's non_workout_recipe_ids, or nil
	// on day 1 (HC-8 never restricts day 1, §8).
	PreviousDayNonWorkout map[string]bool
}

// Result is the outcome of evaluating one hard constraint.
type Result struct {
	Pass   bool
	Code   string
	Reason string
}

func pass() Result { return Result{Pass: true} }

func deny(code, reason string) Result {
	return Result{Pass: false, Code: code, Reason: reason}
}

// HC1ExcludedIngredient rejects a candidate containing any excluded
// ingredient. Variants share nutrition recalculation but never change
// ingredient composition, so this check is identical for base recipes and
// variants.
func HC1ExcludedIngredient(ctx Context, ingredients []domain.Ingredient) Result {
	for _, ing := range ingredients {
		if ctx.Profile.ExcludedIngredients[ing.NormalizedName] {
			return deny("HC-1", "contains excluded ingredient: "+ing.NormalizedName)
		}
	}
	return pass()
}

// HC2Uniqueness rejects a candidate whose parent recipe id was already used
// this day.
func HC2Uniqueness(ctx Context) Result {
	if ctx.Daily.UsedRecipeIDs[ctx.Candidate.RecipeID] {
		return deny("HC-2", "recipe already used this day: "+ctx.Candidate.RecipeID)
	}
	return pass()
}

// HC3CookingTime rejects a candidate whose cooking time exceeds the slot's
// ceiling (unbounded for busyness 4).
func HC3CookingTime(ctx Context) Result {
	max := ctx.Slot.CookingTimeMaxMin
	if max < 0 {
		return pass()
	}
	if ctx.Candidate.CookingTimeMinutes > max {
		return deny("HC-3", "cooking time exceeds slot ceiling")
	}
	return pass()
}

// HC4DailyUpperLimit rejects a candidate if the day's already-committed
// totals strictly exceed a resolved UL — equality is allowed, only strict
// excess fails. This is a defensive invariant check: FC-3 is the mechanism
// that should prevent this from ever triggering during generation, but the
// predicate is exposed so daily validation can reuse it directly.
func HC4DailyUpperLimit(ctx Context) Result {
	for nutrient := range ctx.ResolvedUL {
		limit, ok := ctx.ResolvedUL.Get(nutrient)
		if !ok {
			continue
		}
		if ctx.Daily.Consumed.Get(nutrient) > limit {
			return deny("HC-4", "daily total exceeds upper limit for "+nutrient)
		}
	}
	return pass()
}

// HC5CalorieCeiling rejects a candidate once the day's running calories,
// including this candidate, exceed MaxDailyCalories.
func HC5CalorieCeiling(ctx Context) Result {
	if ctx.Profile.MaxDailyCalories == nil {
		return pass()
	}
	if ctx.Daily.Consumed.Calories+ctx.Candidate.Nutrition.Calories > float64(*ctx.Profile.MaxDailyCalories) {
		return deny("HC-5", "daily calories would exceed max_daily_calories")
	}
	return pass()
}

// HC6PinnedSlot verifies a pinned slot's mandatory recipe id is the one
// being evaluated; pinned slots never consider alternatives, so this is
// only used to validate the pin itself pre-search (FM-3), not as a
// candidate-generation filter.
func HC6PinnedSlot(pinnedRecipeID, candidateRecipeID string) Result {
	if pinnedRecipeID != candidateRecipeID {
		return deny("HC-6", "candidate is not the pinned recipe")
	}
	return pass()
}

// HC8ConsecutiveRepetition rejects a non-workout candidate whose parent
// recipe id was used in a non-workout slot on the immediately preceding day.
// Never applies on day 1 or to workout slots.
func HC8ConsecutiveRepetition(ctx Context) Result {
	if ctx.DayIndex == 0 || ctx.Slot.IsWorkoutSlot || ctx.PreviousDayNonWorkout == nil {
		return pass()
	}
	if ctx.PreviousDayNonWorkout[ctx.Candidate.RecipeID] {
		return deny("HC-8", "recipe repeats non-workout slot from previous day")
	}
	return pass()
}

// EvaluateForGeneration runs exactly the subset and order specified for
// candidate generation (§4.5): HC-1, HC-2, HC-3, HC-5, HC-8. HC-4 is a
// defensive invariant elsewhere (reused by daily validation); HC-6 is
// handled structurally by the orchestrator bypassing generation entirely
// for pinned slots; HC-7 is not a predicate (it is the ordering guarantee
// that scoring never runs before HC/FC filtering).
func EvaluateForGeneration(ctx Context, ingredients []domain.Ingredient) Result {
	if r := HC1ExcludedIngredient(ctx, ingredients); !r.Pass {
		return r
	}
	if r := HC2Uniqueness(ctx); !r.Pass {
		return r
	}
	if r := HC3CookingTime(ctx); !r.Pass {
		return r
	}
	if r := HC5CalorieCeiling(ctx); !r.Pass {
		return r
	}
	if r := HC8ConsecutiveRepetition(ctx); !r.Pass {
		return r
	}
	return pass()
}
