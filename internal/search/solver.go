package search

import (
	"fmt"
	"time"

	"mealplansolver/internal/constraints"
	"mealplansolver/internal/domain"
	"mealplansolver/internal/feasibility"
	"mealplansolver/internal/instrument"
	"mealplansolver/internal/scoring"
)

// Solve runs the full deterministic search (§4.6, §4.7) and returns exactly
// one Outcome. It is a pure function of its inputs plus wall-clock time
// (used only for Stats, never for decisions): calling it twice with the same
// profile, pool, resolvedUL, and opts reproduces the same plan bit-for-bit
// (invariant #6). A non-nil error means profile/pool failed structural
// validation and the search never started; it is distinct from the five
// structured failure modes carried inside a failed Outcome.
func Solve(profile domain.Profile, pool domain.RecipePool, resolvedUL domain.ResolvedUpperLimits, opts Options) (Outcome, error) {
	if err := profile.Validate(pool); err != nil {
		return Outcome{}, fmt.Errorf("invalid profile: %w", err)
	}
	if opts.Sink == nil {
		opts.Sink = instrument.NoopSink{}
	}

	rs := newRunState(profile, pool, resolvedUL, opts)

	if outcome, failed := rs.validatePinnedStatically(); failed {
		return outcome, nil
	}

	outcome := rs.run()
	rs.opts.Sink.Finish(rs.stats())
	return outcome, nil
}

// newRunState flattens the schedule into decision order, precomputes slot
// contexts and the max-achievable index, and seeds day 0's tracker.
func newRunState(profile domain.Profile, pool domain.RecipePool, resolvedUL domain.ResolvedUpperLimits, opts Options) *runState {
	totalDays := len(profile.Schedule.Days)
	slotContexts := domain.DeriveSlotContexts(profile.Schedule)

	var points []decisionPoint
	var slotCounts []int
	for d, day := range profile.Schedule.Days {
		slotCounts = append(slotCounts, len(day.Slots))
		for s := range day.Slots {
			key := domain.SlotKey{DayIndex: d, SlotIndex: s}
			recipeID, pinned := profile.PinnedAssignments[key]
			points = append(points, decisionPoint{Key: key, Pinned: pinned, PinnedRecipeID: recipeID})
		}
	}

	maxAchievable := feasibility.BuildMaxAchievableIndex(pool, profile.TrackedNutrients(), slotCounts)

	now := time.Now()
	return &runState{
		profile:       &profile,
		pool:          pool,
		totalDays:     totalDays,
		resolvedUL:    resolvedUL,
		opts:          opts,
		slotContexts:  slotContexts,
		maxAchievable: maxAchievable,
		points:        points,
		assignments:   make([]*domain.Assignment, len(points)),
		dailyTrackers: map[int]*domain.DailyTracker{0: domain.NewDailyTracker(len(profile.Schedule.Days[0].Slots))},
		weekly:        domain.NewWeeklyTracker(totalDays),
		candidates:    map[domain.SlotKey]*candidateList{},
		dayStartTimes: map[int]time.Time{0: now},
		dayRuntimes:   map[int]time.Duration{},
		overallStart:  now,
	}
}

// validatePinnedStatically runs the state-independent half of FM-3
// pre-validation (§7): a pinned recipe containing an excluded ingredient,
// exceeding its slot's cooking-time ceiling, or alone exceeding
// max_daily_calories can never be rescued by any choice elsewhere in the
// plan, so each is reported before the search begins ("direct_violation").
// The rest of HC-5 (accumulated same-day total) and HC-2/HC-8 depend on
// accumulated run state and are instead checked when the search actually
// reaches that decision point, and may still be resolved by backtracking
// into an earlier, non-pinned choice ("downstream").
func (rs *runState) validatePinnedStatically() (Outcome, bool) {
	for key, recipeID := range rs.profile.PinnedAssignments {
		recipe, _ := rs.pool.ByID(recipeID)
		slotCtx := rs.slotContexts[key]
		ctx := constraints.Context{
			Candidate: domain.CandidateFromRecipe(recipe),
			Slot:      slotCtx,
			DayIndex:  key.DayIndex,
			Profile:   rs.profile,
		}
		if r := constraints.HC1ExcludedIngredient(ctx, recipe.Ingredients); !r.Pass {
			return rs.pinnedConflictOutcome(key, r.Reason, "direct_violation"), true
		}
		if r := constraints.HC3CookingTime(ctx); !r.Pass {
			return rs.pinnedConflictOutcome(key, r.Reason, "direct_violation"), true
		}
		// A pinned recipe whose own calories already exceed the ceiling can
		// never be rescued by any other choice that day (every contribution
		// is non-negative), so this half of HC-5 is a direct violation too,
		// unlike the accumulated-total half checked dynamically below.
		if rs.profile.MaxDailyCalories != nil && recipe.Nutrition.Calories > float64(*rs.profile.MaxDailyCalories) {
			return rs.pinnedConflictOutcome(key, "pinned recipe alone exceeds max_daily_calories", "direct_violation"), true
		}
	}
	return Outcome{}, false
}

// run drives the §4.6 state machine to completion: EnterDecision/Select for
// each point in order, DailyValidate at the close of every day, FC4Check
// before opening the next day, and WeeklyValidate once all days are filled.
func (rs *runState) run() Outcome {
	pos := 0
	for {
		point := rs.points[pos]

		var newPos int
		var outcome Outcome
		var halt, committed bool
		if point.Pinned {
			newPos, outcome, halt, committed = rs.enterPinnedDecision(pos)
		} else {
			newPos, outcome, halt, committed = rs.enterOpenDecision(pos)
		}
		if halt {
			return outcome
		}
		if !committed {
			pos = newPos
			continue
		}

		pos = newPos
		if afterPos, afterOutcome, afterHalt := rs.afterCommit(pos); afterHalt {
			return afterOutcome
		} else {
			pos = afterPos
		}

		if pos == len(rs.points) {
			final, done := rs.finalizeIfComplete()
			if !done {
				continue
			}
			if final.Success {
				return final
			}
			target, ok := rs.backtrack(pos)
			if !ok {
				return final
			}
			pos = target
		}
	}
}

// enterPinnedDecision checks the dynamic half of HC-2/HC-5/HC-8 validity for
// a pinned slot against current run state and commits it. A dynamic
// violation is handed to backtracking rather than failing outright, since an
// earlier non-pinned choice may still be able to avoid the collision.
func (rs *runState) enterPinnedDecision(pos int) (newPos int, outcome Outcome, halt, committed bool) {
	point := rs.points[pos]
	recipe, _ := rs.pool.ByID(point.PinnedRecipeID)
	candidate := domain.CandidateFromRecipe(recipe)
	daily := rs.dailyTrackers[point.Key.DayIndex]
	slotCtx := rs.slotContexts[point.Key]

	ctx := constraints.Context{
		Candidate:             candidate,
		Slot:                  slotCtx,
		DayIndex:              point.Key.DayIndex,
		Daily:                 daily,
		Profile:               rs.profile,
		ResolvedUL:            rs.resolvedUL,
		PreviousDayNonWorkout: rs.previousDayNonWorkout(point.Key.DayIndex),
	}

	for _, r := range []constraints.Result{
		constraints.HC2Uniqueness(ctx),
		constraints.HC5CalorieCeiling(ctx),
		constraints.HC8ConsecutiveRepetition(ctx),
	} {
		if !r.Pass {
			target, ok := rs.backtrack(pos)
			if !ok {
				return 0, rs.pinnedConflictOutcome(point.Key, r.Reason, "downstream"), true, false
			}
			return target, Outcome{}, false, false
		}
	}

	rs.commit(pos, candidate)
	return pos + 1, Outcome{}, false, true
}

// enterOpenDecision generates (or reuses) the ranked candidate list for a
// non-pinned decision point, selects the candidate at the cursor, and
// commits it. On generation failure, or cursor exhaustion, it backtracks.
func (rs *runState) enterOpenDecision(pos int) (newPos int, outcome Outcome, halt, committed bool) {
	point := rs.points[pos]
	list, exists := rs.candidates[point.Key]
	if !exists {
		rs.attempts++
		rs.opts.Sink.RecordAttempt(point.Key.DayIndex, point.Key.SlotIndex)
		if rs.attempts > rs.opts.MaxAttempts {
			return 0, rs.attemptLimitOutcome(), true, false
		}

		ranked, result := rs.generateAndScore(point.Key)
		if !result.Pass {
			target, ok := rs.backtrack(pos)
			if !ok {
				return 0, rs.poolInsufficiencyOutcome(point.Key, result), true, false
			}
			return target, Outcome{}, false, false
		}
		list = &candidateList{ranked: ranked}
		rs.candidates[point.Key] = list
	}

	if list.cursor >= len(list.ranked) {
		target, ok := rs.backtrack(pos)
		if !ok {
			return 0, rs.poolInsufficiencyOutcome(point.Key, feasibility.Result{Code: "FC-5", Reason: "candidate list exhausted"}), true, false
		}
		return target, Outcome{}, false, false
	}

	rs.commit(pos, list.ranked[list.cursor].Candidate)
	return pos + 1, Outcome{}, false, true
}

// afterCommit runs DailyValidate and, if the day just closed passes, FC4Check
// before opening the next day's tracker. It returns the position to resume
// the outer loop at (unchanged unless a backtrack occurred).
func (rs *runState) afterCommit(pos int) (newPos int, outcome Outcome, halt bool) {
	lastPoint := rs.points[pos-1]
	day := lastPoint.Key.DayIndex
	daySlotCount := len(rs.profile.Schedule.Days[day].Slots)
	if lastPoint.Key.SlotIndex != daySlotCount-1 {
		return pos, Outcome{}, false
	}

	if failures := rs.dailyValidationFailures(day); len(failures) > 0 {
		target, ok := rs.backtrack(pos)
		if !ok {
			return 0, rs.dailyInfeasibilityOutcome(day, failures), true
		}
		return target, Outcome{}, false
	}

	elapsed := time.Since(rs.dayStartTimes[day])
	rs.dayRuntimes[day] = elapsed
	rs.opts.Sink.RecordDayComplete(day, elapsed)
	rs.weekly.CommitDay(rs.dailyTrackers[day].Consumed)

	if day+1 < rs.totalDays {
		nextSlotCount := len(rs.profile.Schedule.Days[day+1].Slots)
		if r := feasibility.FC4WeeklyMicronutrientFeasibility(rs.weekly, rs.profile, rs.totalDays, nextSlotCount, rs.maxAchievable); !r.Pass {
			target, ok := rs.backtrack(pos)
			if !ok {
				return 0, rs.weeklyInfeasibilityOutcome(), true
			}
			return target, Outcome{}, false
		}
		rs.dailyTrackers[day+1] = domain.NewDailyTracker(nextSlotCount)
		rs.dayStartTimes[day+1] = time.Now()
	}

	return pos, Outcome{}, false
}

// finalizeIfComplete runs WeeklyValidate once every decision point has been
// filled (§4.6, §9): single-day runs skip weekly validation entirely (TC-4).
func (rs *runState) finalizeIfComplete() (Outcome, bool) {
	if rs.totalDays == 1 {
		return rs.successOutcome(TCSingleDayMode), true
	}
	if deficits := rs.weeklyValidationDeficits(); len(deficits) > 0 {
		return rs.weeklyInfeasibilityOutcome(), true
	}
	return rs.successOutcome(TCSuccess), true
}

func (rs *runState) commit(pos int, candidate domain.Candidate) {
	point := rs.points[pos]
	slotCtx := rs.slotContexts[point.Key]
	daily := rs.dailyTrackers[point.Key.DayIndex]
	daily.Apply(candidate, slotCtx.IsWorkoutSlot)
	rs.assignments[pos] = &domain.Assignment{
		DayIndex:     point.Key.DayIndex,
		SlotIndex:    point.Key.SlotIndex,
		RecipeID:     candidate.RecipeID,
		VariantIndex: candidate.VariantIndex,
	}
	if pos+1 > rs.bestPlanLen {
		rs.bestPlanLen = pos + 1
		rs.bestAssignments = append([]*domain.Assignment(nil), rs.assignments[:pos+1]...)
	}
}

func (rs *runState) stats() instrument.Stats {
	avg := 0.0
	if rs.depthCount > 0 {
		avg = float64(rs.depthSum) / float64(rs.depthCount)
	}
	return instrument.Stats{
		TotalAttempts:         rs.attempts,
		Backtracks:            rs.backtracks,
		MaxDepth:              rs.maxDepth,
		AverageBacktrackDepth: avg,
		DayRuntimes:           rs.dayRuntimes,
		TotalRuntime:          time.Since(rs.overallStart),
	}
}

func (rs *runState) successOutcome(tc TerminationCode) Outcome {
	var advisories []scoring.Advisory
	target := rs.dayTotalTarget()
	for d := 0; d < rs.totalDays; d++ {
		if tracker, ok := rs.dailyTrackers[d]; ok {
			advisories = append(advisories, scoring.DailyGuardrails(tracker, target, rs.profile)...)
		}
	}
	sodium := scoring.SodiumAdvisory(rs.weekly, rs.profile, rs.totalDays)

	plan := make([]domain.Assignment, 0, len(rs.assignments))
	for _, a := range rs.assignments {
		if a != nil {
			plan = append(plan, *a)
		}
	}

	return Outcome{
		Success:        true,
		Plan:           plan,
		DailyTrackers:  rs.dailyTrackers,
		WeeklyTracker:  rs.weekly,
		SodiumAdvisory: sodium,
		Advisories:     advisories,
		Termination:    tc,
		Stats:          rs.stats(),
	}
}

func (rs *runState) bestSeenAssignments() []domain.Assignment {
	out := make([]domain.Assignment, 0, len(rs.bestAssignments))
	for _, a := range rs.bestAssignments {
		if a != nil {
			out = append(out, *a)
		}
	}
	return out
}

func (rs *runState) poolInsufficiencyOutcome(key domain.SlotKey, result feasibility.Result) Outcome {
	return Outcome{
		Success:     false,
		FailureMode: FMPoolInsufficiency,
		Report: Report{
			Summary:                fmt.Sprintf("no feasible candidate at day %d slot %d: %s", key.DayIndex, key.SlotIndex, result.Reason),
			OffendingSlot:          key,
			EliminatingConstraints: []string{result.Code + ": " + result.Reason},
		},
		Termination: TCExhaustion,
		Stats:       rs.stats(),
	}
}

func (rs *runState) dailyInfeasibilityOutcome(dayIndex int, failures []string) Outcome {
	return Outcome{
		Success:     false,
		FailureMode: FMDailyInfeasibility,
		Report: Report{
			Summary:            fmt.Sprintf("day %d cannot satisfy its nutritional targets: %v", dayIndex, failures),
			DayIndex:           dayIndex,
			MacroViolations:    failures,
			ClosestToValidPlan: rs.bestSeenAssignments(),
		},
		Termination: TCExhaustion,
		Stats:       rs.stats(),
	}
}

func (rs *runState) weeklyInfeasibilityOutcome() Outcome {
	deficits := rs.weeklyValidationDeficits()
	return Outcome{
		Success:     false,
		FailureMode: FMWeeklyMicronutrientInfeasible,
		Report: Report{
			Summary:                  "weekly micronutrient targets cannot be satisfied by any remaining plan",
			DeficientNutrients:       deficits,
			DeficiencyClassification: rs.classifyWeeklyDeficiency(deficits),
		},
		Termination: TCExhaustion,
		Stats:       rs.stats(),
	}
}

func (rs *runState) pinnedConflictOutcome(key domain.SlotKey, reason, classification string) Outcome {
	return Outcome{
		Success:     false,
		FailureMode: FMPinnedConflict,
		Report: Report{
			Summary:           fmt.Sprintf("pinned assignment at day %d slot %d cannot be honored: %s", key.DayIndex, key.SlotIndex, reason),
			PinnedKey:         key,
			PinClassification: classification,
		},
		Termination: TCExhaustion,
		Stats:       rs.stats(),
	}
}

func (rs *runState) attemptLimitOutcome() Outcome {
	return Outcome{
		Success:     false,
		FailureMode: FMSearchBudgetExhaustion,
		Report: Report{
			Summary:       "search exceeded its configured attempt budget before proving exhaustion",
			Attempts:      rs.attempts,
			Backtracks:    rs.backtracks,
			BestPlanSeen:  rs.bestSeenAssignments(),
			NonExhaustive: true,
		},
		Termination: TCAttemptLimit,
		Stats:       rs.stats(),
	}
}
