package search

import "mealplansolver/internal/domain"

// undoPosition reverses the effects of the assignment committed at
// rs.points[idx], restoring tracker state bit-identically (invariant #5).
// Pinned positions are never touched (§4.7).
func (rs *runState) undoPosition(idx int) {
	point := rs.points[idx]
	if point.Pinned {
		return
	}
	a := rs.assignments[idx]
	if a == nil {
		return
	}
	daily := rs.dailyTrackers[point.Key.DayIndex]
	slotCtx := rs.slotContexts[point.Key]
	candidate := candidateFromAssignment(rs, *a)
	daily.Undo(candidate, slotCtx.IsWorkoutSlot, true)
	rs.assignments[idx] = nil
}

func candidateFromAssignment(rs *runState, a domain.Assignment) domain.Candidate {
	recipe, _ := rs.pool.ByID(a.RecipeID)
	if a.VariantIndex == nil {
		return domain.CandidateFromRecipe(recipe)
	}
	list := rs.candidates[domain.SlotKey{DayIndex: a.DayIndex, SlotIndex: a.SlotIndex}]
	if list != nil {
		for _, ranked := range list.ranked {
			if ranked.Candidate.RecipeID == a.RecipeID && ranked.Candidate.VariantIndex != nil && *ranked.Candidate.VariantIndex == *a.VariantIndex {
				return ranked.Candidate
			}
		}
	}
	return domain.CandidateFromRecipe(recipe)
}

// backtrackResult is what findBacktrackTarget reports.
type backtrackResult struct {
	found       bool
	targetIdx   int
	crossedDays bool
}

// findBacktrackTarget walks decision order backward from fromIdx-1 to the
// most recent non-pinned decision with a cursor pointing at an untried
// candidate, per §4.7 step 1.
func (rs *runState) findBacktrackTarget(fromIdx int) backtrackResult {
	for j := fromIdx - 1; j >= 0; j-- {
		point := rs.points[j]
		if point.Pinned {
			continue
		}
		list, ok := rs.candidates[point.Key]
		if !ok {
			continue
		}
		if list.cursor+1 < len(list.ranked) {
			return backtrackResult{found: true, targetIdx: j}
		}
	}
	return backtrackResult{found: false}
}

// backtrack performs the full procedure of §4.7: unwind every non-pinned
// assignment strictly between the target and fromIdx, subtract the target's
// own committed candidate, advance its cursor, and apply the day-boundary
// rule if the unwind crossed into an earlier day.
func (rs *runState) backtrack(fromIdx int) (newPos int, ok bool) {
	result := rs.findBacktrackTarget(fromIdx)
	if !result.found {
		return 0, false
	}
	target := result.targetIdx
	rs.backtracks++
	depth := fromIdx - target
	rs.depthSum += depth
	rs.depthCount++
	if depth > rs.maxDepth {
		rs.maxDepth = depth
	}
	rs.opts.Sink.RecordBacktrack(depth)

	// Step 2: unwind everything strictly between target and fromIdx, in
	// reverse decision order.
	for idx := fromIdx - 1; idx > target; idx-- {
		rs.undoPosition(idx)
	}

	// Step 3: undo the target's own committed candidate, advance its cursor.
	targetDay := rs.points[target].Key.DayIndex
	crossedDayBoundary := targetDay < rs.points[fromIdx-1].Key.DayIndex
	rs.undoPosition(target)
	list := rs.candidates[rs.points[target].Key]
	list.cursor++

	// A backtrack out of FC4Check or WeeklyValidate re-enters a day that was
	// already committed to the weekly tracker; take it back out so weekly
	// totals keep covering fully completed days only (invariant #3).
	for rs.weekly.DaysCompleted > targetDay {
		rs.weekly.UncommitLastDay()
	}

	if crossedDayBoundary {
		rs.applyDayBoundaryRule(rs.points[target].Key)
	}

	return target, true
}

// applyDayBoundaryRule implements §4.7's day-boundary rule: uncommit any
// fully-completed days after targetDay from the weekly tracker, discard
// daily trackers for days after targetDay, and invalidate candidate lists
// for every decision point on the day after targetDay and all later days —
// because HC-8 eligibility on those days depends on targetDay's
// non_workout_recipe_ids, which may change once targetDay's own assignment
// is retried forward.
func (rs *runState) applyDayBoundaryRule(target domain.SlotKey) {
	targetDay := target.DayIndex
	for rs.weekly.DaysCompleted > targetDay {
		rs.weekly.UncommitLastDay()
	}

	for day := targetDay + 1; day < rs.totalDays; day++ {
		delete(rs.dailyTrackers, day)
	}
	// Invalidate candidate lists for every later slot on the re-entered day
	// (target's own list is kept, with its cursor already advanced) and for
	// every later day, since their HC-8 eligibility depends on targetDay's
	// non_workout_recipe_ids, which may change once targetDay is retried.
	for key := range rs.candidates {
		if key.DayIndex > targetDay || (key.DayIndex == targetDay && key.SlotIndex > target.SlotIndex) {
			delete(rs.candidates, key)
		}
	}
	for idx, point := range rs.points {
		if point.Key.DayIndex > targetDay {
			rs.assignments[idx] = nil
		}
	}
}
