package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"mealplansolver/internal/domain"
)

// ProfileStore handles database operations for user profiles, their
// schedules, and pinned assignments.
type ProfileStore struct {
	db DBTX
}

// NewProfileStore creates a new ProfileStore.
func NewProfileStore(db DBTX) *ProfileStore {
	return &ProfileStore{db: db}
}

// Get loads a complete profile — macro targets, schedule, and pinned
// assignments — by id.
func (s *ProfileStore) Get(ctx context.Context, id string) (domain.Profile, error) {
	const query = `
		SELECT daily_calories, daily_protein_g, daily_fat_g_min, daily_fat_g_max, daily_carbs_g,
		       max_daily_calories, demographic, excluded_ingredients, liked_foods,
		       upper_limit_overrides, micronutrient_targets
		FROM profiles
		WHERE id = $1
	`
	row := s.db.QueryRowContext(ctx, query, id)

	var p domain.Profile
	var maxDailyCalories sql.NullInt64
	var excludedJSON, likedJSON, ulJSON, microJSON []byte
	if err := row.Scan(
		&p.DailyCalories, &p.DailyProteinG, &p.DailyFatG.Min, &p.DailyFatG.Max, &p.DailyCarbsG,
		&maxDailyCalories, &p.Demographic, &excludedJSON, &likedJSON, &ulJSON, &microJSON,
	); err != nil {
		return domain.Profile{}, fmt.Errorf("store: loading profile %s: %w", id, err)
	}
	if maxDailyCalories.Valid {
		v := int(maxDailyCalories.Int64)
		p.MaxDailyCalories = &v
	}

	var excludedList, likedList []string
	if err := json.Unmarshal(excludedJSON, &excludedList); err != nil {
		return domain.Profile{}, fmt.Errorf("store: decoding excluded ingredients: %w", err)
	}
	if err := json.Unmarshal(likedJSON, &likedList); err != nil {
		return domain.Profile{}, fmt.Errorf("store: decoding liked foods: %w", err)
	}
	p.ExcludedIngredients = toSet(excludedList)
	p.LikedFoods = toSet(likedList)

	if err := json.Unmarshal(ulJSON, &p.UpperLimitOverrides); err != nil {
		return domain.Profile{}, fmt.Errorf("store: decoding upper limit overrides: %w", err)
	}
	if err := json.Unmarshal(microJSON, &p.MicronutrientTargets); err != nil {
		return domain.Profile{}, fmt.Errorf("store: decoding micronutrient targets: %w", err)
	}

	schedule, err := s.loadSchedule(ctx, id)
	if err != nil {
		return domain.Profile{}, err
	}
	p.Schedule = schedule

	pinned, err := s.loadPinnedAssignments(ctx, id)
	if err != nil {
		return domain.Profile{}, err
	}
	p.PinnedAssignments = pinned

	return p, nil
}

func (s *ProfileStore) loadSchedule(ctx context.Context, profileID string) (domain.Schedule, error) {
	const query = `
		SELECT day_index, slot_index, clock_time, busyness, meal_label
		FROM schedule_slots
		WHERE profile_id = $1
		ORDER BY day_index, slot_index
	`
	rows, err := s.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("store: loading schedule: %w", err)
	}
	defer rows.Close()

	var days []domain.Day
	for rows.Next() {
		var dayIndex, slotIndex, clockTime, busyness int
		var label string
		if err := rows.Scan(&dayIndex, &slotIndex, &clockTime, &busyness, &label); err != nil {
			return domain.Schedule{}, fmt.Errorf("store: scanning schedule slot: %w", err)
		}
		for len(days) <= dayIndex {
			days = append(days, domain.Day{})
		}
		days[dayIndex].Slots = append(days[dayIndex].Slots, domain.Slot{
			Time:      domain.ClockTime(clockTime),
			Busyness:  domain.BusynessLevel(busyness),
			MealLabel: label,
		})
	}
	if err := rows.Err(); err != nil {
		return domain.Schedule{}, err
	}

	const activityQuery = `
		SELECT day_index, start_time, end_time
		FROM activity_windows
		WHERE profile_id = $1
		ORDER BY day_index, window_index
	`
	activityRows, err := s.db.QueryContext(ctx, activityQuery, profileID)
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("store: loading activity windows: %w", err)
	}
	defer activityRows.Close()

	for activityRows.Next() {
		var dayIndex, start, end int
		if err := activityRows.Scan(&dayIndex, &start, &end); err != nil {
			return domain.Schedule{}, fmt.Errorf("store: scanning activity window: %w", err)
		}
		for len(days) <= dayIndex {
			days = append(days, domain.Day{})
		}
		days[dayIndex].Activities = append(days[dayIndex].Activities, domain.ActivityEntry{
			StartTime: domain.ClockTime(start),
			EndTime:   domain.ClockTime(end),
		})
	}
	if err := activityRows.Err(); err != nil {
		return domain.Schedule{}, err
	}

	return domain.Schedule{Days: days}, nil
}

func (s *ProfileStore) loadPinnedAssignments(ctx context.Context, profileID string) (map[domain.SlotKey]string, error) {
	const query = `
		SELECT day_index, slot_index, recipe_id
		FROM pinned_assignments
		WHERE profile_id = $1
	`
	rows, err := s.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("store: loading pinned assignments: %w", err)
	}
	defer rows.Close()

	out := map[domain.SlotKey]string{}
	for rows.Next() {
		var dayIndex, slotIndex int
		var recipeID string
		if err := rows.Scan(&dayIndex, &slotIndex, &recipeID); err != nil {
			return nil, fmt.Errorf("store: scanning pinned assignment: %w", err)
		}
		out[domain.SlotKey{DayIndex: dayIndex, SlotIndex: slotIndex}] = recipeID
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Save writes a profile, its schedule, and its pinned assignments, replacing
// any existing rows for the same id. Used by the seed tool, not by the
// solver itself (the solver only ever reads).
func (s *ProfileStore) Save(ctx context.Context, id string, p domain.Profile) error {
	excludedJSON, err := json.Marshal(fromSet(p.ExcludedIngredients))
	if err != nil {
		return fmt.Errorf("store: encoding excluded ingredients: %w", err)
	}
	likedJSON, err := json.Marshal(fromSet(p.LikedFoods))
	if err != nil {
		return fmt.Errorf("store: encoding liked foods: %w", err)
	}
	ulJSON, err := json.Marshal(p.UpperLimitOverrides)
	if err != nil {
		return fmt.Errorf("store: encoding upper limit overrides: %w", err)
	}
	microJSON, err := json.Marshal(p.MicronutrientTargets)
	if err != nil {
		return fmt.Errorf("store: encoding micronutrient targets: %w", err)
	}

	const upsertProfile = `
		INSERT INTO profiles (id, daily_calories, daily_protein_g, daily_fat_g_min, daily_fat_g_max,
		                       daily_carbs_g, max_daily_calories, demographic, excluded_ingredients,
		                       liked_foods, upper_limit_overrides, micronutrient_targets)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			daily_calories = EXCLUDED.daily_calories,
			daily_protein_g = EXCLUDED.daily_protein_g,
			daily_fat_g_min = EXCLUDED.daily_fat_g_min,
			daily_fat_g_max = EXCLUDED.daily_fat_g_max,
			daily_carbs_g = EXCLUDED.daily_carbs_g,
			max_daily_calories = EXCLUDED.max_daily_calories,
			demographic = EXCLUDED.demographic,
			excluded_ingredients = EXCLUDED.excluded_ingredients,
			liked_foods = EXCLUDED.liked_foods,
			upper_limit_overrides = EXCLUDED.upper_limit_overrides,
			micronutrient_targets = EXCLUDED.micronutrient_targets
	`
	_, err = s.db.ExecContext(ctx, upsertProfile, id, p.DailyCalories, p.DailyProteinG,
		p.DailyFatG.Min, p.DailyFatG.Max, p.DailyCarbsG, p.MaxDailyCalories, p.Demographic,
		excludedJSON, likedJSON, ulJSON, microJSON)
	if err != nil {
		return fmt.Errorf("store: saving profile %s: %w", id, err)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM schedule_slots WHERE profile_id = $1`, id); err != nil {
		return fmt.Errorf("store: clearing schedule for %s: %w", id, err)
	}
	const insertSlot = `
		INSERT INTO schedule_slots (profile_id, day_index, slot_index, clock_time, busyness, meal_label)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for d, day := range p.Schedule.Days {
		for si, slot := range day.Slots {
			if _, err := s.db.ExecContext(ctx, insertSlot, id, d, si, int(slot.Time), int(slot.Busyness), slot.MealLabel); err != nil {
				return fmt.Errorf("store: saving slot (%d,%d) for %s: %w", d, si, id, err)
			}
		}
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM activity_windows WHERE profile_id = $1`, id); err != nil {
		return fmt.Errorf("store: clearing activity windows for %s: %w", id, err)
	}
	const insertActivity = `
		INSERT INTO activity_windows (profile_id, day_index, window_index, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
	`
	for d, day := range p.Schedule.Days {
		for wi, window := range day.Activities {
			if _, err := s.db.ExecContext(ctx, insertActivity, id, d, wi, int(window.StartTime), int(window.EndTime)); err != nil {
				return fmt.Errorf("store: saving activity window (%d,%d) for %s: %w", d, wi, id, err)
			}
		}
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM pinned_assignments WHERE profile_id = $1`, id); err != nil {
		return fmt.Errorf("store: clearing pinned assignments for %s: %w", id, err)
	}
	const insertPin = `
		INSERT INTO pinned_assignments (profile_id, day_index, slot_index, recipe_id)
		VALUES ($1, $2, $3, $4)
	`
	for key, recipeID := range p.PinnedAssignments {
		if _, err := s.db.ExecContext(ctx, insertPin, id, key.DayIndex, key.SlotIndex, recipeID); err != nil {
			return fmt.Errorf("store: saving pinned assignment (%d,%d) for %s: %w", key.DayIndex, key.SlotIndex, id, err)
		}
	}

	return nil
}

func fromSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	return out
}

func toSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}
