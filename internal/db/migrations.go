package db

import (
	"context"
	"fmt"
)

// RunMigrations applies every schema migration. Idempotent: safe to run on
// every startup.
func RunMigrations(ctx context.Context, d *DB) error {
	migrations := []string{
		createRecipesTable,
		createProfilesTable,
		createScheduleSlotsTable,
		createActivityWindowsTable,
		createPinnedAssignmentsTable,
		createSolveRunsTable,
	}
	for i, migration := range migrations {
		if _, err := d.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("db: migration %d failed: %w", i, err)
		}
	}
	return nil
}

const createRecipesTable = `
CREATE TABLE IF NOT EXISTS recipes (
	id                   TEXT PRIMARY KEY,
	name                 TEXT NOT NULL,
	cooking_time_minutes INT NOT NULL,
	ingredients          JSONB NOT NULL DEFAULT '[]',
	nutrition            JSONB NOT NULL,
	primary_carb_contribution JSONB,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const createProfilesTable = `
CREATE TABLE IF NOT EXISTS profiles (
	id                     TEXT PRIMARY KEY,
	daily_calories         INT NOT NULL,
	daily_protein_g        DOUBLE PRECISION NOT NULL,
	daily_fat_g_min        DOUBLE PRECISION NOT NULL,
	daily_fat_g_max        DOUBLE PRECISION NOT NULL,
	daily_carbs_g          DOUBLE PRECISION NOT NULL,
	max_daily_calories     INT,
	demographic            TEXT NOT NULL DEFAULT '',
	excluded_ingredients   JSONB NOT NULL DEFAULT '[]',
	liked_foods            JSONB NOT NULL DEFAULT '[]',
	upper_limit_overrides  JSONB NOT NULL DEFAULT '{}',
	micronutrient_targets  JSONB NOT NULL DEFAULT '{}',
	created_at             TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const createScheduleSlotsTable = `
CREATE TABLE IF NOT EXISTS schedule_slots (
	profile_id   TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
	day_index    INT NOT NULL,
	slot_index   INT NOT NULL,
	clock_time   INT NOT NULL,
	busyness     INT NOT NULL,
	meal_label   TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (profile_id, day_index, slot_index)
)`

const createActivityWindowsTable = `
CREATE TABLE IF NOT EXISTS activity_windows (
	profile_id   TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
	day_index    INT NOT NULL,
	window_index INT NOT NULL,
	start_time   INT NOT NULL,
	end_time     INT NOT NULL,
	PRIMARY KEY (profile_id, day_index, window_index)
)`

const createPinnedAssignmentsTable = `
CREATE TABLE IF NOT EXISTS pinned_assignments (
	profile_id  TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
	day_index   INT NOT NULL,
	slot_index  INT NOT NULL,
	recipe_id   TEXT NOT NULL REFERENCES recipes(id),
	PRIMARY KEY (profile_id, day_index, slot_index)
)`

// createSolveRunsTable records one Solve invocation's outcome for later
// inspection (cmd/solve writes one row per run; no code here reads them back).
const createSolveRunsTable = `
CREATE TABLE IF NOT EXISTS solve_runs (
	id           BIGSERIAL PRIMARY KEY,
	profile_id   TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
	success      BOOLEAN NOT NULL,
	failure_mode TEXT NOT NULL DEFAULT '',
	termination  TEXT NOT NULL DEFAULT '',
	report       JSONB NOT NULL DEFAULT '{}',
	stats        JSONB NOT NULL DEFAULT '{}',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`
