package domain

import "errors"

// Profile validation errors.
var (
	ErrInvalidDailyCalories = errors.New("domain: daily_calories must be positive")
	ErrInvalidProteinTarget = errors.New("domain: daily_protein_g must be positive")
	ErrInvalidFatRange      = errors.New("domain: daily_fat_g range must satisfy 0 <= min <= max")
	ErrEmptySchedule        = errors.New("domain: schedule must have between 1 and 7 days")
	ErrEmptyDaySlots        = errors.New("domain: every day must have between 1 and 8 slots")
	ErrInvalidBusyness      = errors.New("domain: slot busyness must be one of 1,2,3,4")
	ErrPinnedUnknownRecipe  = errors.New("domain: pinned assignment references an unknown recipe id")
	ErrPinnedOutOfRange     = errors.New("domain: pinned assignment references a day or slot outside the schedule")
)

// Recipe pool errors.
var (
	ErrDuplicateRecipeID = errors.New("domain: recipe pool contains a duplicate recipe id")
	ErrEmptyRecipePool   = errors.New("domain: recipe pool must not be empty")
)
