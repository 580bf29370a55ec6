package domain

// ============================================================================
// Macro and calorie tolerance bands
// ============================================================================
// Daily validation and FC-1/FC-2 feasibility both use a ±10% band around the
// per-macro daily target (§4.2, §4.6).
const (
	MacroToleranceFraction = 0.10
)

// ============================================================================
// Scoring component weights (§4.3)
// ============================================================================
// Score = 40/110*Nutrition + 30/110*Micronutrient + 15/110*Satiety +
//         15/110*Balance + 10/110*Schedule
const (
	WeightNutrition     = 40.0
	WeightMicronutrient = 30.0
	WeightSatiety       = 15.0
	WeightBalance       = 15.0
	WeightSchedule      = 10.0
	WeightTotal         = WeightNutrition + WeightMicronutrient + WeightSatiety + WeightBalance + WeightSchedule
)

// ============================================================================
// Activity-context macro shift constants (spec.md Open Question 1)
// ============================================================================
// §3 requires pre_workout to lower protein and raise carbs, post_workout to
// raise both, and high-satiety slots to raise calories/protein/fat, without
// fixing numeric factors. These are the named, regression-tested constants
// this implementation commits to, set in line with the sports-nutrition
// convention of a carb-forward pre-workout meal and a protein-and-carb
// replenishment window post-workout (cf. Kerksick et al. 2017, ISSN
// position stand on nutrient timing).
const (
	PreWorkoutProteinShiftFraction  = -0.15 // per-meal protein target, pre-workout
	PreWorkoutCarbShiftFraction     = 0.25  // per-meal carb target, pre-workout
	PostWorkoutProteinShiftFraction = 0.20  // per-meal protein target, post-workout
	PostWorkoutCarbShiftFraction    = 0.30  // per-meal carb target, post-workout

	HighSatietyCalorieShiftFraction = 0.15 // per-meal calorie target, high satiety
	HighSatietyProteinShiftFraction = 0.15 // per-meal protein target, high satiety
	HighSatietyFatShiftFraction     = 0.10 // per-meal fat target, high satiety
)

// ============================================================================
// Sodium advisory (§4.6 weekly validation)
// ============================================================================
const (
	SodiumNutrientName          = "sodium_mg"
	SodiumAdvisoryRDIMultiplier = 2.0
)

// ============================================================================
// Carb-downscaling variant step (§4.5)
// ============================================================================
const (
	DefaultCarbDownscaleStepFraction = 0.15 // sigma
	DefaultCarbDownscaleMaxVariants  = 3    // K, with K*sigma < 1.0
)
