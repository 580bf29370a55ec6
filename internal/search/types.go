// Package search implements the orchestrator: decision ordering, candidate-
// list lifecycle, greedy pick, daily/weekly validation, backtracking,
// termination, and structured failure reporting (§4.6, §4.7, §7).
package search

import (
	"time"

	"mealplansolver/internal/domain"
	"mealplansolver/internal/feasibility"
	"mealplansolver/internal/instrument"
	"mealplansolver/internal/scoring"
)

// Options carries every tunable the core solver accepts; there is no
// environment-driven configuration inside this package (§5, §9) — callers
// thread every knob in explicitly.
type Options struct {
	// MaxAttempts bounds the total number of decision-point candidate
	// generations (TC-3); the attempt-limit policy is deferred to the
	// caller per spec.md's Open Question 2.
	MaxAttempts int
	// EnableCarbDownscaling turns on the §4.5 variant step.
	EnableCarbDownscaling     bool
	CarbDownscaleStepFraction float64
	CarbDownscaleMaxVariants  int
	// Sink receives write-only instrumentation; nil defaults to
	// instrument.NoopSink{}. Enabling it must never change the outcome.
	Sink instrument.Sink
}

// DefaultOptions returns the named constants this implementation commits to
// for carb downscaling (domain.DefaultCarbDownscale*) with carb downscaling
// disabled and a generous attempt limit.
func DefaultOptions() Options {
	return Options{
		MaxAttempts:               100000,
		EnableCarbDownscaling:     false,
		CarbDownscaleStepFraction: domain.DefaultCarbDownscaleStepFraction,
		CarbDownscaleMaxVariants:  domain.DefaultCarbDownscaleMaxVariants,
		Sink:                      instrument.NoopSink{},
	}
}

// FailureMode is one of the five structured failure taxonomy entries (§7).
type FailureMode string

const (
	FMPoolInsufficiency             FailureMode = "FM-1"
	FMDailyInfeasibility            FailureMode = "FM-2"
	FMPinnedConflict                FailureMode = "FM-3"
	FMWeeklyMicronutrientInfeasible FailureMode = "FM-4"
	FMSearchBudgetExhaustion        FailureMode = "FM-5"
)

// NutrientGap names an achieved-vs-target pair for a deficient nutrient.
type NutrientGap struct {
	Achieved float64
	Target   float64
}

// Report is the structured diagnostic payload attached to a failure (§7).
// Only the fields relevant to the FailureMode that produced it are
// populated; this mirrors the teacher's TacticalRecommendation pattern of a
// flat, mostly-optional struct rather than one type per failure mode.
type Report struct {
	Summary string

	// FM-1 Pool insufficiency
	OffendingSlot          domain.SlotKey
	EliminatingConstraints []string
	EligibleCountsBySlot   map[domain.SlotKey]int

	// FM-2 Daily nutritional infeasibility
	DayIndex           int
	MacroViolations    []string
	ClosestToValidPlan []domain.Assignment

	// FM-3 Pinned conflict
	PinnedKey                domain.SlotKey
	RemainingBudgetAfterPins domain.PerMealTarget
	PinClassification        string // "direct_violation" | "downstream"

	// FM-4 Weekly micronutrient infeasibility
	DeficientNutrients       map[string]NutrientGap
	DeficiencyClassification string // "marginal" | "structural"

	// FM-5 Search budget exhaustion
	Attempts        int
	Backtracks      int
	BestPlanSeen    []domain.Assignment
	NonExhaustive   bool
}

// TerminationCode is one of TC-1..TC-4 (§4.7).
type TerminationCode string

const (
	TCSuccess       TerminationCode = "TC-1"
	TCExhaustion    TerminationCode = "TC-2"
	TCAttemptLimit  TerminationCode = "TC-3"
	TCSingleDayMode TerminationCode = "TC-4"
)

// Outcome is the result sum type returned by Solve (§6, §9): exactly one of
// Success or Failure is meaningful, selected by the Success field.
type Outcome struct {
	Success bool

	// Populated on success.
	Plan           []domain.Assignment
	DailyTrackers  map[int]*domain.DailyTracker
	WeeklyTracker  *domain.WeeklyTracker
	SodiumAdvisory *scoring.Advisory
	Advisories     []scoring.Advisory

	// Populated on failure.
	FailureMode FailureMode
	Report      Report

	Termination TerminationCode
	Stats       instrument.Stats
}

// runState is the mutable state threaded through one Solve invocation. It
// is never shared across goroutines and the search never suspends, per §5.
type runState struct {
	profile       *domain.Profile
	pool          domain.RecipePool
	totalDays     int
	resolvedUL    domain.ResolvedUpperLimits
	opts          Options
	slotContexts  map[domain.SlotKey]domain.SlotContext
	maxAchievable feasibility.MaxAchievableIndex

	points []decisionPoint

	assignments   []*domain.Assignment // parallel to points, nil = unassigned
	dailyTrackers map[int]*domain.DailyTracker
	weekly        *domain.WeeklyTracker
	candidates    map[domain.SlotKey]*candidateList

	attempts   int
	backtracks int
	maxDepth   int
	depthSum   int
	depthCount int

	bestPlanLen     int
	bestAssignments []*domain.Assignment

	dayStartTimes map[int]time.Time
	dayRuntimes   map[int]time.Duration
	overallStart  time.Time
}

type decisionPoint struct {
	Key            domain.SlotKey
	Pinned         bool
	PinnedRecipeID string
}

type candidateList struct {
	ranked []scoring.Ranked
	cursor int
}
