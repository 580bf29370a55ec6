package scoring

import "mealplansolver/internal/domain"

// AdvisorySeverity mirrors the teacher pack's non-blocking warning
// severity escalation (caution/critical), generalized here from training
// guardrails to meal-plan macro guardrails.
type AdvisorySeverity string

const (
	AdvisoryCaution  AdvisorySeverity = "caution"
	AdvisoryCritical AdvisorySeverity = "critical"
)

// AdvisoryCode names a specific guardrail condition.
type AdvisoryCode string

const (
	AdvisoryLowProteinDelivery AdvisoryCode = "LOW_PROTEIN_DELIVERY"
	AdvisoryLowSatietyFit      AdvisoryCode = "LOW_SATIETY_FIT"
	AdvisorySodiumExcess       AdvisoryCode = "SODIUM_EXCESS"
)

// Advisory is a non-blocking warning attached to a successful plan;
// advisories never cause backtracking or failure (§4.6, §7, SPEC_FULL §12).
type Advisory struct {
	Code     AdvisoryCode
	Severity AdvisorySeverity
	Message  string
}

// SodiumAdvisory checks the weekly sodium total against the §4.6 threshold:
// if sodium exceeds 2*daily_RDI*D, attach a warning without failing.
func SodiumAdvisory(weekly *domain.WeeklyTracker, profile *domain.Profile, totalDays int) *Advisory {
	rdi, ok := profile.DailyRDI(domain.SodiumNutrientName)
	if !ok {
		return nil
	}
	threshold := domain.SodiumAdvisoryRDIMultiplier * rdi * float64(totalDays)
	total := weekly.WeeklyTotals.Get(domain.SodiumNutrientName)
	if total <= threshold {
		return nil
	}
	return &Advisory{
		Code:     AdvisorySodiumExcess,
		Severity: AdvisoryCaution,
		Message:  "weekly sodium total exceeds twice the prorated RDI",
	}
}

// DailyGuardrails checks a completed day's tracker for advisory-only
// conditions that never block success: protein under-delivery relative to
// target (checked on every day), and fat landing at the extreme edge of its
// range rather than near the midpoint. Generalizes the teacher's
// ValidateMacroGuardrails from a body-weight/training context to a
// meal-plan day.
func DailyGuardrails(daily *domain.DailyTracker, target domain.PerMealTarget, profile *domain.Profile) []Advisory {
	var out []Advisory

	if target.ProteinG > 0 && daily.Consumed.ProteinG < target.ProteinG*(1-domain.MacroToleranceFraction) {
		out = append(out, Advisory{
			Code:     AdvisoryLowProteinDelivery,
			Severity: AdvisoryCaution,
			Message:  "day under-delivered protein relative to target",
		})
	}

	mid := profile.DailyFatG.Mid()
	span := (profile.DailyFatG.Max - profile.DailyFatG.Min) / 2
	if span > 0 && absFloat(daily.Consumed.FatG-mid) > span*0.9 {
		out = append(out, Advisory{
			Code:     AdvisoryLowSatietyFit,
			Severity: AdvisoryCaution,
			Message:  "day's fat total sits at the extreme edge of its range",
		})
	}

	return out
}
