// Package reference holds the static demographic nutrient upper-limit table
// the solver's resolved_ul input is built from (§3, §6.4): demographic
// defaults overlaid by a profile's per-user overrides.
package reference

import "mealplansolver/internal/domain"

// demographicUpperLimits gives the Tolerable Upper Intake Level for the
// nutrients this solver tracks, per demographic bucket. Values follow the
// US NIH Office of Dietary Supplements adult UL tables; demographics not
// listed here fall back to "adult".
var demographicUpperLimits = map[string]map[string]float64{
	"adult": {
		domain.SodiumNutrientName: 2300,
		"calcium_mg":               2500,
		"iron_mg":                  45,
		"zinc_mg":                  40,
		"vitamin_a_mcg":            3000,
		"vitamin_d_mcg":            100,
		"vitamin_c_mg":             2000,
		"folate_mcg":               1000,
		"magnesium_mg":             350, // UL applies to supplemental magnesium only
	},
	"pregnant": {
		domain.SodiumNutrientName: 2300,
		"calcium_mg":               2500,
		"iron_mg":                  45,
		"zinc_mg":                  40,
		"vitamin_a_mcg":            3000,
		"vitamin_d_mcg":            100,
		"vitamin_c_mg":             2000,
		"folate_mcg":               1000,
		"magnesium_mg":             350,
	},
	"adolescent": {
		domain.SodiumNutrientName: 2300,
		"calcium_mg":               3000,
		"iron_mg":                  45,
		"zinc_mg":                  34,
		"vitamin_a_mcg":            2800,
		"vitamin_d_mcg":            100,
		"vitamin_c_mg":             1800,
		"folate_mcg":               800,
		"magnesium_mg":             350,
	},
}

// ResolveUpperLimits overlays a profile's per-nutrient overrides onto its
// demographic's default table (§6.4): an override replaces the default for
// that nutrient; a nil override explicitly removes the limit (no ceiling for
// that nutrient in this run); a nutrient named only in the default table
// keeps its default.
func ResolveUpperLimits(demographic string, overrides map[string]*float64) domain.ResolvedUpperLimits {
	defaults, ok := demographicUpperLimits[demographic]
	if !ok {
		defaults = demographicUpperLimits["adult"]
	}

	out := make(domain.ResolvedUpperLimits, len(defaults)+len(overrides))
	for nutrient, limit := range defaults {
		v := limit
		out[nutrient] = &v
	}
	for nutrient, override := range overrides {
		out[nutrient] = override
	}
	return out
}
