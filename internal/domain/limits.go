package domain

// ResolvedUpperLimits is a mapping nutrient -> daily upper limit formed by
// overlaying per-user overrides on a demographic default table (§3, §6.4).
// A missing key, or a nil pointer value, both mean "no limit" — HC-4 and
// FC-3 skip the nutrient for this run.
type ResolvedUpperLimits map[string]*float64

// Get returns the resolved UL for a nutrient and whether one applies.
func (r ResolvedUpperLimits) Get(nutrient string) (limit float64, hasLimit bool) {
	p, ok := r[nutrient]
	if !ok || p == nil {
		return 0, false
	}
	return *p, true
}
