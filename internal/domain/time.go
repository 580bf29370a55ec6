package domain

// ClockTime is a wall-clock time of day expressed as minutes since midnight,
// in [0, 1440). Using an int instead of time.Time keeps slot-gap arithmetic
// exact and free of timezone/location concerns, which matters for bit-for-bit
// reproducibility of the search.
type ClockTime int

const minutesPerDay = 24 * 60

// GapTo returns the number of minutes from t forward to next, wrapping past
// midnight if next <= t (an overnight gap).
func (t ClockTime) GapTo(next ClockTime) int {
	if next > t {
		return int(next - t)
	}
	return minutesPerDay - int(t) + int(next)
}
