package reservation

import "time"

// MinDuration is the shortest reservation accepted.
const MinDuration = 15 * time.Minute

// Validate checks that a proposed window starts after now, ends after it starts
// and lasts at least MinDuration. Rules are checked in that order and the first
// failing one is returned.
func Validate(start, end, now time.Time) error {
	if !start.After(now) {
		return ErrPastStartTime
	}
	if !end.After(start) {
		return ErrEndBeforeStart
	}
	if end.Sub(start) < MinDuration {
		return ErrTooShort
	}
	return nil
}
