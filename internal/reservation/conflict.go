package reservation

import (
	"fmt"
	"strings"
	"time"
)

// Buffer is the handover margin kept free before and after every reservation.
const Buffer = 10 * time.Minute

const conflictTimeLayout = "Jan 2, 3:04 PM"

// ConflictResult is the outcome of a conflict scan.
type ConflictResult struct {
	HasConflict bool
	Conflicting []*Reservation
	Message     string
}

// ConflictError rejects a reservation that collides with existing ones.
// It unwraps to ErrConflict.
type ConflictError struct {
	Result ConflictResult
}

func (e *ConflictError) Error() string {
	return e.Result.Message
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// CheckConflicts returns every reservation in existing for resource whose
// buffered window overlaps [start, end). The reservation with id excludeID is
// skipped when excludeID is not empty.
func CheckConflicts(resource string, start, end time.Time, existing []*Reservation, excludeID string) ConflictResult {
	proposed := Window{Start: start, End: end}

	var conflicting []*Reservation
	for _, r := range existing {
		if r.Resource != resource {
			continue
		}
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		if proposed.Overlaps(r.Window().Expand(Buffer)) {
			conflicting = append(conflicting, r)
		}
	}

	if len(conflicting) == 0 {
		return ConflictResult{}
	}

	return ConflictResult{
		HasConflict: true,
		Conflicting: conflicting,
		Message:     conflictMessage(conflicting, start.Location()),
	}
}

func conflictMessage(conflicting []*Reservation, loc *time.Location) string {
	ranges := make([]string, len(conflicting))
	for i, r := range conflicting {
		ranges[i] = formatTime(r.StartTime, loc) + " - " + formatTime(r.EndTime, loc)
	}
	return fmt.Sprintf(
		"Conflicts with existing reservations (including %d-minute buffer): %s",
		int(Buffer/time.Minute),
		strings.Join(ranges, ", "),
	)
}

func formatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(conflictTimeLayout)
}
