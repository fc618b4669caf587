package reservation

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/resource-booking-backend/internal/pkg/apperror"
)

// Error kinds reported to clients alongside the message.
const (
	KindPastStartTime   = "PastStartTime"
	KindEndBeforeStart  = "EndBeforeStart"
	KindTooShort        = "TooShort"
	KindMissingFields   = "MissingFields"
	KindUnknownResource = "UnknownResource"
	KindConflict        = "Conflict"
	KindNotFound        = "NotFound"
	KindStorageFailure  = "StorageFailure"
)

var (
	ErrPastStartTime   = apperror.New(http.StatusBadRequest, KindPastStartTime, "start time must be in the future")
	ErrEndBeforeStart  = apperror.New(http.StatusBadRequest, KindEndBeforeStart, "end time must be after start time")
	ErrTooShort        = apperror.New(http.StatusBadRequest, KindTooShort, "reservation duration must be at least 15 minutes")
	ErrMissingFields   = apperror.New(http.StatusBadRequest, KindMissingFields, "missing required fields")
	ErrUnknownResource = apperror.New(http.StatusBadRequest, KindUnknownResource, "unknown resource")
	ErrConflict        = apperror.New(http.StatusConflict, KindConflict, "reservation conflict detected")
	ErrNotFound        = apperror.New(http.StatusNotFound, KindNotFound, "reservation not found")
	ErrStorageFailure  = apperror.New(http.StatusInternalServerError, KindStorageFailure, "failed to access reservation storage")
)

// ErrOverlap is returned by a Repository whose storage layer rejected an insert
// because it overlaps an existing buffered window.
var ErrOverlap = apperror.New(http.StatusConflict, KindConflict, "reservation overlaps an existing reservation")

type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusOngoing  Status = "ongoing"
	StatusPast     Status = "past"
)

// Reservation binds a resource to a time window for a requester.
// StartTime is always strictly before EndTime.
type Reservation struct {
	ID          string
	Resource    string
	RequestedBy string
	StartTime   time.Time
	EndTime     time.Time
	CreatedAt   time.Time
}

// Window returns the reservation's [StartTime, EndTime) interval.
func (r *Reservation) Window() Window {
	return Window{Start: r.StartTime, End: r.EndTime}
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Expand widens the window by d on both sides.
func (w Window) Expand(d time.Duration) Window {
	return Window{Start: w.Start.Add(-d), End: w.End.Add(d)}
}

// Overlaps reports whether w and o share any instant.
// [a,b) and [c,d) overlap iff a < d and b > c.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && w.End.After(o.Start)
}

// Filter defines parameters for listing reservations.
type Filter struct {
	Resource  string
	Date      *time.Time // Only reservations starting on this calendar date
	Location  *time.Location
	Page      int // Page and PageSize <= 0 disable pagination
	PageSize  int
	SortBy    string
	SortOrder string
}

// Summary counts reservations by lifecycle status.
type Summary struct {
	Total      int
	Upcoming   int
	Ongoing    int
	Past       int
	ByResource map[string]int
}
