package http

import (
	"strings"
	"time"

	"github.com/nekogravitycat/resource-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/resource-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/resource-booking-backend/internal/reservation"
)

const dateLayout = "2006-01-02"

// ListReservationsRequest defines query parameters for listing reservations.
type ListReservationsRequest struct {
	request.ListParams
	Resource string     `form:"resource"`
	Date     *time.Time `form:"date" time_format:"2006-01-02"`
	SortBy   string     `form:"sort_by" binding:"omitempty,oneof=start_time end_time created_at"`
}

// Validate performs custom validation for ListReservationsRequest.
func (r *ListReservationsRequest) Validate() error {
	r.Resource = strings.TrimSpace(r.Resource)
	return nil
}

// StatsRequest defines query parameters for the reservation summary.
type StatsRequest struct {
	Resource string     `form:"resource"`
	Date     *time.Time `form:"date" time_format:"2006-01-02"`
}

type ReservationResponse struct {
	ID          string    `json:"id"`
	Resource    string    `json:"resource"`
	RequestedBy string    `json:"requested_by"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewReservationResponse(r *reservation.Reservation, now time.Time) ReservationResponse {
	return ReservationResponse{
		ID:          r.ID,
		Resource:    r.Resource,
		RequestedBy: r.RequestedBy,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Status:      string(r.Status(now)),
		CreatedAt:   r.CreatedAt,
	}
}

func newReservationResponses(rs []*reservation.Reservation, now time.Time) []ReservationResponse {
	items := make([]ReservationResponse, len(rs))
	for i, r := range rs {
		items[i] = NewReservationResponse(r, now)
	}
	return items
}

type CreateReservationBody struct {
	Resource    string    `json:"resource" binding:"required"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	RequestedBy string    `json:"requested_by" binding:"required,max=200"`
}

// Validate performs custom validation for CreateReservationBody.
// Time rules are left to the service so they are checked in a fixed order against the clock.
func (r *CreateReservationBody) Validate() error {
	if strings.TrimSpace(r.RequestedBy) == "" {
		return reservation.ErrMissingFields
	}
	return nil
}

type CreateReservationResponse struct {
	Message     string              `json:"message"`
	Reservation ReservationResponse `json:"reservation"`
}

// ConflictResponse is returned with 409 and lists every reservation the request collided with.
type ConflictResponse struct {
	response.ErrorResponse
	Message                 string                `json:"message"`
	ConflictingReservations []ReservationResponse `json:"conflicting_reservations"`
}

func NewConflictResponse(e *reservation.ConflictError, now time.Time) ConflictResponse {
	return ConflictResponse{
		ErrorResponse: response.ErrorResponse{
			Error: reservation.ErrConflict.Message,
			Kind:  reservation.ErrConflict.Kind,
		},
		Message:                 e.Result.Message,
		ConflictingReservations: newReservationResponses(e.Result.Conflicting, now),
	}
}

type CancelReservationResponse struct {
	Message string `json:"message"`
}

type StatsResponse struct {
	Total      int            `json:"total"`
	Upcoming   int            `json:"upcoming"`
	Ongoing    int            `json:"ongoing"`
	Past       int            `json:"past"`
	ByResource map[string]int `json:"by_resource"`
}

func NewStatsResponse(s reservation.Summary) StatsResponse {
	return StatsResponse{
		Total:      s.Total,
		Upcoming:   s.Upcoming,
		Ongoing:    s.Ongoing,
		Past:       s.Past,
		ByResource: s.ByResource,
	}
}

// inLocation reinterprets the calendar date of d in loc.
func inLocation(d *time.Time, loc *time.Location) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return &t
}
