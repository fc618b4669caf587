package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/nekogravitycat/resource-booking-backend/internal/clock"
	"github.com/nekogravitycat/resource-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/resource-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/resource-booking-backend/internal/reservation"
)

type Handler struct {
	service reservation.Service
	clock   clock.Clock
	loc     *time.Location
}

// NewHandler wires the reservation endpoints. loc is the location used for
// calendar-date filters.
func NewHandler(service reservation.Service, clk clock.Clock, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		service: service,
		clock:   clk,
		loc:     loc,
	}
}

func (h *Handler) List(c *gin.Context) {
	var req ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}
	req.ApplyDefaults()

	filter := reservation.Filter{
		Resource:  req.Resource,
		Date:      inLocation(req.Date, h.loc),
		Location:  h.loc,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}

	rs, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := newReservationResponses(rs, h.clock.Now())
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Stats(c *gin.Context) {
	var req StatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := reservation.Filter{
		Resource: req.Resource,
		Date:     inLocation(req.Date, h.loc),
		Location: h.loc,
	}

	summary, err := h.service.Stats(c.Request.Context(), filter, h.clock.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewStatsResponse(summary))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateReservationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		if domainErr := fromBindingError(err); domainErr != nil {
			response.Error(c, domainErr)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "error_kind": "InvalidInput", "details": err.Error()})
		return
	}

	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	req := reservation.CreateRequest{
		Resource:    body.Resource,
		RequestedBy: body.RequestedBy,
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
	}

	now := h.clock.Now()
	r, err := h.service.Create(c.Request.Context(), req, now)
	if err != nil {
		var conflictErr *reservation.ConflictError
		if errors.As(err, &conflictErr) {
			c.JSON(http.StatusConflict, NewConflictResponse(conflictErr, now))
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateReservationResponse{
		Message:     "reservation created successfully",
		Reservation: NewReservationResponse(r, now),
	})
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r, h.clock.Now()))
}

func (h *Handler) Cancel(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, CancelReservationResponse{Message: "reservation cancelled successfully"})
}

// fromBindingError maps a failed required tag onto ErrMissingFields, which the
// service would have returned for the same body.
func fromBindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return reservation.ErrMissingFields
		}
	}
	return nil
}
