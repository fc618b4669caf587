package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/resource-booking-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"error_kind,omitempty"`
}

// NewErrorResponse builds the error body for err.
// Errors that are not AppErrors are reported as a generic internal error.
func NewErrorResponse(err error) (int, ErrorResponse) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Code, ErrorResponse{Error: appErr.Message, Kind: appErr.Kind}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it defaults to 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	code, body := NewErrorResponse(err)
	if code >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(code, body)
}
