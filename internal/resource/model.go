package resource

import (
	"net/http"

	"github.com/nekogravitycat/resource-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound  = apperror.New(http.StatusNotFound, "NotFound", "resource not found")
	ErrEmptyName = apperror.New(http.StatusBadRequest, "InvalidInput", "resource name cannot be empty")
	ErrDuplicate = apperror.New(http.StatusBadRequest, "InvalidInput", "resource names must be unique")
)

// DefaultNames is the catalog used when no override is configured.
var DefaultNames = []string{
	"4K Projector & Screen",
	"DSLR Camera Kit",
	"Portable Microphone Set",
	"Whiteboard & Markers Set",
	"Drawing Tablet (Wacom)",
	"Meeting Pod",
}

// Resource represents a bookable piece of shared equipment or space (e.g., Meeting Pod).
// Resources are identified by their name.
type Resource struct {
	Name string
}
