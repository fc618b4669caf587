package http

import (
	"github.com/nekogravitycat/resource-booking-backend/internal/resource"
)

type ResourceResponse struct {
	Name string `json:"name"`
}

func NewResponse(r *resource.Resource) ResourceResponse {
	return ResourceResponse{
		Name: r.Name,
	}
}

// ListResourcesResponse wraps the full catalog. The catalog is small and unpaged.
type ListResourcesResponse struct {
	Items []ResourceResponse `json:"items"`
}

// ByNameRequest binds the resource name path parameter.
type ByNameRequest struct {
	Name string `uri:"name" binding:"required"`
}
