package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/z1shivam/blocklift/internal/aggregate"
)

// PlatformHandler serves platform-wide counters.
type PlatformHandler struct {
	agg *aggregate.Service
}

// NewPlatformHandler creates the platform handler.
func NewPlatformHandler(agg *aggregate.Service) *PlatformHandler {
	return &PlatformHandler{agg: agg}
}

// GetStats returns the platform counters. When the chain is unreachable the
// response degrades to null data instead of failing.
func (h *PlatformHandler) GetStats(c *gin.Context) {
	stats, err := h.agg.PlatformStats(c.Request.Context())
	if err != nil {
		SuccessResponse(c, http.StatusOK, "Platform stats unavailable", nil)
		return
	}
	SuccessResponse(c, http.StatusOK, "Platform stats fetched", stats)
}
