package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/z1shivam/blocklift/internal/price"
)

// PriceHandler serves cached cryptocurrency market prices.
type PriceHandler struct {
	cache *price.Cache
}

// NewPriceHandler creates the price handler.
func NewPriceHandler(cache *price.Cache) *PriceHandler {
	return &PriceHandler{cache: cache}
}

// GetPrices returns the top market coins, limited by the limit query
// parameter. Replies are marked uncacheable so clients always see the
// server-side cache state.
func (h *PriceHandler) GetPrices(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit <= 0 {
		limit = 5
	}

	coins, err := h.cache.Detailed(c.Request.Context())
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Error fetching data")
		return
	}
	if len(coins) > limit {
		coins = coins[:limit]
	}

	c.Header("Cache-Control", "no-store")
	SuccessResponse(c, http.StatusOK, "Prices fetched", coins)
}
