package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budgetex/internal/database"
)

// StatsProvider reports row counts from the budget store.
type StatsProvider interface {
	Stats() (*database.Stats, error)
}

// StatsHandler serves database statistics.
type StatsHandler struct {
	store StatsProvider
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(store StatsProvider) *StatsHandler {
	return &StatsHandler{store: store}
}

// GetStats handles returning database statistics.
// @Summary     Database stats
// @Description Snapshot, live budget and history counts with the latest update time
// @Tags        stats
// @Produce     json
// @Success     200 {object} database.Stats "Stats"
// @Failure     500 {object} ErrorResponse "Persistence failed"
// @Router      /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.store.Stats()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
