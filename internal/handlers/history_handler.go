package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "budgetex/internal/errors"
	"budgetex/internal/pagination"
	"budgetex/internal/services"
)

// HistoryHandler lists the spending history log.
type HistoryHandler struct {
	historyService services.HistoryServicer
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyService services.HistoryServicer) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// HistoryQuery holds the filters for listing spending history.
type HistoryQuery struct {
	Scenario string `form:"scenario" binding:"max=100"`
	Category string `form:"category" binding:"max=100"`
	Days     int    `form:"days" binding:"omitempty,min=1,max=3650"`
}

// GetHistory handles listing spending edits, newest first.
// @Summary     Spending history
// @Description Get a paginated list of spending edits, newest first
// @Tags        history
// @Produce     json
// @Param       scenario  query string false "Filter by scenario"
// @Param       category  query string false "Filter by category"
// @Param       days      query int    false "Only entries from the last N days"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.SpendingHistory] "Paginated history"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /history [get]
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	var q HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.historyService.List(services.HistoryFilter{
		Scenario: q.Scenario,
		Category: q.Category,
		Days:     q.Days,
	}, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
