package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "budgetex/internal/errors"
	"budgetex/internal/services"
)

// AnalyticsHandler serves read-only analytics over saved snapshots.
type AnalyticsHandler struct {
	analyzerService services.AnalyzerServicer
	defaultPeriods  int
}

// NewAnalyticsHandler creates a new AnalyticsHandler. defaultPeriods is the
// window used when a request does not name one.
func NewAnalyticsHandler(analyzerService services.AnalyzerServicer, defaultPeriods int) *AnalyticsHandler {
	return &AnalyticsHandler{analyzerService: analyzerService, defaultPeriods: defaultPeriods}
}

// GetSpendingSummary handles summarizing the most recent snapshots.
// @Summary     Spending summary
// @Description Totals and per-category averages over the most recent snapshots
// @Tags        analytics
// @Produce     json
// @Param       periods query int false "Number of recent periods"
// @Success     200 {object} services.SpendingSummary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "No snapshots saved"
// @Router      /analytics/summary [get]
func (h *AnalyticsHandler) GetSpendingSummary(c *gin.Context) {
	n, err := queryInt(c, "periods", h.defaultPeriods)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, ok := h.analyzerService.SpendingSummary(n)
	if !ok {
		respondWithError(c, apperrors.ErrSnapshotNotFound)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ComparePeriods handles comparing spending between two periods.
// @Summary     Compare periods
// @Description Per-category spending change between two saved periods
// @Tags        analytics
// @Produce     json
// @Param       from query string true "Earlier period id"
// @Param       to   query string true "Later period id"
// @Success     200 {object} services.PeriodComparison "Comparison"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Snapshot not found"
// @Router      /analytics/compare [get]
func (h *AnalyticsHandler) ComparePeriods(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "from and to are required"))
		return
	}

	cmp, ok := h.analyzerService.ComparePeriods(from, to)
	if !ok {
		respondWithError(c, apperrors.ErrSnapshotNotFound)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

// GetCategoryTrend handles describing one category over recent periods.
// @Summary     Category trend
// @Description Average, variance and trend of a category's spending
// @Tags        analytics
// @Produce     json
// @Param       category path  string true  "Category name"
// @Param       periods  query int    false "Number of recent periods"
// @Success     200 {object} services.CategoryTrend "Trend"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /analytics/trends/{category} [get]
func (h *AnalyticsHandler) GetCategoryTrend(c *gin.Context) {
	n, err := queryInt(c, "periods", h.defaultPeriods)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.analyzerService.CategoryTrend(c.Param("category"), n))
}
