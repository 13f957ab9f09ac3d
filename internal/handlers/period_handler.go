package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"budgetex/internal/budget"
	apperrors "budgetex/internal/errors"
	"budgetex/internal/models"
	"budgetex/internal/period"
	"budgetex/internal/services"
)

const (
	dateLayout         = "2006-01-02"
	defaultPeriodCount = 12
	maxPeriodCount     = 120
)

// PeriodHandler handles period generation and manual period creation.
type PeriodHandler struct {
	snapshotService services.SnapshotServicer
	sessionService  services.SessionServicer
	prefsService    services.PreferencesServicer
	auditService    services.AuditServicer
}

// NewPeriodHandler creates a new PeriodHandler.
func NewPeriodHandler(
	snapshotService services.SnapshotServicer,
	sessionService services.SessionServicer,
	prefsService services.PreferencesServicer,
	auditService services.AuditServicer,
) *PeriodHandler {
	return &PeriodHandler{
		snapshotService: snapshotService,
		sessionService:  sessionService,
		prefsService:    prefsService,
		auditService:    auditService,
	}
}

// PeriodResponse is a period plus whether a snapshot is stored for it.
type PeriodResponse struct {
	period.Period
	HasSnapshot bool `json:"has_snapshot"`
}

// CreateCustomPeriodRequest is the payload for creating a custom period.
type CreateCustomPeriodRequest struct {
	StartDate string         `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string         `json:"end_date" binding:"required,datetime=2006-01-02"`
	Name      string         `json:"name" binding:"max=100"`
	Income    *budget.Income `json:"income"`
}

// CreateMonthlyPeriodRequest is the payload for creating a historical month.
type CreateMonthlyPeriodRequest struct {
	Year   int            `json:"year" binding:"required,gte=1900,lte=9999"`
	Month  int            `json:"month" binding:"required,gte=1,lte=12"`
	Income *budget.Income `json:"income"`
}

func (h *PeriodHandler) kindParam(c *gin.Context) (period.Kind, error) {
	kind := period.Kind(c.DefaultQuery("kind", h.prefsService.Get().DefaultPeriodKind))
	if kind == "" {
		kind = period.KindMonthly
	}
	if !kind.Valid() || kind == period.KindCustom {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be monthly, biweekly or weekly")
	}
	return kind, nil
}

func (h *PeriodHandler) incomeOrDefault(income *budget.Income) budget.Income {
	if income != nil {
		return *income
	}
	prefs := h.prefsService.Get()
	return budget.SplitPaycheck(prefs.DefaultFirstPaycheck, prefs.DefaultSecondPaycheck)
}

func (h *PeriodHandler) withSnapshot(p period.Period) PeriodResponse {
	_, ok := h.snapshotService.GetSnapshot(p.ID)
	return PeriodResponse{Period: p, HasSnapshot: ok}
}

// GetCurrentPeriod handles returning the period containing today.
// @Summary     Current period
// @Description Get the period of the given kind that contains today
// @Tags        periods
// @Produce     json
// @Param       kind query string false "monthly, biweekly or weekly"
// @Success     200 {object} PeriodResponse "Current period"
// @Failure     400 {object} ErrorResponse "Invalid kind"
// @Router      /periods/current [get]
func (h *PeriodHandler) GetCurrentPeriod(c *gin.Context) {
	kind, err := h.kindParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": h.withSnapshot(h.snapshotService.CurrentPeriod(kind))})
}

// GeneratePeriods handles listing consecutive periods.
// @Summary     Generate periods
// @Description Generate consecutive periods of a kind starting at a date
// @Tags        periods
// @Produce     json
// @Param       kind  query string false "monthly, biweekly or weekly"
// @Param       from  query string false "Start date (YYYY-MM-DD), defaults to the current period's start"
// @Param       count query int    false "Number of periods (default 12, max 120)"
// @Success     200 {object} map[string][]PeriodResponse "Periods"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /periods [get]
func (h *PeriodHandler) GeneratePeriods(c *gin.Context) {
	kind, err := h.kindParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	count, err := queryInt(c, "count", defaultPeriodCount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if count > maxPeriodCount {
		count = maxPeriodCount
	}

	from := h.snapshotService.CurrentPeriod(kind).Start
	if raw := c.Query("from"); raw != "" {
		from, err = time.Parse(dateLayout, raw)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must be a YYYY-MM-DD date"))
			return
		}
	}

	periods := h.snapshotService.GeneratePeriods(kind, from, count)
	resp := make([]PeriodResponse, 0, len(periods))
	for _, p := range periods {
		resp = append(resp, h.withSnapshot(p))
	}
	c.JSON(http.StatusOK, gin.H{"periods": resp})
}

// CreateCustomPeriod handles creating an empty snapshot for a custom range.
// @Summary     Create custom period
// @Description Store an empty snapshot for a custom date range under the session scenario
// @Tags        periods
// @Accept      json
// @Produce     json
// @Param       request body CreateCustomPeriodRequest true "Custom period"
// @Success     201 {object} models.Snapshot "Created snapshot"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Snapshot already exists"
// @Router      /periods/custom [post]
func (h *PeriodHandler) CreateCustomPeriod(c *gin.Context) {
	var req CreateCustomPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	// Both dates were checked by the datetime binding.
	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)
	p, err := period.Custom(start, end, req.Name)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidPeriod, err.Error()))
		return
	}

	snap, err := h.sessionService.CreatePeriod(p, h.incomeOrDefault(req.Income))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(models.AuditCreatePeriod, "snapshot", snap.Period.ID, c.ClientIP(),
		map[string]interface{}{"kind": p.Kind, "name": p.DisplayName})

	c.JSON(http.StatusCreated, gin.H{"snapshot": snap})
}

// CreateMonthlyPeriod handles creating an empty snapshot for a past month.
// @Summary     Create historical month
// @Description Store an empty snapshot for a calendar month so its spending can be entered
// @Tags        periods
// @Accept      json
// @Produce     json
// @Param       request body CreateMonthlyPeriodRequest true "Month"
// @Success     201 {object} models.Snapshot "Created snapshot"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Snapshot already exists"
// @Router      /periods/monthly [post]
func (h *PeriodHandler) CreateMonthlyPeriod(c *gin.Context) {
	var req CreateMonthlyPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	snap, err := h.sessionService.CreateHistoricalMonth(req.Year, time.Month(req.Month), h.incomeOrDefault(req.Income))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(models.AuditCreatePeriod, "snapshot", snap.Period.ID, c.ClientIP(),
		map[string]interface{}{"kind": period.KindMonthly, "year": req.Year, "month": req.Month})

	c.JSON(http.StatusCreated, gin.H{"snapshot": snap})
}
