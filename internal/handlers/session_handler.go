package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"budgetex/internal/budget"
	apperrors "budgetex/internal/errors"
	"budgetex/internal/models"
	"budgetex/internal/services"
)

// maxImportSize caps uploaded spending files.
const maxImportSize = 1 << 20

// SessionHandler exposes the budgeting session: the viewed period, its
// income and spending, saving and CSV transfer.
type SessionHandler struct {
	sessionService  services.SessionServicer
	scenarioService services.ScenarioServicer
	importService   services.ImportServicer
	auditService    services.AuditServicer
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(
	sessionService services.SessionServicer,
	scenarioService services.ScenarioServicer,
	importService services.ImportServicer,
	auditService services.AuditServicer,
) *SessionHandler {
	return &SessionHandler{
		sessionService:  sessionService,
		scenarioService: scenarioService,
		importService:   importService,
		auditService:    auditService,
	}
}

// SwitchPeriodRequest is the payload for opening another period.
type SwitchPeriodRequest struct {
	PeriodID string `json:"period_id" binding:"required,period_id"`
}

// SetIncomeRequest is the payload for replacing the session income.
type SetIncomeRequest struct {
	Income *budget.Income `json:"income" binding:"required"`
}

// SetViewModeRequest is the payload for changing the view mode.
type SetViewModeRequest struct {
	ViewMode budget.ViewMode `json:"view_mode" binding:"required,view_mode"`
}

// SwitchScenarioRequest is the payload for changing the session scenario.
type SwitchScenarioRequest struct {
	Scenario string `json:"scenario" binding:"required"`
}

// SetSpendingRequest is the payload for recording one category's spending.
type SetSpendingRequest struct {
	Amount      *float64 `json:"amount" binding:"required,gte=0"`
	Description string   `json:"description" binding:"max=255"`
}

// SaveSnapshotRequest is the optional payload for saving the viewed period.
type SaveSnapshotRequest struct {
	Notes string `json:"notes" binding:"max=500"`
}

// ImportResponse reports what a CSV import applied.
type ImportResponse struct {
	*services.ImportResult
	State *services.SessionState `json:"state"`
}

// GetState handles returning the session's current view.
// @Summary     Session state
// @Description Get the viewed period with its income, spending and calculated results
// @Tags        session
// @Produce     json
// @Success     200 {object} services.SessionState "Session state"
// @Failure     409 {object} ErrorResponse "Period switch in progress"
// @Router      /session [get]
func (h *SessionHandler) GetState(c *gin.Context) {
	state, err := h.sessionService.State()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SwitchPeriod handles opening another period.
// @Summary     Switch period
// @Description Open another period. Unsaved edits to the current month are saved first.
// @Tags        session
// @Accept      json
// @Produce     json
// @Param       request body SwitchPeriodRequest true "Period id"
// @Success     200 {object} services.SessionState "Session state"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     409 {object} ErrorResponse "Period switch in progress"
// @Router      /session/switch [post]
func (h *SessionHandler) SwitchPeriod(c *gin.Context) {
	var req SwitchPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	state, err := h.sessionService.SwitchPeriod(req.PeriodID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SetIncome handles replacing the session income.
// @Summary     Set income
// @Description Replace the viewed period's income with a monthly amount or two paychecks
// @Tags        session
// @Accept      json
// @Produce     json
// @Param       request body SetIncomeRequest true "Income"
// @Success     200 {object} services.SessionState "Session state"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /session/income [put]
func (h *SessionHandler) SetIncome(c *gin.Context) {
	var req SetIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	state, err := h.sessionService.SetIncome(*req.Income)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SetViewMode handles changing the view mode.
// @Summary     Set view mode
// @Description Show figures against the monthly income or one paycheck
// @Tags        session
// @Accept      json
// @Produce     json
// @Param       request body SetViewModeRequest true "View mode"
// @Success     200 {object} services.SessionState "Session state"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /session/view [put]
func (h *SessionHandler) SetViewMode(c *gin.Context) {
	var req SetViewModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	state, err := h.sessionService.SetViewMode(req.ViewMode)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SwitchScenario handles changing the session scenario.
// @Summary     Switch scenario
// @Description Reopen the viewed period under another scenario
// @Tags        session
// @Accept      json
// @Produce     json
// @Param       request body SwitchScenarioRequest true "Scenario name"
// @Success     200 {object} services.SessionState "Session state"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Scenario not found"
// @Router      /session/scenario [put]
func (h *SessionHandler) SwitchScenario(c *gin.Context) {
	var req SwitchScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	state, err := h.sessionService.SwitchScenario(req.Scenario)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SetSpending handles recording one category's spending.
// @Summary     Set spending
// @Description Record the actual spending for a category in the viewed period
// @Tags        session
// @Accept      json
// @Produce     json
// @Param       category path string             true "Category name"
// @Param       request  body SetSpendingRequest true "Amount"
// @Success     200 {object} services.SessionState "Session state"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /session/spending/{category} [put]
func (h *SessionHandler) SetSpending(c *gin.Context) {
	var req SetSpendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	state, err := h.sessionService.SetSpending(c.Param("category"), *req.Amount, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// ClearSpending handles zeroing every category.
// @Summary     Clear spending
// @Description Zero the spending of every category in the viewed period
// @Tags        session
// @Produce     json
// @Success     200 {object} services.SessionState "Session state"
// @Router      /session/spending [delete]
func (h *SessionHandler) ClearSpending(c *gin.Context) {
	state, err := h.sessionService.ClearSpending()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Save handles saving the viewed period.
// @Summary     Save snapshot
// @Description Save the viewed period as a snapshot
// @Tags        session
// @Accept      json
// @Produce     json
// @Param       request body SaveSnapshotRequest false "Notes"
// @Success     200 {object} models.Snapshot "Saved snapshot"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Persistence failed"
// @Router      /session/save [post]
func (h *SessionHandler) Save(c *gin.Context) {
	var req SaveSnapshotRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	snap, err := h.sessionService.Save(req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(models.AuditSaveSnapshot, "snapshot", snap.Period.ID, c.ClientIP(),
		map[string]interface{}{"scenario": snap.ScenarioName, "total_spent": snap.TotalSpent})

	c.JSON(http.StatusOK, gin.H{"snapshot": snap})
}

// ExportCSV handles downloading the viewed period as CSV.
// @Summary     Export CSV
// @Description Download the viewed period's results as CSV
// @Tags        session
// @Produce     text/csv
// @Success     200 {string} string "CSV file"
// @Router      /session/export.csv [get]
func (h *SessionHandler) ExportCSV(c *gin.Context) {
	rows, err := h.sessionService.ExportRows()
	if err != nil {
		respondWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := budget.WriteCSV(&buf, rows); err != nil {
		respondWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="budget.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ImportCSV handles applying spending from a CSV file. The file may be sent
// as a multipart "file" field or as the raw request body.
// @Summary     Import CSV
// @Description Apply spending from a CSV file, matching category names loosely
// @Tags        session
// @Accept      multipart/form-data
// @Accept      text/csv
// @Produce     json
// @Param       file formData file false "CSV file"
// @Success     200 {object} ImportResponse "Applied spending"
// @Failure     400 {object} ErrorResponse "Invalid file"
// @Router      /session/import [post]
func (h *SessionHandler) ImportCSV(c *gin.Context) {
	body, err := readImportBody(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	defer body.Close()

	state, err := h.sessionService.State()
	if err != nil {
		respondWithError(c, err)
		return
	}
	sc, err := h.scenarioService.Get(state.Scenario)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.importService.ParseSpending(sc, body)
	if err != nil {
		respondWithError(c, err)
		return
	}

	state, err = h.sessionService.ImportSpending(result.Spending)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(models.AuditImportSpending, "session", state.Period.ID, c.ClientIP(),
		map[string]interface{}{"categories": len(result.Spending), "unmatched": len(result.Unmatched)})

	c.JSON(http.StatusOK, ImportResponse{ImportResult: result, State: state})
}

func readImportBody(c *gin.Context) (io.ReadCloser, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err)
		}
		return f, nil
	}
	return c.Request.Body, nil
}
