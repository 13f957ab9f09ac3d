package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budgetex/internal/budget"
	apperrors "budgetex/internal/errors"
	"budgetex/internal/services"
)

// ScenarioHandler serves the scenario catalog and stateless calculations.
type ScenarioHandler struct {
	scenarioService services.ScenarioServicer
}

// NewScenarioHandler creates a new ScenarioHandler.
func NewScenarioHandler(scenarioService services.ScenarioServicer) *ScenarioHandler {
	return &ScenarioHandler{scenarioService: scenarioService}
}

// ScenarioResponse is the JSON view of a scenario.
type ScenarioResponse struct {
	Name             string            `json:"name"`
	Categories       []budget.Category `json:"categories"`
	TotalFixedAmount float64           `json:"total_fixed_amount"`
	TotalPercentage  float64           `json:"total_percentage"`
}

func newScenarioResponse(sc *budget.Scenario) ScenarioResponse {
	return ScenarioResponse{
		Name:             sc.Name(),
		Categories:       sc.Categories(),
		TotalFixedAmount: sc.TotalFixedAmount(),
		TotalPercentage:  sc.TotalPercentage(),
	}
}

// ValidateScenarioRequest is the payload for checking a scenario against an income.
type ValidateScenarioRequest struct {
	Income budget.Income `json:"income"`
}

// CalculateRequest is the payload for a stateless calculation.
type CalculateRequest struct {
	Scenario string             `json:"scenario" binding:"required"`
	Income   budget.Income      `json:"income"`
	ViewMode budget.ViewMode    `json:"view_mode" binding:"omitempty,view_mode"`
	Spending map[string]float64 `json:"spending"`
}

// ListScenarios handles listing every scenario in the catalog.
// @Summary     List scenarios
// @Description List the built-in budget scenarios in display order
// @Tags        scenarios
// @Produce     json
// @Success     200 {object} map[string][]ScenarioResponse "Scenarios"
// @Router      /scenarios [get]
func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	list := h.scenarioService.List()
	resp := make([]ScenarioResponse, 0, len(list))
	for _, sc := range list {
		resp = append(resp, newScenarioResponse(sc))
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": resp})
}

// GetScenario handles retrieving one scenario.
// @Summary     Get scenario
// @Description Get a scenario and its categories by name
// @Tags        scenarios
// @Produce     json
// @Param       name path string true "Scenario name"
// @Success     200 {object} ScenarioResponse "Scenario"
// @Failure     404 {object} ErrorResponse "Scenario not found"
// @Router      /scenarios/{name} [get]
func (h *ScenarioHandler) GetScenario(c *gin.Context) {
	sc, err := h.scenarioService.Get(c.Param("name"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scenario": newScenarioResponse(sc)})
}

// ValidateScenario handles checking a scenario against an income.
// @Summary     Validate scenario
// @Description Return advisory messages for a scenario at the given income
// @Tags        scenarios
// @Accept      json
// @Produce     json
// @Param       name    path string                  true "Scenario name"
// @Param       request body ValidateScenarioRequest true "Income"
// @Success     200 {object} map[string][]string "Advisories"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Scenario not found"
// @Router      /scenarios/{name}/validate [post]
func (h *ScenarioHandler) ValidateScenario(c *gin.Context) {
	var req ValidateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sc, err := h.scenarioService.Get(c.Param("name"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	advisories := sc.Validate(req.Income)
	if advisories == nil {
		advisories = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"advisories": advisories})
}

// Calculate handles a stateless calculation.
// @Summary     Calculate budget
// @Description Evaluate a scenario against an income and spending without touching the session
// @Tags        scenarios
// @Accept      json
// @Produce     json
// @Param       request body CalculateRequest true "Calculation input"
// @Success     200 {object} services.Calculation "Results"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Scenario not found"
// @Router      /calculate [post]
func (h *ScenarioHandler) Calculate(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.ViewMode == "" {
		req.ViewMode = budget.ViewMonthly
	}

	calc, err := h.scenarioService.Calculate(req.Scenario, req.Income, req.ViewMode, req.Spending)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, calc)
}
