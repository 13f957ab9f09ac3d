package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "budgetex/internal/errors"
	"budgetex/internal/models"
	"budgetex/internal/services"
)

// PreferencesHandler reads and saves user preferences.
type PreferencesHandler struct {
	prefsService services.PreferencesServicer
	auditService services.AuditServicer
}

// NewPreferencesHandler creates a new PreferencesHandler.
func NewPreferencesHandler(prefsService services.PreferencesServicer, auditService services.AuditServicer) *PreferencesHandler {
	return &PreferencesHandler{prefsService: prefsService, auditService: auditService}
}

// GetPreferences handles returning the loaded preferences.
// @Summary     Get preferences
// @Tags        preferences
// @Produce     json
// @Success     200 {object} config.Preferences "Preferences"
// @Router      /preferences [get]
func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"preferences": h.prefsService.Get()})
}

// UpdatePreferences handles saving preferences. Fields left out of the
// request keep their current value; the file is written then read back.
// @Summary     Update preferences
// @Description Save preferences to the preferences file and reload them
// @Tags        preferences
// @Accept      json
// @Produce     json
// @Param       request body config.Preferences true "Preferences"
// @Success     200 {object} config.Preferences "Saved preferences"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Preferences could not be saved"
// @Router      /preferences [put]
func (h *PreferencesHandler) UpdatePreferences(c *gin.Context) {
	req := h.prefsService.Get()
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	saved, err := h.prefsService.Update(req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(models.AuditUpdatePreferences, "preferences", "user", c.ClientIP(),
		map[string]interface{}{"default_scenario": saved.DefaultScenario, "auto_save": saved.AutoSave})

	c.JSON(http.StatusOK, gin.H{"preferences": saved})
}
