package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "budgetex/internal/errors"
	"budgetex/internal/models"
	"budgetex/internal/pagination"
	"budgetex/internal/services"
)

// AuditHandler lists recorded changes to stored budget history.
type AuditHandler struct {
	auditService services.AuditServicer
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService services.AuditServicer) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// AuditQuery holds the filters for listing audit entries.
type AuditQuery struct {
	Action       string `form:"action" binding:"omitempty,oneof=SAVE_SNAPSHOT DELETE_SNAPSHOT CREATE_PERIOD IMPORT_SPENDING UPDATE_PREFERENCES"`
	ResourceType string `form:"resource_type" binding:"max=50"`
	ResourceID   string `form:"resource_id" binding:"max=100"`
}

// ListAuditLog handles listing audit entries.
// @Summary     Audit log
// @Description Get a paginated list of snapshot, period, import and preference changes, newest first
// @Tags        audit
// @Produce     json
// @Param       action        query string false "Filter by action"
// @Param       resource_type query string false "Filter by resource type"
// @Param       resource_id   query string false "Filter by resource id"
// @Param       page          query int    false "Page number (default 1)"
// @Param       page_size     query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.AuditLog] "Paginated audit entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /audit [get]
func (h *AuditHandler) ListAuditLog(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	var q AuditQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.auditService.List(services.AuditFilter{
		Action:       models.AuditAction(q.Action),
		ResourceType: q.ResourceType,
		ResourceID:   q.ResourceID,
	}, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
