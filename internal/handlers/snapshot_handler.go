package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "budgetex/internal/errors"
	"budgetex/internal/models"
	"budgetex/internal/pagination"
	"budgetex/internal/services"
)

// SnapshotHandler handles browsing and deleting saved snapshots.
type SnapshotHandler struct {
	snapshotService services.SnapshotServicer
	auditService    services.AuditServicer
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(snapshotService services.SnapshotServicer, auditService services.AuditServicer) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: snapshotService, auditService: auditService}
}

// ListSnapshots handles listing periods that have a snapshot, newest first.
// @Summary     List snapshots
// @Description Get a paginated list of periods with saved snapshots, newest first
// @Tags        snapshots
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[period.Period] "Paginated periods"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /snapshots [get]
func (h *SnapshotHandler) ListSnapshots(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	c.JSON(http.StatusOK, h.snapshotService.ListPeriods(page))
}

// GetSnapshot handles retrieving one snapshot.
// @Summary     Get snapshot
// @Description Get the snapshot saved for a period
// @Tags        snapshots
// @Produce     json
// @Param       id path string true "Period id"
// @Success     200 {object} models.Snapshot "Snapshot"
// @Failure     404 {object} ErrorResponse "Snapshot not found"
// @Router      /snapshots/{id} [get]
func (h *SnapshotHandler) GetSnapshot(c *gin.Context) {
	snap, ok := h.snapshotService.GetSnapshot(c.Param("id"))
	if !ok {
		respondWithError(c, apperrors.ErrSnapshotNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": snap})
}

// DeleteSnapshot handles removing a snapshot.
// @Summary     Delete snapshot
// @Description Delete the snapshot saved for a period
// @Tags        snapshots
// @Produce     json
// @Param       id path string true "Period id"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     404 {object} ErrorResponse "Snapshot not found"
// @Failure     500 {object} ErrorResponse "Persistence failed"
// @Router      /snapshots/{id} [delete]
func (h *SnapshotHandler) DeleteSnapshot(c *gin.Context) {
	id := c.Param("id")
	deleted, err := h.snapshotService.DeleteSnapshot(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !deleted {
		respondWithError(c, apperrors.ErrSnapshotNotFound)
		return
	}

	h.auditService.Log(models.AuditDeleteSnapshot, "snapshot", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Snapshot deleted successfully"})
}

// GetSnapshotsInRange handles listing snapshots overlapping a date range.
// @Summary     Snapshots in range
// @Description Get snapshots whose period overlaps the inclusive date range
// @Tags        snapshots
// @Produce     json
// @Param       start query string true "Start date (YYYY-MM-DD)"
// @Param       end   query string true "End date (YYYY-MM-DD)"
// @Success     200 {object} map[string][]models.Snapshot "Snapshots"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /snapshots/range [get]
func (h *SnapshotHandler) GetSnapshotsInRange(c *gin.Context) {
	start, err := time.Parse(dateLayout, c.Query("start"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "start must be a YYYY-MM-DD date"))
		return
	}
	end, err := time.Parse(dateLayout, c.Query("end"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "end must be a YYYY-MM-DD date"))
		return
	}
	if start.After(end) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "start must not be after end"))
		return
	}

	snapshots := h.snapshotService.SnapshotsInRange(start, end)
	if snapshots == nil {
		snapshots = []*models.Snapshot{}
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snapshots})
}
