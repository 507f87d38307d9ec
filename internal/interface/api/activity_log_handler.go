package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aeropark-service/internal/usecase"
	"aeropark-service/pkg/logger"
)

// ActivityLogHandler exposes the audit trail.
type ActivityLogHandler struct {
	logs *usecase.ActivityLogService
	log  logger.Logger
}

// NewActivityLogHandler creates a new activity-log handler
func NewActivityLogHandler(logs *usecase.ActivityLogService, log logger.Logger) *ActivityLogHandler {
	return &ActivityLogHandler{logs: logs, log: log}
}

// List handles GET /api/activity-logs (admin only).
func (h *ActivityLogHandler) List(c *gin.Context) {
	env, err := h.logs.List(c.Request.Context(), usecase.ActivityLogQuery{
		UserID:     c.Query("userId"),
		Action:     c.Query("action"),
		TargetType: c.Query("targetType"),
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
		Sort:       c.Query("sort"),
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, env)
}

// Delete handles DELETE /api/activity-logs/:id (admin only).
func (h *ActivityLogHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.logs.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Entrée de log supprimée avec succès.",
		"id":      id,
	})
}
