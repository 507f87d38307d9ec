package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aeropark-service/internal/usecase"
	"aeropark-service/pkg/logger"
)

// CommandLogHandler exposes the Discord command-log endpoints.
type CommandLogHandler struct {
	logs *usecase.CommandLogService
	log  logger.Logger
}

// NewCommandLogHandler creates a new command-log handler
func NewCommandLogHandler(logs *usecase.CommandLogService, log logger.Logger) *CommandLogHandler {
	return &CommandLogHandler{logs: logs, log: log}
}

// List handles GET /api/discord-logs (admin only). The bot dashboard sends
// 0-based pages; they are converted to the 1-based envelope convention.
func (h *CommandLogHandler) List(c *gin.Context) {
	env, err := h.logs.List(c.Request.Context(),
		c.Query("search"),
		c.Query("period"),
		queryInt(c, "page")+1,
		queryInt(c, "limit"),
	)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, env)
}

// Delete handles DELETE /api/discord-logs/:id (admin only).
func (h *CommandLogHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.logs.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Log supprimé avec succès",
		"id":      id,
	})
}

// Clean handles POST /api/discord-logs/clean (admin only).
func (h *CommandLogHandler) Clean(c *gin.Context) {
	result, err := h.logs.Clean(c.Request.Context(), currentUser(c), c.Query("days"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Nettoyage des logs effectué avec succès.",
		"deletedCount": result.DeletedCount,
		"daysKept":     result.DaysKept,
	})
}

// Stats handles GET /api/discord-logs/stats (admin only).
func (h *CommandLogHandler) Stats(c *gin.Context) {
	stats, err := h.logs.Stats(c.Request.Context(), c.Query("period"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ResetStats handles POST /api/discord-logs/stats/reset (admin only).
func (h *CommandLogHandler) ResetStats(c *gin.Context) {
	stats, err := h.logs.RecomputeStats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Statistiques recalculées avec succès (basées sur les logs actuels)",
		"stats":   stats,
	})
}

// Oldest handles GET /api/discord-logs/oldest (admin only).
func (h *CommandLogHandler) Oldest(c *gin.Context) {
	info, err := h.logs.Oldest(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
