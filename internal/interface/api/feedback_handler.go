package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aeropark-service/internal/usecase"
	"aeropark-service/pkg/apperrors"
	"aeropark-service/pkg/logger"
)

// FeedbackHandler exposes the Discord feedback endpoints. Creation is
// bot-facing; the rest serves the admin dashboard.
type FeedbackHandler struct {
	feedbacks *usecase.FeedbackService
	log       logger.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbacks *usecase.FeedbackService, log logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{feedbacks: feedbacks, log: log}
}

// Create handles POST /api/discord-feedback (bot API key).
func (h *FeedbackHandler) Create(c *gin.Context) {
	var body usecase.CreateFeedbackInput
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, h.log, "Données incomplètes", err)
		return
	}

	feedback, err := h.feedbacks.Create(c.Request.Context(), body)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Feedback enregistré avec succès",
		"id":         feedback.ID.Hex(),
		"feedbackId": feedback.FeedbackID,
	})
}

// List handles GET /api/discord-feedback (admin only).
func (h *FeedbackHandler) List(c *gin.Context) {
	env, err := h.feedbacks.List(c.Request.Context(), usecase.FeedbackListQuery{
		Status:         c.Query("status"),
		HasInformation: queryBool(c, "hasInformation"),
		Airport:        c.Query("airport"),
		Airline:        c.Query("airline"),
		Page:           queryInt(c, "page"),
		Limit:          queryInt(c, "limit"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, env)
}

// Get handles GET /api/discord-feedback/:id (admin only).
func (h *FeedbackHandler) Get(c *gin.Context) {
	feedback, err := h.feedbacks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, feedback)
}

// UpdateStatus handles PATCH /api/discord-feedback/:id/status (admin only).
func (h *FeedbackHandler) UpdateStatus(c *gin.Context) {
	var body usecase.StatusUpdateInput
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.log, apperrors.NewValidationError("Statut invalide"))
		return
	}

	feedback, err := h.feedbacks.UpdateStatus(c.Request.Context(), currentUser(c), c.Param("id"), body)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, feedback)
}

// Delete handles DELETE /api/discord-feedback/:id (admin only).
func (h *FeedbackHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.feedbacks.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Feedback supprimé avec succès",
		"id":      id,
	})
}

// Stats handles GET /api/discord-feedback/stats (admin only).
func (h *FeedbackHandler) Stats(c *gin.Context) {
	stats, err := h.feedbacks.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
