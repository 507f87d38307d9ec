package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/usecase"
	"aeropark-service/pkg/apperrors"
	"aeropark-service/pkg/logger"
)

// UserHandler exposes account management.
type UserHandler struct {
	users *usecase.UserService
	log   logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *usecase.UserService, log logger.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// SelfRegister handles POST /api/users/register (public). The account stays
// inactive until an admin validates it.
func (h *UserHandler) SelfRegister(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.log, apperrors.NewValidationError("Veuillez fournir un nom d'utilisateur, un email et un mot de passe."))
		return
	}

	if err := h.users.SelfRegister(c.Request.Context(), body.Username, body.Email, body.Password); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Compte créé avec succès. Il est en attente de validation par un administrateur.",
	})
}

// List handles GET /api/users (admin only).
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context(), c.Query("inactive") == "true")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Get handles GET /api/users/:id (admin only).
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Activate handles PATCH /api/users/:id/activate (admin only).
func (h *UserHandler) Activate(c *gin.Context) {
	var body struct {
		Roles []entity.Role `json:"roles"`
	}
	// An empty body keeps the existing roles.
	c.ShouldBindJSON(&body)

	user, err := h.users.Activate(c.Request.Context(), currentUser(c), c.Param("id"), body.Roles)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Compte utilisateur activé/mis à jour avec succès.",
		"user":    user,
	})
}

// Deactivate handles PATCH /api/users/:id/deactivate (admin only).
func (h *UserHandler) Deactivate(c *gin.Context) {
	user, err := h.users.Deactivate(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Compte utilisateur désactivé avec succès.",
		"user":    user,
	})
}
