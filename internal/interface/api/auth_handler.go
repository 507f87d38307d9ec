package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/usecase"
	"aeropark-service/pkg/apperrors"
	"aeropark-service/pkg/logger"
)

// AuthHandler exposes login, registration and token verification.
type AuthHandler struct {
	auth *usecase.AuthService
	log  logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *usecase.AuthService, log logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

// Login handles POST /api/auth/login. The identifier can come in as
// identifier, username or email.
func (h *AuthHandler) Login(c *gin.Context) {
	var body struct {
		Identifier string `json:"identifier"`
		Username   string `json:"username"`
		Email      string `json:"email"`
		Password   string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.log, apperrors.NewValidationError("Veuillez fournir un identifiant (username/email) et un mot de passe."))
		return
	}

	identifier := body.Identifier
	if identifier == "" {
		identifier = body.Username
	}
	if identifier == "" {
		identifier = body.Email
	}

	token, user, err := h.auth.Login(c.Request.Context(), identifier, body.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Register handles POST /api/auth/register (admin only).
func (h *AuthHandler) Register(c *gin.Context) {
	var body struct {
		Username string        `json:"username"`
		Email    string        `json:"email"`
		Password string        `json:"password"`
		Roles    []entity.Role `json:"roles"`
		IsActive *bool         `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.log, apperrors.NewValidationError("Veuillez fournir username, email et password."))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), currentUser(c), usecase.RegisterInput{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
		Roles:    body.Roles,
		IsActive: body.IsActive,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// VerifyToken handles GET /api/auth/verify-token. Frontends poll it to know
// whether a stored token is still usable.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "message": "Token invalide"})
		return
	}

	claims, err := h.auth.VerifyToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "message": "Token expiré", "expired": true})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "message": "Token invalide"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "user": claims})
}
