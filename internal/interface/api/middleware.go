package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"
	"aeropark-service/internal/infrastructure/auth"
	"aeropark-service/pkg/logger"
	"aeropark-service/pkg/metrics"
)

const currentUserKey = "currentUser"

// currentUser returns the authenticated user set by Protect, or nil on
// routes that skipped it.
func currentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*entity.User)
	return user
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// Protect authenticates the request. The token only identifies the user;
// the account is re-fetched so a deactivation takes effect immediately, not
// at token expiry.
func Protect(tokens *auth.JWTService, users repository.UserRepository, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Non autorisé, aucun token fourni."})
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Non autorisé, le token a expiré."})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Non autorisé, token invalide."})
			return
		}

		oid, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Non autorisé, token invalide."})
			return
		}
		user, err := users.FindByID(c.Request.Context(), oid)
		if err != nil && err != mongo.ErrNoDocuments {
			log.Error("user lookup failed during auth", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne du serveur."})
			return
		}
		if user == nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Non autorisé, utilisateur introuvable ou inactif."})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// Authorize restricts a route to the given roles. It must run after Protect.
func Authorize(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.HasRole(roles...) {
			names := make([]string, 0, len(roles))
			for _, r := range roles {
				names = append(names, string(r))
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "Accès refusé. Rôle(s) requis: " + strings.Join(names, ", "),
			})
			return
		}
		c.Next()
	}
}

// BotAuth gates the bot intake endpoint on a shared API key.
func BotAuth(apiKey string, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := bearerToken(c)
		if apiKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			log.Warn("bot request rejected", "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key invalide ou manquante"})
			return
		}
		c.Next()
	}
}

// RequestMetrics records request durations by method and status.
func RequestMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.RequestDuration.WithLabelValues(
			c.Request.Method,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
		if c.Writer.Status() >= http.StatusInternalServerError {
			m.ErrorsCount.WithLabelValues(c.Request.Method + " " + c.FullPath()).Inc()
		}
	}
}

// RequestTimeout bounds every handler with a deadline so a slow Mongo
// aggregation cannot pin a connection forever.
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
