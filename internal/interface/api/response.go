package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"aeropark-service/pkg/apperrors"
	"aeropark-service/pkg/logger"
)

// respondError maps an application error to its HTTP response. Errors
// outside the taxonomy become an opaque 500.
func respondError(c *gin.Context, log logger.Logger, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		log.Error("unclassified error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne du serveur."})
		return
	}

	body := gin.H{"message": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	c.JSON(appErr.Code, body)
}

// respondBindError reports a request-binding failure, flattening validator
// errors into per-field detail when the payload was structurally valid JSON.
func respondBindError(c *gin.Context, log logger.Logger, message string, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		respondError(c, log, apperrors.NewFieldValidationError(message, fields))
		return
	}
	respondError(c, log, apperrors.NewValidationError(message))
}
