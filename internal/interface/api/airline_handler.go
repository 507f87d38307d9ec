package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"aeropark-service/internal/usecase"
	"aeropark-service/pkg/apperrors"
	"aeropark-service/pkg/logger"
)

// AirlineHandler exposes the airline endpoints.
type AirlineHandler struct {
	airlines *usecase.AirlineService
	log      logger.Logger
}

// NewAirlineHandler creates a new airline handler
func NewAirlineHandler(airlines *usecase.AirlineService, log logger.Logger) *AirlineHandler {
	return &AirlineHandler{airlines: airlines, log: log}
}

// List handles GET /api/airlines
func (h *AirlineHandler) List(c *gin.Context) {
	env, err := h.airlines.List(c.Request.Context(), c.Query("search"), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, env)
}

// Get handles GET /api/airlines/:id
func (h *AirlineHandler) Get(c *gin.Context) {
	airline, err := h.airlines.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, airline)
}

// Create handles POST /api/airlines. The body is multipart so the logo can
// ride along with the attributes, but plain JSON works for logo-less
// creation.
func (h *AirlineHandler) Create(c *gin.Context) {
	in := usecase.CreateAirlineInput{}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		logoData, err := formFileBytes(c, "logoFile")
		if err != nil {
			respondError(c, h.log, apperrors.NewValidationError("Fichier de logo illisible."))
			return
		}
		in = usecase.CreateAirlineInput{
			ICAO:     c.PostForm("icao"),
			Name:     c.PostForm("name"),
			Callsign: c.PostForm("callsign"),
			Country:  c.PostForm("country"),
			LogoData: logoData,
		}
	} else {
		var body struct {
			ICAO     string `json:"icao"`
			Name     string `json:"name"`
			Callsign string `json:"callsign"`
			Country  string `json:"country"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, h.log, apperrors.NewValidationError("Corps de requête invalide."))
			return
		}
		in = usecase.CreateAirlineInput{
			ICAO:     body.ICAO,
			Name:     body.Name,
			Callsign: body.Callsign,
			Country:  body.Country,
		}
	}

	airline, err := h.airlines.Create(c.Request.Context(), currentUser(c), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, airline)
}

// Update handles PUT /api/airlines/:id
func (h *AirlineHandler) Update(c *gin.Context) {
	in := usecase.AirlinePatch{}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		logoData, err := formFileBytes(c, "logoFile")
		if err != nil {
			respondError(c, h.log, apperrors.NewValidationError("Fichier de logo illisible."))
			return
		}
		in.LogoData = logoData
		if v, ok := c.GetPostForm("name"); ok {
			in.Name = &v
		}
		if v, ok := c.GetPostForm("callsign"); ok {
			in.Callsign = &v
		}
		if v, ok := c.GetPostForm("country"); ok {
			in.Country = &v
		}
		in.ClearLogo = c.PostForm("clearLogo") == "true"
	} else {
		var body struct {
			Name      *string `json:"name"`
			Callsign  *string `json:"callsign"`
			Country   *string `json:"country"`
			ClearLogo bool    `json:"clearLogo"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, h.log, apperrors.NewValidationError("Corps de requête invalide."))
			return
		}
		in.Name = body.Name
		in.Callsign = body.Callsign
		in.Country = body.Country
		in.ClearLogo = body.ClearLogo
	}

	airline, err := h.airlines.Update(c.Request.Context(), currentUser(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, airline)
}

// UpdateLogo handles PUT /api/airlines/:id/logo
func (h *AirlineHandler) UpdateLogo(c *gin.Context) {
	logoData, err := formFileBytes(c, "logoFile")
	if err != nil {
		respondError(c, h.log, apperrors.NewValidationError("Fichier de logo illisible."))
		return
	}

	airline, err := h.airlines.UpdateLogo(c.Request.Context(), currentUser(c), c.Param("id"), logoData)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, airline)
}

// Delete handles DELETE /api/airlines/:id
func (h *AirlineHandler) Delete(c *gin.Context) {
	if err := h.airlines.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Compagnie supprimée avec succès."})
}

// Managed handles GET /api/airlines/managed
func (h *AirlineHandler) Managed(c *gin.Context) {
	managed, err := h.airlines.Managed(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, managed)
}
