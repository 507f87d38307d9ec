package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aeropark-service/internal/usecase"
	"aeropark-service/pkg/apperrors"
	"aeropark-service/pkg/logger"
)

// AirportHandler exposes the airport endpoints.
type AirportHandler struct {
	airports *usecase.AirportService
	log      logger.Logger
}

// NewAirportHandler creates a new airport handler
func NewAirportHandler(airports *usecase.AirportService, log logger.Logger) *AirportHandler {
	return &AirportHandler{airports: airports, log: log}
}

// List handles GET /api/airports
func (h *AirportHandler) List(c *gin.Context) {
	env, err := h.airports.List(c.Request.Context(), c.Query("search"), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, env)
}

// Get handles GET /api/airports/:id
func (h *AirportHandler) Get(c *gin.Context) {
	airport, err := h.airports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, airport)
}

type airportBody struct {
	ICAO      string  `json:"icao"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
	Timezone  string  `json:"timezone"`
}

// Create handles POST /api/airports
func (h *AirportHandler) Create(c *gin.Context) {
	var body airportBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.log, apperrors.NewValidationError("Corps de requête invalide."))
		return
	}

	airport, err := h.airports.Create(c.Request.Context(), currentUser(c), usecase.AirportInput{
		ICAO:      body.ICAO,
		Name:      body.Name,
		City:      body.City,
		Country:   body.Country,
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
		Elevation: body.Elevation,
		Timezone:  body.Timezone,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, airport)
}

type airportPatchBody struct {
	ICAO      *string  `json:"icao"`
	Name      *string  `json:"name"`
	City      *string  `json:"city"`
	Country   *string  `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Elevation *float64 `json:"elevation"`
	Timezone  *string  `json:"timezone"`
}

// Update handles PUT /api/airports/:id
func (h *AirportHandler) Update(c *gin.Context) {
	var body airportPatchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.log, apperrors.NewValidationError("Corps de requête invalide."))
		return
	}

	airport, err := h.airports.Update(c.Request.Context(), currentUser(c), c.Param("id"), usecase.AirportPatch{
		ICAO:      body.ICAO,
		Name:      body.Name,
		City:      body.City,
		Country:   body.Country,
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
		Elevation: body.Elevation,
		Timezone:  body.Timezone,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, airport)
}

// Delete handles DELETE /api/airports/:id
func (h *AirportHandler) Delete(c *gin.Context) {
	if err := h.airports.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Aéroport supprimé avec succès."})
}
