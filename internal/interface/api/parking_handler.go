package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"
	"aeropark-service/internal/usecase"
	"aeropark-service/pkg/apperrors"
	"aeropark-service/pkg/logger"
)

// ParkingHandler exposes the parking endpoints.
type ParkingHandler struct {
	parkings *usecase.ParkingService
	log      logger.Logger
}

// NewParkingHandler creates a new parking handler
func NewParkingHandler(parkings *usecase.ParkingService, log logger.Logger) *ParkingHandler {
	return &ParkingHandler{parkings: parkings, log: log}
}

// queryInt parses an integer query parameter, 0 when absent or invalid.
func queryInt(c *gin.Context, name string) int {
	v, _ := strconv.Atoi(c.Query(name))
	return v
}

// queryBool parses an optional boolean query parameter.
func queryBool(c *gin.Context, name string) *bool {
	switch c.Query(name) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

// formFileBytes reads an optional multipart file field.
func formFileBytes(c *gin.Context, field string) ([]byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, err
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// List handles GET /api/parkings
func (h *ParkingHandler) List(c *gin.Context) {
	env, err := h.parkings.ListGrouped(c.Request.Context(), usecase.ParkingListQuery{
		Airline: c.Query("airline"),
		Airport: c.Query("airport"),
		HasMap:  queryBool(c, "hasMap"),
		Search:  c.Query("search"),
		Sort:    c.Query("sort"),
		Page:    queryInt(c, "page"),
		Limit:   queryInt(c, "limit"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, env)
}

// Get handles GET /api/parkings/:id
func (h *ParkingHandler) Get(c *gin.Context) {
	parking, err := h.parkings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, parking)
}

type parkingBody struct {
	Airline string          `json:"airline"`
	Airport string          `json:"airport"`
	Gate    entity.Gate     `json:"gate"`
	MapInfo *entity.MapInfo `json:"mapInfo"`
}

// Create handles POST /api/parkings
func (h *ParkingHandler) Create(c *gin.Context) {
	var body parkingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.log, apperrors.NewValidationError("Corps de requête invalide."))
		return
	}

	parking, err := h.parkings.Create(c.Request.Context(), currentUser(c), usecase.CreateParkingInput{
		Airline: body.Airline,
		Airport: body.Airport,
		Gate:    body.Gate,
		MapInfo: body.MapInfo,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, parking)
}

type parkingPatchBody struct {
	Airline *string `json:"airline"`
	Airport *string `json:"airport"`
	Gate    *struct {
		Terminal *string `json:"terminal"`
		Porte    *string `json:"porte"`
	} `json:"gate"`
	MapInfo *struct {
		HasMap *bool   `json:"hasMap"`
		MapURL *string `json:"mapUrl"`
		Source *string `json:"source"`
	} `json:"mapInfo"`
}

// Update handles PUT /api/parkings/:id
func (h *ParkingHandler) Update(c *gin.Context) {
	var body parkingPatchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.log, apperrors.NewValidationError("Corps de requête invalide."))
		return
	}

	in := usecase.UpdateParkingInput{Airline: body.Airline, Airport: body.Airport}
	if body.Gate != nil {
		in.Gate = &usecase.GatePatch{Terminal: body.Gate.Terminal, Porte: body.Gate.Porte}
	}
	if body.MapInfo != nil {
		in.MapInfo = &usecase.MapInfoPatch{HasMap: body.MapInfo.HasMap, MapURL: body.MapInfo.MapURL, Source: body.MapInfo.Source}
	}

	parking, err := h.parkings.Update(c.Request.Context(), currentUser(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, parking)
}

// Delete handles DELETE /api/parkings/:id
func (h *ParkingHandler) Delete(c *gin.Context) {
	if err := h.parkings.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Parking supprimé avec succès."})
}

// UpdateMap handles PATCH /api/parkings/:id/map. The body is multipart: either
// a mapImage file, a mapUrl field, or neither to clear the map.
func (h *ParkingHandler) UpdateMap(c *gin.Context) {
	fileData, err := formFileBytes(c, "mapImage")
	if err != nil {
		respondError(c, h.log, apperrors.NewValidationError("Fichier de carte illisible."))
		return
	}

	parking, err := h.parkings.UpdateMap(c.Request.Context(), currentUser(c), c.Param("id"), usecase.UpdateMapInput{
		FileData: fileData,
		MapURL:   c.PostForm("mapUrl"),
		Source:   c.PostForm("source"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, parking)
}

// BulkCreate handles POST /api/parkings/bulk
func (h *ParkingHandler) BulkCreate(c *gin.Context) {
	var bodies []parkingBody
	if err := c.ShouldBindJSON(&bodies); err != nil {
		respondError(c, h.log, apperrors.NewValidationError("Corps de requête invalide."))
		return
	}
	if len(bodies) == 0 {
		respondError(c, h.log, apperrors.NewValidationError("Aucun parking fourni."))
		return
	}

	inputs := make([]usecase.CreateParkingInput, 0, len(bodies))
	for _, b := range bodies {
		inputs = append(inputs, usecase.CreateParkingInput{
			Airline: b.Airline,
			Airport: b.Airport,
			Gate:    b.Gate,
			MapInfo: b.MapInfo,
		})
	}

	result, err := h.parkings.BulkCreate(c.Request.Context(), currentUser(c), inputs)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	// Bulk imports always answer 207, even when every pair went in.
	c.JSON(http.StatusMultiStatus, result)
}

// BulkDelete handles DELETE /api/parkings/bulk
func (h *ParkingHandler) BulkDelete(c *gin.Context) {
	var body struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || len(body.IDs) == 0 {
		respondError(c, h.log, apperrors.NewValidationError("Aucun ID de parking fourni."))
		return
	}

	deleted, err := h.parkings.BulkDelete(c.Request.Context(), currentUser(c), body.IDs)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("%d parkings supprimés", deleted),
		"deletedCount": deleted,
	})
}

// CheckDuplicates handles POST /api/parkings/check-duplicates
func (h *ParkingHandler) CheckDuplicates(c *gin.Context) {
	var bodies []struct {
		Airline string `json:"airline"`
		Airport string `json:"airport"`
	}
	if err := c.ShouldBindJSON(&bodies); err != nil {
		respondError(c, h.log, apperrors.NewValidationError("Corps de requête invalide."))
		return
	}

	pairs := make([]repository.ParkingPair, 0, len(bodies))
	for _, b := range bodies {
		pairs = append(pairs, repository.ParkingPair{Airline: b.Airline, Airport: b.Airport})
	}

	duplicates, err := h.parkings.CheckDuplicates(c.Request.Context(), pairs)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"duplicates": duplicates})
}

// UniqueAirlines handles GET /api/parkings/airlines/unique
func (h *ParkingHandler) UniqueAirlines(c *gin.Context) {
	airlines, err := h.parkings.UniqueAirlines(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, airlines)
}

// UniqueAirportICAOs handles GET /api/parkings/unique-airport-icaos
func (h *ParkingHandler) UniqueAirportICAOs(c *gin.Context) {
	icaos, err := h.parkings.UniqueAirportICAOs(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, icaos)
}

// ByCountry handles GET /api/parkings/by-country?countryCodes=LF,EG
func (h *ParkingHandler) ByCountry(c *gin.Context) {
	raw := c.Query("countryCodes")
	codes := []string{}
	for _, code := range strings.Split(raw, ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}

	parkings, err := h.parkings.ByCountry(c.Request.Context(), codes)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, parkings)
}

// GlobalStats handles GET /api/parkings/stats/global
func (h *ParkingHandler) GlobalStats(c *gin.Context) {
	stats, err := h.parkings.GlobalStats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
