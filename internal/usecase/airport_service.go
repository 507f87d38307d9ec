package usecase

import (
	"context"
	"fmt"
	"strings"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"
	"aeropark-service/pkg/apperrors"
	"aeropark-service/pkg/logger"
	"aeropark-service/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DefaultReferenceLimit is the default page size of the airport and airline
// listings, larger than the parking default because these are lookup tables.
const DefaultReferenceLimit = 25

// AirportService implements the airport operations
type AirportService struct {
	airports repository.AirportRepository
	parkings repository.ParkingRepository
	audit    *ActivityLogger
	log      logger.Logger
}

// NewAirportService creates a new airport service
func NewAirportService(airports repository.AirportRepository, parkings repository.ParkingRepository, audit *ActivityLogger, log logger.Logger) *AirportService {
	return &AirportService{
		airports: airports,
		parkings: parkings,
		audit:    audit,
		log:      log,
	}
}

// List returns a page of airports with their parking counts.
func (s *AirportService) List(ctx context.Context, search string, page, limit int) (utils.PageEnvelope, error) {
	page, limit = utils.ClampPage(page, limit, DefaultReferenceLimit)

	airports, total, err := s.airports.List(ctx, strings.TrimSpace(search), page, limit)
	if err != nil {
		return utils.PageEnvelope{}, apperrors.NewInternalError("Erreur serveur lors de la récupération des aéroports.")
	}
	if airports == nil {
		airports = []entity.AirportWithParkingCount{}
	}
	return utils.NewPageEnvelope(airports, total, page, limit), nil
}

// Get returns one airport by ID
func (s *AirportService) Get(ctx context.Context, id string) (*entity.Airport, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewValidationError("ID d'aéroport invalide.")
	}
	airport, err := s.airports.FindByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFoundError("Aéroport non trouvé.")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur.")
	}
	return airport, nil
}

// AirportInput carries airport attributes for create and update.
type AirportInput struct {
	ICAO      string
	Name      string
	City      string
	Country   string
	Latitude  float64
	Longitude float64
	Elevation float64
	Timezone  string
}

// Create creates an airport with a unique ICAO.
func (s *AirportService) Create(ctx context.Context, actor *entity.User, in AirportInput) (*entity.Airport, error) {
	if in.ICAO == "" || in.Name == "" {
		return nil, apperrors.NewValidationError("Les champs ICAO et Nom sont requis.")
	}
	icao := strings.ToUpper(strings.TrimSpace(in.ICAO))
	if !entity.ValidAirportICAO(icao) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Code ICAO aéroport invalide: %s.", icao))
	}

	existing, err := s.airports.FindByICAO(ctx, icao)
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la création de l'aéroport.")
	}
	if existing != nil {
		return nil, apperrors.NewDuplicateError(fmt.Sprintf("L'aéroport avec l'ICAO %s existe déjà.", icao))
	}

	airport := &entity.Airport{
		ICAO:      icao,
		Name:      in.Name,
		City:      in.City,
		Country:   in.Country,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Elevation: in.Elevation,
		Timezone:  in.Timezone,
	}
	if actor != nil {
		airport.CreatedBy = actor.ID
		airport.LastUpdatedBy = actor.ID
	}

	if err := s.airports.Insert(ctx, airport); err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la création de l'aéroport.")
	}

	s.recordAudit(actor, entity.ActionCreate, entity.TargetAirport, airport.ID.Hex(), map[string]interface{}{
		"icao": icao,
		"name": airport.Name,
	})
	return airport, nil
}

// AirportPatch carries a partial airport update. A changed ICAO must remain
// unique.
type AirportPatch struct {
	ICAO      *string
	Name      *string
	City      *string
	Country   *string
	Latitude  *float64
	Longitude *float64
	Elevation *float64
	Timezone  *string
}

// Update applies a partial update to an airport. A no-op update skips both
// the save and the audit entry.
func (s *AirportService) Update(ctx context.Context, actor *entity.User, id string, in AirportPatch) (*entity.Airport, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewValidationError("ID d'aéroport invalide.")
	}
	airport, err := s.airports.FindByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFoundError("Aéroport non trouvé.")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la mise à jour.")
	}

	changes := map[string]interface{}{}
	if in.ICAO != nil {
		icao := strings.ToUpper(strings.TrimSpace(*in.ICAO))
		if icao != airport.ICAO {
			if !entity.ValidAirportICAO(icao) {
				return nil, apperrors.NewValidationError(fmt.Sprintf("Code ICAO aéroport invalide: %s.", icao))
			}
			other, err := s.airports.FindByICAO(ctx, icao)
			if err != nil && err != mongo.ErrNoDocuments {
				return nil, apperrors.NewInternalError("Erreur serveur lors de la mise à jour.")
			}
			if other != nil && other.ID != airport.ID {
				return nil, apperrors.NewDuplicateError(fmt.Sprintf("L'ICAO %s est déjà utilisé par un autre aéroport.", icao))
			}
			changes["icao"] = map[string]interface{}{"before": airport.ICAO, "after": icao}
			airport.ICAO = icao
		}
	}
	if in.Name != nil && *in.Name != airport.Name {
		changes["name"] = map[string]interface{}{"before": airport.Name, "after": *in.Name}
		airport.Name = *in.Name
	}
	if in.City != nil && *in.City != airport.City {
		changes["city"] = map[string]interface{}{"before": airport.City, "after": *in.City}
		airport.City = *in.City
	}
	if in.Country != nil && *in.Country != airport.Country {
		changes["country"] = map[string]interface{}{"before": airport.Country, "after": *in.Country}
		airport.Country = *in.Country
	}
	if in.Latitude != nil && *in.Latitude != airport.Latitude {
		changes["latitude"] = map[string]interface{}{"before": airport.Latitude, "after": *in.Latitude}
		airport.Latitude = *in.Latitude
	}
	if in.Longitude != nil && *in.Longitude != airport.Longitude {
		changes["longitude"] = map[string]interface{}{"before": airport.Longitude, "after": *in.Longitude}
		airport.Longitude = *in.Longitude
	}
	if in.Elevation != nil && *in.Elevation != airport.Elevation {
		changes["elevation"] = map[string]interface{}{"before": airport.Elevation, "after": *in.Elevation}
		airport.Elevation = *in.Elevation
	}
	if in.Timezone != nil && *in.Timezone != airport.Timezone {
		changes["timezone"] = map[string]interface{}{"before": airport.Timezone, "after": *in.Timezone}
		airport.Timezone = *in.Timezone
	}

	if len(changes) == 0 {
		return airport, nil
	}

	if actor != nil {
		airport.LastUpdatedBy = actor.ID
	}

	if err := s.airports.Update(ctx, airport); err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la mise à jour.")
	}

	s.recordAudit(actor, entity.ActionUpdate, entity.TargetAirport, airport.ID.Hex(), map[string]interface{}{
		"icao":    airport.ICAO,
		"changes": changes,
	})
	return airport, nil
}

// Delete removes an airport. Deletion is blocked while parkings still
// reference its ICAO.
func (s *AirportService) Delete(ctx context.Context, actor *entity.User, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NewValidationError("ID d'aéroport invalide.")
	}
	airport, err := s.airports.FindByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		return apperrors.NewNotFoundError("Aéroport non trouvé.")
	}
	if err != nil {
		return apperrors.NewInternalError("Erreur serveur lors de la suppression.")
	}

	referencing, err := s.parkings.CountByAirport(ctx, airport.ICAO)
	if err != nil {
		return apperrors.NewInternalError("Erreur serveur lors de la suppression.")
	}
	if referencing > 0 {
		return apperrors.NewDuplicateError(fmt.Sprintf("Cet aéroport est utilisé par %d parking(s) et ne peut pas être supprimé.", referencing))
	}

	if err := s.airports.Delete(ctx, oid); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperrors.NewNotFoundError("Aéroport non trouvé.")
		}
		return apperrors.NewInternalError("Erreur serveur lors de la suppression.")
	}

	s.recordAudit(actor, entity.ActionDelete, entity.TargetAirport, id, map[string]interface{}{
		"icao": airport.ICAO,
		"name": airport.Name,
	})
	return nil
}

func (s *AirportService) recordAudit(actor *entity.User, action entity.Action, target entity.TargetType, targetID string, details map[string]interface{}) {
	actorID := primitive.NilObjectID
	if actor != nil {
		actorID = actor.ID
	}
	s.audit.Record(actorID, action, target, targetID, details)
}
