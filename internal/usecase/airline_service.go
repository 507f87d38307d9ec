package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"
	"aeropark-service/internal/infrastructure/assetstore"
	"aeropark-service/pkg/apperrors"
	"aeropark-service/pkg/logger"
	"aeropark-service/pkg/metrics"
	"aeropark-service/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AirlineService implements the airline operations
type AirlineService struct {
	airlines repository.AirlineRepository
	parkings repository.ParkingRepository
	assets   assetstore.Store
	audit    *ActivityLogger
	metrics  *metrics.Metrics
	log      logger.Logger
}

// NewAirlineService creates a new airline service
func NewAirlineService(airlines repository.AirlineRepository, parkings repository.ParkingRepository, assets assetstore.Store, audit *ActivityLogger, m *metrics.Metrics, log logger.Logger) *AirlineService {
	return &AirlineService{
		airlines: airlines,
		parkings: parkings,
		assets:   assets,
		audit:    audit,
		metrics:  m,
		log:      log,
	}
}

// List returns a page of airlines.
func (s *AirlineService) List(ctx context.Context, search string, page, limit int) (utils.PageEnvelope, error) {
	page, limit = utils.ClampPage(page, limit, DefaultReferenceLimit)

	airlines, total, err := s.airlines.List(ctx, strings.TrimSpace(search), page, limit)
	if err != nil {
		return utils.PageEnvelope{}, apperrors.NewInternalError("Erreur serveur lors de la récupération des compagnies.")
	}
	if airlines == nil {
		airlines = []entity.Airline{}
	}
	return utils.NewPageEnvelope(airlines, total, page, limit), nil
}

// Get returns one airline by ID
func (s *AirlineService) Get(ctx context.Context, id string) (*entity.Airline, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewValidationError("ID de compagnie invalide.")
	}
	airline, err := s.airlines.FindByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFoundError("Compagnie non trouvée.")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur.")
	}
	return airline, nil
}

// CreateAirlineInput carries a new airline, optionally with a logo image.
type CreateAirlineInput struct {
	ICAO     string
	Name     string
	Callsign string
	Country  string
	LogoData []byte
}

// Create creates an airline with a unique ICAO. A provided logo is uploaded
// before the insert; an insert failure removes the uploaded asset again.
func (s *AirlineService) Create(ctx context.Context, actor *entity.User, in CreateAirlineInput) (*entity.Airline, error) {
	if in.ICAO == "" || in.Name == "" || in.Country == "" {
		return nil, apperrors.NewValidationError("Les champs ICAO, Nom et Pays sont requis.")
	}
	icao := strings.ToUpper(strings.TrimSpace(in.ICAO))
	if !entity.ValidAirlineICAO(icao) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Code ICAO compagnie invalide: %s.", icao))
	}

	existing, err := s.airlines.FindByICAO(ctx, icao)
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la création de la compagnie.")
	}
	if existing != nil {
		return nil, apperrors.NewDuplicateError(fmt.Sprintf("La compagnie avec l'ICAO %s existe déjà.", icao))
	}

	airline := &entity.Airline{
		ICAO:     icao,
		Name:     in.Name,
		Callsign: in.Callsign,
		Country:  in.Country,
	}

	if len(in.LogoData) > 0 {
		_, err := replaceAsset(ctx, s.assets, s.log, s.metrics, in.LogoData, icao, "", func(res *assetstore.UploadResult) error {
			airline.LogoURL = res.URL
			airline.LogoPublicID = res.PublicID
			return s.airlines.Insert(ctx, airline)
		})
		if err != nil {
			if apperrors.GetAppError(err) != nil {
				return nil, err
			}
			return nil, apperrors.NewInternalError("Erreur serveur lors de la création de la compagnie.")
		}
	} else if err := s.airlines.Insert(ctx, airline); err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la création de la compagnie.")
	}

	s.recordAudit(actor, entity.ActionCreate, entity.TargetAirline, airline.ID.Hex(), map[string]interface{}{
		"icao": icao,
		"name": airline.Name,
	})
	return airline, nil
}

// AirlinePatch carries a partial airline update. ClearLogo removes the
// current logo without replacing it.
type AirlinePatch struct {
	Name      *string
	Callsign  *string
	Country   *string
	LogoData  []byte
	ClearLogo bool
}

// Update applies a partial update to an airline. A new logo replaces the
// stored asset only after the record write succeeded; a no-op update skips
// both the save and the audit entry.
func (s *AirlineService) Update(ctx context.Context, actor *entity.User, id string, in AirlinePatch) (*entity.Airline, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewValidationError("ID de compagnie invalide.")
	}
	airline, err := s.airlines.FindByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFoundError("Compagnie non trouvée.")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la mise à jour.")
	}

	oldLogoURL := airline.LogoURL
	oldLogoPublicID := airline.LogoPublicID

	changes := map[string]interface{}{}
	if in.Name != nil && *in.Name != airline.Name {
		changes["name"] = map[string]interface{}{"before": airline.Name, "after": *in.Name}
		airline.Name = *in.Name
	}
	if in.Callsign != nil && *in.Callsign != airline.Callsign {
		changes["callsign"] = map[string]interface{}{"before": airline.Callsign, "after": *in.Callsign}
		airline.Callsign = *in.Callsign
	}
	if in.Country != nil && *in.Country != airline.Country {
		changes["country"] = map[string]interface{}{"before": airline.Country, "after": *in.Country}
		airline.Country = *in.Country
	}

	switch {
	case len(in.LogoData) > 0:
		_, err := replaceAsset(ctx, s.assets, s.log, s.metrics, in.LogoData, airline.ICAO, oldLogoPublicID, func(res *assetstore.UploadResult) error {
			airline.LogoURL = res.URL
			airline.LogoPublicID = res.PublicID
			return s.airlines.Update(ctx, airline)
		})
		if err != nil {
			if apperrors.GetAppError(err) != nil {
				return nil, err
			}
			return nil, apperrors.NewInternalError("Erreur serveur lors de la mise à jour.")
		}
		changes["logoUrl"] = map[string]interface{}{"before": oldLogoURL, "after": airline.LogoURL}

	case in.ClearLogo && (oldLogoURL != "" || oldLogoPublicID != ""):
		changes["logoUrl"] = map[string]interface{}{"before": oldLogoURL, "after": ""}
		airline.LogoURL = ""
		airline.LogoPublicID = ""
		if err := s.airlines.Update(ctx, airline); err != nil {
			return nil, apperrors.NewInternalError("Erreur serveur lors de la mise à jour.")
		}
		deleteAsset(ctx, s.assets, s.log, s.metrics, oldLogoPublicID)

	default:
		if len(changes) == 0 {
			return airline, nil
		}
		if err := s.airlines.Update(ctx, airline); err != nil {
			return nil, apperrors.NewInternalError("Erreur serveur lors de la mise à jour.")
		}
	}

	s.recordAudit(actor, entity.ActionUpdate, entity.TargetAirline, airline.ID.Hex(), map[string]interface{}{
		"icao":    airline.ICAO,
		"changes": changes,
	})
	return airline, nil
}

// UpdateLogo replaces only the logo of an airline. The new asset gets a
// timestamped public ID so CDN caches never serve the old image.
func (s *AirlineService) UpdateLogo(ctx context.Context, actor *entity.User, id string, logoData []byte) (*entity.Airline, error) {
	if len(logoData) == 0 {
		return nil, apperrors.NewValidationError("Aucun fichier de logo fourni.")
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewValidationError("ID de compagnie invalide.")
	}
	airline, err := s.airlines.FindByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFoundError("Compagnie non trouvée.")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la mise à jour du logo.")
	}

	publicID := fmt.Sprintf("%s/airline_%s_%d", assetstore.FolderAirlineLogos, id, time.Now().UnixMilli())
	_, err = replaceAsset(ctx, s.assets, s.log, s.metrics, logoData, publicID, airline.LogoPublicID, func(res *assetstore.UploadResult) error {
		airline.LogoURL = res.URL
		airline.LogoPublicID = res.PublicID
		return s.airlines.Update(ctx, airline)
	})
	if err != nil {
		if apperrors.GetAppError(err) != nil {
			return nil, err
		}
		return nil, apperrors.NewInternalError("Erreur serveur lors de la mise à jour du logo.")
	}

	s.recordAudit(actor, entity.ActionUpdateLogo, entity.TargetAirline, airline.ID.Hex(), map[string]interface{}{
		"icao": airline.ICAO,
	})
	return airline, nil
}

// Delete removes an airline and, best-effort, its stored logo. Deletion is
// blocked while parkings still reference its ICAO.
func (s *AirlineService) Delete(ctx context.Context, actor *entity.User, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NewValidationError("ID de compagnie invalide.")
	}
	airline, err := s.airlines.FindByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		return apperrors.NewNotFoundError("Compagnie non trouvée.")
	}
	if err != nil {
		return apperrors.NewInternalError("Erreur serveur lors de la suppression.")
	}

	referencing, err := s.parkings.CountByAirline(ctx, airline.ICAO)
	if err != nil {
		return apperrors.NewInternalError("Erreur serveur lors de la suppression.")
	}
	if referencing > 0 {
		return apperrors.NewDuplicateError(fmt.Sprintf("Cette compagnie est utilisée par %d parking(s) et ne peut pas être supprimée.", referencing))
	}

	if err := s.airlines.Delete(ctx, oid); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperrors.NewNotFoundError("Compagnie non trouvée.")
		}
		return apperrors.NewInternalError("Erreur serveur lors de la suppression.")
	}

	deleteAsset(ctx, s.assets, s.log, s.metrics, airline.LogoPublicID)

	s.recordAudit(actor, entity.ActionDelete, entity.TargetAirline, id, map[string]interface{}{
		"icao": airline.ICAO,
		"name": airline.Name,
	})
	return nil
}

// ManagedAirlines lists the airlines actually referenced by parkings, plus
// the ICAOs referenced without a matching airline record.
type ManagedAirlines struct {
	ManagedAirlines []entity.Airline `json:"managedAirlines"`
	MissingICAOs    []string         `json:"missingIcaos"`
}

// Managed returns the airlines present in parkings and the missing ICAOs.
func (s *AirlineService) Managed(ctx context.Context) (*ManagedAirlines, error) {
	parkingICAOs, err := s.parkings.DistinctAirlines(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la récupération des compagnies gérables.")
	}
	if len(parkingICAOs) == 0 {
		return &ManagedAirlines{ManagedAirlines: []entity.Airline{}, MissingICAOs: []string{}}, nil
	}

	airlines, err := s.airlines.FindByICAOs(ctx, parkingICAOs)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la récupération des compagnies gérables.")
	}
	if airlines == nil {
		airlines = []entity.Airline{}
	}

	found := make(map[string]struct{}, len(airlines))
	for _, a := range airlines {
		found[a.ICAO] = struct{}{}
	}
	missing := make([]string, 0)
	for _, icao := range parkingICAOs {
		if _, ok := found[icao]; !ok {
			missing = append(missing, icao)
		}
	}
	sort.Strings(missing)

	return &ManagedAirlines{ManagedAirlines: airlines, MissingICAOs: missing}, nil
}

func (s *AirlineService) recordAudit(actor *entity.User, action entity.Action, target entity.TargetType, targetID string, details map[string]interface{}) {
	actorID := primitive.NilObjectID
	if actor != nil {
		actorID = actor.ID
	}
	s.audit.Record(actorID, action, target, targetID, details)
}
