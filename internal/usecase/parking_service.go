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

// ParkingService implements the parking operations
type ParkingService struct {
	parkings repository.ParkingRepository
	assets   assetstore.Store
	audit    *ActivityLogger
	metrics  *metrics.Metrics
	log      logger.Logger
}

// NewParkingService creates a new parking service
func NewParkingService(parkings repository.ParkingRepository, assets assetstore.Store, audit *ActivityLogger, m *metrics.Metrics, log logger.Logger) *ParkingService {
	return &ParkingService{
		parkings: parkings,
		assets:   assets,
		audit:    audit,
		metrics:  m,
		log:      log,
	}
}

// ParkingListQuery is the grouped listing input as received from the HTTP
// layer, before normalization.
type ParkingListQuery struct {
	Airline string
	Airport string
	HasMap  *bool
	Search  string
	Sort    string
	Page    int
	Limit   int
}

var knownGroupSorts = map[repository.GroupSort]struct{}{
	repository.GroupSortAirport:          {},
	repository.GroupSortUpdatedDesc:      {},
	repository.GroupSortUpdatedAsc:       {},
	repository.GroupSortParkingCountDesc: {},
	repository.GroupSortParkingCountAsc:  {},
}

// ListGrouped returns the paginated airport groups matching the query.
// An unknown sort key falls back to the default with a warning rather than
// an error.
func (s *ParkingService) ListGrouped(ctx context.Context, q ParkingListQuery) (utils.PageEnvelope, error) {
	sortKey := repository.GroupSortAirport
	if q.Sort != "" {
		if _, ok := knownGroupSorts[repository.GroupSort(q.Sort)]; ok {
			sortKey = repository.GroupSort(q.Sort)
		} else {
			s.log.Warn("unknown parking sort key, using default", "sort", q.Sort)
		}
	}

	page, limit := utils.ClampPage(q.Page, q.Limit, utils.DefaultLimit)

	groups, total, err := s.parkings.ListGrouped(ctx, repository.ParkingGroupQuery{
		Airline: strings.ToUpper(q.Airline),
		Airport: strings.ToUpper(q.Airport),
		HasMap:  q.HasMap,
		Search:  strings.TrimSpace(q.Search),
		Sort:    sortKey,
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return utils.PageEnvelope{}, apperrors.NewInternalError("Erreur serveur lors de la récupération agrégée des parkings.")
	}
	if groups == nil {
		groups = []entity.AirportGroup{}
	}
	return utils.NewPageEnvelope(groups, total, page, limit), nil
}

// Get returns one parking by ID
func (s *ParkingService) Get(ctx context.Context, id string) (*entity.Parking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewValidationError("ID de parking invalide.")
	}
	parking, err := s.parkings.FindByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFoundError("Parking non trouvé.")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur.")
	}
	return parking, nil
}

// CreateParkingInput carries a new parking
type CreateParkingInput struct {
	Airline string
	Airport string
	Gate    entity.Gate
	MapInfo *entity.MapInfo
}

// Create creates a parking. The (airline, airport) pair is uppercased and
// must not already exist.
func (s *ParkingService) Create(ctx context.Context, actor *entity.User, in CreateParkingInput) (*entity.Parking, error) {
	if in.Airline == "" || in.Airport == "" {
		return nil, apperrors.NewValidationError("Les champs Airline (ICAO) et Airport (ICAO) sont requis.")
	}

	airline := strings.ToUpper(strings.TrimSpace(in.Airline))
	airport := strings.ToUpper(strings.TrimSpace(in.Airport))
	if !entity.ValidAirlineICAO(airline) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Code ICAO compagnie invalide: %s.", airline))
	}
	if !entity.ValidAirportICAO(airport) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Code ICAO aéroport invalide: %s.", airport))
	}

	existing, err := s.parkings.FindByPair(ctx, airline, airport)
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la création.")
	}
	if existing != nil {
		return nil, apperrors.NewDuplicateError(fmt.Sprintf("Un parking existe déjà pour %s/%s.", airline, airport))
	}

	parking := &entity.Parking{
		Airline: airline,
		Airport: airport,
		Gate:    in.Gate,
	}
	if in.MapInfo != nil {
		parking.MapInfo = *in.MapInfo
	}
	if actor != nil {
		parking.CreatedBy = actor.ID
		parking.LastUpdatedBy = actor.ID
	}

	if err := s.parkings.Insert(ctx, parking); err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la création.")
	}

	s.recordAudit(actor, entity.ActionCreate, entity.TargetParking, parking.ID.Hex(), map[string]interface{}{
		"airline": airline,
		"airport": airport,
	})
	return parking, nil
}

// UpdateParkingInput carries a partial parking update. Airline and Airport
// are present only to reject attempts to change the identity pair.
type UpdateParkingInput struct {
	Airline *string
	Airport *string
	Gate    *GatePatch
	MapInfo *MapInfoPatch
}

type GatePatch struct {
	Terminal *string
	Porte    *string
}

type MapInfoPatch struct {
	HasMap *bool
	MapURL *string
	Source *string
}

// Update applies a partial update to gate and map info. The identity pair
// is immutable; a no-op update skips both the save and the audit entry.
func (s *ParkingService) Update(ctx context.Context, actor *entity.User, id string, in UpdateParkingInput) (*entity.Parking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewValidationError("ID de parking invalide.")
	}
	if in.Airline != nil || in.Airport != nil {
		return nil, apperrors.NewValidationError("La modification de l'airline ou de l'airport n'est pas permise via PUT. Supprimez et recréez si nécessaire.")
	}

	parking, err := s.parkings.FindByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFoundError("Parking non trouvé.")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la mise à jour.")
	}

	changes := map[string]interface{}{}
	if in.Gate != nil {
		if in.Gate.Terminal != nil && *in.Gate.Terminal != parking.Gate.Terminal {
			changes["gate.terminal"] = map[string]interface{}{"before": parking.Gate.Terminal, "after": *in.Gate.Terminal}
			parking.Gate.Terminal = *in.Gate.Terminal
		}
		if in.Gate.Porte != nil && *in.Gate.Porte != parking.Gate.Porte {
			changes["gate.porte"] = map[string]interface{}{"before": parking.Gate.Porte, "after": *in.Gate.Porte}
			parking.Gate.Porte = *in.Gate.Porte
		}
	}
	if in.MapInfo != nil {
		if in.MapInfo.HasMap != nil && *in.MapInfo.HasMap != parking.MapInfo.HasMap {
			changes["mapInfo.hasMap"] = map[string]interface{}{"before": parking.MapInfo.HasMap, "after": *in.MapInfo.HasMap}
			parking.MapInfo.HasMap = *in.MapInfo.HasMap
		}
		if in.MapInfo.MapURL != nil && *in.MapInfo.MapURL != parking.MapInfo.MapURL {
			changes["mapInfo.mapUrl"] = map[string]interface{}{"before": parking.MapInfo.MapURL, "after": *in.MapInfo.MapURL}
			parking.MapInfo.MapURL = *in.MapInfo.MapURL
		}
		if in.MapInfo.Source != nil && *in.MapInfo.Source != parking.MapInfo.Source {
			changes["mapInfo.source"] = map[string]interface{}{"before": parking.MapInfo.Source, "after": *in.MapInfo.Source}
			parking.MapInfo.Source = *in.MapInfo.Source
		}
	}

	if len(changes) == 0 {
		return parking, nil
	}

	if actor != nil {
		parking.LastUpdatedBy = actor.ID
	}
	if err := s.parkings.Update(ctx, parking); err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la mise à jour.")
	}

	s.recordAudit(actor, entity.ActionUpdate, entity.TargetParking, parking.ID.Hex(), map[string]interface{}{
		"airline": parking.Airline,
		"airport": parking.Airport,
		"changes": changes,
	})
	return parking, nil
}

// Delete removes a parking and, best-effort, its externally stored map.
func (s *ParkingService) Delete(ctx context.Context, actor *entity.User, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NewValidationError("ID de parking invalide.")
	}

	parking, err := s.parkings.FindByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		return apperrors.NewNotFoundError("Parking non trouvé.")
	}
	if err != nil {
		return apperrors.NewInternalError("Erreur serveur lors de la suppression.")
	}

	if parking.MapInfo.MapURL != "" && parking.MapInfo.Source == entity.MapSourceCloudinary {
		publicID := assetstore.ResolvePublicID(parking.MapInfo.MapURL, assetstore.FolderParkingMaps)
		deleteAsset(ctx, s.assets, s.log, s.metrics, publicID)
	}

	if err := s.parkings.Delete(ctx, oid); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperrors.NewNotFoundError("Parking non trouvé.")
		}
		return apperrors.NewInternalError("Erreur serveur lors de la suppression.")
	}

	s.recordAudit(actor, entity.ActionDelete, entity.TargetParking, id, map[string]interface{}{
		"airline": parking.Airline,
		"airport": parking.Airport,
	})
	return nil
}

// UpdateMapInput carries a map change: either an uploaded image, an external
// URL, or neither (which clears the map).
type UpdateMapInput struct {
	FileData []byte
	MapURL   string
	Source   string
}

// UpdateMap replaces, sets or clears the stand map of a parking.
func (s *ParkingService) UpdateMap(ctx context.Context, actor *entity.User, id string, in UpdateMapInput) (*entity.Parking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewValidationError("ID de parking invalide.")
	}
	parking, err := s.parkings.FindByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFoundError("Parking non trouvé.")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la mise à jour de la carte.")
	}

	oldPublicID := ""
	if parking.MapInfo.MapURL != "" && parking.MapInfo.Source == entity.MapSourceCloudinary {
		oldPublicID = assetstore.ResolvePublicID(parking.MapInfo.MapURL, assetstore.FolderParkingMaps)
	}

	switch {
	case len(in.FileData) > 0:
		publicID := fmt.Sprintf("%s/parking_%s_%d", assetstore.FolderParkingMaps, id, time.Now().UnixMilli())
		_, err := replaceAsset(ctx, s.assets, s.log, s.metrics, in.FileData, publicID, oldPublicID, func(res *assetstore.UploadResult) error {
			parking.MapInfo = entity.MapInfo{HasMap: true, MapURL: res.URL, Source: entity.MapSourceCloudinary}
			if actor != nil {
				parking.LastUpdatedBy = actor.ID
			}
			return s.parkings.Update(ctx, parking)
		})
		if err != nil {
			if apperrors.GetAppError(err) != nil {
				return nil, err
			}
			return nil, apperrors.NewInternalError("Erreur serveur lors de la mise à jour de la carte.")
		}

	case in.MapURL != "":
		source := in.Source
		if source == "" {
			source = "URL externe"
		}
		parking.MapInfo = entity.MapInfo{HasMap: true, MapURL: in.MapURL, Source: source}
		if actor != nil {
			parking.LastUpdatedBy = actor.ID
		}
		if err := s.parkings.Update(ctx, parking); err != nil {
			return nil, apperrors.NewInternalError("Erreur serveur lors de la mise à jour de la carte.")
		}

	default:
		// No file and no URL clears the map, removing the stored asset.
		deleteAsset(ctx, s.assets, s.log, s.metrics, oldPublicID)
		parking.MapInfo = entity.MapInfo{HasMap: false}
		if actor != nil {
			parking.LastUpdatedBy = actor.ID
		}
		if err := s.parkings.Update(ctx, parking); err != nil {
			return nil, apperrors.NewInternalError("Erreur serveur lors de la mise à jour de la carte.")
		}
	}

	s.recordAudit(actor, entity.ActionUpdateMap, entity.TargetParking, id, map[string]interface{}{
		"airline": parking.Airline,
		"airport": parking.Airport,
		"hasMap":  parking.MapInfo.HasMap,
		"source":  parking.MapInfo.Source,
	})
	return parking, nil
}

// DuplicateDetail describes one rejected pair of a bulk operation.
type DuplicateDetail struct {
	Airline string `json:"airline"`
	Airport string `json:"airport"`
	Reason  string `json:"reason"`
}

// BulkCreateSummary counts the outcome of a bulk import.
type BulkCreateSummary struct {
	Total      int `json:"total"`
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
}

// BulkCreateResult is the multi-status outcome of a bulk import.
type BulkCreateResult struct {
	Status           string            `json:"status"`
	Summary          BulkCreateSummary `json:"summary"`
	DuplicateDetails []DuplicateDetail `json:"duplicateDetails"`
	Parkings         []entity.Parking  `json:"parkings"`
}

// BulkCreate imports parkings, skipping pairs that already exist. Existing
// pairs are reported, not treated as errors.
func (s *ParkingService) BulkCreate(ctx context.Context, actor *entity.User, inputs []CreateParkingInput) (*BulkCreateResult, error) {
	pairs := make([]repository.ParkingPair, 0, len(inputs))
	candidates := make([]entity.Parking, 0, len(inputs))
	seen := make(map[repository.ParkingPair]struct{}, len(inputs))
	batchDuplicates := []DuplicateDetail{}
	for _, in := range inputs {
		airline := strings.ToUpper(strings.TrimSpace(in.Airline))
		airport := strings.ToUpper(strings.TrimSpace(in.Airport))
		if airline == "" || airport == "" {
			continue
		}
		pair := repository.ParkingPair{Airline: airline, Airport: airport}
		// A pair repeated within the batch would trip the unique index and
		// abort the whole insert, so only the first occurrence is kept.
		if _, dup := seen[pair]; dup {
			batchDuplicates = append(batchDuplicates, DuplicateDetail{
				Airline: airline,
				Airport: airport,
				Reason:  fmt.Sprintf("La combinaison %s/%s apparaît plusieurs fois dans la requête", airline, airport),
			})
			continue
		}
		seen[pair] = struct{}{}
		pairs = append(pairs, pair)
		p := entity.Parking{Airline: airline, Airport: airport, Gate: in.Gate}
		if in.MapInfo != nil {
			p.MapInfo = *in.MapInfo
		}
		if actor != nil {
			p.CreatedBy = actor.ID
			p.LastUpdatedBy = actor.ID
		}
		candidates = append(candidates, p)
	}

	existing, err := s.parkings.FindByPairs(ctx, pairs)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la création en masse.")
	}

	existingSet := make(map[repository.ParkingPair]struct{}, len(existing))
	duplicates := make([]DuplicateDetail, 0, len(existing))
	for _, p := range existing {
		pair := repository.ParkingPair{Airline: p.Airline, Airport: p.Airport}
		existingSet[pair] = struct{}{}
		duplicates = append(duplicates, DuplicateDetail{
			Airline: p.Airline,
			Airport: p.Airport,
			Reason:  fmt.Sprintf("La combinaison %s/%s existe déjà", p.Airline, p.Airport),
		})
	}
	duplicates = append(duplicates, batchDuplicates...)

	toInsert := make([]entity.Parking, 0, len(candidates))
	for _, p := range candidates {
		if _, dup := existingSet[repository.ParkingPair{Airline: p.Airline, Airport: p.Airport}]; !dup {
			toInsert = append(toInsert, p)
		}
	}

	inserted := []entity.Parking{}
	if len(toInsert) > 0 {
		inserted, err = s.parkings.InsertMany(ctx, toInsert)
		if err != nil {
			return nil, apperrors.NewInternalError("Erreur serveur lors de la création en masse.")
		}
	}

	status := "success"
	if len(duplicates) > 0 {
		status = "partial"
	}

	if len(inserted) > 0 {
		s.recordAudit(actor, entity.ActionBulkCreate, entity.TargetParking, "", map[string]interface{}{
			"total":      len(inputs),
			"inserted":   len(inserted),
			"duplicates": len(duplicates),
		})
	}

	return &BulkCreateResult{
		Status: status,
		Summary: BulkCreateSummary{
			Total:      len(inputs),
			Inserted:   len(inserted),
			Duplicates: len(duplicates),
		},
		DuplicateDetails: duplicates,
		Parkings:         inserted,
	}, nil
}

// BulkDelete removes the given parkings and returns how many went away.
func (s *ParkingService) BulkDelete(ctx context.Context, actor *entity.User, ids []string) (int64, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return 0, apperrors.NewValidationError("ID de parking invalide.")
		}
		oids = append(oids, oid)
	}

	deleted, err := s.parkings.DeleteMany(ctx, oids)
	if err != nil {
		return 0, apperrors.NewInternalError("Erreur serveur lors de la suppression en masse.")
	}

	if deleted > 0 {
		s.recordAudit(actor, entity.ActionBulkDelete, entity.TargetParking, "", map[string]interface{}{
			"requested": len(ids),
			"deleted":   deleted,
		})
	}
	return deleted, nil
}

// CheckDuplicates reports which of the given pairs already exist.
func (s *ParkingService) CheckDuplicates(ctx context.Context, inputs []repository.ParkingPair) ([]DuplicateDetail, error) {
	pairs := make([]repository.ParkingPair, 0, len(inputs))
	for _, in := range inputs {
		airline := strings.ToUpper(strings.TrimSpace(in.Airline))
		airport := strings.ToUpper(strings.TrimSpace(in.Airport))
		if airline == "" || airport == "" {
			continue
		}
		pairs = append(pairs, repository.ParkingPair{Airline: airline, Airport: airport})
	}
	if len(pairs) == 0 {
		return []DuplicateDetail{}, nil
	}

	existing, err := s.parkings.FindByPairs(ctx, pairs)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la vérification des doublons.")
	}

	duplicates := make([]DuplicateDetail, 0, len(existing))
	for _, p := range existing {
		duplicates = append(duplicates, DuplicateDetail{
			Airline: p.Airline,
			Airport: p.Airport,
			Reason:  fmt.Sprintf("La combinaison %s/%s existe déjà dans la base de données", p.Airline, p.Airport),
		})
	}
	return duplicates, nil
}

// UniqueAirlines returns the airline ICAOs present in parkings.
func (s *ParkingService) UniqueAirlines(ctx context.Context) ([]string, error) {
	icaos, err := s.parkings.DistinctAirlines(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la récupération des compagnies uniques.")
	}
	if icaos == nil {
		icaos = []string{}
	}
	return icaos, nil
}

// UniqueAirportICAOs returns the airport ICAOs present in parkings, sorted.
func (s *ParkingService) UniqueAirportICAOs(ctx context.Context) ([]string, error) {
	icaos, err := s.parkings.DistinctAirports(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la récupération des ICAO d'aéroports.")
	}
	if icaos == nil {
		icaos = []string{}
	}
	sort.Strings(icaos)
	return icaos, nil
}

// ByCountry returns all parkings whose airport belongs to one of the given
// 2-letter ICAO country prefixes.
func (s *ParkingService) ByCountry(ctx context.Context, codes []string) ([]entity.Parking, error) {
	prefixes := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if len(code) == 2 && code[0] >= 'A' && code[0] <= 'Z' && code[1] >= 'A' && code[1] <= 'Z' {
			prefixes = append(prefixes, code)
		}
	}
	if len(prefixes) == 0 {
		return nil, apperrors.NewValidationError("Aucun code pays valide fourni dans countryCodes.")
	}

	parkings, err := s.parkings.ListByCountryPrefixes(ctx, prefixes)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la récupération des parkings.")
	}
	if parkings == nil {
		parkings = []entity.Parking{}
	}
	return parkings, nil
}

// GlobalStats summarizes the whole parking collection.
func (s *ParkingService) GlobalStats(ctx context.Context) (*entity.ParkingGlobalStats, error) {
	total, err := s.parkings.Count(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la récupération des statistiques globales.")
	}
	airports, err := s.parkings.DistinctAirports(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la récupération des statistiques globales.")
	}
	airlines, err := s.parkings.DistinctAirlines(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la récupération des statistiques globales.")
	}
	countryCounts, err := s.parkings.CountryCounts(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la récupération des statistiques globales.")
	}
	if countryCounts == nil {
		countryCounts = []entity.CountryCount{}
	}

	countries := make([]string, 0, len(countryCounts))
	for _, c := range countryCounts {
		countries = append(countries, c.Code)
	}
	sort.Strings(countries)

	return &entity.ParkingGlobalStats{
		TotalParkings:  total,
		TotalAirports:  len(airports),
		TotalCompanies: len(airlines),
		TotalCountries: len(countries),
		Countries:      countries,
		CountryCounts:  countryCounts,
	}, nil
}

func (s *ParkingService) recordAudit(actor *entity.User, action entity.Action, target entity.TargetType, targetID string, details map[string]interface{}) {
	actorID := primitive.NilObjectID
	if actor != nil {
		actorID = actor.ID
	}
	s.audit.Record(actorID, action, target, targetID, details)
}
