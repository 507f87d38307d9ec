package repository

import (
	"context"

	"aeropark-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupSort is a validated sort key for the grouped parking listing.
type GroupSort string

const (
	GroupSortAirport          GroupSort = "airport"
	GroupSortUpdatedDesc      GroupSort = "-updatedAt"
	GroupSortUpdatedAsc       GroupSort = "updatedAt"
	GroupSortParkingCountDesc GroupSort = "-parkingCount"
	GroupSortParkingCountAsc  GroupSort = "parkingCount"
)

// ParkingGroupQuery is the filter/sort/pagination input of the grouped
// parking listing. Airline and Airport are exact uppercased ICAO matches,
// Search is a case-insensitive substring over both fields.
type ParkingGroupQuery struct {
	Airline string
	Airport string
	HasMap  *bool
	Search  string
	Sort    GroupSort
	Page    int
	Limit   int
}

// ParkingPair identifies a parking by its unique (airline, airport) pair.
type ParkingPair struct {
	Airline string `json:"airline"`
	Airport string `json:"airport"`
}

// ParkingRepository defines the interface for parking storage
type ParkingRepository interface {
	ListGrouped(ctx context.Context, q ParkingGroupQuery) ([]entity.AirportGroup, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Parking, error)
	FindByPair(ctx context.Context, airline, airport string) (*entity.Parking, error)
	FindByPairs(ctx context.Context, pairs []ParkingPair) ([]entity.Parking, error)
	ListByCountryPrefixes(ctx context.Context, prefixes []string) ([]entity.Parking, error)
	Insert(ctx context.Context, parking *entity.Parking) error
	InsertMany(ctx context.Context, parkings []entity.Parking) ([]entity.Parking, error)
	Update(ctx context.Context, parking *entity.Parking) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountByAirport(ctx context.Context, icao string) (int64, error)
	CountByAirline(ctx context.Context, icao string) (int64, error)
	DistinctAirlines(ctx context.Context) ([]string, error)
	DistinctAirports(ctx context.Context) ([]string, error)
	CountryCounts(ctx context.Context) ([]entity.CountryCount, error)
}
