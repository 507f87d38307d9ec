package repository

import (
	"context"

	"aeropark-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AirportRepository defines the interface for airport storage
type AirportRepository interface {
	// List returns a page of airports enriched with their parking count,
	// text-searched when search is non-empty, plus the total match count.
	List(ctx context.Context, search string, page, limit int) ([]entity.AirportWithParkingCount, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Airport, error)
	FindByICAO(ctx context.Context, icao string) (*entity.Airport, error)
	Insert(ctx context.Context, airport *entity.Airport) error
	Update(ctx context.Context, airport *entity.Airport) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
