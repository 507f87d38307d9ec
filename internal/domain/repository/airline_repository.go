package repository

import (
	"context"

	"aeropark-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AirlineRepository defines the interface for airline storage
type AirlineRepository interface {
	List(ctx context.Context, search string, page, limit int) ([]entity.Airline, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Airline, error)
	FindByICAO(ctx context.Context, icao string) (*entity.Airline, error)
	// FindByICAOs returns the airlines matching the given ICAOs, sorted by name.
	FindByICAOs(ctx context.Context, icaos []string) ([]entity.Airline, error)
	Insert(ctx context.Context, airline *entity.Airline) error
	Update(ctx context.Context, airline *entity.Airline) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
