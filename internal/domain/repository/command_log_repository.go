package repository

import (
	"context"
	"time"

	"aeropark-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommandLogFilter narrows a command-log listing. Search is a
// case-insensitive substring over user nickname, airport and airline.
type CommandLogFilter struct {
	Search string
	Since  *time.Time
}

// CommandLogRepository defines the interface for Discord command logs
type CommandLogRepository interface {
	List(ctx context.Context, filter CommandLogFilter, page, limit int) ([]entity.CommandLog, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	// OldestTimestamp returns nil when the collection is empty.
	OldestTimestamp(ctx context.Context) (*time.Time, error)

	// Statistics aggregations, all restricted to entries at or after since
	// when since is non-nil.
	Summary(ctx context.Context, since *time.Time) (entity.CommandStatsSummary, entity.AcarsStatsSummary, error)
	UsageByDay(ctx context.Context, since *time.Time, acarsOnly bool) ([]entity.DailyUsage, error)
	TopAirports(ctx context.Context, since *time.Time, limit int) ([]entity.AirportCount, error)
	TopAirlines(ctx context.Context, since *time.Time, limit int) ([]entity.AirlineCount, error)
	TopAcarsNetworks(ctx context.Context, since *time.Time, limit int) ([]entity.NetworkCount, error)
}
