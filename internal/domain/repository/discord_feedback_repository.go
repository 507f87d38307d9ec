package repository

import (
	"context"
	"time"

	"aeropark-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedbackFilter narrows a Discord feedback listing.
type FeedbackFilter struct {
	Status         entity.FeedbackStatus
	HasInformation *bool
	Airport        string
	Airline        string
}

// DiscordFeedbackRepository defines the interface for bot feedback storage
type DiscordFeedbackRepository interface {
	Insert(ctx context.Context, feedback *entity.DiscordFeedback) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.DiscordFeedback, error)
	FindByFeedbackID(ctx context.Context, feedbackID string) (*entity.DiscordFeedback, error)
	List(ctx context.Context, filter FeedbackFilter, page, limit int) ([]entity.DiscordFeedback, int64, error)
	Update(ctx context.Context, feedback *entity.DiscordFeedback) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	StatusCounts(ctx context.Context) ([]entity.StatusCount, error)
	TopAirports(ctx context.Context, limit int) ([]entity.AirportCount, error)
	TopAirlines(ctx context.Context, limit int) ([]entity.AirlineCount, error)
	DailyCounts(ctx context.Context, since time.Time) ([]entity.DateCount, error)
}
