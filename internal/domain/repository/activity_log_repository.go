package repository

import (
	"context"
	"time"

	"aeropark-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityLogFilter narrows an activity-log listing. The date bounds are
// inclusive; EndDate is expected to already cover the full end day.
type ActivityLogFilter struct {
	UserID     *primitive.ObjectID
	Action     entity.Action
	TargetType entity.TargetType
	StartDate  *time.Time
	EndDate    *time.Time
}

// ActivityLogRepository defines the interface for audit-trail storage
type ActivityLogRepository interface {
	Insert(ctx context.Context, log *entity.ActivityLog) error
	// List returns a page of entries enriched with a minimal user projection
	// (nil user when the user has been deleted), plus the total match count.
	// sortField/sortDesc default to timestamp descending.
	List(ctx context.Context, filter ActivityLogFilter, page, limit int, sortField string, sortDesc bool) ([]entity.ActivityLogWithUser, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.ActivityLog, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
