package usecase

import (
	"context"
	"strings"
	"time"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"
	"aeropark-service/pkg/apperrors"
	"aeropark-service/pkg/logger"
	"aeropark-service/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ActivityLogService is the read/delete side of the audit trail.
type ActivityLogService struct {
	logs  repository.ActivityLogRepository
	audit *ActivityLogger
	log   logger.Logger
}

// NewActivityLogService creates a new activity-log service
func NewActivityLogService(logs repository.ActivityLogRepository, audit *ActivityLogger, log logger.Logger) *ActivityLogService {
	return &ActivityLogService{
		logs:  logs,
		audit: audit,
		log:   log,
	}
}

// ActivityLogQuery is the listing input as received from the HTTP layer.
// Dates are YYYY-MM-DD; the end date covers its whole day.
type ActivityLogQuery struct {
	UserID     string
	Action     string
	TargetType string
	StartDate  string
	EndDate    string
	Sort       string
	Page       int
	Limit      int
}

// List returns a page of audit entries enriched with their users.
func (s *ActivityLogService) List(ctx context.Context, q ActivityLogQuery) (utils.PageEnvelope, error) {
	filter := repository.ActivityLogFilter{
		Action:     entity.Action(q.Action),
		TargetType: entity.TargetType(q.TargetType),
	}
	// An unparseable userId filter matches nothing meaningful; ignore it
	// like an absent one.
	if q.UserID != "" {
		if oid, err := primitive.ObjectIDFromHex(q.UserID); err == nil {
			filter.UserID = &oid
		}
	}
	if q.StartDate != "" {
		if t, err := time.Parse("2006-01-02", q.StartDate); err == nil {
			filter.StartDate = &t
		}
	}
	if q.EndDate != "" {
		if t, err := time.Parse("2006-01-02", q.EndDate); err == nil {
			endOfDay := t.Add(24*time.Hour - time.Millisecond)
			filter.EndDate = &endOfDay
		}
	}

	sortField := "timestamp"
	sortDesc := true
	if q.Sort != "" {
		sortDesc = strings.HasPrefix(q.Sort, "-")
		sortField = strings.TrimPrefix(q.Sort, "-")
	}

	page, limit := utils.ClampPage(q.Page, q.Limit, DefaultReferenceLimit)

	entries, total, err := s.logs.List(ctx, filter, page, limit, sortField, sortDesc)
	if err != nil {
		return utils.PageEnvelope{}, apperrors.NewInternalError("Erreur serveur lors de la récupération des logs d'activité.")
	}
	if entries == nil {
		entries = []entity.ActivityLogWithUser{}
	}
	return utils.NewPageEnvelope(entries, total, page, limit), nil
}

// Delete removes one audit entry and records the removal itself, with a
// snapshot of the deleted entry for context.
func (s *ActivityLogService) Delete(ctx context.Context, admin *entity.User, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NewValidationError("ID de log invalide.")
	}

	entry, err := s.logs.FindByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		return apperrors.NewNotFoundError("Entrée de log non trouvée.")
	}
	if err != nil {
		return apperrors.NewInternalError("Erreur serveur lors de la suppression du log.")
	}

	if err := s.logs.Delete(ctx, oid); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperrors.NewNotFoundError("Entrée de log non trouvée.")
		}
		return apperrors.NewInternalError("Erreur serveur lors de la suppression du log.")
	}

	adminID := primitive.NilObjectID
	if admin != nil {
		adminID = admin.ID
	}
	s.audit.Record(adminID, entity.ActionDeleteLogEntry, entity.TargetActivityLog, id, map[string]interface{}{
		"deletedLogDetails": map[string]interface{}{
			"action":     entry.Action,
			"targetType": entry.TargetType,
			"targetId":   entry.TargetID,
			"timestamp":  entry.Timestamp,
			"userId":     entry.UserID.Hex(),
		},
	})
	return nil
}
