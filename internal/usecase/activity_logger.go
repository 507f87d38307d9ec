package usecase

import (
	"context"
	"sync"
	"time"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"
	"aeropark-service/pkg/logger"
	"aeropark-service/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const auditWriteTimeout = 5 * time.Second

// ActivityLogger persists audit-trail entries off the request path. Entries
// go through a buffered channel drained by a single background worker; a
// failed or dropped write is logged and counted but never surfaced to the
// caller, so no user-facing operation ever fails on auditing.
type ActivityLogger struct {
	repo    repository.ActivityLogRepository
	log     logger.Logger
	metrics *metrics.Metrics

	events chan entity.ActivityLog
	wg     sync.WaitGroup
	once   sync.Once
}

// NewActivityLogger creates the logger and starts its worker.
func NewActivityLogger(repo repository.ActivityLogRepository, log logger.Logger, m *metrics.Metrics) *ActivityLogger {
	l := &ActivityLogger{
		repo:    repo,
		log:     log,
		metrics: m,
		events:  make(chan entity.ActivityLog, 256),
	}
	l.wg.Add(1)
	go l.worker()
	return l
}

// Record queues one audit entry. Unknown actions or target types are
// rejected here rather than written as garbage.
func (l *ActivityLogger) Record(userID primitive.ObjectID, action entity.Action, targetType entity.TargetType, targetID string, details map[string]interface{}) {
	if !action.Valid() || !targetType.Valid() {
		l.log.Error("audit entry rejected",
			"action", action,
			"targetType", targetType,
			"targetId", targetID,
		)
		l.metrics.AuditWriteFailures.Inc()
		return
	}

	entry := entity.ActivityLog{
		UserID:     userID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Timestamp:  time.Now(),
		Details:    details,
	}

	select {
	case l.events <- entry:
	default:
		l.log.Warn("audit buffer full, entry dropped", "action", action, "targetType", targetType)
		l.metrics.AuditWriteFailures.Inc()
	}
}

func (l *ActivityLogger) worker() {
	defer l.wg.Done()
	for entry := range l.events {
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		err := l.repo.Insert(ctx, &entry)
		cancel()
		if err != nil {
			l.log.Error("audit write failed",
				"action", entry.Action,
				"targetType", entry.TargetType,
				"error", err,
			)
			l.metrics.AuditWriteFailures.Inc()
			continue
		}
		l.metrics.AuditEventsLogged.Inc()
	}
}

// Close drains pending entries and stops the worker.
func (l *ActivityLogger) Close() {
	l.once.Do(func() {
		close(l.events)
		l.wg.Wait()
	})
}
