package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/pkg/logger"
)

func TestActivityLoggerWritesEntry(t *testing.T) {
	repo := &fakeActivityLogRepo{}
	l := NewActivityLogger(repo, logger.NewNop(), testMetrics)

	userID := primitive.NewObjectID()
	l.Record(userID, entity.ActionCreate, entity.TargetParking, "abc", map[string]interface{}{"airline": "AFR"})
	l.Close()

	require.Equal(t, 1, repo.count())
	entry := repo.last()
	assert.Equal(t, userID, entry.UserID)
	assert.Equal(t, entity.ActionCreate, entry.Action)
	assert.Equal(t, entity.TargetParking, entry.TargetType)
	assert.False(t, entry.Timestamp.IsZero())
}

func TestActivityLoggerRejectsUnknownAction(t *testing.T) {
	repo := &fakeActivityLogRepo{}
	l := NewActivityLogger(repo, logger.NewNop(), testMetrics)

	l.Record(primitive.NewObjectID(), entity.Action("DROP_TABLES"), entity.TargetParking, "abc", nil)
	l.Record(primitive.NewObjectID(), entity.ActionCreate, entity.TargetType("Unknown"), "abc", nil)
	l.Close()

	assert.Equal(t, 0, repo.count())
}

func TestActivityLoggerSwallowsWriteFailure(t *testing.T) {
	repo := &fakeActivityLogRepo{failWith: errors.New("mongo down")}
	l := NewActivityLogger(repo, logger.NewNop(), testMetrics)

	// Must not panic or block the caller.
	l.Record(primitive.NewObjectID(), entity.ActionDelete, entity.TargetAirline, "abc", nil)
	l.Close()

	assert.Equal(t, 0, repo.count())
}

func TestActivityLoggerCloseDrainsPending(t *testing.T) {
	repo := &fakeActivityLogRepo{}
	l := NewActivityLogger(repo, logger.NewNop(), testMetrics)

	for i := 0; i < 50; i++ {
		l.Record(primitive.NewObjectID(), entity.ActionUpdate, entity.TargetUser, "abc", nil)
	}
	l.Close()

	assert.Equal(t, 50, repo.count())
}

func TestActivityLoggerCloseIsIdempotent(t *testing.T) {
	l := NewActivityLogger(&fakeActivityLogRepo{}, logger.NewNop(), testMetrics)
	l.Close()
	l.Close()
}
