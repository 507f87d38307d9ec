package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/pkg/logger"
)

func newCommandLogFixture(t *testing.T) (*CommandLogService, *fakeCommandLogRepo, *fakeActivityLogRepo) {
	t.Helper()
	repo := &fakeCommandLogRepo{}
	auditRepo := &fakeActivityLogRepo{}
	audit := NewActivityLogger(auditRepo, logger.NewNop(), testMetrics)
	t.Cleanup(audit.Close)
	return NewCommandLogService(repo, audit, testMetrics, logger.NewNop()), repo, auditRepo
}

func commandLogAt(ts time.Time) entity.CommandLog {
	return entity.CommandLog{
		ID:        primitive.NewObjectID(),
		Command:   "parking",
		Timestamp: ts,
	}
}

func TestCleanPurgesPastMidnightCutoff(t *testing.T) {
	svc, repo, _ := newCommandLogFixture(t)
	repo.logs = []entity.CommandLog{
		commandLogAt(time.Now().AddDate(0, 0, -40)),
		commandLogAt(time.Now().AddDate(0, 0, -31)),
		commandLogAt(time.Now().AddDate(0, 0, -5)),
	}

	result, err := svc.Clean(context.Background(), testActor(), "30")
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.DeletedCount)
	assert.Equal(t, 30, result.DaysKept)
	assert.Len(t, repo.logs, 1)
}

func TestCleanInvalidDaysFallsBackToDefault(t *testing.T) {
	svc, repo, _ := newCommandLogFixture(t)
	repo.logs = []entity.CommandLog{
		commandLogAt(time.Now().AddDate(0, 0, -40)),
	}

	result, err := svc.Clean(context.Background(), testActor(), "not-a-number")
	require.NoError(t, err)
	assert.Equal(t, 30, result.DaysKept)
	assert.Equal(t, int64(1), result.DeletedCount)
}

func TestCleanNothingToDeleteSkipsAudit(t *testing.T) {
	svc, repo, auditRepo := newCommandLogFixture(t)
	repo.logs = []entity.CommandLog{
		commandLogAt(time.Now().AddDate(0, 0, -2)),
	}

	result, err := svc.Clean(context.Background(), testActor(), "30")
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.DeletedCount)
	assert.Equal(t, 0, auditRepo.count())
}

func TestOldestWhenEmpty(t *testing.T) {
	svc, _, _ := newCommandLogFixture(t)

	info, err := svc.Oldest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Aucun log trouvé", info.Message)
	assert.Nil(t, info.OldestLogTimestamp)
}

func TestOldestReportsAge(t *testing.T) {
	svc, repo, _ := newCommandLogFixture(t)
	oldest := time.Now().AddDate(0, 0, -10).Add(time.Hour)
	repo.oldest = &oldest

	info, err := svc.Oldest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Log le plus ancien trouvé", info.Message)
	require.NotNil(t, info.OldestLogTimestamp)
	assert.Equal(t, 10, info.DaysAgo)
}

func TestFillDailyWindowZeroFills(t *testing.T) {
	end := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -3)

	filled := fillDailyWindow(start, end, []entity.DailyUsage{
		{Date: "2026-08-08", Count: 4, SuccessRate: 75},
	})

	require.Len(t, filled, 4)
	assert.Equal(t, "2026-08-07", filled[0].Date)
	assert.Equal(t, int64(0), filled[0].Count)
	assert.Equal(t, "2026-08-08", filled[1].Date)
	assert.Equal(t, int64(4), filled[1].Count)
	assert.Equal(t, float64(75), filled[1].SuccessRate)
	assert.Equal(t, "2026-08-10", filled[3].Date)
	assert.Equal(t, int64(0), filled[3].Count)
}

func TestListPeriodFiltersOldEntries(t *testing.T) {
	svc, repo, _ := newCommandLogFixture(t)
	repo.logs = []entity.CommandLog{
		commandLogAt(time.Now().AddDate(0, 0, -40)),
		commandLogAt(time.Now().AddDate(0, 0, -3)),
	}

	env, err := svc.List(context.Background(), "", "7", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), env.TotalDocs)

	env, err = svc.List(context.Background(), "", "all", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), env.TotalDocs)
}
