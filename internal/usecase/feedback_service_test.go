package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"
	"aeropark-service/pkg/apperrors"
	"aeropark-service/pkg/logger"
)

type fakeFeedbackRepo struct {
	mu        sync.Mutex
	feedbacks map[primitive.ObjectID]entity.DiscordFeedback
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{feedbacks: map[primitive.ObjectID]entity.DiscordFeedback{}}
}

func (r *fakeFeedbackRepo) Insert(ctx context.Context, feedback *entity.DiscordFeedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	feedback.ID = primitive.NewObjectID()
	if feedback.Timestamp.IsZero() {
		feedback.Timestamp = time.Now()
	}
	feedback.CreatedAt = time.Now()
	feedback.UpdatedAt = feedback.CreatedAt
	r.feedbacks[feedback.ID] = *feedback
	return nil
}

func (r *fakeFeedbackRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.DiscordFeedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.feedbacks[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &f, nil
}

func (r *fakeFeedbackRepo) FindByFeedbackID(ctx context.Context, feedbackID string) (*entity.DiscordFeedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.feedbacks {
		if f.FeedbackID == feedbackID {
			return &f, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeFeedbackRepo) List(ctx context.Context, filter repository.FeedbackFilter, page, limit int) ([]entity.DiscordFeedback, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.DiscordFeedback
	for _, f := range r.feedbacks {
		if filter.Status != "" && f.Status != filter.Status {
			continue
		}
		out = append(out, f)
	}
	return out, int64(len(out)), nil
}

func (r *fakeFeedbackRepo) Update(ctx context.Context, feedback *entity.DiscordFeedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.feedbacks[feedback.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	feedback.UpdatedAt = time.Now()
	r.feedbacks[feedback.ID] = *feedback
	return nil
}

func (r *fakeFeedbackRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.feedbacks[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.feedbacks, id)
	return nil
}

func (r *fakeFeedbackRepo) StatusCounts(ctx context.Context) ([]entity.StatusCount, error) {
	return nil, nil
}

func (r *fakeFeedbackRepo) TopAirports(ctx context.Context, limit int) ([]entity.AirportCount, error) {
	return nil, nil
}

func (r *fakeFeedbackRepo) TopAirlines(ctx context.Context, limit int) ([]entity.AirlineCount, error) {
	return nil, nil
}

func (r *fakeFeedbackRepo) DailyCounts(ctx context.Context, since time.Time) ([]entity.DateCount, error) {
	return nil, nil
}

func newFeedbackFixture(t *testing.T) (*FeedbackService, *fakeFeedbackRepo) {
	t.Helper()
	repo := newFakeFeedbackRepo()
	audit := NewActivityLogger(&fakeActivityLogRepo{}, logger.NewNop(), testMetrics)
	t.Cleanup(audit.Close)
	return NewFeedbackService(repo, audit, logger.NewNop()), repo
}

func TestFeedbackCreateDefaultsAndParsesNotes(t *testing.T) {
	svc, _ := newFeedbackFixture(t)

	feedback, err := svc.Create(context.Background(), CreateFeedbackInput{
		FeedbackID: "fb-001",
		UserID:     "discord-42",
		Airport:    "LFPG",
		Notes:      `{"stands":"A1-A4"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.FeedbackNew, feedback.Status)
	require.NotNil(t, feedback.ParsedDetails)
	assert.Equal(t, "A1-A4", feedback.ParsedDetails.Stands)
}

func TestFeedbackCreateRejectsMissingIdentity(t *testing.T) {
	svc, _ := newFeedbackFixture(t)

	_, err := svc.Create(context.Background(), CreateFeedbackInput{FeedbackID: "fb-001"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Données incomplètes")
}

func TestFeedbackCreateRejectsResubmission(t *testing.T) {
	svc, _ := newFeedbackFixture(t)

	_, err := svc.Create(context.Background(), CreateFeedbackInput{FeedbackID: "fb-001", UserID: "u1"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateFeedbackInput{FeedbackID: "fb-001", UserID: "u2"})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 409, appErr.Code)
	assert.Equal(t, "Ce feedback existe déjà", appErr.Message)
}

func TestFeedbackCreateRejectsUnknownStatus(t *testing.T) {
	svc, _ := newFeedbackFixture(t)

	_, err := svc.Create(context.Background(), CreateFeedbackInput{
		FeedbackID: "fb-002",
		UserID:     "u1",
		Status:     "DONE",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Statut invalide")
}

func TestFeedbackUpdateStatusStampsCompletion(t *testing.T) {
	svc, _ := newFeedbackFixture(t)
	created, err := svc.Create(context.Background(), CreateFeedbackInput{FeedbackID: "fb-003", UserID: "u1"})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), testActor(), created.ID.Hex(), StatusUpdateInput{
		Status:     string(entity.FeedbackCompleted),
		AdminNotes: "traité",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.FeedbackCompleted, updated.Status)
	assert.Equal(t, "traité", updated.AdminNotes)
	require.NotNil(t, updated.CompletedAt)
}

func TestFeedbackUpdateStatusRejectsUnknown(t *testing.T) {
	svc, _ := newFeedbackFixture(t)
	created, err := svc.Create(context.Background(), CreateFeedbackInput{FeedbackID: "fb-004", UserID: "u1"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), testActor(), created.ID.Hex(), StatusUpdateInput{Status: "ARCHIVED"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Statut invalide")
}

func TestFeedbackDeleteNotFound(t *testing.T) {
	svc, _ := newFeedbackFixture(t)

	err := svc.Delete(context.Background(), testActor(), primitive.NewObjectID().Hex())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
