package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"
	"aeropark-service/internal/usecase"
	"aeropark-service/pkg/logger"
)

// bulkParkingRepo stubs just the methods the bulk import path touches.
type bulkParkingRepo struct {
	repository.ParkingRepository
}

func (r *bulkParkingRepo) FindByPairs(ctx context.Context, pairs []repository.ParkingPair) ([]entity.Parking, error) {
	return nil, nil
}

func (r *bulkParkingRepo) InsertMany(ctx context.Context, parkings []entity.Parking) ([]entity.Parking, error) {
	out := make([]entity.Parking, len(parkings))
	copy(out, parkings)
	for i := range out {
		out[i].ID = primitive.NewObjectID()
	}
	return out, nil
}

type noopAuditRepo struct {
	repository.ActivityLogRepository
}

func (r *noopAuditRepo) Insert(ctx context.Context, log *entity.ActivityLog) error { return nil }

func TestBulkCreateAlwaysAnswersMultiStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	audit := usecase.NewActivityLogger(&noopAuditRepo{}, logger.NewNop(), testAPIMetrics)
	t.Cleanup(audit.Close)
	svc := usecase.NewParkingService(&bulkParkingRepo{}, nil, audit, testAPIMetrics, logger.NewNop())
	handler := NewParkingHandler(svc, logger.NewNop())

	router := gin.New()
	router.POST("/api/parkings/bulk", handler.BulkCreate)

	req := httptest.NewRequest(http.MethodPost, "/api/parkings/bulk", strings.NewReader(`[{"airline":"DLH","airport":"EDDF"}]`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMultiStatus, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"success"`)
}
