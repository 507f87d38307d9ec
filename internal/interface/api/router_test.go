package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/infrastructure/auth"
	"aeropark-service/internal/infrastructure/config"
	"aeropark-service/pkg/logger"
	"aeropark-service/pkg/metrics"
)

// The prometheus default registry rejects duplicate registration, so the
// whole test binary shares one Metrics instance.
var testAPIMetrics = metrics.NewMetrics("apitest")

func newTestRouter(t *testing.T, users *stubUserRepo) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	cfg := &config.Config{
		AppVersion:     "test",
		RequestTimeout: time.Second,
		BotAPIKey:      "bot-key",
	}
	tokens := auth.NewJWTService("secret", time.Hour)
	router := NewRouter(cfg, Services{}, tokens, users, testAPIMetrics, logger.NewNop())
	return router, tokens
}

func TestRouterExposesParkingWriteRoutes(t *testing.T) {
	router, _ := newTestRouter(t, &stubUserRepo{users: map[primitive.ObjectID]entity.User{}})

	// Unauthenticated requests must reach Protect (401), proving the route
	// is registered with that verb rather than falling through to 404.
	cases := []struct {
		name   string
		method string
		path   string
	}{
		{"bulk delete", http.MethodDelete, "/api/parkings/bulk"},
		{"bulk delete alias", http.MethodPost, "/api/parkings/bulk-delete"},
		{"map update", http.MethodPatch, "/api/parkings/abc123/map"},
		{"map update alias", http.MethodPut, "/api/parkings/abc123/map"},
		{"bulk create", http.MethodPost, "/api/parkings/bulk"},
		{"single update", http.MethodPut, "/api/parkings/abc123"},
		{"duplicate check", http.MethodPost, "/api/parkings/check-duplicates"},
		{"single delete", http.MethodDelete, "/api/parkings/abc123"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRouterContentWritesRequireAdmin(t *testing.T) {
	user := entity.User{
		ID:       primitive.NewObjectID(),
		Username: "mod",
		Roles:    []entity.Role{entity.RoleModerator},
		IsActive: true,
	}
	router, tokens := newTestRouter(t, &stubUserRepo{users: map[primitive.ObjectID]entity.User{user.ID: user}})
	token, err := tokens.Generate(user.ID.Hex(), user.Username, user.Roles)
	require.NoError(t, err)

	cases := []struct {
		name   string
		method string
		path   string
	}{
		{"parking create", http.MethodPost, "/api/parkings"},
		{"airport update", http.MethodPut, "/api/airports/abc123"},
		{"airline delete", http.MethodDelete, "/api/airlines/abc123"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusForbidden, w.Code)
		})
	}
}
