package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/infrastructure/auth"
	"aeropark-service/pkg/apperrors"
	"aeropark-service/pkg/logger"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeActivityLogRepo) {
	t.Helper()
	users := newFakeUserRepo()
	auditRepo := &fakeActivityLogRepo{}
	audit := NewActivityLogger(auditRepo, logger.NewNop(), testMetrics)
	t.Cleanup(audit.Close)
	tokens := auth.NewJWTService("test-secret", time.Hour)
	hasher := auth.NewBcryptPasswordHasher(4)
	return NewAuthService(users, tokens, hasher, audit, logger.NewNop()), users, auditRepo
}

func addAccount(t *testing.T, users *fakeUserRepo, username, password string, active bool) entity.User {
	t.Helper()
	hasher := auth.NewBcryptPasswordHasher(4)
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	return users.add(entity.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hash,
		Roles:    []entity.Role{entity.RoleUser},
		IsActive: active,
	})
}

func TestLoginSucceedsWithUsernameOrEmail(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	addAccount(t, users, "alice", "s3cret", true)

	token, user, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Username)

	token, _, err = svc.Login(context.Background(), "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	addAccount(t, users, "alice", "s3cret", true)
	addAccount(t, users, "bob", "s3cret", false)

	cases := map[string]struct {
		identifier string
		password   string
	}{
		"unknown user":     {"nobody", "s3cret"},
		"wrong password":   {"alice", "wrong"},
		"inactive account": {"bob", "s3cret"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tc.identifier, tc.password)
			require.Error(t, err)
			appErr := apperrors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, 401, appErr.Code)
			assert.Equal(t, "Identifiants invalides.", appErr.Message)
		})
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, _, err := svc.Login(context.Background(), "", "")
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 400, appErr.Code)
}

func TestVerifyTokenRoundTrip(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	addAccount(t, users, "alice", "s3cret", true)

	token, user, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	_, err = svc.VerifyToken("not-a-token")
	require.Error(t, err)
}

func TestRegisterRejectsTakenIdentity(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	addAccount(t, users, "alice", "s3cret", true)
	admin := testActor()

	_, err := svc.Register(context.Background(), admin, RegisterInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "s3cret",
	})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, "Username ou Email déjà utilisé.", appErr.Message)
}

func TestRegisterDefaultsRolesAndActive(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	user, err := svc.Register(context.Background(), testActor(), RegisterInput{
		Username: "carol",
		Email:    "Carol@Example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, []entity.Role{entity.RoleUser}, user.Roles)
	assert.True(t, user.IsActive)
	assert.Equal(t, "carol@example.com", user.Email)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), testActor(), RegisterInput{
		Username: "dave",
		Email:    "dave@example.com",
		Password: "s3cret",
		Roles:    []entity.Role{"superuser"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Rôles fournis invalides.")
}
