package usecase

import (
	"context"
	"strings"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"
	"aeropark-service/internal/infrastructure/auth"
	"aeropark-service/pkg/apperrors"
	"aeropark-service/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// AuthService implements login, token verification and admin registration.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.JWTService
	hasher PasswordHasher
	audit  *ActivityLogger
	log    logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users repository.UserRepository, tokens *auth.JWTService, hasher PasswordHasher, audit *ActivityLogger, log logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		audit:  audit,
		log:    log,
	}
}

// Login authenticates by username or email and returns a signed token.
// Unknown user, inactive account and wrong password all produce the same
// generic error so callers cannot probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, *entity.User, error) {
	if identifier == "" || password == "" {
		return "", nil, apperrors.NewValidationError("Veuillez fournir un identifiant (username/email) et un mot de passe.")
	}

	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil && err != mongo.ErrNoDocuments {
		return "", nil, apperrors.NewInternalError("Erreur serveur lors de la connexion.")
	}
	if user == nil || !user.IsActive {
		s.log.Info("login rejected", "identifier", identifier)
		return "", nil, apperrors.NewUnauthorizedError("Identifiants invalides.")
	}

	if err := s.hasher.Verify(password, user.Password); err != nil {
		s.log.Info("login rejected", "identifier", identifier)
		return "", nil, apperrors.NewUnauthorizedError("Identifiants invalides.")
	}

	token, err := s.tokens.Generate(user.ID.Hex(), user.Username, user.Roles)
	if err != nil {
		return "", nil, apperrors.NewInternalError("Erreur serveur lors de la connexion.")
	}

	s.audit.Record(user.ID, entity.ActionLogin, entity.TargetAuth, user.ID.Hex(), nil)
	s.log.Info("login succeeded", "username", user.Username)
	return token, user, nil
}

// VerifyToken checks a raw token and returns its claims. The underlying
// error is preserved so callers can tell an expired token from a forged one.
func (s *AuthService) VerifyToken(tokenString string) (*auth.Claims, error) {
	return s.tokens.Verify(tokenString)
}

// RegisterInput carries an admin-created account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Roles    []entity.Role
	IsActive *bool
}

// Register creates an account on behalf of an admin. Unlike self-service
// registration the account is active by default.
func (s *AuthService) Register(ctx context.Context, admin *entity.User, in RegisterInput) (*entity.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, apperrors.NewValidationError("Veuillez fournir username, email et password.")
	}

	existing, err := s.users.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, apperrors.NewInternalError("Erreur serveur lors de l'enregistrement.")
	}
	if existing != nil {
		return nil, apperrors.NewValidationError("Username ou Email déjà utilisé.")
	}

	roles := in.Roles
	if len(roles) == 0 {
		roles = []entity.Role{entity.RoleUser}
	}
	for _, role := range roles {
		if !entity.ValidRole(role) {
			return nil, apperrors.NewValidationError("Rôles fournis invalides.")
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de l'enregistrement.")
	}

	user := &entity.User{
		Username: in.Username,
		Email:    strings.ToLower(in.Email),
		Password: hash,
		Roles:    roles,
		IsActive: true,
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if admin != nil {
		user.LastUpdatedBy = admin.ID
	}

	if err := s.users.Insert(ctx, user); err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de l'enregistrement.")
	}

	adminID := primitive.NilObjectID
	if admin != nil {
		adminID = admin.ID
	}
	s.audit.Record(adminID, entity.ActionRegister, entity.TargetUser, user.ID.Hex(), map[string]interface{}{
		"username": user.Username,
		"roles":    user.Roles,
	})
	return user, nil
}
