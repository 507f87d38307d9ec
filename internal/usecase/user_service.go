package usecase

import (
	"context"
	"strings"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"
	"aeropark-service/pkg/apperrors"
	"aeropark-service/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserService implements account management
type UserService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	audit  *ActivityLogger
	log    logger.Logger
}

// NewUserService creates a new user service
func NewUserService(users repository.UserRepository, hasher PasswordHasher, audit *ActivityLogger, log logger.Logger) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		audit:  audit,
		log:    log,
	}
}

// SelfRegister creates an inactive account awaiting admin validation.
func (s *UserService) SelfRegister(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return apperrors.NewValidationError("Veuillez fournir un nom d'utilisateur, un email et un mot de passe.")
	}

	existing, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && err != mongo.ErrNoDocuments {
		return apperrors.NewInternalError("Erreur serveur lors de l'enregistrement.")
	}
	if existing != nil {
		message := "Un utilisateur existe déjà avec ces informations."
		if existing.Email == strings.ToLower(email) {
			message = "Un compte existe déjà avec cette adresse email."
		}
		if existing.Username == username {
			message = "Ce nom d'utilisateur est déjà pris."
		}
		return apperrors.NewConflictError(message)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return apperrors.NewInternalError("Erreur serveur lors de l'enregistrement.")
	}

	user := &entity.User{
		Username: username,
		Email:    strings.ToLower(email),
		Password: hash,
		Roles:    []entity.Role{entity.RoleUser},
		IsActive: false,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return apperrors.NewInternalError("Erreur serveur lors de l'enregistrement.")
	}

	s.log.Info("account created, awaiting validation", "username", username)
	return nil
}

// List returns accounts newest-first, restricted to inactive ones when
// onlyInactive is set.
func (s *UserService) List(ctx context.Context, onlyInactive bool) ([]entity.User, error) {
	users, err := s.users.List(ctx, onlyInactive)
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la récupération des utilisateurs.")
	}
	if users == nil {
		users = []entity.User{}
	}
	return users, nil
}

// Get returns one account by ID.
func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewValidationError("ID utilisateur invalide.")
	}
	user, err := s.users.FindByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFoundError("Utilisateur non trouvé.")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur.")
	}
	return user, nil
}

// Activate enables an account, optionally replacing its roles.
func (s *UserService) Activate(ctx context.Context, admin *entity.User, id string, roles []entity.Role) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewValidationError("ID utilisateur invalide.")
	}
	user, err := s.users.FindByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFoundError("Utilisateur non trouvé.")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de l'activation de l'utilisateur.")
	}

	if len(roles) > 0 {
		for _, role := range roles {
			if !entity.ValidRole(role) {
				return nil, apperrors.NewValidationError("Rôles fournis invalides.")
			}
		}
		user.Roles = roles
	}
	user.IsActive = true
	if admin != nil {
		user.LastUpdatedBy = admin.ID
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de l'activation de l'utilisateur.")
	}

	adminID := primitive.NilObjectID
	if admin != nil {
		adminID = admin.ID
	}
	s.audit.Record(adminID, entity.ActionValidateUser, entity.TargetUser, user.ID.Hex(), map[string]interface{}{
		"username": user.Username,
		"roles":    user.Roles,
	})
	return user, nil
}

// Deactivate disables an account, closing the active-to-inactive gap left
// open by validation-only workflows. Admins cannot deactivate themselves.
func (s *UserService) Deactivate(ctx context.Context, admin *entity.User, id string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewValidationError("ID utilisateur invalide.")
	}
	if admin != nil && admin.ID == oid {
		return nil, apperrors.NewValidationError("Vous ne pouvez pas désactiver votre propre compte.")
	}

	user, err := s.users.FindByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFoundError("Utilisateur non trouvé.")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la désactivation de l'utilisateur.")
	}

	user.IsActive = false
	if admin != nil {
		user.LastUpdatedBy = admin.ID
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.NewInternalError("Erreur serveur lors de la désactivation de l'utilisateur.")
	}

	adminID := primitive.NilObjectID
	if admin != nil {
		adminID = admin.ID
	}
	s.audit.Record(adminID, entity.ActionUpdate, entity.TargetUser, user.ID.Hex(), map[string]interface{}{
		"username": user.Username,
		"isActive": false,
	})
	return user, nil
}
