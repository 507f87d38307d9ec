package repository

import (
	"context"

	"aeropark-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines the interface for user storage
type UserRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	// FindByIdentifier looks a user up by username or lowercased email.
	FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.User, error)
	Insert(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	// List returns users newest-first, restricted to inactive accounts when
	// onlyInactive is set.
	List(ctx context.Context, onlyInactive bool) ([]entity.User, error)
}
