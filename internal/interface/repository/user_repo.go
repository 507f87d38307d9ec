package repository

import (
	"context"
	"strings"
	"time"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository implements UserRepository
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new user repository
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	collection := db.Collection("users")

	ctx := context.Background()
	usernameIndex := mongo.IndexModel{
		Keys:    bson.M{"username": 1},
		Options: options.Index().SetUnique(true),
	}
	emailIndex := mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{usernameIndex, emailIndex})

	return &MongoUserRepository{
		collection: collection,
	}
}

// FindByID finds a user by object ID
func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	var user entity.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIdentifier looks a user up by username or lowercased email
func (r *MongoUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": identifier},
		bson.M{"email": strings.ToLower(identifier)},
	}}

	var user entity.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsernameOrEmail returns the first user matching either value
func (r *MongoUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": strings.ToLower(email)},
	}}

	var user entity.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Insert creates a user. Email is stored lowercased.
func (r *MongoUserRepository) Insert(ctx context.Context, user *entity.User) error {
	now := time.Now()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// Update replaces the mutable fields of a user
func (r *MongoUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"roles":         user.Roles,
		"isActive":      user.IsActive,
		"lastUpdatedBy": user.LastUpdatedBy,
		"updatedAt":     user.UpdatedAt,
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	return err
}

// List returns users newest-first, restricted to inactive accounts when
// onlyInactive is set
func (r *MongoUserRepository) List(ctx context.Context, onlyInactive bool) ([]entity.User, error) {
	filter := bson.M{}
	if onlyInactive {
		filter["isActive"] = false
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []entity.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
