package repository

import (
	"context"
	"time"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAirlineRepository implements AirlineRepository
type MongoAirlineRepository struct {
	collection *mongo.Collection
}

// NewMongoAirlineRepository creates a new airline repository
func NewMongoAirlineRepository(db *mongo.Database) repository.AirlineRepository {
	collection := db.Collection("airlines")

	ctx := context.Background()
	icaoIndex := mongo.IndexModel{
		Keys:    bson.M{"icao": 1},
		Options: options.Index().SetUnique(true),
	}
	textIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "name", Value: "text"},
			{Key: "country", Value: "text"},
			{Key: "icao", Value: "text"},
		},
	}
	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{icaoIndex, textIndex})

	return &MongoAirlineRepository{
		collection: collection,
	}
}

// List returns a page of airlines sorted by ICAO plus the total match count
func (r *MongoAirlineRepository) List(ctx context.Context, search string, page, limit int) ([]entity.Airline, int64, error) {
	filter := bson.M{}
	if search != "" {
		filter["$text"] = bson.M{"$search": search}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.M{"icao": 1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var airlines []entity.Airline
	if err := cursor.All(ctx, &airlines); err != nil {
		return nil, 0, err
	}
	return airlines, total, nil
}

// FindByID finds an airline by its object ID
func (r *MongoAirlineRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Airline, error) {
	var airline entity.Airline
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&airline)
	if err != nil {
		return nil, err
	}
	return &airline, nil
}

// FindByICAO finds an airline by its ICAO code
func (r *MongoAirlineRepository) FindByICAO(ctx context.Context, icao string) (*entity.Airline, error) {
	var airline entity.Airline
	err := r.collection.FindOne(ctx, bson.M{"icao": icao}).Decode(&airline)
	if err != nil {
		return nil, err
	}
	return &airline, nil
}

// FindByICAOs returns the airlines matching the given ICAOs, sorted by name
func (r *MongoAirlineRepository) FindByICAOs(ctx context.Context, icaos []string) ([]entity.Airline, error) {
	if len(icaos) == 0 {
		return nil, nil
	}

	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"icao": bson.M{"$in": icaos}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var airlines []entity.Airline
	if err := cursor.All(ctx, &airlines); err != nil {
		return nil, err
	}
	return airlines, nil
}

// Insert creates an airline
func (r *MongoAirlineRepository) Insert(ctx context.Context, airline *entity.Airline) error {
	now := time.Now()
	if airline.ID.IsZero() {
		airline.ID = primitive.NewObjectID()
	}
	airline.CreatedAt = now
	airline.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, airline)
	return err
}

// Update replaces the mutable fields of an airline
func (r *MongoAirlineRepository) Update(ctx context.Context, airline *entity.Airline) error {
	airline.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"name":         airline.Name,
		"callsign":     airline.Callsign,
		"country":      airline.Country,
		"logoUrl":      airline.LogoURL,
		"logoPublicId": airline.LogoPublicID,
		"updatedAt":    airline.UpdatedAt,
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": airline.ID}, update)
	return err
}

// Delete removes an airline
func (r *MongoAirlineRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
