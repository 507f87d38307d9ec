package repository

import (
	"context"
	"fmt"
	"time"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAirportRepository implements AirportRepository
type MongoAirportRepository struct {
	collection *mongo.Collection
}

// NewMongoAirportRepository creates a new airport repository
func NewMongoAirportRepository(db *mongo.Database) repository.AirportRepository {
	collection := db.Collection("airports")

	ctx := context.Background()
	icaoIndex := mongo.IndexModel{
		Keys:    bson.M{"icao": 1},
		Options: options.Index().SetUnique(true),
	}
	textIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "name", Value: "text"},
			{Key: "city", Value: "text"},
			{Key: "country", Value: "text"},
			{Key: "icao", Value: "text"},
		},
	}
	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{icaoIndex, textIndex})

	return &MongoAirportRepository{
		collection: collection,
	}
}

// List returns a page of airports sorted by ICAO, each joined with the number
// of parkings referencing it, plus the total match count.
func (r *MongoAirportRepository) List(ctx context.Context, search string, page, limit int) ([]entity.AirportWithParkingCount, int64, error) {
	match := bson.M{}
	if search != "" {
		match["$text"] = bson.M{"$search": search}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.M{"icao": 1}}},
		{{Key: "$facet", Value: bson.M{
			"paginatedResults": bson.A{
				bson.M{"$skip": (page - 1) * limit},
				bson.M{"$limit": limit},
				bson.M{"$lookup": bson.M{
					"from":         "parkings",
					"localField":   "icao",
					"foreignField": "airport",
					"as":           "parkings",
				}},
				bson.M{"$addFields": bson.M{"parkingCount": bson.M{"$size": "$parkings"}}},
				bson.M{"$project": bson.M{"parkings": 0}},
			},
			"totalCount": bson.A{
				bson.M{"$count": "count"},
			},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("airport listing aggregation: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		PaginatedResults []entity.AirportWithParkingCount `bson:"paginatedResults"`
		TotalCount       []struct {
			Count int64 `bson:"count"`
		} `bson:"totalCount"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, fmt.Errorf("decode airports: %w", err)
	}

	if len(results) == 0 {
		return nil, 0, nil
	}
	var total int64
	if len(results[0].TotalCount) > 0 {
		total = results[0].TotalCount[0].Count
	}
	return results[0].PaginatedResults, total, nil
}

// FindByID finds an airport by its object ID
func (r *MongoAirportRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Airport, error) {
	var airport entity.Airport
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&airport)
	if err != nil {
		return nil, err
	}
	return &airport, nil
}

// FindByICAO finds an airport by its ICAO code
func (r *MongoAirportRepository) FindByICAO(ctx context.Context, icao string) (*entity.Airport, error) {
	var airport entity.Airport
	err := r.collection.FindOne(ctx, bson.M{"icao": icao}).Decode(&airport)
	if err != nil {
		return nil, err
	}
	return &airport, nil
}

// Insert creates an airport
func (r *MongoAirportRepository) Insert(ctx context.Context, airport *entity.Airport) error {
	now := time.Now()
	if airport.ID.IsZero() {
		airport.ID = primitive.NewObjectID()
	}
	airport.CreatedAt = now
	airport.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, airport)
	return err
}

// Update replaces the mutable fields of an airport
func (r *MongoAirportRepository) Update(ctx context.Context, airport *entity.Airport) error {
	airport.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"icao":          airport.ICAO,
		"name":          airport.Name,
		"city":          airport.City,
		"country":       airport.Country,
		"latitude":      airport.Latitude,
		"longitude":     airport.Longitude,
		"elevation":     airport.Elevation,
		"timezone":      airport.Timezone,
		"lastUpdatedBy": airport.LastUpdatedBy,
		"updatedAt":     airport.UpdatedAt,
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": airport.ID}, update)
	return err
}

// Delete removes an airport
func (r *MongoAirportRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
