package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoParkingRepository implements ParkingRepository
type MongoParkingRepository struct {
	collection *mongo.Collection
}

// NewMongoParkingRepository creates a new parking repository
func NewMongoParkingRepository(db *mongo.Database) repository.ParkingRepository {
	collection := db.Collection("parkings")

	// Unique compound index backing duplicate-pair detection
	ctx := context.Background()
	pairIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "airline", Value: 1},
			{Key: "airport", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	airportIndex := mongo.IndexModel{
		Keys: bson.M{"airport": 1},
	}
	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{pairIndex, airportIndex})

	return &MongoParkingRepository{
		collection: collection,
	}
}

// groupSortStages maps validated sort keys onto group-level sort documents.
// The group key is _id (the airport ICAO) after $group.
var groupSortStages = map[repository.GroupSort]bson.D{
	repository.GroupSortAirport:          {{Key: "_id", Value: 1}},
	repository.GroupSortUpdatedDesc:      {{Key: "lastUpdatedAt", Value: -1}},
	repository.GroupSortUpdatedAsc:       {{Key: "lastUpdatedAt", Value: 1}},
	repository.GroupSortParkingCountDesc: {{Key: "totalParkingsInAirport", Value: -1}},
	repository.GroupSortParkingCountAsc:  {{Key: "totalParkingsInAirport", Value: 1}},
}

func buildGroupMatch(q repository.ParkingGroupQuery) bson.M {
	match := bson.M{}
	if q.Airline != "" {
		match["airline"] = q.Airline
	}
	if q.Airport != "" {
		match["airport"] = q.Airport
	}
	if q.HasMap != nil {
		match["mapInfo.hasMap"] = *q.HasMap
	}
	if q.Search != "" {
		search := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		match["$or"] = bson.A{
			bson.M{"airport": search},
			bson.M{"airline": search},
		}
	}
	return match
}

// ListGrouped groups matching parkings by airport and paginates the groups.
// Each group carries all of its member parkings plus count and most recent
// update time; the returned total is the number of matching groups.
func (r *MongoParkingRepository) ListGrouped(ctx context.Context, q repository.ParkingGroupQuery) ([]entity.AirportGroup, int64, error) {
	sortStage, ok := groupSortStages[q.Sort]
	if !ok {
		sortStage = groupSortStages[repository.GroupSortAirport]
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: buildGroupMatch(q)}},
		{{Key: "$group", Value: bson.M{
			"_id":                    "$airport",
			"totalParkingsInAirport": bson.M{"$sum": 1},
			"lastUpdatedAt":          bson.M{"$max": "$updatedAt"},
			"parkings":               bson.M{"$push": "$$ROOT"},
		}}},
		{{Key: "$sort", Value: sortStage}},
		{{Key: "$facet", Value: bson.M{
			"paginatedResults": bson.A{
				bson.M{"$skip": (q.Page - 1) * q.Limit},
				bson.M{"$limit": q.Limit},
			},
			"totalCount": bson.A{
				bson.M{"$count": "count"},
			},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("parking group aggregation: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		PaginatedResults []entity.AirportGroup `bson:"paginatedResults"`
		TotalCount       []struct {
			Count int64 `bson:"count"`
		} `bson:"totalCount"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, fmt.Errorf("decode parking groups: %w", err)
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

// FindByID finds a parking by its object ID
func (r *MongoParkingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Parking, error) {
	var parking entity.Parking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&parking)
	if err != nil {
		return nil, err
	}
	return &parking, nil
}

// FindByPair finds a parking by its unique (airline, airport) pair
func (r *MongoParkingRepository) FindByPair(ctx context.Context, airline, airport string) (*entity.Parking, error) {
	var parking entity.Parking
	err := r.collection.FindOne(ctx, bson.M{"airline": airline, "airport": airport}).Decode(&parking)
	if err != nil {
		return nil, err
	}
	return &parking, nil
}

// FindByPairs returns the existing parkings among the given pairs
func (r *MongoParkingRepository) FindByPairs(ctx context.Context, pairs []repository.ParkingPair) ([]entity.Parking, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	conditions := make(bson.A, 0, len(pairs))
	for _, pair := range pairs {
		conditions = append(conditions, bson.M{"airline": pair.Airline, "airport": pair.Airport})
	}

	cursor, err := r.collection.Find(ctx, bson.M{"$or": conditions})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var parkings []entity.Parking
	if err := cursor.All(ctx, &parkings); err != nil {
		return nil, err
	}
	return parkings, nil
}

// ListByCountryPrefixes returns all parkings whose airport ICAO starts with
// one of the given 2-letter country prefixes.
func (r *MongoParkingRepository) ListByCountryPrefixes(ctx context.Context, prefixes []string) ([]entity.Parking, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"airport": bson.M{"$exists": true, "$type": "string"}}}},
		{{Key: "$addFields", Value: bson.M{
			"airportPrefix": bson.M{"$toUpper": bson.M{"$cond": bson.M{
				"if":   bson.M{"$gte": bson.A{bson.M{"$strLenCP": "$airport"}, 2}},
				"then": bson.M{"$substrCP": bson.A{"$airport", 0, 2}},
				"else": nil,
			}}},
		}}},
		{{Key: "$match", Value: bson.M{"airportPrefix": bson.M{"$in": prefixes}}}},
		{{Key: "$project", Value: bson.M{"airportPrefix": 0}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var parkings []entity.Parking
	if err := cursor.All(ctx, &parkings); err != nil {
		return nil, err
	}
	return parkings, nil
}

// Insert creates a parking
func (r *MongoParkingRepository) Insert(ctx context.Context, parking *entity.Parking) error {
	now := time.Now()
	if parking.ID.IsZero() {
		parking.ID = primitive.NewObjectID()
	}
	parking.CreatedAt = now
	parking.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, parking)
	return err
}

// InsertMany creates parkings in one unordered write so one failure does not
// abort the rest. Returns the documents it attempted to insert.
func (r *MongoParkingRepository) InsertMany(ctx context.Context, parkings []entity.Parking) ([]entity.Parking, error) {
	if len(parkings) == 0 {
		return nil, nil
	}
	now := time.Now()
	docs := make([]interface{}, 0, len(parkings))
	for i := range parkings {
		if parkings[i].ID.IsZero() {
			parkings[i].ID = primitive.NewObjectID()
		}
		parkings[i].CreatedAt = now
		parkings[i].UpdatedAt = now
		docs = append(docs, parkings[i])
	}

	opts := options.InsertMany().SetOrdered(false)
	_, err := r.collection.InsertMany(ctx, docs, opts)
	if err != nil {
		return nil, err
	}
	return parkings, nil
}

// Update replaces the mutable fields of a parking
func (r *MongoParkingRepository) Update(ctx context.Context, parking *entity.Parking) error {
	parking.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"gate":          parking.Gate,
		"mapInfo":       parking.MapInfo,
		"lastUpdatedBy": parking.LastUpdatedBy,
		"updatedAt":     parking.UpdatedAt,
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": parking.ID}, update)
	return err
}

// Delete removes a parking
func (r *MongoParkingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteMany removes the given parkings and reports how many went away
func (r *MongoParkingRepository) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the total number of parkings
func (r *MongoParkingRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// CountByAirport counts parkings referencing an airport ICAO
func (r *MongoParkingRepository) CountByAirport(ctx context.Context, icao string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"airport": icao})
}

// CountByAirline counts parkings referencing an airline ICAO
func (r *MongoParkingRepository) CountByAirline(ctx context.Context, icao string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"airline": icao})
}

// DistinctAirlines returns the unique airline ICAOs present in parkings
func (r *MongoParkingRepository) DistinctAirlines(ctx context.Context) ([]string, error) {
	return r.distinctStrings(ctx, "airline")
}

// DistinctAirports returns the unique airport ICAOs present in parkings
func (r *MongoParkingRepository) DistinctAirports(ctx context.Context) ([]string, error) {
	return r.distinctStrings(ctx, "airport")
}

func (r *MongoParkingRepository) distinctStrings(ctx context.Context, field string) ([]string, error) {
	values, err := r.collection.Distinct(ctx, field, bson.M{field: bson.M{"$nin": bson.A{nil, ""}}})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// CountryCounts counts the unique airports per 2-letter ICAO country prefix
func (r *MongoParkingRepository) CountryCounts(ctx context.Context) ([]entity.CountryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"airport": bson.M{"$exists": true, "$type": "string", "$ne": ""}}}},
		{{Key: "$project", Value: bson.M{
			"airport": 1,
			"prefix": bson.M{"$toUpper": bson.M{"$cond": bson.M{
				"if":   bson.M{"$gte": bson.A{bson.M{"$strLenCP": "$airport"}, 2}},
				"then": bson.M{"$substrCP": bson.A{"$airport", 0, 2}},
				"else": nil,
			}}},
		}}},
		{{Key: "$match", Value: bson.M{"prefix": bson.M{"$ne": nil, "$regex": "^[A-Z]{2}$"}}}},
		{{Key: "$group", Value: bson.M{
			"_id":                   "$prefix",
			"uniqueAirportsInGroup": bson.M{"$addToSet": "$airport"},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":   0,
			"code":  "$_id",
			"count": bson.M{"$size": "$uniqueAirportsInGroup"},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []entity.CountryCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}
