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

// MongoDiscordFeedbackRepository implements DiscordFeedbackRepository
type MongoDiscordFeedbackRepository struct {
	collection *mongo.Collection
}

// NewMongoDiscordFeedbackRepository creates a new feedback repository
func NewMongoDiscordFeedbackRepository(db *mongo.Database) repository.DiscordFeedbackRepository {
	collection := db.Collection("discordfeedbacks")

	ctx := context.Background()
	indexes := []mongo.IndexModel{
		{Keys: bson.M{"feedbackId": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"status": 1}},
		{Keys: bson.M{"timestamp": -1}},
	}
	collection.Indexes().CreateMany(ctx, indexes)

	return &MongoDiscordFeedbackRepository{
		collection: collection,
	}
}

// Insert creates a feedback
func (r *MongoDiscordFeedbackRepository) Insert(ctx context.Context, feedback *entity.DiscordFeedback) error {
	now := time.Now()
	if feedback.ID.IsZero() {
		feedback.ID = primitive.NewObjectID()
	}
	if feedback.Timestamp.IsZero() {
		feedback.Timestamp = now
	}
	feedback.CreatedAt = now
	feedback.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, feedback)
	return err
}

// FindByID finds a feedback by object ID
func (r *MongoDiscordFeedbackRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.DiscordFeedback, error) {
	var feedback entity.DiscordFeedback
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&feedback)
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

// FindByFeedbackID finds a feedback by its bot-assigned identifier
func (r *MongoDiscordFeedbackRepository) FindByFeedbackID(ctx context.Context, feedbackID string) (*entity.DiscordFeedback, error) {
	var feedback entity.DiscordFeedback
	err := r.collection.FindOne(ctx, bson.M{"feedbackId": feedbackID}).Decode(&feedback)
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

// List returns a page of feedbacks newest-first plus the total match count
func (r *MongoDiscordFeedbackRepository) List(ctx context.Context, filter repository.FeedbackFilter, page, limit int) ([]entity.DiscordFeedback, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.HasInformation != nil {
		query["hasInformation"] = *filter.HasInformation
	}
	if filter.Airport != "" {
		query["airport"] = filter.Airport
	}
	if filter.Airline != "" {
		query["airline"] = filter.Airline
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.M{"timestamp": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var feedbacks []entity.DiscordFeedback
	if err := cursor.All(ctx, &feedbacks); err != nil {
		return nil, 0, err
	}
	return feedbacks, total, nil
}

// Update replaces the mutable fields of a feedback
func (r *MongoDiscordFeedbackRepository) Update(ctx context.Context, feedback *entity.DiscordFeedback) error {
	feedback.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"status":        feedback.Status,
		"notes":         feedback.Notes,
		"adminNotes":    feedback.AdminNotes,
		"assignedTo":    feedback.AssignedTo,
		"completedAt":   feedback.CompletedAt,
		"parsedDetails": feedback.ParsedDetails,
		"updatedAt":     feedback.UpdatedAt,
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": feedback.ID}, update)
	return err
}

// Delete removes a feedback
func (r *MongoDiscordFeedbackRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// StatusCounts counts feedbacks per workflow status
func (r *MongoDiscordFeedbackRepository) StatusCounts(ctx context.Context) ([]entity.StatusCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []entity.StatusCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *MongoDiscordFeedbackRepository) topField(ctx context.Context, field, as string, limit int) (*mongo.Cursor, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{field: bson.M{"$nin": bson.A{nil, ""}}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$" + field,
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.M{
			"_id":   0,
			as:      "$_id",
			"count": 1,
		}}},
	}
	return r.collection.Aggregate(ctx, pipeline)
}

// TopAirports returns the airports with the most feedbacks
func (r *MongoDiscordFeedbackRepository) TopAirports(ctx context.Context, limit int) ([]entity.AirportCount, error) {
	cursor, err := r.topField(ctx, "airport", "airport", limit)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []entity.AirportCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// TopAirlines returns the airlines with the most feedbacks
func (r *MongoDiscordFeedbackRepository) TopAirlines(ctx context.Context, limit int) ([]entity.AirlineCount, error) {
	cursor, err := r.topField(ctx, "airline", "airline", limit)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []entity.AirlineCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// DailyCounts buckets feedbacks per calendar day since the given time
func (r *MongoDiscordFeedbackRepository) DailyCounts(ctx context.Context, since time.Time) ([]entity.DateCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"timestamp": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$timestamp",
			}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []entity.DateCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}
