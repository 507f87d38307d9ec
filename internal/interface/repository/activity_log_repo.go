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
)

// MongoActivityLogRepository implements ActivityLogRepository
type MongoActivityLogRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityLogRepository creates a new activity-log repository
func NewMongoActivityLogRepository(db *mongo.Database) repository.ActivityLogRepository {
	collection := db.Collection("activitylogs")

	ctx := context.Background()
	indexes := []mongo.IndexModel{
		{Keys: bson.M{"timestamp": -1}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}}},
	}
	collection.Indexes().CreateMany(ctx, indexes)

	return &MongoActivityLogRepository{
		collection: collection,
	}
}

// Insert appends an audit entry
func (r *MongoActivityLogRepository) Insert(ctx context.Context, log *entity.ActivityLog) error {
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, log)
	return err
}

var activitySortFields = map[string]string{
	"timestamp":  "timestamp",
	"action":     "action",
	"targetType": "targetType",
}

// List returns a page of entries, each left-joined with a minimal user
// projection so entries survive user deletion. The join runs after
// pagination to keep it off the full collection.
func (r *MongoActivityLogRepository) List(ctx context.Context, filter repository.ActivityLogFilter, page, limit int, sortField string, sortDesc bool) ([]entity.ActivityLogWithUser, int64, error) {
	match := bson.M{}
	if filter.UserID != nil {
		match["userId"] = *filter.UserID
	}
	if filter.Action != "" {
		match["action"] = filter.Action
	}
	if filter.TargetType != "" {
		match["targetType"] = filter.TargetType
	}
	if filter.StartDate != nil || filter.EndDate != nil {
		dateRange := bson.M{}
		if filter.StartDate != nil {
			dateRange["$gte"] = *filter.StartDate
		}
		if filter.EndDate != nil {
			dateRange["$lte"] = *filter.EndDate
		}
		match["timestamp"] = dateRange
	}

	field, ok := activitySortFields[sortField]
	if !ok {
		field = "timestamp"
		sortDesc = true
	}
	order := 1
	if sortDesc {
		order = -1
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: field, Value: order}, {Key: "_id", Value: -1}}}},
		{{Key: "$facet", Value: bson.M{
			"paginatedResults": bson.A{
				bson.M{"$skip": (page - 1) * limit},
				bson.M{"$limit": limit},
				bson.M{"$lookup": bson.M{
					"from":         "users",
					"localField":   "userId",
					"foreignField": "_id",
					"as":           "user",
				}},
				bson.M{"$unwind": bson.M{
					"path":                       "$user",
					"preserveNullAndEmptyArrays": true,
				}},
				bson.M{"$project": bson.M{
					"user.password": 0,
					"user.email":    0,
					"user.roles":    0,
				}},
			},
			"totalCount": bson.A{
				bson.M{"$count": "count"},
			},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("activity log aggregation: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		PaginatedResults []entity.ActivityLogWithUser `bson:"paginatedResults"`
		TotalCount       []struct {
			Count int64 `bson:"count"`
		} `bson:"totalCount"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, fmt.Errorf("decode activity logs: %w", err)
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

// FindByID finds an audit entry
func (r *MongoActivityLogRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.ActivityLog, error) {
	var log entity.ActivityLog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log)
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// Delete removes an audit entry
func (r *MongoActivityLogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
