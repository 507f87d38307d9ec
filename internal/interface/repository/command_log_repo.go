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

// MongoCommandLogRepository implements CommandLogRepository
type MongoCommandLogRepository struct {
	collection *mongo.Collection
}

// NewMongoCommandLogRepository creates a new command-log repository
func NewMongoCommandLogRepository(db *mongo.Database) repository.CommandLogRepository {
	collection := db.Collection("commandlogs")

	ctx := context.Background()
	indexes := []mongo.IndexModel{
		{Keys: bson.M{"timestamp": -1}},
		{Keys: bson.M{"details.airport": 1}},
	}
	collection.Indexes().CreateMany(ctx, indexes)

	return &MongoCommandLogRepository{
		collection: collection,
	}
}

func buildCommandLogFilter(filter repository.CommandLogFilter) bson.M {
	query := bson.M{}
	if filter.Search != "" {
		search := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"user.nickname": search},
			bson.M{"details.airport": search},
			bson.M{"details.airline": search},
		}
	}
	if filter.Since != nil {
		query["timestamp"] = bson.M{"$gte": *filter.Since}
	}
	return query
}

// List returns a page of command logs newest-first plus the total match count
func (r *MongoCommandLogRepository) List(ctx context.Context, filter repository.CommandLogFilter, page, limit int) ([]entity.CommandLog, int64, error) {
	query := buildCommandLogFilter(filter)

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

	var logs []entity.CommandLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// Delete removes a command log
func (r *MongoCommandLogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountOlderThan counts entries strictly before the cutoff
func (r *MongoCommandLogRepository) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"timestamp": bson.M{"$lt": cutoff}})
}

// DeleteOlderThan removes entries strictly before the cutoff
func (r *MongoCommandLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"timestamp": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// OldestTimestamp returns the timestamp of the oldest entry, nil when empty
func (r *MongoCommandLogRepository) OldestTimestamp(ctx context.Context) (*time.Time, error) {
	opts := options.FindOne().SetSort(bson.M{"timestamp": 1})

	var doc struct {
		Timestamp time.Time `bson:"timestamp"`
	}
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc.Timestamp, nil
}

func sinceMatch(since *time.Time) bson.M {
	if since == nil {
		return bson.M{}
	}
	return bson.M{"timestamp": bson.M{"$gte": *since}}
}

// Summary aggregates command and ACARS totals over the period in one pass
func (r *MongoCommandLogRepository) Summary(ctx context.Context, since *time.Time) (entity.CommandStatsSummary, entity.AcarsStatsSummary, error) {
	var cmdSummary entity.CommandStatsSummary
	var acarsSummary entity.AcarsStatsSummary

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: sinceMatch(since)}},
		{{Key: "$facet", Value: bson.M{
			"commands": bson.A{
				bson.M{"$group": bson.M{
					"_id":                 nil,
					"totalCommands":       bson.M{"$sum": 1},
					"successfulCommands":  bson.M{"$sum": bson.M{"$cond": bson.A{"$details.found", 1, 0}}},
					"averageResponseTime": bson.M{"$avg": "$details.responseTime"},
					"users":               bson.M{"$addToSet": "$user.id"},
					"airports":            bson.M{"$addToSet": "$details.airport"},
					"airlines":            bson.M{"$addToSet": "$details.airline"},
				}},
				bson.M{"$project": bson.M{
					"_id":                 0,
					"totalCommands":       1,
					"successfulCommands":  1,
					"averageResponseTime": bson.M{"$ifNull": bson.A{"$averageResponseTime", 0}},
					"uniqueUsers":         bson.M{"$size": "$users"},
					"uniqueAirports":      bson.M{"$size": bson.M{"$setDifference": bson.A{"$airports", bson.A{nil, ""}}}},
					"uniqueAirlines":      bson.M{"$size": bson.M{"$setDifference": bson.A{"$airlines", bson.A{nil, ""}}}},
				}},
			},
			"acars": bson.A{
				bson.M{"$match": bson.M{"details.acars.used": true}},
				bson.M{"$group": bson.M{
					"_id":                 nil,
					"totalUsed":           bson.M{"$sum": 1},
					"successCount":        bson.M{"$sum": bson.M{"$cond": bson.A{"$details.acars.success", 1, 0}}},
					"averageResponseTime": bson.M{"$avg": "$details.acars.responseTime"},
				}},
				bson.M{"$project": bson.M{
					"_id":                 0,
					"totalUsed":           1,
					"successCount":        1,
					"averageResponseTime": bson.M{"$ifNull": bson.A{"$averageResponseTime", 0}},
					"successRate": bson.M{"$cond": bson.A{
						bson.M{"$gt": bson.A{"$totalUsed", 0}},
						bson.M{"$multiply": bson.A{bson.M{"$divide": bson.A{"$successCount", "$totalUsed"}}, 100}},
						0,
					}},
				}},
			},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return cmdSummary, acarsSummary, fmt.Errorf("command summary aggregation: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Commands []entity.CommandStatsSummary `bson:"commands"`
		Acars    []entity.AcarsStatsSummary   `bson:"acars"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return cmdSummary, acarsSummary, fmt.Errorf("decode command summary: %w", err)
	}

	if len(results) > 0 {
		if len(results[0].Commands) > 0 {
			cmdSummary = results[0].Commands[0]
		}
		if len(results[0].Acars) > 0 {
			acarsSummary = results[0].Acars[0]
		}
	}
	return cmdSummary, acarsSummary, nil
}

// UsageByDay buckets entries per calendar day with a per-day success rate.
// Days without traffic are absent; the caller zero-fills the window.
func (r *MongoCommandLogRepository) UsageByDay(ctx context.Context, since *time.Time, acarsOnly bool) ([]entity.DailyUsage, error) {
	match := sinceMatch(since)
	successExpr := "$details.found"
	if acarsOnly {
		match["details.acars.used"] = true
		successExpr = "$details.acars.success"
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$timestamp",
			}},
			"count":     bson.M{"$sum": 1},
			"successes": bson.M{"$sum": bson.M{"$cond": bson.A{successExpr, 1, 0}}},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":   0,
			"date":  "$_id",
			"count": 1,
			"successRate": bson.M{"$cond": bson.A{
				bson.M{"$gt": bson.A{"$count", 0}},
				bson.M{"$multiply": bson.A{bson.M{"$divide": bson.A{"$successes", "$count"}}, 100}},
				0,
			}},
		}}},
		{{Key: "$sort", Value: bson.M{"date": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var usage []entity.DailyUsage
	if err := cursor.All(ctx, &usage); err != nil {
		return nil, err
	}
	return usage, nil
}

func (r *MongoCommandLogRepository) topField(ctx context.Context, since *time.Time, field, as string, limit int, extraMatch bson.M) (*mongo.Cursor, error) {
	match := sinceMatch(since)
	match[field] = bson.M{"$nin": bson.A{nil, ""}}
	for k, v := range extraMatch {
		match[k] = v
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
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

// TopAirports returns the most requested airports over the period
func (r *MongoCommandLogRepository) TopAirports(ctx context.Context, since *time.Time, limit int) ([]entity.AirportCount, error) {
	cursor, err := r.topField(ctx, since, "details.airport", "airport", limit, nil)
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

// TopAirlines returns the most requested airlines over the period
func (r *MongoCommandLogRepository) TopAirlines(ctx context.Context, since *time.Time, limit int) ([]entity.AirlineCount, error) {
	cursor, err := r.topField(ctx, since, "details.airline", "airline", limit, nil)
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

// TopAcarsNetworks returns the most used ACARS networks over the period
func (r *MongoCommandLogRepository) TopAcarsNetworks(ctx context.Context, since *time.Time, limit int) ([]entity.NetworkCount, error) {
	cursor, err := r.topField(ctx, since, "details.acars.network", "network", limit, bson.M{"details.acars.used": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []entity.NetworkCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}
