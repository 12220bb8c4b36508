package repositories

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadrake/leadrake_backend/models"
	"github.com/leadrake/leadrake_backend/services"
	"github.com/leadrake/leadrake_backend/utils"
)

// SDRProfileRepository maintains SDR aggregate state in MongoDB and mirrors
// per-workspace leaderboards into Redis sorted sets. Redis may be nil; the
// leaderboard then falls back to a MongoDB aggregation.
type SDRProfileRepository struct {
	profiles *mongo.Collection
	deals    *mongo.Collection
	redis    *redis.Client
}

func NewSDRProfileRepository(db *mongo.Database, redisClient *redis.Client) *SDRProfileRepository {
	return &SDRProfileRepository{
		profiles: db.Collection("sdr_profiles"),
		deals:    db.Collection("deals"),
		redis:    redisClient,
	}
}

// FindByUserID returns (nil, nil) when the SDR has no profile row yet.
func (r *SDRProfileRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.SDRProfile, error) {
	var profile models.SDRProfile
	err := r.profiles.FindOne(ctx, bson.M{"userId": userID}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// EnsureProfile creates the baseline level-1 profile row if none exists.
func (r *SDRProfileRepository) EnsureProfile(ctx context.Context, userID primitive.ObjectID, fullName string) error {
	now := time.Now()
	_, err := r.profiles.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$setOnInsert": bson.M{
				"fullName":         fullName,
				"sdrLevel":         int(utils.Level1),
				"totalClosedValue": float64(0),
				"dealsClosed":      0,
				"createdAt":        now,
				"updatedAt":        now,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// ApplyClosedDeal atomically adds a closed deal's value to the SDR's
// cumulative total and raises the stored level to the one derived from the
// new total. The level update uses $max, so a previously granted level can
// never be lowered. Returns the level before and after the update.
func (r *SDRProfileRepository) ApplyClosedDeal(ctx context.Context, workspaceID, userID primitive.ObjectID, dealValue float64) (*services.ClosedDealResult, error) {
	now := time.Now()
	var updated models.SDRProfile
	err := r.profiles.FindOneAndUpdate(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$inc": bson.M{"totalClosedValue": dealValue, "dealsClosed": 1},
			"$set": bson.M{"updatedAt": now},
			"$setOnInsert": bson.M{
				"sdrLevel":  int(utils.Level1),
				"createdAt": now,
			},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return nil, err
	}

	// The update above never touches sdrLevel on an existing row, so the
	// returned document still carries the pre-closure level.
	oldLevel, err := utils.ParseLevel(updated.SDRLevel)
	if err != nil {
		return nil, err
	}

	progress, err := utils.LevelFor(updated.TotalClosedValue)
	if err != nil {
		return nil, err
	}

	newLevel := oldLevel
	if progress.Level > oldLevel {
		newLevel = progress.Level
		_, err = r.profiles.UpdateOne(ctx,
			bson.M{"userId": userID},
			bson.M{"$max": bson.M{"sdrLevel": int(newLevel)}},
		)
		if err != nil {
			return nil, err
		}
	}

	r.updateLeaderboard(ctx, workspaceID, userID, updated.TotalClosedValue)

	return &services.ClosedDealResult{
		OldLevel:         oldLevel,
		NewLevel:         newLevel,
		TotalClosedValue: updated.TotalClosedValue,
	}, nil
}

// RecomputeClosedValue rebuilds the cumulative total from closed_won deal
// history. Manual drift repair for operators; the level still only moves up.
func (r *SDRProfileRepository) RecomputeClosedValue(ctx context.Context, userID primitive.ObjectID) (*models.SDRProfile, error) {
	cursor, err := r.deals.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"assignedTo": userID, "stage": models.StageClosedWon}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$value"},
			"count": bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return nil, err
	}

	var results []struct {
		Total float64 `bson:"total"`
		Count int     `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	total := 0.0
	count := 0
	if len(results) > 0 {
		total = results[0].Total
		count = results[0].Count
	}

	progress, err := utils.LevelFor(total)
	if err != nil {
		return nil, err
	}

	var profile models.SDRProfile
	err = r.profiles.FindOneAndUpdate(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$set": bson.M{
				"totalClosedValue": total,
				"dealsClosed":      count,
				"updatedAt":        time.Now(),
			},
			"$max": bson.M{"sdrLevel": int(progress.Level)},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func leaderboardKey(workspaceID primitive.ObjectID) string {
	return fmt.Sprintf("leaderboard:%s", workspaceID.Hex())
}

// updateLeaderboard mirrors the SDR's new total into the workspace sorted
// set. Best-effort: a Redis failure only costs leaderboard freshness.
func (r *SDRProfileRepository) updateLeaderboard(ctx context.Context, workspaceID, userID primitive.ObjectID, total float64) {
	if r.redis == nil {
		return
	}
	err := r.redis.ZAdd(ctx, leaderboardKey(workspaceID), &redis.Z{
		Score:  total,
		Member: userID.Hex(),
	}).Err()
	if err != nil {
		log.Printf("Failed to update leaderboard for workspace %s: %v", workspaceID.Hex(), err)
	}
}

// Leaderboard returns the top SDRs of a workspace by cumulative closed
// value, served from Redis when available and rebuilt from deal history
// otherwise.
func (r *SDRProfileRepository) Leaderboard(ctx context.Context, workspaceID primitive.ObjectID, limit int64) ([]models.LeaderboardEntry, error) {
	if r.redis != nil {
		entries, err := r.redis.ZRevRangeWithScores(ctx, leaderboardKey(workspaceID), 0, limit-1).Result()
		if err == nil && len(entries) > 0 {
			leaderboard := make([]models.LeaderboardEntry, 0, len(entries))
			for _, z := range entries {
				member, ok := z.Member.(string)
				if !ok {
					continue
				}
				id, err := primitive.ObjectIDFromHex(member)
				if err != nil {
					continue
				}
				leaderboard = append(leaderboard, models.LeaderboardEntry{
					UserID:           id,
					TotalClosedValue: z.Score,
				})
			}
			return leaderboard, nil
		}
		if err != nil {
			log.Printf("Leaderboard read from Redis failed for workspace %s, falling back to MongoDB: %v", workspaceID.Hex(), err)
		}
	}

	cursor, err := r.deals.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"workspaceId": workspaceID, "stage": models.StageClosedWon}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":              "$assignedTo",
			"totalClosedValue": bson.M{"$sum": "$value"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"totalClosedValue": -1}}},
		bson.D{{Key: "$limit", Value: limit}},
	})
	if err != nil {
		return nil, err
	}

	var leaderboard []models.LeaderboardEntry
	if err := cursor.All(ctx, &leaderboard); err != nil {
		return nil, err
	}
	return leaderboard, nil
}
