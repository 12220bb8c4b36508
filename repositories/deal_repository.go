package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadrake/leadrake_backend/models"
)

type DealRepository struct {
	collection *mongo.Collection
}

func NewDealRepository(db *mongo.Database) *DealRepository {
	return &DealRepository{
		collection: db.Collection("deals"),
	}
}

// FindByID returns (nil, nil) when no deal exists with the given ID.
func (r *DealRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Deal, error) {
	var deal models.Deal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&deal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &deal, nil
}

func (r *DealRepository) Create(ctx context.Context, deal *models.Deal) error {
	if deal.ID.IsZero() {
		deal.ID = primitive.NewObjectID()
	}
	deal.CreatedAt = time.Now()
	deal.UpdatedAt = deal.CreatedAt
	_, err := r.collection.InsertOne(ctx, deal)
	return err
}

// UpdateStage moves a deal to a new stage, stamping ClosedAt when the stage
// is terminal. Returns the updated deal, or (nil, nil) when no deal matched.
func (r *DealRepository) UpdateStage(ctx context.Context, id primitive.ObjectID, stage string) (*models.Deal, error) {
	set := bson.M{
		"stage":     stage,
		"updatedAt": time.Now(),
	}
	if models.IsTerminalStage(stage) {
		set["closedAt"] = time.Now()
	}

	var deal models.Deal
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&deal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &deal, nil
}

func (r *DealRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updatedAt"] = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (r *DealRepository) ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]models.Deal, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"workspaceId": workspaceID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var deals []models.Deal
	if err := cursor.All(ctx, &deals); err != nil {
		return nil, err
	}
	return deals, nil
}

func (r *DealRepository) ListByAssignee(ctx context.Context, sdrID primitive.ObjectID) ([]models.Deal, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"assignedTo": sdrID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var deals []models.Deal
	if err := cursor.All(ctx, &deals); err != nil {
		return nil, err
	}
	return deals, nil
}

func (r *DealRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
