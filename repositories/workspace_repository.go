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

type WorkspaceRepository struct {
	collection *mongo.Collection
}

func NewWorkspaceRepository(db *mongo.Database) *WorkspaceRepository {
	return &WorkspaceRepository{
		collection: db.Collection("workspaces"),
	}
}

// FindByID returns (nil, nil) when no workspace exists with the given ID.
func (r *WorkspaceRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Workspace, error) {
	var workspace models.Workspace
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workspace)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &workspace, nil
}

func (r *WorkspaceRepository) Create(ctx context.Context, workspace *models.Workspace) error {
	if workspace.ID.IsZero() {
		workspace.ID = primitive.NewObjectID()
	}
	if workspace.RakePercent == 0 {
		workspace.RakePercent = models.DefaultRakePercent
	}
	workspace.CreatedAt = time.Now()
	workspace.UpdatedAt = workspace.CreatedAt
	_, err := r.collection.InsertOne(ctx, workspace)
	return err
}

// UpdateRake changes the workspace rake percentage. Existing commissions are
// never recalculated; the new rake applies only to deals closed afterwards.
func (r *WorkspaceRepository) UpdateRake(ctx context.Context, id primitive.ObjectID, rakePercent float64) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"rakePercent": rakePercent, "updatedAt": time.Now()}},
	)
	return err
}

func (r *WorkspaceRepository) AddMember(ctx context.Context, workspaceID, sdrID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": workspaceID},
		bson.M{
			"$addToSet": bson.M{"members": sdrID},
			"$set":      bson.M{"updatedAt": time.Now()},
		},
	)
	return err
}

func (r *WorkspaceRepository) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Workspace, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"ownerId": ownerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var workspaces []models.Workspace
	if err := cursor.All(ctx, &workspaces); err != nil {
		return nil, err
	}
	return workspaces, nil
}

func (r *WorkspaceRepository) ListForMember(ctx context.Context, sdrID primitive.ObjectID) ([]models.Workspace, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"members": sdrID})
	if err != nil {
		return nil, err
	}
	var workspaces []models.Workspace
	if err := cursor.All(ctx, &workspaces); err != nil {
		return nil, err
	}
	return workspaces, nil
}
