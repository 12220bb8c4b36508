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

type CommissionRepository struct {
	collection *mongo.Collection
}

func NewCommissionRepository(db *mongo.Database) *CommissionRepository {
	return &CommissionRepository{
		collection: db.Collection("commissions"),
	}
}

// ExistsForDeal reports whether a commission already exists for the deal.
func (r *CommissionRepository) ExistsForDeal(ctx context.Context, dealID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"dealId": dealID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert writes the commission row. A duplicate-key rejection from the
// unique dealId index is not an error: it reports created=false, proving a
// concurrent insert for the same deal already succeeded.
func (r *CommissionRepository) Insert(ctx context.Context, commission *models.Commission) (bool, error) {
	if commission.ID.IsZero() {
		commission.ID = primitive.NewObjectID()
	}
	commission.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, commission)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// FindByID returns (nil, nil) when no commission exists with the given ID.
func (r *CommissionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Commission, error) {
	var commission models.Commission
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&commission)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

func (r *CommissionRepository) ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]models.Commission, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"workspaceId": workspaceID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var commissions []models.Commission
	if err := cursor.All(ctx, &commissions); err != nil {
		return nil, err
	}
	return commissions, nil
}

func (r *CommissionRepository) ListBySDR(ctx context.Context, sdrID primitive.ObjectID) ([]models.Commission, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"sdrId": sdrID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var commissions []models.Commission
	if err := cursor.All(ctx, &commissions); err != nil {
		return nil, err
	}
	return commissions, nil
}

// MarkPaid transitions a pending commission to paid. Returns the updated
// commission and alreadyPaid=true when the commission exists but was paid
// before this call; (nil, false, nil) when no commission matched at all.
func (r *CommissionRepository) MarkPaid(ctx context.Context, id, adminID primitive.ObjectID) (*models.Commission, bool, error) {
	now := time.Now()
	var commission models.Commission
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.CommissionStatusPending},
		bson.M{"$set": bson.M{
			"status": models.CommissionStatusPaid,
			"paidAt": now,
			"paidBy": adminID,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&commission)
	if err == nil {
		return &commission, false, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, false, err
	}

	// No pending row matched: either already paid, or missing entirely.
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, nil
	}
	return existing, true, nil
}
