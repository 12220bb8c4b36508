package repositories

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadrake/leadrake_backend/models"
	"github.com/leadrake/leadrake_backend/utils"
)

// NotificationRepository stores in-app notifications and fans them out to
// push and email channels. Only the Mongo insert is reported to the caller;
// push and email are best-effort extras on top of it.
type NotificationRepository struct {
	db *mongo.Database
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Send implements services.NotificationSink.
func (r *NotificationRepository) Send(ctx context.Context, userID, workspaceID primitive.ObjectID, notifType, title, message string, data map[string]interface{}) error {
	if err := utils.SaveNotification(r.db, userID, workspaceID, title, message, notifType, data); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}

	if err := utils.SendFCMNotificationToUser(r.db, userID, title, message, data); err != nil {
		log.Printf("FCM push for %s notification to user %s failed: %v", notifType, userID.Hex(), err)
	}

	// Commission and dispute events also go out by email.
	switch notifType {
	case models.NotificationCommissionCreated, models.NotificationDisputeCreated, models.NotificationDisputeResolved:
		r.sendEmail(ctx, userID, title, message)
	}

	return nil
}

func (r *NotificationRepository) sendEmail(ctx context.Context, userID primitive.ObjectID, subject, body string) {
	var user models.User
	err := r.db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		log.Printf("Email lookup for user %s failed: %v", userID.Hex(), err)
		return
	}
	if err := utils.SendNotificationEmail(user.Email, subject, body); err != nil {
		log.Printf("Email to %s failed: %v", user.Email, err)
	}
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Notification, error) {
	cursor, err := r.db.Collection("notifications").Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.db.Collection("notifications").CountDocuments(ctx, bson.M{"userId": userID, "isRead": false})
}

// MarkRead flags one notification as read. Scoped by userID so a recipient
// can only toggle their own notifications.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	result, err := r.db.Collection("notifications").UpdateOne(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	result, err := r.db.Collection("notifications").UpdateMany(ctx,
		bson.M{"userId": userID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}
