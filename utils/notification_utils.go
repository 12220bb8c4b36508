package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"firebase.google.com/go/v4/messaging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"

	"github.com/leadrake/leadrake_backend/config"
	"github.com/leadrake/leadrake_backend/models"
)

// SaveNotification saves a notification to the database
func SaveNotification(db *mongo.Database, userID, workspaceID primitive.ObjectID, title, message, notifType string, data interface{}) error {
	notification := models.Notification{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		WorkspaceID: workspaceID,
		Title:       title,
		Message:     message,
		Type:        notifType,
		Data:        data,
		IsRead:      false,
		CreatedAt:   time.Now(),
	}

	_, err := db.Collection("notifications").InsertOne(context.Background(), notification)
	return err
}

// SendFCMNotificationToUser sends a push notification to a user's registered
// device. Failures are reported to the caller but are always safe to ignore:
// push delivery is best-effort.
func SendFCMNotificationToUser(db *mongo.Database, userID primitive.ObjectID, title, message string, data map[string]interface{}) error {
	var user models.User
	err := db.Collection("users").FindOne(context.Background(), bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	if user.FCMToken == "" {
		return fmt.Errorf("user %s has no FCM token", userID.Hex())
	}

	if config.FirebaseApp == nil {
		return fmt.Errorf("firebase app not initialized")
	}

	ctx := context.Background()
	client, err := config.FirebaseApp.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging client: %w", err)
	}

	notificationData := map[string]string{
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if data != nil {
		for key, value := range data {
			notificationData[key] = fmt.Sprintf("%v", value)
		}
	}

	fcmMessage := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  message,
		},
		Data: notificationData,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:     "default",
				ChannelID: "leadrake_fcm_channel",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: title,
						Body:  message,
					},
					Sound: "default",
					Badge: func() *int { v := 1; return &v }(),
				},
			},
		},
	}

	response, err := client.Send(ctx, fcmMessage)
	if err != nil {
		return fmt.Errorf("failed to send FCM notification: %w", err)
	}

	log.Printf("FCM notification sent to user %s: %s", userID.Hex(), response)
	return nil
}

// SendNotificationEmail sends a plain-text email. Used for commission and
// dispute notifications; failures are logged by callers, never propagated.
func SendNotificationEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	if smtpHost == "" {
		return fmt.Errorf("SMTP_HOST not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}
