// utils/auth.go
package utils

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadrake/leadrake_backend/middleware"
	"github.com/leadrake/leadrake_backend/models"
)

// GetUserIDFromToken extracts the user ID from the JWT token
func GetUserIDFromToken(c echo.Context) (primitive.ObjectID, error) {
	userToken := c.Get("user")
	if userToken == nil {
		return primitive.NilObjectID, errors.New("no token found")
	}

	token, ok := userToken.(*jwt.Token)
	if !ok {
		return primitive.NilObjectID, errors.New("invalid token type")
	}

	if claims, ok := token.Claims.(*middleware.JwtCustomClaims); ok {
		return primitive.ObjectIDFromHex(claims.UserID)
	}

	// Fallback to standard map claims if needed
	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		idStr, ok := claims["userId"].(string)
		if !ok {
			return primitive.NilObjectID, echo.ErrUnauthorized
		}
		return primitive.ObjectIDFromHex(idStr)
	}

	return primitive.NilObjectID, echo.ErrUnauthorized
}

// GetUserFromToken extracts the user from the JWT token and retrieves the
// full user object from the database
func GetUserFromToken(c echo.Context, db *mongo.Database) (*models.User, error) {
	userID, err := GetUserIDFromToken(c)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("user not found")
		}
		return nil, errors.New("error retrieving user")
	}

	// Don't return password in response
	user.Password = ""

	return &user, nil
}
