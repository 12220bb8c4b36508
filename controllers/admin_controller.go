package controllers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadrake/leadrake_backend/models"
	"github.com/leadrake/leadrake_backend/repositories"
	"github.com/leadrake/leadrake_backend/utils"
)

type AdminController struct {
	db       *mongo.Database
	profiles *repositories.SDRProfileRepository
}

func NewAdminController(db *mongo.Database, profiles *repositories.SDRProfileRepository) *AdminController {
	return &AdminController{
		db:       db,
		profiles: profiles,
	}
}

// AssignRoleRequest represents the request body for changing a user's role
type AssignRoleRequest struct {
	UserType string `json:"userType" validate:"required"`
}

// CreateSDRRequest represents the request body for creating an SDR account
type CreateSDRRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required"`
	Phone    string `json:"phone,omitempty"`
}

// AssignRole changes a user's type. Admin only.
func (ac *AdminController) AssignRole(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var req AssignRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if !models.IsValidUserType(req.UserType) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown user type: " + req.UserType,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := ac.db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"userType": req.UserType, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Printf("Error assigning role: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to assign role",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	// Granting the sdr role also guarantees the profile row exists so
	// commission processing never sees a half-created SDR.
	if req.UserType == models.UserTypeSDR {
		var user models.User
		if err := ac.db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err == nil {
			if err := ac.profiles.EnsureProfile(ctx, userID, user.FullName); err != nil {
				log.Printf("Error ensuring SDR profile for %s: %v", userID.Hex(), err)
			}
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Role assigned successfully",
	})
}

// CreateSDR provisions an SDR account with a hashed password and a baseline
// level-1 profile.
func (ac *AdminController) CreateSDR(c echo.Context) error {
	var req CreateSDRRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing or invalid fields",
		})
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  hashed,
		FullName:  req.FullName,
		UserType:  models.UserTypeSDR,
		Phone:     req.Phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := ac.db.Collection("users").InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "An account with this email already exists",
			})
		}
		log.Printf("Error creating SDR account: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account",
		})
	}

	if err := ac.profiles.EnsureProfile(ctx, user.ID, user.FullName); err != nil {
		log.Printf("Error creating SDR profile for %s: %v", user.ID.Hex(), err)
	}

	user.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "SDR account created successfully",
		Data:    user,
	})
}

// RecomputeSDR rebuilds an SDR's cumulative closed value from deal history.
func (ac *AdminController) RecomputeSDR(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	profile, err := ac.profiles.RecomputeClosedValue(ctx, userID)
	if err != nil {
		log.Printf("Error recomputing closed value for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to recompute SDR totals",
		})
	}
	if profile == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "SDR profile not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "SDR totals recomputed successfully",
		Data:    profile,
	})
}

// ListUsers returns accounts for the admin console, optionally filtered by
// user type.
func (ac *AdminController) ListUsers(c echo.Context) error {
	filter := bson.M{}
	if t := c.QueryParam("userType"); t != "" {
		if !models.IsValidUserType(t) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Unknown user type: " + t,
			})
		}
		filter["userType"] = t
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := ac.db.Collection("users").Find(ctx, filter)
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		log.Printf("Error decoding users: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
	for i := range users {
		users[i].Password = ""
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved successfully",
		Data:    users,
	})
}
