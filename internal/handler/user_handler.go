package handler

import (
	"net/http"

	"github.com/EduardoAE22/komerciohub/internal/model"
	"github.com/EduardoAE22/komerciohub/pkg/database"
	"github.com/EduardoAE22/komerciohub/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// ListUsers lists active users
func ListUsers(c echo.Context) error {
	log := logger.FromEcho(c)

	var users []model.User
	if result := database.GetDB().Scopes(model.ActiveOnly).Order("id").Find(&users); result.Error != nil {
		log.Error("Failed to list users", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to list users"})
	}

	return c.JSON(http.StatusOK, users)
}

// GetUser retrieves an active user by id
func GetUser(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user id"})
	}

	var user model.User
	result := database.GetDB().Scopes(model.ActiveOnly).First(&user, id)
	if result.Error != nil {
		log.Warn("User not found", zap.Uint("id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found or inactive"})
	}

	return c.JSON(http.StatusOK, user)
}

// CreateUser registers a new user with a hashed password
func CreateUser(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}

	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "full_name, email and password are required"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create user"})
	}

	role := req.Role
	if role == "" {
		role = "owner"
	}

	user := model.User{
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         role,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	if result := database.GetDB().Create(&user); result.Error != nil {
		log.Error("Failed to create user", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create user"})
	}

	log.Info("User created", zap.Uint("id", user.ID), zap.String("email", user.Email))

	return c.JSON(http.StatusCreated, user)
}

// UpdateUser applies a partial update; unspecified fields keep their value
func UpdateUser(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user id"})
	}

	var req struct {
		FullName *string `json:"full_name"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
		Role     *string `json:"role"`
	}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}

	var user model.User
	if result := database.GetDB().First(&user, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			log.Error("Failed to hash password", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update user"})
		}
		updates["password_hash"] = string(hash)
	}

	if len(updates) > 0 {
		if result := database.GetDB().Model(&user).Updates(updates); result.Error != nil {
			log.Error("Failed to update user", zap.Error(result.Error))
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update user"})
		}
	}

	return c.JSON(http.StatusOK, user)
}

// DeleteUser soft-deletes a user (is_active = false)
func DeleteUser(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user id"})
	}

	var user model.User
	if result := database.GetDB().First(&user, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
	}

	if result := database.GetDB().Model(&user).Update("is_active", false); result.Error != nil {
		log.Error("Failed to deactivate user", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to deactivate user"})
	}

	log.Info("User deactivated", zap.Uint("id", user.ID))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "user deactivated",
		"user":    user,
	})
}
