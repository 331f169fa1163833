package handler

import (
	"net/http"

	"github.com/EduardoAE22/komerciohub/internal/model"
	"github.com/EduardoAE22/komerciohub/pkg/database"
	"github.com/EduardoAE22/komerciohub/pkg/jwtutil"
	"github.com/EduardoAE22/komerciohub/pkg/logger"
	"github.com/EduardoAE22/komerciohub/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Login authenticates a user and returns a bearer token
func Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}

	if req.Email == "" || req.Password == "" {
		prometheus.RecordAuthError("missing_fields")
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "email and password are required"})
	}

	var user model.User
	if result := database.GetDB().Where("email = ?", req.Email).First(&user); result.Error != nil {
		log.Warn("Login for unknown email", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid credentials"})
	}

	if !user.IsActive {
		log.Warn("Login for inactive user", zap.Uint("user_id", user.ID))
		prometheus.RecordAuthError("inactive_user")
		return c.JSON(http.StatusForbidden, echo.Map{"message": "inactive user, contact the administrator"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid credentials"})
	}

	token, err := jwtutil.GenerateToken(user.Email, user.ID, user.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "login failed"})
	}

	log.Info("User logged in", zap.String("email", user.Email), zap.Uint("user_id", user.ID))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "login successful",
		"user":    user,
		"token":   token,
	})
}
