package handler

import (
	"net/http"
	"time"

	"github.com/naluwan/bttdb-schedule/internal/middleware"
	"github.com/naluwan/bttdb-schedule/internal/model"
	"github.com/naluwan/bttdb-schedule/pkg/database"
	"github.com/naluwan/bttdb-schedule/pkg/jwtutil"
	"github.com/naluwan/bttdb-schedule/pkg/logger"
	"github.com/naluwan/bttdb-schedule/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Login authenticates an employee of the resolved company and issues a JWT
// carrying their identity, role and tenant.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	company, ok := middleware.GetCompanyFromContext(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	// Find employee in database - track DB operation duration
	defer prometheus.TrackDBOperation("query")(time.Now())
	var employee model.Employee
	result := database.GetDB().Where("company_id = ? AND email = ?", company.ID, req.Email).First(&employee)
	if result.Error != nil {
		log.Warn("Employee not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(employee.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if employee.IsLock {
		log.Warn("Locked account attempted login", zap.String("email", req.Email))
		prometheus.RecordAuthError("account_locked")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account is locked"})
	}

	token, err := jwtutil.GenerateToken(employee.Email, employee.ID, company.ID, company.Slug, employee.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("Employee logged in",
		zap.String("email", employee.Email),
		zap.Uint("company_id", company.ID),
		zap.String("role", employee.Role))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"id":    employee.ID,
			"name":  employee.Name,
			"email": employee.Email,
			"role":  employee.Role,
		},
	})
}

// Verify returns the identity behind the presented token. The UI calls it on
// load to restore a session.
func Verify(c echo.Context) error {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	var employee model.Employee
	result := database.GetDB().First(&employee, actor.EmployeeID)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user": echo.Map{
			"id":    employee.ID,
			"name":  employee.Name,
			"email": employee.Email,
			"role":  employee.Role,
		},
	})
}

// ChangePassword replaces the acting employee's password after verifying the
// current one.
func ChangePassword(c echo.Context) error {
	log := logger.FromContext(c)

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "old_password and new_password are required"})
	}

	var employee model.Employee
	result := database.GetDB().First(&employee, actor.EmployeeID)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.Password), []byte(req.OldPassword)); err != nil {
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	if err := database.GetDB().Model(&employee).Update("password", string(hashed)).Error; err != nil {
		log.Error("Failed to update password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update password"})
	}

	log.Info("Password changed", zap.Uint("employee_id", employee.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
