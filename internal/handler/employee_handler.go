package handler

import (
	"net/http"
	"time"

	"github.com/naluwan/bttdb-schedule/internal/middleware"
	"github.com/naluwan/bttdb-schedule/internal/model"
	"github.com/naluwan/bttdb-schedule/pkg/database"
	"github.com/naluwan/bttdb-schedule/pkg/logger"
	"github.com/naluwan/bttdb-schedule/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// EmployeeRequest defines the structure for employee registration requests
type EmployeeRequest struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Password     string    `json:"password"`
	Role         string    `json:"role"`
	DateEmployed time.Time `json:"date_employed"`
}

// ListEmployees returns the company's employee directory. This is the roster
// source for auto-scheduling.
func ListEmployees(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, _ := middleware.GetCompanyIDFromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var employees []model.Employee
	result := database.GetDB().Where("company_id = ?", companyID).Order("id").Find(&employees)
	if result.Error != nil {
		log.Error("Failed to list employees", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve employees"})
	}

	log.Info("Employees retrieved", zap.Int("count", len(employees)))
	return c.JSON(http.StatusOK, echo.Map{"data": employees})
}

// RegisterEmployee creates a new employee account in the company. Admin only.
func RegisterEmployee(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, _ := middleware.GetCompanyIDFromContext(c)
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}
	if !actor.IsAdmin() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "admin role required"})
	}

	var req EmployeeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and password are required"})
	}
	role := req.Role
	if role == "" {
		role = model.RoleEmployee
	}
	if role != model.RoleEmployee && role != model.RoleAdmin {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	// Check if an account with this email already exists
	var count int64
	database.GetDB().Model(&model.Employee{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		log.Warn("Employee with this email already exists", zap.String("email", req.Email))
		return c.JSON(http.StatusConflict, echo.Map{"error": "employee with this email already exists"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	employee := model.Employee{
		Name:         req.Name,
		Email:        req.Email,
		Password:     string(hashed),
		Role:         role,
		DateEmployed: req.DateEmployed,
		CompanyID:    companyID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := database.GetDB().Create(&employee).Error; err != nil {
		log.Error("Failed to create employee", zap.String("email", req.Email), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create employee"})
	}

	log.Info("Employee registered",
		zap.Uint("employee_id", employee.ID),
		zap.String("email", employee.Email),
		zap.String("role", employee.Role))
	return c.JSON(http.StatusCreated, echo.Map{"message": "employee created", "data": employee})
}
