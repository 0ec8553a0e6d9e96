package handler

import (
	"net/http"
	"time"

	"github.com/naluwan/bttdb-schedule/internal/middleware"
	"github.com/naluwan/bttdb-schedule/internal/model"
	"github.com/naluwan/bttdb-schedule/internal/schedule"
	"github.com/naluwan/bttdb-schedule/pkg/database"
	"github.com/naluwan/bttdb-schedule/pkg/logger"
	"github.com/naluwan/bttdb-schedule/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ScheduleRequest names the target month of a generation or teardown run.
// Year is optional: when omitted, the month resolves to the current year, or
// the next one once the calendar has rolled past that month.
type ScheduleRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// AutoSchedule runs month-wide shift generation for the company's roster.
// The call blocks until all chunks are persisted; clients poll Progress from
// a second request while it runs. Admin only.
func AutoSchedule(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, _ := middleware.GetCompanyIDFromContext(c)
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}
	if !actor.IsAdmin() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "admin role required"})
	}

	var req ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Month < 1 || req.Month > 12 {
		return respondError(c, schedule.ErrInvalidMonth)
	}

	month := time.Month(req.Month)
	year := req.Year
	if year == 0 {
		year = schedule.TargetYear(time.Now().In(businessLoc), month)
	}

	roster, err := loadRoster(c, companyID)
	if err != nil {
		log.Error("Failed to load roster", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load roster"})
	}

	log.Info("Starting auto-schedule run",
		zap.Uint("company_id", companyID),
		zap.Int("year", year),
		zap.Int("month", req.Month),
		zap.Int("roster_size", len(roster)))

	started := time.Now()
	inserted, err := runner.Generate(c.Request().Context(), companyID, year, month, roster)
	if err != nil {
		prometheus.RecordScheduleJob("generate", "error")
		log.Error("Auto-schedule run failed", zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordScheduleJob("generate", "success")
	prometheus.ScheduleJobDuration.WithLabelValues("generate").Observe(time.Since(started).Seconds())
	return c.JSON(http.StatusCreated, echo.Map{
		"message":        "automatic schedule created",
		"inserted_count": inserted,
		"year":           year,
		"month":          req.Month,
	})
}

// TeardownSchedule deletes every automatic shift of the requested month.
// Zero matching records is a success with deleted_count 0. Admin only.
func TeardownSchedule(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, _ := middleware.GetCompanyIDFromContext(c)
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}
	if !actor.IsAdmin() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "admin role required"})
	}

	var req ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Month < 1 || req.Month > 12 {
		return respondError(c, schedule.ErrInvalidMonth)
	}

	month := time.Month(req.Month)
	year := req.Year
	if year == 0 {
		year = schedule.TargetYear(time.Now().In(businessLoc), month)
	}

	started := time.Now()
	deleted, err := runner.Teardown(c.Request().Context(), companyID, year, month)
	if err != nil {
		prometheus.RecordScheduleJob("teardown", "error")
		log.Error("Schedule teardown failed", zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordScheduleJob("teardown", "success")
	prometheus.ScheduleJobDuration.WithLabelValues("teardown").Observe(time.Since(started).Seconds())
	log.Info("Schedule teardown finished",
		zap.Uint("company_id", companyID),
		zap.Int("month", req.Month),
		zap.Int("deleted", deleted))
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "automatic shifts deleted",
		"deleted_count": deleted,
	})
}

// Progress returns the company's current batch-job progress (0-100) for
// polling while a generation or teardown call is outstanding.
func Progress(c echo.Context) error {
	companyID, _ := middleware.GetCompanyIDFromContext(c)
	return c.JSON(http.StatusOK, echo.Map{"progress": runner.Progress(companyID)})
}

// loadRoster returns the company's schedulable employees: active, unlocked
// accounts. Role-based exclusions are the directory's concern, not the
// generator's.
func loadRoster(c echo.Context, companyID uint) ([]schedule.RosterEntry, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var employees []model.Employee
	result := database.GetDB().WithContext(c.Request().Context()).
		Where("company_id = ? AND is_lock = ?", companyID, false).
		Order("id").
		Find(&employees)
	if result.Error != nil {
		return nil, result.Error
	}

	roster := make([]schedule.RosterEntry, len(employees))
	for i, employee := range employees {
		roster[i] = schedule.RosterEntry{EmployeeID: employee.ID, Name: employee.Name}
	}
	return roster, nil
}
