package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/naluwan/bttdb-schedule/internal/middleware"
	"github.com/naluwan/bttdb-schedule/internal/model"
	"github.com/naluwan/bttdb-schedule/internal/schedule"
	"github.com/naluwan/bttdb-schedule/pkg/logger"
	"github.com/naluwan/bttdb-schedule/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ShiftRequest defines the structure for manual shift creation requests
type ShiftRequest struct {
	EmployeeID  uint      `json:"employee_id"`
	Date        time.Time `json:"date"`
	IsAvailable *bool     `json:"is_available"`
}

// ListShifts handles retrieving a company's shifts. Ordinary employees see
// only their own records; admins see the whole company. Dates are rendered
// in the business time zone.
func ListShifts(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, _ := middleware.GetCompanyIDFromContext(c)
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	var (
		shifts []model.Shift
		err    error
	)
	if actor.IsAdmin() {
		shifts, err = shiftStore.FindByCompany(c.Request().Context(), companyID)
	} else {
		shifts, err = shiftStore.FindByEmployee(c.Request().Context(), companyID, actor.EmployeeID)
	}
	if err != nil {
		log.Error("Failed to list shifts", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve shifts"})
	}

	log.Info("Shifts retrieved", zap.Int("count", len(shifts)))
	return c.JSON(http.StatusOK, echo.Map{"data": localizeShifts(shifts)})
}

// CreateShift handles manual shift creation. An existing shift for the same
// (employee, day) key has its availability overwritten instead.
func CreateShift(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, _ := middleware.GetCompanyIDFromContext(c)
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	var req ShiftRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid shift request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.EmployeeID == 0 || req.Date.IsZero() || req.IsAvailable == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "employee_id, date and is_available are required"})
	}

	if err := schedule.CanActOn(actor, req.EmployeeID); err != nil {
		return respondError(c, err)
	}
	day := req.Date.In(businessLoc)
	if err := schedule.CanMutateMonth(time.Now().In(businessLoc), day.Year(), day.Month()); err != nil {
		return respondError(c, err)
	}

	shift, created, err := lifecycle.CreateOrUpdate(c.Request().Context(), companyID, schedule.ShiftInput{
		EmployeeID:  req.EmployeeID,
		Date:        req.Date,
		IsAvailable: *req.IsAvailable,
	})
	if err != nil {
		log.Error("Failed to write shift", zap.Error(err))
		return respondError(c, err)
	}

	message := "shift updated"
	status := http.StatusOK
	if created {
		message = "shift created"
		status = http.StatusCreated
		prometheus.RecordShiftOperation("create")
	} else {
		prometheus.RecordShiftOperation("update")
	}
	return c.JSON(status, echo.Map{"message": message, "data": localizeShift(*shift)})
}

// UpdateShift handles overwriting the availability of one shift by id.
func UpdateShift(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, _ := middleware.GetCompanyIDFromContext(c)
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	id, err := parseShiftID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shift id"})
	}

	var req struct {
		IsAvailable *bool `json:"is_available"`
	}
	if err := c.Bind(&req); err != nil || req.IsAvailable == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_available is required"})
	}

	shift, err := lifecycle.Find(c.Request().Context(), companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := schedule.CanActOn(actor, shift.EmployeeID); err != nil {
		return respondError(c, err)
	}
	day := shift.StartDate.In(businessLoc)
	if err := schedule.CanMutateMonth(time.Now().In(businessLoc), day.Year(), day.Month()); err != nil {
		return respondError(c, err)
	}

	updated, err := lifecycle.Edit(c.Request().Context(), companyID, id, *req.IsAvailable)
	if err != nil {
		log.Error("Failed to update shift", zap.Uint("shift_id", id), zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordShiftOperation("update")
	log.Info("Shift updated", zap.Uint("shift_id", id), zap.Bool("is_available", *req.IsAvailable))
	return c.JSON(http.StatusOK, echo.Map{"message": "shift updated", "data": localizeShift(*updated)})
}

// DeleteShift handles hard-deleting one shift by id.
func DeleteShift(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, _ := middleware.GetCompanyIDFromContext(c)
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	id, err := parseShiftID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shift id"})
	}

	shift, err := lifecycle.Find(c.Request().Context(), companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := schedule.CanActOn(actor, shift.EmployeeID); err != nil {
		return respondError(c, err)
	}

	if err := lifecycle.Delete(c.Request().Context(), companyID, id); err != nil {
		log.Error("Failed to delete shift", zap.Uint("shift_id", id), zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordShiftOperation("delete")
	log.Info("Shift deleted", zap.Uint("shift_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "shift deleted"})
}

// ToggleCompletion flips the completion flag on every shift of the requested
// month, locking or unlocking it for edits in the UI. Admin only.
func ToggleCompletion(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, _ := middleware.GetCompanyIDFromContext(c)
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}
	if !actor.IsAdmin() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "admin role required"})
	}

	var req struct {
		Month int `json:"month"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	updated, err := lifecycle.ToggleCompletion(c.Request().Context(), companyID, req.Month)
	if err != nil {
		log.Error("Failed to toggle completion", zap.Int("month", req.Month), zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordShiftOperation("toggle_completion")
	return c.JSON(http.StatusOK, echo.Map{"message": "completion toggled", "updated_count": updated})
}

func parseShiftID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func localizeShift(shift model.Shift) model.Shift {
	shift.StartDate = shift.StartDate.In(businessLoc)
	shift.EndDate = shift.EndDate.In(businessLoc)
	return shift
}

func localizeShifts(shifts []model.Shift) []model.Shift {
	out := make([]model.Shift, len(shifts))
	for i, shift := range shifts {
		out[i] = localizeShift(shift)
	}
	return out
}
