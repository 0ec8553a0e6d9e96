package handler

import (
	"errors"
	"net/http"

	"github.com/naluwan/bttdb-schedule/internal/schedule"
	"github.com/naluwan/bttdb-schedule/internal/store"

	"github.com/labstack/echo/v4"
)

// respondError translates core scheduling errors into HTTP responses.
// Validation and permission failures are detected before any mutation, so a
// non-2xx response here means nothing was written.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrShiftNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "shift not found"})
	case errors.Is(err, schedule.ErrAutoScheduleExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "automatic schedule already exists for this month"})
	case errors.Is(err, schedule.ErrInvalidMonth):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "month must be between 1 and 12"})
	case errors.Is(err, schedule.ErrInvalidShift):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "employee and date are required"})
	case errors.Is(err, schedule.ErrNotShiftOwner):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot modify another employee's shift"})
	case errors.Is(err, schedule.ErrPastMonth):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot modify shifts of a past month"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
