package store

import (
	"context"
	"errors"
	"time"

	"github.com/naluwan/bttdb-schedule/internal/model"
)

// ErrShiftNotFound is returned when no shift matches the requested id within
// the caller's tenant scope.
var ErrShiftNotFound = errors.New("store: shift not found")

// ShiftStore is the persistence abstraction for shift records. All lookups
// and mutations are company-scoped; year/month filters interpret dates in the
// business time zone the store was constructed with.
type ShiftStore interface {
	// FindByID returns the shift with the given id, or ErrShiftNotFound.
	FindByID(ctx context.Context, id uint) (*model.Shift, error)
	// FindByCompany returns every shift recorded for the company.
	FindByCompany(ctx context.Context, companyID uint) ([]model.Shift, error)
	// FindByEmployee returns every shift for one employee of the company.
	FindByEmployee(ctx context.Context, companyID, employeeID uint) ([]model.Shift, error)
	// FindByMonth returns all shifts of the company whose day falls inside
	// the given year and month.
	FindByMonth(ctx context.Context, companyID uint, year int, month time.Month) ([]model.Shift, error)
	// FindAutomatic returns generator-produced shifts for the year and month.
	FindAutomatic(ctx context.Context, companyID uint, year int, month time.Month) ([]model.Shift, error)
	// CountAutomatic counts generator-produced shifts for the year and month.
	CountAutomatic(ctx context.Context, companyID uint, year int, month time.Month) (int64, error)
	// Upsert inserts the shift, or overwrites is_available on the existing
	// row for the same (employee_id, start_date) key. It fills in the id and
	// reports whether a new row was created. The write is a single atomic
	// statement backed by the unique day index.
	Upsert(ctx context.Context, shift *model.Shift) (created bool, err error)
	// UpdateAvailability overwrites is_available on the shift with the given
	// id and returns the updated record. Dates, employee and provenance are
	// immutable through this path.
	UpdateAvailability(ctx context.Context, id uint, isAvailable bool) (*model.Shift, error)
	// Delete hard-deletes the shift with the given id.
	Delete(ctx context.Context, id uint) error
	// BulkInsert persists a batch of shifts in one statement.
	BulkInsert(ctx context.Context, shifts []model.Shift) error
	// BulkDelete hard-deletes the shifts with the given ids.
	BulkDelete(ctx context.Context, ids []uint) error
	// ToggleCompletion flips is_complete on every shift of the company and
	// month in a single statement and returns the number of rows updated.
	ToggleCompletion(ctx context.Context, companyID uint, month int) (int64, error)
}

// yearBounds returns the half-open instant range covering the calendar year
// in the given location.
func yearBounds(year int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(1, 0, 0)
}
