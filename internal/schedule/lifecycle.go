package schedule

import (
	"context"
	"time"

	"github.com/naluwan/bttdb-schedule/internal/model"
	"github.com/naluwan/bttdb-schedule/internal/store"

	"go.uber.org/zap"
)

// Lifecycle handles manual creation, edit and deletion of single shifts and
// the month-wide completion toggle. Every operation is company-scoped: a
// shift belonging to another company behaves as if it did not exist.
type Lifecycle struct {
	shifts store.ShiftStore
	loc    *time.Location
	log    *zap.Logger
}

// NewLifecycle creates a lifecycle controller over the given store.
func NewLifecycle(shifts store.ShiftStore, loc *time.Location, log *zap.Logger) *Lifecycle {
	return &Lifecycle{shifts: shifts, loc: loc, log: log}
}

// ShiftInput carries the fields for a manual shift. Date may be any instant
// within the target day; bounds are normalized to the business time zone.
type ShiftInput struct {
	EmployeeID  uint
	Date        time.Time
	IsAvailable bool
}

// CreateOrUpdate inserts a manual shift for (employee, day), or overwrites
// the availability of the existing record for that key. It reports whether a
// new record was created; overwriting is a first-class success, not an error.
func (l *Lifecycle) CreateOrUpdate(ctx context.Context, companyID uint, in ShiftInput) (*model.Shift, bool, error) {
	if in.EmployeeID == 0 || in.Date.IsZero() {
		return nil, false, ErrInvalidShift
	}

	start, end := DayBounds(in.Date, l.loc)
	shift := &model.Shift{
		StartDate:    start,
		EndDate:      end,
		IsAvailable:  in.IsAvailable,
		EmployeeID:   in.EmployeeID,
		ScheduleType: model.ScheduleTypeManual,
		Month:        int(start.Month()),
		CompanyID:    companyID,
	}

	created, err := l.shifts.Upsert(ctx, shift)
	if err != nil {
		return nil, false, err
	}

	l.log.Info("Shift written",
		zap.Uint("company_id", companyID),
		zap.Uint("employee_id", in.EmployeeID),
		zap.Time("day", start),
		zap.Bool("is_available", in.IsAvailable),
		zap.Bool("created", created))
	return shift, created, nil
}

// Edit overwrites the availability of the shift with the given id. Dates,
// employee and provenance are immutable through this path.
func (l *Lifecycle) Edit(ctx context.Context, companyID, id uint, isAvailable bool) (*model.Shift, error) {
	shift, err := l.shifts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift.CompanyID != companyID {
		return nil, store.ErrShiftNotFound
	}
	return l.shifts.UpdateAvailability(ctx, id, isAvailable)
}

// Find returns the shift with the given id within the company scope.
func (l *Lifecycle) Find(ctx context.Context, companyID, id uint) (*model.Shift, error) {
	shift, err := l.shifts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift.CompanyID != companyID {
		return nil, store.ErrShiftNotFound
	}
	return shift, nil
}

// Delete hard-deletes the shift with the given id.
func (l *Lifecycle) Delete(ctx context.Context, companyID, id uint) error {
	shift, err := l.shifts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if shift.CompanyID != companyID {
		return store.ErrShiftNotFound
	}
	return l.shifts.Delete(ctx, id)
}

// ToggleCompletion flips is_complete on every shift of the company and month
// in one bulk update and returns the number of records updated. All shifts of
// the month are expected to share the same value already; the toggle does not
// reconcile divergence.
func (l *Lifecycle) ToggleCompletion(ctx context.Context, companyID uint, month int) (int64, error) {
	if month < 1 || month > 12 {
		return 0, ErrInvalidMonth
	}
	updated, err := l.shifts.ToggleCompletion(ctx, companyID, month)
	if err != nil {
		return 0, err
	}
	l.log.Info("Month completion toggled",
		zap.Uint("company_id", companyID),
		zap.Int("month", month),
		zap.Int64("updated", updated))
	return updated, nil
}
