package store

import (
	"context"
	"errors"
	"time"

	"github.com/naluwan/bttdb-schedule/internal/model"

	"gorm.io/gorm"
)

// GormShiftStore persists shifts through GORM on PostgreSQL.
type GormShiftStore struct {
	db  *gorm.DB
	loc *time.Location
}

// NewShiftStore creates a shift store backed by the given database handle.
// loc is the business time zone used for year/month range filters.
func NewShiftStore(db *gorm.DB, loc *time.Location) *GormShiftStore {
	return &GormShiftStore{db: db, loc: loc}
}

func (s *GormShiftStore) FindByID(ctx context.Context, id uint) (*model.Shift, error) {
	var shift model.Shift
	result := s.db.WithContext(ctx).First(&shift, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, result.Error
	}
	return &shift, nil
}

func (s *GormShiftStore) FindByCompany(ctx context.Context, companyID uint) ([]model.Shift, error) {
	var shifts []model.Shift
	result := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("start_date, employee_id").
		Find(&shifts)
	return shifts, result.Error
}

func (s *GormShiftStore) FindByEmployee(ctx context.Context, companyID, employeeID uint) ([]model.Shift, error) {
	var shifts []model.Shift
	result := s.db.WithContext(ctx).
		Where("company_id = ? AND employee_id = ?", companyID, employeeID).
		Order("start_date").
		Find(&shifts)
	return shifts, result.Error
}

func (s *GormShiftStore) FindByMonth(ctx context.Context, companyID uint, year int, month time.Month) ([]model.Shift, error) {
	var shifts []model.Shift
	yearStart, yearEnd := yearBounds(year, s.loc)
	result := s.db.WithContext(ctx).
		Where("company_id = ? AND month = ? AND start_date >= ? AND start_date < ?",
			companyID, int(month), yearStart, yearEnd).
		Order("start_date, employee_id").
		Find(&shifts)
	return shifts, result.Error
}

func (s *GormShiftStore) FindAutomatic(ctx context.Context, companyID uint, year int, month time.Month) ([]model.Shift, error) {
	var shifts []model.Shift
	yearStart, yearEnd := yearBounds(year, s.loc)
	result := s.db.WithContext(ctx).
		Where("company_id = ? AND month = ? AND schedule_type = ? AND start_date >= ? AND start_date < ?",
			companyID, int(month), model.ScheduleTypeAutomatic, yearStart, yearEnd).
		Order("id").
		Find(&shifts)
	return shifts, result.Error
}

func (s *GormShiftStore) CountAutomatic(ctx context.Context, companyID uint, year int, month time.Month) (int64, error) {
	var count int64
	yearStart, yearEnd := yearBounds(year, s.loc)
	result := s.db.WithContext(ctx).Model(&model.Shift{}).
		Where("company_id = ? AND month = ? AND schedule_type = ? AND start_date >= ? AND start_date < ?",
			companyID, int(month), model.ScheduleTypeAutomatic, yearStart, yearEnd).
		Count(&count)
	return count, result.Error
}

// Upsert writes the shift in one INSERT .. ON CONFLICT statement so that two
// concurrent creates for the same (employee, day) cannot both insert. xmax is
// zero only for rows the statement inserted, which distinguishes create from
// update without a second round trip.
func (s *GormShiftStore) Upsert(ctx context.Context, shift *model.Shift) (bool, error) {
	var row struct {
		ID       uint
		Inserted bool
	}
	now := time.Now()
	err := s.db.WithContext(ctx).Raw(`
		INSERT INTO shifts (start_date, end_date, is_available, employee_id, schedule_type, month, company_id, is_complete, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, false, ?, ?)
		ON CONFLICT (employee_id, start_date)
		DO UPDATE SET is_available = EXCLUDED.is_available, updated_at = EXCLUDED.updated_at
		RETURNING id, (xmax = 0) AS inserted`,
		shift.StartDate, shift.EndDate, shift.IsAvailable, shift.EmployeeID,
		shift.ScheduleType, shift.Month, shift.CompanyID, now, now,
	).Scan(&row).Error
	if err != nil {
		return false, err
	}
	shift.ID = row.ID
	return row.Inserted, nil
}

func (s *GormShiftStore) UpdateAvailability(ctx context.Context, id uint, isAvailable bool) (*model.Shift, error) {
	result := s.db.WithContext(ctx).Model(&model.Shift{}).
		Where("id = ?", id).
		Update("is_available", isAvailable)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrShiftNotFound
	}
	return s.FindByID(ctx, id)
}

func (s *GormShiftStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Shift{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrShiftNotFound
	}
	return nil
}

func (s *GormShiftStore) BulkInsert(ctx context.Context, shifts []model.Shift) error {
	if len(shifts) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&shifts).Error
}

func (s *GormShiftStore) BulkDelete(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&model.Shift{}, ids).Error
}

func (s *GormShiftStore) ToggleCompletion(ctx context.Context, companyID uint, month int) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.Shift{}).
		Where("company_id = ? AND month = ?", companyID, month).
		Update("is_complete", gorm.Expr("NOT is_complete"))
	return result.RowsAffected, result.Error
}
