package model

import (
	"time"
)

// ScheduleType tags how a shift came to exist. It never changes after creation.
type ScheduleType string

const (
	// ScheduleTypeManual marks shifts entered by an employee or admin.
	ScheduleTypeManual ScheduleType = "manual"
	// ScheduleTypeAutomatic marks shifts produced by the auto-schedule generator.
	ScheduleTypeAutomatic ScheduleType = "automatic"
)

// Shift is one employee's work/rest record for a single calendar day.
// StartDate and EndDate are the day bounds in the business time zone, so
// EndDate always falls on the same calendar day as StartDate.
//
// Shifts are hard-deleted: a soft-deleted row would still occupy the
// (employee_id, start_date) unique index and block re-scheduling the day.
type Shift struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	StartDate    time.Time    `json:"start_date" gorm:"not null;uniqueIndex:idx_shifts_employee_day,priority:2"`
	EndDate      time.Time    `json:"end_date" gorm:"not null"`
	IsAvailable  bool         `json:"is_available"`
	EmployeeID   uint         `json:"employee_id" gorm:"not null;uniqueIndex:idx_shifts_employee_day,priority:1"`
	ScheduleType ScheduleType `json:"schedule_type" gorm:"type:varchar(20);not null;default:'manual'"`
	Month        int          `json:"month" gorm:"index;not null"`
	CompanyID    uint         `json:"company_id" gorm:"index;not null"`
	IsComplete   bool         `json:"is_complete" gorm:"default:false"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
