package model

import (
	"time"

	"gorm.io/gorm"
)

// Employee roles. Admins and super admins may act on any employee's shifts.
const (
	RoleEmployee   = "employee"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superAdmin"
)

// Employee represents a company member eligible to appear on the schedule.
type Employee struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"type:varchar(100);not null"`
	Email        string         `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password     string         `json:"-" gorm:"type:varchar(255);not null"`
	Role         string         `json:"role" gorm:"type:varchar(20);not null;default:'employee'"`
	IsLock       bool           `json:"is_lock" gorm:"default:false"`
	DateEmployed time.Time      `json:"date_employed"`
	CompanyID    uint           `json:"company_id" gorm:"index;not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsAdmin reports whether the role may manage other employees' shifts.
func (e *Employee) IsAdmin() bool {
	return e.Role == RoleAdmin || e.Role == RoleSuperAdmin
}
