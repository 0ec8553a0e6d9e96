package schedule

import (
	"time"

	"github.com/naluwan/bttdb-schedule/internal/model"
)

// Actor is the authenticated employee performing a shift operation.
type Actor struct {
	EmployeeID uint
	Role       string
}

// IsAdmin reports whether the actor may act on other employees' shifts.
func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin || a.Role == model.RoleSuperAdmin
}

// CanActOn checks the ownership rule: ordinary employees may only touch their
// own shifts, admins may touch anyone's.
func CanActOn(actor Actor, targetEmployeeID uint) error {
	if !actor.IsAdmin() && actor.EmployeeID != targetEmployeeID {
		return ErrNotShiftOwner
	}
	return nil
}

// CanMutateMonth checks the timing rule for creates and edits: shifts may
// only be written for the current or a future month. The rule applies to
// admins as well; only viewing past months is exempt.
func CanMutateMonth(now time.Time, year int, month time.Month) error {
	if year < now.Year() || (year == now.Year() && month < now.Month()) {
		return ErrPastMonth
	}
	return nil
}
