package schedule

import (
	"time"

	"github.com/naluwan/bttdb-schedule/internal/model"
)

type daySpan struct {
	start time.Time
	end   time.Time
}

// Availability indexes the shifts already recorded for a month. It answers
// whether an employee has a rest shift covering a given day, and whether any
// shift occupies the day at all, by interval containment rather than exact
// date equality, so a shift whose bounds straddle a day boundary still
// registers.
type Availability struct {
	rest     map[uint][]daySpan
	occupied map[uint][]daySpan
}

// BuildAvailability builds the index from a month's existing shifts. Every
// shift occupies its day; rest records (is_available = false) additionally
// mark the employee as unavailable.
func BuildAvailability(shifts []model.Shift) *Availability {
	a := &Availability{
		rest:     make(map[uint][]daySpan),
		occupied: make(map[uint][]daySpan),
	}
	for _, shift := range shifts {
		span := daySpan{start: shift.StartDate, end: shift.EndDate}
		a.occupied[shift.EmployeeID] = append(a.occupied[shift.EmployeeID], span)
		if !shift.IsAvailable {
			a.rest[shift.EmployeeID] = append(a.rest[shift.EmployeeID], span)
		}
	}
	return a
}

// OnRest reports whether the employee has a rest shift covering the instant.
func (a *Availability) OnRest(employeeID uint, day time.Time) bool {
	return anyCovers(a.rest[employeeID], day)
}

// HasShift reports whether any recorded shift, working or rest, covers the
// instant for the employee.
func (a *Availability) HasShift(employeeID uint, day time.Time) bool {
	return anyCovers(a.occupied[employeeID], day)
}

func anyCovers(spans []daySpan, day time.Time) bool {
	for _, span := range spans {
		if !day.Before(span.start) && !day.After(span.end) {
			return true
		}
	}
	return false
}
