package schedule

import "errors"

var (
	// ErrInvalidMonth rejects month values outside 1-12.
	ErrInvalidMonth = errors.New("schedule: month must be between 1 and 12")
	// ErrInvalidShift rejects shift input missing the employee or the day.
	ErrInvalidShift = errors.New("schedule: invalid shift input")
	// ErrAutoScheduleExists blocks a second generation run for a target year
	// and month that already holds automatic shifts.
	ErrAutoScheduleExists = errors.New("schedule: automatic schedule already exists for this month")
	// ErrNotShiftOwner blocks non-admins acting on another employee's shifts.
	ErrNotShiftOwner = errors.New("schedule: cannot modify another employee's shift")
	// ErrPastMonth blocks mutations targeting a month before the current one.
	ErrPastMonth = errors.New("schedule: cannot modify shifts of a past month")
)
