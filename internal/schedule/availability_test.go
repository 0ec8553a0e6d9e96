package schedule

import (
	"testing"
	"time"

	"github.com/naluwan/bttdb-schedule/internal/model"
)

var testLoc = time.FixedZone("Asia/Taipei", 8*60*60)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, testLoc)
}

func restShift(employeeID uint, from, to time.Time) model.Shift {
	start, _ := DayBounds(from, testLoc)
	_, end := DayBounds(to, testLoc)
	return model.Shift{
		StartDate:    start,
		EndDate:      end,
		IsAvailable:  false,
		EmployeeID:   employeeID,
		ScheduleType: model.ScheduleTypeManual,
		Month:        int(from.Month()),
		CompanyID:    1,
	}
}

func TestAvailabilityMarksRestDays(t *testing.T) {
	shifts := []model.Shift{restShift(7, day(2026, time.March, 10), day(2026, time.March, 10))}
	a := BuildAvailability(shifts)

	if !a.OnRest(7, day(2026, time.March, 10)) {
		t.Error("expected employee 7 to be on rest on March 10")
	}
	if a.OnRest(7, day(2026, time.March, 11)) {
		t.Error("did not expect rest on March 11")
	}
	if a.OnRest(8, day(2026, time.March, 10)) {
		t.Error("did not expect rest for a different employee")
	}
}

func TestAvailabilitySpansMultipleDays(t *testing.T) {
	shifts := []model.Shift{restShift(3, day(2026, time.March, 9), day(2026, time.March, 11))}
	a := BuildAvailability(shifts)

	for d := 9; d <= 11; d++ {
		if !a.OnRest(3, day(2026, time.March, d)) {
			t.Errorf("expected rest on March %d", d)
		}
	}
	if a.OnRest(3, day(2026, time.March, 8)) || a.OnRest(3, day(2026, time.March, 12)) {
		t.Error("rest span leaked outside its interval")
	}
}

func TestAvailabilityIgnoresWorkingShifts(t *testing.T) {
	working := restShift(5, day(2026, time.March, 10), day(2026, time.March, 10))
	working.IsAvailable = true
	a := BuildAvailability([]model.Shift{working})

	if a.OnRest(5, day(2026, time.March, 10)) {
		t.Error("working shift must not register as rest")
	}
}

func TestAvailabilityTracksOccupiedDays(t *testing.T) {
	rest := restShift(2, day(2026, time.March, 4), day(2026, time.March, 4))
	working := restShift(2, day(2026, time.March, 5), day(2026, time.March, 5))
	working.IsAvailable = true
	a := BuildAvailability([]model.Shift{rest, working})

	if !a.HasShift(2, day(2026, time.March, 4)) || !a.HasShift(2, day(2026, time.March, 5)) {
		t.Error("recorded shifts of both kinds must occupy their day")
	}
	if a.HasShift(2, day(2026, time.March, 6)) {
		t.Error("free day reported as occupied")
	}
	if a.HasShift(3, day(2026, time.March, 5)) {
		t.Error("occupation leaked to another employee")
	}
}

func TestDayBounds(t *testing.T) {
	noon := time.Date(2026, time.March, 10, 12, 30, 0, 0, testLoc)
	start, end := DayBounds(noon, testLoc)

	if !start.Equal(day(2026, time.March, 10)) {
		t.Errorf("unexpected day start: %v", start)
	}
	if end.Day() != 10 || end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Errorf("end is not the last instant of the same day: %v", end)
	}
	if !end.Before(day(2026, time.March, 11)) {
		t.Error("day end must precede the next day's start")
	}
}
