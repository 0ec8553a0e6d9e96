package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/naluwan/bttdb-schedule/internal/model"
	"github.com/naluwan/bttdb-schedule/internal/store"

	"go.uber.org/zap"
)

const testCompanyID = uint(1)

func newTestGenerator(t *testing.T) (*Generator, *store.MemoryShiftStore) {
	t.Helper()
	mem := store.NewMemory(testLoc)
	return NewGenerator(mem, testLoc, zap.NewNop()), mem
}

func testRoster(n int) []RosterEntry {
	names := []string{"A", "B", "C", "D", "E"}
	roster := make([]RosterEntry, n)
	for i := 0; i < n; i++ {
		roster[i] = RosterEntry{EmployeeID: uint(i + 1), Name: names[i%len(names)]}
	}
	return roster
}

func countByEmployee(shifts []model.Shift) map[uint]int {
	counts := make(map[uint]int)
	for _, s := range shifts {
		counts[s.EmployeeID]++
	}
	return counts
}

func TestGenerateFullMonthWithoutRestDays(t *testing.T) {
	gen, _ := newTestGenerator(t)

	shifts, err := gen.Generate(context.Background(), testCompanyID, 2026, time.March, testRoster(3), nil)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	// One working shift per (day, employee): 31 days x 3 employees.
	if len(shifts) != 31*3 {
		t.Fatalf("expected %d shifts, got %d", 31*3, len(shifts))
	}
	for _, s := range shifts {
		if !s.IsAvailable {
			t.Errorf("generated shift on %v is not a working shift", s.StartDate)
		}
		if s.ScheduleType != model.ScheduleTypeAutomatic {
			t.Errorf("generated shift has provenance %q", s.ScheduleType)
		}
		if s.Month != 3 || s.CompanyID != testCompanyID {
			t.Errorf("generated shift has wrong scope: month=%d company=%d", s.Month, s.CompanyID)
		}
		if s.StartDate.In(testLoc).Day() != s.EndDate.In(testLoc).Day() {
			t.Errorf("shift spans more than one day: %v - %v", s.StartDate, s.EndDate)
		}
	}
}

func TestGenerateSkipsRecordedRestDays(t *testing.T) {
	gen, mem := newTestGenerator(t)

	// Employee A (id 1) has a manual rest shift on March 10.
	rest := restShift(1, day(2026, time.March, 10), day(2026, time.March, 10))
	if err := mem.BulkInsert(context.Background(), []model.Shift{rest}); err != nil {
		t.Fatal(err)
	}

	shifts, err := gen.Generate(context.Background(), testCompanyID, 2026, time.March, testRoster(3), nil)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	counts := countByEmployee(shifts)
	if counts[1] != 30 {
		t.Errorf("employee 1 should work every day except the 10th, got %d shifts", counts[1])
	}
	if counts[2] != 31 || counts[3] != 31 {
		t.Errorf("employees 2 and 3 should work the full month, got %d and %d", counts[2], counts[3])
	}
	for _, s := range shifts {
		if s.EmployeeID == 1 && s.StartDate.In(testLoc).Day() == 10 {
			t.Error("generator re-emitted a shift for a recorded rest day")
		}
	}
}

func TestGenerateSkipsRecordedWorkingDays(t *testing.T) {
	gen, mem := newTestGenerator(t)

	// Employee 1 already entered a manual working shift on March 10; the
	// generator must leave that day to the existing record.
	manual := restShift(1, day(2026, time.March, 10), day(2026, time.March, 10))
	manual.IsAvailable = true
	if err := mem.BulkInsert(context.Background(), []model.Shift{manual}); err != nil {
		t.Fatal(err)
	}

	shifts, err := gen.Generate(context.Background(), testCompanyID, 2026, time.March, testRoster(2), nil)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	counts := countByEmployee(shifts)
	if counts[1] != 30 || counts[2] != 31 {
		t.Errorf("expected 30 and 31 shifts, got %d and %d", counts[1], counts[2])
	}
	for _, s := range shifts {
		if s.EmployeeID == 1 && s.StartDate.In(testLoc).Day() == 10 {
			t.Error("generator emitted a duplicate for a manually recorded day")
		}
	}
}

func TestGenerateRefusesSecondRun(t *testing.T) {
	gen, mem := newTestGenerator(t)
	ctx := context.Background()

	first, err := gen.Generate(ctx, testCompanyID, 2026, time.March, testRoster(2), nil)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if err := mem.BulkInsert(ctx, first); err != nil {
		t.Fatal(err)
	}

	_, err = gen.Generate(ctx, testCompanyID, 2026, time.March, testRoster(2), nil)
	if !errors.Is(err, ErrAutoScheduleExists) {
		t.Fatalf("expected ErrAutoScheduleExists, got %v", err)
	}

	// No new records may appear from the refused run.
	count, err := mem.CountAutomatic(ctx, testCompanyID, 2026, time.March)
	if err != nil {
		t.Fatal(err)
	}
	if count != int64(len(first)) {
		t.Errorf("record count changed after refused run: %d != %d", count, len(first))
	}
}

func TestGenerateScopedToTargetYear(t *testing.T) {
	gen, mem := newTestGenerator(t)
	ctx := context.Background()

	// Automatic shifts from last year's March must not block this year's run.
	old := restShift(1, day(2025, time.March, 5), day(2025, time.March, 5))
	old.IsAvailable = true
	old.ScheduleType = model.ScheduleTypeAutomatic
	if err := mem.BulkInsert(ctx, []model.Shift{old}); err != nil {
		t.Fatal(err)
	}

	shifts, err := gen.Generate(ctx, testCompanyID, 2026, time.March, testRoster(1), nil)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(shifts) != 31 {
		t.Errorf("expected 31 shifts, got %d", len(shifts))
	}
}

func TestGenerateEmptyRoster(t *testing.T) {
	gen, _ := newTestGenerator(t)

	shifts, err := gen.Generate(context.Background(), testCompanyID, 2026, time.March, nil, nil)
	if err != nil {
		t.Fatalf("empty roster must not be an error, got %v", err)
	}
	if len(shifts) != 0 {
		t.Errorf("expected no shifts for an empty roster, got %d", len(shifts))
	}
}

func TestGenerateInvalidMonth(t *testing.T) {
	gen, _ := newTestGenerator(t)

	for _, month := range []time.Month{0, 13} {
		_, err := gen.Generate(context.Background(), testCompanyID, 2026, month, testRoster(1), nil)
		if !errors.Is(err, ErrInvalidMonth) {
			t.Errorf("month %d: expected ErrInvalidMonth, got %v", month, err)
		}
	}
}

func TestGeneratePhasesInOrder(t *testing.T) {
	gen, _ := newTestGenerator(t)

	var phases []Phase
	_, err := gen.Generate(context.Background(), testCompanyID, 2026, time.March, testRoster(2), func(p Phase) {
		phases = append(phases, p)
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	want := []Phase{PhaseInitialized, PhaseRestMarked, PhaseStaffingChecked}
	if len(phases) != len(want) {
		t.Fatalf("expected %d phases, got %d", len(want), len(phases))
	}
	for i, p := range want {
		if phases[i] != p {
			t.Errorf("phase %d: expected %v, got %v", i, p, phases[i])
		}
	}
}

func TestTargetYear(t *testing.T) {
	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, testLoc)

	cases := []struct {
		month time.Month
		want  int
	}{
		{time.March, 2027},  // already passed, wraps to next year
		{time.August, 2026}, // current month
		{time.December, 2026},
		{time.July, 2027},
	}
	for _, tc := range cases {
		if got := TargetYear(now, tc.month); got != tc.want {
			t.Errorf("TargetYear(%v) = %d, want %d", tc.month, got, tc.want)
		}
	}
}
