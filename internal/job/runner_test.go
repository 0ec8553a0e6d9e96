package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/naluwan/bttdb-schedule/internal/model"
	"github.com/naluwan/bttdb-schedule/internal/schedule"
	"github.com/naluwan/bttdb-schedule/internal/store"

	"go.uber.org/zap"
)

var testLoc = time.FixedZone("Asia/Taipei", 8*60*60)

// observingStore snapshots the tracker's value on every chunk write, so the
// tests can check what a poller would have seen while the job ran.
type observingStore struct {
	store.ShiftStore
	tracker   *Tracker
	companyID uint
	observed  []int
}

func (o *observingStore) BulkInsert(ctx context.Context, shifts []model.Shift) error {
	o.observed = append(o.observed, o.tracker.Get(o.companyID))
	return o.ShiftStore.BulkInsert(ctx, shifts)
}

func (o *observingStore) BulkDelete(ctx context.Context, ids []uint) error {
	o.observed = append(o.observed, o.tracker.Get(o.companyID))
	return o.ShiftStore.BulkDelete(ctx, ids)
}

func newTestRunner(t *testing.T, batchSize int) (*Runner, *store.MemoryShiftStore, *observingStore) {
	t.Helper()
	mem := store.NewMemory(testLoc)
	tracker := NewTracker()
	obs := &observingStore{ShiftStore: mem, tracker: tracker, companyID: 1}
	gen := schedule.NewGenerator(mem, testLoc, zap.NewNop())
	return NewRunner(obs, gen, tracker, batchSize, zap.NewNop()), mem, obs
}

func roster(n int) []schedule.RosterEntry {
	entries := make([]schedule.RosterEntry, n)
	for i := 0; i < n; i++ {
		entries[i] = schedule.RosterEntry{EmployeeID: uint(i + 1), Name: "member"}
	}
	return entries
}

func TestGeneratePersistsFullMonthInChunks(t *testing.T) {
	runner, mem, obs := newTestRunner(t, 10)
	ctx := context.Background()

	inserted, err := runner.Generate(ctx, 1, 2026, time.January, roster(3))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if inserted != 31*3 {
		t.Fatalf("expected %d inserted shifts, got %d", 31*3, inserted)
	}

	count, err := mem.CountAutomatic(ctx, 1, 2026, time.January)
	if err != nil {
		t.Fatal(err)
	}
	if count != int64(inserted) {
		t.Errorf("store holds %d automatic shifts, reported %d", count, inserted)
	}

	if got := runner.Progress(1); got != 100 {
		t.Errorf("progress should finish at 100, got %d", got)
	}

	// Every chunk write happened after the in-memory phases, and progress
	// never decreased between chunks.
	if len(obs.observed) < 2 {
		t.Fatalf("expected chunked writes, saw %d", len(obs.observed))
	}
	prev := 0
	for i, pct := range obs.observed {
		if pct < 75 {
			t.Errorf("chunk %d written before phases completed: progress %d", i, pct)
		}
		if pct < prev {
			t.Errorf("progress decreased from %d to %d", prev, pct)
		}
		prev = pct
	}
}

func TestGenerateEmptyRosterFinishesImmediately(t *testing.T) {
	runner, _, _ := newTestRunner(t, 10)

	inserted, err := runner.Generate(context.Background(), 1, 2026, time.January, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if inserted != 0 {
		t.Errorf("expected 0 inserted shifts, got %d", inserted)
	}
	if got := runner.Progress(1); got != 100 {
		t.Errorf("progress should be 100 with nothing to insert, got %d", got)
	}
}

func TestGenerateRefusedRunLeavesNoRecords(t *testing.T) {
	runner, mem, _ := newTestRunner(t, 10)
	ctx := context.Background()

	if _, err := runner.Generate(ctx, 1, 2026, time.January, roster(2)); err != nil {
		t.Fatal(err)
	}
	before, _ := mem.CountAutomatic(ctx, 1, 2026, time.January)

	_, err := runner.Generate(ctx, 1, 2026, time.January, roster(2))
	if !errors.Is(err, schedule.ErrAutoScheduleExists) {
		t.Fatalf("expected ErrAutoScheduleExists, got %v", err)
	}

	after, _ := mem.CountAutomatic(ctx, 1, 2026, time.January)
	if before != after {
		t.Errorf("refused run changed record count: %d -> %d", before, after)
	}
}

func TestGenerateKeepsManualWorkingShiftDays(t *testing.T) {
	runner, mem, _ := newTestRunner(t, 10)
	ctx := context.Background()

	start := time.Date(2026, time.January, 10, 0, 0, 0, 0, testLoc)
	manual := model.Shift{
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 1).Add(-time.Nanosecond),
		IsAvailable:  true,
		EmployeeID:   1,
		ScheduleType: model.ScheduleTypeManual,
		Month:        1,
		CompanyID:    1,
	}
	if err := mem.BulkInsert(ctx, []model.Shift{manual}); err != nil {
		t.Fatal(err)
	}

	inserted, err := runner.Generate(ctx, 1, 2026, time.January, roster(1))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if inserted != 30 {
		t.Errorf("expected 30 generated shifts around the manual day, got %d", inserted)
	}

	shifts, err := mem.FindByEmployee(ctx, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(shifts) != 31 {
		t.Errorf("expected 31 shifts total for the month, got %d", len(shifts))
	}
	var onDay []model.Shift
	for _, s := range shifts {
		if s.StartDate.In(testLoc).Day() == 10 {
			onDay = append(onDay, s)
		}
	}
	if len(onDay) != 1 {
		t.Fatalf("expected exactly one shift on the manual day, got %d", len(onDay))
	}
	if onDay[0].ScheduleType != model.ScheduleTypeManual {
		t.Errorf("manual record replaced by %q", onDay[0].ScheduleType)
	}
}

func TestTeardownDeletesOnlyAutomaticShifts(t *testing.T) {
	runner, mem, _ := newTestRunner(t, 10)
	ctx := context.Background()

	// A manual rest shift that must survive teardown.
	start := time.Date(2026, time.January, 10, 0, 0, 0, 0, testLoc)
	manual := model.Shift{
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 1).Add(-time.Nanosecond),
		IsAvailable:  false,
		EmployeeID:   1,
		ScheduleType: model.ScheduleTypeManual,
		Month:        1,
		CompanyID:    1,
	}
	if err := mem.BulkInsert(ctx, []model.Shift{manual}); err != nil {
		t.Fatal(err)
	}

	inserted, err := runner.Generate(ctx, 1, 2026, time.January, roster(2))
	if err != nil {
		t.Fatal(err)
	}

	deleted, err := runner.Teardown(ctx, 1, 2026, time.January)
	if err != nil {
		t.Fatalf("Teardown failed: %v", err)
	}
	if deleted != inserted {
		t.Errorf("deleted %d shifts, expected %d", deleted, inserted)
	}
	if got := runner.Progress(1); got != 100 {
		t.Errorf("progress should finish at 100, got %d", got)
	}

	remaining, err := mem.FindByCompany(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 || remaining[0].ScheduleType != model.ScheduleTypeManual {
		t.Errorf("manual shift did not survive teardown: %+v", remaining)
	}
}

func TestTeardownNothingToDelete(t *testing.T) {
	runner, _, _ := newTestRunner(t, 10)

	deleted, err := runner.Teardown(context.Background(), 1, 2026, time.January)
	if err != nil {
		t.Fatalf("empty teardown must succeed, got %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected deletedCount 0, got %d", deleted)
	}
	if got := runner.Progress(1); got != 100 {
		t.Errorf("progress should be set to 100 immediately, got %d", got)
	}
}

func TestTeardownInvalidMonth(t *testing.T) {
	runner, _, _ := newTestRunner(t, 10)

	if _, err := runner.Teardown(context.Background(), 1, 2026, 0); !errors.Is(err, schedule.ErrInvalidMonth) {
		t.Errorf("expected ErrInvalidMonth, got %v", err)
	}
}

func TestRunnerAllowsRerunAfterTeardown(t *testing.T) {
	runner, _, _ := newTestRunner(t, 10)
	ctx := context.Background()

	if _, err := runner.Generate(ctx, 1, 2026, time.January, roster(2)); err != nil {
		t.Fatal(err)
	}
	if _, err := runner.Teardown(ctx, 1, 2026, time.January); err != nil {
		t.Fatal(err)
	}
	if _, err := runner.Generate(ctx, 1, 2026, time.January, roster(2)); err != nil {
		t.Fatalf("rerun after teardown should succeed, got %v", err)
	}
}
