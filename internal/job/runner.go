package job

import (
	"context"
	"math"
	"time"

	"github.com/naluwan/bttdb-schedule/internal/schedule"
	"github.com/naluwan/bttdb-schedule/internal/store"

	"go.uber.org/zap"
)

// DefaultBatchSize is the number of shift records written or deleted per chunk.
const DefaultBatchSize = 100

// Runner executes generation and teardown as one logical sequence of chunked
// writes, publishing per-company progress after each chunk. Chunks are not
// parallelized; ordered writes keep the progress report predictable. There is
// no cancellation or rollback: a failure mid-chunk leaves earlier chunks
// committed, and the caller inspects final state before retrying (a retry of
// generation requires a teardown first, because of the duplicate-run guard).
type Runner struct {
	shifts    store.ShiftStore
	generator *schedule.Generator
	progress  *Tracker
	batchSize int
	log       *zap.Logger
}

// NewRunner creates a batch runner. batchSize falls back to DefaultBatchSize
// when zero or negative.
func NewRunner(shifts store.ShiftStore, generator *schedule.Generator, progress *Tracker, batchSize int, log *zap.Logger) *Runner {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Runner{
		shifts:    shifts,
		generator: generator,
		progress:  progress,
		batchSize: batchSize,
		log:       log,
	}
}

// Generate computes the month's automatic shifts and persists them in chunks.
// Progress reaches 25 after grid construction, 50 after rest marking, 75
// after the staffing pass, then advances linearly to 100 across insert
// chunks. Returns the number of shifts persisted.
func (r *Runner) Generate(ctx context.Context, companyID uint, year int, month time.Month, roster []schedule.RosterEntry) (int, error) {
	r.progress.Start(companyID)
	started := time.Now()

	shifts, err := r.generator.Generate(ctx, companyID, year, month, roster, func(phase schedule.Phase) {
		switch phase {
		case schedule.PhaseInitialized:
			r.progress.Set(companyID, 25)
		case schedule.PhaseRestMarked:
			r.progress.Set(companyID, 50)
		case schedule.PhaseStaffingChecked:
			r.progress.Set(companyID, 75)
		}
	})
	if err != nil {
		return 0, err
	}

	total := len(shifts)
	if total == 0 {
		r.progress.Set(companyID, 100)
		return 0, nil
	}

	batches := (total + r.batchSize - 1) / r.batchSize
	for i := 0; i < batches; i++ {
		lo := i * r.batchSize
		hi := min(lo+r.batchSize, total)
		if err := r.shifts.BulkInsert(ctx, shifts[lo:hi]); err != nil {
			r.log.Error("Shift insert chunk failed",
				zap.Uint("company_id", companyID),
				zap.Int("chunk", i),
				zap.Error(err))
			return lo, err
		}
		r.progress.Set(companyID, 75+int(math.Round(float64(i+1)/float64(batches)*25)))
	}

	r.progress.Set(companyID, 100)
	r.log.Info("Automatic schedule persisted",
		zap.Uint("company_id", companyID),
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("shift_count", total),
		zap.Duration("elapsed", time.Since(started)))
	return total, nil
}

// Teardown deletes every automatic shift of the company for the year and
// month, in chunks, with progress advancing linearly 0 to 100. When there is
// nothing to delete it reports zero deletions and sets progress to 100; that
// is a success, not an error.
func (r *Runner) Teardown(ctx context.Context, companyID uint, year int, month time.Month) (int, error) {
	if month < time.January || month > time.December {
		return 0, schedule.ErrInvalidMonth
	}
	r.progress.Start(companyID)

	automatic, err := r.shifts.FindAutomatic(ctx, companyID, year, month)
	if err != nil {
		return 0, err
	}

	total := len(automatic)
	if total == 0 {
		r.progress.Set(companyID, 100)
		return 0, nil
	}

	ids := make([]uint, total)
	for i, shift := range automatic {
		ids[i] = shift.ID
	}

	batches := (total + r.batchSize - 1) / r.batchSize
	for i := 0; i < batches; i++ {
		lo := i * r.batchSize
		hi := min(lo+r.batchSize, total)
		if err := r.shifts.BulkDelete(ctx, ids[lo:hi]); err != nil {
			r.log.Error("Shift delete chunk failed",
				zap.Uint("company_id", companyID),
				zap.Int("chunk", i),
				zap.Error(err))
			return lo, err
		}
		r.progress.Set(companyID, int(math.Round(float64(i+1)/float64(batches)*100)))
	}

	r.log.Info("Automatic schedule removed",
		zap.Uint("company_id", companyID),
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("deleted", total))
	return total, nil
}

// Progress returns the company's current job progress for polling.
func (r *Runner) Progress(companyID uint) int {
	return r.progress.Get(companyID)
}
