package handler

import (
	"fmt"
	"time"

	"github.com/naluwan/bttdb-schedule/internal/job"
	"github.com/naluwan/bttdb-schedule/internal/schedule"
	"github.com/naluwan/bttdb-schedule/internal/store"
	"github.com/naluwan/bttdb-schedule/pkg/config"
	"github.com/naluwan/bttdb-schedule/pkg/database"
	"github.com/naluwan/bttdb-schedule/pkg/logger"
)

var (
	businessLoc *time.Location
	shiftStore  store.ShiftStore
	lifecycle   *schedule.Lifecycle
	runner      *job.Runner
)

// Init wires the scheduling components over the shared database connection.
// Must be called after database.InitDB and logger.InitLogger.
func Init(cfg *config.Config) error {
	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return fmt.Errorf("invalid schedule timezone %q: %w", cfg.Schedule.Timezone, err)
	}
	businessLoc = loc

	log := logger.GetLogger()
	shiftStore = store.NewShiftStore(database.GetDB(), loc)
	generator := schedule.NewGenerator(shiftStore, loc, log)
	lifecycle = schedule.NewLifecycle(shiftStore, loc, log)
	runner = job.NewRunner(shiftStore, generator, job.NewTracker(), cfg.Schedule.BatchSize, log)
	return nil
}
