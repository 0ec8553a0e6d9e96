package schedule

import (
	"context"
	"time"

	"github.com/naluwan/bttdb-schedule/internal/model"
	"github.com/naluwan/bttdb-schedule/internal/store"

	"go.uber.org/zap"
)

// RosterEntry is one employee eligible for auto-scheduling. The roster is
// supplied by the employee directory; the generator does not filter roles.
type RosterEntry struct {
	EmployeeID uint
	Name       string
}

// Phase identifies the in-memory stages of a generation run, in order. The
// batch runner maps them to progress percentages.
type Phase int

const (
	// PhaseInitialized: the month grid is built with everyone working.
	PhaseInitialized Phase = iota
	// PhaseRestMarked: recorded rest days are flipped to rest.
	PhaseRestMarked
	// PhaseStaffingChecked: the minimum-staffing fallback pass has run.
	PhaseStaffingChecked
)

// TargetYear returns the year a requested month resolves to when the caller
// does not name one: the current year, or the next year once the calendar has
// rolled past that month.
func TargetYear(now time.Time, month time.Month) int {
	year := now.Year()
	if month < now.Month() {
		year++
	}
	return year
}

// DayBounds returns the start and end instants of the calendar day containing
// t, in the given location. End is the last nanosecond of the same day.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

type dayAssignment struct {
	entry   RosterEntry
	working bool
}

type daySchedule struct {
	date    time.Time
	members []dayAssignment
}

// Generator produces a full month of working shifts for a roster.
type Generator struct {
	shifts store.ShiftStore
	loc    *time.Location
	log    *zap.Logger
}

// NewGenerator creates a generator reading existing shifts from the store.
func NewGenerator(shifts store.ShiftStore, loc *time.Location, log *zap.Logger) *Generator {
	return &Generator{shifts: shifts, loc: loc, log: log}
}

// Generate computes the automatic shifts for the company's roster over the
// given year and month. It refuses to run when automatic shifts already exist
// for that year and month. The result is not persisted; onPhase, when set, is
// called after each in-memory stage so callers can publish progress.
//
// Days already covered by an existing shift are skipped for that employee:
// rest days stay rest, and a manually recorded working day keeps its manual
// record instead of gaining a duplicate. An empty roster yields an empty
// result, not an error.
func (g *Generator) Generate(ctx context.Context, companyID uint, year int, month time.Month, roster []RosterEntry, onPhase func(Phase)) ([]model.Shift, error) {
	if month < time.January || month > time.December {
		return nil, ErrInvalidMonth
	}

	count, err := g.shifts.CountAutomatic(ctx, companyID, year, month)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		g.log.Warn("Automatic schedule already exists",
			zap.Uint("company_id", companyID),
			zap.Int("year", year),
			zap.Int("month", int(month)))
		return nil, ErrAutoScheduleExists
	}

	existing, err := g.shifts.FindByMonth(ctx, companyID, year, month)
	if err != nil {
		return nil, err
	}
	availability := BuildAvailability(existing)

	// Build the month grid with every roster member working every day.
	first := time.Date(year, month, 1, 0, 0, 0, 0, g.loc)
	var days []daySchedule
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		members := make([]dayAssignment, len(roster))
		for i, entry := range roster {
			members[i] = dayAssignment{entry: entry, working: true}
		}
		days = append(days, daySchedule{date: d, members: members})
	}
	notifyPhase(onPhase, PhaseInitialized)

	// Flip members to rest on days covered by a recorded rest shift.
	for i := range days {
		for j := range days[i].members {
			member := &days[i].members[j]
			if availability.OnRest(member.entry.EmployeeID, days[i].date) {
				member.working = false
			}
		}
	}
	notifyPhase(onPhase, PhaseRestMarked)

	// Minimum-staffing fallback: if a day's working count dips below the
	// roster size minus its rest count, every non-rest member is put back to
	// work. Carried over from the legacy scheduler as a guard against a
	// pathological intermediate state.
	for i := range days {
		working, resting := 0, 0
		for _, member := range days[i].members {
			if member.working {
				working++
			} else {
				resting++
			}
		}
		if working < len(roster)-resting {
			for j := range days[i].members {
				member := &days[i].members[j]
				if !availability.OnRest(member.entry.EmployeeID, days[i].date) {
					member.working = true
				}
			}
		}
	}
	notifyPhase(onPhase, PhaseStaffingChecked)

	// Emit one automatic shift per working (day, member) pair. Days that
	// already hold a record of either kind are skipped; re-emitting one would
	// collide with the unique (employee, day) index.
	var out []model.Shift
	for _, day := range days {
		start, end := DayBounds(day.date, g.loc)
		for _, member := range day.members {
			if !member.working || availability.HasShift(member.entry.EmployeeID, day.date) {
				continue
			}
			out = append(out, model.Shift{
				StartDate:    start,
				EndDate:      end,
				IsAvailable:  true,
				EmployeeID:   member.entry.EmployeeID,
				ScheduleType: model.ScheduleTypeAutomatic,
				Month:        int(month),
				CompanyID:    companyID,
			})
		}
	}

	g.log.Info("Automatic schedule computed",
		zap.Uint("company_id", companyID),
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("roster_size", len(roster)),
		zap.Int("shift_count", len(out)))
	return out, nil
}

func notifyPhase(onPhase func(Phase), phase Phase) {
	if onPhase != nil {
		onPhase(phase)
	}
}
