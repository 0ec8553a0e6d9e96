package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/naluwan/bttdb-schedule/internal/model"
)

// MemoryShiftStore is an in-memory ShiftStore with the same semantics as the
// PostgreSQL store, including the (employee_id, start_date) uniqueness rule.
// It backs the scheduling and batch-job tests.
type MemoryShiftStore struct {
	mu     sync.Mutex
	shifts map[uint]model.Shift
	nextID uint
	loc    *time.Location
}

// NewMemory creates an empty in-memory shift store. loc is the business time
// zone used for year/month range filters.
func NewMemory(loc *time.Location) *MemoryShiftStore {
	return &MemoryShiftStore{shifts: make(map[uint]model.Shift), loc: loc}
}

func (s *MemoryShiftStore) FindByID(_ context.Context, id uint) (*model.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shift, ok := s.shifts[id]
	if !ok {
		return nil, ErrShiftNotFound
	}
	return &shift, nil
}

func (s *MemoryShiftStore) FindByCompany(_ context.Context, companyID uint) ([]model.Shift, error) {
	return s.collect(func(sh model.Shift) bool {
		return sh.CompanyID == companyID
	}), nil
}

func (s *MemoryShiftStore) FindByEmployee(_ context.Context, companyID, employeeID uint) ([]model.Shift, error) {
	return s.collect(func(sh model.Shift) bool {
		return sh.CompanyID == companyID && sh.EmployeeID == employeeID
	}), nil
}

func (s *MemoryShiftStore) FindByMonth(_ context.Context, companyID uint, year int, month time.Month) ([]model.Shift, error) {
	return s.collect(func(sh model.Shift) bool {
		return sh.CompanyID == companyID && s.inYearMonth(sh, year, month)
	}), nil
}

func (s *MemoryShiftStore) FindAutomatic(_ context.Context, companyID uint, year int, month time.Month) ([]model.Shift, error) {
	return s.collect(func(sh model.Shift) bool {
		return sh.CompanyID == companyID && sh.ScheduleType == model.ScheduleTypeAutomatic &&
			s.inYearMonth(sh, year, month)
	}), nil
}

func (s *MemoryShiftStore) CountAutomatic(ctx context.Context, companyID uint, year int, month time.Month) (int64, error) {
	shifts, err := s.FindAutomatic(ctx, companyID, year, month)
	if err != nil {
		return 0, err
	}
	return int64(len(shifts)), nil
}

func (s *MemoryShiftStore) Upsert(_ context.Context, shift *model.Shift) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.shifts {
		if existing.EmployeeID == shift.EmployeeID && existing.StartDate.Equal(shift.StartDate) {
			existing.IsAvailable = shift.IsAvailable
			existing.UpdatedAt = time.Now()
			s.shifts[id] = existing
			shift.ID = id
			return false, nil
		}
	}
	s.nextID++
	shift.ID = s.nextID
	shift.CreatedAt = time.Now()
	shift.UpdatedAt = shift.CreatedAt
	s.shifts[shift.ID] = *shift
	return true, nil
}

func (s *MemoryShiftStore) UpdateAvailability(_ context.Context, id uint, isAvailable bool) (*model.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shift, ok := s.shifts[id]
	if !ok {
		return nil, ErrShiftNotFound
	}
	shift.IsAvailable = isAvailable
	shift.UpdatedAt = time.Now()
	s.shifts[id] = shift
	return &shift, nil
}

func (s *MemoryShiftStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shifts[id]; !ok {
		return ErrShiftNotFound
	}
	delete(s.shifts, id)
	return nil
}

// BulkInsert persists the batch, rejecting any shift whose
// (EmployeeID, StartDate) key is already taken, like the unique day index
// does in PostgreSQL. A rejected batch writes nothing.
func (s *MemoryShiftStore) BulkInsert(_ context.Context, shifts []model.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	type dayKey struct {
		employeeID uint
		start      int64
	}
	taken := make(map[dayKey]struct{}, len(s.shifts)+len(shifts))
	for _, existing := range s.shifts {
		taken[dayKey{existing.EmployeeID, existing.StartDate.UnixNano()}] = struct{}{}
	}
	for _, shift := range shifts {
		key := dayKey{shift.EmployeeID, shift.StartDate.UnixNano()}
		if _, dup := taken[key]; dup {
			return fmt.Errorf("store: duplicate shift for employee %d on %s",
				shift.EmployeeID, shift.StartDate.Format("2006-01-02"))
		}
		taken[key] = struct{}{}
	}
	for _, shift := range shifts {
		s.nextID++
		shift.ID = s.nextID
		shift.CreatedAt = time.Now()
		shift.UpdatedAt = shift.CreatedAt
		s.shifts[shift.ID] = shift
	}
	return nil
}

func (s *MemoryShiftStore) BulkDelete(_ context.Context, ids []uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.shifts, id)
	}
	return nil
}

func (s *MemoryShiftStore) ToggleCompletion(_ context.Context, companyID uint, month int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var updated int64
	for id, shift := range s.shifts {
		if shift.CompanyID == companyID && shift.Month == month {
			shift.IsComplete = !shift.IsComplete
			shift.UpdatedAt = time.Now()
			s.shifts[id] = shift
			updated++
		}
	}
	return updated, nil
}

func (s *MemoryShiftStore) inYearMonth(sh model.Shift, year int, month time.Month) bool {
	local := sh.StartDate.In(s.loc)
	return sh.Month == int(month) && local.Year() == year
}

func (s *MemoryShiftStore) collect(match func(model.Shift) bool) []model.Shift {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Shift
	for _, shift := range s.shifts {
		if match(shift) {
			out = append(out, shift)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		if out[i].EmployeeID != out[j].EmployeeID {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return out[i].ID < out[j].ID
	})
	return out
}
