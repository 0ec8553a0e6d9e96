package job

import "sync"

// Tracker records the progress of the in-flight batch job for each company.
// Progress is ephemeral process state: an integer 0-100 reset at the start of
// a run and advanced monotonically until the run finishes. Each company has
// its own counter, so concurrent jobs of different tenants never observe each
// other's progress.
type Tracker struct {
	mu  sync.RWMutex
	pct map[uint]int
}

// NewTracker creates an empty progress tracker.
func NewTracker() *Tracker {
	return &Tracker{pct: make(map[uint]int)}
}

// Start resets the company's progress to zero for a new run.
func (t *Tracker) Start(companyID uint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pct[companyID] = 0
}

// Set advances the company's progress. Values below the current one are
// ignored so that progress never moves backwards during a run; values are
// clamped to 100.
func (t *Tracker) Set(companyID uint, pct int) {
	if pct > 100 {
		pct = 100
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if pct > t.pct[companyID] {
		t.pct[companyID] = pct
	}
}

// Get returns the company's current progress. Reading never blocks on a
// running job beyond the map lock.
func (t *Tracker) Get(companyID uint) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pct[companyID]
}
