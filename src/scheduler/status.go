package scheduler

import (
	"sync"
	"time"

	"stock-digest/src/models"
)

// -----------------------------------------------------------------------------

// statusTracker serializes all RunStatus writes. Concurrent manual and
// scheduled runs may interleave, but each run's record call is atomic, so the
// counters stay consistent and timestamp fields settle last-write-wins.
type statusTracker struct {
	mu     sync.RWMutex
	status models.MRunStatus
}

// -----------------------------------------------------------------------------

func newStatusTracker(schedule, timezone string) *statusTracker {
	return &statusTracker{
		status: models.MRunStatus{
			Schedule: schedule,
			Timezone: timezone,
		},
	}
}

// -----------------------------------------------------------------------------

// restore adopts persisted counters but keeps the currently configured
// schedule and timezone.
func (t *statusTracker) restore(persisted models.MRunStatus, schedule, timezone string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	persisted.Schedule = schedule
	persisted.Timezone = timezone
	t.status = persisted
}

// -----------------------------------------------------------------------------

// record applies one run outcome and returns the updated snapshot.
func (t *statusTracker) record(started, finished time.Time, runErr error) models.MRunStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status.LastAttempt = &started
	t.status.TotalAttempts++

	if runErr == nil {
		t.status.TotalSuccess++
		t.status.LastSuccess = &finished
		t.status.LastError = nil
	} else {
		t.status.TotalFailures++
		msg := runErr.Error()
		t.status.LastError = &msg
	}

	return t.status
}

// -----------------------------------------------------------------------------

func (t *statusTracker) snapshot() models.MRunStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}
