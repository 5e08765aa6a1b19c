package services

import "sync"

// scheduleLocks hands out one mutex per schedule id so writers on the
// same inventory serialize while unrelated schedules never contend.
// Entries are never evicted; the table grows with the number of
// schedules touched by this process, which stays small.
type scheduleLocks struct {
	mu sync.Mutex
	m  map[int64]*sync.Mutex
}

func newScheduleLocks() *scheduleLocks {
	return &scheduleLocks{m: make(map[int64]*sync.Mutex)}
}

// acquire locks the schedule's mutex and returns the unlock func.
func (l *scheduleLocks) acquire(scheduleID int64) func() {
	l.mu.Lock()
	lk, ok := l.m[scheduleID]
	if !ok {
		lk = &sync.Mutex{}
		l.m[scheduleID] = lk
	}
	l.mu.Unlock()

	lk.Lock()
	return lk.Unlock
}
