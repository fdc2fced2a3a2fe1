package leave

import "sync"

// userLocks serializes balance-touching decisions per user. Two approvals
// racing on the same user's counters would both read the pre-mutation
// balance and both pass the sufficiency check; holding the user's lock
// across read-check-write closes that window within this process.
type userLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{m: make(map[string]*sync.Mutex)}
}

func (l *userLocks) lock(userID string) func() {
	l.mu.Lock()
	lk, ok := l.m[userID]
	if !ok {
		lk = &sync.Mutex{}
		l.m[userID] = lk
	}
	l.mu.Unlock()

	lk.Lock()
	return lk.Unlock
}
