package engine

import "sync"

// sessionLocks hands out one mutex per session id so executions against the
// same session cannot interleave their provider calls and appends. Entries
// are never removed; the per-session footprint is a single mutex.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the mutex for id and returns its release function.
func (l *sessionLocks) acquire(id string) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
