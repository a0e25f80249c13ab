package task

import "sync"

// learnerLocks serializes read-modify-write sequences per learner. The store
// has no transactions spanning get/set, so without this two concurrent
// submissions for the same learner could lose an update or double-introduce
// a word.
type learnerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *learnerLocks) lock(learnerID string) *sync.Mutex {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[learnerID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[learnerID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m
}
