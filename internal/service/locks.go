package service

import (
	"sync"

	"github.com/google/uuid"
)

// matchLocks hands out one mutex per match id. Entries are dropped once no
// caller holds or waits on them.
type matchLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*matchLock
}

type matchLock struct {
	sync.Mutex
	refs int
}

func newMatchLocks() *matchLocks {
	return &matchLocks{locks: make(map[uuid.UUID]*matchLock)}
}

// lock blocks until the caller owns the match and returns the release func.
func (l *matchLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	ml, ok := l.locks[id]
	if !ok {
		ml = &matchLock{}
		l.locks[id] = ml
	}
	ml.refs++
	l.mu.Unlock()

	ml.Lock()
	return func() {
		ml.Unlock()
		l.mu.Lock()
		ml.refs--
		if ml.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *matchLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
