package service

import "sync"

// roomLocker hands out one mutex per room id.  Entries are reference
// counted and dropped when the last holder unlocks, so the map only holds
// rooms with an admission in flight.
type roomLocker struct {
	mu    sync.Mutex
	locks map[uint64]*roomLock
}

type roomLock struct {
	mu   sync.Mutex
	refs int
}

func newRoomLocker() *roomLocker {
	return &roomLocker{locks: make(map[uint64]*roomLock)}
}

// Lock blocks until the caller holds the room's mutex and returns the
// function that releases it.
func (l *roomLocker) Lock(roomID uint64) (unlock func()) {
	l.mu.Lock()
	rl, ok := l.locks[roomID]
	if !ok {
		rl = &roomLock{}
		l.locks[roomID] = rl
	}
	rl.refs++
	l.mu.Unlock()

	rl.mu.Lock()
	return func() {
		rl.mu.Unlock()
		l.mu.Lock()
		rl.refs--
		if rl.refs == 0 {
			delete(l.locks, roomID)
		}
		l.mu.Unlock()
	}
}

func (l *roomLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
