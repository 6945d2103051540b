package services

import "sync"

// keyedMutex hands out one mutex per room so that the overlap check and the
// write it guards run as a unit. Without it, two concurrent bookings for the
// same room can both pass the overlap count before either row is visible.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[uint]*sync.Mutex)}
}

// Lock acquires the mutex for id and returns its unlock func.
func (k *keyedMutex) Lock(id uint) func() {
	k.mu.Lock()
	m, ok := k.locks[id]
	if !ok {
		m = &sync.Mutex{}
		k.locks[id] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// roomLocks serializes validate+check+write per room across the process.
// The database EXCLUDE constraint remains as the last-resort defense.
var roomLocks = newKeyedMutex()
