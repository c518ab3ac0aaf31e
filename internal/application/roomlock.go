package application

import (
	"sync"

	"github.com/google/uuid"
)

// roomLocks serializes the availability check-then-write per room. Two
// concurrent bookings for the same room take the same lock, so the conflict
// check always sees any booking committed by the other request. Bookings for
// different rooms never contend.
type roomLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Lock acquires the lock for the given room, creating it on first use. The
// returned function releases the lock.
func (r *roomLocks) Lock(roomID uuid.UUID) func() {
	r.mu.Lock()
	lock, ok := r.locks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[roomID] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
