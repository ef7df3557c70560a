package bank

import "sync"

// lockRegistry hands out one exclusive lock per account id. A lock is
// created on first touch under the registry guard, so two goroutines
// racing for a never-locked account always end up on the same lock
// object. Locks are never removed for the life of the process.
type lockRegistry struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{locks: map[int64]*sync.Mutex{}}
}

// acquire blocks until the caller holds the lock for accountID and
// returns it so the caller can defer the unlock.
func (r *lockRegistry) acquire(accountID int64) *sync.Mutex {
	r.mu.Lock()
	lock, ok := r.locks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[accountID] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	return lock
}

// acquirePair locks both accounts in ascending id order, regardless of
// which side is the source, so opposing transfers cannot deadlock.
// Equal ids are locked once.
func (r *lockRegistry) acquirePair(a, b int64) func() {
	if a == b {
		lock := r.acquire(a)
		return lock.Unlock
	}

	first, second := a, b
	if second < first {
		first, second = second, first
	}
	firstLock := r.acquire(first)
	secondLock := r.acquire(second)

	return func() {
		secondLock.Unlock()
		firstLock.Unlock()
	}
}
