// Package concurrency provides named locks. The pool governor uses one lock
// per agent ID so ledger mutations for the same pool never interleave, while
// pools of different agents proceed fully in parallel.
package concurrency

import (
	"sync"
)

// LockManager handles named locks. Locks are created on first use and kept
// for the process lifetime; the set of agents is small and bounded.
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns the mutex for the given key
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// WithLock runs fn while holding the named lock
func (lm *LockManager) WithLock(key string, fn func() error) error {
	mu := lm.GetLock(key)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}
