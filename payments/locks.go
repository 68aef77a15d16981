package payments

import "sync"

// LockManager manages per-item locks so webhook fulfillment for the same
// product or listing never runs concurrently, while unrelated items are
// processed in parallel.
type LockManager struct {
	locks sync.Map // map[string]*sync.Mutex
}

// NewLockManager creates a new lock manager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// LockItem acquires the lock for the given item id.
// Returns a function that must be called to release the lock.
func (lm *LockManager) LockItem(itemID string) func() {
	lockInterface, _ := lm.locks.LoadOrStore(itemID, &sync.Mutex{})
	lock, ok := lockInterface.(*sync.Mutex)
	if !ok {
		// This should never happen if we only store *sync.Mutex values
		panic("unexpected type in lock manager")
	}

	lock.Lock()

	return func() {
		lock.Unlock()
	}
}

// CleanupLocks removes locks that are not currently held. It can be called
// periodically to keep the map from growing with inactive items.
func (lm *LockManager) CleanupLocks() {
	lm.locks.Range(func(key, value any) bool {
		lock, ok := value.(*sync.Mutex)
		if !ok {
			return true
		}
		if lock.TryLock() {
			lock.Unlock()
			lm.locks.Delete(key)
		}
		return true
	})
}
