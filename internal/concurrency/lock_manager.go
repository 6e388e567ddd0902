package concurrency

import "sync"

// LockManager serialises work per key. The store keys it by group id so two
// groups never wait on each other.
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[string]*sync.Mutex)}
}

// Lock blocks until key is free and returns the function that releases it.
// Mutexes are kept for the life of the manager; group ids are a small set.
func (lm *LockManager) Lock(key string) (unlock func()) {
	lm.mu.Lock()
	l, ok := lm.locks[key]
	if !ok {
		l = &sync.Mutex{}
		lm.locks[key] = l
	}
	lm.mu.Unlock()

	l.Lock()
	return l.Unlock
}
