package keylock

import "sync"

// KeyedMutex serializes operations that share a string key. The booking
// workflow uses one instance keyed by venue ID to make conflict
// check-then-create atomic per venue, and another keyed by batch ID so
// batch-clearance evaluation never runs twice concurrently for one batch.
//
// Mutex entries are never evicted. The key space is bounded by the number
// of venues and in-flight batches, which stays small for this workload.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*sync.Mutex),
	}
}

func (k *KeyedMutex) Lock(key string) {
	k.get(key).Lock()
}

func (k *KeyedMutex) Unlock(key string) {
	k.get(key).Unlock()
}

// LockAll acquires every key in sorted order. Callers must pass the keys
// pre-sorted and deduplicated; ordered acquisition prevents deadlock
// between overlapping multi-venue submissions.
func (k *KeyedMutex) LockAll(keys []string) {
	for _, key := range keys {
		k.Lock(key)
	}
}

func (k *KeyedMutex) UnlockAll(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		k.Unlock(keys[i])
	}
}

func (k *KeyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}
