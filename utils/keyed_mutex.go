package utils

import "sync"

// KeyedMutex serializes work per integer key: scoring per match id,
// advancement per tournament id. Entries are reference counted and
// removed when the last holder unlocks, so the map stays small.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[int]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[int]*keyedEntry)}
}

// Lock blocks until the key is free and returns the matching unlock
// function.
func (k *KeyedMutex) Lock(key int) func() {
	k.mu.Lock()
	entry, ok := k.entries[key]
	if !ok {
		entry = &keyedEntry{}
		k.entries[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}
