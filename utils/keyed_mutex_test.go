package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	unlock := km.Lock(1)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := km.Lock(1)
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			u()
		}(i)
	}

	mu.Lock()
	assert.Empty(t, order, "waiters must block while the key is held")
	mu.Unlock()

	unlock()
	wg.Wait()
	assert.Len(t, order, 10)
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()

	unlock1 := km.Lock(1)
	done := make(chan struct{})
	go func() {
		unlock2 := km.Lock(2)
		unlock2()
		close(done)
	}()

	<-done
	unlock1()
}

func TestKeyedMutexCleansUpEntries(t *testing.T) {
	km := NewKeyedMutex()

	unlock := km.Lock(42)
	unlock()

	km.mu.Lock()
	defer km.mu.Unlock()
	assert.Empty(t, km.entries)
}
