package api

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObserveFirstSightingIsZero(t *testing.T) {
	store := NewRequestStore()
	assert.Equal(t, uint64(0), store.Observe("tenant", 100))
}

func TestObserveReportsElapsedSeconds(t *testing.T) {
	store := NewRequestStore()
	store.Touch("tenant", 100)
	assert.Equal(t, uint64(42), store.Observe("tenant", 142))

	// the observation itself advances the clock
	assert.Equal(t, uint64(0), store.Observe("tenant", 142))
}

func TestObserveClampsClockSkew(t *testing.T) {
	store := NewRequestStore()
	store.Touch("tenant", 200)
	assert.Equal(t, uint64(0), store.Observe("tenant", 150))
}

func TestTenantsAreIndependent(t *testing.T) {
	store := NewRequestStore()
	store.Touch("a", 10)
	assert.Equal(t, uint64(0), store.Observe("b", 30))
	assert.Equal(t, uint64(20), store.Observe("a", 30))
}

func TestStoreIsSafeForConcurrentUse(t *testing.T) {
	store := NewRequestStore()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n uint64) {
			defer wg.Done()
			store.Touch("tenant", n)
			store.Observe("tenant", n+1)
		}(uint64(i))
	}
	wg.Wait()
}
