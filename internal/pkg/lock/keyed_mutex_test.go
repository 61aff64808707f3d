package lock_test

import (
	"sync"
	"testing"

	"github.com/Devmatrix25/SmartEats/internal/pkg/lock"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := lock.NewKeyedMutex()

	const workers = 50
	counter := 0

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			km.Lock("order-1")
			defer km.Unlock("order-1")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestKeyedMutex_DistinctKeysDoNotBlock(t *testing.T) {
	km := lock.NewKeyedMutex()

	km.Lock("order-1")
	defer km.Unlock("order-1")

	done := make(chan struct{})
	go func() {
		km.Lock("order-2")
		km.Unlock("order-2")
		close(done)
	}()

	<-done // would deadlock if keys shared one mutex
}

func TestKeyedMutex_UnlockUnknownKeyPanics(t *testing.T) {
	km := lock.NewKeyedMutex()

	assert.Panics(t, func() {
		km.Unlock("never-locked")
	})
}
