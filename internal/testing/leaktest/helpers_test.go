package leaktest

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoroutineChecker_NoLeak(t *testing.T) {
	checker := NewGoroutineChecker(t)
	checker.Check(0)
}

func TestGoroutineChecker_WithinTolerance(t *testing.T) {
	checker := NewGoroutineChecker(t)

	done := make(chan struct{})
	go func() { <-done }()
	defer close(done)

	checker.Check(1)
}

func TestCheckNoGoroutineLeak_WaitsForStragglers(t *testing.T) {
	CheckNoGoroutineLeak(t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				time.Sleep(5 * time.Millisecond)
			}()
		}
		wg.Wait()
	})
}

func TestSettle_ReportsCountAtTimeout(t *testing.T) {
	done := make(chan struct{})
	go func() { <-done }()
	defer close(done)

	start := time.Now()
	n := settle(0, 30*time.Millisecond)

	assert.Greater(t, n, 0)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
