package cooldown

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestSecondRaiseWithinWindowIsSuppressed(t *testing.T) {
	is, g, _ := testSetup(t)

	is.True(g.ShouldRaise("m1", "Overheating", 15*time.Minute))
	is.True(!g.ShouldRaise("m1", "Overheating", 15*time.Minute))
}

func TestSuppressedCallsDoNotExtendTheWindow(t *testing.T) {
	is, g, clock := testSetup(t)

	is.True(g.ShouldRaise("m1", "Overheating", 15*time.Minute))

	for i := 0; i < 14; i++ {
		clock.advance(time.Minute)
		is.True(!g.ShouldRaise("m1", "Overheating", 15*time.Minute))
	}

	clock.advance(time.Minute)
	is.True(g.ShouldRaise("m1", "Overheating", 15*time.Minute))
}

func TestKeysAreIndependent(t *testing.T) {
	is, g, _ := testSetup(t)

	is.True(g.ShouldRaise("m1", "Overheating", time.Minute))
	is.True(g.ShouldRaise("m1", "High Vibration", time.Minute))
	is.True(g.ShouldRaise("m2", "Overheating", time.Minute))
	is.Equal(g.Len(), 3)
}

func TestConcurrentCallersOnlyOnePasses(t *testing.T) {
	is, g, _ := testSetup(t)

	var passed int32
	var wg sync.WaitGroup

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.ShouldRaise("m1", "Overheating", time.Minute) {
				atomic.AddInt32(&passed, 1)
			}
		}()
	}

	wg.Wait()
	is.Equal(atomic.LoadInt32(&passed), int32(1))
}

func TestEvictRemovesExpiredEntries(t *testing.T) {
	is, g, clock := testSetup(t)

	g.ShouldRaise("m1", "Overheating", 15*time.Minute)
	clock.advance(10 * time.Minute)
	g.ShouldRaise("m2", "Overheating", 15*time.Minute)

	clock.advance(6 * time.Minute)
	is.Equal(g.Evict(), 1)
	is.Equal(g.Len(), 1)

	is.True(!g.ShouldRaise("m2", "Overheating", 15*time.Minute))
}

func TestLongWindowDoesNotDelayEvictionOfOthers(t *testing.T) {
	is, g, clock := testSetup(t)

	g.ShouldRaise("m1", "temperature", 24*time.Hour)
	g.ShouldRaise("m2", "temperature", 15*time.Minute)

	clock.advance(16 * time.Minute)
	is.Equal(g.Evict(), 1)
	is.Equal(g.Len(), 1)

	is.True(g.ShouldRaise("m2", "temperature", 15*time.Minute))
	is.True(!g.ShouldRaise("m1", "temperature", 24*time.Hour))
}

func TestBoundsOfTheSameMetricAreGatedSeparately(t *testing.T) {
	is, g, _ := testSetup(t)

	is.True(g.ShouldRaise("m1", "voltageMin", 15*time.Minute))
	is.True(g.ShouldRaise("m1", "voltageMax", 15*time.Minute))
	is.True(!g.ShouldRaise("m1", "voltageMin", 15*time.Minute))
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testSetup(t *testing.T) (*is.I, *Gate, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
	return is.New(t), New(WithClock(clock.Now)), clock
}
