package screenshare

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock hands out a controllable time for throttle tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestReadEmptyBuffer(t *testing.T) {
	buf := NewLastFrame()

	_, _, ok := buf.Read()
	assert.False(t, ok)
}

func TestUpdateAcceptsFirstFrame(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)}
	buf := newLastFrame(MinUpdateInterval, clock.now)

	require.True(t, buf.Update(Frame{Data: []byte("a"), Format: "jpeg"}))

	frame, ts, ok := buf.Read()
	require.True(t, ok)
	assert.Equal(t, []byte("a"), frame.Data)
	assert.Equal(t, "jpeg", frame.Format)
	assert.Equal(t, clock.now(), ts)
}

func TestUpdateThrottlesInsideInterval(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)}
	buf := newLastFrame(MinUpdateInterval, clock.now)

	require.True(t, buf.Update(Frame{Data: []byte("a")}))
	accepted := clock.now()

	clock.advance(499 * time.Millisecond)
	assert.False(t, buf.Update(Frame{Data: []byte("b")}))

	// The rejected update left frame and timestamp untouched.
	frame, ts, ok := buf.Read()
	require.True(t, ok)
	assert.Equal(t, []byte("a"), frame.Data)
	assert.Equal(t, accepted, ts)
}

func TestUpdateAcceptsAtIntervalBoundary(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)}
	buf := newLastFrame(MinUpdateInterval, clock.now)

	require.True(t, buf.Update(Frame{Data: []byte("a")}))
	clock.advance(MinUpdateInterval)
	require.True(t, buf.Update(Frame{Data: []byte("b")}))

	frame, ts, ok := buf.Read()
	require.True(t, ok)
	assert.Equal(t, []byte("b"), frame.Data)
	assert.Equal(t, clock.now(), ts)
}

func TestThrottleWindowRestartsOnAccept(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)}
	buf := newLastFrame(MinUpdateInterval, clock.now)

	require.True(t, buf.Update(Frame{Data: []byte("a")}))
	clock.advance(MinUpdateInterval)
	require.True(t, buf.Update(Frame{Data: []byte("b")}))

	// The window restarts from the second accept, not the first.
	clock.advance(100 * time.Millisecond)
	assert.False(t, buf.Update(Frame{Data: []byte("c")}))
}

func TestConcurrentProducersAndReaders(t *testing.T) {
	buf := newLastFrame(0, time.Now) // no throttle so every update lands

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			payload := []byte(fmt.Sprintf("frame-%d", n))
			for j := 0; j < 100; j++ {
				buf.Update(Frame{Data: payload, Format: "jpeg"})
			}
		}(i)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				frame, ts, ok := buf.Read()
				if !ok {
					continue
				}
				// A frame and its timestamp always arrive as a pair.
				assert.NotEmpty(t, frame.Data)
				assert.False(t, ts.IsZero())
			}
		}()
	}
	wg.Wait()

	frame, _, ok := buf.Read()
	require.True(t, ok)
	assert.Contains(t, string(frame.Data), "frame-")
}
