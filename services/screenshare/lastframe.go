package screenshare

import (
	"sync/atomic"
	"time"
)

// MinUpdateInterval throttles stored frames to roughly 2 per second so a
// high-frequency producer cannot overload downstream consumers (the vision
// LLM call).
const MinUpdateInterval = 500 * time.Millisecond

// Frame is the most recent screen-share snapshot as encoded image bytes.
type Frame struct {
	Data   []byte
	Format string // image subtype, e.g. "jpeg" or "png"
}

type frameRecord struct {
	frame Frame
	ts    time.Time
}

// LastFrame is a throttled single-slot buffer holding the most recently
// accepted frame. It is a decimation filter, not a queue: frames arriving
// inside the throttle window are dropped and unrecoverable. Frame and
// timestamp are replaced together through one pointer swap, so a reader
// never observes a new frame with a stale timestamp or vice versa.
type LastFrame struct {
	cur      atomic.Pointer[frameRecord]
	interval time.Duration
	now      func() time.Time
}

// NewLastFrame returns an empty buffer with the default throttle interval.
func NewLastFrame() *LastFrame {
	return newLastFrame(MinUpdateInterval, time.Now)
}

func newLastFrame(interval time.Duration, now func() time.Time) *LastFrame {
	return &LastFrame{interval: interval, now: now}
}

// Update stores f if at least the throttle interval has elapsed since the
// last accepted update, and reports whether the frame was accepted. A
// rejected update leaves both frame and timestamp untouched. Update never
// blocks readers.
func (l *LastFrame) Update(f Frame) bool {
	for {
		prev := l.cur.Load()
		now := l.now()
		if prev != nil && now.Sub(prev.ts) < l.interval {
			return false
		}
		if l.cur.CompareAndSwap(prev, &frameRecord{frame: f, ts: now}) {
			return true
		}
	}
}

// Read returns the stored frame, its acceptance time, and whether a frame
// is present. No freshness is implied: if the producer stopped, a stale
// frame is returned identically to a fresh one. Callers needing freshness
// must check the timestamp themselves.
func (l *LastFrame) Read() (Frame, time.Time, bool) {
	rec := l.cur.Load()
	if rec == nil {
		return Frame{}, time.Time{}, false
	}
	return rec.frame, rec.ts, true
}
