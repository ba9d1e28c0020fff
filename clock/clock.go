// Package clock models the kernel's two time sources: a realtime clock that
// can be set and a monotonic clock that only ever advances, both driven by
// PIT tick accounting rather than the host's wall clock.
package clock

import "sync"

// PITDuration is the number of nanoseconds a single PIT tick represents,
// carried over from the original kernel's timer calibration constant.
const PITDuration int64 = 2_250_286

// Duration is a {seconds, nanoseconds} pair with nanosecond overflow carried
// into seconds at the 1e9 boundary, matching the kernel's own duration type
// rather than reusing time.Duration's single int64-nanoseconds
// representation (which wraps after about 292 years).
type Duration struct {
	Secs  int64
	Nanos int64
}

const nanosPerSec = 1_000_000_000

// normalize carries any nanosecond overflow/underflow into Secs so Nanos
// always lands in [0, 1e9).
func normalize(secs, nanos int64) Duration {
	secs += nanos / nanosPerSec
	nanos = nanos % nanosPerSec
	if nanos < 0 {
		nanos += nanosPerSec
		secs--
	}
	return Duration{Secs: secs, Nanos: nanos}
}

// Add returns d+other with carry normalized at the 1e9 nanosecond boundary.
func (d Duration) Add(other Duration) Duration {
	return normalize(d.Secs+other.Secs, d.Nanos+other.Nanos)
}

// Sub returns d-other with carry normalized at the 1e9 nanosecond boundary.
func (d Duration) Sub(other Duration) Duration {
	return normalize(d.Secs-other.Secs, d.Nanos-other.Nanos)
}

// Compare returns -1, 0, or 1 as d is less than, equal to, or greater than
// other.
func (d Duration) Compare(other Duration) int {
	switch {
	case d.Secs != other.Secs:
		if d.Secs < other.Secs {
			return -1
		}
		return 1
	case d.Nanos != other.Nanos:
		if d.Nanos < other.Nanos {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// FromTickDuration returns the Duration represented by n PIT ticks.
func FromTickDuration(n int64) Duration {
	return normalize(0, n*PITDuration)
}

// Clock tracks elapsed PIT ticks and derives realtime/monotonic readings
// from them, the same accounting the timer ISR performs on every 0x20 trap.
type Clock struct {
	mu       sync.Mutex
	ticks    uint64
	quantum  int64 // nanoseconds per tick; defaults to PITDuration
	realtime Duration // offset applied on top of monotonic elapsed time
}

// New creates a Clock with its realtime offset set to epoch (0, 0) and
// its tick quantum set to PITDuration.
func New() *Clock {
	return &Clock{quantum: PITDuration}
}

// NewWithQuantum creates a Clock whose tick quantum is nanosPerTick
// rather than PITDuration, for callers overriding the boot-time timer
// calibration (the CLI's --quantum flag).
func NewWithQuantum(nanosPerTick int64) *Clock {
	return &Clock{quantum: nanosPerTick}
}

// Tick advances the clock by one PIT period. Called only from the timer
// ISR vector (0x20); see trap.Dispatcher.
func (c *Clock) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks++
}

// Ticks returns the total number of PIT ticks observed so far.
func (c *Clock) Ticks() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

// Monotonic returns elapsed time since boot, derived purely from tick
// count. It never decreases between calls.
func (c *Clock) Monotonic() Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return normalize(0, int64(c.ticks)*c.quantum)
}

// SetRealtime sets the realtime clock's epoch offset, as the "time" scheme's
// write handler does when userspace adjusts the wall clock.
func (c *Clock) SetRealtime(d Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.realtime = d.Sub(normalize(0, int64(c.ticks)*c.quantum))
}

// Realtime returns the current realtime-clock reading: the configured
// epoch offset plus elapsed monotonic time.
func (c *Clock) Realtime() Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.realtime.Add(normalize(0, int64(c.ticks)*c.quantum))
}
