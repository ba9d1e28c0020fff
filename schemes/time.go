package schemes

import (
	"encoding/binary"

	"nucleus/clock"
	"nucleus/kurl"
	"nucleus/resource"
	"nucleus/session"
)

// Time implements the "time" scheme: reads return the clock's current
// realtime reading as a fixed 16-byte {secs, nanos} big-endian record,
// and writes of that same shape adjust the realtime clock, mirroring the
// original kernel's time scheme read/write pair.
type Time struct {
	session.DefaultScheme
	clock *clock.Clock
}

// NewTime creates a Time scheme backed by clk.
func NewTime(clk *clock.Clock) *Time {
	return &Time{clock: clk}
}

func (t *Time) Name() string { return "time" }

func (t *Time) Open(u kurl.URL, flags int) (resource.Resource, error) {
	return &timeResource{clock: t.clock, url: u}, nil
}

type timeResource struct {
	clock *clock.Clock
	url   kurl.URL
}

func (tr *timeResource) Dup() (resource.Resource, error) {
	return &timeResource{clock: tr.clock, url: tr.url}, nil
}

func (tr *timeResource) URL() kurl.URL { return tr.url }

func (tr *timeResource) Read(buf []byte) (int, bool) {
	if len(buf) < 16 {
		return 0, false
	}
	d := tr.clock.Realtime()
	binary.BigEndian.PutUint64(buf[0:8], uint64(d.Secs))
	binary.BigEndian.PutUint64(buf[8:16], uint64(d.Nanos))
	return 16, true
}

func (tr *timeResource) Write(buf []byte) (int, bool) {
	if len(buf) < 16 {
		return 0, false
	}
	secs := int64(binary.BigEndian.Uint64(buf[0:8]))
	nanos := int64(binary.BigEndian.Uint64(buf[8:16]))
	tr.clock.SetRealtime(clock.Duration{Secs: secs, Nanos: nanos})
	return 16, true
}

func (tr *timeResource) Seek(req resource.SeekRequest) (int, bool) {
	return 0, false
}

func (tr *timeResource) Sync() bool {
	return true
}

func (tr *timeResource) Close() error {
	return nil
}
