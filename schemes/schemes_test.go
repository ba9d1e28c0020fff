package schemes

import (
	"encoding/json"
	"testing"

	"nucleus/clock"
	"nucleus/kurl"
	"nucleus/resource"
	"nucleus/sched"
	"nucleus/session"
)

func TestMemoryOpenAllocatesRequestedSize(t *testing.T) {
	m := NewMemory()
	res, err := m.Open(kurl.New("memory:64"), 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	_, ok := res.Seek(resource.SeekRequest{Whence: resource.End, Delta: 0})
	if !ok {
		t.Fatal("Seek(End, 0) failed")
	}
	pos, _ := res.Seek(resource.SeekRequest{Whence: resource.End, Delta: 0})
	if pos != 64 {
		t.Fatalf("allocated size = %d, want 64", pos)
	}
}

func TestMemoryOpenInvalidSize(t *testing.T) {
	m := NewMemory()
	_, err := m.Open(kurl.New("memory:notanumber"), 0)
	if err == nil {
		t.Fatal("expected error for non-numeric size")
	}
}

func TestRandomReadFillsBuffer(t *testing.T) {
	r := NewRandom()
	res, _ := r.Open(kurl.New("random:"), 0)

	buf := make([]byte, 32)
	n, ok := res.Read(buf)
	if !ok || n != 32 {
		t.Fatalf("Read() = (%d, %v), want (32, true)", n, ok)
	}
}

func TestFileSeedAndOpen(t *testing.T) {
	f := NewFile()
	f.Seed("etc/motd", []byte("welcome"))

	res, err := f.Open(kurl.New("file:///etc/motd"), 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	buf := make([]byte, 7)
	n, ok := res.Read(buf)
	if !ok || string(buf[:n]) != "welcome" {
		t.Fatalf("Read() = (%q, %v), want \"welcome\"", buf[:n], ok)
	}
}

func TestFileOpenCreatesEmptyPath(t *testing.T) {
	f := NewFile()
	res, err := f.Open(kurl.New("file:///new/path"), 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	buf := make([]byte, 1)
	n, ok := res.Read(buf)
	if !ok || n != 0 {
		t.Fatalf("Read() on new empty file = (%d, %v), want (0, true)", n, ok)
	}
}

func TestTimeReadWriteRoundTrip(t *testing.T) {
	clk := clock.New()
	ts := NewTime(clk)
	res, _ := ts.Open(kurl.New("time:"), 0)

	setBuf := make([]byte, 16)
	d := clock.Duration{Secs: 123, Nanos: 456}
	// Round-trip through Write then Read.
	writeTimeDuration(setBuf, d)
	if n, ok := res.Write(setBuf); !ok || n != 16 {
		t.Fatalf("Write() = (%d, %v), want (16, true)", n, ok)
	}

	readBuf := make([]byte, 16)
	n, ok := res.Read(readBuf)
	if !ok || n != 16 {
		t.Fatalf("Read() = (%d, %v), want (16, true)", n, ok)
	}
	if clk.Realtime() != d {
		t.Fatalf("Realtime() = %+v, want %+v", clk.Realtime(), d)
	}
}

func writeTimeDuration(buf []byte, d clock.Duration) {
	putUint64 := func(b []byte, v uint64) {
		for i := 7; i >= 0; i-- {
			b[i] = byte(v)
			v >>= 8
		}
	}
	putUint64(buf[0:8], uint64(d.Secs))
	putUint64(buf[8:16], uint64(d.Nanos))
}

func TestContextInfoOpenReturnsJSON(t *testing.T) {
	sch := sched.NewScheduler(sched.NewInterrupts())
	sch.Spawn("worker", func(c *sched.Context) {})

	ci := NewContextInfo(sch)
	res, err := ci.Open(kurl.New("context:"), 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	buf := make([]byte, 4096)
	n, ok := res.Read(buf)
	if !ok {
		t.Fatal("Read() failed")
	}

	var dumps []contextDump
	if err := json.Unmarshal(buf[:n], &dumps); err != nil {
		t.Fatalf("failed to unmarshal context dump: %v", err)
	}

	found := false
	for _, d := range dumps {
		if d.Name == "worker" {
			found = true
		}
	}
	if !found {
		t.Fatalf("context dump %v did not include worker", dumps)
	}
}

func TestLoopbackSchemesRegisterNames(t *testing.T) {
	schemes := []session.Scheme{NewEthernet(), NewARP(), NewICMP(), NewIP(), NewTCP()}
	want := []string{"ethernet", "arp", "icmp", "ip", "tcp"}
	for i, s := range schemes {
		if s.Name() != want[i] {
			t.Errorf("schemes[%d].Name() = %q, want %q", i, s.Name(), want[i])
		}
	}
}

func TestDisplayOpenAllocatesFramebuffer(t *testing.T) {
	d := NewDisplay(4, 4)
	res, err := d.Open(kurl.New("display:"), 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	pos, _ := res.Seek(resource.SeekRequest{Whence: resource.End, Delta: 0})
	if pos != 4*4*4 {
		t.Fatalf("framebuffer size = %d, want %d", pos, 4*4*4)
	}
}

func TestWindowOpenIndependentBuffers(t *testing.T) {
	w := NewWindow()
	a, _ := w.Open(kurl.New("window:1"), 0)
	b, _ := w.Open(kurl.New("window:2"), 0)
	a.Write([]byte("hello"))

	buf := make([]byte, 5)
	n, _ := b.Read(buf)
	if n != 0 {
		t.Fatalf("window b read %d bytes from a fresh buffer, want 0", n)
	}
}
