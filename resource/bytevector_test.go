package resource

import (
	"bytes"
	"testing"

	"nucleus/kurl"
)

func TestReadWriteBasics(t *testing.T) {
	v := NewByteVector(kurl.New("memory:"), []byte("hello"))

	buf := make([]byte, 3)
	n, ok := v.Read(buf)
	if !ok || n != 3 || string(buf) != "hel" {
		t.Fatalf("Read = (%d, %v, %q), want (3, true, \"hel\")", n, ok, buf)
	}

	n, ok = v.Read(buf)
	if !ok || n != 2 || string(buf[:n]) != "lo" {
		t.Fatalf("Read = (%d, %v, %q), want (2, true, \"lo\")", n, ok, buf[:n])
	}

	// Clean EOF is (0, true), not (0, false).
	n, ok = v.Read(buf)
	if !ok || n != 0 {
		t.Fatalf("Read at EOF = (%d, %v), want (0, true)", n, ok)
	}
}

func TestWriteExtendsBuffer(t *testing.T) {
	v := NewByteVector(kurl.New("memory:"), []byte("abc"))
	v.Seek(SeekRequest{Whence: Start, Delta: 3})

	n, ok := v.Write([]byte("def"))
	if !ok || n != 3 {
		t.Fatalf("Write = (%d, %v), want (3, true)", n, ok)
	}
	if !bytes.Equal(v.buf, []byte("abcdef")) {
		t.Fatalf("buf = %q, want %q", v.buf, "abcdef")
	}
}

func TestWriteOverwritesInPlace(t *testing.T) {
	v := NewByteVector(kurl.New("memory:"), []byte("abcdef"))
	v.Seek(SeekRequest{Whence: Start, Delta: 2})

	v.Write([]byte("XY"))
	if !bytes.Equal(v.buf, []byte("abXYef")) {
		t.Fatalf("buf = %q, want %q", v.buf, "abXYef")
	}
}

func TestSeekStartClampsToLength(t *testing.T) {
	v := NewByteVector(kurl.New("memory:"), make([]byte, 10))

	pos, ok := v.Seek(SeekRequest{Whence: Start, Delta: 50})
	if !ok || pos != 10 {
		t.Fatalf("Seek(Start, 50) = (%d, %v), want (10, true)", pos, ok)
	}

	pos, ok = v.Seek(SeekRequest{Whence: Start, Delta: -5})
	if !ok || pos != 0 {
		t.Fatalf("Seek(Start, -5) = (%d, %v), want (0, true)", pos, ok)
	}
}

// TestSeekCurrentPreservedBug pins the original kernel's known bug: seeking
// Current clamps its upper bound against the *current* position rather than
// the buffer length, so a positive delta can never move the cursor forward
// past where it already was. This is preserved intentionally, not a defect
// in this port.
func TestSeekCurrentPreservedBug(t *testing.T) {
	v := NewByteVector(kurl.New("memory:"), make([]byte, 10))
	v.Seek(SeekRequest{Whence: Start, Delta: 3})

	// A positive delta should move forward to 6, but the preserved bug
	// clamps the result to the pre-seek position (3) instead.
	pos, ok := v.Seek(SeekRequest{Whence: Current, Delta: 3})
	if !ok || pos != 3 {
		t.Fatalf("Seek(Current, 3) = (%d, %v), want (3, true) [preserved bug]", pos, ok)
	}

	// A negative delta still moves backward correctly, since the bug only
	// affects the upper bound.
	v.Seek(SeekRequest{Whence: Start, Delta: 5})
	pos, ok = v.Seek(SeekRequest{Whence: Current, Delta: -2})
	if !ok || pos != 3 {
		t.Fatalf("Seek(Current, -2) = (%d, %v), want (3, true)", pos, ok)
	}
}

func TestSeekEndCorrected(t *testing.T) {
	// len=10, pos=3, seek(End(-3)) should land at 7: clamp(len+d, 0, len).
	v := NewByteVector(kurl.New("memory:"), make([]byte, 10))
	v.Seek(SeekRequest{Whence: Start, Delta: 3})

	pos, ok := v.Seek(SeekRequest{Whence: End, Delta: -3})
	if !ok || pos != 7 {
		t.Fatalf("Seek(End, -3) = (%d, %v), want (7, true)", pos, ok)
	}
}

func TestSeekEndClamps(t *testing.T) {
	v := NewByteVector(kurl.New("memory:"), make([]byte, 10))

	pos, ok := v.Seek(SeekRequest{Whence: End, Delta: 100})
	if !ok || pos != 10 {
		t.Fatalf("Seek(End, 100) = (%d, %v), want (10, true)", pos, ok)
	}

	pos, ok = v.Seek(SeekRequest{Whence: End, Delta: -100})
	if !ok || pos != 0 {
		t.Fatalf("Seek(End, -100) = (%d, %v), want (0, true)", pos, ok)
	}
}

func TestDup(t *testing.T) {
	v := NewByteVector(kurl.New("memory:"), []byte("hello"))
	v.Seek(SeekRequest{Whence: Start, Delta: 2})

	dupRes, err := v.Dup()
	if err != nil {
		t.Fatalf("Dup() error = %v", err)
	}
	dup := dupRes.(*ByteVector)

	if dup.pos != v.pos || !bytes.Equal(dup.buf, v.buf) {
		t.Fatalf("Dup() = %+v, want matching %+v", dup, v)
	}

	// Mutating the dup must not affect the original.
	dup.Write([]byte("ZZ"))
	if bytes.Equal(dup.buf, v.buf) {
		t.Fatal("Dup() did not produce an independent buffer")
	}
}

func TestSync(t *testing.T) {
	v := NewByteVector(kurl.New("memory:"), nil)
	if !v.Sync() {
		t.Fatal("Sync() = false, want true")
	}
}

func TestURL(t *testing.T) {
	u := kurl.New("memory:4096")
	v := NewByteVector(u, nil)
	if v.URL() != u {
		t.Fatalf("URL() = %v, want %v", v.URL(), u)
	}
}
