package event

import (
	"testing"

	"nucleus/sched"
)

func TestPushPopFIFOOrder(t *testing.T) {
	in := sched.NewInterrupts()
	q := NewQueue(4)

	tok := in.BeginAtomic()
	q.Push(tok, NewKeyEvent(Key{Scancode: 1, Pressed: true}))
	q.Push(tok, NewKeyEvent(Key{Scancode: 2, Pressed: true}))
	q.Push(tok, NewKeyEvent(Key{Scancode: 3, Pressed: false}))
	in.EndAtomic(tok)

	tok = in.BeginAtomic()
	first, ok := q.Pop(tok)
	in.EndAtomic(tok)
	if !ok || first.Key.Scancode != 1 {
		t.Fatalf("first Pop() = %+v, %v, want scancode 1", first, ok)
	}

	tok = in.BeginAtomic()
	second, ok := q.Pop(tok)
	in.EndAtomic(tok)
	if !ok || second.Key.Scancode != 2 {
		t.Fatalf("second Pop() = %+v, %v, want scancode 2", second, ok)
	}
}

func TestPopEmptyReturnsFalse(t *testing.T) {
	in := sched.NewInterrupts()
	q := NewQueue(4)

	tok := in.BeginAtomic()
	_, ok := q.Pop(tok)
	in.EndAtomic(tok)
	if ok {
		t.Fatal("Pop() on empty queue returned ok=true")
	}
}

func TestOverflowDropsNewest(t *testing.T) {
	in := sched.NewInterrupts()
	q := NewQueue(2)

	tok := in.BeginAtomic()
	if ok := q.Push(tok, NewKeyEvent(Key{Scancode: 1})); !ok {
		t.Fatal("expected first push to succeed")
	}
	if ok := q.Push(tok, NewKeyEvent(Key{Scancode: 2})); !ok {
		t.Fatal("expected second push to succeed")
	}
	if ok := q.Push(tok, NewKeyEvent(Key{Scancode: 3})); ok {
		t.Fatal("expected third push to be dropped (queue full)")
	}
	in.EndAtomic(tok)

	if q.Dropped() != 1 {
		t.Fatalf("Dropped() = %d, want 1", q.Dropped())
	}

	tok = in.BeginAtomic()
	ev, ok := q.Pop(tok)
	in.EndAtomic(tok)
	if !ok || ev.Key.Scancode != 1 {
		t.Fatalf("Pop() after overflow = %+v, want scancode 1 (oldest survives)", ev)
	}
}

func TestLenTracksPushPop(t *testing.T) {
	in := sched.NewInterrupts()
	q := NewQueue(4)

	tok := in.BeginAtomic()
	q.Push(tok, NewOpaqueEvent(Opaque{Code: 1}))
	q.Push(tok, NewOpaqueEvent(Opaque{Code: 2}))
	in.EndAtomic(tok)

	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}

	tok = in.BeginAtomic()
	q.Pop(tok)
	in.EndAtomic(tok)

	if q.Len() != 1 {
		t.Fatalf("Len() after one pop = %d, want 1", q.Len())
	}
}

func TestMouseEventKind(t *testing.T) {
	ev := NewMouseEvent(Mouse{X: 10, Y: 20, LeftButton: true})
	if ev.Kind != KindMouse {
		t.Fatalf("Kind = %v, want KindMouse", ev.Kind)
	}
	if ev.Mouse.X != 10 || ev.Mouse.Y != 20 {
		t.Fatalf("Mouse = %+v, want X=10 Y=20", ev.Mouse)
	}
}
