// ABOUTME: Tests for the SPSC byte ring buffer
// ABOUTME: Covers zero-fill reads, bounded-wait writes, wraparound, flush
package audio

import (
	"bytes"
	"testing"
	"time"
)

func TestEmptyReadZeroFills(t *testing.T) {
	rb := NewRing(64)

	p := bytes.Repeat([]byte{0xFF}, 16)
	n := rb.Read(p)

	if n != 0 {
		t.Errorf("expected 0 real bytes from empty ring, got %d", n)
	}
	for i, b := range p {
		if b != 0 {
			t.Fatalf("byte %d not zero-filled: %#x", i, b)
		}
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	rb := NewRing(64)

	data := []byte("chunked audio bytes")
	if n := rb.Write(data, 0); n != len(data) {
		t.Fatalf("short write: %d of %d", n, len(data))
	}
	if got := rb.Buffered(); got != len(data) {
		t.Errorf("Buffered() = %d, want %d", got, len(data))
	}

	out := make([]byte, len(data))
	if n := rb.Read(out); n != len(data) {
		t.Fatalf("short read: %d of %d", n, len(data))
	}
	if !bytes.Equal(out, data) {
		t.Errorf("read %q, want %q", out, data)
	}
}

func TestShortReadZeroFillsTail(t *testing.T) {
	rb := NewRing(64)
	rb.Write([]byte{1, 2, 3}, 0)

	p := bytes.Repeat([]byte{0xFF}, 8)
	n := rb.Read(p)

	if n != 3 {
		t.Fatalf("expected 3 real bytes, got %d", n)
	}
	want := []byte{1, 2, 3, 0, 0, 0, 0, 0}
	if !bytes.Equal(p, want) {
		t.Errorf("read %v, want %v", p, want)
	}
}

func TestWraparound(t *testing.T) {
	rb := NewRing(8)

	rb.Write([]byte{1, 2, 3, 4, 5, 6}, 0)
	out := make([]byte, 4)
	rb.Read(out)

	// Cursors now mid-buffer; this write wraps.
	if n := rb.Write([]byte{7, 8, 9, 10, 11, 12}, 0); n != 6 {
		t.Fatalf("wrapping write wrote %d of 6", n)
	}

	got := make([]byte, 8)
	n := rb.Read(got)
	if n != 8 {
		t.Fatalf("expected 8 buffered bytes, got %d", n)
	}
	want := []byte{5, 6, 7, 8, 9, 10, 11, 12}
	if !bytes.Equal(got, want) {
		t.Errorf("read %v, want %v", got, want)
	}
}

func TestBoundedWaitWriteGivesUp(t *testing.T) {
	rb := NewRing(4)

	done := make(chan int)
	go func() {
		done <- rb.Write(bytes.Repeat([]byte{1}, 8), 10*time.Millisecond)
	}()

	select {
	case n := <-done:
		if n != 4 {
			t.Errorf("expected partial write of 4, got %d", n)
		}
	case <-time.After(time.Second):
		t.Fatal("bounded-wait write did not return")
	}
}

func TestBlockedWriteCompletesWhenDrained(t *testing.T) {
	rb := NewRing(4)
	rb.Write([]byte{1, 2, 3, 4}, 0)

	done := make(chan int)
	go func() {
		done <- rb.Write([]byte{5, 6, 7, 8}, WaitForever)
	}()

	// Give the writer a moment to block, then drain.
	time.Sleep(5 * time.Millisecond)
	out := make([]byte, 4)
	rb.Read(out)

	select {
	case n := <-done:
		if n != 4 {
			t.Errorf("expected full write after drain, got %d", n)
		}
	case <-time.After(time.Second):
		t.Fatal("write did not unblock after consumer drained")
	}
}

func TestFlushDiscardsEverything(t *testing.T) {
	rb := NewRing(16)
	rb.Write([]byte{1, 2, 3, 4}, 0)

	rb.Flush()

	if got := rb.Buffered(); got != 0 {
		t.Errorf("Buffered() after Flush = %d, want 0", got)
	}
	p := make([]byte, 4)
	if n := rb.Read(p); n != 0 {
		t.Errorf("read %d real bytes after Flush, want 0", n)
	}
}

func TestConcurrentProducerConsumer(t *testing.T) {
	rb := NewRing(32)

	const total = 4096
	src := make([]byte, total)
	for i := range src {
		src[i] = byte(i)
	}

	go func() {
		for off := 0; off < total; off += 16 {
			rb.Write(src[off:off+16], WaitForever)
		}
	}()

	var got []byte
	deadline := time.Now().Add(5 * time.Second)
	buf := make([]byte, 16)
	for len(got) < total {
		if time.Now().After(deadline) {
			t.Fatalf("timed out after %d of %d bytes", len(got), total)
		}
		n := rb.Read(buf)
		got = append(got, buf[:n]...)
	}

	if !bytes.Equal(got, src) {
		t.Error("consumer observed bytes out of order or corrupted")
	}
}
