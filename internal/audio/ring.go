// ABOUTME: Bounded single-producer single-consumer byte ring buffer
// ABOUTME: Non-blocking zero-filling reads, bounded-wait writes
package audio

import (
	"math"
	"sync"
	"time"
)

// WaitForever makes Write block until every byte fits. Used for the
// stream prefill, where building the cushion matters more than latency.
const WaitForever = time.Duration(math.MaxInt64)

// writePollInterval is how long Write sleeps between attempts while the
// buffer is full.
const writePollInterval = time.Millisecond

// Ring is a fixed-capacity byte buffer shared between exactly one
// producer (the pipeline worker) and one consumer (the audio sink
// callback). Reads never block: when fewer bytes are buffered than
// requested the remainder is filled with silence, because the hardware
// side cannot wait. Writes block while the buffer is full, up to a
// caller-chosen budget.
type Ring struct {
	mu   sync.Mutex
	buf  []byte
	r, w int // cursors into buf
	size int // bytes currently buffered
}

// NewRing creates a ring holding up to capacity bytes.
func NewRing(capacity int) *Ring {
	return &Ring{buf: make([]byte, capacity)}
}

// Cap returns the ring's fixed capacity.
func (rb *Ring) Cap() int {
	return len(rb.buf)
}

// Buffered returns the number of bytes currently stored.
func (rb *Ring) Buffered() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.size
}

// Write copies p into the ring, blocking while the buffer is full for up
// to wait in total. It returns the number of bytes written, which is
// less than len(p) only when the wait budget ran out.
func (rb *Ring) Write(p []byte, wait time.Duration) int {
	written := 0
	var waited time.Duration

	for written < len(p) {
		n := rb.writeSome(p[written:])
		written += n

		if written == len(p) {
			break
		}
		if n == 0 {
			if waited >= wait {
				break
			}
			time.Sleep(writePollInterval)
			if wait != WaitForever {
				waited += writePollInterval
			}
		}
	}

	return written
}

// writeSome copies as much of p as currently fits.
func (rb *Ring) writeSome(p []byte) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	free := len(rb.buf) - rb.size
	if free == 0 {
		return 0
	}
	n := len(p)
	if n > free {
		n = free
	}

	first := copy(rb.buf[rb.w:], p[:n])
	if first < n {
		copy(rb.buf, p[first:n])
	}
	rb.w = (rb.w + n) % len(rb.buf)
	rb.size += n

	return n
}

// Read fills all of p without blocking: buffered bytes first, silence
// (zero bytes) for the rest. It returns the number of real audio bytes
// copied; p is always fully populated regardless.
func (rb *Ring) Read(p []byte) int {
	rb.mu.Lock()

	n := rb.size
	if n > len(p) {
		n = len(p)
	}

	first := copy(p[:n], rb.buf[rb.r:])
	if first < n {
		copy(p[first:n], rb.buf)
	}
	rb.r = (rb.r + n) % len(rb.buf)
	rb.size -= n

	rb.mu.Unlock()

	for i := n; i < len(p); i++ {
		p[i] = 0
	}

	return n
}

// Flush discards everything buffered. The hard cut when a new cue
// preempts the previous one.
func (rb *Ring) Flush() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.r = 0
	rb.w = 0
	rb.size = 0
}
