// ABOUTME: Generation-versioned audio streaming pipeline
// ABOUTME: Chunks cue payloads into the ring with hard-cut preemption
package audio

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// ChunkSize is the streaming unit. Cancellation is checked at chunk
	// boundaries, so one chunk's transfer time bounds preemption latency.
	ChunkSize = 512

	// PrefillSize is written up front with an unbounded wait to build a
	// cushion against the sink starving before streaming settles.
	PrefillSize = 4096

	// chunkInterval throttles production so the worker does not run far
	// ahead of the sink's real drain rate.
	chunkInterval = 2 * time.Millisecond

	// chunkWriteWait bounds how long a single chunk write may block on a
	// full ring before the remainder of that chunk is dropped.
	chunkWriteWait = 250 * time.Millisecond
)

// Sink is where the pipeline worker streams bytes. *Ring satisfies it;
// tests substitute a recording implementation.
type Sink interface {
	Write(p []byte, wait time.Duration) int
	Flush()
}

type commandKind int

const (
	cmdPlay commandKind = iota
	cmdStop
)

// command is a generation-tagged intent for the worker.
type command struct {
	kind    commandKind
	gen     uint32
	payload []byte
}

// Pipeline turns play/stop requests into chunked byte production into
// the sink. Every request bumps the shared generation counter; a request
// may only keep writing while its own generation is still current, which
// is how a later Play or Stop preempts an in-flight stream. Generation
// assignment order, not wall-clock call order, arbitrates races between
// concurrent callers.
type Pipeline struct {
	sink Sink
	gen  atomic.Uint32
	cmds chan command

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPipeline creates a pipeline streaming into sink. Call Start to
// launch the worker.
func NewPipeline(sink Sink) *Pipeline {
	ctx, cancel := context.WithCancel(context.Background())

	return &Pipeline{
		sink:   sink,
		cmds:   make(chan command, 16),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the worker goroutine.
func (p *Pipeline) Start() {
	p.wg.Add(1)
	go p.run()
}

// Play requests playback of payload, preempting any in-flight stream at
// its next chunk boundary. The payload must not be mutated afterwards.
// Returns immediately; it never waits for streaming to finish.
func (p *Pipeline) Play(payload []byte) {
	gen := p.gen.Add(1)

	select {
	case p.cmds <- command{kind: cmdPlay, gen: gen, payload: payload}:
	case <-p.ctx.Done():
	}
}

// Stop invalidates any in-flight stream and discards buffered audio.
func (p *Pipeline) Stop() {
	gen := p.gen.Add(1)

	select {
	case p.cmds <- command{kind: cmdStop, gen: gen}:
	case <-p.ctx.Done():
	}
}

// Generation returns the current generation counter value.
func (p *Pipeline) Generation() uint32 {
	return p.gen.Load()
}

// Close stops the worker. Pending commands are abandoned.
func (p *Pipeline) Close() {
	p.cancel()
	p.wg.Wait()
}

func (p *Pipeline) run() {
	defer p.wg.Done()

	for {
		select {
		case cmd := <-p.cmds:
			switch cmd.kind {
			case cmdPlay:
				p.stream(cmd)
			case cmdStop:
				p.sink.Flush()
			}
		case <-p.ctx.Done():
			return
		}
	}
}

// stream writes cmd.payload into the sink: hard cut, prefill, then
// fixed-size chunks with a generation check before each write.
func (p *Pipeline) stream(cmd command) {
	if p.gen.Load() != cmd.gen {
		// Superseded while still queued.
		return
	}

	p.sink.Flush()

	data := cmd.payload
	prefill := PrefillSize
	if prefill > len(data) {
		prefill = len(data)
	}
	p.sink.Write(data[:prefill], WaitForever)

	offset := prefill
	for offset < len(data) {
		if p.gen.Load() != cmd.gen {
			return
		}

		end := offset + ChunkSize
		if end > len(data) {
			end = len(data)
		}

		chunk := data[offset:end]
		if n := p.sink.Write(chunk, chunkWriteWait); n < len(chunk) {
			// Sink stayed full past the wait budget. Drop the rest of
			// this chunk and keep going; match correctness never depends
			// on audio delivery.
			log.Printf("Audio worker: dropped %d bytes on full buffer", len(chunk)-n)
		}
		offset = end

		select {
		case <-time.After(chunkInterval):
		case <-p.ctx.Done():
			return
		}
	}
}
