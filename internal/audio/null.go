// ABOUTME: Deviceless audio sink draining the ring at the real-time rate
// ABOUTME: Keeps the pipeline flowing on boxes without sound hardware
package audio

import (
	"log"
	"sync"
	"time"
)

const nullDrainInterval = 20 * time.Millisecond

// NullOutput consumes the ring exactly like a sound device would, at
// the PCM byte rate, and throws the bytes away. Used with -no-audio and
// as a fallback when the device cannot be opened, so producers never
// wedge on a full buffer nobody reads.
type NullOutput struct {
	ring *Ring

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewNullOutput creates a drain for ring.
func NewNullOutput(ring *Ring) *NullOutput {
	return &NullOutput{
		ring:     ring,
		stopChan: make(chan struct{}),
	}
}

// Start launches the drain loop.
func (n *NullOutput) Start() {
	log.Printf("Audio output disabled, draining silently")

	// Bytes one interval of playback consumes.
	chunk := SampleRate * Channels * 2 * int(nullDrainInterval) / int(time.Second)
	buf := make([]byte, chunk)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ticker := time.NewTicker(nullDrainInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				n.ring.Read(buf)
			case <-n.stopChan:
				return
			}
		}
	}()
}

// Close stops the drain.
func (n *NullOutput) Close() {
	n.stopOnce.Do(func() {
		close(n.stopChan)
	})
	n.wg.Wait()
}
