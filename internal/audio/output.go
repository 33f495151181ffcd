// ABOUTME: Real-time audio sink built on the oto library
// ABOUTME: Pulls PCM from the ring on hardware demand, silence on empty
package audio

import (
	"fmt"
	"log"

	"github.com/ebitengine/oto/v3"
)

const (
	// Cue asset format. The pipeline passes bytes through unmodified, so
	// everything upstream must already be rendered like this.
	SampleRate = 44100
	Channels   = 2
)

// Output owns the oto playback context and feeds it from the ring. The
// hardware side pulls via Read on its own schedule; Read never blocks
// and degrades to silence, because device timing is not negotiable.
type Output struct {
	ring   *Ring
	otoCtx *oto.Context
	player *oto.Player
	ready  bool
}

// NewOutput creates an output draining ring. Call Start to open the
// device and begin playback.
func NewOutput(ring *Ring) *Output {
	return &Output{ring: ring}
}

// Start opens the audio device and starts the pull loop.
func (o *Output) Start() error {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	o.otoCtx = ctx
	o.player = ctx.NewPlayer(o)
	o.player.Play()
	o.ready = true

	log.Printf("Audio output started: %dHz, %d channels", SampleRate, Channels)
	return nil
}

// Read implements io.Reader for oto's pull callback. The buffer is
// always filled completely, zero bytes standing in for missing audio.
func (o *Output) Read(p []byte) (int, error) {
	o.ring.Read(p)
	return len(p), nil
}

// Close stops playback and releases the device.
func (o *Output) Close() {
	if !o.ready {
		return
	}
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	o.otoCtx.Suspend()
	o.ready = false
}
