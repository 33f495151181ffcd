// ABOUTME: Fallback cue synthesis when no audio files are configured
// ABOUTME: Renders a short sine beep per team in the output PCM format
package assets

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/sandigames/dominacao/internal/audio"
)

// Default fallback tones. Distinct pitches so the teams are audibly
// different even without proper cue files.
const (
	RedToneHz  = 660.0
	BlueToneHz = 440.0 // A4 note

	toneDuration = 500 * time.Millisecond
	toneVolume   = 0.5
)

// ToneCue renders a sine beep at freq as 44.1kHz stereo s16le PCM.
func ToneCue(freq float64) []byte {
	numSamples := int(float64(audio.SampleRate) * toneDuration.Seconds())
	out := make([]byte, numSamples*audio.Channels*2)

	for i := 0; i < numSamples; i++ {
		t := float64(i) / float64(audio.SampleRate)
		sample := math.Sin(2 * math.Pi * freq * t)

		// Fade out over the final 10% to avoid a click at the end.
		remain := float64(numSamples-i) / float64(numSamples)
		if remain < 0.1 {
			sample *= remain / 0.1
		}

		pcmValue := int16(sample * 32767.0 * toneVolume)

		// Stereo (duplicate to both channels)
		off := i * audio.Channels * 2
		binary.LittleEndian.PutUint16(out[off:], uint16(pcmValue))
		binary.LittleEndian.PutUint16(out[off+2:], uint16(pcmValue))
	}

	return out
}
