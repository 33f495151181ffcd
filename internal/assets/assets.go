// ABOUTME: Team cue asset loading from WAV and MP3 files
// ABOUTME: Renders everything to raw PCM once at startup
package assets

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	mp3 "github.com/hajimehoshi/go-mp3"
	"github.com/sandigames/dominacao/internal/audio"
)

// LoadCue reads an audio file and renders it to the pipeline's PCM
// format (44.1kHz stereo s16le). This is the only place any decoding
// happens; downstream the bytes are opaque.
func LoadCue(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cue %s: %w", path, err)
	}

	var pcm []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		pcm, err = decodeWAV(data)
	case ".mp3":
		pcm, err = decodeMP3(data)
	default:
		err = fmt.Errorf("unsupported cue format: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode cue %s: %w", path, err)
	}

	log.Printf("Loaded cue %s: %d PCM bytes", path, len(pcm))
	return pcm, nil
}

// decodeMP3 renders an MP3 stream. go-mp3 always outputs 16-bit stereo
// at the source sample rate, so only the rate needs checking.
func decodeMP3(data []byte) ([]byte, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("mp3 decoder: %w", err)
	}

	if dec.SampleRate() != audio.SampleRate {
		return nil, fmt.Errorf("mp3 sample rate %dHz, need %dHz (resample the asset)",
			dec.SampleRate(), audio.SampleRate)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode: %w", err)
	}
	return pcm, nil
}
