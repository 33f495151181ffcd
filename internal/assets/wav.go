// ABOUTME: Minimal RIFF/WAVE reader for PCM cue files
// ABOUTME: Accepts 16-bit PCM, upmixes mono to the stereo output format
package assets

import (
	"encoding/binary"
	"fmt"

	"github.com/sandigames/dominacao/internal/audio"
)

const wavPCMFormat = 1

// decodeWAV extracts the PCM payload of a 16-bit WAVE file. Mono files
// are upmixed by duplicating each sample; the sample rate must already
// match the output format since no resampling happens at runtime.
func decodeWAV(data []byte) ([]byte, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE file")
	}

	var (
		channels   int
		sampleRate int
		bitDepth   int
		haveFmt    bool
		pcm        []byte
	)

	// Walk the chunk list for "fmt " and "data".
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			return nil, fmt.Errorf("truncated %q chunk", id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("short fmt chunk: %d bytes", size)
			}
			format := int(binary.LittleEndian.Uint16(data[body:]))
			if format != wavPCMFormat {
				return nil, fmt.Errorf("unsupported WAVE format %d (need PCM)", format)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4:]))
			bitDepth = int(binary.LittleEndian.Uint16(data[body+14:]))
			haveFmt = true
		case "data":
			pcm = data[body : body+size]
		}

		// Chunks are word aligned.
		off = body + size + size%2
	}

	if !haveFmt {
		return nil, fmt.Errorf("missing fmt chunk")
	}
	if pcm == nil {
		return nil, fmt.Errorf("missing data chunk")
	}
	if bitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth %d (need 16)", bitDepth)
	}
	if sampleRate != audio.SampleRate {
		return nil, fmt.Errorf("sample rate %dHz, need %dHz (resample the asset)",
			sampleRate, audio.SampleRate)
	}

	switch channels {
	case audio.Channels:
		return pcm, nil
	case 1:
		return upmixMono(pcm), nil
	}
	return nil, fmt.Errorf("unsupported channel count %d", channels)
}

// upmixMono duplicates each 16-bit sample into both output channels.
func upmixMono(pcm []byte) []byte {
	out := make([]byte, 0, len(pcm)*2)
	for i := 0; i+1 < len(pcm); i += 2 {
		out = append(out, pcm[i], pcm[i+1], pcm[i], pcm[i+1])
	}
	return out
}
