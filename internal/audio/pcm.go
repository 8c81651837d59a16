// Package audio implements the voice pipeline: PCM decoding for speech
// playback, WAV framing for transcription uploads, microphone capture and
// speaker playback. The speech synthesis contract is raw signed 16-bit
// little-endian PCM, mono, 24000 Hz.
package audio

import (
	"encoding/base64"
	"fmt"
)

const (
	// PlaybackSampleRate is the rate of synthesized speech.
	PlaybackSampleRate = 24000
	// CaptureSampleRate is the rate microphone capture runs at.
	CaptureSampleRate = 16000
)

// DecodePCM16 converts little-endian signed 16-bit samples into normalized
// float32 samples in [-1, 1). A trailing odd byte is ignored.
func DecodePCM16(data []byte) []float32 {
	samples := make([]float32, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		v := int16(uint16(data[i]) | uint16(data[i+1])<<8)
		samples = append(samples, float32(v)/32768)
	}
	return samples
}

// DecodePCM16Base64 decodes the base64 form the API uses on the wire.
func DecodePCM16Base64(encoded string) ([]float32, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding audio payload: %w", err)
	}
	return DecodePCM16(data), nil
}
