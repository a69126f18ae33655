// Package alert turns touch transitions into the two alert side effects:
// the visual overlay flag and the looping alarm audio.
package alert

import "math"

// Alarm waveform parameters. The segment is looped by the player rather
// than regenerated per loop.
const (
	// SampleRate is the alarm playback sample rate in Hz.
	SampleRate = 22050
	// segmentSeconds is the length of one alarm segment.
	segmentSeconds = 0.3
	// freqHigh and freqLow are the two alternating tones.
	freqHigh = 1200.0
	freqLow  = 800.0
	// envelopeHz is the amplitude modulation rate.
	envelopeHz = 8.0
)

// Tone synthesizes one segment of the alarm: two alternating high-pitched
// tones with a rectified-sine amplitude envelope, normalized to full scale.
func Tone(sampleRate int) []float32 {
	n := int(float64(sampleRate) * segmentSeconds)
	wave := make([]float64, n)

	half := n / 2
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)

		freq := freqHigh
		if i >= half {
			freq = freqLow
		}

		envelope := math.Abs(math.Sin(2 * math.Pi * envelopeHz * t))
		wave[i] = math.Sin(2*math.Pi*freq*t) * envelope
	}

	// Normalize to full scale
	var peak float64
	for _, s := range wave {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}

	out := make([]float32, n)
	if peak == 0 {
		return out
	}
	for i, s := range wave {
		out[i] = float32(s / peak)
	}

	return out
}
