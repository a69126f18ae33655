package alert

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// framesPerBuffer is the portaudio callback buffer size (~23ms at 22050Hz).
const framesPerBuffer = 512

// PortAudioPlayer loops the synthesized alarm segment through the default
// output device. The segment is generated once at construction; the stream
// callback replays it from a moving cursor.
type PortAudioPlayer struct {
	samples []float32
	stream  *portaudio.Stream
	mu      sync.Mutex
	playing bool
	pos     int
}

// NewPortAudioPlayer initializes portaudio and opens a stereo output stream
// on the default device.
func NewPortAudioPlayer() (*PortAudioPlayer, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}

	p := &PortAudioPlayer{
		samples: Tone(SampleRate),
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, float64(SampleRate), framesPerBuffer, p.fill)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open output stream: %w", err)
	}
	p.stream = stream

	return p, nil
}

// fill is the portaudio output callback. It writes the looping alarm
// segment to both channels, or silence when stopped.
func (p *PortAudioPlayer) fill(out [][]float32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range out[0] {
		if !p.playing {
			out[0][i] = 0
			out[1][i] = 0
			continue
		}

		s := p.samples[p.pos]
		out[0][i] = s
		out[1][i] = s
		p.pos = (p.pos + 1) % len(p.samples)
	}
}

// PlayLooping starts the alarm from the beginning of the segment. A no-op
// when the alarm is already looping.
func (p *PortAudioPlayer) PlayLooping() error {
	p.mu.Lock()
	if p.playing {
		p.mu.Unlock()
		return nil
	}
	p.playing = true
	p.pos = 0
	p.mu.Unlock()

	if err := p.stream.Start(); err != nil {
		p.mu.Lock()
		p.playing = false
		p.mu.Unlock()
		return fmt.Errorf("start alarm stream: %w", err)
	}
	return nil
}

// Stop silences the alarm. Safe to call when nothing is playing; the stream
// abort error is ignored since the stream may never have been started.
func (p *PortAudioPlayer) Stop() {
	p.mu.Lock()
	p.playing = false
	p.mu.Unlock()

	if p.stream != nil {
		p.stream.Abort()
	}
}

// IsPlaying reports whether the alarm is currently looping.
func (p *PortAudioPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Close stops playback and releases the stream and portaudio.
func (p *PortAudioPlayer) Close() error {
	p.Stop()

	var err error
	if p.stream != nil {
		err = p.stream.Close()
		p.stream = nil
	}
	portaudio.Terminate()
	return err
}
