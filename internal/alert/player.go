package alert

// Player abstracts alarm audio playback so the coordinator can be tested
// without an audio device present. Start and stop are fire-and-forget
// commands; playback itself runs asynchronously inside the implementation.
type Player interface {
	// PlayLooping starts looping the alarm segment. Calling it while the
	// alarm is already looping is a no-op.
	PlayLooping() error

	// Stop halts playback. It is safe to call when nothing is playing.
	Stop()

	// IsPlaying reports whether the alarm is currently looping.
	IsPlaying() bool

	// Close releases the underlying audio resources.
	Close() error
}

// NopPlayer is a Player that produces no audio. It is used when sound is
// disabled and in tests; it still tracks the playing flag so the coordinator
// invariants hold.
type NopPlayer struct {
	playing bool
}

// NewNopPlayer creates a silent player.
func NewNopPlayer() *NopPlayer {
	return &NopPlayer{}
}

// PlayLooping marks the player as playing.
func (p *NopPlayer) PlayLooping() error {
	p.playing = true
	return nil
}

// Stop marks the player as stopped.
func (p *NopPlayer) Stop() {
	p.playing = false
}

// IsPlaying reports the tracked playing flag.
func (p *NopPlayer) IsPlaying() bool {
	return p.playing
}

// Close is a no-op.
func (p *NopPlayer) Close() error {
	return nil
}
