package alert

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/facetouch/internal/touch"
)

// Coordinator reacts to touch transitions and keeps the two alert side
// effects in lockstep with the tracker's verdict: the visual overlay flag
// and the looping alarm audio. After every Apply call the audio playing
// state mirrors the alert state (when sound is enabled).
type Coordinator struct {
	player      Player
	enableSound bool
	overlay     bool
	mu          sync.Mutex
	log         *logrus.Entry
}

// NewCoordinator creates a Coordinator driving the given player.
func NewCoordinator(player Player, enableSound bool) *Coordinator {
	return &Coordinator{
		player:      player,
		enableSound: enableSound,
		log:         logrus.WithField("component", "alert"),
	}
}

// Apply consumes one transition event. Called once per processed frame.
func (c *Coordinator) Apply(ev touch.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Kind {
	case touch.AlertStarted:
		c.overlay = true
		c.log.WithField("duration", ev.Elapsed.Round(time.Millisecond)).Warn("hands on face")

		if c.enableSound && !c.player.IsPlaying() {
			if err := c.player.PlayLooping(); err != nil {
				c.log.WithError(err).Error("failed to start alarm")
			}
		}

	case touch.TouchEnded:
		c.overlay = false
		c.log.WithField("duration", ev.Elapsed.Round(time.Millisecond)).Info("touch ended")

		// Unconditional stop: the internal playing flag may be stale, and
		// stopping an idle player is safe.
		c.player.Stop()
	}
}

// OverlayActive reports whether the visual alert overlay should be drawn.
func (c *Coordinator) OverlayActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlay
}

// SoundEnabled reports whether the coordinator drives audio.
func (c *Coordinator) SoundEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enableSound
}

// SetSoundEnabled toggles audio. Disabling stops any looping alarm
// immediately; the visual alert is unaffected. Enabling mid-alert starts
// the alarm so audio keeps mirroring the alert state.
func (c *Coordinator) SetSoundEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.enableSound = enabled
	if !enabled {
		c.player.Stop()
		return
	}
	if c.overlay && !c.player.IsPlaying() {
		if err := c.player.PlayLooping(); err != nil {
			c.log.WithError(err).Error("failed to start alarm")
		}
	}
}

// Shutdown forces a touch-ended style stop regardless of current state, so
// no alarm is left looping after the pipeline exits.
func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.overlay = false
	c.player.Stop()
}
