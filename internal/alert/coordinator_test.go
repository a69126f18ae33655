package alert

import (
	"testing"
	"time"

	"github.com/ayusman/facetouch/internal/touch"
)

// fakePlayer records playback commands for assertions.
type fakePlayer struct {
	playing    bool
	playCalls  int
	stopCalls  int
	brokenFlag bool // when set, IsPlaying always reports false
}

func (p *fakePlayer) PlayLooping() error {
	p.playCalls++
	p.playing = true
	return nil
}

func (p *fakePlayer) Stop() {
	p.stopCalls++
	p.playing = false
}

func (p *fakePlayer) IsPlaying() bool {
	if p.brokenFlag {
		return false
	}
	return p.playing
}

func (p *fakePlayer) Close() error { return nil }

func TestCoordinator_AlertStartsOverlayAndAudio(t *testing.T) {
	player := &fakePlayer{}
	coord := NewCoordinator(player, true)

	coord.Apply(touch.Event{Kind: touch.AlertStarted, Elapsed: time.Second})

	if !coord.OverlayActive() {
		t.Error("overlay should be active after AlertStarted")
	}
	if player.playCalls != 1 {
		t.Errorf("playCalls = %d, want 1", player.playCalls)
	}
	if !player.playing {
		t.Error("alarm should be looping after AlertStarted")
	}
}

func TestCoordinator_AlertStartIdempotent(t *testing.T) {
	player := &fakePlayer{}
	coord := NewCoordinator(player, true)

	coord.Apply(touch.Event{Kind: touch.AlertStarted, Elapsed: time.Second})
	coord.Apply(touch.Event{Kind: touch.AlertStarted, Elapsed: 2 * time.Second})

	if player.playCalls != 1 {
		t.Errorf("playCalls = %d, want 1 (already looping is a no-op)", player.playCalls)
	}
}

func TestCoordinator_TouchEndedStopsEverything(t *testing.T) {
	player := &fakePlayer{}
	coord := NewCoordinator(player, true)

	coord.Apply(touch.Event{Kind: touch.AlertStarted, Elapsed: time.Second})
	coord.Apply(touch.Event{Kind: touch.TouchEnded, Elapsed: 3 * time.Second})

	if coord.OverlayActive() {
		t.Error("overlay should be off after TouchEnded")
	}
	if player.playing {
		t.Error("alarm should be stopped after TouchEnded")
	}
	if player.stopCalls != 1 {
		t.Errorf("stopCalls = %d, want 1", player.stopCalls)
	}
}

func TestCoordinator_StopIsUnconditional(t *testing.T) {
	// The player's playing flag is broken and always reports false; the
	// stop must be issued regardless.
	player := &fakePlayer{brokenFlag: true}
	coord := NewCoordinator(player, true)

	coord.Apply(touch.Event{Kind: touch.TouchEnded})

	if player.stopCalls != 1 {
		t.Errorf("stopCalls = %d, want 1 (defensive stop)", player.stopCalls)
	}
}

func TestCoordinator_NoSideEffectsOnQuietEvents(t *testing.T) {
	player := &fakePlayer{}
	coord := NewCoordinator(player, true)

	coord.Apply(touch.Event{Kind: touch.TouchStarted})
	coord.Apply(touch.Event{Kind: touch.NoChange})

	if coord.OverlayActive() {
		t.Error("overlay should stay off on TouchStarted/NoChange")
	}
	if player.playCalls != 0 || player.stopCalls != 0 {
		t.Errorf("player touched on quiet events: play=%d stop=%d", player.playCalls, player.stopCalls)
	}
}

func TestCoordinator_SoundDisabled(t *testing.T) {
	player := &fakePlayer{}
	coord := NewCoordinator(player, false)

	coord.Apply(touch.Event{Kind: touch.AlertStarted, Elapsed: time.Second})

	if !coord.OverlayActive() {
		t.Error("visual alert must fire even with sound disabled")
	}
	if player.playCalls != 0 {
		t.Errorf("playCalls = %d, want 0 with sound disabled", player.playCalls)
	}
}

func TestCoordinator_SetSoundEnabled(t *testing.T) {
	player := &fakePlayer{}
	coord := NewCoordinator(player, true)

	coord.Apply(touch.Event{Kind: touch.AlertStarted, Elapsed: time.Second})

	// Muting mid-alert kills the alarm but leaves the overlay up.
	coord.SetSoundEnabled(false)
	if player.playing {
		t.Error("alarm should stop when sound is disabled")
	}
	if !coord.OverlayActive() {
		t.Error("overlay should survive sound toggle")
	}

	// Unmuting mid-alert restarts the alarm so audio mirrors the alert.
	coord.SetSoundEnabled(true)
	if !player.playing {
		t.Error("alarm should resume when sound is re-enabled mid-alert")
	}
}

func TestCoordinator_Shutdown(t *testing.T) {
	player := &fakePlayer{}
	coord := NewCoordinator(player, true)

	coord.Apply(touch.Event{Kind: touch.AlertStarted, Elapsed: time.Second})
	coord.Shutdown()

	if coord.OverlayActive() {
		t.Error("overlay should be off after shutdown")
	}
	if player.playing {
		t.Error("alarm should be stopped after shutdown")
	}
}

func TestCoordinator_AudioMirrorsAlert(t *testing.T) {
	player := &fakePlayer{}
	coord := NewCoordinator(player, true)
	tracker := touch.NewTracker(time.Second)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	signal := []bool{true, true, true, true, true, false, false, true, false}

	for i, touching := range signal {
		now := base.Add(time.Duration(i) * 300 * time.Millisecond)
		ev := tracker.Update(touching, now)
		coord.Apply(ev)

		if player.IsPlaying() != tracker.Session().AlertActive {
			t.Fatalf("frame %d: audio playing (%v) does not mirror alert active (%v)",
				i, player.IsPlaying(), tracker.Session().AlertActive)
		}
	}
}
