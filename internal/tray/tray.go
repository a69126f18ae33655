// Package tray provides the system tray interface for the face-touch detector.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onSound  func(enabled bool)
	onQuit   func()
	enabled  bool
	sound    bool
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuSound  *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a new Tray with detection and sound enabled by default.
func New(soundEnabled bool) *Tray {
	return &Tray{
		enabled: true,
		sound:   soundEnabled,
	}
}

// OnToggle sets the callback called when detection is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnSound sets the callback called when the alarm sound is toggled.
func (t *Tray) OnSound(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSound = fn
}

// OnQuit sets the callback called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray loop from outside, e.g. on a signal.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("FaceTouch")
	systray.SetTooltip("Face Touch Detection")

	t.menuToggle = systray.AddMenuItem("● Detection on", "Toggle face-touch detection")
	t.menuSound = systray.AddMenuItem(soundTitle(t.sound), "Toggle the alarm sound")
	systray.AddSeparator()

	t.menuStatus = systray.AddMenuItem("Status: Clear", "Current touch state")
	t.menuStatus.Disable()
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit FaceTouch")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-t.menuSound.ClickedCh:
				t.handleSound()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// handleToggle handles the detection toggle click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Detection on")
	} else {
		t.menuToggle.SetTitle("○ Detection off")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleSound handles the sound toggle click.
func (t *Tray) handleSound() {
	t.mu.Lock()
	t.sound = !t.sound
	sound := t.sound
	t.menuSound.SetTitle(soundTitle(sound))
	callback := t.onSound
	t.mu.Unlock()

	if callback != nil {
		callback(sound)
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetStatus updates the touch status line in the menu.
func (t *Tray) SetStatus(text string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuStatus != nil {
		t.menuStatus.SetTitle("Status: " + text)
	}
}

// IsEnabled returns the current detection toggle state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func soundTitle(enabled bool) string {
	if enabled {
		return "♪ Sound on"
	}
	return "♪ Sound off"
}
