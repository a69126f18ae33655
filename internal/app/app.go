// Package app wires the camera, detector, touch tracker and alert
// coordinator into the face-touch detection application.
package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/facetouch/internal/alert"
	"github.com/ayusman/facetouch/internal/capture"
	"github.com/ayusman/facetouch/internal/detector"
	"github.com/ayusman/facetouch/internal/touch"
)

// ErrCaptureUnavailable is returned when the video source cannot be opened.
var ErrCaptureUnavailable = errors.New("video source unavailable")

// Config holds configuration options for the application.
type Config struct {
	CameraID    int
	Threshold   time.Duration
	Margin      float64
	EnableSound bool
	Mirror      bool
	FPS         int
}

// Transition is delivered to registered listeners for every state-changing
// frame (TouchStarted, AlertStarted, TouchEnded).
type Transition struct {
	Event touch.Event
	State touch.State
	Time  time.Time
}

// Status is a point-in-time snapshot of the application for the API.
type Status struct {
	Enabled          bool    `json:"enabled"`
	State            string  `json:"state"`
	Touching         bool    `json:"touching"`
	AlertActive      bool    `json:"alert_active"`
	ElapsedSeconds   float64 `json:"elapsed_seconds"`
	SoundEnabled     bool    `json:"sound_enabled"`
	ThresholdSeconds float64 `json:"threshold_seconds"`
	Margin           float64 `json:"margin"`
}

// App is the main application that runs the detection pipeline and owns the
// touch session.
type App struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	tracker  *touch.Tracker
	coord    *alert.Coordinator
	player   alert.Player

	margin  float64
	mirror  bool
	enabled bool

	mu        sync.RWMutex
	stopCh    chan struct{}
	doneCh    chan struct{}
	runErr    error
	lastFrame []byte
	listeners []func(Transition)

	log *logrus.Entry
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	margin := config.Margin
	if margin <= 0 {
		margin = touch.DefaultMargin
	}

	a := &App{
		config:  config,
		camera:  capture.NewCamera(config.CameraID),
		tracker: touch.NewTracker(config.Threshold),
		margin:  margin,
		mirror:  config.Mirror,
		enabled: true,
		log:     logrus.WithField("component", "app"),
	}

	// Sound falls back to a silent player so a missing audio device never
	// blocks detection.
	var player alert.Player = alert.NewNopPlayer()
	if config.EnableSound {
		if pa, err := alert.NewPortAudioPlayer(); err == nil {
			player = pa
		} else {
			a.log.WithError(err).Warn("audio unavailable, running without alarm sound")
		}
	}
	a.player = player
	a.coord = alert.NewCoordinator(player, config.EnableSound)

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		a.log.Info("using MediaPipe face and hand detection")
	} else {
		a.log.WithError(err).Warn("MediaPipe not available, using mock detector")
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables detection. While disabled the tracker is
// fed a clear signal every frame, so any ongoing touch or alert winds down
// instead of freezing.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the current detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// SetCamera sets the camera implementation to use. Only valid before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Coordinator returns the alert coordinator.
func (a *App) Coordinator() *alert.Coordinator {
	return a.coord
}

// SetThreshold changes the alert threshold, applied from the next frame.
func (a *App) SetThreshold(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tracker.SetThreshold(d)
}

// SetMargin changes the proximity margin, applied from the next frame.
// Values outside (0,1] are ignored.
func (a *App) SetMargin(margin float64) {
	if margin <= 0 || margin > 1 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.margin = margin
}

// Margin returns the current proximity margin.
func (a *App) Margin() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.margin
}

// OnTransition registers a listener invoked for every state-changing frame.
// Listeners must not block; they run on the pipeline goroutine.
func (a *App) OnTransition(fn func(Transition)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// Status returns a snapshot of the current application state.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()

	now := time.Now()
	session := a.tracker.Session()
	return Status{
		Enabled:          a.enabled,
		State:            a.tracker.State().String(),
		Touching:         session.Touching,
		AlertActive:      session.AlertActive,
		ElapsedSeconds:   a.tracker.Elapsed(now).Seconds(),
		SoundEnabled:     a.coord.SoundEnabled(),
		ThresholdSeconds: a.tracker.Threshold().Seconds(),
		Margin:           a.margin,
	}
}

// LatestFrame returns the most recent annotated frame as JPEG bytes, or nil
// when no frame has been processed yet.
func (a *App) LatestFrame() []byte {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastFrame
}

// Err returns the error that terminated the pipeline, or nil.
func (a *App) Err() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.runErr
}

// Done returns a channel closed when the pipeline goroutine exits.
func (a *App) Done() <-chan struct{} {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.doneCh
}

// Start opens the camera and begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}

	if a.config.FPS > 0 {
		a.camera.SetFPS(a.config.FPS)
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	a.log.WithField("fps", a.camera.FPS()).Info("detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases all resources. Whatever
// state the pipeline was in, the alarm is forced silent on the way out.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh := a.stopCh
	doneCh := a.doneCh
	a.stopCh = nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-doneCh
	}

	if err := a.camera.Close(); err != nil {
		a.log.WithError(err).Error("error closing camera")
	}

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			a.log.WithError(err).Error("error closing detector")
		}
	}

	a.coord.Shutdown()
	if err := a.player.Close(); err != nil {
		a.log.WithError(err).Error("error closing audio")
	}

	a.log.Info("detection pipeline stopped")
}

func (a *App) setErr(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.runErr = err
}

func (a *App) setLatestFrame(jpeg []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastFrame = jpeg
}

// notify delivers a transition to all registered listeners.
func (a *App) notify(tr Transition) {
	a.mu.RLock()
	listeners := a.listeners
	a.mu.RUnlock()

	for _, fn := range listeners {
		fn(tr)
	}
}
