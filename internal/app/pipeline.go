package app

import (
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/facetouch/internal/render"
	"github.com/ayusman/facetouch/internal/touch"
)

// runPipeline is the frame-synchronous detection loop. Each tick runs one
// full pass: read frame, detect, aggregate proximity, advance the state
// machine, apply alert side effects, render. The loop is the single owner
// of the touch session and the camera; no frames are processed
// concurrently.
//
// A frame read or detection failure terminates the loop (fail-fast: a
// dropped frame invalidates live timing, and a silently failing detector
// would defeat the tool's purpose). The alarm is forced silent before the
// goroutine exits.
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	interval := time.Second / time.Duration(a.camera.FPS())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if err := a.step(time.Now()); err != nil {
				a.setErr(err)
				a.coord.Shutdown()
				a.log.WithError(err).Error("pipeline terminated")
				return
			}
		}
	}
}

// step processes a single frame at the given timestamp.
func (a *App) step(now time.Time) error {
	// While disabled the tracker still sees a clear signal so an ongoing
	// touch or alert winds down rather than freezing mid-alarm.
	if !a.IsEnabled() {
		a.advance(false, now)
		return nil
	}

	frame, err := a.Camera().ReadFrame()
	if err != nil {
		return fmt.Errorf("read frame: %w", err)
	}
	defer frame.Close()

	if a.mirror {
		// Mirror for a natural self-view
		gocv.Flip(*frame, frame, 1)
	}

	detection, err := a.Detector().Detect(frame)
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}

	touchingNow := touch.TouchingNow(detection.Faces, detection.Hands, a.Margin())
	session, elapsed := a.advance(touchingNow, now)

	overlay := render.Overlay{
		Faces:    detection.Faces,
		Hands:    detection.Hands,
		Touching: session.Touching,
		Alerting: a.coord.OverlayActive(),
		Elapsed:  elapsed,
	}
	render.Compose(frame, overlay)

	a.publishFrame(frame)
	return nil
}

// advance runs one state machine update and applies the resulting side
// effects, then notifies listeners of any state change.
func (a *App) advance(touchingNow bool, now time.Time) (touch.Session, time.Duration) {
	a.mu.Lock()
	ev := a.tracker.Update(touchingNow, now)
	session := a.tracker.Session()
	state := a.tracker.State()
	elapsed := a.tracker.Elapsed(now)
	a.mu.Unlock()

	a.coord.Apply(ev)

	if ev.Kind != touch.NoChange {
		a.log.WithFields(map[string]interface{}{
			"event":   ev.Kind.String(),
			"state":   state.String(),
			"elapsed": ev.Elapsed.Round(time.Millisecond).String(),
		}).Info("touch transition")

		a.notify(Transition{Event: ev, State: state, Time: now})
	}

	return session, elapsed
}

// publishFrame encodes the annotated frame for the MJPEG stream.
func (a *App) publishFrame(frame *gocv.Mat) {
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		a.log.WithError(err).Error("encode frame")
		return
	}
	defer buf.Close()

	// Copy out: the buffer is released when closed.
	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	a.setLatestFrame(jpeg)
}
