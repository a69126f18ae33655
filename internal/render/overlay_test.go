package render

import (
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/facetouch/internal/detector"
)

func TestStatusLabel(t *testing.T) {
	if got := statusLabel(true); got != "TOUCHING" {
		t.Errorf("statusLabel(true) = %q, want TOUCHING", got)
	}
	if got := statusLabel(false); got != "Clear" {
		t.Errorf("statusLabel(false) = %q, want Clear", got)
	}
}

func TestFaceBoxColor(t *testing.T) {
	if faceBoxColor(true) != colorAlert {
		t.Error("touching should use the alert color")
	}
	if faceBoxColor(false) != colorClear {
		t.Error("clear should use the clear color")
	}
}

func TestHandConnections_ValidIndices(t *testing.T) {
	for _, conn := range handConnections {
		for _, idx := range conn {
			if idx < 0 || idx >= detector.NumLandmarks {
				t.Errorf("connection %v references landmark %d out of range", conn, idx)
			}
		}
	}
}

func TestCompose(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	face := detector.CenteredFace()
	hand := detector.HandOnFace(face)

	Compose(&frame, Overlay{
		Faces:    []detector.FaceRegion{face},
		Hands:    []detector.HandLandmarks{hand},
		Touching: true,
		Alerting: true,
		Elapsed:  1500 * time.Millisecond,
	})

	// A black frame with boxes, skeleton, tint and text painted on it must
	// no longer be all zeros.
	gray := frameGray(&frame)
	defer gray.Close()
	if gocv.CountNonZero(gray) == 0 {
		t.Error("compose left the frame untouched")
	}
}

func TestCompose_ClearFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	// No detections at all: only the status line is drawn.
	Compose(&frame, Overlay{})

	gray := frameGray(&frame)
	defer gray.Close()
	if gocv.CountNonZero(gray) == 0 {
		t.Error("status line should always be drawn")
	}
}

// frameGray collapses a frame to one channel for CountNonZero.
func frameGray(frame *gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	return gray
}
