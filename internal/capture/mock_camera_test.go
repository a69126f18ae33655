package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestMockCamera_ReadBeforeOpen(t *testing.T) {
	cam := NewMockCamera(nil, false)

	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want %v", err, ErrCameraNotOpen)
	}
}

func TestMockCamera_EmptySequenceFailsRead(t *testing.T) {
	cam := NewMockCamera(nil, false)
	cam.Open()

	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrFrameRead) {
		t.Errorf("ReadFrame() error = %v, want %v", err, ErrFrameRead)
	}
}

func TestMockCamera_Playback(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	f1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer f1.Close()
	f2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer f2.Close()

	cam := NewMockCamera([]*gocv.Mat{&f1, &f2}, false)
	cam.Open()

	for i := 0; i < 2; i++ {
		frame, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d error = %v", i, err)
		}
		frame.Close()
	}

	// Sequence exhausted without looping: the next read fails, which is
	// how tests trigger the pipeline's fail-fast path.
	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrFrameRead) {
		t.Errorf("ReadFrame() after exhaustion = %v, want %v", err, ErrFrameRead)
	}
}

func TestMockCamera_Loop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	f1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer f1.Close()

	cam := NewMockCamera([]*gocv.Mat{&f1}, true)
	cam.Open()

	for i := 0; i < 5; i++ {
		frame, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d error = %v", i, err)
		}
		frame.Close()
	}
}
