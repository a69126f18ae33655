package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	faces []FaceRegion
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFaces sets the face regions that will be returned by Detect.
func (m *MockDetector) SetFaces(faces []FaceRegion) {
	m.faces = faces
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured faces and hands, or the configured error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*Detection, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &Detection{Faces: m.faces, Hands: m.hands}, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// CenteredFace returns a preset face region in the middle of the frame.
func CenteredFace() FaceRegion {
	return FaceRegion{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2, Score: 0.95}
}

// HandAt returns a preset open-hand HandLandmarks with the wrist placed at
// (x, y). The fingers extend upward from the wrist, so the fingertips sit
// roughly 0.25 above it in normalized coordinates.
func HandAt(x, y float64) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: x, Y: y, Z: 0.0}

	// Thumb extended to the side
	landmarks.Points[ThumbCMC] = Point3D{X: x + 0.05, Y: y - 0.05, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: x + 0.12, Y: y - 0.10, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: x + 0.18, Y: y - 0.15, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: x + 0.23, Y: y - 0.20, Z: 0.03}

	// Index finger extended upward
	landmarks.Points[IndexMCP] = Point3D{X: x + 0.05, Y: y - 0.12, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: x + 0.07, Y: y - 0.25, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: x + 0.08, Y: y - 0.35, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: x + 0.08, Y: y - 0.45, Z: 0.0}

	// Middle finger extended upward (slightly longer)
	landmarks.Points[MiddleMCP] = Point3D{X: x, Y: y - 0.14, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: x, Y: y - 0.28, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: x, Y: y - 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: x, Y: y - 0.52, Z: 0.0}

	// Ring finger extended upward
	landmarks.Points[RingMCP] = Point3D{X: x - 0.05, Y: y - 0.12, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: x - 0.07, Y: y - 0.25, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: x - 0.08, Y: y - 0.35, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: x - 0.08, Y: y - 0.45, Z: 0.0}

	// Pinky finger extended upward
	landmarks.Points[PinkyMCP] = Point3D{X: x - 0.10, Y: y - 0.10, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: x - 0.13, Y: y - 0.20, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: x - 0.15, Y: y - 0.30, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: x - 0.16, Y: y - 0.38, Z: 0.0}

	return landmarks
}

// HandOnFace returns a hand whose wrist sits in the middle of the given face
// region, as when a hand rests on the face.
func HandOnFace(face FaceRegion) HandLandmarks {
	return HandAt(face.X+face.Width/2, face.Y+face.Height/2)
}

// HandAwayFromFace returns a hand placed far from the given face region,
// near the opposite corner of the frame.
func HandAwayFromFace(face FaceRegion) HandLandmarks {
	x := 0.1
	if face.X < 0.5 {
		x = 0.9
	}
	return HandAt(x, 0.95)
}
