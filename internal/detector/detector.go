package detector

import "gocv.io/x/gocv"

// Detection holds everything found in a single video frame.
// Either slice may be empty when nothing was detected.
type Detection struct {
	Faces []FaceRegion    `json:"faces"`
	Hands []HandLandmarks `json:"hands"`
}

// Detector defines the interface for face and hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected face regions and
	// hand landmarks. Returns empty slices if nothing is detected.
	Detect(frame *gocv.Mat) (*Detection, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
	}
}
