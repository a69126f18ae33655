// Package touch converts per-frame face and hand geometry into a touching
// verdict and the timed alert lifecycle built on top of it.
package touch

import (
	"math"

	"github.com/ayusman/facetouch/internal/detector"
)

// DefaultMargin is the default face-box expansion margin in normalized
// coordinates.
const DefaultMargin = 0.08

// keyPoints are the hand landmarks evaluated for proximity: the wrist plus
// the five fingertips. Palm landmarks are deliberately not evaluated so the
// detection sensitivity matches the documented behavior.
var keyPoints = [...]int{
	detector.Wrist,
	detector.ThumbTip,
	detector.IndexTip,
	detector.MiddleTip,
	detector.RingTip,
	detector.PinkyTip,
}

// IsNear reports whether any of the hand's key landmarks lies within the
// face bounding box expanded by margin on all four sides. Bounds are
// inclusive. A nil hand yields false.
func IsNear(face detector.FaceRegion, hand *detector.HandLandmarks, margin float64) bool {
	if hand == nil {
		return false
	}

	x := face.X - margin
	y := face.Y - margin
	w := face.Width + 2*margin
	h := face.Height + 2*margin

	for _, idx := range keyPoints {
		p := hand.Points[idx]
		if p.X >= x && p.X <= x+w && p.Y >= y && p.Y <= y+h {
			return true
		}
	}

	return false
}

// TouchingNow reports whether any detected hand is near any detected face in
// the current frame. Zero faces or zero hands always yields false, regardless
// of history.
func TouchingNow(faces []detector.FaceRegion, hands []detector.HandLandmarks, margin float64) bool {
	for _, face := range faces {
		for i := range hands {
			if IsNear(face, &hands[i], margin) {
				return true
			}
		}
	}
	return false
}

// Distance calculates the Euclidean distance between two landmarks in the
// frame plane. It is a utility only; proximity decisions use the expanded
// bounding-box test above.
func Distance(a, b detector.Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
