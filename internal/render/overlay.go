// Package render composes per-frame annotations onto video frames: face
// boxes, hand skeletons, the alert overlay and the status line.
package render

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/facetouch/internal/detector"
)

// Drawing constants.
const (
	boxThickness  = 2
	landmarkSize  = 3
	alertText     = "HANDS ON FACE!"
	alertScale    = 2.0
	alertWeight   = 6
	statusScale   = 1.0
	statusWeight  = 2
	tintAlpha     = 0.3
	outlineExtra  = 4
	statusMarginX = 10
)

var (
	colorClear   = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	colorAlert   = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	colorOutline = color.RGBA{R: 0, G: 0, B: 0, A: 0}
)

// handConnections are the landmark index pairs forming the hand skeleton,
// following the MediaPipe hand connection topology.
var handConnections = [][2]int{
	{detector.Wrist, detector.ThumbCMC}, {detector.ThumbCMC, detector.ThumbMCP},
	{detector.ThumbMCP, detector.ThumbIP}, {detector.ThumbIP, detector.ThumbTip},
	{detector.Wrist, detector.IndexMCP}, {detector.IndexMCP, detector.IndexPIP},
	{detector.IndexPIP, detector.IndexDIP}, {detector.IndexDIP, detector.IndexTip},
	{detector.IndexMCP, detector.MiddleMCP}, {detector.MiddleMCP, detector.MiddlePIP},
	{detector.MiddlePIP, detector.MiddleDIP}, {detector.MiddleDIP, detector.MiddleTip},
	{detector.MiddleMCP, detector.RingMCP}, {detector.RingMCP, detector.RingPIP},
	{detector.RingPIP, detector.RingDIP}, {detector.RingDIP, detector.RingTip},
	{detector.RingMCP, detector.PinkyMCP}, {detector.Wrist, detector.PinkyMCP},
	{detector.PinkyMCP, detector.PinkyPIP}, {detector.PinkyPIP, detector.PinkyDIP},
	{detector.PinkyDIP, detector.PinkyTip},
}

// Overlay describes what to draw on one frame. It is the render-surface
// contract: the pipeline fills it in, Compose paints it.
type Overlay struct {
	Faces    []detector.FaceRegion
	Hands    []detector.HandLandmarks
	Touching bool
	Alerting bool
	Elapsed  time.Duration
}

// Compose draws the overlay onto the frame in place.
func Compose(frame *gocv.Mat, o Overlay) {
	w := frame.Cols()
	h := frame.Rows()

	boxColor := faceBoxColor(o.Touching)
	for _, face := range o.Faces {
		rect := image.Rect(
			int(face.X*float64(w)),
			int(face.Y*float64(h)),
			int((face.X+face.Width)*float64(w)),
			int((face.Y+face.Height)*float64(h)),
		)
		gocv.Rectangle(frame, rect, boxColor, boxThickness)
	}

	for i := range o.Hands {
		drawHand(frame, &o.Hands[i], w, h)
	}

	if o.Alerting {
		drawAlert(frame, o.Elapsed)
	}

	drawStatus(frame, o.Touching)
}

// drawHand paints the hand skeleton: connection lines plus a dot per
// landmark.
func drawHand(frame *gocv.Mat, hand *detector.HandLandmarks, w, h int) {
	toPixel := func(p detector.Point3D) image.Point {
		return image.Pt(int(p.X*float64(w)), int(p.Y*float64(h)))
	}

	for _, conn := range handConnections {
		gocv.Line(frame, toPixel(hand.Points[conn[0]]), toPixel(hand.Points[conn[1]]), colorClear, 1)
	}
	for _, p := range hand.Points {
		gocv.Circle(frame, toPixel(p), landmarkSize, colorAlert, -1)
	}
}

// drawAlert tints the whole frame red and paints the centered warning text
// with the touch duration underneath the status line.
func drawAlert(frame *gocv.Mat, elapsed time.Duration) {
	tint := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(0, 0, 255, 0), frame.Rows(), frame.Cols(), frame.Type())
	gocv.AddWeighted(tint, tintAlpha, *frame, 1-tintAlpha, 0, frame)
	tint.Close()

	size := gocv.GetTextSize(alertText, gocv.FontHersheySimplex, alertScale, alertWeight)
	origin := image.Pt((frame.Cols()-size.X)/2, (frame.Rows()+size.Y)/2)

	// Outline first, then the text on top of it
	gocv.PutText(frame, alertText, origin, gocv.FontHersheySimplex, alertScale, colorOutline, alertWeight+outlineExtra)
	gocv.PutText(frame, alertText, origin, gocv.FontHersheySimplex, alertScale, colorAlert, alertWeight)

	duration := fmt.Sprintf("Duration: %.1fs", elapsed.Seconds())
	gocv.PutText(frame, duration, image.Pt(statusMarginX, 60), gocv.FontHersheySimplex, statusScale, colorAlert, statusWeight)
}

// drawStatus paints the color-coded status line in the top-left corner.
func drawStatus(frame *gocv.Mat, touching bool) {
	gocv.PutText(frame, "Status: "+statusLabel(touching), image.Pt(statusMarginX, 30),
		gocv.FontHersheySimplex, statusScale, faceBoxColor(touching), statusWeight)
}

// statusLabel returns the status line text for the touching flag.
func statusLabel(touching bool) string {
	if touching {
		return "TOUCHING"
	}
	return "Clear"
}

// faceBoxColor returns red while touching, green when clear.
func faceBoxColor(touching bool) color.RGBA {
	if touching {
		return colorAlert
	}
	return colorClear
}
