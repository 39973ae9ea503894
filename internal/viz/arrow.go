package viz

import (
	"math"

	"github.com/san-kum/swingsim/internal/dynamo"
)

const (
	// MinArrowLength is the shortest arrow drawn, in canvas sub-pixels.
	MinArrowLength = 10.0
	// DefaultForceScale maps newtons to sub-pixels.
	DefaultForceScale = 0.1
	// ForceScaleStep is the factor applied by the +/- keys.
	ForceScaleStep = 1.2

	arrowSkip = 0.01
)

// ScaleArrow converts a physical force (y up) into a screen offset (y down)
// scaled by scale. Forces shorter than 0.01 N are not drawn. Arrows whose
// scaled length falls in [0.01, minLen) are stretched to minLen so small
// forces stay visible.
func ScaleArrow(force dynamo.Vec2, scale, minLen float64) (dynamo.Vec2, bool) {
	screen := dynamo.Vec2{X: force.X, Y: -force.Y}
	if screen.Norm() < arrowSkip {
		return dynamo.Vec2{}, false
	}

	scaled := screen.Scale(scale)
	if l := scaled.Norm(); l >= arrowSkip && l < minLen {
		scaled = scaled.Scale(minLen / l)
	}
	return scaled, true
}

func roundPoint(v dynamo.Vec2) (int, int) {
	return int(math.Round(v.X)), int(math.Round(v.Y))
}
