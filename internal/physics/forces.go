package physics

import (
	"math"

	"github.com/san-kum/swingsim/internal/dynamo"
)

// AeroCutoff is the angular speed at or below which the air resistance
// overlay is drawn as zero.
const AeroCutoff = 0.001

// Forces holds the display decomposition of the forces acting on the seat.
// None of these feed back into the integrator.
type Forces struct {
	Weight  dynamo.Vec2
	Tension dynamo.Vec2
	Aero    dynamo.Vec2
}

// Forces computes weight, arm tension and air resistance at one state.
func (s *Swing) Forces(angle, velocity float64) Forces {
	sin, cos := math.Sin(angle), math.Cos(angle)

	weight := dynamo.Vec2{X: 0, Y: -s.Mass * s.Gravity}

	centripetal := s.Mass * s.Length * velocity * velocity
	radial := s.Mass * s.Gravity * cos
	tension := centripetal + radial

	var aero dynamo.Vec2
	if math.Abs(velocity) > AeroCutoff {
		tx, ty := cos, sin
		if velocity > 0 {
			tx, ty = -tx, -ty
		}
		v2 := velocity * velocity
		drag := s.WindForce * s.DragCoeff * v2 * v2
		aero = dynamo.Vec2{X: drag * tx, Y: drag * ty}
	}

	return Forces{
		Weight:  weight,
		Tension: dynamo.Vec2{X: -tension * sin, Y: tension * cos},
		Aero:    aero,
	}
}
