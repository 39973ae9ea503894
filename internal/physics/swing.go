package physics

import (
	"math"

	"github.com/san-kum/swingsim/internal/dynamo"
)

// StandardGravity is the gravitational acceleration used by the swing model.
const StandardGravity = 9.81

// Swing is a single rigid-arm pendulum with a seat mass at its end, slowed by
// an aerodynamic drag torque proportional to the fourth power of the angular
// velocity and scaled by a wind multiplier.
//
// State layout: x[0] = angle from vertical (rad), x[1] = angular velocity (rad/s).
type Swing struct {
	Length    float64
	Mass      float64
	DragCoeff float64
	WindForce float64
	Gravity   float64
}

func NewSwing(length, mass, dragCoeff, windForce float64) *Swing {
	return &Swing{
		Length:    length,
		Mass:      mass,
		DragCoeff: dragCoeff,
		WindForce: windForce,
		Gravity:   StandardGravity,
	}
}

func (s *Swing) StateDim() int { return 2 }

func (s *Swing) Derive(x dynamo.State, t float64) dynamo.State {
	if len(x) < 2 {
		return make(dynamo.State, 2)
	}
	return dynamo.State{x[1], s.Acceleration(x[0], x[1])}
}

// Acceleration returns the angular acceleration at the given angle and
// angular velocity. Length and Mass must be positive.
func (s *Swing) Acceleration(angle, velocity float64) float64 {
	gravity := (-s.Gravity / s.Length) * math.Sin(angle)

	speed := math.Abs(velocity)
	dragTorque := -s.WindForce * s.DragCoeff * velocity * (speed * speed * speed)
	dragAccel := dragTorque / (s.Mass * s.Length * s.Length)

	return gravity + dragAccel
}

// Energy is the mechanical energy with the potential measured from the
// lowest point of the arc.
func (s *Swing) Energy(x dynamo.State) float64 {
	if len(x) < 2 {
		return 0
	}
	angle, velocity := x[0], x[1]
	pe := s.Mass * s.Gravity * (s.Length - s.Length*math.Cos(angle))
	v := s.Length * velocity
	ke := 0.5 * s.Mass * (v * v)
	return pe + ke
}

// Position returns the seat location relative to the pivot.
func (s *Swing) Position(angle float64) dynamo.Vec2 {
	return dynamo.Vec2{
		X: s.Length * math.Sin(angle),
		Y: -s.Length * math.Cos(angle),
	}
}
