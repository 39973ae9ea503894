package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/physics"
)

const (
	DefaultLength       = 2.0
	DefaultMass         = 30.0
	DefaultDragCoeff    = 0.1
	DefaultAngleDegrees = 45.0
	DefaultWindForce    = 1.0
	DefaultDt           = 0.01
	DefaultDuration     = 600.0
)

// Parameters is the complete input of one simulation run. InitialAngle is in
// radians.
type Parameters struct {
	Length          float64 `json:"length" yaml:"length"`
	Mass            float64 `json:"mass" yaml:"mass"`
	DragCoeff       float64 `json:"drag_coeff" yaml:"drag_coeff"`
	InitialAngle    float64 `json:"initial_angle" yaml:"initial_angle"`
	InitialVelocity float64 `json:"initial_velocity" yaml:"initial_velocity"`
	WindForce       float64 `json:"wind_force" yaml:"wind_force"`
	Dt              float64 `json:"dt" yaml:"dt"`
	Duration        float64 `json:"duration" yaml:"duration"`
}

func DefaultParameters() Parameters {
	return Parameters{
		Length:          DefaultLength,
		Mass:            DefaultMass,
		DragCoeff:       DefaultDragCoeff,
		InitialAngle:    DefaultAngleDegrees * math.Pi / 180,
		InitialVelocity: 0,
		WindForce:       DefaultWindForce,
		Dt:              DefaultDt,
		Duration:        DefaultDuration,
	}
}

// Validate rejects parameter sets the integrator cannot handle. Every error
// wraps dynamo.ErrInvalidParameter.
func (p Parameters) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"length", p.Length},
		{"mass", p.Mass},
		{"dt", p.Dt},
		{"duration", p.Duration},
	}
	for _, f := range positive {
		if !finite(f.value) || f.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidParameter, f.name, f.value)
		}
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"drag_coeff", p.DragCoeff},
		{"wind_force", p.WindForce},
	}
	for _, f := range nonNegative {
		if !finite(f.value) || f.value < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidParameter, f.name, f.value)
		}
	}

	if !finite(p.InitialAngle) {
		return fmt.Errorf("%w: initial_angle must be finite, got %v", ErrInvalidParameter, p.InitialAngle)
	}
	if !finite(p.InitialVelocity) {
		return fmt.Errorf("%w: initial_velocity must be finite, got %v", ErrInvalidParameter, p.InitialVelocity)
	}
	return nil
}

// Swing builds the physics model for these parameters.
func (p Parameters) Swing() *physics.Swing {
	return physics.NewSwing(p.Length, p.Mass, p.DragCoeff, p.WindForce)
}

func (p Parameters) InitialState() dynamo.State {
	return dynamo.State{p.InitialAngle, p.InitialVelocity}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
