package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/swingsim/internal/sim"
)

type Bounds struct {
	Min, Max float64
}

var (
	LengthBounds = Bounds{Min: 0.5, Max: 5.0}
	MassBounds   = Bounds{Min: 10, Max: 100}
	AngleBounds  = Bounds{Min: 0, Max: 90}
	WindBounds   = Bounds{Min: 0, Max: 100}
)

// ClampAndSync clamps value into b and returns it with its "%.2f" display
// text, the form a slider and its text box are kept in sync with.
func ClampAndSync(value float64, b Bounds) (float64, string) {
	v := math.Max(b.Min, math.Min(b.Max, value))
	return v, fmt.Sprintf("%.2f", v)
}

// ParseAndSync parses user text and clamps it. Unparseable text reverts to
// current.
func ParseAndSync(text string, current float64, b Bounds) (float64, string) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) {
		return ClampAndSync(current, b)
	}
	return ClampAndSync(v, b)
}

func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// FormValues is what the parameter form collects.
type FormValues struct {
	Length          float64
	Mass            float64
	DragCoeff       float64
	AngleDegrees    float64
	InitialVelocity float64
	WindForce       float64
	Dt              float64
	Duration        float64
}

func DefaultFormValues() FormValues {
	return DefaultConfig().Form()
}

// Clamped returns a copy with the bounded fields pulled into range.
func (f FormValues) Clamped() FormValues {
	f.Length, _ = ClampAndSync(f.Length, LengthBounds)
	f.Mass, _ = ClampAndSync(f.Mass, MassBounds)
	f.AngleDegrees, _ = ClampAndSync(f.AngleDegrees, AngleBounds)
	f.WindForce, _ = ClampAndSync(f.WindForce, WindBounds)
	return f
}

func (f FormValues) Parameters() sim.Parameters {
	return sim.Parameters{
		Length:          f.Length,
		Mass:            f.Mass,
		DragCoeff:       f.DragCoeff,
		InitialAngle:    DegToRad(f.AngleDegrees),
		InitialVelocity: f.InitialVelocity,
		WindForce:       f.WindForce,
		Dt:              f.Dt,
		Duration:        f.Duration,
	}
}
