package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/physics"
)

// NeverStopped is the StoppingTime of a run that reached its duration
// without detecting rest.
const NeverStopped = -1.0

var ErrFrameOutOfRange = errors.New("sim: frame index out of range")

// TimeSeries is the full trajectory of one run. All per-step slices share
// the same length and index i always means the state at Times[i]. It must
// not be modified after Simulate returns.
type TimeSeries struct {
	Params       Parameters
	Times        []float64
	Angles       []float64
	Velocities   []float64
	Positions    []dynamo.Vec2
	Energies     []float64
	StoppingTime float64
	Stopped      bool
	Cycles       int
	Metrics      map[string]float64
}

// Frame is a single recorded sample.
type Frame struct {
	Index    int
	Time     float64
	Angle    float64
	Velocity float64
	Position dynamo.Vec2
	Energy   float64
}

func (ts *TimeSeries) Len() int {
	return len(ts.Times)
}

func (ts *TimeSeries) Frame(i int) (Frame, error) {
	if i < 0 || i >= ts.Len() {
		return Frame{}, fmt.Errorf("%w: %d not in [0, %d)", ErrFrameOutOfRange, i, ts.Len())
	}
	return Frame{
		Index:    i,
		Time:     ts.Times[i],
		Angle:    ts.Angles[i],
		Velocity: ts.Velocities[i],
		Position: ts.Positions[i],
		Energy:   ts.Energies[i],
	}, nil
}

// Forces derives the display force vectors at frame i from the recorded
// state and the run parameters.
func (ts *TimeSeries) Forces(i int) (physics.Forces, error) {
	f, err := ts.Frame(i)
	if err != nil {
		return physics.Forces{}, err
	}
	return ts.Params.Swing().Forces(f.Angle, f.Velocity), nil
}

// MaxSpeedWindow returns the largest |velocity| among samples whose time lies
// in [Times[i]-window, Times[i]]. Out-of-range indices yield 0.
func (ts *TimeSeries) MaxSpeedWindow(i int, window float64) float64 {
	if i < 0 || i >= ts.Len() {
		return 0
	}
	start := ts.Times[i] - window
	best := 0.0
	for j := i; j >= 0 && ts.Times[j] >= start; j-- {
		best = math.Max(best, math.Abs(ts.Velocities[j]))
	}
	return best
}

// EndTime is the time of the last recorded sample.
func (ts *TimeSeries) EndTime() float64 {
	if ts.Len() == 0 {
		return 0
	}
	return ts.Times[ts.Len()-1]
}
