package optim

import (
	"context"
	"fmt"

	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/sim"
)

// Grid lists the drag coefficients and wind multipliers to try. Every pair is
// one run.
type Grid struct {
	DragCoeffs []float64
	WindForces []float64
}

func (g Grid) Size() int {
	return len(g.DragCoeffs) * len(g.WindForces)
}

type SweepPoint struct {
	DragCoeff    float64
	WindForce    float64
	StoppingTime float64
	Stopped      bool
	Cycles       int
	Samples      int
	FinalEnergy  float64
	Err          error
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// OptionsFunc builds the simulation options for one run. It is called once
// per grid point so stateful integrators and metrics are never shared between
// workers.
type OptionsFunc func() ([]sim.Option, error)

// Sweep runs base once per grid pair in parallel. Points are ordered drag
// major, wind minor. newOpts may be nil for the engine defaults.
//
// A failed run is reported in its point's Err and does not stop the sweep.
// ctx is checked before each run; on cancellation the points finished so far
// are returned together with ctx.Err().
func Sweep(ctx context.Context, base sim.Parameters, grid Grid, newOpts OptionsFunc) ([]SweepPoint, error) {
	n := grid.Size()
	if n == 0 {
		return nil, fmt.Errorf("empty grid")
	}

	points := make([]SweepPoint, n)
	done := make([]bool, n)

	dynamo.ParallelFor(n, 1, func(start, end int) {
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				return
			}

			p := base
			p.DragCoeff = grid.DragCoeffs[i/len(grid.WindForces)]
			p.WindForce = grid.WindForces[i%len(grid.WindForces)]

			pt := SweepPoint{DragCoeff: p.DragCoeff, WindForce: p.WindForce, StoppingTime: sim.NeverStopped}
			ts, err := run(p, newOpts)
			if err != nil {
				pt.Err = err
			} else {
				pt.StoppingTime = ts.StoppingTime
				pt.Stopped = ts.Stopped
				pt.Cycles = ts.Cycles
				pt.Samples = ts.Len()
				pt.FinalEnergy = ts.Energies[ts.Len()-1]
			}

			points[i] = pt
			done[i] = true
		}
	})

	if err := ctx.Err(); err != nil {
		finished := make([]SweepPoint, 0, n)
		for i, ok := range done {
			if ok {
				finished = append(finished, points[i])
			}
		}
		return finished, err
	}
	return points, nil
}

func run(p sim.Parameters, newOpts OptionsFunc) (*sim.TimeSeries, error) {
	if newOpts == nil {
		return sim.Simulate(p)
	}
	opts, err := newOpts()
	if err != nil {
		return nil, err
	}
	return sim.Simulate(p, opts...)
}

// Earliest returns the point that came to rest first. ok is false when no
// run stopped.
func Earliest(points []SweepPoint) (best SweepPoint, ok bool) {
	for _, p := range points {
		if p.Err != nil || !p.Stopped {
			continue
		}
		if !ok || p.StoppingTime < best.StoppingTime {
			best = p
			ok = true
		}
	}
	return best, ok
}
