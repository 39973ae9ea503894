package sim

import (
	"math"

	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/integrators"
)

const (
	// RestThreshold is the angular speed below which a sample counts as resting.
	RestThreshold = 0.0001
	// MaxConsecutiveRest is the number of resting samples that ends a run.
	MaxConsecutiveRest = 200
	// RestLookback is subtracted from the detection time to report when the
	// swing actually settled.
	RestLookback = 2.0
	// MinCycles is tracked for reference only and never gates stopping.
	MinCycles = 3

	maxPrealloc = 1 << 20
)

// Re-exported so callers can match engine errors without importing dynamo.
var (
	ErrInvalidParameter   = dynamo.ErrInvalidParameter
	ErrNumericInstability = dynamo.ErrNumericInstability
)

// RestMode selects how resting samples are counted.
type RestMode int

const (
	// RestAccumulating counts every resting sample over the whole run and never
	// resets the counter, so brief slow moments at turning points add up.
	RestAccumulating RestMode = iota
	// RestConsecutive resets the counter whenever the swing moves faster than
	// RestThreshold, requiring an unbroken run of resting samples.
	RestConsecutive
)

func (m RestMode) String() string {
	switch m {
	case RestConsecutive:
		return "consecutive"
	default:
		return "accumulating"
	}
}

// ParseRestMode accepts the names produced by RestMode.String.
func ParseRestMode(s string) (RestMode, bool) {
	switch s {
	case "accumulating", "":
		return RestAccumulating, true
	case "consecutive":
		return RestConsecutive, true
	}
	return RestAccumulating, false
}

type options struct {
	restMode   RestMode
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
}

type Option func(*options)

func WithRestMode(m RestMode) Option {
	return func(o *options) { o.restMode = m }
}

// WithIntegrator replaces the default semi-implicit Euler stepper.
func WithIntegrator(integ dynamo.Integrator) Option {
	return func(o *options) {
		if integ != nil {
			o.integrator = integ
		}
	}
}

// WithMetrics registers metrics that observe every recorded sample. Their
// final values land in TimeSeries.Metrics.
func WithMetrics(ms ...dynamo.Metric) Option {
	return func(o *options) { o.metrics = append(o.metrics, ms...) }
}

// Simulate integrates the swing from p with a fixed timestep until either
// p.Duration is reached or rest is detected. It is deterministic and keeps no
// state between calls.
func Simulate(p Parameters, opts ...Option) (*TimeSeries, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	o := options{
		restMode:   RestAccumulating,
		integrator: integrators.NewSemiImplicitEuler(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	capacity := maxPrealloc
	if steps := p.Duration / p.Dt; steps < maxPrealloc {
		capacity = int(steps) + 1
	}

	ts := &TimeSeries{
		Params:       p,
		Times:        make([]float64, 0, capacity),
		Angles:       make([]float64, 0, capacity),
		Velocities:   make([]float64, 0, capacity),
		Positions:    make([]dynamo.Vec2, 0, capacity),
		Energies:     make([]float64, 0, capacity),
		StoppingTime: NeverStopped,
		Metrics:      make(map[string]float64),
	}

	for _, m := range o.metrics {
		m.Reset()
	}

	swing := p.Swing()
	x := p.InitialState()
	t := 0.0
	restFrames := 0

	for step := 0; t < p.Duration; step++ {
		angle, velocity := x[0], x[1]
		energy := swing.Energy(x)
		if math.IsNaN(energy) || math.IsInf(energy, 0) {
			return nil, &dynamo.SimError{Step: step, Time: t, Err: ErrNumericInstability}
		}

		ts.Times = append(ts.Times, t)
		ts.Angles = append(ts.Angles, angle)
		ts.Velocities = append(ts.Velocities, velocity)
		ts.Positions = append(ts.Positions, swing.Position(angle))
		ts.Energies = append(ts.Energies, energy)

		for _, m := range o.metrics {
			m.Observe(x, t)
		}

		if n := len(ts.Angles); n > 1 && angle*ts.Angles[n-2] < 0 {
			ts.Cycles++
		}

		if math.Abs(velocity) < RestThreshold {
			restFrames++
			if restFrames >= MaxConsecutiveRest {
				ts.StoppingTime = t - RestLookback
				ts.Stopped = true
				break
			}
		} else if o.restMode == RestConsecutive {
			restFrames = 0
		}

		x = o.integrator.Step(swing, x, t, p.Dt)
		t += p.Dt

		if len(x) != swing.StateDim() {
			return nil, &dynamo.SimError{Step: step + 1, Time: t, Err: dynamo.ErrDimensionMismatch}
		}
		if !x.IsValid() {
			return nil, &dynamo.SimError{Step: step + 1, Time: t, Err: ErrNumericInstability}
		}
	}

	for _, m := range o.metrics {
		ts.Metrics[m.Name()] = m.Value()
	}

	return ts, nil
}
