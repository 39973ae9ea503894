package metrics

import (
	"math"

	"github.com/san-kum/swingsim/internal/dynamo"
)

// PeakSpeed is the largest angular speed seen over the run.
type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(x dynamo.State, t float64) {
	if len(x) < 2 {
		return
	}
	p.peak = math.Max(p.peak, math.Abs(x[1]))
}

func (p *PeakSpeed) Value() float64 { return p.peak }

func (p *PeakSpeed) Reset() { p.peak = 0 }

// ZeroCrossings counts strict sign changes of the angle between samples.
// Samples that land exactly on zero do not count.
type ZeroCrossings struct {
	name      string
	prev      float64
	crossings int
	samples   int
}

func NewZeroCrossings() *ZeroCrossings {
	return &ZeroCrossings{name: "zero_crossings"}
}

func (z *ZeroCrossings) Name() string { return z.name }

func (z *ZeroCrossings) Observe(x dynamo.State, t float64) {
	if len(x) < 1 {
		return
	}
	if z.samples > 0 && x[0]*z.prev < 0 {
		z.crossings++
	}
	z.prev = x[0]
	z.samples++
}

func (z *ZeroCrossings) Value() float64 { return float64(z.crossings) }

func (z *ZeroCrossings) Reset() {
	z.prev = 0
	z.crossings = 0
	z.samples = 0
}

// Standard returns the metrics recorded with every saved run.
func Standard(dyn dynamo.Hamiltonian) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergyDrift(dyn),
		NewEnergyLoss(dyn),
		NewPeakSpeed(),
		NewZeroCrossings(),
	}
}
