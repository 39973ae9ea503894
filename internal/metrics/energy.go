package metrics

import (
	"math"

	"github.com/san-kum/swingsim/internal/dynamo"
)

// EnergyDrift tracks the largest relative deviation from the first observed
// energy. On a damped swing this is the fraction of energy lost so far; with
// no drag it measures integrator error.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
	dyn           dynamo.Hamiltonian
}

func NewEnergyDrift(dyn dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		dyn:  dyn,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	energy := e.dyn.Energy(x)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// EnergyLoss is the energy removed between the first and the latest sample,
// in joules.
type EnergyLoss struct {
	name    string
	first   float64
	last    float64
	samples int
	dyn     dynamo.Hamiltonian
}

func NewEnergyLoss(dyn dynamo.Hamiltonian) *EnergyLoss {
	return &EnergyLoss{
		name: "energy_loss",
		dyn:  dyn,
	}
}

func (e *EnergyLoss) Name() string { return e.name }

func (e *EnergyLoss) Observe(x dynamo.State, t float64) {
	energy := e.dyn.Energy(x)
	if e.samples == 0 {
		e.first = energy
	}
	e.last = energy
	e.samples++
}

func (e *EnergyLoss) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.first - e.last
}

func (e *EnergyLoss) Reset() {
	e.first = 0
	e.last = 0
	e.samples = 0
}
