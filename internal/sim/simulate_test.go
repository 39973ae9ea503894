package sim_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/integrators"
	"github.com/san-kum/swingsim/internal/sim"
)

type countingMetric struct {
	n int
}

func (c *countingMetric) Name() string                  { return "count" }
func (c *countingMetric) Observe(dynamo.State, float64) { c.n++ }
func (c *countingMetric) Value() float64                { return float64(c.n) }
func (c *countingMetric) Reset()                        { c.n = 0 }

// truncating drops the velocity component of every step.
type truncating struct{}

func (truncating) Name() string { return "truncating" }
func (truncating) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	return dynamo.State{x[0]}
}

// alternating ignores the dynamics and flips the velocity between 0 and 1
// on every step.
type alternating struct{}

func (alternating) Name() string { return "alternating" }
func (alternating) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	if x[1] == 0 {
		return dynamo.State{x[0], 1}
	}
	return dynamo.State{x[0], 0}
}

func short(p sim.Parameters, duration float64) sim.Parameters {
	p.Duration = duration
	return p
}

var _ = Describe("Simulate", func() {
	var params sim.Parameters

	BeforeEach(func() {
		params = sim.DefaultParameters()
	})

	Describe("series shape", func() {
		var ts *sim.TimeSeries

		BeforeEach(func() {
			var err error
			ts, err = sim.Simulate(short(params, 30))
			Expect(err).NotTo(HaveOccurred())
		})

		It("is deterministic", func() {
			again, err := sim.Simulate(short(params, 30))
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(ts))
		})

		It("keeps every per-step sequence the same length", func() {
			n := ts.Len()
			Expect(n).To(BeNumerically(">", 0))
			Expect(ts.Angles).To(HaveLen(n))
			Expect(ts.Velocities).To(HaveLen(n))
			Expect(ts.Positions).To(HaveLen(n))
			Expect(ts.Energies).To(HaveLen(n))
		})

		It("advances time by exactly dt per sample", func() {
			Expect(ts.Times[0]).To(Equal(0.0))
			for i := 0; i+1 < ts.Len(); i++ {
				Expect(ts.Times[i+1]).To(Equal(ts.Times[i]+params.Dt), "index %d", i)
			}
		})

		It("records the seat position as a pure function of the angle", func() {
			for i, a := range ts.Angles {
				want := dynamo.Vec2{X: params.Length * math.Sin(a), Y: -params.Length * math.Cos(a)}
				Expect(ts.Positions[i]).To(Equal(want), "index %d", i)
			}
		})

		It("starts from the initial state", func() {
			Expect(ts.Angles[0]).To(Equal(params.InitialAngle))
			Expect(ts.Velocities[0]).To(Equal(params.InitialVelocity))
		})

		It("counts sign changes without letting them gate stopping", func() {
			Expect(ts.Cycles).To(BeNumerically(">", sim.MinCycles))
			Expect(ts.Stopped).To(BeFalse())
		})
	})

	Describe("energy", func() {
		It("stays close to the initial energy without drag", func() {
			p := params
			p.DragCoeff, p.WindForce, p.InitialAngle = 0, 0, 0.5
			ts, err := sim.Simulate(short(p, 20))
			Expect(err).NotTo(HaveOccurred())

			e0 := ts.Energies[0]
			for _, e := range ts.Energies {
				Expect(math.Abs(e-e0) / e0).To(BeNumerically("<", 0.02))
			}
		})

		It("decays from a moving start at the bottom", func() {
			p := params
			p.InitialAngle, p.InitialVelocity = 0, 1.5
			p.DragCoeff = 1
			ts, err := sim.Simulate(short(p, 60))
			Expect(err).NotTo(HaveOccurred())

			e0 := ts.Energies[0]
			Expect(e0).To(BeNumerically("~", 0.5*p.Mass*math.Pow(p.Length*1.5, 2), 1e-9))
			for i := 0; i+1 < ts.Len(); i++ {
				Expect(ts.Energies[i+1] - ts.Energies[i]).To(BeNumerically("<", 1e-3*e0))
			}
			Expect(ts.Energies[ts.Len()-1]).To(BeNumerically("<", 0.9*e0))
		})

		It("decays with drag apart from small per-step fluctuation", func() {
			ts, err := sim.Simulate(params)
			Expect(err).NotTo(HaveOccurred())

			e0 := ts.Energies[0]
			for i := 0; i+1 < ts.Len(); i++ {
				Expect(ts.Energies[i+1] - ts.Energies[i]).To(BeNumerically("<", 1e-3*e0))
			}

			// envelope over 2 s windows never grows
			window := int(2.0 / params.Dt)
			prev := math.Inf(1)
			for start := 0; start+window <= ts.Len(); start += window {
				peak := 0.0
				for _, e := range ts.Energies[start : start+window] {
					peak = math.Max(peak, e)
				}
				Expect(peak).To(BeNumerically("<=", prev*(1+1e-3)))
				prev = peak
			}
			Expect(ts.Energies[ts.Len()-1]).To(BeNumerically("<", 0.6*e0))
		})
	})

	Describe("rest detection", func() {
		It("stops a swing that starts at rest at the bottom", func() {
			p := params
			p.InitialAngle, p.InitialVelocity = 0, 0
			ts, err := sim.Simulate(p)
			Expect(err).NotTo(HaveOccurred())

			Expect(ts.Stopped).To(BeTrue())
			Expect(ts.Len()).To(Equal(sim.MaxConsecutiveRest))
			Expect(ts.StoppingTime).To(BeNumerically("~", float64(sim.MaxConsecutiveRest-1)*p.Dt-sim.RestLookback, 1e-9))
			Expect(ts.StoppingTime).NotTo(Equal(sim.NeverStopped))
			Expect(ts.Cycles).To(BeZero())
		})

		It("reports the sentinel when the budget runs out first", func() {
			p := params
			p.InitialAngle, p.DragCoeff, p.WindForce = math.Pi/2, 0, 0
			ts, err := sim.Simulate(short(p, 1.0))
			Expect(err).NotTo(HaveOccurred())

			Expect(ts.Stopped).To(BeFalse())
			Expect(ts.StoppingTime).To(Equal(sim.NeverStopped))
			Expect(ts.Len()).To(BeNumerically(">=", int(math.Floor(1.0/p.Dt))))
			Expect(ts.Len()).To(BeNumerically("<=", int(math.Floor(1.0/p.Dt))+1))
		})

		It("runs the default swing for the whole budget", func() {
			ts, err := sim.Simulate(params)
			Expect(err).NotTo(HaveOccurred())

			Expect(ts.Stopped).To(BeFalse())
			Expect(ts.StoppingTime).To(Equal(sim.NeverStopped))
			Expect(ts.EndTime()).To(BeNumerically("<", params.Duration))
			Expect(ts.EndTime()).To(BeNumerically(">", params.Duration-2*params.Dt))
		})

		It("settles before the budget under heavy drag", func() {
			p := params
			p.DragCoeff, p.WindForce = 1e4, 100
			ts, err := sim.Simulate(p)
			Expect(err).NotTo(HaveOccurred())

			Expect(ts.Stopped).To(BeTrue())
			Expect(ts.StoppingTime).To(BeNumerically(">", 0))
			Expect(ts.StoppingTime).To(BeNumerically("<", p.Duration))
			Expect(ts.StoppingTime).To(BeNumerically("~", ts.EndTime()-sim.RestLookback, 1e-9))
		})

		It("needs an unbroken rest run in consecutive mode", func() {
			p := params
			p.DragCoeff, p.WindForce = 1e4, 100
			acc, err := sim.Simulate(p)
			Expect(err).NotTo(HaveOccurred())
			con, err := sim.Simulate(p, sim.WithRestMode(sim.RestConsecutive))
			Expect(err).NotTo(HaveOccurred())

			Expect(acc.Stopped).To(BeTrue())
			Expect(con.Stopped).To(BeFalse())
			Expect(con.StoppingTime).To(Equal(sim.NeverStopped))
			Expect(con.Len()).To(BeNumerically(">", acc.Len()))
			Expect(con.Angles[:acc.Len()]).To(Equal(acc.Angles))
		})

		Describe("intermittent rest", func() {
			var p sim.Parameters

			BeforeEach(func() {
				p = params
				p.InitialAngle, p.InitialVelocity = 0, 1
				p.Duration = 10
			})

			It("counts every resting sample in accumulating mode", func() {
				ts, err := sim.Simulate(p, sim.WithIntegrator(alternating{}))
				Expect(err).NotTo(HaveOccurred())

				Expect(ts.Stopped).To(BeTrue())
				Expect(ts.Len()).To(Equal(2 * sim.MaxConsecutiveRest))
				Expect(ts.StoppingTime).To(BeNumerically("~", float64(2*sim.MaxConsecutiveRest-1)*p.Dt-sim.RestLookback, 1e-9))
			})

			It("never stops in consecutive mode", func() {
				ts, err := sim.Simulate(p, sim.WithIntegrator(alternating{}), sim.WithRestMode(sim.RestConsecutive))
				Expect(err).NotTo(HaveOccurred())

				Expect(ts.Stopped).To(BeFalse())
				Expect(ts.StoppingTime).To(Equal(sim.NeverStopped))
				Expect(ts.Len()).To(BeNumerically(">", 2*sim.MaxConsecutiveRest))
			})
		})

		It("still stops a resting swing in consecutive mode", func() {
			p := params
			p.InitialAngle = 0
			ts, err := sim.Simulate(p, sim.WithRestMode(sim.RestConsecutive))
			Expect(err).NotTo(HaveOccurred())
			Expect(ts.Stopped).To(BeTrue())
			Expect(ts.Len()).To(Equal(sim.MaxConsecutiveRest))
		})
	})

	Describe("options", func() {
		It("feeds every recorded sample to metrics", func() {
			m := &countingMetric{}
			ts, err := sim.Simulate(short(params, 3), sim.WithMetrics(m))
			Expect(err).NotTo(HaveOccurred())
			Expect(ts.Metrics).To(HaveKeyWithValue("count", float64(ts.Len())))
		})

		It("accepts a different integrator", func() {
			semi, err := sim.Simulate(short(params, 3))
			Expect(err).NotTo(HaveOccurred())
			naive, err := sim.Simulate(short(params, 3), sim.WithIntegrator(integrators.NewEuler()))
			Expect(err).NotTo(HaveOccurred())

			Expect(naive.Len()).To(Equal(semi.Len()))
			Expect(naive.Angles[1]).To(Equal(params.InitialAngle))
			Expect(semi.Angles[1]).NotTo(Equal(params.InitialAngle))
		})
	})

	Describe("errors", func() {
		DescribeTable("rejects invalid parameters",
			func(mutate func(*sim.Parameters)) {
				p := sim.DefaultParameters()
				mutate(&p)
				ts, err := sim.Simulate(p)
				Expect(ts).To(BeNil())
				Expect(errors.Is(err, sim.ErrInvalidParameter)).To(BeTrue())
			},
			Entry("zero length", func(p *sim.Parameters) { p.Length = 0 }),
			Entry("negative mass", func(p *sim.Parameters) { p.Mass = -1 }),
			Entry("zero dt", func(p *sim.Parameters) { p.Dt = 0 }),
			Entry("negative duration", func(p *sim.Parameters) { p.Duration = -5 }),
			Entry("negative drag", func(p *sim.Parameters) { p.DragCoeff = -0.1 }),
			Entry("NaN angle", func(p *sim.Parameters) { p.InitialAngle = math.NaN() }),
			Entry("infinite wind", func(p *sim.Parameters) { p.WindForce = math.Inf(1) }),
		)

		It("fails fast when the state diverges", func() {
			p := sim.Parameters{
				Length: 0.5, Mass: 10, DragCoeff: 1, WindForce: 1,
				InitialVelocity: 1e3, Dt: 0.01, Duration: 10,
			}
			ts, err := sim.Simulate(p)
			Expect(ts).To(BeNil())
			Expect(errors.Is(err, sim.ErrNumericInstability)).To(BeTrue())

			var simErr *dynamo.SimError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Step).To(BeNumerically(">", 0))
		})

		It("rejects an integrator that changes the state dimension", func() {
			ts, err := sim.Simulate(short(params, 1), sim.WithIntegrator(truncating{}))
			Expect(ts).To(BeNil())
			Expect(errors.Is(err, dynamo.ErrDimensionMismatch)).To(BeTrue())
		})
	})
})
