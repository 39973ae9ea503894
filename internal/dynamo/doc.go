// Package dynamo provides core simulation primitives for the swing model.
//
// The package defines the small set of interfaces and types shared by the
// physics model, the integrators and the simulation engine:
//
//   - [State]: vector representing system state
//   - [Vec2]: planar vector used for seat positions and force overlays
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical integrator interface
//
// # Example
//
//	swing := physics.NewSwing(2.0, 30.0, 0.1, 1.0)
//	step := integrators.NewSemiImplicitEuler()
//	x := step.Step(swing, dynamo.State{0.785, 0}, 0, 0.01)
//
// # Thread Safety
//
// Values of these types carry no hidden state; integrators that keep scratch
// buffers are NOT safe for concurrent use and must not be shared between
// goroutines.
package dynamo
