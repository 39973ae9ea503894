// Package physics provides the swing model used by the simulation engine.
//
// [Swing] implements [dynamo.System] with the equations of motion of a
// rigid-arm pendulum under gravity and a velocity-to-the-fourth drag torque,
// and [dynamo.Hamiltonian] for the mechanical energy.
//
// Derived quantities used by renderers (seat position and the weight, tension
// and air resistance vectors) are pure functions of the state:
//
//	swing := physics.NewSwing(2.0, 30.0, 0.1, 1.0)
//	pos := swing.Position(angle)
//	f := swing.Forces(angle, velocity)
package physics
