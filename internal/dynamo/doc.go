// Package dynamo provides the core state primitives for the particle simulation.
//
// The package defines the numeric state owned by a simulation run:
//
//   - [Vec2]: 2D vector (gonum r2.Vec)
//   - [ParticleSet]: fixed-size particle state (position, previous position, acceleration)
//   - [Bounds]: viewport rectangle the particles are confined to
//
// Velocity is never stored. It is implied by the gap between Pos and Prev,
// which is why Prev must only be written by the Verlet correction and by
// [ParticleSet.Reset].
//
// # Example
//
//	b := dynamo.NewBounds(800, 600, dynamo.DefaultScale)
//	set := dynamo.NewParticleSet(2000, dynamo.DefaultRadius)
//	set.Scatter(b, rand.New(rand.NewSource(1)))
//
// # Thread Safety
//
// ParticleSet is NOT thread-safe. A set belongs to exactly one simulator.
package dynamo
