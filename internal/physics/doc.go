// Package physics provides contact handling for the particle simulation.
//
// [Collider] implements the two positional corrections applied each tick:
//
//   - [Collider.ResolvePairs]: one brute-force pass over all particle pairs
//   - [Collider.ClampToBounds]: hard per-axis clamp against the viewport
//
// Neither correction touches Prev. Any displacement they make is therefore
// doubled by the following Verlet correction and carried into the next tick
// as velocity; this is what produces the bounce.
//
// # Coincident Particles
//
// Two particles at exactly the same centre have no separation axis. Set
// [Collider.Epsilon] to choose between surfacing the NaN and skipping the pair:
//
//	c := physics.NewCollider(0)    // faithful, NaN on coincidence
//	c := physics.NewCollider(1e-9) // skip coincident pairs
package physics
