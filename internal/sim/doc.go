// Package sim drives the particle simulation one fixed tick at a time.
//
// [Simulator] is the only entry point a frame loop needs:
//
//	s, _ := sim.New(sim.DefaultOptions())
//	for running {
//	    s.Advance(dynamo.DefaultDt)
//	    upload(s.AppendFloat32(buf[:0]))
//	}
//
// On a viewport change call [Simulator.Resize]; it respawns every particle.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parallel runs use [Ensemble],
// which gives every run its own simulator.
package sim
