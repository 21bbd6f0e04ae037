// Package viz renders particle simulations in the terminal.
//
//   - [Model]: Bubble Tea live view of one simulator at a fixed frame rate
//   - [App]: preset picker that launches the live view
//   - [Canvas]: braille dot canvas with a world-to-dot [Projection]
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Respawn particles in the current viewport
//	G     - Flip the sign of gravity
//	[ ]   - Step back and forward through recent ticks
//	C     - Toggle GIF recording
//	T     - Cycle themes
//	Q/Esc - Quit
//
// Terminal resizes are forwarded to the simulator as viewport changes, which
// recompute the bounds and respawn every particle.
package viz
