// Package viz is a live terminal dashboard built on Bubble Tea.
//
// A top-down braille view follows the vehicle with its trail, hull outline
// and wheel contacts, next to gauges and asciigraph speed and RPM history.
//
// # Key Bindings
//
//	W/S   - Throttle up/down
//	A/D   - Steer left/right
//	Space - Toggle handbrake
//	G     - Shift up (shift+G down)
//	R     - Respawn
//	P     - Pause
//	Tab   - Select parameter, Up/Down to tune it
package viz
