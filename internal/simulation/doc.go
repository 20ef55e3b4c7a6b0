// Package simulation produces the analog values and timestamps published by
// the device on every tick.
package simulation
