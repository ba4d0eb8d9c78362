// Package engine contains the per-tile zone simulation.
// This is the heartbeat of MicroCity.
//
// ARCHITECTURAL RULE: systems mutate the shared grid and census counters
// directly (the tick loop is strictly single-threaded), but every transition
// is mirrored to the event log so the outside world can observe it.
package engine
