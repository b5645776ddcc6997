// Package pathing holds the synchronous stages of route synthesis: projecting
// a drawing onto the map, picking the waypoints that carry its shape, and
// shaping, bounding and smoothing the resulting coordinate sequence.
//
// Every function returns a new slice and leaves its input untouched.
package pathing
