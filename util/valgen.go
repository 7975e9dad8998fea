// Package util holds small helpers shared by the simulator packages.
package util

// MakeIncreasingGen returns a generator yielding start+1, start+2, ...
func MakeIncreasingGen(start int) func() int {
	current := start
	return func() int {
		current++
		return current
	}
}
