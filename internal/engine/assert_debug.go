//go:build chessdebug

package engine

const debugChecks = true

func assert(cond bool, msg string) {
	if !cond {
		panic("engine: assertion failed: " + msg)
	}
}
