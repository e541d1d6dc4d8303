//go:build !chessdebug

package engine

const debugChecks = false

// assert is compiled out unless built with -tags chessdebug.
func assert(bool, string) {}
