package engine

import "time"

// Clock is the game clock sent with a UCI go command, indexed by color.
type Clock struct {
	Time      [2]time.Duration
	Inc       [2]time.Duration
	MovesToGo int
}

// IsSet reports whether any clock time was given.
func (c Clock) IsSet() bool {
	return c.Time[0] > 0 || c.Time[1] > 0
}

// Budget splits the remaining time of the side to move into an optimum,
// after which no new iteration starts, and a hard maximum. ply is the
// game ply.
func Budget(c Clock, stm int, ply int) (optimum, maximum time.Duration) {
	left, inc := c.Time[stm], c.Inc[stm]

	mtg := c.MovesToGo
	if mtg == 0 {
		mtg = min(max(50-ply/4, 10), 50)
	}

	optimum = left/time.Duration(mtg) + inc*9/10
	if ply < 8 {
		optimum = optimum * 85 / 100
	}

	// 5x optimum, capped at 80% of what is left
	maximum = min(optimum*5, left*8/10)

	optimum = max(optimum, 10*time.Millisecond)
	maximum = max(maximum, 50*time.Millisecond)
	return optimum, maximum
}
