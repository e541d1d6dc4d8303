package engine

import (
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// Search constants.
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 64
)

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return score > MateScore-MaxPly || score < -MateScore+MaxPly
}

// MateIn converts a mate score to moves, negative when being mated.
func MateIn(score int) int {
	if score > 0 {
		return (MateScore - score + 1) / 2
	}
	return -(MateScore + score + 1) / 2
}

// Limits bounds a search. Zero values mean no limit.
type Limits struct {
	Depth    int
	Nodes    uint64
	MoveTime time.Duration
	Clock    Clock
	Infinite bool
}

// Info is a progress report from the main worker. It is sent after each
// completed iteration, and, once the search has run for a while, before
// each root move with CurrMove set.
type Info struct {
	Depth    int
	Score    int
	Nodes    uint64
	Elapsed  time.Duration
	PV       []board.Move
	HashFull int

	CurrMove       board.Move
	CurrMoveNumber int
}

// currMoveDelay is how long the search runs before root moves are reported.
const currMoveDelay = time.Second

// Result is the outcome of a search.
type Result struct {
	BestMove board.Move
	Ponder   board.Move
	Score    int
	Depth    int
	Nodes    uint64
	Elapsed  time.Duration
}
