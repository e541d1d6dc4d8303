package engine

import (
	"slices"

	"github.com/hailam/chesscore/internal/board"
)

// PVTable is a triangular table of principal variations: row ply holds the
// best line found from ply downward.
type PVTable struct {
	length [MaxPly + 1]int
	moves  [MaxPly][MaxPly]board.Move
}

// NewPVTable returns an empty table.
func NewPVTable() *PVTable {
	return &PVTable{}
}

// Clear empties every line. Move contents are left in place.
func (pv *PVTable) Clear() {
	pv.length = [MaxPly + 1]int{}
}

// Reset empties the line at ply, called on node entry.
func (pv *PVTable) Reset(ply int) {
	if ply >= 0 && ply <= MaxPly {
		pv.length[ply] = 0
	}
}

// AddMove makes m the whole line at ply (leaf assignment).
func (pv *PVTable) AddMove(ply int, m board.Move) {
	assert(ply >= 0 && ply < MaxPly, "pv ply out of range")
	if ply < 0 || ply >= MaxPly {
		return
	}
	pv.moves[ply][0] = m
	pv.length[ply] = 1
}

// Merge sets the line at ply to m followed by the line at ply+1.
func (pv *PVTable) Merge(ply int, m board.Move) {
	assert(ply >= 0 && ply < MaxPly, "pv ply out of range")
	if ply < 0 || ply >= MaxPly {
		return
	}
	assert(pv.length[ply+1] < MaxPly, "pv line too long")
	pv.moves[ply][0] = m
	n := 0
	if ply+1 < MaxPly {
		n = copy(pv.moves[ply][1:], pv.moves[ply+1][:pv.length[ply+1]])
	}
	pv.length[ply] = 1 + n
}

// Len returns the length of the line at ply.
func (pv *PVTable) Len(ply int) int {
	return pv.length[ply]
}

// Line returns the line at ply. The slice aliases the table and is only
// valid until the next update.
func (pv *PVTable) Line(ply int) []board.Move {
	if ply < 0 || ply >= MaxPly {
		return nil
	}
	return pv.moves[ply][:pv.length[ply]]
}

// Pv returns a copy of the root line.
func (pv *PVTable) Pv() []board.Move {
	return slices.Clone(pv.Line(0))
}
