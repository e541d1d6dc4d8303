package engine

import "github.com/hailam/chesscore/internal/board"

// DefaultKillers is the default number of killer moves kept per ply.
const DefaultKillers = 4

// KillerList keeps, per ply, the quiet moves that most recently caused a
// beta cutoff, most recent first.
type KillerList struct {
	k     int
	moves []board.Move
}

// NewKillerList returns a list holding k killers per ply. k < 1 selects
// DefaultKillers.
func NewKillerList(k int) *KillerList {
	if k < 1 {
		k = DefaultKillers
	}
	return &KillerList{
		k:     k,
		moves: make([]board.Move, MaxPly*k),
	}
}

// Capacity returns the number of killers per ply.
func (kl *KillerList) Capacity() int {
	return kl.k
}

// Add moves m to the front of the ply's list. An existing square-equal
// entry is promoted; otherwise the oldest entry falls off the end.
func (kl *KillerList) Add(m board.Move, ply int) {
	assert(ply >= 0 && ply < MaxPly, "killer ply out of range")
	if ply < 0 || ply >= MaxPly {
		return
	}
	row := kl.moves[ply*kl.k : (ply+1)*kl.k]

	i := 0
	for i < len(row) && !board.SquareEqual(row[i], m) {
		i++
	}
	if i == len(row) {
		i--
	}
	copy(row[1:i+1], row[:i])
	row[0] = m
}

// Exists reports whether a square-equal move is a killer at ply.
func (kl *KillerList) Exists(ply int, m board.Move) bool {
	if ply < 0 || ply >= MaxPly {
		return false
	}
	for _, k := range kl.moves[ply*kl.k : (ply+1)*kl.k] {
		if k != board.NoMove && board.SquareEqual(k, m) {
			return true
		}
	}
	return false
}

// Killers returns the killers at ply, most recent first. Empty slots hold
// board.NoMove. The slice aliases the table.
func (kl *KillerList) Killers(ply int) []board.Move {
	return kl.moves[ply*kl.k : (ply+1)*kl.k]
}

// Clear empties every ply.
func (kl *KillerList) Clear() {
	clear(kl.moves)
}

// KillerPair is a two-slot killer store.
type KillerPair struct {
	moves [2]board.Move
}

// Add inserts m. A move already in slot 2 swaps with slot 1, a move
// already in slot 1 is left alone, anything else pushes slot 1 down.
func (kp *KillerPair) Add(m board.Move) {
	switch {
	case board.SquareEqual(m, kp.moves[0]):
	case board.SquareEqual(m, kp.moves[1]):
		kp.moves[0], kp.moves[1] = kp.moves[1], kp.moves[0]
	default:
		kp.moves[1] = kp.moves[0]
		kp.moves[0] = m
	}
}

// Slot1 returns the most recent killer.
func (kp *KillerPair) Slot1() board.Move { return kp.moves[0] }

// Slot2 returns the older killer.
func (kp *KillerPair) Slot2() board.Move { return kp.moves[1] }

// Contains reports whether m is square-equal to either slot.
func (kp *KillerPair) Contains(m board.Move) bool {
	return (kp.moves[0] != board.NoMove && board.SquareEqual(kp.moves[0], m)) ||
		(kp.moves[1] != board.NoMove && board.SquareEqual(kp.moves[1], m))
}

// Clear empties both slots.
func (kp *KillerPair) Clear() {
	kp.moves = [2]board.Move{}
}
