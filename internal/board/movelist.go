package board

import (
	"errors"
	"fmt"
)

// MaxMoves is the capacity of a MoveList.
const MaxMoves = 256

var (
	// ErrIndexOutOfRange is returned when reading past the current count.
	ErrIndexOutOfRange = errors.New("move list index out of range")
	// ErrListFull is returned when adding to a full list.
	ErrListFull = errors.New("move list full")
)

// MoveList is a fixed-size move buffer that never allocates.
type MoveList struct {
	moves [MaxMoves]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add appends m.
func (ml *MoveList) Add(m Move) error {
	if ml.count >= MaxMoves {
		return ErrListFull
	}
	ml.moves[ml.count] = m
	ml.count++
	return nil
}

// Len returns the number of moves.
func (ml *MoveList) Len() int {
	return ml.count
}

// At returns the move at index i.
func (ml *MoveList) At(i int) (Move, error) {
	if i < 0 || i >= ml.count {
		return NoMove, fmt.Errorf("index %d with %d moves: %w", i, ml.count, ErrIndexOutOfRange)
	}
	return ml.moves[i], nil
}

// Set replaces the move at index i.
func (ml *MoveList) Set(i int, m Move) error {
	if i < 0 || i >= ml.count {
		return fmt.Errorf("index %d with %d moves: %w", i, ml.count, ErrIndexOutOfRange)
	}
	ml.moves[i] = m
	return nil
}

// Swap exchanges two moves. Both indices must be below Len.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear empties the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Slice returns the live moves. The slice aliases the buffer.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// Contains reports whether a square-equal move is present.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if SquareEqual(ml.moves[i], m) {
			return true
		}
	}
	return false
}
