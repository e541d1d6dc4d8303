package engine

import (
	"cmp"
	"fmt"
)

// MaxPhase is the game phase of the opening position; 0 is a bare endgame.
const MaxPhase = 64

// Score packs a middlegame and an endgame value into one word as
// (eg << 16) + mg. Arithmetic on the word acts on both halves at once
// as long as each half stays within int16.
type Score int32

// S builds a Score from its middlegame and endgame halves.
func S(mg, eg int16) Score {
	return Score(int32(uint32(uint16(eg))<<16) + int32(mg))
}

// Mg returns the middlegame half.
func (s Score) Mg() int16 {
	return int16(s)
}

// Eg returns the endgame half. The bias undoes the borrow a negative
// middlegame value takes from the upper half.
func (s Score) Eg() int16 {
	return int16(uint32(int32(s)+0x8000) >> 16)
}

// Add returns s + o.
func (s Score) Add(o Score) Score { return s + o }

// Sub returns s - o.
func (s Score) Sub(o Score) Score { return s - o }

// Neg returns -s.
func (s Score) Neg() Score { return -s }

// Mul returns s scaled by k.
func (s Score) Mul(k int) Score { return Score(int32(k)) * s }

// Normalize interpolates between the halves. phase must already be in
// [0, MaxPhase].
func (s Score) Normalize(phase int) int16 {
	return int16((int(s.Mg())*phase + int(s.Eg())*(MaxPhase-phase)) / MaxPhase)
}

// Compare orders scores by their packed word.
func (s Score) Compare(o Score) int {
	return cmp.Compare(s, o)
}

func (s Score) String() string {
	return fmt.Sprintf("(%d, %d)", s.Mg(), s.Eg())
}
