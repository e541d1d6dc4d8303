// Package attacks provides attack bitboards for every piece. Sliding
// attacks go through a Sliders strategy that is picked once at startup.
package attacks

import (
	"errors"
	"fmt"
	"math/bits"
	"sync"

	"github.com/hailam/chesscore/internal/board"
)

// ErrUnknownStrategy is returned by Use for names that are not registered.
var ErrUnknownStrategy = errors.New("unknown slider strategy")

// ErrStrategyUnavailable is returned by Use when a strategy failed to
// initialize on this platform.
var ErrStrategyUnavailable = errors.New("slider strategy unavailable")

// Sliders computes bishop and rook attacks for an occupancy.
type Sliders interface {
	Name() string
	Bishop(sq board.Square, occ board.Bitboard) board.Bitboard
	Rook(sq board.Square, occ board.Bitboard) board.Bitboard
}

var (
	knightAttacks [64]board.Bitboard
	kingAttacks   [64]board.Bitboard
	pawnAttacks   [2][64]board.Bitboard

	sliders Sliders
	useOnce sync.Once
)

func init() {
	for sq := board.A1; sq <= board.H8; sq++ {
		bb := board.SquareBB(sq)
		knightAttacks[sq] = (bb<<17)&board.NotFileA | (bb<<15)&board.NotFileH |
			(bb>>15)&board.NotFileA | (bb>>17)&board.NotFileH |
			(bb<<10)&notFileAB | (bb<<6)&notFileGH |
			(bb>>6)&notFileAB | (bb>>10)&notFileGH

		east := (bb << 1) & board.NotFileA
		west := (bb >> 1) & board.NotFileH
		row := bb | east | west
		kingAttacks[sq] = (row | row<<8 | row>>8) &^ bb

		pawnAttacks[board.White][sq] = (bb<<9)&board.NotFileA | (bb<<7)&board.NotFileH
		pawnAttacks[board.Black][sq] = (bb>>7)&board.NotFileA | (bb>>9)&board.NotFileH
	}
	sliders = Detect()
}

const (
	notFileAB = ^(board.FileA | board.FileA<<1)
	notFileGH = ^(board.FileH | board.FileH>>1)
)

// Detect returns the best strategy for the running platform: magic
// lookup tables on 64-bit words, ray scanning otherwise.
func Detect() Sliders {
	if bits.UintSize == 64 && magicReady() {
		return magicSliders{}
	}
	return raySliders{}
}

// Lookup returns a registered strategy by name.
func Lookup(name string) (Sliders, error) {
	switch name {
	case "", "auto":
		return Detect(), nil
	case "magic":
		if !magicReady() {
			return nil, fmt.Errorf("%s: %w", name, ErrStrategyUnavailable)
		}
		return magicSliders{}, nil
	case "ray":
		return raySliders{}, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownStrategy)
}

// Use overrides the detected strategy. Only the first call has an effect;
// it is meant to be called once from main before any search starts.
func Use(name string) error {
	s, err := Lookup(name)
	if err != nil {
		return err
	}
	useOnce.Do(func() { sliders = s })
	return nil
}

// Strategy returns the name of the active strategy.
func Strategy() string {
	return sliders.Name()
}

// Bishop returns bishop attacks from sq.
func Bishop(sq board.Square, occ board.Bitboard) board.Bitboard {
	return sliders.Bishop(sq, occ)
}

// Rook returns rook attacks from sq.
func Rook(sq board.Square, occ board.Bitboard) board.Bitboard {
	return sliders.Rook(sq, occ)
}

// Queen returns queen attacks from sq.
func Queen(sq board.Square, occ board.Bitboard) board.Bitboard {
	return sliders.Bishop(sq, occ) | sliders.Rook(sq, occ)
}

// Knight returns knight attacks from sq.
func Knight(sq board.Square) board.Bitboard {
	return knightAttacks[sq]
}

// King returns king attacks from sq.
func King(sq board.Square) board.Bitboard {
	return kingAttacks[sq]
}

// Pawn returns the squares a pawn of color c on sq attacks.
func Pawn(c board.Color, sq board.Square) board.Bitboard {
	return pawnAttacks[c][sq]
}

// Pieces is one side's piece placement, indexed by board.Piece.
type Pieces [board.King + 1]board.Bitboard

// AttackersTo returns the pieces of side (them) attacking sq given the
// total occupancy. them is the owner of the pieces in p.
func AttackersTo(sq board.Square, them board.Color, p *Pieces, occ board.Bitboard) board.Bitboard {
	diag := p[board.Bishop] | p[board.Queen]
	orth := p[board.Rook] | p[board.Queen]
	return pawnAttacks[them.Other()][sq]&p[board.Pawn] |
		knightAttacks[sq]&p[board.Knight] |
		kingAttacks[sq]&p[board.King] |
		Bishop(sq, occ)&diag |
		Rook(sq, occ)&orth
}
