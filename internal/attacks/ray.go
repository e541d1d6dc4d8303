package attacks

import "github.com/hailam/chesscore/internal/board"

// raySliders walks each ray until it leaves the board or hits a blocker.
type raySliders struct{}

func (raySliders) Name() string { return "ray" }

func (raySliders) Bishop(sq board.Square, occ board.Bitboard) board.Bitboard {
	return slide(sq, occ, 1, 1) | slide(sq, occ, -1, 1) |
		slide(sq, occ, 1, -1) | slide(sq, occ, -1, -1)
}

func (raySliders) Rook(sq board.Square, occ board.Bitboard) board.Bitboard {
	return slide(sq, occ, 0, 1) | slide(sq, occ, 0, -1) |
		slide(sq, occ, 1, 0) | slide(sq, occ, -1, 0)
}

func slide(sq board.Square, occ board.Bitboard, df, dr int) board.Bitboard {
	var attacks board.Bitboard
	for f, r := sq.File()+df, sq.Rank()+dr; f >= 0 && f <= 7 && r >= 0 && r <= 7; f, r = f+df, r+dr {
		s := board.NewSquare(f, r)
		attacks |= board.SquareBB(s)
		if occ.IsSet(s) {
			break
		}
	}
	return attacks
}
