// Package position adapts dragontoothmg boards to the engine: it encodes
// generated moves as board.Move words and answers the board-state queries
// the search stack is seeded from.
package position

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dylhunn/dragontoothmg"

	"github.com/hailam/chesscore/internal/attacks"
	"github.com/hailam/chesscore/internal/board"
)

// ErrIllegalMove is returned when a UCI move is not legal in the position.
var ErrIllegalMove = errors.New("illegal move")

// StartFEN is the initial position.
const StartFEN = dragontoothmg.Startpos

// Position is a game position plus the moves that led to it.
type Position struct {
	b      dragontoothmg.Board
	played []board.Move
	hashes []uint64
}

// New returns the initial position.
func New() *Position {
	p, _ := FromFEN(StartFEN)
	return p
}

// FromFEN parses a FEN string.
func FromFEN(fen string) (p *Position, err error) {
	if len(strings.Fields(fen)) < 4 {
		return nil, fmt.Errorf("invalid fen %q", fen)
	}
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("invalid fen %q: %v", fen, r)
		}
	}()
	p = &Position{b: dragontoothmg.ParseFen(fen)}
	p.hashes = append(p.hashes, p.b.Hash())
	return p, nil
}

// Clone returns an independent copy, used to give each worker its own
// board.
func (p *Position) Clone() *Position {
	c := &Position{b: p.b}
	c.played = append([]board.Move(nil), p.played...)
	c.hashes = append([]uint64(nil), p.hashes...)
	return c
}

// FEN returns the position in FEN.
func (p *Position) FEN() string {
	return p.b.ToFen()
}

// Hash returns the Zobrist key.
func (p *Position) Hash() uint64 {
	return p.b.Hash()
}

// SideToMove returns the color to move.
func (p *Position) SideToMove() board.Color {
	if p.b.Wtomove {
		return board.White
	}
	return board.Black
}

// IsChecked reports whether the side to move is in check.
func (p *Position) IsChecked() bool {
	return p.b.OurKingInCheck()
}

// LastMove returns the move that reached this position, NoMove at the
// start of the game.
func (p *Position) LastMove() board.Move {
	if n := len(p.played); n > 0 {
		return p.played[n-1]
	}
	return board.NoMove
}

// PrevLastMove returns the move before LastMove.
func (p *Position) PrevLastMove() board.Move {
	if n := len(p.played); n > 1 {
		return p.played[n-2]
	}
	return board.NoMove
}

// Ply returns the number of moves played since the root FEN.
func (p *Position) Ply() int {
	return len(p.played)
}

// IsRepetition reports whether the current position occurred before.
func (p *Position) IsRepetition() bool {
	n := len(p.hashes)
	cur := p.hashes[n-1]
	for i := n - 3; i >= 0; i -= 2 {
		if p.hashes[i] == cur {
			return true
		}
	}
	return false
}

// Pieces returns the placement of c's pieces.
func (p *Position) Pieces(c board.Color) attacks.Pieces {
	bb := &p.b.White
	if c == board.Black {
		bb = &p.b.Black
	}
	return attacks.Pieces{
		board.Pawn:   board.Bitboard(bb.Pawns),
		board.Knight: board.Bitboard(bb.Knights),
		board.Bishop: board.Bitboard(bb.Bishops),
		board.Rook:   board.Bitboard(bb.Rooks),
		board.Queen:  board.Bitboard(bb.Queens),
		board.King:   board.Bitboard(bb.Kings),
	}
}

// Occupied returns every occupied square.
func (p *Position) Occupied() board.Bitboard {
	return board.Bitboard(p.b.White.All | p.b.Black.All)
}

// PieceAt returns the piece and owner on sq.
func (p *Position) PieceAt(sq board.Square) (board.Piece, board.Color) {
	if pc := pieceOn(&p.b.White, sq); pc != board.NoPiece {
		return pc, board.White
	}
	if pc := pieceOn(&p.b.Black, sq); pc != board.NoPiece {
		return pc, board.Black
	}
	return board.NoPiece, board.NoColor
}

func pieceOn(bb *dragontoothmg.Bitboards, sq board.Square) board.Piece {
	bit := uint64(1) << sq
	switch {
	case bb.All&bit == 0:
		return board.NoPiece
	case bb.Pawns&bit != 0:
		return board.Pawn
	case bb.Knights&bit != 0:
		return board.Knight
	case bb.Bishops&bit != 0:
		return board.Bishop
	case bb.Rooks&bit != 0:
		return board.Rook
	case bb.Queens&bit != 0:
		return board.Queen
	case bb.Kings&bit != 0:
		return board.King
	}
	return board.NoPiece
}

// IsPromotionThreat reports whether m put a pawn on its seventh rank with
// an empty promotion square the opponent does not attack. m is normally
// the last move played.
func (p *Position) IsPromotionThreat(m board.Move) bool {
	if m.Piece() != board.Pawn || m.Stm() > board.Black || m.To().RelativeRank(m.Stm()) != 6 {
		return false
	}
	promo := m.To() + 8
	if m.Stm() == board.Black {
		promo = m.To() - 8
	}
	occ := p.Occupied()
	if occ.IsSet(promo) {
		return false
	}
	them := m.Stm().Other()
	defenders := p.Pieces(them)
	return attacks.AttackersTo(promo, them, &defenders, occ) == 0
}

// GenerateMoves fills ml with the legal moves, encoded with piece, capture
// and move type.
func (p *Position) GenerateMoves(ml *board.MoveList) {
	ml.Clear()
	for _, dm := range p.b.GenerateLegalMoves() {
		// a position has at most 218 legal moves
		_ = ml.Add(p.encode(dm))
	}
}

func (p *Position) encode(dm dragontoothmg.Move) board.Move {
	from, to := board.Square(dm.From()), board.Square(dm.To())
	promote := board.Piece(dm.Promote())
	stm := p.SideToMove()
	piece, _ := p.PieceAt(from)
	captured, _ := p.PieceAt(to)

	typ := board.Normal
	switch {
	case promote != board.NoPiece && captured != board.NoPiece:
		typ = board.PromoteCapture
	case promote != board.NoPiece:
		typ = board.Promote
	case piece == board.King && (int(to)-int(from) == 2 || int(from)-int(to) == 2):
		typ = board.Castle
	case piece == board.Pawn && captured == board.NoPiece && from.File() != to.File():
		typ = board.EnPassant
		captured = board.Pawn
	case captured != board.NoPiece:
		typ = board.Capture
	case piece == board.Pawn && (int(to)-int(from) == 16 || int(from)-int(to) == 16):
		typ = board.DblPawnMove
	case piece == board.Pawn:
		typ = board.PawnMove
	}
	return board.Pack(stm, piece, from, to, typ, captured, promote, 0)
}

// Play makes m and returns a function that takes it back. m must be legal.
func (p *Position) Play(m board.Move) (undo func()) {
	var dm dragontoothmg.Move
	dm.Setfrom(dragontoothmg.Square(m.From()))
	dm.Setto(dragontoothmg.Square(m.To()))
	if m.IsPromote() {
		dm.Setpromote(dragontoothmg.Piece(m.Promote()))
	}

	unapply := p.b.Apply(dm)
	p.played = append(p.played, m)
	p.hashes = append(p.hashes, p.b.Hash())
	return func() {
		unapply()
		p.played = p.played[:len(p.played)-1]
		p.hashes = p.hashes[:len(p.hashes)-1]
	}
}

// PlayUCI makes the legal move written in UCI notation.
func (p *Position) PlayUCI(s string) error {
	var ml board.MoveList
	p.GenerateMoves(&ml)
	s = strings.ToLower(s)
	for _, m := range ml.Slice() {
		if m.String() == s {
			p.Play(m)
			return nil
		}
	}
	return fmt.Errorf("%s in %s: %w", s, p.FEN(), ErrIllegalMove)
}

// Phase returns the non-pawn material phase: 24 in the opening down to 0
// with only kings and pawns left.
func (p *Position) Phase() int {
	all := func(f func(*dragontoothmg.Bitboards) uint64) int {
		return board.Bitboard(f(&p.b.White) | f(&p.b.Black)).PopCount()
	}
	phase := all(func(b *dragontoothmg.Bitboards) uint64 { return b.Knights })
	phase += all(func(b *dragontoothmg.Bitboards) uint64 { return b.Bishops })
	phase += 2 * all(func(b *dragontoothmg.Bitboards) uint64 { return b.Rooks })
	phase += 4 * all(func(b *dragontoothmg.Bitboards) uint64 { return b.Queens })
	return min(phase, 24)
}
