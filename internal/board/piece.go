package board

// Color is the side to move or the owner of a piece.
type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Piece is a colorless piece kind. The zero value is NoPiece so that an
// empty move word carries no piece.
type Piece uint8

const (
	NoPiece Piece = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// PieceCount is the number of real piece kinds.
const PieceCount = 6

// pieceValue is indexed by Piece.
var pieceValue = [PieceCount + 1]int{0, 100, 320, 330, 500, 900, 0}

// Index returns the piece as a zero-based table index (Pawn = 0).
// Only valid for real pieces.
func (p Piece) Index() int {
	return int(p) - 1
}

// IsValid reports whether p is one of Pawn..King.
func (p Piece) IsValid() bool {
	return p >= Pawn && p <= King
}

// Value returns the material value in centipawns. Kings are worth 0.
func (p Piece) Value() int {
	if p > King {
		return 0
	}
	return pieceValue[p]
}

// Char returns the lowercase FEN letter, or ' ' for NoPiece.
func (p Piece) Char() byte {
	const chars = " pnbrqk"
	if p > King {
		return ' '
	}
	return chars[p]
}

// String returns the piece name.
func (p Piece) String() string {
	switch p {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}
