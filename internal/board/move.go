package board

// Move is a move packed into one 64-bit word:
//
//	bits  0-5   to square
//	bits  6-11  from square
//	bits 12-15  move type
//	bits 16-18  moving piece
//	bits 19-21  captured piece
//	bits 22-24  promotion piece
//	bits 25-26  side to move
//	bits 27-31  reserved (zero)
//	bits 32-63  ordering score (signed)
//
// The low 12 bits are therefore (from << 6) | to, and two moves are
// square-equal when those bits match.
type Move uint64

// MoveType is the kind of a move.
type MoveType uint8

const (
	Normal MoveType = iota
	Capture
	Castle
	EnPassant
	PawnMove
	DblPawnMove
	Promote
	PromoteCapture
	Null
)

const (
	toShift      = 0
	fromShift    = 6
	typeShift    = 12
	pieceShift   = 16
	captureShift = 19
	promoteShift = 22
	stmShift     = 25
	scoreShift   = 32

	squareMask  = 0x3f
	typeMask    = 0x0f
	pieceMask   = 0x07
	stmMask     = 0x03
	squaresBits = 0xfff
	lowMask     = 0xffffffff
)

// NoMove is the empty slot value.
const NoMove Move = 0

// NullMove is the reserved null-move sentinel.
var NullMove = Pack(NoColor, NoPiece, A1, A1, Null, NoPiece, NoPiece, 0)

// Pack builds a move word from its fields.
func Pack(stm Color, piece Piece, from, to Square, typ MoveType, capture, promote Piece, score int32) Move {
	return Move(to)&squareMask<<toShift |
		Move(from)&squareMask<<fromShift |
		Move(typ)&typeMask<<typeShift |
		Move(piece)&pieceMask<<pieceShift |
		Move(capture)&pieceMask<<captureShift |
		Move(promote)&pieceMask<<promoteShift |
		Move(stm)&stmMask<<stmShift |
		Move(uint32(score))<<scoreShift
}

// From returns the origin square.
func (m Move) From() Square { return Square(m >> fromShift & squareMask) }

// To returns the destination square.
func (m Move) To() Square { return Square(m >> toShift & squareMask) }

// Type returns the move kind.
func (m Move) Type() MoveType { return MoveType(m >> typeShift & typeMask) }

// Piece returns the moving piece.
func (m Move) Piece() Piece { return Piece(m >> pieceShift & pieceMask) }

// Capture returns the captured piece, NoPiece for non-captures.
func (m Move) Capture() Piece { return Piece(m >> captureShift & pieceMask) }

// Promote returns the promotion piece, NoPiece for non-promotions.
func (m Move) Promote() Piece { return Piece(m >> promoteShift & pieceMask) }

// Stm returns the color of the side making the move.
func (m Move) Stm() Color { return Color(m >> stmShift & stmMask) }

// Score returns the ordering score.
func (m Move) Score() int32 { return int32(uint32(m >> scoreShift)) }

// Squares returns the (from << 6) | to bits.
func (m Move) Squares() uint16 { return uint16(m & squaresBits) }

// WithScore returns m with its ordering score replaced.
func (m Move) WithScore(score int32) Move {
	return m&lowMask | Move(uint32(score))<<scoreShift
}

// ClearScore returns m without its ordering score.
func (m Move) ClearScore() Move { return m & lowMask }

// SquareEqual reports whether a and b share from and to squares.
func SquareEqual(a, b Move) bool {
	return (a^b)&squaresBits == 0
}

// IsNull reports whether m is the null move or an empty slot.
func (m Move) IsNull() bool {
	return m == NoMove || m.Type() == Null
}

// IsCapture reports whether m removes an enemy piece.
func (m Move) IsCapture() bool {
	switch m.Type() {
	case Capture, EnPassant, PromoteCapture:
		return true
	}
	return false
}

// IsPromote reports whether m promotes a pawn.
func (m Move) IsPromote() bool {
	t := m.Type()
	return t == Promote || t == PromoteCapture
}

// IsQuiet reports whether m neither captures nor promotes.
func (m Move) IsQuiet() bool {
	return !m.IsNull() && !m.IsCapture() && !m.IsPromote()
}

// String returns the move in UCI long algebraic notation; null moves and
// empty slots render as "0000".
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromote() {
		s += string(m.Promote().Char())
	}
	return s
}
