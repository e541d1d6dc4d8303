package board

import (
	"errors"
	"math"
	"testing"
)

func TestMovePackRoundTrip(t *testing.T) {
	colors := []Color{White, Black, NoColor}
	types := []MoveType{Normal, Capture, Castle, EnPassant, PawnMove, DblPawnMove, Promote, PromoteCapture, Null}
	pieces := []Piece{NoPiece, Pawn, Knight, Bishop, Rook, Queen, King}
	scores := []int32{0, 1, -1, 7000, -7000, math.MaxInt32, math.MinInt32}

	for from := A1; from <= H8; from++ {
		for to := A1; to <= H8; to++ {
			for _, typ := range types {
				for i, pc := range pieces {
					stm := colors[(int(from)+i)%len(colors)]
					capture := pieces[(int(to)+i)%len(pieces)]
					promote := pieces[(int(typ)+i)%len(pieces)]
					score := scores[(int(from)^int(to)+i)%len(scores)]

					m := Pack(stm, pc, from, to, typ, capture, promote, score)
					if m.From() != from || m.To() != to {
						t.Fatalf("squares: got %v%v, want %v%v", m.From(), m.To(), from, to)
					}
					if m.Type() != typ {
						t.Fatalf("type: got %d, want %d", m.Type(), typ)
					}
					if m.Piece() != pc || m.Capture() != capture || m.Promote() != promote {
						t.Fatalf("pieces: got %v/%v/%v, want %v/%v/%v",
							m.Piece(), m.Capture(), m.Promote(), pc, capture, promote)
					}
					if m.Stm() != stm {
						t.Fatalf("stm: got %v, want %v", m.Stm(), stm)
					}
					if m.Score() != score {
						t.Fatalf("score: got %d, want %d", m.Score(), score)
					}
					if got := uint16(m & 0xfff); got != uint16(from)<<6|uint16(to) {
						t.Fatalf("low bits: got %#x, want %#x", got, uint16(from)<<6|uint16(to))
					}
				}
			}
		}
	}
}

func TestMoveScore(t *testing.T) {
	m := Pack(White, Knight, G1, F3, Normal, NoPiece, NoPiece, 0)

	scored := m.WithScore(-42)
	if scored.Score() != -42 {
		t.Errorf("WithScore: got %d, want -42", scored.Score())
	}
	if scored.ClearScore() != m {
		t.Errorf("ClearScore: got %#x, want %#x", scored.ClearScore(), m)
	}
	if !SquareEqual(m, scored) {
		t.Error("moves differing only in score should be square-equal")
	}

	other := Pack(Black, Queen, G1, F3, Capture, Rook, NoPiece, 9)
	if !SquareEqual(m, other) {
		t.Error("moves with same squares should be square-equal regardless of other fields")
	}
	if SquareEqual(m, Pack(White, Knight, G1, H3, Normal, NoPiece, NoPiece, 0)) {
		t.Error("g1f3 and g1h3 should not be square-equal")
	}
}

func TestMoveString(t *testing.T) {
	tests := []struct {
		move Move
		want string
	}{
		{Pack(White, Pawn, E2, E4, DblPawnMove, NoPiece, NoPiece, 0), "e2e4"},
		{Pack(Black, Pawn, A2, A1, Promote, NoPiece, Queen, 0), "a2a1q"},
		{Pack(White, Pawn, B7, C8, PromoteCapture, Rook, Knight, 0), "b7c8n"},
		{Pack(White, King, E1, G1, Castle, NoPiece, NoPiece, 0), "e1g1"},
		{NullMove, "0000"},
		{NoMove, "0000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.move.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMoveKinds(t *testing.T) {
	quiet := Pack(White, Knight, B1, C3, Normal, NoPiece, NoPiece, 0)
	capture := Pack(White, Knight, B1, C3, Capture, Pawn, NoPiece, 0)
	ep := Pack(White, Pawn, E5, D6, EnPassant, Pawn, NoPiece, 0)
	promo := Pack(White, Pawn, E7, E8, Promote, NoPiece, Queen, 0)

	if !quiet.IsQuiet() || quiet.IsCapture() || quiet.IsPromote() {
		t.Error("b1c3 should be quiet")
	}
	if !capture.IsCapture() || capture.IsQuiet() {
		t.Error("capture should not be quiet")
	}
	if !ep.IsCapture() {
		t.Error("en passant should be a capture")
	}
	if !promo.IsPromote() || promo.IsQuiet() {
		t.Error("promotion should not be quiet")
	}
	if !NullMove.IsNull() || !NoMove.IsNull() || quiet.IsNull() {
		t.Error("null detection wrong")
	}
	if NullMove == NoMove {
		t.Error("null move sentinel must differ from the empty slot")
	}
}

func TestMoveListBounds(t *testing.T) {
	ml := NewMoveList()
	m := Pack(White, Pawn, E2, E4, DblPawnMove, NoPiece, NoPiece, 0)
	if err := ml.Add(m); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := ml.At(0)
	if err != nil || got != m {
		t.Fatalf("At(0) = %v, %v; want %v, nil", got, err, m)
	}

	if _, err := ml.At(1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("At(1) error = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := ml.At(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("At(-1) error = %v, want ErrIndexOutOfRange", err)
	}
	if err := ml.Set(3, m); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Set(3) error = %v, want ErrIndexOutOfRange", err)
	}

	ml.Clear()
	for i := 0; i < MaxMoves; i++ {
		if err := ml.Add(m); err != nil {
			t.Fatalf("Add #%d: %v", i, err)
		}
	}
	if err := ml.Add(m); !errors.Is(err, ErrListFull) {
		t.Errorf("Add on full list error = %v, want ErrListFull", err)
	}
	if !ml.Contains(m.WithScore(5)) {
		t.Error("Contains should match square-equal moves")
	}
}

func TestParseSquare(t *testing.T) {
	for sq := A1; sq <= H8; sq++ {
		got, err := ParseSquare(sq.String())
		if err != nil || got != sq {
			t.Errorf("ParseSquare(%q) = %v, %v", sq.String(), got, err)
		}
	}
	for _, bad := range []string{"", "e", "i1", "a9", "e44"} {
		if _, err := ParseSquare(bad); err == nil {
			t.Errorf("ParseSquare(%q) should fail", bad)
		}
	}
	if E4.RelativeRank(White) != 3 || E4.RelativeRank(Black) != 4 {
		t.Error("RelativeRank wrong for e4")
	}
}
