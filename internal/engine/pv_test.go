package engine

import (
	"slices"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func TestPVMerge(t *testing.T) {
	e4 := quiet(board.White, board.Pawn, board.E2, board.E4)
	e5 := quiet(board.Black, board.Pawn, board.E7, board.E5)
	nf3 := quiet(board.White, board.Knight, board.G1, board.F3)

	pv := NewPVTable()
	pv.Reset(0)
	pv.Reset(1)
	pv.Reset(2)
	pv.AddMove(2, nf3)
	pv.Merge(1, e5)
	pv.Merge(0, e4)

	want := []board.Move{e4, e5, nf3}
	if got := pv.Pv(); !slices.Equal(got, want) {
		t.Fatalf("Pv = %v, want %v", got, want)
	}

	// every line is its head followed by the line below it
	for ply := 0; ply < 2; ply++ {
		line, below := pv.Line(ply), pv.Line(ply+1)
		if len(line) != len(below)+1 || !slices.Equal(line[1:], below) {
			t.Errorf("line %d = %v is not a merge of %v", ply, line, below)
		}
	}

	// Pv is a copy
	got := pv.Pv()
	got[0] = board.NoMove
	if pv.Line(0)[0] != e4 {
		t.Error("Pv aliases the table")
	}
}

func TestPVResetDropsStaleTail(t *testing.T) {
	a := quiet(board.White, board.Pawn, board.A2, board.A3)
	b := quiet(board.Black, board.Pawn, board.A7, board.A6)

	pv := NewPVTable()
	pv.AddMove(1, b)
	pv.Merge(0, a)
	if pv.Len(0) != 2 {
		t.Fatalf("Len(0) = %d, want 2", pv.Len(0))
	}

	pv.Reset(1)
	pv.Merge(0, a)
	if got := pv.Line(0); !slices.Equal(got, []board.Move{a}) {
		t.Errorf("Line(0) = %v, want only %v", got, a)
	}
}

func TestPVDeepestPly(t *testing.T) {
	m := quiet(board.White, board.Rook, board.A1, board.A2)
	pv := NewPVTable()
	pv.Reset(MaxPly)
	pv.Merge(MaxPly-1, m)
	if pv.Len(MaxPly-1) != 1 {
		t.Errorf("Len = %d, want 1", pv.Len(MaxPly-1))
	}

	pv.Clear()
	if pv.Len(0) != 0 || len(pv.Pv()) != 0 {
		t.Error("Clear left a line")
	}
}
