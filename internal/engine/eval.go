package engine

import (
	"github.com/hailam/chesscore/internal/attacks"
	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/position"
)

// Material values as (middlegame, endgame) pairs, indexed by board.Piece.
var material = [board.King + 1]Score{
	board.Pawn:   S(82, 94),
	board.Knight: S(337, 281),
	board.Bishop: S(365, 297),
	board.Rook:   S(477, 512),
	board.Queen:  S(1025, 936),
}

// Piece-square tables are written rank 8 first, as seen from White.
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMidgamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// pst[color][piece][square] holds material plus placement.
var pst [2][board.King + 1][64]Score

func init() {
	mg := [board.King + 1]*[64]int{nil, &pawnPST, &knightPST, &bishopPST, &rookPST, &queenPST, &kingMidgamePST}
	eg := [board.King + 1]*[64]int{nil, &pawnPST, &knightPST, &bishopPST, &rookPST, &queenPST, &kingEndgamePST}
	for p := board.Pawn; p <= board.King; p++ {
		for sq := 0; sq < 64; sq++ {
			// white reads the table mirrored, black reads it as written
			white := material[p].Add(S(int16(mg[p][sq^56]), int16(eg[p][sq^56])))
			black := material[p].Add(S(int16(mg[p][sq]), int16(eg[p][sq])))
			pst[board.White][p][sq] = white
			pst[board.Black][p][sq] = black
		}
	}
}

// tempo is the bonus for having the move.
var tempo = S(10, 0)

// evaluate returns the static evaluation from the side to move's point of
// view, served from the shared eval cache when possible.
func (w *Worker) evaluate() int {
	hash := w.pos.Hash()
	if score, ok := w.evalCache.TryGetScore(hash); ok {
		return int(score)
	}
	score := Evaluate(w.pos)
	w.evalCache.Add(hash, int16(score))
	return score
}

// Evaluate scores pos from the side to move's point of view.
func Evaluate(pos *position.Position) int {
	var total [2]Score
	for c := board.White; c <= board.Black; c++ {
		pieces := pos.Pieces(c)
		total[c] = sideScore(c, &pieces)
	}

	stm := pos.SideToMove()
	s := total[stm].Sub(total[stm.Other()]).Add(tempo)
	phase := pos.Phase() * MaxPhase / 24
	return int(s.Normalize(phase))
}

func sideScore(c board.Color, pieces *attacks.Pieces) Score {
	var s Score
	for p := board.Pawn; p <= board.King; p++ {
		bb := pieces[p]
		for bb != 0 {
			s = s.Add(pst[c][p][bb.PopLSB()])
		}
	}
	if pieces[board.Bishop].PopCount() >= 2 {
		s = s.Add(S(25, 50))
	}
	return s
}
