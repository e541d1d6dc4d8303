package engine

import "github.com/hailam/chesscore/internal/board"

// Move ordering priorities.
const (
	TTMoveScore     = 10000000
	GoodCaptureBase = 1000000
	PromotionScore  = GoodCaptureBase - 1000
	KillerScore     = 900000
	CounterScore    = 800000
)

// mvvLva[victim][attacker], indexed by board.Piece.
var mvvLva = [board.King + 1][board.King + 1]int{
	board.Pawn:   {0, 15, 14, 14, 13, 12, 11},
	board.Knight: {0, 25, 24, 24, 23, 22, 21},
	board.Bishop: {0, 35, 34, 34, 33, 32, 31},
	board.Rook:   {0, 45, 44, 44, 43, 42, 41},
	board.Queen:  {0, 55, 54, 54, 53, 52, 51},
}

// scoreMoves writes an ordering score into every move of ml: the hash
// move first, then captures by MVV-LVA, promotions, killers, counter
// moves and finally history for the remaining quiet moves.
func (w *Worker) scoreMoves(ml *board.MoveList, ply int, ttMove board.Move) {
	item := w.stack.At(ply)
	counters := w.history.Counters().Get(w.stack.At(ply - 1).Move)
	killers := w.killers.Killers(ply)

	moves := ml.Slice()
	for i, m := range moves {
		moves[i] = m.WithScore(int32(w.moveScore(m, ply, ttMove, item, killers, &counters) + w.rootJitter(ply)))
	}
}

func (w *Worker) moveScore(m board.Move, ply int, ttMove board.Move, item *SearchItem, killers []board.Move, counters *KillerPair) int {
	switch {
	case ttMove != board.NoMove && board.SquareEqual(m, ttMove) && m.Promote() == ttMove.Promote():
		return TTMoveScore
	case m.IsCapture():
		return GoodCaptureBase + mvvLva[m.Capture()][m.Piece()]*1000 + int(m.Promote())*100
	case m.IsPromote():
		return PromotionScore + int(m.Promote())*100
	}

	for i, k := range killers {
		if k != board.NoMove && board.SquareEqual(k, m) {
			return KillerScore - i*1000
		}
	}
	if item.Killers.Contains(m) {
		return KillerScore - len(killers)*1000
	}
	if counters.Contains(m) {
		return CounterScore
	}
	return w.history.Ordering(m, w.stack, ply)
}

// pickMove swaps the best scored move from index onward into index.
func pickMove(ml *board.MoveList, index int) board.Move {
	moves := ml.Slice()
	best := index
	for j := index + 1; j < len(moves); j++ {
		if moves[j].Score() > moves[best].Score() {
			best = j
		}
	}
	if best != index {
		ml.Swap(index, best)
	}
	return moves[index]
}
