package engine

import "github.com/hailam/chesscore/internal/board"

// HistoryMax is the saturation threshold. When a bucket reaches it the
// whole table is halved.
const HistoryMax = 20000

const (
	historyLen = 2 * 64 * 64
	pieceToLen = 2 * board.PieceCount * 64
)

// History holds one worker's quiet-move ordering statistics: the butterfly
// table indexed by side, from and to, continuation history keyed by the
// previous moves, and counter moves. Not safe for concurrent use.
type History struct {
	butterfly    [historyLen]int32
	continuation ContinuationHistory
	counters     CounterMoves
}

// NewHistory returns a zeroed history.
func NewHistory() *History {
	return &History{}
}

func butterflyIndex(c board.Color, from, to board.Square) int {
	return int(c)<<12 | int(from)<<6 | int(to)
}

// At returns the butterfly value for a move.
func (h *History) At(c board.Color, from, to board.Square) int {
	return int(h.butterfly[butterflyIndex(c, from, to)])
}

// Update adds delta to a butterfly bucket, halving the entire table when
// the bucket saturates.
func (h *History) Update(c board.Color, from, to board.Square, delta int) {
	assert(c <= board.Black && from.IsValid() && to.IsValid(), "history index out of range")
	i := butterflyIndex(c, from, to)
	v := h.butterfly[i] + int32(delta)
	h.butterfly[i] = v
	if v >= HistoryMax || v <= -HistoryMax {
		for j := range h.butterfly {
			h.butterfly[j] >>= 1
		}
	}
}

// Continuation returns the continuation history table.
func (h *History) Continuation() *ContinuationHistory {
	return &h.continuation
}

// Counters returns the counter-move table.
func (h *History) Counters() *CounterMoves {
	return &h.counters
}

// Clear zeroes every table.
func (h *History) Clear() {
	h.butterfly = [historyLen]int32{}
	h.continuation.Clear()
	h.counters.Clear()
}

// historyBonus is the cutoff reward for a given remaining depth.
func historyBonus(depth int) int {
	return ((depth * depth) >> 1) + (depth << 1) - 1
}

// UpdateCutoff rewards the quiet move that caused a beta cutoff at ply and
// penalizes the quiet moves searched before it.
func (h *History) UpdateCutoff(move board.Move, ply int, quiets []board.Move, ss *SearchStack, depth int) {
	bonus := historyBonus(depth)
	prev1 := ss.At(ply - 1)
	prev2 := ss.At(ply - 2)

	h.reward(move, prev1, prev2, bonus)
	for _, q := range quiets {
		if board.SquareEqual(q, move) {
			continue
		}
		h.reward(q, prev1, prev2, -bonus)
	}

	if !prev1.Move.IsNull() {
		h.counters.Add(prev1.Move, move)
	}
}

func (h *History) reward(m board.Move, prev1, prev2 *SearchItem, delta int) {
	h.Update(m.Stm(), m.From(), m.To(), delta)
	if prev1.Continuation != nil {
		prev1.Continuation.Update(m, delta)
	}
	if prev2.Continuation != nil {
		prev2.Continuation.Update(m, delta)
	}
}

// Ordering returns the combined butterfly and continuation value used to
// sort quiet moves at ply.
func (h *History) Ordering(m board.Move, ss *SearchStack, ply int) int {
	v := h.At(m.Stm(), m.From(), m.To())
	if t := ss.At(ply - 1).Continuation; t != nil {
		v += t.At(m)
	}
	if t := ss.At(ply - 2).Continuation; t != nil {
		v += t.At(m)
	}
	return v
}

// PieceToHistory is a continuation sub-table indexed by the color, piece
// and destination of the move being ordered.
type PieceToHistory [pieceToLen]int32

func pieceToIndex(m board.Move) (int, bool) {
	p, c := m.Piece(), m.Stm()
	if !p.IsValid() || c > board.Black {
		return 0, false
	}
	return (int(c)*board.PieceCount+p.Index())<<6 | int(m.To()), true
}

// At returns the value for m, 0 for moves without a piece.
func (t *PieceToHistory) At(m board.Move) int {
	i, ok := pieceToIndex(m)
	if !ok {
		return 0
	}
	return int(t[i])
}

// Update adds delta for m, halving this sub-table when the bucket
// saturates.
func (t *PieceToHistory) Update(m board.Move, delta int) {
	i, ok := pieceToIndex(m)
	if !ok {
		return
	}
	v := t[i] + int32(delta)
	t[i] = v
	if v >= HistoryMax || v <= -HistoryMax {
		for j := range t {
			t[j] >>= 1
		}
	}
}

// ContinuationHistory maps a previous move (color, piece, to) to its
// PieceToHistory. The extra last sub-table serves null moves and the
// virtual plies before the root.
type ContinuationHistory struct {
	tables [pieceToLen + 1]PieceToHistory
}

// For returns the sub-table keyed by m.
func (ch *ContinuationHistory) For(m board.Move) *PieceToHistory {
	i, ok := pieceToIndex(m)
	if !ok || m.IsNull() {
		return ch.Null()
	}
	return &ch.tables[i]
}

// Null returns the sub-table used after a null move.
func (ch *ContinuationHistory) Null() *PieceToHistory {
	return &ch.tables[pieceToLen]
}

// Clear zeroes every sub-table.
func (ch *ContinuationHistory) Clear() {
	for i := range ch.tables {
		ch.tables[i] = PieceToHistory{}
	}
}

// CounterMoves remembers, per previous move, the replies that refuted it.
type CounterMoves struct {
	pairs [pieceToLen]KillerPair
}

// Get returns the counter moves recorded for prev.
func (cm *CounterMoves) Get(prev board.Move) KillerPair {
	i, ok := pieceToIndex(prev)
	if !ok {
		return KillerPair{}
	}
	return cm.pairs[i]
}

// Add records reply as a counter to prev.
func (cm *CounterMoves) Add(prev, reply board.Move) {
	i, ok := pieceToIndex(prev)
	if !ok {
		return
	}
	cm.pairs[i].Add(reply)
}

// Clear forgets every counter move.
func (cm *CounterMoves) Clear() {
	cm.pairs = [pieceToLen]KillerPair{}
}
