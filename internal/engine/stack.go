package engine

import "github.com/hailam/chesscore/internal/board"

// StackOffset is the number of virtual plies below the root.
const StackOffset = 4

// NoScore marks a search item without a static evaluation.
const NoScore int16 = -32768

// BoardState is the read-only view of the game the search stack is seeded
// from.
type BoardState interface {
	LastMove() board.Move
	PrevLastMove() board.Move
	IsChecked() bool
	IsPromotionThreat(m board.Move) bool
}

// SearchItem is the per-ply record shared by recursive search calls.
type SearchItem struct {
	Move              board.Move
	IsCheckingMove    bool
	IsPromotionThreat bool
	Killers           KillerPair
	Eval              int16
	Continuation      *PieceToHistory
	Excluded          board.Move
}

// Reset restores the defaults.
func (it *SearchItem) Reset() {
	*it = SearchItem{Eval: NoScore}
}

// SearchStack holds MaxPly items plus StackOffset virtual plies so that
// ply-1 and ply-2 lookups at the root stay in range.
type SearchStack struct {
	items [MaxPly + StackOffset]SearchItem
}

// NewSearchStack returns a cleared stack.
func NewSearchStack() *SearchStack {
	s := &SearchStack{}
	s.Clear()
	return s
}

// At returns the item for ply, valid for ply in [-StackOffset, MaxPly).
func (s *SearchStack) At(ply int) *SearchItem {
	assert(ply >= -StackOffset && ply < MaxPly, "search stack ply out of range")
	return &s.items[ply+StackOffset]
}

// Clear resets every item.
func (s *SearchStack) Clear() {
	for i := range s.items {
		s.items[i].Reset()
	}
}

// Initialize seeds the plies below the root from the game so far. It must
// be called once per search before the root is expanded.
func (s *SearchStack) Initialize(bs BoardState, h *History) {
	cont := h.Continuation()
	for ply := -StackOffset; ply < -2; ply++ {
		it := s.At(ply)
		it.Reset()
		it.Move = board.NullMove
		it.Continuation = cont.Null()
	}

	prev := bs.PrevLastMove()
	it := s.At(-2)
	it.Reset()
	it.Move = prev
	it.Continuation = cont.For(prev)

	last := bs.LastMove()
	it = s.At(-1)
	it.Reset()
	it.Move = last
	it.Continuation = cont.For(last)
	it.IsCheckingMove = bs.IsChecked()
	it.IsPromotionThreat = !last.IsNull() && bs.IsPromotionThreat(last)
}

// Push records m as the move played at ply.
func (s *SearchStack) Push(ply int, m board.Move, h *History, givesCheck bool) {
	it := s.At(ply)
	it.Move = m
	it.Continuation = h.Continuation().For(m)
	it.IsCheckingMove = givesCheck
}
