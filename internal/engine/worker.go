package engine

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/position"
)

const (
	maxQuiets        = 64
	aspirationWindow = 50
)

// Worker is one search thread. Everything it owns is private; the
// transposition table, eval cache and stop flag belong to the Context.
type Worker struct {
	id  int
	log zerolog.Logger

	pos     *position.Position
	history *History
	killers *KillerList
	pv      *PVTable
	stack   *SearchStack

	moveLists [MaxPly + 1]board.MoveList
	quiets    [MaxPly][maxQuiets]board.Move

	tt        *TranspositionTable
	evalCache *EvalCache
	stop      *atomic.Bool
	nodes     atomic.Uint64

	nodeLimit uint64
	softLimit time.Duration
	contempt  int
	randomize bool
	rootSide  board.Color

	start  time.Time
	depth  int
	report func(Info)
	result Result
}

// ID returns the worker index, 0 for the main worker.
func (w *Worker) ID() int {
	return w.id
}

// Nodes returns the nodes searched in the current search.
func (w *Worker) Nodes() uint64 {
	return w.nodes.Load()
}

// History exposes the worker's history tables.
func (w *Worker) History() *History {
	return w.history
}

// Clear forgets everything learned, used on a new game.
func (w *Worker) Clear() {
	w.history.Clear()
	w.killers.Clear()
}

func (w *Worker) prepare(pos *position.Position, opts *Options, limits Limits) {
	w.pos = pos
	w.nodes.Store(0)
	w.nodeLimit = limits.Nodes
	w.softLimit = 0
	w.contempt = opts.Contempt
	w.randomize = opts.RandomSearch
	w.rootSide = pos.SideToMove()
	w.result = Result{}

	w.killers.Clear()
	w.pv.Clear()
	w.stack.Clear()
	w.stack.Initialize(pos, w.history)
}

func (w *Worker) stopped() bool {
	if w.stop.Load() {
		return true
	}
	if w.nodeLimit > 0 && w.nodes.Load() >= w.nodeLimit {
		w.stop.Store(true)
		return true
	}
	return false
}

// iterate runs iterative deepening until the depth limit or the stop flag.
// The main worker reports after every completed iteration.
func (w *Worker) iterate(maxDepth int, start time.Time, report func(Info), hashFull func() int) {
	w.start, w.report = start, report
	first := 1 + w.id%2
	for depth := first; depth <= maxDepth; depth++ {
		w.depth = depth
		score := w.aspirate(depth, w.result.Score)
		if w.stopped() && w.result.BestMove != board.NoMove {
			break
		}

		line := w.pv.Pv()
		if len(line) == 0 {
			break
		}
		w.result.BestMove = line[0]
		w.result.Ponder = board.NoMove
		if len(line) > 1 {
			w.result.Ponder = line[1]
		}
		w.result.Score = score
		w.result.Depth = depth

		w.log.Debug().Int("depth", depth).Int("score", score).Uint64("nodes", w.Nodes()).Msg("iteration done")
		if report != nil {
			report(Info{
				Depth:    depth,
				Score:    score,
				Nodes:    w.Nodes(),
				Elapsed:  time.Since(start),
				PV:       line,
				HashFull: hashFull(),
			})
		}
		if w.stopped() || IsMateScore(score) {
			break
		}
		if w.softLimit > 0 && time.Since(start) > w.softLimit {
			break
		}
	}
}

// aspirate searches the root with a window around the previous score,
// widening to the full window on a fail.
func (w *Worker) aspirate(depth, prev int) int {
	if depth < 5 || w.result.BestMove == board.NoMove {
		return w.negamax(-Infinity, Infinity, depth, 0)
	}

	alpha, beta := prev-aspirationWindow, prev+aspirationWindow
	for {
		score := w.negamax(alpha, beta, depth, 0)
		switch {
		case w.stopped():
			return score
		case score <= alpha:
			alpha = -Infinity
		case score >= beta:
			beta = Infinity
		default:
			return score
		}
		if alpha == -Infinity && beta == Infinity {
			return w.negamax(alpha, beta, depth, 0)
		}
	}
}

func (w *Worker) drawScore() int {
	if w.pos.SideToMove() == w.rootSide {
		return -w.contempt
	}
	return w.contempt
}

func (w *Worker) negamax(alpha, beta, depth, ply int) int {
	w.pv.Reset(ply)
	if ply > 0 && w.pos.IsRepetition() {
		return w.drawScore()
	}
	if ply >= MaxPly-1 {
		return w.evaluate()
	}

	inCheck := w.pos.IsChecked()
	if inCheck {
		depth++
	}
	if depth <= 0 {
		return w.quiesce(alpha, beta, ply)
	}
	if w.stopped() {
		return 0
	}
	w.nodes.Add(1)

	item := w.stack.At(ply)
	pvNode := beta-alpha > 1
	hash := w.pos.Hash()

	var tte TTEntry
	ttHit := false
	ttMove := board.NoMove
	if item.Excluded == board.NoMove {
		if tte, ttHit = w.tt.Probe(hash); ttHit {
			ttMove = tte.BestMove()
			if !pvNode && ply > 0 && int(tte.Depth) >= depth {
				s := scoreFromTT(int(tte.Score), ply)
				switch {
				case tte.Flag == TTExact,
					tte.Flag == TTLowerBound && s >= beta,
					tte.Flag == TTUpperBound && s <= alpha:
					return s
				}
			}
		}
	}

	if inCheck {
		item.Eval = NoScore
	} else {
		item.Eval = int16(w.evaluate())
	}
	w.stack.At(ply + 1).Killers.Clear()

	singular := false
	if ply > 0 && depth >= 8 && ttHit && tte.Flag != TTUpperBound &&
		int(tte.Depth) >= depth-3 && !IsMateScore(int(tte.Score)) {
		sBeta := scoreFromTT(int(tte.Score), ply) - 2*depth
		item.Excluded = ttMove
		s := w.negamax(sBeta-1, sBeta, (depth-1)/2, ply)
		item.Excluded = board.NoMove
		singular = s < sBeta
		if w.stopped() {
			return 0
		}
	}

	ml := &w.moveLists[ply]
	w.pos.GenerateMoves(ml)
	if ml.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return w.drawScore()
	}
	w.scoreMoves(ml, ply, ttMove)

	quiets := w.quiets[ply][:0]
	best, bestMove := -Infinity, board.NoMove
	origAlpha := alpha
	searched := 0

	for i := 0; i < ml.Len(); i++ {
		m := pickMove(ml, i)
		if item.Excluded != board.NoMove && board.SquareEqual(m, item.Excluded) {
			continue
		}

		newDepth := depth - 1
		if singular && board.SquareEqual(m, ttMove) {
			newDepth++
		}

		if ply == 0 && w.report != nil && time.Since(w.start) > currMoveDelay {
			w.report(Info{Depth: w.depth, CurrMove: m.ClearScore(), CurrMoveNumber: searched + 1})
		}

		undo := w.pos.Play(m)
		w.stack.Push(ply, m, w.history, w.pos.IsChecked())

		var score int
		if searched == 0 {
			score = -w.negamax(-beta, -alpha, newDepth, ply+1)
		} else {
			score = -w.negamax(-alpha-1, -alpha, newDepth, ply+1)
			if score > alpha && score < beta {
				score = -w.negamax(-beta, -alpha, newDepth, ply+1)
			}
		}
		undo()
		searched++

		if w.stopped() {
			return 0
		}

		if score > best {
			best, bestMove = score, m
			if score > alpha {
				alpha = score
				w.pv.Merge(ply, m.ClearScore())
				if score >= beta {
					if m.IsQuiet() {
						w.killers.Add(m.ClearScore(), ply)
						item.Killers.Add(m.ClearScore())
						w.history.UpdateCutoff(m.ClearScore(), ply, quiets, w.stack, depth)
					}
					break
				}
			}
		}
		if m.IsQuiet() && len(quiets) < maxQuiets {
			quiets = append(quiets, m)
		}
	}

	if searched == 0 {
		// only the excluded move was legal
		return alpha
	}

	if item.Excluded == board.NoMove {
		flag := TTExact
		switch {
		case best >= beta:
			flag = TTLowerBound
		case best <= origAlpha:
			flag = TTUpperBound
		}
		w.tt.Store(hash, depth, scoreToTT(best, ply), flag, bestMove)
	}
	return best
}

func (w *Worker) quiesce(alpha, beta, ply int) int {
	w.pv.Reset(ply)
	if w.stopped() {
		return 0
	}
	w.nodes.Add(1)
	if ply >= MaxPly-1 {
		return w.evaluate()
	}

	inCheck := w.pos.IsChecked()
	best := -Infinity
	if !inCheck {
		best = w.evaluate()
		if best >= beta {
			return best
		}
		alpha = max(alpha, best)
	}

	ml := &w.moveLists[ply]
	w.pos.GenerateMoves(ml)
	if ml.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return w.drawScore()
	}
	w.scoreMoves(ml, ply, board.NoMove)

	for i := 0; i < ml.Len(); i++ {
		m := pickMove(ml, i)
		if !inCheck && m.Score() < PromotionScore {
			break
		}

		undo := w.pos.Play(m)
		w.stack.Push(ply, m, w.history, false)
		score := -w.quiesce(-beta, -alpha, ply+1)
		undo()

		if w.stopped() {
			return 0
		}
		if score > best {
			best = score
			if score > alpha {
				alpha = score
				w.pv.Merge(ply, m.ClearScore())
				if score >= beta {
					break
				}
			}
		}
	}
	return best
}

// rootJitter perturbs root ordering when random search is enabled.
func (w *Worker) rootJitter(ply int) int {
	if !w.randomize || ply != 0 {
		return 0
	}
	return frand.Intn(64)
}
