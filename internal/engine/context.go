package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/position"
)

// ErrSearching is returned when a search is started while another runs.
var ErrSearching = errors.New("search already running")

// Context owns the state shared by all workers: options, the transposition
// table, the eval cache and the stop flag.
type Context struct {
	log zerolog.Logger

	mu        sync.Mutex
	opts      Options
	tt        *TranspositionTable
	evalCache *EvalCache
	workers   []*Worker

	stop      atomic.Bool
	searching atomic.Bool
}

// NewContext builds a context sized by opts.
func NewContext(opts Options, log zerolog.Logger) *Context {
	opts.Clamp()
	c := &Context{
		log:       log.With().Str("component", "engine").Logger(),
		opts:      opts,
		tt:        NewTranspositionTable(opts.Hash),
		evalCache: NewEvalCache(DefaultEvalCacheMB),
	}
	c.resizeWorkers(opts.Threads)
	c.logSizes()
	return c
}

// Options returns a copy of the current options.
func (c *Context) Options() Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}

// ApplyOptions replaces the options, resizing the hash table and the worker
// pool as needed. It fails while a search runs.
func (c *Context) ApplyOptions(opts Options) error {
	if c.searching.Load() {
		return ErrSearching
	}
	opts.Clamp()

	c.mu.Lock()
	defer c.mu.Unlock()
	if opts.Hash != c.opts.Hash {
		c.tt = NewTranspositionTable(opts.Hash)
	}
	if opts.Threads != len(c.workers) {
		c.resizeWorkers(opts.Threads)
	}
	c.opts = opts
	c.logSizes()
	return nil
}

// ResizeEvalCache changes the eval cache size in megabytes.
func (c *Context) ResizeEvalCache(mb int) error {
	if c.searching.Load() {
		return ErrSearching
	}
	c.evalCache.Resize(mb)
	c.logSizes()
	return nil
}

// EvalCache returns the shared eval cache.
func (c *Context) EvalCache() *EvalCache {
	return c.evalCache
}

func (c *Context) logSizes() {
	c.log.Info().
		Str("hash", humanize.IBytes(uint64(c.opts.Hash)*mib)).
		Str("eval_cache", humanize.IBytes(c.evalCache.Capacity()*evalEntrySize)).
		Uint64("eval_entries", c.evalCache.Capacity()).
		Int("threads", len(c.workers)).
		Msg("engine configured")
}

func (c *Context) resizeWorkers(n int) {
	workers := make([]*Worker, n)
	for i := range workers {
		if i < len(c.workers) {
			workers[i] = c.workers[i]
			continue
		}
		workers[i] = c.NewWorker(i)
	}
	c.workers = workers
}

// NewWorker builds a worker with its own history, killers, PV table and
// search stack, sharing the context's eval cache and stop flag.
func (c *Context) NewWorker(id int) *Worker {
	return &Worker{
		id:        id,
		log:       c.log.With().Int("worker", id).Logger(),
		history:   NewHistory(),
		killers:   NewKillerList(DefaultKillers),
		pv:        NewPVTable(),
		stack:     NewSearchStack(),
		evalCache: c.evalCache,
		stop:      &c.stop,
	}
}

// NewGame clears every table learned from previous games.
func (c *Context) NewGame() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tt.Clear()
	c.evalCache.Clear()
	for _, w := range c.workers {
		w.Clear()
	}
}

// ClearHash empties the transposition table and the eval cache.
func (c *Context) ClearHash() error {
	if c.searching.Load() {
		return ErrSearching
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tt.Clear()
	c.evalCache.Clear()
	return nil
}

// Stop asks a running search to return as soon as possible.
func (c *Context) Stop() {
	c.stop.Store(true)
}

// Searching reports whether a search is running.
func (c *Context) Searching() bool {
	return c.searching.Load()
}

// Search runs all workers on pos until a limit is hit, ctx is cancelled or
// Stop is called. Only the main worker reports progress. The returned move
// is NoMove only when pos has no legal moves.
func (c *Context) Search(ctx context.Context, pos *position.Position, limits Limits, report func(Info)) (Result, error) {
	if !c.searching.CompareAndSwap(false, true) {
		return Result{}, ErrSearching
	}
	defer c.searching.Store(false)

	c.mu.Lock()
	opts, tt, workers := c.opts, c.tt, c.workers
	c.mu.Unlock()

	c.stop.Store(false)
	tt.NewSearch()

	hard, soft := limits.MoveTime, time.Duration(0)
	if hard == 0 && !limits.Infinite && limits.Clock.IsSet() {
		soft, hard = Budget(limits.Clock, int(pos.SideToMove()), pos.Ply())
	}
	if hard > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, hard)
		defer cancel()
	}

	maxDepth := MaxPly - 1
	if limits.Depth > 0 {
		maxDepth = min(limits.Depth, maxDepth)
	}

	start := time.Now()
	done, watched := make(chan struct{}), make(chan struct{})
	go func() {
		defer close(watched)
		select {
		case <-ctx.Done():
			c.Stop()
		case <-done:
		}
	}()

	g := new(errgroup.Group)
	for _, w := range workers {
		w.tt = tt
		w.prepare(pos.Clone(), &opts, limits)
		w.softLimit = soft
		var rep func(Info)
		if w.id == 0 {
			rep = report
		}
		w := w
		g.Go(func() error {
			w.iterate(maxDepth, start, rep, tt.HashFull)
			if w.id == 0 {
				// helpers finish with the main worker
				c.Stop()
			}
			return nil
		})
	}
	err := g.Wait()
	close(done)
	<-watched
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}

	result := workers[0].result
	for _, w := range workers {
		result.Nodes += w.Nodes()
	}
	result.Elapsed = time.Since(start)
	if result.BestMove == board.NoMove {
		result.BestMove = fallbackMove(pos)
	}

	c.log.Debug().
		Str("bestmove", result.BestMove.String()).
		Int("depth", result.Depth).
		Int("score", result.Score).
		Uint64("nodes", result.Nodes).
		Dur("elapsed", result.Elapsed).
		Msg("search done")
	return result, nil
}

func fallbackMove(pos *position.Position) board.Move {
	var ml board.MoveList
	pos.GenerateMoves(&ml)
	if ml.Len() == 0 {
		return board.NoMove
	}
	m, _ := ml.At(0)
	return m
}

// Perft counts the leaf nodes of the legal move tree to depth.
func Perft(pos *position.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	var ml board.MoveList
	pos.GenerateMoves(&ml)
	if depth == 1 {
		return uint64(ml.Len())
	}

	var nodes uint64
	for _, m := range ml.Slice() {
		undo := pos.Play(m)
		nodes += Perft(pos, depth-1)
		undo()
	}
	return nodes
}

// ScoreString renders a score for humans: pawns, or mate distance.
func ScoreString(score int) string {
	if IsMateScore(score) {
		n := MateIn(score)
		if n < 0 {
			return "mated in " + strconv.Itoa(-n)
		}
		return "mate in " + strconv.Itoa(n)
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}
