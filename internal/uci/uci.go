package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/position"
)

// Engine identification sent in reply to "uci".
const (
	EngineName   = "chesscore"
	EngineAuthor = "the chesscore authors"
)

// UCI implements the Universal Chess Interface protocol on top of an
// engine context.
type UCI struct {
	engine  *engine.Context
	store   OptionStore
	out     *Reporter
	log     zerolog.Logger
	options []option

	pos *position.Position

	// search state
	cancel     context.CancelFunc
	searchDone chan struct{}
}

// New creates a protocol handler writing to out. store may be nil.
func New(eng *engine.Context, store OptionStore, out io.Writer, log zerolog.Logger) *UCI {
	return &UCI{
		engine:  eng,
		store:   store,
		out:     NewReporter(out),
		log:     log.With().Str("component", "uci").Logger(),
		options: declaredOptions(),
		pos:     position.New(),
	}
}

// Run reads commands from in until "quit" or end of input. A running
// search is stopped first on "quit" and allowed to finish on end of input.
func (u *UCI) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd, args := parts[0], parts[1:]
		u.log.Debug().Str("cmd", line).Msg("received")

		var err error
		switch cmd {
		case "uci":
			err = u.handleUCI()
		case "isready":
			err = u.out.writeLine("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			err = u.handlePosition(args)
		case "go":
			err = u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return nil
		case "setoption":
			err = u.handleSetOption(args)
		// debug commands
		case "d":
			err = u.out.Log(u.pos.FEN())
		case "perft":
			err = u.handlePerft(args)
		default:
			u.log.Warn().Str("cmd", cmd).Msg("unknown command")
		}

		if err != nil {
			u.log.Warn().Err(err).Str("cmd", line).Msg("command failed")
			if logErr := u.out.Log(err.Error()); logErr != nil {
				return logErr
			}
		}
	}

	u.waitSearch()
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	return nil
}

func (u *UCI) handleUCI() error {
	lines := []string{
		"id name " + EngineName,
		"id author " + EngineAuthor,
	}
	opts := u.engine.Options()
	for _, o := range u.options {
		lines = append(lines, o.declaration(opts))
	}
	lines = append(lines, "uciok")

	for _, l := range lines {
		if err := u.out.writeLine(l); err != nil {
			return err
		}
	}
	return nil
}

func (u *UCI) handleNewGame() {
	u.handleStop()
	u.engine.NewGame()
	u.pos = position.New()
}

// handlePosition parses and sets up a position:
//
//	position startpos [moves e2e4 e7e5 ...]
//	position fen <fen> [moves ...]
func (u *UCI) handlePosition(args []string) error {
	if len(args) == 0 {
		return errors.New("position: missing arguments")
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *position.Position
	switch args[0] {
	case "startpos":
		pos = position.New()
	case "fen":
		var err error
		pos, err = position.FromFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			return fmt.Errorf("position: %w", err)
		}
	default:
		return fmt.Errorf("position: unknown keyword %q", args[0])
	}

	if movesAt < len(args) {
		for _, s := range args[movesAt+1:] {
			if err := pos.PlayUCI(s); err != nil {
				return fmt.Errorf("position: %w", err)
			}
		}
	}
	u.pos = pos
	return nil
}

// parseGo converts "go" arguments to search limits.
func parseGo(args []string) (engine.Limits, error) {
	var limits engine.Limits
	next := func(i int) (int, error) {
		if i+1 >= len(args) {
			return 0, fmt.Errorf("go %s: missing value", args[i])
		}
		n, err := strconv.Atoi(args[i+1])
		if err != nil {
			return 0, fmt.Errorf("go %s: %w", args[i], err)
		}
		return n, nil
	}
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }

	for i := 0; i < len(args); i++ {
		var n int
		var err error
		switch args[i] {
		case "infinite":
			limits.Infinite = true
			continue
		case "ponder":
			continue
		case "depth", "nodes", "movetime", "wtime", "btime", "winc", "binc", "movestogo":
			n, err = next(i)
		default:
			continue
		}
		if err != nil {
			return limits, err
		}

		switch args[i] {
		case "depth":
			limits.Depth = n
		case "nodes":
			limits.Nodes = uint64(max(0, n))
		case "movetime":
			limits.MoveTime = ms(n)
		case "wtime":
			limits.Clock.Time[board.White] = ms(n)
		case "btime":
			limits.Clock.Time[board.Black] = ms(n)
		case "winc":
			limits.Clock.Inc[board.White] = ms(n)
		case "binc":
			limits.Clock.Inc[board.Black] = ms(n)
		case "movestogo":
			limits.Clock.MovesToGo = n
		}
		i++
	}
	return limits, nil
}

// handleGo starts a search in the background. The best move is sent when
// it completes.
func (u *UCI) handleGo(args []string) error {
	limits, err := parseGo(args)
	if err != nil {
		return err
	}
	u.handleStop()

	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel
	u.searchDone = make(chan struct{})
	pos := u.pos.Clone()

	go func() {
		defer close(u.searchDone)
		defer cancel()

		res, err := u.engine.Search(ctx, pos, limits, u.sendInfo)
		if err != nil {
			u.log.Error().Err(err).Msg("search failed")
		}
		if err := u.out.BestMove(res.BestMove, res.Ponder); err != nil {
			u.log.Error().Err(err).Msg("write bestmove")
		}
		u.recordStats(res)
	}()
	return nil
}

func (u *UCI) recordStats(res engine.Result) {
	rec, ok := u.store.(StatsRecorder)
	if !ok || !u.engine.Options().CollectStatistics {
		return
	}
	if err := rec.RecordSearch(res); err != nil {
		u.log.Warn().Err(err).Msg("search statistics not recorded")
	}
}

// sendInfo forwards engine progress to the GUI.
func (u *UCI) sendInfo(info engine.Info) {
	var err error
	if info.CurrMove != board.NoMove {
		err = u.out.CurrMove(info.Depth, info.CurrMove, info.CurrMoveNumber)
	} else {
		u.log.Debug().Int("depth", info.Depth).Int("hashfull", info.HashFull).Msg("iteration")
		err = u.out.Info(info.Depth, info.Score, info.Nodes, info.Elapsed, info.PV)
	}
	if err != nil {
		u.log.Error().Err(err).Msg("write info")
	}
}

func (u *UCI) handleStop() {
	if u.cancel == nil {
		return
	}
	u.cancel()
	u.waitSearch()
}

func (u *UCI) waitSearch() {
	if u.searchDone != nil {
		<-u.searchDone
	}
	u.cancel, u.searchDone = nil, nil
}

func (u *UCI) handleSetOption(args []string) error {
	name, value := parseSetOption(args)
	o, err := findOption(u.options, name)
	if err != nil {
		return fmt.Errorf("setoption: %w", err)
	}
	if u.engine.Searching() {
		return fmt.Errorf("setoption %s: %w", o.name, engine.ErrSearching)
	}

	if o.action != nil {
		if err := o.action(u, value); err != nil {
			return fmt.Errorf("setoption %s: %w", o.name, err)
		}
		return nil
	}

	opts := u.engine.Options()
	setErr := o.set(&opts, value)
	if setErr != nil && !errors.Is(setErr, engine.ErrOutOfRange) {
		return fmt.Errorf("setoption %s: %w", o.name, setErr)
	}
	// out of range values are applied clamped and still reported
	if err := u.engine.ApplyOptions(opts); err != nil {
		return fmt.Errorf("setoption %s: %w", o.name, err)
	}
	if u.store != nil {
		if err := u.store.SaveOptions(opts); err != nil {
			u.log.Warn().Err(err).Msg("options not persisted")
		}
	}
	if setErr != nil {
		return fmt.Errorf("setoption %s: %w", o.name, setErr)
	}
	return nil
}

func (u *UCI) handlePerft(args []string) error {
	depth := 5
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("perft: %w", err)
		}
		depth = d
	}

	start := time.Now()
	nodes := engine.Perft(u.pos.Clone(), depth)
	elapsed := time.Since(start)

	nps := nodes * 1000 / uint64(max(1, elapsed.Milliseconds()))
	return u.out.Log(fmt.Sprintf("perft %d nodes %d time %d nps %d", depth, nodes, elapsed.Milliseconds(), nps))
}
