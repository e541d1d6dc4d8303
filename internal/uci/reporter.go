package uci

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

// Reporter writes UCI output lines. Every call writes exactly one
// newline-terminated line and flushes it. It is safe for concurrent use.
type Reporter struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewReporter returns a reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: bufio.NewWriter(w)}
}

func (r *Reporter) writeLine(line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.w.WriteString(line); err != nil {
		return fmt.Errorf("write %q: %w", line, err)
	}
	if err := r.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	if err := r.w.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

func (r *Reporter) printf(format string, args ...any) error {
	return r.writeLine(fmt.Sprintf(format, args...))
}

// Info reports a completed iteration:
//
//	info depth D score cp S nodes N nps R time T pv m1 m2 ...
//
// Mate scores are sent as "score mate M", negative when the engine is
// being mated.
func (r *Reporter) Info(depth, score int, nodes uint64, elapsed time.Duration, pv []board.Move) error {
	ms := elapsed.Milliseconds()
	nps := nodes * 1000 / uint64(max(1, ms))

	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d ", depth)
	if engine.IsMateScore(score) {
		fmt.Fprintf(&sb, "score mate %d", engine.MateIn(score))
	} else {
		fmt.Fprintf(&sb, "score cp %d", score)
	}
	fmt.Fprintf(&sb, " nodes %d nps %d time %d", nodes, nps, ms)
	if len(pv) > 0 {
		sb.WriteString(" pv ")
		sb.WriteString(strings.Join(lo.Map(pv, func(m board.Move, _ int) string {
			return m.String()
		}), " "))
	}
	return r.writeLine(sb.String())
}

// BestMove reports the search result. A ponder move is appended when
// present.
func (r *Reporter) BestMove(m, ponder board.Move) error {
	if ponder.IsNull() {
		return r.printf("bestmove %s", m)
	}
	return r.printf("bestmove %s ponder %s", m, ponder)
}

// CurrMove reports the root move being searched.
func (r *Reporter) CurrMove(depth int, m board.Move, number int) error {
	return r.printf("info depth %d currmove %s currmovenumber %d", depth, m, number)
}

// Log sends a free-form message to the GUI.
func (r *Reporter) Log(msg string) error {
	return r.writeLine("info string " + msg)
}
