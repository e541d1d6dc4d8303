package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/position"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	opts := DefaultOptions()
	opts.Hash = MinHash
	return NewContext(opts, zerolog.Nop())
}

func mustFEN(t *testing.T, fen string) *position.Position {
	t.Helper()
	pos, err := position.FromFEN(fen)
	if err != nil {
		t.Fatalf("FromFEN(%q): %v", fen, err)
	}
	return pos
}

func TestSearchFindsMateInOne(t *testing.T) {
	c := newTestContext(t)
	pos := mustFEN(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")

	var infos []Info
	res, err := c.Search(context.Background(), pos, Limits{Depth: 4}, func(i Info) {
		infos = append(infos, i)
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := res.BestMove.String(); got != "a1a8" {
		t.Errorf("BestMove = %s, want a1a8", got)
	}
	if res.Score != MateScore-1 || MateIn(res.Score) != 1 {
		t.Errorf("Score = %d, want mate in 1", res.Score)
	}
	if len(infos) == 0 || infos[len(infos)-1].PV[0] != res.BestMove {
		t.Errorf("reports = %+v", infos)
	}
	if res.Nodes == 0 {
		t.Error("no nodes counted")
	}
}

func TestSearchWinsMaterial(t *testing.T) {
	c := newTestContext(t)
	// the black queen on d5 hangs to the knight
	pos := mustFEN(t, "4k3/8/8/3q4/8/4N3/8/4K3 w - - 0 1")

	res, err := c.Search(context.Background(), pos, Limits{Depth: 3}, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := res.BestMove.String(); got != "e3d5" {
		t.Errorf("BestMove = %s, want e3d5", got)
	}
	if res.Score <= 0 {
		t.Errorf("Score = %d, want positive", res.Score)
	}
}

func TestSearchNoLegalMoves(t *testing.T) {
	c := newTestContext(t)
	pos := mustFEN(t, "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1")

	res, err := c.Search(context.Background(), pos, Limits{Depth: 3}, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.BestMove != board.NoMove || res.BestMove.String() != "0000" {
		t.Errorf("BestMove = %v, want none", res.BestMove)
	}
}

func TestSearchStops(t *testing.T) {
	c := newTestContext(t)
	pos := position.New()

	t.Run("node limit", func(t *testing.T) {
		res, err := c.Search(context.Background(), pos, Limits{Nodes: 2000}, nil)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if res.BestMove == board.NoMove {
			t.Error("no move returned")
		}
	})

	t.Run("move time", func(t *testing.T) {
		start := time.Now()
		res, err := c.Search(context.Background(), pos, Limits{MoveTime: 50 * time.Millisecond}, nil)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if res.BestMove == board.NoMove {
			t.Error("no move returned")
		}
		if elapsed := time.Since(start); elapsed > 2*time.Second {
			t.Errorf("search ran %v", elapsed)
		}
	})

	t.Run("cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()
		res, err := c.Search(ctx, pos, Limits{Infinite: true}, nil)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if res.BestMove == board.NoMove {
			t.Error("no move returned")
		}
	})
}

func TestApplyOptions(t *testing.T) {
	c := newTestContext(t)
	opts := c.Options()
	opts.Hash = 32
	opts.Contempt = 20
	if err := c.ApplyOptions(opts); err != nil {
		t.Fatalf("ApplyOptions: %v", err)
	}
	if got := c.Options(); got.Hash != 32 || got.Contempt != 20 {
		t.Errorf("Options = %+v", got)
	}

	c.searching.Store(true)
	if err := c.ApplyOptions(opts); !errors.Is(err, ErrSearching) {
		t.Errorf("ApplyOptions while searching = %v, want ErrSearching", err)
	}
	if err := c.ResizeEvalCache(2); !errors.Is(err, ErrSearching) {
		t.Errorf("ResizeEvalCache while searching = %v, want ErrSearching", err)
	}
	c.searching.Store(false)

	if err := c.ResizeEvalCache(2); err != nil || c.EvalCache().SizeMB() != 2 {
		t.Errorf("ResizeEvalCache = %v, size %d", err, c.EvalCache().SizeMB())
	}
	c.NewGame()
}

func TestPerft(t *testing.T) {
	tests := []struct {
		fen   string
		depth int
		want  uint64
	}{
		{position.StartFEN, 1, 20},
		{position.StartFEN, 2, 400},
		{position.StartFEN, 3, 8902},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 1, 48},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2, 2039},
	}
	for _, tt := range tests {
		if got := Perft(mustFEN(t, tt.fen), tt.depth); got != tt.want {
			t.Errorf("Perft(%q, %d) = %d, want %d", tt.fen, tt.depth, got, tt.want)
		}
	}
}

func TestScoreString(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{150, "1.50"},
		{-5, "-0.05"},
		{0, "0.00"},
		{MateScore - 1, "mate in 1"},
		{MateScore - 4, "mate in 2"},
		{-MateScore + 2, "mated in 1"},
	}
	for _, tt := range tests {
		if got := ScoreString(tt.score); got != tt.want {
			t.Errorf("ScoreString(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
