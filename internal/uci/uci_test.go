package uci

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/engine"
)

type memStore struct {
	saved    []engine.Options
	searches []engine.Result
}

func (m *memStore) SaveOptions(o engine.Options) error {
	m.saved = append(m.saved, o)
	return nil
}

func (m *memStore) RecordSearch(r engine.Result) error {
	m.searches = append(m.searches, r)
	return nil
}

func newTestUCI(t *testing.T) (*UCI, *bytes.Buffer, *memStore) {
	t.Helper()
	opts := engine.DefaultOptions()
	opts.Hash = engine.MinHash
	eng := engine.NewContext(opts, zerolog.Nop())

	var out bytes.Buffer
	store := &memStore{}
	return New(eng, store, &out, zerolog.Nop()), &out, store
}

func run(t *testing.T, u *UCI, script ...string) {
	t.Helper()
	if err := u.Run(strings.NewReader(strings.Join(script, "\n") + "\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func lines(out *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func TestHandshake(t *testing.T) {
	u, out, _ := newTestUCI(t)
	run(t, u, "uci", "isready", "quit")

	got := lines(out)
	if got[0] != "id name "+EngineName {
		t.Errorf("first line = %q", got[0])
	}
	for _, want := range []string{
		"option name Clear Hash type button",
		"option name Hash type spin default 16 min 16 max 2048",
		"option name OwnBook type check default true",
		"option name SyzygyPath type string default <empty>",
		"option name SyzygyProbeDepth type spin default 2 min 0 max 63",
		"option name UCI_AnalyseMode type check default false",
		"uciok",
		"readyok",
	} {
		if !slices.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
	if i, j := slices.Index(got, "uciok"), slices.Index(got, "readyok"); i > j {
		t.Error("readyok before uciok")
	}
}

func TestSetOption(t *testing.T) {
	u, out, store := newTestUCI(t)
	run(t, u,
		"setoption name Hash value 32",
		"setoption name ownbook value false",
		"setoption name Hash value 1",
		"setoption name Bogus value 3",
		"setoption name Threads value many",
		"setoption name SyzygyPath value /tmp/my tables",
		"setoption name EvalCache value 2",
		"setoption name Clear Hash",
	)

	opts := u.engine.Options()
	if opts.Hash != engine.MinHash {
		t.Errorf("Hash = %d, want clamped %d", opts.Hash, engine.MinHash)
	}
	if opts.OwnBook {
		t.Error("OwnBook still set")
	}
	if opts.SyzygyPath != "/tmp/my tables" {
		t.Errorf("SyzygyPath = %q", opts.SyzygyPath)
	}
	if u.engine.EvalCache().SizeMB() != 2 {
		t.Errorf("eval cache = %d MB, want 2", u.engine.EvalCache().SizeMB())
	}

	if len(store.saved) != 4 {
		t.Fatalf("saved %d times, want 4", len(store.saved))
	}
	if store.saved[0].Hash != 32 {
		t.Errorf("first save Hash = %d, want 32", store.saved[0].Hash)
	}

	got := lines(out)
	if len(got) != 3 {
		t.Fatalf("output = %q, want three error lines", got)
	}
	for i, want := range []string{"out of range", "unknown option", "bad option value"} {
		if !strings.HasPrefix(got[i], "info string ") || !strings.Contains(got[i], want) {
			t.Errorf("line %d = %q, want info string with %q", i, got[i], want)
		}
	}
}

func TestParseSetOption(t *testing.T) {
	tests := []struct {
		args        string
		name, value string
	}{
		{"name Hash value 128", "Hash", "128"},
		{"name Clear Hash", "Clear Hash", ""},
		{"name SyzygyPath value C:\\tb value dir", "SyzygyPath", "C:\\tb value dir"},
		{"value 3", "", ""},
	}
	for _, tt := range tests {
		name, value := parseSetOption(strings.Fields(tt.args))
		if name != tt.name || value != tt.value {
			t.Errorf("parseSetOption(%q) = (%q, %q), want (%q, %q)", tt.args, name, value, tt.name, tt.value)
		}
	}
}

func TestFindOption(t *testing.T) {
	options := declaredOptions()
	if o, err := findOption(options, "HASH"); err != nil || o.name != "Hash" {
		t.Errorf("findOption(HASH) = %v, %v", o.name, err)
	}
	if _, err := findOption(options, "nope"); !errors.Is(err, ErrUnknownOption) {
		t.Errorf("err = %v, want ErrUnknownOption", err)
	}
}

func TestPosition(t *testing.T) {
	u, out, _ := newTestUCI(t)
	run(t, u,
		"position startpos moves e2e4 e7e5 g1f3",
		"d",
		"position fen 4k3/8/8/8/8/8/8/4K3 w - - 0 1 moves e2e4",
		"position fen not a fen",
		"position startpos moves e2e5",
	)

	got := lines(out)
	if len(got) != 4 {
		t.Fatalf("output = %q", got)
	}
	if want := "info string rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b "; !strings.HasPrefix(got[0], want) {
		t.Errorf("d = %q, want prefix %q", got[0], want)
	}
	if u.pos.Ply() != 3 {
		t.Errorf("failed commands replaced the position, ply = %d", u.pos.Ply())
	}
}

func TestGoMateInOne(t *testing.T) {
	u, out, _ := newTestUCI(t)
	run(t, u,
		"position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
		"go depth 3",
	)

	got := lines(out)
	last := got[len(got)-1]
	if last != "bestmove a1a8" {
		t.Errorf("last line = %q, want bestmove a1a8", last)
	}
	if !strings.Contains(out.String(), "score mate 1 ") {
		t.Errorf("no mate score in %q", out.String())
	}
}

func TestCollectStats(t *testing.T) {
	u, _, store := newTestUCI(t)
	run(t, u, "position startpos", "go depth 1")
	run(t, u, "setoption name CollectStats value true", "go depth 2")
	if len(store.searches) != 1 {
		t.Fatalf("recorded %d searches, want 1", len(store.searches))
	}
	if r := store.searches[0]; r.Depth != 2 || r.Nodes == 0 {
		t.Errorf("recorded %+v", r)
	}
}

func TestGoNoLegalMoves(t *testing.T) {
	u, out, _ := newTestUCI(t)
	run(t, u,
		"position fen R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1",
		"go depth 2",
		"quit",
	)
	if got := lines(out); got[len(got)-1] != "bestmove 0000" {
		t.Errorf("output = %q, want bestmove 0000", got)
	}
}

func TestGoStop(t *testing.T) {
	u, out, _ := newTestUCI(t)
	run(t, u,
		"ucinewgame",
		"position startpos",
		"go infinite",
		"stop",
		"go wtime 1000 btime 1000 winc 10 binc 10",
		"stop",
	)

	n := strings.Count(out.String(), "bestmove ")
	if n != 2 {
		t.Errorf("%d bestmove lines, want 2", n)
	}
	if strings.Contains(out.String(), "bestmove 0000") {
		t.Error("stopped search returned no move")
	}
}

func TestParseGo(t *testing.T) {
	limits, err := parseGo(strings.Fields("wtime 60000 btime 50000 winc 1000 binc 500 movestogo 20 depth 8 nodes 5000"))
	if err != nil {
		t.Fatalf("parseGo: %v", err)
	}
	if limits.Depth != 8 || limits.Nodes != 5000 || limits.Clock.MovesToGo != 20 {
		t.Errorf("limits = %+v", limits)
	}
	if limits.Clock.Time[1].Milliseconds() != 50000 || limits.Clock.Inc[0].Milliseconds() != 1000 {
		t.Errorf("clock = %+v", limits.Clock)
	}

	if _, err := parseGo([]string{"depth"}); err == nil {
		t.Error("missing depth value accepted")
	}
	if _, err := parseGo([]string{"movetime", "soon"}); err == nil {
		t.Error("bad movetime accepted")
	}
}
