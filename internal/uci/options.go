package uci

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/hailam/chesscore/internal/engine"
)

var (
	// ErrUnknownOption is returned by setoption for an undeclared name.
	ErrUnknownOption = errors.New("unknown option")
	// ErrBadValue is returned when a value cannot be parsed for its type.
	ErrBadValue = errors.New("bad option value")
)

// OptionStore persists engine options between runs.
type OptionStore interface {
	SaveOptions(engine.Options) error
}

// StatsRecorder is implemented by stores that also keep search statistics.
// It is used when the CollectStats option is on.
type StatsRecorder interface {
	RecordSearch(engine.Result) error
}

type optionKind string

const (
	spin   optionKind = "spin"
	check  optionKind = "check"
	text   optionKind = "string"
	button optionKind = "button"
)

// option is one declared UCI option. Options that edit engine.Options
// are applied to the context and persisted as a whole.
type option struct {
	name     string
	kind     optionKind
	min, max int
	def      func(engine.Options) string
	set      func(o *engine.Options, v string) error
	action   func(u *UCI, v string) error
}

func (o option) declaration(opts engine.Options) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "option name %s type %s", o.name, o.kind)
	if o.kind == button {
		return sb.String()
	}

	def := o.def(opts)
	if o.kind == text && def == "" {
		def = "<empty>"
	}
	fmt.Fprintf(&sb, " default %s", def)
	if o.kind == spin {
		fmt.Fprintf(&sb, " min %d max %d", o.min, o.max)
	}
	return sb.String()
}

func parseBool(v string) (bool, error) {
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return false, fmt.Errorf("%q is not a check value: %w", v, ErrBadValue)
	}
	return b, nil
}

func parseInt(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%q is not a spin value: %w", v, ErrBadValue)
	}
	return n, nil
}

func checkOption(name string, field func(*engine.Options) *bool) option {
	return option{
		name: name,
		kind: check,
		def:  func(o engine.Options) string { return strconv.FormatBool(*field(&o)) },
		set: func(o *engine.Options, v string) error {
			b, err := parseBool(v)
			if err != nil {
				return err
			}
			*field(o) = b
			return nil
		},
	}
}

func spinOption(name string, lower, upper int, get func(engine.Options) int, set func(*engine.Options, int) error) option {
	return option{
		name: name,
		kind: spin,
		min:  lower,
		max:  upper,
		def:  func(o engine.Options) string { return strconv.Itoa(get(o)) },
		set: func(o *engine.Options, v string) error {
			n, err := parseInt(v)
			if err != nil {
				return err
			}
			return set(o, n)
		},
	}
}

func declaredOptions() []option {
	return []option{
		{
			name: "Clear Hash",
			kind: button,
			action: func(u *UCI, _ string) error {
				return u.engine.ClearHash()
			},
		},
		checkOption("CollectStats", func(o *engine.Options) *bool { return &o.CollectStatistics }),
		spinOption("Hash", engine.MinHash, engine.MaxHash,
			func(o engine.Options) int { return o.Hash },
			(*engine.Options).SetHash),
		{
			name: "EvalCache",
			kind: spin,
			min:  1,
			max:  engine.MaxEvalCacheMB,
			def:  func(engine.Options) string { return strconv.Itoa(engine.DefaultEvalCacheMB) },
			action: func(u *UCI, v string) error {
				n, err := parseInt(v)
				if err != nil {
					return err
				}
				if n < 1 || n > engine.MaxEvalCacheMB {
					return fmt.Errorf("eval cache %d not in [1, %d]: %w", n, engine.MaxEvalCacheMB, engine.ErrOutOfRange)
				}
				return u.engine.ResizeEvalCache(n)
			},
		},
		spinOption("Threads", 1, engine.MaxThreads(),
			func(o engine.Options) int { return o.Threads },
			(*engine.Options).SetThreads),
		checkOption("OwnBook", func(o *engine.Options) *bool { return &o.OwnBook }),
		checkOption("Ponder", func(o *engine.Options) *bool { return &o.Ponder }),
		checkOption("RandomSearch", func(o *engine.Options) *bool { return &o.RandomSearch }),
		{
			name: "SyzygyPath",
			kind: text,
			def:  func(o engine.Options) string { return o.SyzygyPath },
			set: func(o *engine.Options, v string) error {
				if v == "<empty>" {
					v = ""
				}
				o.SyzygyPath = v
				return nil
			},
		},
		checkOption("SyzygyProbeRoot", func(o *engine.Options) *bool { return &o.SyzygyProbeRoot }),
		spinOption("SyzygyProbeDepth", 0, engine.MaxPly-1,
			func(o engine.Options) int { return o.SyzygyProbeDepth },
			(*engine.Options).SetProbeDepth),
		spinOption("Contempt", -engine.MaxContempt, engine.MaxContempt,
			func(o engine.Options) int { return o.Contempt },
			func(o *engine.Options, n int) error {
				if n < -engine.MaxContempt || n > engine.MaxContempt {
					return fmt.Errorf("contempt %d: %w", n, engine.ErrOutOfRange)
				}
				o.Contempt = n
				return nil
			}),
		checkOption("UCI_AnalyseMode", func(o *engine.Options) *bool { return &o.AnalyseMode }),
	}
}

func findOption(options []option, name string) (option, error) {
	o, ok := lo.Find(options, func(o option) bool {
		return strings.EqualFold(o.name, name)
	})
	if !ok {
		return option{}, fmt.Errorf("%q: %w", name, ErrUnknownOption)
	}
	return o, nil
}

// parseSetOption splits "name <words> [value <words>]".
func parseSetOption(args []string) (name, value string) {
	var names, values []string
	var dst *[]string
	for _, arg := range args {
		switch {
		case arg == "name" && dst == nil:
			dst = &names
		case arg == "value" && dst == &names:
			dst = &values
		case dst != nil:
			*dst = append(*dst, arg)
		}
	}
	return strings.Join(names, " "), strings.Join(values, " ")
}
