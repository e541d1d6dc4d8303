package engine

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/exp/constraints"
)

// ErrOutOfRange is returned by the checked setters when a value falls
// outside its range. The value is clamped before the error is returned.
var ErrOutOfRange = errors.New("value out of range")

// Option ranges.
const (
	MinHash           = 16
	MaxHash           = 2048
	DefaultHash       = 64
	DefaultThreads    = 1
	DefaultProbeDepth = 2
	MaxContempt       = 200
)

// Options is the engine configuration read by the search. It is written
// between searches and treated as immutable while one runs.
type Options struct {
	Hash              int    `json:"hash"`
	OwnBook           bool   `json:"own_book"`
	Ponder            bool   `json:"ponder"`
	RandomSearch      bool   `json:"random_search"`
	SyzygyPath        string `json:"syzygy_path"`
	SyzygyProbeRoot   bool   `json:"syzygy_probe_root"`
	SyzygyProbeDepth  int    `json:"syzygy_probe_depth"`
	AnalyseMode       bool   `json:"analyse_mode"`
	Threads           int    `json:"threads"`
	Contempt          int    `json:"contempt"`
	CollectStatistics bool   `json:"collect_statistics"`
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		Hash:             DefaultHash,
		OwnBook:          true,
		SyzygyProbeRoot:  true,
		SyzygyProbeDepth: DefaultProbeDepth,
		Threads:          DefaultThreads,
	}
}

// MaxThreads is the available parallelism.
func MaxThreads() int {
	return runtime.NumCPU()
}

func clamp[T constraints.Integer](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

func checked[T constraints.Integer](name string, v, lo, hi T) (T, error) {
	c := clamp(v, lo, hi)
	if c != v {
		return c, fmt.Errorf("%s %d not in [%d, %d]: %w", name, v, lo, hi, ErrOutOfRange)
	}
	return c, nil
}

// Clamp forces every ranged option into its range. Contempt is unbounded.
func (o *Options) Clamp() {
	o.Hash = clamp(o.Hash, MinHash, MaxHash)
	o.Threads = clamp(o.Threads, 1, MaxThreads())
	o.SyzygyProbeDepth = clamp(o.SyzygyProbeDepth, 0, MaxPly-1)
}

// SetHash sets the hash size in megabytes.
func (o *Options) SetHash(mb int) error {
	var err error
	o.Hash, err = checked("hash", mb, MinHash, MaxHash)
	return err
}

// SetThreads sets the worker count.
func (o *Options) SetThreads(n int) error {
	var err error
	o.Threads, err = checked("threads", n, 1, MaxThreads())
	return err
}

// SetProbeDepth sets the minimum depth for tablebase probes.
func (o *Options) SetProbeDepth(d int) error {
	var err error
	o.SyzygyProbeDepth, err = checked("probe depth", d, 0, MaxPly-1)
	return err
}
