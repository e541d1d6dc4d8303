package engine

import (
	"sync"
	"sync/atomic"

	"github.com/hailam/chesscore/internal/board"
)

// TTFlag is the kind of bound stored with a score.
type TTFlag uint8

const (
	TTExact TTFlag = iota
	TTLowerBound
	TTUpperBound
)

const (
	ttShardCount = 256
	ttShardMask  = ttShardCount - 1
	ttEntrySize  = 24
)

// TTEntry is one search result. The move is stored without its ordering
// score.
type TTEntry struct {
	Key   uint64
	Move  uint32
	Score int16
	Depth int8
	Flag  TTFlag
	Age   uint8
}

// BestMove returns the stored move.
func (e *TTEntry) BestMove() board.Move {
	return board.Move(e.Move)
}

// TranspositionTable is the search result table shared by all workers,
// guarded by sharded locks.
type TranspositionTable struct {
	entries []TTEntry
	shards  [ttShardCount]sync.RWMutex
	mask    uint64
	age     atomic.Uint32
}

// NewTranspositionTable allocates a table of sizeMB megabytes rounded down
// to a power of two entries.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	n := uint64(sizeMB) * mib / ttEntrySize
	size := uint64(1)
	for size*2 <= n {
		size *= 2
	}
	return &TranspositionTable{
		entries: make([]TTEntry, size),
		mask:    size - 1,
	}
}

// Probe returns the entry stored for hash.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	idx := hash & tt.mask
	shard := &tt.shards[idx&ttShardMask]

	shard.RLock()
	entry := tt.entries[idx]
	shard.RUnlock()

	if entry.Key == hash && entry.Depth > 0 {
		return entry, true
	}
	return TTEntry{}, false
}

// Store saves a result. Deeper entries from the current search are kept.
func (tt *TranspositionTable) Store(hash uint64, depth, score int, flag TTFlag, move board.Move) {
	idx := hash & tt.mask
	shard := &tt.shards[idx&ttShardMask]
	age := uint8(tt.age.Load())

	shard.Lock()
	e := &tt.entries[idx]
	if e.Age != age || depth >= int(e.Depth) {
		*e = TTEntry{
			Key:   hash,
			Move:  uint32(move.ClearScore()),
			Score: int16(score),
			Depth: int8(depth),
			Flag:  flag,
			Age:   age,
		}
	}
	shard.Unlock()
}

// NewSearch ages existing entries.
func (tt *TranspositionTable) NewSearch() {
	tt.age.Add(1)
}

// Clear empties the table.
func (tt *TranspositionTable) Clear() {
	clear(tt.entries)
	tt.age.Store(0)
}

// HashFull returns the permille of sampled entries written this search.
func (tt *TranspositionTable) HashFull() int {
	sample := min(1000, len(tt.entries))
	age := uint8(tt.age.Load())
	used := 0
	for i := 0; i < sample; i++ {
		if tt.entries[i].Depth > 0 && tt.entries[i].Age == age {
			used++
		}
	}
	return used * 1000 / sample
}

// scoreToTT makes mate scores relative to the node being stored.
func scoreToTT(score, ply int) int {
	switch {
	case score > MateScore-MaxPly:
		return score + ply
	case score < -MateScore+MaxPly:
		return score - ply
	}
	return score
}

// scoreFromTT undoes scoreToTT at the probing node.
func scoreFromTT(score, ply int) int {
	switch {
	case score > MateScore-MaxPly:
		return score - ply
	case score < -MateScore+MaxPly:
		return score + ply
	}
	return score
}
