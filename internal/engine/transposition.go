package engine

import "github.com/bftjoe/Belette-fork/internal/board"

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // exact score
	TTLowerBound               // failed high (beta cutoff)
	TTUpperBound               // failed low
)

// TTEntry is one transposition table slot.
type TTEntry struct {
	Key      uint64     // full Zobrist hash for verification
	BestMove board.Move // best move found
	Score    int16      // score, interpreted through Flag
	Depth    int8       // search depth
	Flag     TTFlag
	Age      uint8 // generation for replacement
}

// TranspositionTable caches search results by position hash. It is
// accessed without locking: the search runs on a single goroutine and
// the table's contract is single-threaded access.
type TranspositionTable struct {
	entries []TTEntry
	size    uint64
	mask    uint64
	age     uint8
}

// NewTranspositionTable creates a table with the given size in MB,
// rounded down to a power-of-two entry count for cheap indexing.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	if sizeMB < 1 {
		sizeMB = 1
	}
	entrySize := uint64(16)
	numEntries := roundDownToPowerOf2(uint64(sizeMB) * 1024 * 1024 / entrySize)

	return &TranspositionTable{
		entries: make([]TTEntry, numEntries),
		size:    numEntries,
		mask:    numEntries - 1,
	}
}

func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks up a position. The full key is compared so a hit is
// never a hash collision.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	entry := tt.entries[hash&tt.mask]
	if entry.Key == hash && entry.Depth > 0 {
		return entry, true
	}
	return TTEntry{}, false
}

// Store saves a search result. An entry from an earlier search is
// always replaced; within the current search deeper entries win.
func (tt *TranspositionTable) Store(hash uint64, depth, score int, flag TTFlag, bestMove board.Move) {
	entry := &tt.entries[hash&tt.mask]
	if entry.Age == tt.age && depth < int(entry.Depth) {
		return
	}
	*entry = TTEntry{
		Key:      hash,
		BestMove: bestMove,
		Score:    int16(score),
		Depth:    int8(depth),
		Flag:     flag,
		Age:      tt.age,
	}
}

// NewSearch bumps the generation counter so replacement favors entries
// from the current search.
func (tt *TranspositionTable) NewSearch() {
	tt.age++
}

// Clear wipes the table.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.age = 0
}

// HashFull returns the permille of the table in use, estimated from a
// fixed-size sample of entries.
func (tt *TranspositionTable) HashFull() int {
	sampleSize := uint64(1000)
	if sampleSize > tt.size {
		sampleSize = tt.size
	}

	used := 0
	for i := uint64(0); i < sampleSize; i++ {
		if tt.entries[i].Depth > 0 && tt.entries[i].Age == tt.age {
			used++
		}
	}
	return used * 1000 / int(sampleSize)
}

// Size returns the number of entries in the table.
func (tt *TranspositionTable) Size() uint64 { return tt.size }

// AdjustScoreFromTT rebases a stored mate score to distance from the
// current ply. Mate scores are stored relative to the storing node, so
// the probing node must shift them by its own ply.
func AdjustScoreFromTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT is the inverse shift applied before storing.
func AdjustScoreToTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
