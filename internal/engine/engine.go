package engine

import (
	"sync/atomic"
	"time"

	"github.com/bftjoe/Belette-fork/internal/board"
)

// SearchEvent is an immutable snapshot of search progress, emitted to
// the host once per completed root depth and once at search end.
type SearchEvent struct {
	Depth    int
	PV       []board.Move
	Score    int
	Nodes    uint64
	Elapsed  time.Duration
	HashFull int // permille of the transposition table in use
}

// BestMove returns the first move of the event's principal variation.
func (ev SearchEvent) BestMove() board.Move {
	if len(ev.PV) == 0 {
		return board.NoMove
	}
	return ev.PV[0]
}

// Engine owns the root position and the transposition table and runs
// the iterative-deepening search. Progress is reported through the
// OnSearchProgress and OnSearchFinish callbacks; both are invoked on
// the goroutine running Search.
type Engine struct {
	rootPosition *board.Position
	tt           *TranspositionTable

	stopFlag  atomic.Bool
	searching atomic.Bool
	aborted   bool

	OnSearchProgress func(SearchEvent)
	OnSearchFinish   func(SearchEvent)
}

// NewEngine creates an engine with a transposition table of the given
// size in megabytes, set up at the starting position.
func NewEngine(ttSizeMB int) *Engine {
	return &Engine{
		rootPosition: board.NewPosition(),
		tt:           NewTranspositionTable(ttSizeMB),
	}
}

// Position returns the engine's root position.
func (e *Engine) Position() *board.Position { return e.rootPosition }

// SetPosition replaces the engine's root position.
func (e *Engine) SetPosition(pos *board.Position) { e.rootPosition = pos }

// TT exposes the shared transposition table. It persists across
// searches on the same engine so later searches reuse earlier work.
func (e *Engine) TT() *TranspositionTable { return e.tt }

// ResizeTT replaces the transposition table with a fresh one of the
// given size in megabytes, discarding all stored entries. Must not be
// called while a search is running.
func (e *Engine) ResizeTT(sizeMB int) {
	e.tt = NewTranspositionTable(sizeMB)
}

// IsSearching reports whether a search is in progress.
func (e *Engine) IsSearching() bool { return e.searching.Load() }

// Stop requests a cooperative stop of the running search. The search
// loop honors it at its next stop check; an in-flight node is never
// preempted. Safe to call from another goroutine.
func (e *Engine) Stop() { e.stopFlag.Store(true) }

// Search runs an iterative-deepening search on the root position under
// the given limits, blocking until the search terminates. The finish
// callback fires exactly once per call.
func (e *Engine) Search(limits SearchLimits) {
	e.searching.Store(true)
	defer e.searching.Store(false)

	e.stopFlag.Store(false)
	e.aborted = false
	e.tt.NewSearch()

	sd := NewSearchData(e.rootPosition, limits)
	e.idSearch(sd)
}

func (e *Engine) newSearchEvent(depth int, pv *board.MoveList, score int, sd *SearchData) SearchEvent {
	line := make([]board.Move, pv.Len())
	copy(line, pv.Slice())
	return SearchEvent{
		Depth:    depth,
		PV:       line,
		Score:    score,
		Nodes:    sd.Nodes(),
		Elapsed:  sd.Elapsed(),
		HashFull: e.tt.HashFull(),
	}
}

func (e *Engine) emitProgress(ev SearchEvent) {
	if e.OnSearchProgress != nil {
		e.OnSearchProgress(ev)
	}
}

func (e *Engine) emitFinish(ev SearchEvent) {
	if e.OnSearchFinish != nil {
		e.OnSearchFinish(ev)
	}
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return score > MateScore-MaxPly || score < -MateScore+MaxPly
}

// MateIn converts a mate score to a signed full-move distance:
// positive when the side to move mates, negative when it is mated.
func MateIn(score int) int {
	if score > 0 {
		return (MateScore - score + 1) / 2
	}
	return -(MateScore + score + 1) / 2
}
