package engine

import (
	"time"

	"github.com/bftjoe/Belette-fork/internal/board"
)

// SearchLimits specifies constraints on the search. A zero value for a
// field means that dimension is unconstrained.
type SearchLimits struct {
	TimeLeft    [2]time.Duration // remaining clock per color
	Increment   [2]time.Duration // increment per move per color
	MovesToGo   int              // moves until the next time control (0 = sudden death)
	MaxDepth    int              // maximum search depth (0 = no limit)
	MaxNodes    uint64           // maximum nodes to search (0 = no limit)
	MaxTime     time.Duration    // fixed time for this move (0 = no limit)
	SearchMoves []board.Move     // restrict root moves to this set (empty = all)
}

// stopCheckInterval bounds how often ShouldStop consults the clock:
// only every N visited nodes. A stop request or expired budget may
// therefore be honored up to N-1 nodes late.
const stopCheckInterval = 1024

// SearchData is the per-search mutable state: node and time
// accounting plus the killer and counter move-ordering tables. One
// instance is created per Search call and discarded when it returns.
type SearchData struct {
	position *board.Position
	limits   SearchLimits

	nodes         uint64
	startTime     time.Time
	allocatedTime time.Duration

	killerMoves  [MaxPly][2]board.Move
	counterMoves [12][64]board.Move // [piece][destination square]
}

// NewSearchData builds search state with its own working copy of pos.
func NewSearchData(pos *board.Position, limits SearchLimits) *SearchData {
	sd := &SearchData{
		position:  pos.Copy(),
		limits:    limits,
		startTime: time.Now(),
	}
	sd.initAllocatedTime()
	return sd
}

// Position returns the working copy of the position being searched.
func (sd *SearchData) Position() *board.Position { return sd.position }

// Nodes returns the number of nodes visited so far.
func (sd *SearchData) Nodes() uint64 { return sd.nodes }

// Elapsed returns the time since the search started.
func (sd *SearchData) Elapsed() time.Duration { return time.Since(sd.startTime) }

// UseTournamentTime reports whether either side has clock time set.
func (sd *SearchData) UseTournamentTime() bool {
	return sd.limits.TimeLeft[board.White]|sd.limits.TimeLeft[board.Black] != 0
}

// UseFixedTime reports whether a fixed per-move time was configured.
func (sd *SearchData) UseFixedTime() bool { return sd.limits.MaxTime > 0 }

// UseTimeLimit reports whether any time-based limit applies.
func (sd *SearchData) UseTimeLimit() bool {
	return sd.UseTournamentTime() || sd.UseFixedTime()
}

// UseNodeCountLimit reports whether a node cap was configured.
func (sd *SearchData) UseNodeCountLimit() bool { return sd.limits.MaxNodes > 0 }

// initAllocatedTime computes the time budget for this move from the
// remaining clock, increment and moves-to-go. The budget never exceeds
// the remaining clock minus a small safety margin, and growing the
// clock or increment never shrinks it.
func (sd *SearchData) initAllocatedTime() {
	if !sd.UseTournamentTime() {
		return
	}
	us := sd.position.SideToMove
	timeLeft := sd.limits.TimeLeft[us]
	inc := sd.limits.Increment[us]

	mtg := sd.limits.MovesToGo
	if mtg <= 0 {
		mtg = 40
	}

	alloc := timeLeft/time.Duration(mtg) + inc*3/4

	if margin := timeLeft - 50*time.Millisecond; alloc > margin {
		alloc = margin
	}
	if alloc < time.Millisecond {
		alloc = time.Millisecond
	}
	sd.allocatedTime = alloc
}

// ShouldStop reports whether a search limit has been exceeded. The
// clock is only consulted every stopCheckInterval nodes; between
// samples it always reports false.
func (sd *SearchData) ShouldStop() bool {
	if sd.nodes%stopCheckInterval != 0 {
		return false
	}

	elapsed := sd.Elapsed()
	if sd.UseTournamentTime() && elapsed >= sd.allocatedTime {
		return true
	}
	if sd.UseFixedTime() && elapsed > sd.limits.MaxTime {
		return true
	}
	if sd.UseNodeCountLimit() && sd.nodes >= sd.limits.MaxNodes {
		return true
	}
	return false
}

// ClearKillers resets both killer slots for a ply.
func (sd *SearchData) ClearKillers(ply int) {
	sd.killerMoves[ply][0] = board.NoMove
	sd.killerMoves[ply][1] = board.NoMove
}

// Killer returns the killer move in the given slot for a ply.
func (sd *SearchData) Killer(ply, slot int) board.Move {
	return sd.killerMoves[ply][slot]
}

// UpdateKillers records a quiet cutoff move for a ply. The two slots
// form a two-entry most-recently-used cache: re-inserting the current
// top entry is a no-op, so the slots never hold duplicates.
func (sd *SearchData) UpdateKillers(move board.Move, ply int) {
	if sd.killerMoves[ply][0] != move {
		sd.killerMoves[ply][1] = sd.killerMoves[ply][0]
		sd.killerMoves[ply][0] = move
	}
}

// UpdateCounter records move as the refutation of the previous move,
// keyed by the piece now sitting on that move's destination square.
// A later write for the same key overwrites the earlier one.
func (sd *SearchData) UpdateCounter(move board.Move) {
	prev := sd.position.LastMove
	if prev == board.NoMove {
		return
	}
	to := prev.To()
	sd.counterMoves[sd.position.PieceAt(to)][to] = move
}

// GetCounter looks up the recorded reply to the previous move, or
// NoMove when there is no previous move.
func (sd *SearchData) GetCounter() board.Move {
	prev := sd.position.LastMove
	if prev == board.NoMove {
		return board.NoMove
	}
	to := prev.To()
	return sd.counterMoves[sd.position.PieceAt(to)][to]
}
