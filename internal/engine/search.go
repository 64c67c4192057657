package engine

import (
	"github.com/bftjoe/Belette-fork/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

type nodeType uint8

const (
	nodeRoot nodeType = iota
	nodePV
	nodeNonPV
)

// idSearch runs the iterative-deepening loop: a full-window root
// search at each depth until a limit fires or maxDepth is exhausted.
// Results of an aborted iteration are discarded; the deepest completed
// iteration wins, and depth 1 always completes so there is always a
// move to report.
func (e *Engine) idSearch(sd *SearchData) {
	maxDepth := sd.limits.MaxDepth
	if maxDepth <= 0 || maxDepth > MaxPly-1 {
		maxDepth = MaxPly - 1
	}

	var bestPV board.MoveList
	bestScore := -Infinity
	bestDepth := 0

	for depth := 1; depth <= maxDepth; depth++ {
		var pv board.MoveList
		score := e.pvSearch(sd, -Infinity, Infinity, depth, 0, &pv, nodeRoot)

		if e.aborted && depth > 1 {
			break
		}
		bestPV.CopyFrom(&pv)
		bestScore = score
		bestDepth = depth

		e.emitProgress(e.newSearchEvent(bestDepth, &bestPV, bestScore, sd))

		if e.aborted || e.stopFlag.Load() || sd.ShouldStop() {
			break
		}
	}

	e.emitFinish(e.newSearchEvent(bestDepth, &bestPV, bestScore, sd))
}

// pvSearch is a principal variation search: the first candidate at
// each node is searched with the full window, later ones with a null
// window first and a re-search only on improvement.
func (e *Engine) pvSearch(sd *SearchData, alpha, beta, depth, ply int, pv *board.MoveList, nt nodeType) int {
	if depth <= 0 {
		return e.qSearch(sd, alpha, beta, ply, pv)
	}
	if e.aborted {
		return 0
	}

	pos := sd.position
	sd.nodes++
	if sd.ShouldStop() || e.stopFlag.Load() {
		e.aborted = true
		return 0
	}
	if ply >= MaxPly-1 {
		return Evaluate(pos)
	}

	ttMove := board.NoMove
	if entry, ok := e.tt.Probe(pos.Hash); ok {
		ttMove = entry.BestMove
		if nt == nodeNonPV && int(entry.Depth) >= depth {
			score := AdjustScoreFromTT(int(entry.Score), ply)
			switch entry.Flag {
			case TTExact:
				return score
			case TTLowerBound:
				if score >= beta {
					return score
				}
			case TTUpperBound:
				if score <= alpha {
					return score
				}
			}
		}
	}

	// Child killers are stale leftovers from a sibling subtree.
	sd.ClearKillers(ply + 1)

	picker := newMovePicker(pos, mainSearch, ttMove, sd.Killer(ply, 0), sd.Killer(ply, 1), sd.GetCounter())

	alphaOrig := alpha
	bestScore := -Infinity
	bestMove := board.NoMove
	moveCount := 0
	var childPV board.MoveList

	childNT := nodePV
	if nt == nodeNonPV {
		childNT = nodeNonPV
	}

	picker.enumerate(func(m board.Move, do applyFunc, undo undoFunc) bool {
		if nt == nodeRoot && !rootMoveAllowed(sd.limits.SearchMoves, m) {
			return true
		}
		moveCount++

		undoInfo := do(m)
		childPV.Clear()
		var score int
		if moveCount == 1 {
			score = -e.pvSearch(sd, -beta, -alpha, depth-1, ply+1, &childPV, childNT)
		} else {
			score = -e.pvSearch(sd, -alpha-1, -alpha, depth-1, ply+1, &childPV, nodeNonPV)
			if score > alpha && score < beta {
				childPV.Clear()
				score = -e.pvSearch(sd, -beta, -alpha, depth-1, ply+1, &childPV, nodePV)
			}
		}
		undo(m, undoInfo)

		if e.aborted {
			return false
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > alpha {
				alpha = score
				pv.SetLine(m, &childPV)
				if alpha >= beta {
					// A quiet refutation is worth remembering; capture
					// ordering already handles tactical ones.
					if !pos.IsTactical(m) {
						sd.UpdateKillers(m, ply)
						sd.UpdateCounter(m)
					}
					return false
				}
			}
		}
		return true
	})

	if e.aborted {
		return 0
	}

	if moveCount == 0 {
		if pos.InCheck() {
			return -MateScore + ply
		}
		return 0
	}

	flag := TTExact
	if bestScore <= alphaOrig {
		flag = TTUpperBound
	} else if bestScore >= beta {
		flag = TTLowerBound
	}
	e.tt.Store(pos.Hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)

	return bestScore
}

// qSearch resolves tactical sequences before the static evaluation is
// trusted: only captures and promotions are explored, with the stand
// pat score as a floor, so mid-exchange positions are never misjudged.
// In check it searches every evasion instead.
func (e *Engine) qSearch(sd *SearchData, alpha, beta, ply int, pv *board.MoveList) int {
	if e.aborted {
		return 0
	}

	pos := sd.position
	sd.nodes++
	if sd.ShouldStop() || e.stopFlag.Load() {
		e.aborted = true
		return 0
	}
	if ply >= MaxPly-1 {
		return Evaluate(pos)
	}

	inCheck := pos.InCheck()
	bestScore := -Infinity
	if !inCheck {
		standPat := Evaluate(pos)
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
		bestScore = standPat
	}

	picker := newMovePicker(pos, quiescence, board.NoMove, board.NoMove, board.NoMove, board.NoMove)

	moveCount := 0
	var childPV board.MoveList

	picker.enumerate(func(m board.Move, do applyFunc, undo undoFunc) bool {
		moveCount++

		undoInfo := do(m)
		childPV.Clear()
		score := -e.qSearch(sd, -beta, -alpha, ply+1, &childPV)
		undo(m, undoInfo)

		if e.aborted {
			return false
		}

		if score > bestScore {
			bestScore = score
			if score > alpha {
				alpha = score
				pv.SetLine(m, &childPV)
				if alpha >= beta {
					return false
				}
			}
		}
		return true
	})

	if e.aborted {
		return 0
	}

	// All of check's evasions were searched, so no moves means mate.
	if inCheck && moveCount == 0 {
		return -MateScore + ply
	}
	return bestScore
}

func rootMoveAllowed(searchMoves []board.Move, m board.Move) bool {
	if len(searchMoves) == 0 {
		return true
	}
	for _, sm := range searchMoves {
		if sm == m {
			return true
		}
	}
	return false
}
