package engine

import (
	"sort"

	"github.com/bftjoe/Belette-fork/internal/board"
)

// pickerMode selects which stages the picker runs: the main search
// wants every move eventually, quiescence only non-losing tacticals.
type pickerMode uint8

const (
	mainSearch pickerMode = iota
	quiescence
)

// Losing no more than a minor-for-minor exchange still counts as a
// good tactical in the main search (e.g. bishop takes knight).
const badTacticalThreshold = -50

// promotionQuietScore ranks under-promotions that reach the quiet
// stage below every other quiet move.
const promotionQuietScore = -100

// applyFunc and undoFunc are the move application pair bound to the
// position for the duration of one enumeration.
type (
	applyFunc func(board.Move) board.UndoInfo
	undoFunc  func(board.Move, board.UndoInfo)
)

// moveHandler consumes one candidate move together with its bound
// apply/undo pair. Returning false aborts the enumeration.
type moveHandler func(m board.Move, do applyFunc, undo undoFunc) bool

type scoredMove struct {
	move  board.Move
	score int16
}

// movePicker enumerates the legal moves of a position in an order
// designed to maximize alpha-beta cutoffs, generating each stage
// lazily: most nodes are pruned after a handful of candidates, so
// scoring moves that are never tried is wasted work.
//
// Stage order: transposition move; evasions when in check; winning
// tacticals by MVV-LVA; killers and counter move; quiets by threat and
// king-attack heuristics; losing tacticals; losing quiets.
type movePicker struct {
	pos  *board.Position
	mode pickerMode

	ttMove      board.Move
	refutations [3]board.Move // killer 0, killer 1, counter

	doMove   applyFunc
	undoMove undoFunc

	threatenedPieces board.Bitboard
}

const debugAssertions = false

func newMovePicker(pos *board.Position, mode pickerMode, ttMove, killer1, killer2, counter board.Move) *movePicker {
	if debugAssertions && killer1 != board.NoMove && killer1 == killer2 {
		panic("movePicker: duplicate killer slots")
	}
	return &movePicker{
		pos:         pos,
		mode:        mode,
		ttMove:      ttMove,
		refutations: [3]board.Move{killer1, killer2, counter},
		doMove:      pos.MakeMove,
		undoMove:    pos.UnmakeMove,
	}
}

// enumerate yields candidate moves to handler in priority order. Every
// legal move is yielded exactly once (quiescence mode intentionally
// yields a subset). Returns false when the handler aborted.
func (mp *movePicker) enumerate(handler moveHandler) bool {
	pos := mp.pos

	if pos.IsLegalMove(mp.ttMove) {
		if !handler(mp.ttMove, mp.doMove, mp.undoMove) {
			return false
		}
	}

	var moves []scoredMove

	// While in check every legal move is an evasion; there are few, so
	// a single scored batch replaces all later stages.
	if pos.InCheck() {
		var evasions board.MoveList
		pos.GenerateMoves(&evasions)
		for i := 0; i < evasions.Len(); i++ {
			m := evasions.Get(i)
			if m == mp.ttMove {
				continue
			}
			moves = append(moves, scoredMove{m, mp.scoreEvasion(m)})
		}
		sortByScore(moves)

		for _, sm := range moves {
			if !handler(sm.move, mp.doMove, mp.undoMove) {
				return false
			}
		}
		return true
	}

	var tacticals board.MoveList
	pos.GenerateTacticalMoves(&tacticals)
	for i := 0; i < tacticals.Len(); i++ {
		m := tacticals.Get(i)
		if m == mp.ttMove {
			continue
		}
		// Quiescence never explores a losing capture.
		if mp.mode == quiescence && !pos.SeeGE(m, 0) {
			continue
		}
		moves = append(moves, scoredMove{m, mp.scoreTactical(m)})
	}
	sortByScore(moves)

	// Winning tacticals now, losing ones deferred to the end.
	var badTacticals []scoredMove
	for _, sm := range moves {
		if mp.mode == mainSearch && !pos.SeeGE(sm.move, badTacticalThreshold) {
			badTacticals = append(badTacticals, sm)
			continue
		}
		if !handler(sm.move, mp.doMove, mp.undoMove) {
			return false
		}
	}

	if mp.mode == quiescence {
		return true
	}

	// Killers, then the counter move. Each must be quiet, legal, and
	// not already yielded.
	for i, r := range mp.refutations {
		if r == mp.ttMove || pos.IsTactical(r) || !pos.IsLegalMove(r) {
			continue
		}
		if i == 2 && (r == mp.refutations[0] || r == mp.refutations[1]) {
			continue
		}
		if !handler(r, mp.doMove, mp.undoMove) {
			return false
		}
	}

	them := pos.SideToMove.Other()
	mp.threatenedPieces = (pos.Pieces[pos.SideToMove][board.Knight]|pos.Pieces[pos.SideToMove][board.Bishop])&pos.ThreatenedByPawns(them) |
		pos.Pieces[pos.SideToMove][board.Rook]&pos.ThreatenedByMinors(them) |
		pos.Pieces[pos.SideToMove][board.Queen]&pos.ThreatenedByRooks(them)

	var quiets board.MoveList
	pos.GenerateQuietMoves(&quiets)
	moves = moves[:0]
	for i := 0; i < quiets.Len(); i++ {
		m := quiets.Get(i)
		if m == mp.ttMove || m == mp.refutations[0] || m == mp.refutations[1] || m == mp.refutations[2] {
			continue
		}
		moves = append(moves, scoredMove{m, mp.scoreQuiet(m)})
	}
	sortByScore(moves)

	var badQuiets []scoredMove
	for _, sm := range moves {
		if sm.score < 0 {
			badQuiets = append(badQuiets, sm)
			continue
		}
		if !handler(sm.move, mp.doMove, mp.undoMove) {
			return false
		}
	}

	for _, sm := range badTacticals {
		if !handler(sm.move, mp.doMove, mp.undoMove) {
			return false
		}
	}
	for _, sm := range badQuiets {
		if !handler(sm.move, mp.doMove, mp.undoMove) {
			return false
		}
	}
	return true
}

func sortByScore(moves []scoredMove) {
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].score > moves[j].score
	})
}

func (mp *movePicker) scoreEvasion(m board.Move) int16 {
	if mp.pos.PieceAt(m.To()) != board.NoPiece || m.IsEnPassant() {
		return mp.scoreTactical(m)
	}
	return 0
}

// scoreTactical is MVV-LVA: victim value minus attacker type rank. En
// passant scores as a plain pawn-value victim.
func (mp *movePicker) scoreTactical(m board.Move) int16 {
	victim := mp.pos.PieceAt(m.To()).Value()
	if m.IsEnPassant() {
		victim = board.PieceValue[board.Pawn]
	}
	return int16(victim - int(mp.pos.PieceAt(m.From()).Type()))
}

func (mp *movePicker) scoreQuiet(m board.Move) int16 {
	if m.IsPromotion() {
		return promotionQuietScore
	}

	pos := mp.pos
	from, to := m.From(), m.To()
	pt := pos.PieceAt(from).Type()
	them := pos.SideToMove.Other()
	score := int16(board.NoPieceType - pt) // cheap pieces first

	// Saving a threatened piece dominates every other quiet.
	if mp.threatenedPieces.IsSet(from) {
		toBB := board.SquareBB(to)
		switch {
		case pt == board.Queen && toBB&pos.ThreatenedByRooks(them) == 0:
			score += 1000
		case pt == board.Rook && toBB&pos.ThreatenedByMinors(them) == 0:
			score += 500
		case (pt == board.Knight || pt == board.Bishop) && toBB&pos.ThreatenedByPawns(them) == 0:
			score += 300
		}
	}

	if mp.attacksEnemyKing(pt, to) {
		score += 10
	}
	return score
}

// attacksEnemyKing reports whether a piece of type pt would attack the
// enemy king from sq.
func (mp *movePicker) attacksEnemyKing(pt board.PieceType, sq board.Square) bool {
	pos := mp.pos
	king := board.SquareBB(pos.KingSquare[pos.SideToMove.Other()])

	switch pt {
	case board.Pawn:
		return board.PawnAttacks(sq, pos.SideToMove)&king != 0
	case board.Knight:
		return board.KnightAttacks(sq)&king != 0
	case board.Bishop:
		return board.BishopAttacks(sq, pos.AllOccupied)&king != 0
	case board.Rook:
		return board.RookAttacks(sq, pos.AllOccupied)&king != 0
	case board.Queen:
		return board.QueenAttacks(sq, pos.AllOccupied)&king != 0
	}
	return false
}
