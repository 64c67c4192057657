package board

// Legal move generation. Moves come out in two classes that together
// partition the legal moves of a position:
//
//	tactical: captures, promotions and en passant
//	quiet:    everything else, castling included
//
// Both generators emit only legal moves. Pins, checks and the en
// passant discovered-check case are resolved here rather than by a
// make/verify/unmake round trip.

type genKind uint8

const (
	genAll genKind = iota
	genTactical
	genQuiet
)

// GenerateMoves appends every legal move to ml.
func (p *Position) GenerateMoves(ml *MoveList) { p.generate(ml, genAll) }

// GenerateTacticalMoves appends the legal captures, promotions and en
// passant captures to ml.
func (p *Position) GenerateTacticalMoves(ml *MoveList) { p.generate(ml, genTactical) }

// GenerateQuietMoves appends the legal non-tactical moves to ml.
func (p *Position) GenerateQuietMoves(ml *MoveList) { p.generate(ml, genQuiet) }

// HasLegalMoves reports whether the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	var ml MoveList
	p.GenerateMoves(&ml)
	return ml.Len() > 0
}

// IsTactical reports whether m is a capture, promotion or en passant
// capture in this position.
func (p *Position) IsTactical(m Move) bool {
	return p.board[m.To()] != NoPiece || m.IsPromotion() || m.IsEnPassant()
}

func (p *Position) generate(ml *MoveList, kind genKind) {
	us, them := p.SideToMove, p.SideToMove.Other()
	king := p.KingSquare[us]
	pinned := p.ComputePinned()

	var targets Bitboard
	switch kind {
	case genTactical:
		targets = p.Occupied[them]
	case genQuiet:
		targets = ^p.AllOccupied
	default:
		targets = ^p.Occupied[us]
	}

	p.genKingMoves(ml, targets)

	checkMask := Universe
	if p.Checkers != 0 {
		if p.Checkers&(p.Checkers-1) != 0 {
			return // double check, only the king can move
		}
		checker := p.Checkers.LSB()
		checkMask = Between(king, checker) | SquareBB(checker)
	}

	p.genPawnMoves(ml, kind, checkMask, pinned, king)
	p.genPieceMoves(ml, targets&checkMask, pinned, king)
	if kind != genTactical && p.Checkers == 0 {
		p.genCastlingMoves(ml, us)
	}
}

func (p *Position) genKingMoves(ml *MoveList, targets Bitboard) {
	us, them := p.SideToMove, p.SideToMove.Other()
	from := p.KingSquare[us]
	occ := p.AllOccupied &^ SquareBB(from)
	for bb := KingAttacks(from) & targets; bb != 0; {
		to := bb.PopLSB()
		if p.AttackersTo(to, them, occ) == 0 {
			ml.Add(NewMove(from, to))
		}
	}
}

func (p *Position) genPieceMoves(ml *MoveList, targets, pinned Bitboard, king Square) {
	us := p.SideToMove
	occ := p.AllOccupied

	// A pinned knight can never move.
	for bb := p.Pieces[us][Knight] &^ pinned; bb != 0; {
		from := bb.PopLSB()
		for dests := KnightAttacks(from) & targets; dests != 0; {
			ml.Add(NewMove(from, dests.PopLSB()))
		}
	}

	for bb := p.Pieces[us][Bishop] | p.Pieces[us][Queen]; bb != 0; {
		from := bb.PopLSB()
		dests := BishopAttacks(from, occ) & targets
		if pinned.IsSet(from) {
			dests &= lineBB[king][from]
		}
		for dests != 0 {
			ml.Add(NewMove(from, dests.PopLSB()))
		}
	}

	for bb := p.Pieces[us][Rook] | p.Pieces[us][Queen]; bb != 0; {
		from := bb.PopLSB()
		dests := RookAttacks(from, occ) & targets
		if pinned.IsSet(from) {
			dests &= lineBB[king][from]
		}
		for dests != 0 {
			ml.Add(NewMove(from, dests.PopLSB()))
		}
	}
}

func (p *Position) genPawnMoves(ml *MoveList, kind genKind, checkMask, pinned Bitboard, king Square) {
	us, them := p.SideToMove, p.SideToMove.Other()
	pawns := p.Pieces[us][Pawn]
	empty := ^p.AllOccupied

	var single, double, capE, capW Bitboard
	var promoRank Bitboard
	var up, de, dw int
	if us == White {
		single = pawns.North() & empty
		double = (single & Rank3).North() & empty
		capE = pawns.NorthEast() & p.Occupied[them]
		capW = pawns.NorthWest() & p.Occupied[them]
		promoRank = Rank8
		up, de, dw = 8, 9, 7
	} else {
		single = pawns.South() & empty
		double = (single & Rank6).South() & empty
		capE = pawns.SouthEast() & p.Occupied[them]
		capW = pawns.SouthWest() & p.Occupied[them]
		promoRank = Rank1
		up, de, dw = -8, -7, -9
	}
	single &= checkMask
	double &= checkMask
	capE &= checkMask
	capW &= checkMask

	legal := func(from, to Square) bool {
		return !pinned.IsSet(from) || Aligned(from, to, king)
	}
	addPromotions := func(from, to Square) {
		if legal(from, to) {
			ml.Add(NewPromotion(from, to, Queen))
			ml.Add(NewPromotion(from, to, Rook))
			ml.Add(NewPromotion(from, to, Bishop))
			ml.Add(NewPromotion(from, to, Knight))
		}
	}

	if kind != genTactical {
		for bb := single &^ promoRank; bb != 0; {
			to := bb.PopLSB()
			if from := Square(int(to) - up); legal(from, to) {
				ml.Add(NewMove(from, to))
			}
		}
		for bb := double; bb != 0; {
			to := bb.PopLSB()
			if from := Square(int(to) - 2*up); legal(from, to) {
				ml.Add(NewMove(from, to))
			}
		}
	}

	if kind != genQuiet {
		for bb := capE &^ promoRank; bb != 0; {
			to := bb.PopLSB()
			if from := Square(int(to) - de); legal(from, to) {
				ml.Add(NewMove(from, to))
			}
		}
		for bb := capW &^ promoRank; bb != 0; {
			to := bb.PopLSB()
			if from := Square(int(to) - dw); legal(from, to) {
				ml.Add(NewMove(from, to))
			}
		}
		for bb := single & promoRank; bb != 0; {
			to := bb.PopLSB()
			addPromotions(Square(int(to)-up), to)
		}
		for bb := capE & promoRank; bb != 0; {
			to := bb.PopLSB()
			addPromotions(Square(int(to)-de), to)
		}
		for bb := capW & promoRank; bb != 0; {
			to := bb.PopLSB()
			addPromotions(Square(int(to)-dw), to)
		}

		if p.EnPassant != NoSquare {
			for bb := pawnAttacks[them][p.EnPassant] & pawns; bb != 0; {
				from := bb.PopLSB()
				if m := NewEnPassant(from, p.EnPassant); p.isLegalEnPassant(m) {
					ml.Add(m)
				}
			}
		}
	}
}

func (p *Position) genCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()
	if us == White {
		if p.CastlingRights&WhiteKingSide != 0 && p.AllOccupied&Between(E1, H1) == 0 &&
			!p.IsSquareAttacked(F1, them) && !p.IsSquareAttacked(G1, them) {
			ml.Add(NewCastling(E1, G1))
		}
		if p.CastlingRights&WhiteQueenSide != 0 && p.AllOccupied&Between(E1, A1) == 0 &&
			!p.IsSquareAttacked(D1, them) && !p.IsSquareAttacked(C1, them) {
			ml.Add(NewCastling(E1, C1))
		}
		return
	}
	if p.CastlingRights&BlackKingSide != 0 && p.AllOccupied&Between(E8, H8) == 0 &&
		!p.IsSquareAttacked(F8, them) && !p.IsSquareAttacked(G8, them) {
		ml.Add(NewCastling(E8, G8))
	}
	if p.CastlingRights&BlackQueenSide != 0 && p.AllOccupied&Between(E8, A8) == 0 &&
		!p.IsSquareAttacked(D8, them) && !p.IsSquareAttacked(C8, them) {
		ml.Add(NewCastling(E8, C8))
	}
}

// isLegalEnPassant verifies an en passant capture does not leave the
// king in check. Removing both the capturing and captured pawn from
// their rank can uncover a horizontal attack no pin check sees.
func (p *Position) isLegalEnPassant(m Move) bool {
	us, them := p.SideToMove, p.SideToMove.Other()
	king := p.KingSquare[us]
	to := m.To()

	var capSq Square
	if us == White {
		capSq = to - 8
	} else {
		capSq = to + 8
	}
	occ := p.AllOccupied&^(SquareBB(m.From())|SquareBB(capSq)) | SquareBB(to)

	attackers := pawnAttacks[us][king]&(p.Pieces[them][Pawn]&^SquareBB(capSq)) |
		knightAttacks[king]&p.Pieces[them][Knight] |
		BishopAttacks(king, occ)&(p.Pieces[them][Bishop]|p.Pieces[them][Queen]) |
		RookAttacks(king, occ)&(p.Pieces[them][Rook]|p.Pieces[them][Queen])
	return attackers == 0
}

// IsLegalMove reports whether an arbitrary move is legal in this
// position. Moves coming out of the generators are legal already; this
// validates moves from external sources such as hash tables before they
// are played without generating the full move list.
func (p *Position) IsLegalMove(m Move) bool {
	if m == NoMove {
		return false
	}
	from, to := m.From(), m.To()
	if from == to {
		return false
	}
	// Promotion piece bits are only meaningful with the promotion flag.
	if !m.IsPromotion() && uint16(m)&0x3000 != 0 {
		return false
	}
	us, them := p.SideToMove, p.SideToMove.Other()
	piece := p.board[from]
	if piece == NoPiece || piece.Color() != us || p.Occupied[us].IsSet(to) {
		return false
	}
	pt := piece.Type()

	switch {
	case m.IsCastling():
		if pt != King || p.InCheck() {
			return false
		}
		var castles MoveList
		p.genCastlingMoves(&castles, us)
		return castles.Contains(m)

	case m.IsEnPassant():
		return pt == Pawn && to == p.EnPassant &&
			pawnAttacks[us][from].IsSet(to) && p.isLegalEnPassant(m)
	}

	if pt == Pawn {
		if (to.RelativeRank(us) == 7) != m.IsPromotion() {
			return false
		}
		up := 8
		if us == Black {
			up = -8
		}
		switch {
		case pawnAttacks[us][from].IsSet(to):
			if !p.Occupied[them].IsSet(to) {
				return false
			}
		case int(to) == int(from)+up:
			if p.AllOccupied.IsSet(to) {
				return false
			}
		case int(to) == int(from)+2*up && from.RelativeRank(us) == 1:
			mid := Square(int(from) + up)
			if p.AllOccupied.IsSet(mid) || p.AllOccupied.IsSet(to) {
				return false
			}
		default:
			return false
		}
	} else {
		if m.IsPromotion() {
			return false
		}
		var attacks Bitboard
		switch pt {
		case Knight:
			attacks = KnightAttacks(from)
		case Bishop:
			attacks = BishopAttacks(from, p.AllOccupied)
		case Rook:
			attacks = RookAttacks(from, p.AllOccupied)
		case Queen:
			attacks = QueenAttacks(from, p.AllOccupied)
		case King:
			attacks = KingAttacks(from)
		}
		if !attacks.IsSet(to) {
			return false
		}
	}

	if pt == King {
		return p.AttackersTo(to, them, p.AllOccupied&^SquareBB(from)) == 0
	}
	if p.Checkers != 0 {
		if p.Checkers&(p.Checkers-1) != 0 {
			return false
		}
		checker := p.Checkers.LSB()
		if !(Between(p.KingSquare[us], checker) | SquareBB(checker)).IsSet(to) {
			return false
		}
	}
	return !p.ComputePinned().IsSet(from) || Aligned(from, to, p.KingSquare[us])
}
