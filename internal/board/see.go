package board

// See returns the static exchange evaluation of m in centipawns: the
// material outcome of the capture sequence on the destination square,
// assuming both sides recapture with their least valuable attacker and
// may stand pat at any point. Promotion gains are not modeled.
func (p *Position) See(m Move) int {
	from, to := m.From(), m.To()

	var gain [32]int
	occ := p.AllOccupied &^ SquareBB(from)

	if captured := p.board[to]; captured != NoPiece {
		gain[0] = captured.Value()
	}
	if m.IsEnPassant() {
		gain[0] = PieceValue[Pawn]
		if p.SideToMove == White {
			occ &^= SquareBB(to - 8)
		} else {
			occ &^= SquareBB(to + 8)
		}
	}

	attackerValue := PieceValue[p.board[from].Type()]
	side := p.SideToMove.Other()

	attackers := (p.AttackersTo(to, White, occ) | p.AttackersTo(to, Black, occ)) & occ
	diag := p.Pieces[White][Bishop] | p.Pieces[White][Queen] |
		p.Pieces[Black][Bishop] | p.Pieces[Black][Queen]
	orth := p.Pieces[White][Rook] | p.Pieces[White][Queen] |
		p.Pieces[Black][Rook] | p.Pieces[Black][Queen]

	depth := 0
	for {
		ours := attackers & p.Occupied[side]
		if ours == 0 {
			break
		}
		sq, pt := p.leastValuableAttacker(ours, side)
		if pt == King && attackers&p.Occupied[side.Other()] != 0 {
			break // the king cannot recapture a defended piece
		}

		depth++
		gain[depth] = attackerValue - gain[depth-1]
		attackerValue = PieceValue[pt]

		// Capturing may uncover a slider behind the capturer.
		occ &^= SquareBB(sq)
		if pt == Pawn || pt == Bishop || pt == Queen {
			attackers |= BishopAttacks(to, occ) & diag
		}
		if pt == Rook || pt == Queen {
			attackers |= RookAttacks(to, occ) & orth
		}
		attackers &= occ
		side = side.Other()
	}

	for ; depth > 0; depth-- {
		gain[depth-1] = -max(-gain[depth-1], gain[depth])
	}
	return gain[0]
}

// SeeGE reports whether the static exchange evaluation of m is at
// least threshold.
func (p *Position) SeeGE(m Move, threshold int) bool {
	return p.See(m) >= threshold
}

// leastValuableAttacker picks the cheapest piece of color c among
// attackers, scanning piece types in ascending value order.
func (p *Position) leastValuableAttacker(attackers Bitboard, c Color) (Square, PieceType) {
	for pt := Pawn; pt <= King; pt++ {
		if bb := attackers & p.Pieces[c][pt]; bb != 0 {
			return bb.LSB(), pt
		}
	}
	return NoSquare, NoPieceType
}
