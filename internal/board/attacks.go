package board

// Precomputed attack tables for the non-sliding pieces, plus the
// between/line tables used for pin and check detection.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]

	betweenBB [64][64]Bitboard // squares strictly between two aligned squares
	lineBB    [64][64]Bitboard // full line through two aligned squares
)

func init() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		knightAttacks[sq] = (bb<<17)&NotFileA | (bb<<15)&NotFileH |
			(bb>>17)&NotFileH | (bb>>15)&NotFileA |
			(bb<<10)&NotFileAB | (bb<<6)&NotFileGH |
			(bb>>10)&NotFileGH | (bb>>6)&NotFileAB

		kingAttacks[sq] = bb.North() | bb.South() | bb.East() | bb.West() |
			bb.NorthEast() | bb.NorthWest() | bb.SouthEast() | bb.SouthWest()

		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}

	initRays()
	initMagics()
}

func initRays() {
	for sq1 := A1; sq1 <= H8; sq1++ {
		for sq2 := A1; sq2 <= H8; sq2++ {
			f1, r1 := sq1.File(), sq1.Rank()
			f2, r2 := sq2.File(), sq2.Rank()
			df, dr := sign(f2-f1), sign(r2-r1)

			if (df == 0 && dr == 0) || (df != 0 && dr != 0 && abs(f2-f1) != abs(r2-r1)) {
				continue // same square or not aligned
			}

			for f, r := f1+df, r1+dr; f != f2 || r != r2; f, r = f+df, r+dr {
				betweenBB[sq1][sq2] |= SquareBB(NewSquare(f, r))
			}

			for f, r := f1, r1; f >= 0 && f <= 7 && r >= 0 && r <= 7; f, r = f-df, r-dr {
				lineBB[sq1][sq2] |= SquareBB(NewSquare(f, r))
			}
			for f, r := f1+df, r1+dr; f >= 0 && f <= 7 && r >= 0 && r <= 7; f, r = f+df, r+dr {
				lineBB[sq1][sq2] |= SquareBB(NewSquare(f, r))
			}
		}
	}
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// KnightAttacks returns the knight attack set from sq.
func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }

// KingAttacks returns the king attack set from sq.
func KingAttacks(sq Square) Bitboard { return kingAttacks[sq] }

// PawnAttacks returns the squares a pawn of color c attacks from sq.
func PawnAttacks(sq Square, c Color) Bitboard { return pawnAttacks[c][sq] }

// BishopAttacks returns the bishop attack set from sq given occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &bishopMagics[sq]
	idx := ((uint64(occupied) & uint64(m.Mask)) * m.Magic) >> m.Shift
	return bishopTable[m.Offset+uint32(idx)]
}

// RookAttacks returns the rook attack set from sq given occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &rookMagics[sq]
	idx := ((uint64(occupied) & uint64(m.Mask)) * m.Magic) >> m.Shift
	return rookTable[m.Offset+uint32(idx)]
}

// QueenAttacks returns the queen attack set from sq given occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// Between returns the squares strictly between two squares, empty when
// they are not aligned.
func Between(sq1, sq2 Square) Bitboard { return betweenBB[sq1][sq2] }

// Aligned reports whether three squares share a rank, file or diagonal.
func Aligned(sq1, sq2, sq3 Square) bool {
	return lineBB[sq1][sq2]&SquareBB(sq3) != 0
}

// AttackersTo returns every piece of color c attacking sq under the
// given occupancy.
func (p *Position) AttackersTo(sq Square, c Color, occupied Bitboard) Bitboard {
	return pawnAttacks[c.Other()][sq]&p.Pieces[c][Pawn] |
		knightAttacks[sq]&p.Pieces[c][Knight] |
		kingAttacks[sq]&p.Pieces[c][King] |
		BishopAttacks(sq, occupied)&(p.Pieces[c][Bishop]|p.Pieces[c][Queen]) |
		RookAttacks(sq, occupied)&(p.Pieces[c][Rook]|p.Pieces[c][Queen])
}

// IsSquareAttacked reports whether sq is attacked by any piece of byColor.
func (p *Position) IsSquareAttacked(sq Square, byColor Color) bool {
	return p.AttackersTo(sq, byColor, p.AllOccupied) != 0
}

// updateCheckers recomputes the checkers set for the side to move.
func (p *Position) updateCheckers() {
	p.Checkers = p.AttackersTo(p.KingSquare[p.SideToMove], p.SideToMove.Other(), p.AllOccupied)
}

// ThreatenedByPawns returns every square attacked by c's pawns.
func (p *Position) ThreatenedByPawns(c Color) Bitboard {
	pawns := p.Pieces[c][Pawn]
	if c == White {
		return pawns.NorthEast() | pawns.NorthWest()
	}
	return pawns.SouthEast() | pawns.SouthWest()
}

// ThreatenedByMinors returns every square attacked by c's pawns,
// knights or bishops.
func (p *Position) ThreatenedByMinors(c Color) Bitboard {
	threats := p.ThreatenedByPawns(c)
	for bb := p.Pieces[c][Knight]; bb != 0; {
		threats |= KnightAttacks(bb.PopLSB())
	}
	for bb := p.Pieces[c][Bishop]; bb != 0; {
		threats |= BishopAttacks(bb.PopLSB(), p.AllOccupied)
	}
	return threats
}

// ThreatenedByRooks returns every square attacked by c's pawns, minors
// or rooks.
func (p *Position) ThreatenedByRooks(c Color) Bitboard {
	threats := p.ThreatenedByMinors(c)
	for bb := p.Pieces[c][Rook]; bb != 0; {
		threats |= RookAttacks(bb.PopLSB(), p.AllOccupied)
	}
	return threats
}
