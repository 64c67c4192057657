package board

// Zobrist keys for position hashing, generated from a fixed seed so
// hashes are stable across runs.
var (
	zobristPiece      [2][6][64]uint64
	zobristEnPassant  [8]uint64 // one per file
	zobristCastling   [16]uint64
	zobristSideToMove uint64
)

func init() {
	s := uint64(0x6C078965B1A4F2D3)
	next := func() uint64 {
		// xorshift64*
		s ^= s >> 12
		s ^= s << 25
		s ^= s >> 27
		return s * 0x2545F4914F6CDD1D
	}

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = next()
			}
		}
	}
	for file := range zobristEnPassant {
		zobristEnPassant[file] = next()
	}
	for i := range zobristCastling {
		zobristCastling[i] = next()
	}
	zobristSideToMove = next()
}

// ComputeHash recomputes the Zobrist hash of the position from scratch.
// Incremental updates in MakeMove must always agree with this.
func (p *Position) ComputeHash() uint64 {
	var hash uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for bb := p.Pieces[c][pt]; bb != 0; {
				hash ^= zobristPiece[c][pt][bb.PopLSB()]
			}
		}
	}
	if p.SideToMove == Black {
		hash ^= zobristSideToMove
	}
	hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	return hash
}
