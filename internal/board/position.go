package board

import "strings"

// CastlingRights is a bitmask of the four castling permissions.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide

	WhiteCastling = WhiteKingSide | WhiteQueenSide
	BlackCastling = BlackKingSide | BlackQueenSide
	AllCastling   = WhiteCastling | BlackCastling
	NoCastling    CastlingRights = 0
)

// castlingRightsMask[sq] holds the rights that survive a piece moving
// from or to sq. Moving the king or a rook off its home square, or
// capturing a rook on its home square, clears the matching right.
var castlingRightsMask [64]CastlingRights

func init() {
	for sq := A1; sq <= H8; sq++ {
		castlingRightsMask[sq] = AllCastling
	}
	castlingRightsMask[E1] = ^WhiteCastling & AllCastling
	castlingRightsMask[H1] = ^WhiteKingSide & AllCastling
	castlingRightsMask[A1] = ^WhiteQueenSide & AllCastling
	castlingRightsMask[E8] = ^BlackCastling & AllCastling
	castlingRightsMask[H8] = ^BlackKingSide & AllCastling
	castlingRightsMask[A8] = ^BlackQueenSide & AllCastling
}

func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	if cr&WhiteKingSide != 0 {
		sb.WriteByte('K')
	}
	if cr&WhiteQueenSide != 0 {
		sb.WriteByte('Q')
	}
	if cr&BlackKingSide != 0 {
		sb.WriteByte('k')
	}
	if cr&BlackQueenSide != 0 {
		sb.WriteByte('q')
	}
	return sb.String()
}

// Position is a full chess position with incrementally maintained
// bitboards, mailbox, Zobrist hash and checkers set.
type Position struct {
	Pieces      [2][6]Bitboard // [Color][PieceType]
	Occupied    [2]Bitboard    // [Color]
	AllOccupied Bitboard
	board       [64]Piece

	KingSquare     [2]Square
	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	FullMoveNumber int

	Hash     uint64
	Checkers Bitboard

	// LastMove is the move that produced this position, NoMove at a
	// root set up from FEN. Move ordering uses it for counter-move
	// lookups and threat detection.
	LastMove Move
}

// PieceAt returns the piece on sq, NoPiece when empty.
func (p *Position) PieceAt(sq Square) Piece { return p.board[sq] }

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool { return p.Checkers != 0 }

// Copy returns a deep copy of the position.
func (p *Position) Copy() *Position {
	c := *p
	return &c
}

func (p *Position) setPiece(piece Piece, sq Square) {
	c, pt := piece.Color(), piece.Type()
	bb := SquareBB(sq)
	p.Pieces[c][pt] |= bb
	p.Occupied[c] |= bb
	p.AllOccupied |= bb
	p.board[sq] = piece
	p.Hash ^= zobristPiece[c][pt][sq]
	if pt == King {
		p.KingSquare[c] = sq
	}
}

func (p *Position) removePiece(sq Square) {
	piece := p.board[sq]
	c, pt := piece.Color(), piece.Type()
	bb := SquareBB(sq)
	p.Pieces[c][pt] &^= bb
	p.Occupied[c] &^= bb
	p.AllOccupied &^= bb
	p.board[sq] = NoPiece
	p.Hash ^= zobristPiece[c][pt][sq]
}

func (p *Position) movePiece(from, to Square) {
	piece := p.board[from]
	c, pt := piece.Color(), piece.Type()
	bb := SquareBB(from) | SquareBB(to)
	p.Pieces[c][pt] ^= bb
	p.Occupied[c] ^= bb
	p.AllOccupied ^= bb
	p.board[from] = NoPiece
	p.board[to] = piece
	p.Hash ^= zobristPiece[c][pt][from] ^ zobristPiece[c][pt][to]
	if pt == King {
		p.KingSquare[c] = to
	}
}

// MakeMove applies a move assumed to be legal and returns the state
// needed to undo it. Callers obtain moves from the generator or
// validate them with IsLegalMove first.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
		Checkers:       p.Checkers,
		LastMove:       p.LastMove,
		Captured:       NoPiece,
	}

	us, them := p.SideToMove, p.SideToMove.Other()
	from, to := m.From(), m.To()
	moving := p.board[from]

	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
		p.EnPassant = NoSquare
	}

	p.HalfMoveClock++
	if moving.Type() == Pawn {
		p.HalfMoveClock = 0
	}

	switch {
	case m.IsCastling():
		p.movePiece(from, to)
		rookFrom, rookTo := rookCastlingSquares(to)
		p.movePiece(rookFrom, rookTo)

	case m.IsEnPassant():
		// The captured pawn sits beside the destination, not on it.
		var capSq Square
		if us == White {
			capSq = to - 8
		} else {
			capSq = to + 8
		}
		undo.Captured = p.board[capSq]
		p.removePiece(capSq)
		p.movePiece(from, to)

	default:
		if captured := p.board[to]; captured != NoPiece {
			undo.Captured = captured
			p.removePiece(to)
			p.HalfMoveClock = 0
		}
		p.movePiece(from, to)
		if m.IsPromotion() {
			p.removePiece(to)
			p.setPiece(NewPiece(m.Promotion(), us), to)
		} else if moving.Type() == Pawn && abs(int(to)-int(from)) == 16 {
			p.EnPassant = Square((int(from) + int(to)) / 2)
			p.Hash ^= zobristEnPassant[p.EnPassant.File()]
		}
	}

	p.Hash ^= zobristCastling[p.CastlingRights]
	p.CastlingRights &= castlingRightsMask[from] & castlingRightsMask[to]
	p.Hash ^= zobristCastling[p.CastlingRights]

	p.SideToMove = them
	p.Hash ^= zobristSideToMove
	if them == White {
		p.FullMoveNumber++
	}
	p.LastMove = m

	p.updateCheckers()
	return undo
}

// UnmakeMove reverts the last move using the state MakeMove returned.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	us := p.SideToMove.Other() // the side that made m
	from, to := m.From(), m.To()

	switch {
	case m.IsCastling():
		rookFrom, rookTo := rookCastlingSquares(to)
		p.movePiece(rookTo, rookFrom)
		p.movePiece(to, from)

	case m.IsEnPassant():
		p.movePiece(to, from)
		var capSq Square
		if us == White {
			capSq = to - 8
		} else {
			capSq = to + 8
		}
		p.setPiece(undo.Captured, capSq)

	default:
		if m.IsPromotion() {
			p.removePiece(to)
			p.setPiece(NewPiece(Pawn, us), to)
		}
		p.movePiece(to, from)
		if undo.Captured != NoPiece {
			p.setPiece(undo.Captured, to)
		}
	}

	p.SideToMove = us
	if us == Black {
		p.FullMoveNumber--
	}
	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.Hash = undo.Hash
	p.Checkers = undo.Checkers
	p.LastMove = undo.LastMove
}

// rookCastlingSquares maps the king's castling destination to the rook
// movement of that castle.
func rookCastlingSquares(kingTo Square) (from, to Square) {
	switch kingTo {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	default: // C8
		return A8, D8
	}
}

// ComputePinned returns the pieces of the side to move that are
// absolutely pinned to their own king.
func (p *Position) ComputePinned() Bitboard {
	us, them := p.SideToMove, p.SideToMove.Other()
	king := p.KingSquare[us]

	snipers := RookAttacks(king, 0)&(p.Pieces[them][Rook]|p.Pieces[them][Queen]) |
		BishopAttacks(king, 0)&(p.Pieces[them][Bishop]|p.Pieces[them][Queen])

	var pinned Bitboard
	for snipers != 0 {
		sniper := snipers.PopLSB()
		blockers := Between(king, sniper) & p.AllOccupied
		if blockers.PopCount() == 1 && blockers&p.Occupied[us] != 0 {
			pinned |= blockers
		}
	}
	return pinned
}

// String renders the board with rank/file labels, for debugging and
// the "d" command.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteString("  +---+---+---+---+---+---+---+---+\n")
		for file := 0; file < 8; file++ {
			if file == 0 {
				sb.WriteByte(byte('1' + rank))
				sb.WriteByte(' ')
			}
			sb.WriteString("| ")
			sb.WriteString(p.board[NewSquare(file, rank)].String())
			sb.WriteByte(' ')
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("  +---+---+---+---+---+---+---+---+\n")
	sb.WriteString("    a   b   c   d   e   f   g   h\n")
	return sb.String()
}
