package board

import "fmt"

// Move encodes a chess move in 16 bits:
// bits 0-5:   from square
// bits 6-11:  to square
// bits 12-13: promotion piece (0=Knight .. 3=Queen)
// bits 14-15: kind (0=normal, 1=promotion, 2=en passant, 3=castling)
type Move uint16

const (
	flagNormal    uint16 = 0 << 14
	flagPromotion uint16 = 1 << 14
	flagEnPassant uint16 = 2 << 14
	flagCastling  uint16 = 3 << 14
)

// NoMove is the sentinel for "no move". It is not a legal encoding of
// any real move (a1a1).
const NoMove Move = 0

// NewMove builds a normal move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion builds a promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move(from) | Move(to)<<6 | Move(promo-Knight)<<12 | Move(flagPromotion)
}

// NewEnPassant builds an en passant capture.
func NewEnPassant(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(flagEnPassant)
}

// NewCastling builds a castling move encoded as the king's movement.
func NewCastling(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(flagCastling)
}

// From returns the origin square.
func (m Move) From() Square { return Square(m & 0x3F) }

// To returns the destination square.
func (m Move) To() Square { return Square((m >> 6) & 0x3F) }

// Promotion returns the promotion piece type; only meaningful when
// IsPromotion is true.
func (m Move) Promotion() PieceType { return PieceType((m>>12)&3) + Knight }

// IsPromotion reports whether m is a promotion.
func (m Move) IsPromotion() bool { return uint16(m)&0xC000 == flagPromotion }

// IsCastling reports whether m is a castling move.
func (m Move) IsCastling() bool { return uint16(m)&0xC000 == flagCastling }

// IsEnPassant reports whether m is an en passant capture.
func (m Move) IsEnPassant() bool { return uint16(m)&0xC000 == flagEnPassant }

// String returns the UCI text of the move, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string("nbrq"[m.Promotion()-Knight])
	}
	return s
}

// ParseMove parses a UCI move string against the given position,
// resolving the kind (castling, en passant, promotion) from context.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move string: %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return NewPromotion(from, to, promo), nil
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}
	switch {
	case piece.Type() == King && abs(int(to)-int(from)) == 2:
		return NewCastling(from, to), nil
	case piece.Type() == Pawn && to == pos.EnPassant:
		return NewEnPassant(from, to), nil
	}
	return NewMove(from, to), nil
}

// MaxMoves bounds the number of legal moves in any chess position.
const MaxMoves = 256

// MoveList is a fixed-capacity, insertion-ordered list of moves. It is
// used both for move enumeration and for principal variations.
type MoveList struct {
	moves [MaxMoves]Move
	count int
}

// Add appends a move.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves held.
func (ml *MoveList) Len() int { return ml.count }

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move { return ml.moves[i] }

// Clear empties the list.
func (ml *MoveList) Clear() { ml.count = 0 }

// Contains reports whether m is in the list.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// SetLine replaces the contents with head followed by tail. Used to
// build a node's principal variation from its best move and the child
// variation behind it.
func (ml *MoveList) SetLine(head Move, tail *MoveList) {
	ml.moves[0] = head
	n := copy(ml.moves[1:], tail.moves[:tail.count])
	ml.count = n + 1
}

// CopyFrom replaces the contents with those of other.
func (ml *MoveList) CopyFrom(other *MoveList) {
	copy(ml.moves[:], other.moves[:other.count])
	ml.count = other.count
}

// Slice returns the moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move { return ml.moves[:ml.count] }

// UndoInfo records the irreversible state a move destroys, so that
// UnmakeMove can restore the position exactly.
type UndoInfo struct {
	Captured       Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
	Checkers       Bitboard
	LastMove       Move
}
