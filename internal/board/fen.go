package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	p, _ := ParseFEN(StartFEN)
	return p
}

// ParseFEN builds a position from a FEN string.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("fen: expected at least 4 fields, got %d in %q", len(fields), fen)
	}

	p := &Position{EnPassant: NoSquare, FullMoveNumber: 1, LastMove: NoMove}
	for i := range p.board {
		p.board[i] = NoPiece
	}

	rank, file := 7, 0
	for _, c := range fields[0] {
		switch {
		case c == '/':
			rank--
			file = 0
			if rank < 0 {
				return nil, fmt.Errorf("fen: too many ranks in %q", fields[0])
			}
		case c >= '1' && c <= '8':
			file += int(c - '0')
		default:
			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return nil, fmt.Errorf("fen: invalid piece %q", c)
			}
			if file > 7 {
				return nil, fmt.Errorf("fen: rank overflow in %q", fields[0])
			}
			p.setPiece(piece, NewSquare(file, rank))
			file++
		}
	}
	if p.Pieces[White][King].PopCount() != 1 || p.Pieces[Black][King].PopCount() != 1 {
		return nil, fmt.Errorf("fen: each side needs exactly one king in %q", fields[0])
	}

	switch fields[1] {
	case "w":
		p.SideToMove = White
	case "b":
		p.SideToMove = Black
	default:
		return nil, fmt.Errorf("fen: invalid side to move %q", fields[1])
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				p.CastlingRights |= WhiteKingSide
			case 'Q':
				p.CastlingRights |= WhiteQueenSide
			case 'k':
				p.CastlingRights |= BlackKingSide
			case 'q':
				p.CastlingRights |= BlackQueenSide
			default:
				return nil, fmt.Errorf("fen: invalid castling rights %q", fields[2])
			}
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("fen: invalid en passant square %q", fields[3])
		}
		p.EnPassant = sq
	}

	if len(fields) > 4 {
		hmc, err := strconv.Atoi(fields[4])
		if err != nil || hmc < 0 {
			return nil, fmt.Errorf("fen: invalid halfmove clock %q", fields[4])
		}
		p.HalfMoveClock = hmc
	}
	if len(fields) > 5 {
		fmn, err := strconv.Atoi(fields[5])
		if err != nil || fmn < 1 {
			return nil, fmt.Errorf("fen: invalid fullmove number %q", fields[5])
		}
		p.FullMoveNumber = fmn
	}

	p.Hash = p.ComputeHash()
	p.updateCheckers()
	return p, nil
}

// ToFEN renders the position as a FEN string.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.board[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if p.SideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	sb.WriteString(p.CastlingRights.String())
	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())
	fmt.Fprintf(&sb, " %d %d", p.HalfMoveClock, p.FullMoveNumber)

	return sb.String()
}
