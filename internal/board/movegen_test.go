package board

import "testing"

// perft counts the number of leaf nodes at the given depth.
// This is the standard way to verify move generation correctness.
func perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	var moves MoveList
	p.GenerateMoves(&moves)
	if depth == 1 {
		return int64(moves.Len())
	}

	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.MakeMove(m)
		nodes += perft(p, depth-1)
		p.UnmakeMove(m, undo)
	}
	return nodes
}

// TestPerftStartingPosition tests move generation from the starting position.
func TestPerftStartingPosition(t *testing.T) {
	pos := NewPosition()

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
		// Depth 5 takes longer, enable for thorough testing:
		// {5, 4865609},
	}

	for _, tc := range tests {
		got := perft(pos, tc.depth)
		if got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

// TestPerftPositions runs the well-known perft suite positions that
// exercise castling, en passant, promotions and pins.
func TestPerftPositions(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		depth    int
		expected int64
	}{
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3, 97862},
		{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 4, 43238},
		{"position4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 3, 9467},
		{"position5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 3, 62379},
		{"position6", "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10", 3, 89890},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("Failed to parse FEN: %v", err)
			}
			got := perft(pos, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestMoveClassPartition verifies that tactical and quiet generation
// together produce exactly the legal moves, with no overlap.
func TestMoveClassPartition(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 b - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"4k3/8/8/8/8/8/4p3/4K3 b - - 0 1",                 // promotion near the king
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", // in check
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("Failed to parse FEN %q: %v", fen, err)
		}

		var all, tactical, quiet MoveList
		pos.GenerateMoves(&all)
		pos.GenerateTacticalMoves(&tactical)
		pos.GenerateQuietMoves(&quiet)

		if tactical.Len()+quiet.Len() != all.Len() {
			t.Errorf("%s: tactical(%d) + quiet(%d) != all(%d)",
				fen, tactical.Len(), quiet.Len(), all.Len())
		}
		for i := 0; i < all.Len(); i++ {
			m := all.Get(i)
			inTactical := tactical.Contains(m)
			inQuiet := quiet.Contains(m)
			if inTactical == inQuiet {
				t.Errorf("%s: move %s in tactical=%v quiet=%v", fen, m, inTactical, inQuiet)
			}
			if inTactical != pos.IsTactical(m) {
				t.Errorf("%s: move %s class mismatch with IsTactical", fen, m)
			}
		}
	}
}

// TestEnPassantPin covers the horizontal discovered check that only an
// en passant capture can produce: both pawns leave the rank at once.
func TestEnPassantPin(t *testing.T) {
	// c5xd6 e.p. removes both pawns from rank 5 at once, leaving the
	// rook on h5 attacking the king on a5.
	pos, err := ParseFEN("8/8/8/K1Pp3r/8/8/8/4k3 w - d6 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	var moves MoveList
	pos.GenerateMoves(&moves)
	ep := NewEnPassant(C5, D6)
	if moves.Contains(ep) {
		t.Error("en passant capture should be illegal, it exposes the king to the rook")
	}
	if pos.IsLegalMove(ep) {
		t.Error("IsLegalMove should reject the pinned en passant capture")
	}

	// Without the rook the same capture is legal.
	pos, err = ParseFEN("8/8/8/K1Pp4/8/8/8/4k3 w - d6 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}
	moves.Clear()
	pos.GenerateMoves(&moves)
	if !moves.Contains(ep) {
		t.Error("en passant capture should be legal without the rook")
	}
}

// TestIsLegalMove checks the standalone validator against full
// generation: the two must agree on every 16-bit move encoding.
func TestIsLegalMove(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R b KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
		"8/8/8/K1Pp3r/8/8/8/4k3 w - d6 0 1",
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("Failed to parse FEN %q: %v", fen, err)
		}
		var legal MoveList
		pos.GenerateMoves(&legal)

		for enc := 0; enc < 1<<16; enc++ {
			m := Move(enc)
			if got, want := pos.IsLegalMove(m), legal.Contains(m); got != want {
				t.Errorf("%s: IsLegalMove(%s) = %v, generator says %v", fen, m, got, want)
			}
		}
	}
}

func TestHasLegalMoves(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want bool
	}{
		{"start", StartFEN, true},
		{"back rank mate", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", false},
		{"stalemate", "7k/5Q2/5K2/8/8/8/8/8 b - - 0 1", false},
		{"check with escape", "6Rk/8/8/8/8/8/8/K7 b - - 0 1", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("Failed to parse FEN: %v", err)
			}
			if got := pos.HasLegalMoves(); got != tc.want {
				t.Errorf("HasLegalMoves() = %v, want %v", got, tc.want)
			}
		})
	}
}
