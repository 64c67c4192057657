package board

import "testing"

func TestSee(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move Move
		want int
	}{
		{
			"free pawn",
			"4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1",
			NewMove(E4, D5),
			PieceValue[Pawn],
		},
		{
			"pawn takes defended pawn",
			"4k3/8/2p5/3p4/4P3/8/8/4K3 w - - 0 1",
			NewMove(E4, D5),
			0,
		},
		{
			"queen takes defended pawn",
			"4k3/8/2p5/3p4/8/8/8/3QK3 w - - 0 1",
			NewMove(D1, D5),
			PieceValue[Pawn] - PieceValue[Queen],
		},
		{
			"rook takes undefended knight",
			"4k3/8/8/3n4/8/8/8/3RK3 w - - 0 1",
			NewMove(D1, D5),
			PieceValue[Knight],
		},
		{
			"knight takes defended pawn",
			"4k3/8/8/8/5p2/6p1/8/4KN2 w - - 0 1",
			NewMove(F1, G3),
			PieceValue[Pawn] - PieceValue[Knight],
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("Failed to parse FEN: %v", err)
			}
			if got := pos.See(tc.move); got != tc.want {
				t.Errorf("See(%s) = %d, want %d", tc.move, got, tc.want)
			}
		})
	}
}

func TestSeeXray(t *testing.T) {
	// Rook takes the defended e5 pawn with no support: loses the
	// exchange to the rook on e8.
	pos, err := ParseFEN("4r1k1/8/8/4p3/8/8/8/4R1K1 w - - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}
	got := pos.See(NewMove(E1, E5))
	want := PieceValue[Pawn] - PieceValue[Rook]
	if got != want {
		t.Errorf("See(e1e5) = %d, want %d", got, want)
	}

	// Same capture with the queen x-raying through the capturing rook:
	// Rxe5 Rxe5 Qxe5 wins the pawn.
	pos, err = ParseFEN("4r1k1/8/8/4p3/8/8/4R3/4Q1K1 w - - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}
	got = pos.See(NewMove(E2, E5))
	if got != PieceValue[Pawn] {
		t.Errorf("See(e2e5) with x-ray support = %d, want %d", got, PieceValue[Pawn])
	}
}

func TestSeeGE(t *testing.T) {
	pos, err := ParseFEN("4k3/8/2p5/3p4/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}
	m := NewMove(D1, D5)
	if pos.SeeGE(m, 0) {
		t.Error("queen takes defended pawn should not pass a zero threshold")
	}
	if !pos.SeeGE(m, PieceValue[Pawn]-PieceValue[Queen]) {
		t.Error("SeeGE should pass at the exact exchange value")
	}
}

func TestSeeEnPassant(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}
	if got := pos.See(NewEnPassant(E5, D6)); got != PieceValue[Pawn] {
		t.Errorf("See(exd6 e.p.) = %d, want %d", got, PieceValue[Pawn])
	}
}
