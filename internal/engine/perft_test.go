package engine

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/bftjoe/Belette-fork/internal/board"
)

func TestPerftReference(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
		nodes uint64
	}{
		{"start d1", board.StartFEN, 1, 20},
		{"start d2", board.StartFEN, 2, 400},
		{"start d3", board.StartFEN, 3, 8902},
		{"start d4", board.StartFEN, 4, 197281},
		{"start d5", board.StartFEN, 5, 4865609},
		// Depth 6 (119060324 nodes) takes a while, enable for thorough testing:
		// {"start d6", board.StartFEN, 6, 119060324},
		{"kiwipete d4", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 4, 4085603},
		{"position3 d5", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 5, 674624},
		{"position4 d4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 4, 422333},
		{"position5 d3", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 3, 62379},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := board.ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("Failed to parse FEN: %v", err)
			}
			before := *pos

			if got := Perft(pos, tc.depth); got != tc.nodes {
				t.Errorf("Perft(%d) = %d, want %d", tc.depth, got, tc.nodes)
			}
			if *pos != before {
				t.Error("Perft mutated the position")
			}
		})
	}
}

func TestPerftDepthZero(t *testing.T) {
	pos := board.NewPosition()
	if got := Perft(pos, 0); got != 1 {
		t.Errorf("Perft(0) = %d, want 1", got)
	}
	if got := Perft(pos, -3); got != 1 {
		t.Errorf("Perft(-3) = %d, want 1", got)
	}
}

// TestDivideMatchesPerft checks that the per-root-move counts printed
// by divide sum to the plain perft total.
func TestDivideMatchesPerft(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}

	for _, fen := range fens {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			t.Fatalf("Failed to parse FEN %q: %v", fen, err)
		}
		before := *pos

		var buf bytes.Buffer
		total := Divide(pos, 3, &buf)

		if *pos != before {
			t.Errorf("%s: Divide mutated the position", fen)
		}
		if want := Perft(pos, 3); total != want {
			t.Errorf("%s: Divide total %d != Perft %d", fen, total, want)
		}

		var legal board.MoveList
		pos.GenerateMoves(&legal)

		var sum uint64
		lines := 0
		sc := bufio.NewScanner(&buf)
		for sc.Scan() {
			lines++
			parts := strings.SplitN(sc.Text(), ": ", 2)
			if len(parts) != 2 {
				t.Fatalf("%s: malformed divide line %q", fen, sc.Text())
			}
			if _, err := board.ParseMove(parts[0], pos); err != nil {
				t.Errorf("%s: divide line names unparseable move %q", fen, parts[0])
			}
			n, err := strconv.ParseUint(parts[1], 10, 64)
			if err != nil {
				t.Fatalf("%s: bad count in divide line %q", fen, sc.Text())
			}
			sum += n
		}
		if lines != legal.Len() {
			t.Errorf("%s: divide printed %d lines, want one per root move (%d)", fen, lines, legal.Len())
		}
		if sum != total {
			t.Errorf("%s: divide line sum %d != total %d", fen, sum, total)
		}
	}
}

// TestDivideDepthOne: at the reporting depth each root move counts one
// leaf and must still be printed individually.
func TestDivideDepthOne(t *testing.T) {
	pos := board.NewPosition()

	var buf bytes.Buffer
	total := Divide(pos, 1, &buf)
	if total != 20 {
		t.Errorf("Divide(1) = %d, want 20", total)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 20 {
		t.Errorf("Divide(1) printed %d lines, want 20", lines)
	}
}

func TestRunPerftOutput(t *testing.T) {
	pos := board.NewPosition()

	var buf bytes.Buffer
	total := RunPerft(pos, 2, &buf)
	if total != 400 {
		t.Errorf("RunPerft(2) = %d, want 400", total)
	}

	out := buf.String()
	for _, want := range []string{"perft depth=2", "Nodes: 400", "NPS: ", "Time: "} {
		if !strings.Contains(out, want) {
			t.Errorf("RunPerft output missing %q:\n%s", want, out)
		}
	}
}
