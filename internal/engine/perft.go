package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/bftjoe/Belette-fork/internal/board"
)

// Perft exhaustively counts the leaf positions reachable in exactly
// depth plies. It is independent of evaluation and move ordering and
// is the standard way to verify and benchmark move generation. The
// position is left untouched: every applied move is undone.
func Perft(pos *board.Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}

	var moves board.MoveList
	pos.GenerateMoves(&moves)

	// At the last ply each legal move is exactly one leaf; counting
	// them skips a make/unmake round trip per move.
	if depth == 1 {
		return uint64(moves.Len())
	}

	var total uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		total += Perft(pos, depth-1)
		pos.UnmakeMove(m, undo)
	}
	return total
}

// Divide runs Perft at the given depth and writes one line per root
// move with the leaf count of its subtree. Returns the total, which
// always equals Perft(pos, depth).
func Divide(pos *board.Position, depth int, w io.Writer) uint64 {
	if depth <= 0 {
		return 1
	}

	var moves board.MoveList
	pos.GenerateMoves(&moves)

	var total uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)

		var n uint64 = 1
		if depth > 1 {
			undo := pos.MakeMove(m)
			n = Perft(pos, depth-1)
			pos.UnmakeMove(m, undo)
		}

		total += n
		if n > 0 {
			fmt.Fprintf(w, "%s: %d\n", m, n)
		}
	}
	return total
}

// RunPerft runs a divide perft and writes the per-move counts plus
// total node, throughput and timing summary lines to w.
func RunPerft(pos *board.Position, depth int, w io.Writer) uint64 {
	fmt.Fprintf(w, "perft depth=%d\n", depth)

	start := time.Now()
	total := Divide(pos, depth, w)
	elapsed := time.Since(start)

	nps := uint64(0)
	if elapsed > 0 {
		nps = uint64(float64(total) / elapsed.Seconds())
	}

	fmt.Fprintf(w, "\nNodes: %d\n", total)
	fmt.Fprintf(w, "NPS: %d\n", nps)
	fmt.Fprintf(w, "Time: %dms\n", elapsed.Milliseconds())
	return total
}
