package engine

import (
	"testing"
	"time"

	"github.com/bftjoe/Belette-fork/internal/board"
)

func searchPosition(t *testing.T, fen string, limits SearchLimits) (SearchEvent, []SearchEvent) {
	t.Helper()

	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("Failed to parse FEN %q: %v", fen, err)
	}

	eng := NewEngine(16)
	eng.SetPosition(pos)

	var progress []SearchEvent
	var finish []SearchEvent
	eng.OnSearchProgress = func(ev SearchEvent) { progress = append(progress, ev) }
	eng.OnSearchFinish = func(ev SearchEvent) { finish = append(finish, ev) }

	eng.Search(limits)

	if len(finish) != 1 {
		t.Fatalf("finish callback fired %d times, want exactly 1", len(finish))
	}
	return finish[0], progress
}

func TestSearchBasic(t *testing.T) {
	final, progress := searchPosition(t, board.StartFEN, SearchLimits{MaxDepth: 5})

	if final.BestMove() == board.NoMove {
		t.Error("search returned no best move for the starting position")
	}
	if final.Depth != 5 {
		t.Errorf("final depth = %d, want 5", final.Depth)
	}
	if len(progress) != 5 {
		t.Errorf("progress fired %d times, want once per depth (5)", len(progress))
	}
	for i, ev := range progress {
		if ev.Depth != i+1 {
			t.Errorf("progress %d reports depth %d", i, ev.Depth)
		}
		if len(ev.PV) == 0 {
			t.Errorf("progress at depth %d has empty PV", ev.Depth)
		}
	}
	t.Logf("best move %s score %d after %d nodes", final.BestMove(), final.Score, final.Nodes)
}

func TestSearchFindsMateInOne(t *testing.T) {
	// White: Ra1, Kg6. Black: Kg8. Ra8 is mate.
	final, _ := searchPosition(t, "6k1/8/6K1/8/8/8/8/R7 w - - 0 1", SearchLimits{MaxDepth: 4})

	if got, want := final.BestMove(), board.NewMove(board.A1, board.A8); got != want {
		t.Errorf("best move = %s, want %s", got, want)
	}
	if final.Score != MateScore-1 {
		t.Errorf("score = %d, want mate in one (%d)", final.Score, MateScore-1)
	}
}

func TestSearchCheckmatedPosition(t *testing.T) {
	// Black to move, already mated.
	final, _ := searchPosition(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", SearchLimits{MaxDepth: 3})

	if final.BestMove() != board.NoMove {
		t.Errorf("best move = %s, want none in a mated position", final.BestMove())
	}
	if final.Score != -MateScore {
		t.Errorf("score = %d, want %d", final.Score, -MateScore)
	}
}

func TestSearchStalematePosition(t *testing.T) {
	final, _ := searchPosition(t, "7k/5Q2/5K2/8/8/8/8/8 b - - 0 1", SearchLimits{MaxDepth: 3})

	if final.BestMove() != board.NoMove {
		t.Errorf("best move = %s, want none in stalemate", final.BestMove())
	}
	if final.Score != 0 {
		t.Errorf("score = %d, want draw score 0", final.Score)
	}
}

func TestSearchNodeLimit(t *testing.T) {
	final, _ := searchPosition(t, board.StartFEN, SearchLimits{MaxNodes: 5000})

	// The cap is only sampled every stopCheckInterval nodes, so a small
	// overshoot is expected; a runaway search is not.
	if final.Nodes >= 5000+2*stopCheckInterval {
		t.Errorf("searched %d nodes with a 5000 node cap", final.Nodes)
	}
	if final.BestMove() == board.NoMove {
		t.Error("node-limited search should still produce a move")
	}
}

func TestSearchRestrictedRootMoves(t *testing.T) {
	forced := board.NewMove(board.A2, board.A3)
	final, _ := searchPosition(t, board.StartFEN, SearchLimits{
		MaxDepth:    3,
		SearchMoves: []board.Move{forced},
	})

	if final.BestMove() != forced {
		t.Errorf("best move = %s, want the only allowed root move %s", final.BestMove(), forced)
	}
}

func TestStopTerminatesSearch(t *testing.T) {
	eng := NewEngine(16)

	done := make(chan struct{})
	go func() {
		eng.Search(SearchLimits{}) // unconstrained
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	eng.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("search did not stop after Stop()")
	}
	if eng.IsSearching() {
		t.Error("IsSearching still true after search returned")
	}
}

func TestSearchLeavesRootPositionIntact(t *testing.T) {
	pos, err := board.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}
	before := *pos

	eng := NewEngine(16)
	eng.SetPosition(pos)
	eng.Search(SearchLimits{MaxDepth: 4})

	if *pos != before {
		t.Error("search mutated the root position")
	}
}

func TestTTPersistsAcrossSearches(t *testing.T) {
	eng := NewEngine(16)

	eng.Search(SearchLimits{MaxDepth: 4})
	if _, ok := eng.TT().Probe(eng.Position().Hash); !ok {
		t.Fatal("root position missing from the transposition table after search")
	}

	tt := eng.TT()
	eng.Search(SearchLimits{MaxDepth: 2})
	if eng.TT() != tt {
		t.Error("transposition table replaced between searches")
	}
}

func TestMateScoreHelpers(t *testing.T) {
	if !IsMateScore(MateScore - 1) || !IsMateScore(-MateScore + 4) {
		t.Error("mate scores not recognized")
	}
	if IsMateScore(0) || IsMateScore(250) {
		t.Error("regular scores misreported as mate")
	}
	if got := MateIn(MateScore - 1); got != 1 {
		t.Errorf("MateIn(mate in 1 score) = %d, want 1", got)
	}
	if got := MateIn(-MateScore + 2); got != -1 {
		t.Errorf("MateIn(mated in 1 score) = %d, want -1", got)
	}
}
