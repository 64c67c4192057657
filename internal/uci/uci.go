// Package uci implements the Universal Chess Interface protocol on top
// of the search engine.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bftjoe/Belette-fork/internal/board"
	"github.com/bftjoe/Belette-fork/internal/engine"
	"github.com/bftjoe/Belette-fork/internal/storage"
)

// UCI reads commands from an input stream, drives the engine and writes
// protocol responses to an output stream.
type UCI struct {
	engine   *engine.Engine
	position *board.Position

	options *storage.EngineOptions
	store   *storage.Storage
	stats   *storage.SearchStats

	searchDone chan struct{}

	out io.Writer
}

// New creates a UCI handler around eng, writing responses to stdout.
// store may be nil; when set, option changes and search statistics are
// persisted across sessions.
func New(eng *engine.Engine, store *storage.Storage) *UCI {
	u := &UCI{
		engine:   eng,
		position: board.NewPosition(),
		options:  storage.DefaultOptions(),
		store:    store,
		stats:    &storage.SearchStats{},
		out:      os.Stdout,
	}
	if store != nil {
		if opts, err := store.LoadOptions(); err == nil {
			u.options = opts
		}
		if stats, err := store.LoadStats(); err == nil {
			u.stats = stats
		}
	}
	eng.SetPosition(u.position)
	return u
}

// Run reads commands from r until EOF or "quit".
func (u *UCI) Run(r io.Reader) {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Fprintln(u.out, "readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			fmt.Fprintln(u.out, u.position.String())
		case "eval":
			fmt.Fprintf(u.out, "static eval: %d\n", engine.Evaluate(u.position))
		case "perft":
			u.handlePerft(args, false)
		case "divide":
			u.handlePerft(args, true)
		default:
			fmt.Fprintf(os.Stderr, "info string unknown command: %s\n", cmd)
		}
	}

	// Input closed; do not leave a search goroutine behind.
	u.handleStop()
}

func (u *UCI) handleUCI() {
	fmt.Fprintln(u.out, "id name Belette")
	fmt.Fprintln(u.out, "id author Vincent Bab")
	fmt.Fprintln(u.out)
	fmt.Fprintf(u.out, "option name Hash type spin default %d min 1 max 4096\n", u.options.HashMB)
	fmt.Fprintf(u.out, "option name Move Overhead type spin default %d min 0 max 5000\n", u.options.MoveOverhead.Milliseconds())
	fmt.Fprintln(u.out, "option name Clear Hash type button")
	fmt.Fprintln(u.out, "uciok")
}

func (u *UCI) handleNewGame() {
	u.handleStop()
	u.engine.TT().Clear()
	u.position = board.NewPosition()
	u.engine.SetPosition(u.position)
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos [moves ...]
//   - position fen <fen> [moves ...]
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var pos *board.Position
	movesIdx := -1

	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
		for i, a := range args {
			if a == "moves" {
				movesIdx = i
				break
			}
		}
	case "fen":
		fenParts := args[1:]
		for i, a := range fenParts {
			if a == "moves" {
				movesIdx = i + 1
				fenParts = fenParts[:i]
				break
			}
		}
		p, err := board.ParseFEN(strings.Join(fenParts, " "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "info string invalid fen: %v\n", err)
			return
		}
		pos = p
	default:
		return
	}

	if movesIdx >= 0 {
		for _, ms := range args[movesIdx+1:] {
			m, err := board.ParseMove(ms, pos)
			if err != nil || !pos.IsLegalMove(m) {
				fmt.Fprintf(os.Stderr, "info string illegal move: %s\n", ms)
				return
			}
			pos.MakeMove(m)
		}
	}

	u.position = pos
	u.engine.SetPosition(pos)
}

// handleGo parses search limits and starts a search on its own
// goroutine. Info lines are emitted per completed depth; bestmove is
// emitted when the search terminates.
func (u *UCI) handleGo(args []string) {
	if u.engine.IsSearching() {
		return
	}

	limits := u.parseLimits(args)

	u.engine.OnSearchProgress = func(ev engine.SearchEvent) {
		u.sendInfo(ev)
	}
	u.engine.OnSearchFinish = func(ev engine.SearchEvent) {
		u.sendInfo(ev)
		best := ev.BestMove()
		if best == board.NoMove {
			fmt.Fprintln(u.out, "bestmove 0000")
		} else {
			fmt.Fprintf(u.out, "bestmove %s\n", best)
		}
		u.recordSearch(ev)
	}

	u.searchDone = make(chan struct{})
	go func() {
		defer close(u.searchDone)
		u.engine.Search(limits)
	}()
}

// parseLimits maps "go" arguments to engine search limits. The engine
// does its own time allocation from the clock, so the clock values are
// passed through, reduced by the configured move overhead.
func (u *UCI) parseLimits(args []string) engine.SearchLimits {
	limits := engine.SearchLimits{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				limits.MaxDepth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				limits.MaxNodes, _ = strconv.ParseUint(args[i+1], 10, 64)
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.MaxTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "wtime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.TimeLeft[board.White] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "btime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.TimeLeft[board.Black] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "winc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.Increment[board.White] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "binc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.Increment[board.Black] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "movestogo":
			if i+1 < len(args) {
				limits.MovesToGo, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "searchmoves":
			for i+1 < len(args) {
				m, err := board.ParseMove(args[i+1], u.position)
				if err != nil || !u.position.IsLegalMove(m) {
					break
				}
				limits.SearchMoves = append(limits.SearchMoves, m)
				i++
			}
		case "infinite":
			// No limits at all; the search runs until "stop".
		}
	}

	// Keep a safety margin for protocol latency.
	for c := range limits.TimeLeft {
		if limits.TimeLeft[c] > u.options.MoveOverhead {
			limits.TimeLeft[c] -= u.options.MoveOverhead
		}
	}

	return limits
}

// handleStop requests a stop and waits for the search goroutine so
// bestmove is printed before the next command is processed.
func (u *UCI) handleStop() {
	if u.searchDone == nil {
		return
	}
	u.engine.Stop()
	<-u.searchDone
	u.searchDone = nil
}

func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> [value <value>]
	var name, value string
	reading := &name
	for _, arg := range args {
		switch arg {
		case "name":
			reading = &name
		case "value":
			reading = &value
		default:
			if *reading != "" {
				*reading += " "
			}
			*reading += arg
		}
	}

	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < 1 {
			fmt.Fprintf(os.Stderr, "info string invalid Hash value: %s\n", value)
			return
		}
		u.options.HashMB = mb
		u.engine.ResizeTT(mb)
		u.saveOptions()
	case "move overhead":
		ms, err := strconv.Atoi(value)
		if err != nil || ms < 0 {
			fmt.Fprintf(os.Stderr, "info string invalid Move Overhead value: %s\n", value)
			return
		}
		u.options.MoveOverhead = time.Duration(ms) * time.Millisecond
		u.saveOptions()
	case "clear hash":
		u.engine.TT().Clear()
	default:
		fmt.Fprintf(os.Stderr, "info string unknown option: %s\n", name)
	}
}

func (u *UCI) saveOptions() {
	if u.store == nil {
		return
	}
	u.options.LastUsed = time.Now()
	if err := u.store.SaveOptions(u.options); err != nil {
		fmt.Fprintf(os.Stderr, "info string failed to save options: %v\n", err)
	}
}

func (u *UCI) recordSearch(ev engine.SearchEvent) {
	if u.store == nil {
		return
	}
	u.stats.Record(ev.Depth, ev.Nodes, ev.Elapsed)
	if err := u.store.SaveStats(u.stats); err != nil {
		fmt.Fprintf(os.Stderr, "info string failed to save stats: %v\n", err)
	}
}

// sendInfo outputs one search info line in UCI format.
func (u *UCI) sendInfo(ev engine.SearchEvent) {
	var b strings.Builder

	fmt.Fprintf(&b, "info depth %d", ev.Depth)

	if engine.IsMateScore(ev.Score) {
		fmt.Fprintf(&b, " score mate %d", engine.MateIn(ev.Score))
	} else {
		fmt.Fprintf(&b, " score cp %d", ev.Score)
	}

	fmt.Fprintf(&b, " nodes %d time %d", ev.Nodes, ev.Elapsed.Milliseconds())
	if ev.Elapsed > 0 {
		fmt.Fprintf(&b, " nps %d", uint64(float64(ev.Nodes)/ev.Elapsed.Seconds()))
	}
	if ev.HashFull > 0 {
		fmt.Fprintf(&b, " hashfull %d", ev.HashFull)
	}

	if len(ev.PV) > 0 {
		b.WriteString(" pv")
		for _, m := range ev.PV {
			b.WriteByte(' ')
			b.WriteString(m.String())
		}
	}

	fmt.Fprintln(u.out, b.String())
}

// handlePerft runs perft on the current position. With divide set the
// per-move node counts are printed as well.
func (u *UCI) handlePerft(args []string, divide bool) {
	depth := 5
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			fmt.Fprintf(os.Stderr, "info string invalid perft depth: %s\n", args[0])
			return
		}
		depth = d
	}

	if divide {
		engine.RunPerft(u.position, depth, u.out)
		return
	}

	start := time.Now()
	nodes := engine.Perft(u.position, depth)
	elapsed := time.Since(start)

	fmt.Fprintf(u.out, "Nodes: %d\n", nodes)
	if elapsed > 0 {
		fmt.Fprintf(u.out, "NPS: %d\n", uint64(float64(nodes)/elapsed.Seconds()))
	}
	fmt.Fprintf(u.out, "Time: %dms\n", elapsed.Milliseconds())
}
