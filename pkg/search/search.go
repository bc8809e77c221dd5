// Package search implements the minimax search engine: iterative deepening seeded from a hint
// principal variation, alpha-beta with quiescence, futility pruning, the history heuristic, and
// master/worker delegation through a Delegate (normally a searcherpool.Pool).
package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kestrelchess/core/pkg/board"
	"github.com/kestrelchess/core/pkg/eval"
	"go.uber.org/atomic"
)

// ErrHalted is returned by Minimax when the search was cancelled via ctx or the move-now flag
// before a result could be produced at the requested depth.
var ErrHalted = errors.New("search halted")

// maxPvLength bounds SearchPv's move array, per spec.md's start-depth+length<=20 invariant.
const maxPvLength = 20

// SearchPv is the principal variation accumulated from one node of a search: the depth at which
// the node sits (so start+length never needs to exceed maxPvLength) plus the moves found best
// from that node onward.
type SearchPv struct {
	StartDepth int
	Moves      []board.Move
}

// Prepend grows pv by one ply, as a child node's result becomes the parent's, truncating once
// start-depth+length would exceed the cap.
func (pv SearchPv) Prepend(m board.Move) SearchPv {
	if pv.StartDepth+len(pv.Moves)+1 > maxPvLength {
		return SearchPv{StartDepth: pv.StartDepth - 1, Moves: pv.Moves}
	}
	moves := make([]board.Move, 0, len(pv.Moves)+1)
	moves = append(moves, m)
	moves = append(moves, pv.Moves...)
	return SearchPv{StartDepth: pv.StartDepth - 1, Moves: moves}
}

func (pv SearchPv) String() string {
	parts := make([]string, len(pv.Moves))
	for i, m := range pv.Moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// DisplayPv is a SearchPv dressed up for display: the nominal non-quiescing search depth it was
// found at, and the eval bounds reported for the root.
type DisplayPv struct {
	Depth int
	Eval  eval.Eval
	SearchPv
}

func (pv DisplayPv) String() string {
	return fmt.Sprintf("depth=%v eval=%v pv=[%v]", pv.Depth, pv.Eval, pv.SearchPv)
}

// HintPv is the inter-move cache of the last search's principal variation: used only to seed
// move ordering and the next search's starting depth. Entries may be stale by the time they are
// consulted -- the consumer must not assume the moves remain legal.
type HintPv struct {
	Moves     []board.Move
	Eval      eval.Eval
	Completed bool
	Level     int
}

// StartDepth computes the depth at which the next iterative-deepening search should begin, per
// spec.md 4.2: restart at 0 to find the shortest mate if the hint shows a forced win/loss, else
// resume one past a completed level, else retry the incomplete level.
func (h HintPv) StartDepth() int {
	if _, ok := h.Eval.Low.MateDistance(); ok {
		return 0
	}
	if _, ok := h.Eval.High.MateDistance(); ok {
		return 0
	}
	if h.Completed {
		return h.Level + 1
	}
	return h.Level
}

// EngineStats are best-effort, racy counters describing search work done; read for display only,
// never relied upon for correctness.
type EngineStats struct {
	Nodes        atomic.Uint64
	NonQuiesce   atomic.Uint64
	MoveGenCalls atomic.Uint64
	HashHits     atomic.Uint64
	HashWrites   atomic.Uint64
}

func (s *EngineStats) String() string {
	return fmt.Sprintf("nodes=%v (quiesce=%v) movegen=%v hash=%v/%v",
		s.Nodes.Load(), s.Nodes.Load()-s.NonQuiesce.Load(), s.MoveGenCalls.Load(),
		s.HashHits.Load(), s.HashWrites.Load())
}

// StatsSnapshot is a point-in-time, plain-value copy of EngineStats, suitable for sending over a
// channel without carrying the atomics themselves.
type StatsSnapshot struct {
	Nodes, NonQuiesce, MoveGenCalls, HashHits, HashWrites uint64
}

func (s *EngineStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Nodes:        s.Nodes.Load(),
		NonQuiesce:   s.NonQuiesce.Load(),
		MoveGenCalls: s.MoveGenCalls.Load(),
		HashHits:     s.HashHits.Load(),
		HashWrites:   s.HashWrites.Load(),
	}
}
