// Package thinker implements the command-driven search actor: a goroutine that owns a board and
// drives the search engine, either as the root of a game (talking to GameController) or as a
// SearcherPool worker (talking to the root). See spec.md 4.4.
package thinker

import (
	"context"
	"sync"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"go.uber.org/atomic"

	"github.com/kestrelchess/core/pkg/board"
	"github.com/kestrelchess/core/pkg/eval"
	"github.com/kestrelchess/core/pkg/search"
	"github.com/kestrelchess/core/pkg/transposition"
)

// State is the Thinker's externally-visible activity, per spec.md 4.4's Idle/Thinking/
// Pondering/Searching state set.
type State int32

const (
	Idle State = iota
	Thinking
	Pondering
	Searching
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Thinking:
		return "thinking"
	case Pondering:
		return "pondering"
	case Searching:
		return "searching"
	default:
		return "unknown"
	}
}

// ResponseKind discriminates the Response union a Thinker posts back to its parent.
type ResponseKind int

const (
	RspDraw ResponseKind = iota
	RspMove
	RspResign
	RspStats
	RspPv
	RspSearchDone
)

// IsFinal reports whether a response of this kind ends the in-flight command, returning the
// Thinker to Idle. Final responses are dropped rather than delivered if a Bail was requested
// mid-flight, per spec.md 4.4's lifecycle rule.
func (k ResponseKind) IsFinal() bool {
	switch k {
	case RspDraw, RspMove, RspResign, RspSearchDone:
		return true
	default:
		return false
	}
}

// Response is one message posted from a Thinker to its parent's response channel. Only the
// fields relevant to Kind are meaningful.
type Response struct {
	Kind ResponseKind

	Move      board.Move      // RspDraw, RspMove, RspSearchDone
	Eval      eval.Eval       // RspSearchDone
	SearchPv  search.SearchPv // RspSearchDone
	DisplayPv search.DisplayPv
	Stats     search.StatsSnapshot
}

// workingContext is a Thinker's private state, touched only by its own goroutine: the board
// under search, a clock snapshot and a move restriction list. See spec.md 4.4 ContextT.
type workingContext struct {
	board    *board.Board
	clock    time.Time
	moveList []board.Move
}

// SharedContext is state shared jointly by a root Thinker and the workers it delegates to.
// Only the root may mutate it; workers only observe. See spec.md 4.4 SharedContextT.
type SharedContext struct {
	TT    *transposition.Table
	Stats *search.EngineStats

	mu          sync.RWMutex
	pv          search.HintPv
	maxLevel    int // <0 means unbounded
	maxNodes    int // 0 means unbounded
	randomMoves bool
	canResign   bool
	gameCount   int
	maxThreads  int
}

// NewSharedContext builds a SharedContext with an unbounded level/node budget and resignation
// disabled, matching a freshly constructed engine's conservative defaults.
func NewSharedContext(tt *transposition.Table) *SharedContext {
	return &SharedContext{TT: tt, Stats: &search.EngineStats{}, maxLevel: -1, maxThreads: 1}
}

func (s *SharedContext) Pv() search.HintPv {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pv
}

func (s *SharedContext) SetPv(pv search.HintPv) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pv = pv
}

func (s *SharedContext) MaxLevel() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxLevel
}

func (s *SharedContext) SetMaxLevel(level int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxLevel = level
}

func (s *SharedContext) MaxNodes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxNodes
}

func (s *SharedContext) SetMaxNodes(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxNodes = n
}

// RandomMoves reports the stored random-moves setting. No search or board code reads it.
func (s *SharedContext) RandomMoves() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.randomMoves
}

func (s *SharedContext) SetRandomMoves(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.randomMoves = v
}

func (s *SharedContext) CanResign() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canResign
}

func (s *SharedContext) SetCanResign(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canResign = v
}

func (s *SharedContext) MaxThreads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxThreads
}

func (s *SharedContext) SetMaxThreads(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxThreads = n
}

func (s *SharedContext) IncGameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameCount++
	return s.gameCount
}

// command is a unit of work posted to a Thinker's queue, executed by its single goroutine.
type command func(ctx context.Context, t *Thinker)

// Thinker is the search actor of spec.md 4.4: a command queue, a response channel, a private
// working board, and a pointer to state shared with sibling workers. Not safe to touch from
// outside except through its exported methods -- the working board is single-goroutine-owned.
type Thinker struct {
	iox.AsyncCloser

	id     int
	isRoot bool

	cmdCh chan command
	rspCh chan Response

	shared  *SharedContext
	working workingContext

	history  *search.History
	evalFn   eval.Evaluator
	noise    eval.Random
	delegate search.Delegate // nil for workers, which never fan out further

	moveNow atomic.Bool
	bail    atomic.Bool
	state   atomic.Int32
}

// New builds an idle Thinker seated at the given board, owned by the caller's goroutine once
// Run is called. isRoot marks the one Thinker per game that owns SharedContext's mutable fields
// and (optionally) a Delegate to a SearcherPool; workers pass delegate as nil.
func New(id int, isRoot bool, shared *SharedContext, b *board.Board, evalFn eval.Evaluator, noise eval.Random, historyWindow int, delegate search.Delegate) *Thinker {
	return &Thinker{
		AsyncCloser: iox.NewAsyncCloser(),
		id:          id,
		isRoot:      isRoot,
		cmdCh:       make(chan command, 8),
		rspCh:       make(chan Response, 64),
		shared:      shared,
		working:     workingContext{board: b},
		history:     search.NewHistory(historyWindow),
		evalFn:      evalFn,
		noise:       noise,
		delegate:    delegate,
	}
}

func (t *Thinker) ID() int { return t.id }

func (t *Thinker) IsRoot() bool { return t.isRoot }

func (t *Thinker) State() State { return State(t.state.Load()) }

// NeedsToMove reports whether a MoveNow (or Bail) has been signalled and not yet observed as
// idle again.
func (t *Thinker) NeedsToMove() bool { return t.moveNow.Load() }

func (t *Thinker) Responses() <-chan Response { return t.rspCh }

// Run drains the command queue until the context is done or Quit is posted. Intended to be
// called exactly once, in a dedicated goroutine, by the Thinker's owner.
func (t *Thinker) Run(ctx context.Context) {
	defer t.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-t.cmdCh:
			if !ok {
				return
			}
			cmd(ctx, t)
		}
	}
}

func (t *Thinker) postCmd(cmd command) {
	t.cmdCh <- cmd
}

// Quit stops Run once the current command (if any) finishes.
func (t *Thinker) Quit() {
	close(t.cmdCh)
}

// MoveNow and Bail are signals, not queued commands: the search loop polls the move-now flag
// directly at every node (spec.md 4.2/4.4), so these take effect immediately even while a
// Think/Ponder/Search command is in flight, rather than waiting behind it in the queue.

// MoveNow requests that the in-flight search conclude at the next node boundary and report its
// best move so far.
func (t *Thinker) MoveNow() {
	t.moveNow.Store(true)
}

// Bail is MoveNow plus discarding the eventual final response -- used when the parent is about
// to issue a different command and doesn't want a stale result racing it.
func (t *Thinker) Bail() {
	t.moveNow.Store(true)
	t.bail.Store(true)
}

func (t *Thinker) resetSignals() {
	t.moveNow.Store(false)
	t.bail.Store(false)
}

// NewGame resets the history heuristic table and, on the root, bumps the shared game counter.
func (t *Thinker) NewGame() {
	t.postCmd(func(ctx context.Context, t *Thinker) {
		t.history.Clear()
		if t.isRoot {
			t.shared.IncGameCount()
		}
	})
}

// SetBoard replaces the working board outright.
func (t *Thinker) SetBoard(b *board.Board) {
	t.postCmd(func(ctx context.Context, t *Thinker) {
		t.working.board = b
	})
}

// MakeMove and UnmakeMove mirror the parent's own board mutation onto this Thinker's working
// board; GameController uses them to keep the root in step with the game. Pool workers are
// instead handed a fresh board fork via SetBoard on each delegation.
func (t *Thinker) MakeMove(m board.Move) {
	t.postCmd(func(ctx context.Context, t *Thinker) {
		t.working.board.MakeMove(m)
	})
}

func (t *Thinker) UnmakeMove() {
	t.postCmd(func(ctx context.Context, t *Thinker) {
		t.working.board.UnmakeMove()
	})
}

// Think starts iterative-deepening search for the side to move, optionally restricted to
// restrictTo (nil or empty searches every legal root move).
func (t *Thinker) Think(restrictTo []board.Move) {
	t.postCmd(func(ctx context.Context, t *Thinker) {
		t.resetSignals()
		t.state.Store(int32(Thinking))
		t.working.moveList = restrictTo
		t.working.clock = time.Now()
		t.runSearchLoop(ctx, false)
		t.state.Store(int32(Idle))
	})
}

// Ponder is Think run on the opponent's clock: identical search, but the completion handler
// never resigns (spec.md 4.2's resign policy explicitly requires "not pondering").
func (t *Thinker) Ponder(restrictTo []board.Move) {
	t.postCmd(func(ctx context.Context, t *Thinker) {
		t.resetSignals()
		t.state.Store(int32(Pondering))
		t.working.moveList = restrictTo
		t.working.clock = time.Now()
		t.runSearchLoop(ctx, true)
		t.state.Store(int32(Idle))
	})
}

// Search runs this Thinker as a SearcherPool worker: play move, search the resulting position
// at the given window to maxDepth-1, and report SearchDone with the negated result.
func (t *Thinker) Search(alpha, beta eval.Score, move board.Move, curDepth, maxDepth int) {
	t.postCmd(func(ctx context.Context, t *Thinker) {
		t.resetSignals()
		t.state.Store(int32(Searching))
		t.runSearch(ctx, alpha, beta, move, curDepth, maxDepth)
		t.state.Store(int32(Idle))
	})
}

func (t *Thinker) newSearchContext() *search.Context {
	return &search.Context{
		TT:       t.shared.TT,
		Eval:     t.evalFn,
		Noise:    t.noise,
		History:  t.history,
		Stats:    t.shared.Stats,
		MoveNow:  &t.moveNow,
		Delegate: t.delegate,
		RootPly:  t.working.board.Ply(),
	}
}

func (t *Thinker) runSearch(ctx context.Context, alpha, beta eval.Score, move board.Move, curDepth, maxDepth int) {
	sctx := t.newSearchContext()

	t.working.board.MakeMove(move)
	score, pv, err := search.Minimax(ctx, sctx, t.working.board, beta.Negate(), alpha.Negate(), maxDepth-1, curDepth+1)
	t.working.board.UnmakeMove()

	if err != nil {
		logw.Debugf(ctx, "thinker %v: search of %v halted: %v", t.id, move, err)
		return
	}

	final := eval.IncrementMateDistance(score).Negate()
	t.postResponse(Response{
		Kind:     RspSearchDone,
		Move:     move,
		Eval:     eval.Eval{Low: final, High: final},
		SearchPv: pv.Prepend(move),
	})
}

// runSearchLoop drives iterative deepening, seeded from the shared HintPv per spec.md 4.2's
// three-way restart rule, reporting progress after every completed level and applying the
// resign/draw/move completion policy once move-now or the level cap stops it.
func (t *Thinker) runSearchLoop(ctx context.Context, ponder bool) {
	sctx := t.newSearchContext()
	sctx.RootMoves = t.working.moveList

	hint := t.shared.Pv()
	level := hint.StartDepth()
	maxLevel := t.shared.MaxLevel()
	if maxLevel >= 0 && level > maxLevel {
		// A hint already at the level cap still gets one search, at the cap.
		level = maxLevel
	}
	maxNodes := t.shared.MaxNodes()
	startNodes := t.shared.Stats.Nodes.Load()

	var bestPv search.SearchPv
	var bestEval eval.Eval
	completed := false

	for {
		if t.bail.Load() {
			break
		}
		if maxLevel >= 0 && level > maxLevel {
			break
		}

		if len(bestPv.Moves) > 0 {
			sctx.HintMove = bestPv.Moves[0]
		}

		score, pv, err := search.Minimax(ctx, sctx, t.working.board, eval.LossScore, eval.WinScore, level, 0)
		if err != nil {
			logw.Debugf(ctx, "thinker %v: think halted at level %v: %v", t.id, level, err)
			break
		}
		if len(pv.Moves) == 0 {
			// Checkmate or stalemate at the root: nothing to iterate deeper on.
			bestPv, bestEval, completed = pv, eval.Eval{Low: score, High: score}, true
			break
		}

		bestPv = pv
		bestEval = eval.Eval{Low: score, High: score}
		completed = true

		t.shared.SetPv(search.HintPv{Moves: pv.Moves, Eval: bestEval, Completed: true, Level: level})
		t.postResponse(Response{Kind: RspPv, DisplayPv: search.DisplayPv{Depth: level, Eval: bestEval, SearchPv: pv}})
		t.postResponse(Response{Kind: RspStats, Stats: t.shared.Stats.Snapshot()})

		if _, ok := bestEval.Low.MateDistance(); ok {
			break
		}
		if t.moveNow.Load() {
			break
		}
		if maxNodes > 0 && t.shared.Stats.Nodes.Load()-startNodes >= uint64(maxNodes) {
			break
		}
		level++
	}

	t.finishSearch(ponder, bestPv, bestEval, completed)
}

func (t *Thinker) finishSearch(ponder bool, pv search.SearchPv, ev eval.Eval, completed bool) {
	if !completed || len(pv.Moves) == 0 {
		t.postResponse(Response{Kind: RspMove, Move: board.Move{}})
		return
	}
	move := pv.Moves[0]

	if t.canResign(ponder, ev) {
		t.postResponse(Response{Kind: RspResign})
		return
	}

	b := t.working.board.Fork()
	b.MakeMove(move)
	if b.IsDrawFiftyMove() || b.IsDrawInsufficientMaterial() || b.IsDrawThreefoldRepetitionFast() || b.IsDrawThreefoldRepetition() {
		t.postResponse(Response{Kind: RspDraw, Move: move})
		return
	}
	t.postResponse(Response{Kind: RspMove, Move: move})
}

// canResign implements spec.md 4.2's resign policy: a completed search whose high bound has
// confirmed a loss, against an opponent ahead by at least a rook with our queen already gone,
// outside of pondering, with resignation enabled.
func (t *Thinker) canResign(ponder bool, ev eval.Eval) bool {
	if ponder || !t.shared.CanResign() {
		return false
	}
	if ev.High > eval.LossThreshold {
		return false
	}
	b := t.working.board
	turn := b.Turn()
	if b.Material(turn.Opponent())-b.Material(turn) < board.Rook.Worth() {
		return false
	}
	return len(b.PieceSquares(turn, board.Queen)) == 0
}

func (t *Thinker) postResponse(r Response) {
	if t.bail.Load() && r.Kind.IsFinal() {
		return
	}
	if r.Kind.IsFinal() {
		t.rspCh <- r
		return
	}
	select {
	case t.rspCh <- r:
	default:
		// Progress-only responses (Pv/Stats) are best-effort: drop rather than block the
		// search if the parent isn't keeping up.
	}
}
