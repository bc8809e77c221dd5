// Package searcherpool implements the root Thinker's elastic worker pool: a resizable set
// of thinker.Thinker workers that the root delegates non-PV child searches to, per spec.md 4.5.
// Pool implements search.Delegate so a *Pool can be handed straight to a root Thinker's
// newSearchContext.
package searcherpool

import (
	"context"
	"sync"

	"github.com/seekerror/logw"
	"go.uber.org/atomic"

	"github.com/kestrelchess/core/pkg/board"
	"github.com/kestrelchess/core/pkg/eval"
	"github.com/kestrelchess/core/pkg/search"
	"github.com/kestrelchess/core/pkg/thinker"
)

// result is one completed delegated search, fanned in from a worker's response stream to the
// pool-wide done channel.
type result struct {
	slot  int
	move  board.Move
	score eval.Score
	pv    search.SearchPv
}

// worker is one pool slot: a persistent Thinker plus the forwarding goroutine that drains its
// response channel for the pool's whole lifetime, and the busy flag TryDelegate/JoinOne/Bail
// coordinate over.
type worker struct {
	th     *thinker.Thinker
	busy   atomic.Bool
	cancel context.CancelFunc
}

// Pool is the root thinker's SearcherPool. Not safe for use by more than one master goroutine at
// a time -- exactly matching a Thinker's own single-goroutine-owner contract.
type Pool struct {
	ctx context.Context

	sharedCtx     *thinker.SharedContext
	evalFn        eval.Evaluator
	historyWindow int

	mu      sync.Mutex
	workers []*worker // ever-spawned workers; only workers[:active] are eligible for delegation
	active  int

	done     chan result
	inFlight atomic.Int32

	nextID int
}

// New builds an empty pool (zero active workers); call SetNumThreads to grow it. ctx bounds the
// lifetime of every worker goroutine the pool ever spawns.
func New(ctx context.Context, sharedCtx *thinker.SharedContext, evalFn eval.Evaluator, historyWindow int) *Pool {
	return &Pool{
		ctx:           ctx,
		sharedCtx:     sharedCtx,
		evalFn:        evalFn,
		historyWindow: historyWindow,
		done:          make(chan result, 64),
	}
}

// SetNumThreads grows the active set to n (spawning fresh workers seated at a fork of b, each
// given NewGame) or shrinks it (idling workers beyond n, which remain spawned and reusable on
// the next grow, per spec.md 4.5's "moving idle workers into a free pool" semantics).
func (p *Pool) SetNumThreads(n int, b *board.Board) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.workers) < n {
		id := p.nextID
		p.nextID++

		wctx, cancel := context.WithCancel(p.ctx)
		fork := b.Fork()
		th := thinker.New(id, false, p.sharedCtx, fork, p.evalFn, eval.NewRandom(0, int64(id)), p.historyWindow, nil)
		w := &worker{th: th, cancel: cancel}
		go th.Run(wctx)
		go p.forward(w, id)

		w.th.NewGame()
		p.workers = append(p.workers, w)
	}
	p.active = n
}

// NumThreads returns the current active worker count.
func (p *Pool) NumThreads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// forward drains a worker's response stream for its entire lifetime, posting completed searches
// to the pool's fan-in channel and clearing the worker's busy flag. Non-final progress responses
// (a worker never emits Pv/Stats, since it isn't the root, but a defensive default drops them
// too) are ignored.
func (p *Pool) forward(w *worker, slot int) {
	for r := range w.th.Responses() {
		if r.Kind != thinker.RspSearchDone {
			continue
		}
		w.busy.Store(false)
		select {
		case p.done <- result{slot: slot, move: r.Move, score: r.Eval.Low, pv: r.SearchPv}:
		case <-p.ctx.Done():
			return
		}
	}
}

// TryDelegate implements search.Delegate: hands move off to the first idle worker in the active
// set, if any.
func (p *Pool) TryDelegate(ctx context.Context, b *board.Board, move board.Move, alpha, beta eval.Score, searchDepth, ply int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := 0; i < p.active; i++ {
		w := p.workers[i]
		if w.busy.CompareAndSwap(false, true) {
			w.th.SetBoard(b.Fork())
			p.inFlight.Inc()
			w.th.Search(alpha, beta, move, ply, searchDepth)
			return true
		}
	}
	return false
}

// JoinOne implements search.Delegate: blocks for the next completed delegated search.
func (p *Pool) JoinOne(ctx context.Context) (board.Move, eval.Score, search.SearchPv, bool) {
	select {
	case r := <-p.done:
		p.inFlight.Dec()
		return r.move, r.score, r.pv, true
	case <-ctx.Done():
		return board.Move{}, 0, search.SearchPv{}, false
	}
}

// InFlight implements search.Delegate.
func (p *Pool) InFlight() int {
	return int(p.inFlight.Load())
}

// Bail implements search.Delegate: sends MoveNow+Bail to every busy worker and forces the
// in-flight count to zero immediately, since a bailed worker's final response is dropped rather
// than delivered and so will never reach the done channel to decrement it the ordinary way.
func (p *Pool) Bail() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := 0; i < p.active; i++ {
		w := p.workers[i]
		if w.busy.Load() {
			w.th.Bail()
			w.busy.Store(false)
		}
	}
	p.inFlight.Store(0)
	logw.Debugf(p.ctx, "searcherpool: bailed %v active workers", p.active)
}

// MirrorSetBoard reseats every spawned worker at a fresh fork of b, e.g. after GameController's
// SetBoard shortcut fails to apply and the root position is replaced outright. There is no
// MirrorMakeMove/MirrorUnmakeMove counterpart: TryDelegate already reseats whichever worker it
// assigns with a fresh b.Fork() on every delegation (see above), so no worker's board can ever go
// stale between delegations -- an incremental per-move mirror would just be wasted work.
func (p *Pool) MirrorSetBoard(b *board.Board) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, w := range p.workers {
		w.th.SetBoard(b.Fork())
	}
}

// MirrorNewGame resets every spawned worker's history table for a new game.
func (p *Pool) MirrorNewGame() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, w := range p.workers {
		w.th.NewGame()
	}
}
