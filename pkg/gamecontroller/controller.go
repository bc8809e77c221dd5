// Package gamecontroller implements the game-level state machine above a root thinker.Thinker:
// clocks, save-game ply history, ponder/think/search transitions and move bookkeeping. See
// spec.md 4.6, grounded on original_source/Game.cpp/.h.
package gamecontroller

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"

	"github.com/kestrelchess/core/pkg/board"
	"github.com/kestrelchess/core/pkg/board/fen"
	"github.com/kestrelchess/core/pkg/eval"
	"github.com/kestrelchess/core/pkg/savegame"
	"github.com/kestrelchess/core/pkg/search"
	"github.com/kestrelchess/core/pkg/searcherpool"
	"github.com/kestrelchess/core/pkg/thinker"
)

// Version identifies this module's GameController implementation, surfaced by a front-end's
// identity string (e.g. a UCI "id" response) the same way the teacher's engine.Name() stamped
// its responses with a build.Version.
var Version = build.NewVersion(0, 1, 0)

// State is the GameController's run state.
type State int

const (
	// Stopped means the engine is idle and must not alter game state until Go is called.
	Stopped State = iota
	// Running means refresh keeps the engine thinking/pondering in sync with the board.
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Handler is the set of callbacks a library consumer registers to receive the root Thinker's
// responses, per spec.md 4.6's control protocol. Each is optional; a nil callback is simply not
// invoked. OnGameOver supplements the spec's named callbacks: it fires once a position is
// adjudicated as checkmate or stalemate, using
// board.Board's own Adjudicate/Result bookkeeping.
type Handler struct {
	OnMove        func(move board.Move)
	OnDraw        func(move board.Move, reason string)
	OnResign      func(color board.Color)
	OnGameOver    func(result board.Result)
	OnNotifyStats func(stats search.StatsSnapshot)
	OnNotifyPv    func(pv search.DisplayPv)
}

// GameController holds the canonical game state -- save-game ply history, two live clocks, two
// initial clocks used on new-game reset, the current board, which sides are engine-controlled,
// whether pondering is allowed, whether engine moves auto-play -- and dispatches responses from
// a single root thinker.Thinker. See spec.md 4.6.
type GameController struct {
	mu sync.Mutex

	state State

	ponder              bool
	autoPlayEngineMoves bool
	done                bool
	engineControl       [2]bool

	save *savegame.SaveGame

	initialClocks [2]*Clock
	clocks        [2]*Clock

	board *board.Board
	zt    *board.ZobristTable

	root *thinker.Thinker
	pool *searcherpool.Pool

	searchList []board.Move

	handler Handler
}

// New builds a GameController sitting at b: a root thinker.Thinker and its backing
// searcherpool.Pool (initially sized to numThreads, per spec.md 4.5), sharing shared's
// transposition table, hint PV and config flags, plus white and black's starting clock
// configuration, dispatching responses to handler. New starts the root's Run loop and its own
// goroutine draining root.Responses(); both are bounded by ctx.
func New(ctx context.Context, shared *thinker.SharedContext, zt *board.ZobristTable, b *board.Board, evalFn eval.Evaluator, noise eval.Random, historyWindow, numThreads int, white, black savegame.ClockConfig, handler Handler) *GameController {
	pool := searcherpool.New(ctx, shared, evalFn, historyWindow)
	if numThreads > 0 {
		pool.SetNumThreads(numThreads, b)
	}

	root := thinker.New(0, true, shared, b.Fork(), evalFn, noise, historyWindow, pool)
	go root.Run(ctx)

	c := &GameController{
		state:               Stopped,
		autoPlayEngineMoves: true,
		board:               b,
		zt:                  zt,
		root:                root,
		pool:                pool,
		handler:             handler,
	}
	c.initialClocks = [2]*Clock{
		board.White: NewClock(white.StartTime, white.Increment, int(white.MovesToNextControl)),
		board.Black: NewClock(black.StartTime, black.Increment, int(black.MovesToNextControl)),
	}
	c.clocks = [2]*Clock{
		board.White: NewClock(white.StartTime, white.Increment, int(white.MovesToNextControl)),
		board.Black: NewClock(black.StartTime, black.Increment, int(black.MovesToNextControl)),
	}
	c.save = savegame.New(b.Position(), white, black)

	logw.Infof(ctx, "gamecontroller %v: new game, white=%v black=%v", Version, white, black)
	go c.dispatchLoop(ctx)
	return c
}

func (c *GameController) dispatchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-c.root.Responses():
			if !ok {
				return
			}
			c.dispatch(ctx, r)
		}
	}
}

func (c *GameController) dispatch(ctx context.Context, r thinker.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	turn := c.board.Turn()
	if !c.ponder && !c.engineControl[turn] {
		// The engine should not emit anything when it isn't pondering *and* it isn't its turn.
		logw.Debugf(ctx, "gamecontroller: unexpected response %v while not engine's turn", r.Kind)
	}

	switch r.Kind {
	case thinker.RspPv:
		if c.handler.OnNotifyPv != nil {
			c.handler.OnNotifyPv(r.DisplayPv)
		}
	case thinker.RspStats:
		if c.handler.OnNotifyStats != nil {
			c.handler.OnNotifyStats(r.Stats)
		}
	case thinker.RspMove:
		c.onMove(r.Move)
	case thinker.RspDraw:
		c.onDraw(r.Move)
	case thinker.RspResign:
		c.onResign()
	case thinker.RspSearchDone:
		// SearcherPool worker traffic only; the root Thinker GameController talks to never
		// issues Search directly, so this should not occur in practice.
	}
}

// refresh is the main observer, called after every game-state change: if Running and the turn
// side is engine-controlled, ensure the engine is Thinking on the current clock; if the off-turn
// side is engine-controlled and pondering is enabled, ensure Pondering; else ensure idle. Assumes
// c.mu is held. Grounded on original_source/Game.cpp's Game::refresh.
func (c *GameController) refresh() {
	if c.state == Stopped {
		return
	}

	turn := c.board.Turn()

	if !c.done {
		c.clocks[turn].Start()

		if c.board.IsDrawInsufficientMaterial() {
			c.stopClocks()
			c.done = true
			if c.handler.OnDraw != nil {
				c.handler.OnDraw(board.Move{}, "insufficient material")
			}
		} else if len(c.board.LegalMoves()) == 0 {
			c.settleNoLegalMoves()
		}
	}

	thinking := !c.done && c.root.State() == thinker.Thinking && c.engineControl[turn]
	pondering := !c.done && c.root.State() == thinker.Pondering && c.ponder &&
		!c.engineControl[turn] && c.engineControl[turn.Opponent()]
	if thinking || pondering {
		return // already doing the right thing; do not restart the think cycle
	}

	c.root.Bail()

	switch {
	case !c.done && c.engineControl[turn]:
		c.root.Think(c.searchList)
	case !c.done && c.ponder && c.engineControl[turn.Opponent()]:
		c.root.Ponder(c.searchList)
	}
}

func (c *GameController) stopClocks() {
	for _, clk := range c.clocks {
		clk.Stop()
	}
}

// settleNoLegalMoves adjudicates the current position (checkmate or stalemate) and notifies
// OnGameOver. Called proactively by refresh before the engine is ever asked to think on a
// finished position, and reactively from onMove as a safety net.
func (c *GameController) settleNoLegalMoves() {
	c.stopClocks()
	c.done = true
	result := c.board.AdjudicateNoLegalMoves()
	c.board.Adjudicate(result)
	if c.handler.OnGameOver != nil {
		c.handler.OnGameOver(result)
	}
}

// makeMove applies move to the current position: stop the turn side's clock, mirror the move to
// the engine's own board (skipped when mirrorToEngine is false; every current caller passes
// true), apply the clock increment, commit to the
// save-game, and refresh. Assumes move is already known-legal and c.mu is held.
func (c *GameController) makeMove(move board.Move, mirrorToEngine bool) {
	if move == (board.Move{}) {
		return
	}

	turn := c.board.Turn()
	c.done = false
	clk := c.clocks[turn]
	wasRunning := clk.IsRunning()
	clk.Stop()

	if mirrorToEngine {
		c.root.MakeMove(move)
	}
	c.board.MakeMove(move)
	if wasRunning {
		clk.ApplyIncrement(c.board.Ply())
	}
	c.save.CommitMove(move, clk.Remaining())

	c.refresh()
}

// MakeMove applies move -- from a human player or the library consumer -- to the current
// position. It must be legal.
func (c *GameController) MakeMove(move board.Move) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	legal, ok := matchLegalMove(c.board.LegalMoves(), move)
	if !ok {
		return fmt.Errorf("gamecontroller: illegal move %v", move)
	}
	c.makeMove(legal, true)
	return nil
}

// matchLegalMove finds the legal move matching candidate's source, destination and promotion --
// not candidate.Equals, since an externally supplied move (e.g. parsed from UCI/SAN input)
// carries no check annotation and board.Move.Equals compares it, while the generated legal move
// in moves always does.
func matchLegalMove(moves []board.Move, candidate board.Move) (board.Move, bool) {
	for _, m := range moves {
		if m.From == candidate.From && m.To == candidate.To && m.Promotion == candidate.Promotion {
			return m, true
		}
	}
	return board.Move{}, false
}

// onMove handles a Move response from the root Thinker.
func (c *GameController) onMove(move board.Move) {
	turn := c.board.Turn()
	if !c.engineControl[turn] {
		// Decided (or was forced) to move while only pondering: let the player move instead.
		if !c.autoPlayEngineMoves && c.handler.OnMove != nil {
			c.handler.OnMove(move)
		}
		return
	}

	if move == (board.Move{}) {
		// No legal move at all: refresh should have caught this before ever asking the engine
		// to think. Treat it as a safety net.
		c.settleNoLegalMoves()
		return
	}

	if c.handler.OnMove != nil {
		c.handler.OnMove(move)
	}
	if c.autoPlayEngineMoves {
		c.makeMove(move, true)
	}
}

// onDraw handles a Draw response from the root Thinker: it decided (or was forced) to claim a
// draw, usually fifty-move or threefold repetition.
func (c *GameController) onDraw(move board.Move) {
	turn := c.board.Turn()
	if !c.engineControl[turn] {
		if !c.autoPlayEngineMoves && move != (board.Move{}) && c.handler.OnMove != nil {
			c.handler.OnMove(move)
		}
		return
	}

	wasRunning := c.stop()
	if move != (board.Move{}) && c.autoPlayEngineMoves {
		if wasRunning {
			c.clocks[turn].ApplyIncrement(c.board.Ply())
		}
		c.makeMove(move, true)
	}
	c.done = true // must happen after makeMove

	reason := "draw"
	switch {
	case c.board.IsDrawFiftyMove():
		reason = "fifty-move rule"
	case c.board.IsDrawThreefoldRepetition():
		reason = "threefold repetition"
	}
	if c.handler.OnDraw != nil {
		c.handler.OnDraw(move, reason)
	}
	if wasRunning {
		c.start(nil) // resets state, but should not get far since done == true
	}
}

// onResign handles a Resign response from the root Thinker.
func (c *GameController) onResign() {
	turn := c.board.Turn()
	resigned := turn
	if !c.engineControl[turn] {
		// Resigned while only pondering the opponent's position: it's actually that side.
		resigned = turn.Opponent()
	}

	c.stopClocks()
	c.done = true
	if c.handler.OnResign != nil {
		c.handler.OnResign(resigned)
	}
}

func (c *GameController) stop() bool {
	if c.state == Stopped {
		return false
	}
	c.state = Stopped
	c.root.Bail()
	c.stopClocks()
	return true
}

func (c *GameController) start(searchList []board.Move) bool {
	if c.state == Running {
		return false
	}
	c.state = Running
	c.searchList = searchList
	c.refresh()
	c.searchList = nil
	return true
}

// Stop halts the engine and stops both clocks, entering Stopped. Returns whether a state change
// occurred.
func (c *GameController) Stop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop()
}

// StopAndForce is Stop plus resetting engine control for both sides; pondering is untouched.
func (c *GameController) StopAndForce() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed := c.stop()
	c.engineControl = [2]bool{}
	return changed
}

// Go leaves Stopped. If searchList is non-empty, the next think/ponder cycle is restricted to
// it for one ply only.
func (c *GameController) Go(searchList ...board.Move) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start(searchList)
}

// MoveNow requests that the engine conclude its current think/ponder immediately. Unlike
// original_source/Game.cpp's synchronous WaitForEngineIdle, this does not block: the consumer
// observes completion through the response handler, since the Thinker runs on its own goroutine
// rather than a single-threaded poll loop.
func (c *GameController) MoveNow() {
	c.mu.Lock()
	root := c.root
	c.mu.Unlock()
	root.MoveNow()
}

func (c *GameController) newGame(pos *board.Position, resetClocks bool) {
	wasRunning := c.stop()
	c.done = false
	c.board = board.NewBoard(c.zt, pos)
	c.save.SetStartPosition(pos)
	if resetClocks {
		c.resetClocks()
	}
	c.root.NewGame()
	c.root.SetBoard(c.board.Fork())
	c.pool.MirrorNewGame()
	c.pool.MirrorSetBoard(c.board)
	if wasRunning {
		c.start(nil)
	}
}

// NewGame resets to the standard starting position and resets both clocks to their initial
// configuration.
func (c *GameController) NewGame() error {
	pos, err := fen.Decode(fen.Initial)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.newGame(pos, true)
	return nil
}

// NewGameFromPosition is NewGame starting from pos instead of the standard position, optionally
// resetting both clocks to their initial configuration.
func (c *GameController) NewGameFromPosition(pos *board.Position, resetClocks bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.newGame(pos, resetClocks)
}

func clockConfigOf(clk *Clock) savegame.ClockConfig {
	start, inc, mtc := clk.Params()
	return savegame.ClockConfig{StartTime: start, Increment: inc, MovesToNextControl: int32(mtc)}
}

func (c *GameController) resetClocks() {
	for side := range c.clocks {
		start, inc, mtc := c.initialClocks[side].Params()
		c.clocks[side].SetParams(start, inc, mtc)
	}
	if c.save.CurrentPly() == c.save.FirstPly() {
		// Game not yet in progress: propagate to the save-game's recorded start clocks too.
		c.save.SetClocks(clockConfigOf(c.initialClocks[board.White]), clockConfigOf(c.initialClocks[board.Black]))
	}
	c.refresh()
}

// ResetClocks restores both live clocks to their initial configuration.
func (c *GameController) ResetClocks() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetClocks()
}

func (c *GameController) gotoPly(ply int) error {
	if ply < c.save.FirstPly() || ply > c.save.LastPly() {
		return fmt.Errorf("gamecontroller: ply %v out of range [%v;%v]", ply, c.save.FirstPly(), c.save.LastPly())
	}
	origPly := c.save.CurrentPly()
	if ply == origPly {
		return nil
	}

	c.done = false
	pos, err := c.save.GotoPly(ply)
	if err != nil {
		return err
	}
	c.board = board.NewBoard(c.zt, pos)

	if ply < origPly {
		for i := 0; i > ply-origPly; i-- {
			c.root.UnmakeMove()
		}
	} else {
		for i := origPly; i < ply; i++ {
			if m, ok := c.save.MoveAt(i); ok {
				c.root.MakeMove(m)
			}
		}
	}
	c.refresh()
	return nil
}

// GotoPly seeks the game to ply (within [FirstPly, LastPly]), replaying the save-game and
// mirroring the delta into the engine's own board via MakeMove/UnmakeMove so its hint PV and
// pondering state survive out-of-line navigation.
func (c *GameController) GotoPly(ply int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gotoPly(ply)
}

// Rewind is GotoPly(CurrentPly() - numPlies).
func (c *GameController) Rewind(numPlies int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gotoPly(c.save.CurrentPly() - numPlies)
}

// FastForward is GotoPly(CurrentPly() + numPlies).
func (c *GameController) FastForward(numPlies int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gotoPly(c.save.CurrentPly() + numPlies)
}

// UnmakeMove is Rewind(1), exposed separately per spec.md 4.6's control protocol.
func (c *GameController) UnmakeMove() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gotoPly(c.save.CurrentPly() - 1)
}

// SetBoard replaces the current position with b. If b's position is identical to the current
// one, this is a no-op that preserves engine state (hash table, hint PV). Otherwise it reseeds
// everything from b.
//
// original_source/Game.cpp's SetBoard additionally detects when b shares a move-path prefix with
// the current game and replays only the delta, to preserve engine state across small UI-driven
// position edits. That shortcut relies on the original Board type tracking a base ply and
// exposing the move at any past ply on an arbitrary external board; this port's board.Board
// exposes neither for a board it didn't itself build up move by move, so only the exact-match
// fast path is implemented here -- see DESIGN.md.
func (c *GameController) SetBoard(b *board.Board) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if fen.Encode(b.Position()) == fen.Encode(c.board.Position()) {
		return
	}

	wasRunning := c.stop()
	c.done = false
	c.board = b
	c.save.SetStartPosition(b.Position())
	c.root.NewGame()
	c.root.SetBoard(b.Fork())
	c.pool.MirrorNewGame()
	c.pool.MirrorSetBoard(b)
	if wasRunning {
		c.start(nil)
	}
}

// Save writes the current game (start position, both sides' starting clock configuration, and
// the full ply ledger) to w.
func (c *GameController) Save(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save.Encode(w)
}

// applyClockHistory sets each side's live clock to its last recorded reading. The on-disk
// save-game format stores only the per-ply reading of whoever moved into that ply, not a
// per-side "current time" directly, so this walks the ledger reconstructing whose turn each ply
// was.
func (c *GameController) applyClockHistory() {
	startPos, err := fen.Decode(c.save.StartFEN())
	if err != nil {
		return
	}
	startTurn := startPos.Turn()
	first := c.save.FirstPly()
	for ply := first + 1; ply <= c.save.LastPly(); ply++ {
		clk, ok := c.save.ClockAt(ply)
		if !ok {
			continue
		}
		moverTurn := startTurn
		if (ply-1-first)%2 != 0 {
			moverTurn = startTurn.Opponent()
		}
		c.clocks[moverTurn].SetRemaining(clk)
	}
}

// Restore replaces the current game with one previously written by Save, seeking to its last
// recorded ply and re-seeding the engine from scratch -- unlike GotoPly, Restore cannot assume
// the engine's board is in sync with the replacement save-game.
func (c *GameController) Restore(r io.Reader) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	restored, err := savegame.Decode(r)
	if err != nil {
		return err
	}

	wasRunning := c.stop()
	c.done = false
	c.save = restored

	pos, err := c.save.GotoPly(c.save.LastPly())
	if err != nil {
		return err
	}
	c.board = board.NewBoard(c.zt, pos)

	white, black := c.save.Clocks()
	c.clocks[board.White].SetParams(white.StartTime, white.Increment, int(white.MovesToNextControl))
	c.clocks[board.Black].SetParams(black.StartTime, black.Increment, int(black.MovesToNextControl))
	c.applyClockHistory()

	c.root.NewGame()
	c.root.SetBoard(c.board.Fork())
	c.pool.MirrorNewGame()
	c.pool.MirrorSetBoard(c.board)
	if wasRunning {
		c.start(nil)
	}
	return nil
}

// SetClock overwrites a live clock's configuration (its remaining time is reset to startTime).
func (c *GameController) SetClock(side board.Color, startTime, increment time.Duration, movesToNextControl int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clocks[side].SetParams(startTime, increment, movesToNextControl)
	c.refresh()
}

// SetInitialClock overwrites the clock configuration restored on the next NewGame. Does not
// touch the live clock, so it can be set up ahead of time without affecting a game in progress.
func (c *GameController) SetInitialClock(side board.Color, startTime, increment time.Duration, movesToNextControl int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initialClocks[side].SetParams(startTime, increment, movesToNextControl)
}

// SetEngineControl sets whether the engine plays side.
func (c *GameController) SetEngineControl(side board.Color, value bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.engineControl[side] == value {
		return
	}
	c.engineControl[side] = value
	c.refresh()
}

// ToggleEngineControl flips whether the engine plays side.
func (c *GameController) ToggleEngineControl(side board.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engineControl[side] = !c.engineControl[side]
	c.refresh()
}

// SetMaxThreads resizes the SearcherPool backing parallel search to n workers, per spec.md 4.5;
// intended as the config.Setters.MaxThreads hook a front-end wires to the "limits/maxThreads"
// spin item. Growing spawns fresh workers seated at the current board; shrinking idles workers
// beyond n without discarding them, so a later grow is cheap.
func (c *GameController) SetMaxThreads(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pool.SetNumThreads(n, c.board)
}

// SetPonder sets whether the engine is allowed to ponder on the opponent's clock.
func (c *GameController) SetPonder(value bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ponder == value {
		return
	}
	c.ponder = value
	c.refresh()
}

// TogglePonder flips whether the engine is allowed to ponder.
func (c *GameController) TogglePonder() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ponder = !c.ponder
	c.refresh()
}

// SetAutoPlayEngineMoves sets whether engine moves are automatically applied to the board once
// decided, as opposed to only reported through OnMove. Only valid while Stopped.
func (c *GameController) SetAutoPlayEngineMoves(value bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Stopped {
		return fmt.Errorf("gamecontroller: SetAutoPlayEngineMoves requires the game be stopped")
	}
	c.autoPlayEngineMoves = value
	return nil
}

// CurrentPly, FirstPly and LastPly are wrappers for the save-game ledger.

func (c *GameController) CurrentPly() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save.CurrentPly()
}

func (c *GameController) FirstPly() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save.FirstPly()
}

func (c *GameController) LastPly() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save.LastPly()
}

// Board returns a forked copy of the current position.
func (c *GameController) Board() *board.Board {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Fork()
}

// Clock returns side's live remaining time.
func (c *GameController) Clock(side board.Color) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clocks[side].Remaining()
}

// InitialClock returns side's clock configuration restored on the next NewGame.
func (c *GameController) InitialClock(side board.Color) (startTime, increment time.Duration, movesToNextControl int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialClocks[side].Params()
}

func (c *GameController) EngineControl(side board.Color) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engineControl[side]
}

// Ponder reports whether the engine is allowed to ponder on the opponent's clock.
func (c *GameController) Ponder() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ponder
}

func (c *GameController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done reports whether the game has ended (draw, mate or resignation).
func (c *GameController) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}
