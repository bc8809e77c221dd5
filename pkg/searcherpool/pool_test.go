package searcherpool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelchess/core/pkg/board"
	"github.com/kestrelchess/core/pkg/board/fen"
	"github.com/kestrelchess/core/pkg/eval"
	"github.com/kestrelchess/core/pkg/search"
	"github.com/kestrelchess/core/pkg/thinker"
	"github.com/kestrelchess/core/pkg/transposition"
)

func newTestPool(t *testing.T, n int, in string) (*Pool, *board.Board, context.CancelFunc) {
	t.Helper()
	pos, err := fen.Decode(in)
	require.NoError(t, err)
	b := board.NewBoard(board.NewZobristTable(1), pos)

	ctx, cancel := context.WithCancel(context.Background())
	shared := thinker.NewSharedContext(transposition.New(ctx, 64*1024))
	p := New(ctx, shared, eval.Material{}, 16)
	p.SetNumThreads(n, b)
	return p, b, cancel
}

func TestSetNumThreadsGrowsAndShrinks(t *testing.T) {
	p, b, cancel := newTestPool(t, 2, fen.Initial)
	defer cancel()
	assert.Equal(t, 2, p.NumThreads())

	p.SetNumThreads(1, b)
	assert.Equal(t, 1, p.NumThreads())
	assert.Len(t, p.workers, 2, "shrinking must not discard spawned workers")

	p.SetNumThreads(3, b)
	assert.Equal(t, 3, p.NumThreads())
	assert.Len(t, p.workers, 3)
}

func TestTryDelegateAndJoinOne(t *testing.T) {
	p, b, cancel := newTestPool(t, 1, "4k2q/8/8/8/8/8/8/4K2R w - - 0 1")
	defer cancel()

	move := board.Move{From: board.H1, To: board.H8}
	ok := p.TryDelegate(context.Background(), b, move, eval.LossScore, eval.WinScore, 2, 0)
	require.True(t, ok)
	assert.Equal(t, 1, p.InFlight())

	gotMove, _, _, ok := p.JoinOne(context.Background())
	require.True(t, ok)
	assert.Equal(t, move, gotMove)
	assert.Equal(t, 0, p.InFlight())
}

func TestTryDelegateFailsWhenNoWorkerIdle(t *testing.T) {
	p, b, cancel := newTestPool(t, 1, fen.Initial)
	defer cancel()

	move := board.Move{From: board.E2, To: board.E4}
	require.True(t, p.TryDelegate(context.Background(), b, move, eval.LossScore, eval.WinScore, 4, 0))

	other := board.Move{From: board.D2, To: board.D4}
	assert.False(t, p.TryDelegate(context.Background(), b, other, eval.LossScore, eval.WinScore, 4, 0))

	_, _, _, ok := p.JoinOne(context.Background())
	require.True(t, ok)
}

func TestBailZeroesInFlightImmediately(t *testing.T) {
	p, b, cancel := newTestPool(t, 1, fen.Initial)
	defer cancel()

	move := board.Move{From: board.E2, To: board.E4}
	require.True(t, p.TryDelegate(context.Background(), b, move, eval.LossScore, eval.WinScore, 6, 0))
	assert.Equal(t, 1, p.InFlight())

	p.Bail()
	assert.Equal(t, 0, p.InFlight())
}

func TestJoinOneRespectsContextCancellation(t *testing.T) {
	p, _, cancel := newTestPool(t, 1, fen.Initial)
	defer cancel()

	ctx, cancelJoin := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancelJoin()

	_, _, _, ok := p.JoinOne(ctx)
	assert.False(t, ok, "JoinOne must not block forever with nothing in flight")
}

func TestMirrorSetBoardDoesNotPanic(t *testing.T) {
	p, b, cancel := newTestPool(t, 2, fen.Initial)
	defer cancel()

	assert.NotPanics(t, func() {
		p.MirrorSetBoard(b)
	})
}

// TestMinimaxWithPoolDelegateMatchesSingleThreaded exercises search.Minimax with a real Pool
// acting as search.Delegate against a shallow, tactically sharp position, and asserts the
// delegated search reaches the same verdict -- score and best move -- as a single-threaded search
// (nil delegate) of the same position and depth. This is the end-to-end check that JoinOne's
// results, once unwrapped in minimax.go's join loop, agree with the purely-local recursive path.
func TestMinimaxWithPoolDelegateMatchesSingleThreaded(t *testing.T) {
	const in = "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2" // 2.g4 walks into Qh4#
	const depth = 3

	newBoard := func(t *testing.T) *board.Board {
		pos, err := fen.Decode(in)
		require.NoError(t, err)
		return board.NewBoard(board.NewZobristTable(1), pos)
	}

	run := func(delegate search.Delegate) (eval.Score, search.SearchPv) {
		sctx := &search.Context{
			TT:       transposition.New(context.Background(), 64*1024),
			Eval:     eval.Material{},
			Noise:    eval.NewRandom(0, 1),
			History:  search.NewHistory(16),
			Stats:    &search.EngineStats{},
			Delegate: delegate,
		}
		score, pv, err := search.Minimax(context.Background(), sctx, newBoard(t), eval.LossScore, eval.WinScore, depth, 0)
		require.NoError(t, err)
		return score, pv
	}

	wantScore, wantPv := run(nil)
	require.NotEmpty(t, wantPv.Moves, "expected a best reply for black")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	shared := thinker.NewSharedContext(transposition.New(ctx, 64*1024))
	pool := New(ctx, shared, eval.Material{}, 16)
	pool.SetNumThreads(2, newBoard(t))

	gotScore, gotPv := run(pool)

	assert.Equal(t, wantScore, gotScore, "delegated search should reach the same evaluation")
	require.NotEmpty(t, gotPv.Moves)
	assert.Equal(t, wantPv.Moves[0], gotPv.Moves[0], "delegated search should pick the same best move")
}
