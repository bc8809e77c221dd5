package search

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelchess/core/pkg/board"
	"github.com/kestrelchess/core/pkg/board/fen"
	"github.com/kestrelchess/core/pkg/eval"
)

func newTestBoard(t *testing.T, in string) *board.Board {
	t.Helper()
	pos, err := fen.Decode(in)
	require.NoError(t, err)
	return board.NewBoard(board.NewZobristTable(1), pos)
}

func newTestContext() *Context {
	return &Context{
		Eval:    eval.Material{},
		Noise:   eval.NewRandom(0, 1),
		History: NewHistory(0),
		Stats:   &EngineStats{},
	}
}

func TestMinimaxFindsHangingQueenCapture(t *testing.T) {
	// Black's queen on h8 hangs to the rook on h1; white to move should take it.
	b := newTestBoard(t, "4k2q/8/8/8/8/8/8/4K2R w - - 0 1")
	sctx := newTestContext()

	score, pv, err := Minimax(context.Background(), sctx, b, eval.LossScore, eval.WinScore, 2, 0)
	require.NoError(t, err)

	require.NotEmpty(t, pv.Moves)
	assert.Equal(t, board.H1, pv.Moves[0].From)
	assert.Equal(t, board.H8, pv.Moves[0].To)
	assert.Greater(t, float64(score), 0.0)
}

func TestMinimaxDetectsCheckmate(t *testing.T) {
	// Fool's mate final position: white to move, no legal replies, in check.
	b := newTestBoard(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	sctx := newTestContext()

	score, pv, err := Minimax(context.Background(), sctx, b, eval.LossScore, eval.WinScore, 1, 0)
	require.NoError(t, err)

	assert.Empty(t, pv.Moves)
	assert.Less(t, float64(score), float64(eval.LossThreshold))
}

func TestMinimaxReturnsDrawBiasForInsufficientMaterial(t *testing.T) {
	b := newTestBoard(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	sctx := newTestContext()

	score, pv, err := Minimax(context.Background(), sctx, b, eval.LossScore, eval.WinScore, 1, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, pv.StartDepth)
	assert.Less(t, math.Abs(float64(score)), 0.02)
}

func TestMinimaxRespectsCancelledContext(t *testing.T) {
	b := newTestBoard(t, fen.Initial)
	sctx := newTestContext()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Minimax(ctx, sctx, b, eval.LossScore, eval.WinScore, 3, 0)
	assert.ErrorIs(t, err, ErrHalted)
}
