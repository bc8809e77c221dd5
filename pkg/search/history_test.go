package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrelchess/core/pkg/board"
)

func TestHistoryHitWithinWindow(t *testing.T) {
	h := NewHistory(2) // window = 4 plies
	m := board.Move{From: board.E2, To: board.E4}

	h.Store(board.White, m, 10)

	assert.True(t, h.Hit(board.White, m, 10))
	assert.True(t, h.Hit(board.White, m, 12))
	assert.True(t, h.Hit(board.White, m, 8))
	assert.False(t, h.Hit(board.White, m, 15))
	assert.False(t, h.Hit(board.White, m, 5))
}

func TestHistoryMissForDifferentColorOrSquares(t *testing.T) {
	h := NewHistory(4)
	m := board.Move{From: board.E2, To: board.E4}
	h.Store(board.White, m, 10)

	assert.False(t, h.Hit(board.Black, m, 10))
	assert.False(t, h.Hit(board.White, board.Move{From: board.D2, To: board.D4}, 10))
}

func TestHistoryWindowZeroDisables(t *testing.T) {
	h := NewHistory(0)
	m := board.Move{From: board.E2, To: board.E4}
	h.Store(board.White, m, 10)

	assert.False(t, h.Hit(board.White, m, 10))
}

func TestHistoryClearResetsTable(t *testing.T) {
	h := NewHistory(4)
	m := board.Move{From: board.E2, To: board.E4}
	h.Store(board.White, m, 10)
	require := assert.New(t)
	require.True(h.Hit(board.White, m, 10))

	h.Clear()
	require.False(h.Hit(board.White, m, 10))
}

func TestHistorySetWindow(t *testing.T) {
	h := NewHistory(4)
	m := board.Move{From: board.E2, To: board.E4}
	h.Store(board.White, m, 10)

	h.SetWindow(0)
	assert.False(t, h.Hit(board.White, m, 10))
}

func TestNilHistoryIsSafe(t *testing.T) {
	var h *History
	m := board.Move{From: board.E2, To: board.E4}
	assert.NotPanics(t, func() {
		h.Store(board.White, m, 10)
		assert.False(t, h.Hit(board.White, m, 10))
	})
}
