package savegame

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelchess/core/pkg/board"
	"github.com/kestrelchess/core/pkg/board/fen"
)

func newTestGame(t *testing.T) *SaveGame {
	t.Helper()
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	white := ClockConfig{StartTime: 5 * time.Minute, Increment: 2 * time.Second}
	black := ClockConfig{StartTime: 5 * time.Minute, Increment: 2 * time.Second}
	return New(pos, white, black)
}

func TestCommitMoveAdvancesHeadAndLastPly(t *testing.T) {
	g := newTestGame(t)
	first := g.FirstPly()

	g.CommitMove(board.Move{From: board.E2, To: board.E4}, 4*time.Minute)
	g.CommitMove(board.Move{From: board.E7, To: board.E5}, 4*time.Minute+30*time.Second)

	assert.Equal(t, first, g.FirstPly())
	assert.Equal(t, first+2, g.LastPly())
	assert.Equal(t, first+2, g.CurrentPly())
	assert.Equal(t, 2, g.Len())
}

func TestCommitMoveAfterGotoPlyDiscardsRedo(t *testing.T) {
	g := newTestGame(t)
	first := g.FirstPly()

	g.CommitMove(board.Move{From: board.E2, To: board.E4}, time.Minute)
	g.CommitMove(board.Move{From: board.E7, To: board.E5}, time.Minute)
	g.CommitMove(board.Move{From: board.G1, To: board.F3}, time.Minute)
	require.Equal(t, 3, g.Len())

	_, err := g.GotoPly(first + 1)
	require.NoError(t, err)
	assert.Equal(t, first+1, g.CurrentPly())
	assert.Equal(t, 3, g.Len(), "rewinding alone must not discard redo information")

	g.CommitMove(board.Move{From: board.D2, To: board.D4}, time.Minute)
	assert.Equal(t, 2, g.Len(), "committing after a rewind discards redo info past the head")
	assert.Equal(t, first+2, g.CurrentPly())
}

func TestGotoPlyRejectsOutOfRange(t *testing.T) {
	g := newTestGame(t)
	g.CommitMove(board.Move{From: board.E2, To: board.E4}, time.Minute)

	_, err := g.GotoPly(g.FirstPly() - 1)
	assert.Error(t, err)

	_, err = g.GotoPly(g.LastPly() + 1)
	assert.Error(t, err)
}

func TestGotoPlyReplaysPosition(t *testing.T) {
	g := newTestGame(t)
	g.CommitMove(board.Move{From: board.E2, To: board.E4}, time.Minute)

	pos, err := g.GotoPly(g.LastPly())
	require.NoError(t, err)

	assert.False(t, pos.At(board.E4).IsEmpty())
	assert.True(t, pos.At(board.E2).IsEmpty())
}

func TestMoveAtAndClockAt(t *testing.T) {
	g := newTestGame(t)
	first := g.FirstPly()
	g.CommitMove(board.Move{From: board.E2, To: board.E4}, 4*time.Minute)

	m, ok := g.MoveAt(first)
	require.True(t, ok)
	assert.Equal(t, board.Move{From: board.E2, To: board.E4}, m)

	_, ok = g.MoveAt(first + 1)
	assert.False(t, ok)

	clk, ok := g.ClockAt(first + 1)
	require.True(t, ok)
	assert.Equal(t, 4*time.Minute, clk)

	_, ok = g.ClockAt(first)
	assert.False(t, ok)
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	g := newTestGame(t)
	g.CommitMove(board.Move{From: board.E2, To: board.E4}, 4*time.Minute+58*time.Second)
	g.CommitMove(board.Move{From: board.E7, To: board.E5}, 4*time.Minute+59*time.Second)

	var buf bytes.Buffer
	require.NoError(t, g.Encode(&buf))

	got, err := Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, g.StartFEN(), got.StartFEN())
	assert.Equal(t, g.FirstPly(), got.FirstPly())
	assert.Equal(t, g.LastPly(), got.LastPly())
	assert.Equal(t, g.Len(), got.Len())

	wantWhite, wantBlack := g.Clocks()
	gotWhite, gotBlack := got.Clocks()
	assert.Equal(t, wantWhite, gotWhite)
	assert.Equal(t, wantBlack, gotBlack)

	for ply := g.FirstPly(); ply < g.LastPly(); ply++ {
		wantMove, _ := g.MoveAt(ply)
		gotMove, ok := got.MoveAt(ply)
		require.True(t, ok)
		assert.Equal(t, wantMove, gotMove)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not a savegame file")))
	assert.Error(t, err)
}
