package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelchess/core/pkg/board"
	"github.com/kestrelchess/core/pkg/board/fen"
)

// perft is the standard movegen correctness check: count leaf nodes reachable at a fixed
// depth, and compare against independently known-good totals. See
// https://www.chessprogramming.org/Perft_Results.
func perft(b *board.Board, depth int) int64 {
	if depth == 0 {
		return 1
	}
	var nodes int64
	for _, m := range b.LegalMoves() {
		b.MakeMove(m)
		nodes += perft(b, depth-1)
		b.UnmakeMove()
	}
	return nodes
}

func newBoard(t *testing.T, in string) *board.Board {
	t.Helper()
	pos, err := fen.Decode(in)
	require.NoError(t, err)
	return board.NewBoard(board.NewZobristTable(1), pos)
}

func TestPerftInitialPosition(t *testing.T) {
	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}

	b := newBoard(t, fen.Initial)
	for _, tt := range tests {
		assert.Equal(t, tt.expected, perft(b, tt.depth), "depth %v", tt.depth)
	}
}

func TestPerftKiwipete(t *testing.T) {
	// The "Kiwipete" position, a standard perft stress test exercising castling, en passant
	// and promotions together.
	const in = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
	}

	b := newBoard(t, in)
	for _, tt := range tests {
		assert.Equal(t, tt.expected, perft(b, tt.depth), "depth %v", tt.depth)
	}
}

func TestPerftPosition3(t *testing.T) {
	// A position with no castling rights, exercising promotions and checks in isolation.
	const in = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
	}

	b := newBoard(t, in)
	for _, tt := range tests {
		assert.Equal(t, tt.expected, perft(b, tt.depth), "depth %v", tt.depth)
	}
}

func TestPerftPromotions(t *testing.T) {
	const in = "n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1"

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 24},
		{2, 496},
		{3, 9483},
	}

	b := newBoard(t, in)
	for _, tt := range tests {
		assert.Equal(t, tt.expected, perft(b, tt.depth), "depth %v", tt.depth)
	}
}

func TestLegalMovesExcludesMovesIntoCheck(t *testing.T) {
	// Pinned rook on d-file cannot leave the file.
	pos, err := board.NewPosition([]board.Placement{
		{Square: board.D1, Color: board.White, Piece: board.King},
		{Square: board.D5, Color: board.White, Piece: board.Rook},
		{Square: board.D8, Color: board.Black, Piece: board.Rook},
		{Square: board.A8, Color: board.Black, Piece: board.King},
	}, board.White, 0, 0, false, 0, 0)
	require.NoError(t, err)

	b := board.NewBoard(board.NewZobristTable(1), pos)
	for _, m := range b.LegalMoves() {
		if m.From == board.D5 {
			assert.Equal(t, board.FileD, m.To.File(), "pinned rook move %v leaves the pin", m)
		}
	}
}

func TestLegalMovesEmptyOnCheckmate(t *testing.T) {
	// Fool's mate final position: black has just delivered mate, white to move has no replies.
	pos, err := fen.Decode("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	require.NoError(t, err)

	b := board.NewBoard(board.NewZobristTable(1), pos)
	assert.Empty(t, b.LegalMoves())
	assert.True(t, b.IsChecked())
}
