package fen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelchess/core/pkg/board"
)

func TestDecodeInitial(t *testing.T) {
	pos, err := Decode(Initial)
	require.NoError(t, err)

	assert.Equal(t, board.White, pos.Turn())
	assert.Equal(t, board.FullCastingRights, pos.Castling())
	_, epOK := pos.EnPassant()
	assert.False(t, epOK)
	assert.Equal(t, 0, pos.Ply())
	assert.Equal(t, 0, pos.NoCapturePly())

	assert.Equal(t, board.NewOccupant(board.White, board.Rook), pos.At(board.A1))
	assert.Equal(t, board.NewOccupant(board.Black, board.King), pos.At(board.E8))
	assert.True(t, pos.At(board.E4).IsEmpty())
}

func TestEncodeRoundtrip(t *testing.T) {
	for _, in := range []string{
		Initial,
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2",
		"8/8/8/4k3/8/8/4K3/7R w - - 3 45",
	} {
		pos, err := Decode(in)
		require.NoError(t, err, in)
		assert.Equal(t, in, Encode(pos))
	}
}

func TestDecodeEnPassant(t *testing.T) {
	pos, err := Decode("rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2")
	require.NoError(t, err)

	sq, ok := pos.EnPassant()
	require.True(t, ok)
	assert.Equal(t, board.D6, sq)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBN w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR z KQkq - 0 1",
	} {
		_, err := Decode(in)
		assert.Error(t, err, in)
	}
}

func TestDecodeRejectsIllegalPosition(t *testing.T) {
	// Two white kings.
	_, err := Decode("k6K/8/8/8/8/8/8/7K w - - 0 1")
	assert.Error(t, err)
}
