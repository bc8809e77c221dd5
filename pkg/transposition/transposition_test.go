package transposition_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/kestrelchess/core/pkg/board"
	"github.com/kestrelchess/core/pkg/eval"
	"github.com/kestrelchess/core/pkg/transposition"
	"github.com/stretchr/testify/assert"
)

func TestSizeIsPowerOfTwoMultipleOfShardCount(t *testing.T) {
	ctx := context.Background()

	tt := transposition.New(ctx, 0x100000)
	assert.Equal(t, uint64(32768*24), tt.Size())

	tt2 := transposition.New(ctx, 0x1f0000)
	assert.Equal(t, uint64(65536*24), tt2.Size())
}

func TestProbeStore(t *testing.T) {
	ctx := context.Background()
	tt := transposition.New(ctx, 0x100000)

	a := board.ZobristHash(rand.Uint64())

	_, ok := tt.Probe(a)
	assert.False(t, ok)

	m := board.Move{From: board.G4, To: board.G8, Promotion: board.Queen, Check: board.NoCheck}
	ev := eval.Eval{Low: 2, High: 2}
	tt.Store(a, 5, 2, ev, m)

	e, ok := tt.Probe(a)
	assert.True(t, ok)
	assert.Equal(t, 2, int(e.Depth))
	assert.Equal(t, ev, e.Eval())
	assert.Equal(t, m, e.Move())

	_, ok = tt.Probe(a ^ 0xff0000)
	assert.False(t, ok)
}

func TestStoreReplacementPolicy(t *testing.T) {
	ctx := context.Background()
	tt := transposition.New(ctx, 0x100000)

	a := board.ZobristHash(rand.Uint64())
	m := board.Move{From: board.G4, To: board.G8, Promotion: board.Queen}

	tt.Store(a, 4, 3, eval.Eval{Low: 1, High: 1}, m)

	// Shallower search at the same base ply does not replace.
	tt.Store(a, 4, 2, eval.Eval{Low: 5, High: 5}, m)
	e, _ := tt.Probe(a)
	assert.Equal(t, 3, int(e.Depth))

	// A different base ply always replaces, regardless of depth.
	tt.Store(a, 7, 1, eval.Eval{Low: 9, High: 9}, m)
	e, _ = tt.Probe(a)
	assert.Equal(t, 1, int(e.Depth))
	assert.Equal(t, int16(7), e.BasePly)
}

func TestResetClearsEntries(t *testing.T) {
	ctx := context.Background()
	tt := transposition.New(ctx, 0x100000)

	a := board.ZobristHash(rand.Uint64())
	tt.Store(a, 1, 1, eval.Eval{Low: 1, High: 1}, board.Move{})

	tt.Reset()
	_, ok := tt.Probe(a)
	assert.False(t, ok)
	assert.Equal(t, float64(0), tt.Used())
}
