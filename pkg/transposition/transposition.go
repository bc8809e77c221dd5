// Package transposition implements a shared, shard-locked transposition table for minimax
// search: an open-addressed array of fixed-size entries keyed by Zobrist hash, sized to a
// byte budget and protected by a fixed ring of spinlocks rather than one lock per entry.
package transposition

import (
	"context"
	"math/bits"
	"runtime"
	"sync"

	"github.com/kestrelchess/core/pkg/board"
	"github.com/kestrelchess/core/pkg/eval"
	"github.com/seekerror/logw"
	"go.uber.org/atomic"
)

// numShards is the number of spinlocks protecting the entry array, recommended by spec at 1024.
// Table size is always a multiple of this, so shard i guards exactly len(entries)/numShards slots.
const numShards = 1024

// noEntryDepth is the depth-field sentinel for an unused or just-reset slot.
const noEntryDepth = -1

// entrySize is the nominal, documented per-entry footprint: Zobrist (8) + low/high eval (4+4)
// + move (3, padded to 4) + base ply (2) + depth (2) = 24 bytes, as spec.md 4.3/3 call for.
const entrySize = 24

// Entry is one transposition table slot.
type Entry struct {
	Hash      board.ZobristHash
	Low, High eval.Score
	From, To  board.Square
	Promotion board.Piece
	BasePly   int16
	Depth     int16
}

func (e Entry) IsValid() bool {
	return e.Depth != noEntryDepth
}

func (e Entry) Move() board.Move {
	return board.Move{From: e.From, To: e.To, Promotion: e.Promotion, Check: board.NoCheck}
}

func (e Entry) Eval() eval.Eval {
	return eval.Eval{Low: e.Low, High: e.High}
}

// spinlock is a minimal busy-wait mutex, used in place of sync.Mutex for the shard ring since
// shard hold times are a handful of field writes -- the cost of a futex round trip would dwarf
// the critical section itself.
type spinlock struct {
	busy atomic.Bool
}

func (s *spinlock) Lock() {
	for !s.busy.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

func (s *spinlock) Unlock() {
	s.busy.Store(false)
}

// Table is a shared transposition table. Safe for concurrent use by the root thinker and any
// number of workers.
type Table struct {
	mu      sync.Mutex // guards entries/numEntries/desired during Reset
	entries []Entry
	shards  [numShards]spinlock

	numEntries uint64
	desired    uint64
	used       atomic.Uint64
}

// New allocates a table sized to the largest power-of-two entry count, itself a multiple of
// numShards, that fits within budgetBytes.
func New(ctx context.Context, budgetBytes uint64) *Table {
	t := &Table{}
	t.desired = sizeFor(budgetBytes)
	t.reset(ctx)
	return t
}

func sizeFor(budgetBytes uint64) uint64 {
	n := budgetBytes / entrySize
	if n < numShards {
		return numShards
	}
	// largest power of two <= n
	pow := uint64(1) << (63 - bits.LeadingZeros64(n))
	if pow < numShards {
		pow = numShards
	}
	return pow
}

// SetDesiredSize stages a new byte budget; it takes effect on the next Reset, per spec's lazy
// resize semantics (a live search should not have its table pulled out from under it).
func (t *Table) SetDesiredSize(budgetBytes uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.desired = sizeFor(budgetBytes)
}

// Reset blanks every slot, reallocating first if a resize is staged.
func (t *Table) Reset() {
	t.reset(context.Background())
}

func (t *Table) reset(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.numEntries != t.desired || t.entries == nil {
		t.numEntries = t.desired
		t.entries = make([]Entry, t.numEntries)
		logw.Infof(ctx, "Allocating %vMB TT with %v entries", t.Size()>>20, t.numEntries)
	}
	for i := range t.entries {
		t.entries[i].Depth = noEntryDepth
	}
	t.used.Store(0)
}

// Size returns the table's footprint in bytes.
func (t *Table) Size() uint64 {
	return t.numEntries * entrySize
}

// Used returns slot utilization as a fraction in [0;1].
func (t *Table) Used() float64 {
	if t.numEntries == 0 {
		return 0
	}
	return float64(t.used.Load()) / float64(t.numEntries)
}

// index computes the slot for hash: the low 32 bits act as a multiplier against numEntries (the
// standard multiply-high technique for mapping a word into [0;numEntries) without a modulus),
// and the high 32 bits are XORed in as a residual mask, per spec.md 4.3.
func (t *Table) index(hash board.ZobristHash) uint64 {
	low := uint64(uint32(hash))
	high := uint64(uint32(hash >> 32))
	idx := (low * t.numEntries) >> 32
	return (idx ^ high) & (t.numEntries - 1)
}

func (t *Table) shard(idx uint64) *spinlock {
	return &t.shards[idx&(numShards-1)]
}

// Prefetch is a non-blocking hint that the caller is about to Probe hash; implementations may
// no-op it, and this one does -- Go offers no portable cache-prefetch intrinsic.
func (t *Table) Prefetch(hash board.ZobristHash) {}

// Probe returns the stored entry for hash, if the slot at hash's index actually holds it.
func (t *Table) Probe(hash board.ZobristHash) (Entry, bool) {
	idx := t.index(hash)
	sh := t.shard(idx)

	sh.Lock()
	e := t.entries[idx]
	sh.Unlock()

	if !e.IsValid() || e.Hash != hash {
		return Entry{}, false
	}
	return e, true
}

// Store conditionally writes an entry, applying spec's replacement policy: always replace a
// deeper search, or a stale base ply (a different game or a move/undo ago), or at equal depth a
// bound range no wider than what's already stored. The shard lock is only acquired once the
// decision has been made, keeping the common probe-then-skip path lock-free.
func (t *Table) Store(hash board.ZobristHash, basePly, depth int, ev eval.Eval, move board.Move) {
	idx := t.index(hash)
	sh := t.shard(idx)

	fresh := Entry{
		Hash:      hash,
		Low:       ev.Low,
		High:      ev.High,
		From:      move.From,
		To:        move.To,
		Promotion: move.Promotion,
		BasePly:   int16(basePly),
		Depth:     int16(depth),
	}

	if !shouldReplace(t.entries[idx], fresh) {
		return
	}

	sh.Lock()
	defer sh.Unlock()

	if !t.entries[idx].IsValid() {
		t.used.Inc()
	}
	t.entries[idx] = fresh
}

func shouldReplace(existing, fresh Entry) bool {
	if !existing.IsValid() {
		return true
	}
	if fresh.Depth > existing.Depth {
		return true
	}
	if fresh.BasePly != existing.BasePly {
		return true
	}
	if fresh.Depth == existing.Depth {
		freshWidth := fresh.High - fresh.Low
		existingWidth := existing.High - existing.Low
		return freshWidth <= existingWidth
	}
	return false
}
