package board

import "fmt"

// PreferredFn reports whether a move belongs in the movelist's front bucket: captures
// (including en passant), promotions, checking moves, or moves matching the history
// heuristic. See spec.md's "preferred bucket" move ordering design.
type PreferredFn func(m Move) bool

// MoveList orders moves for search exploration using the preferred-bucket policy: an
// insertion cursor splits the list into a low half (preferred moves) and a high half
// (everything else), each preserving the move generator's original relative order. A
// single additional move -- the hash move or a root HintPv move -- can be further
// promoted to the very front via PromoteFirst's find-and-swap.
type MoveList struct {
	moves      []Move
	next       int
	preferred  int // count of moves in the front (preferred) bucket
}

// NewMoveList partitions moves into the preferred and non-preferred buckets.
func NewMoveList(moves []Move, preferred PreferredFn) *MoveList {
	ordered := make([]Move, 0, len(moves))
	var rest []Move
	for _, m := range moves {
		if preferred(m) {
			ordered = append(ordered, m)
		} else {
			rest = append(rest, m)
		}
	}
	return &MoveList{moves: append(ordered, rest...), preferred: len(ordered)}
}

// PastPreferredBucket reports whether every move already handed out by Next has exhausted the
// preferred bucket, i.e. the remaining moves (if any) are all non-preferred.
func (ml *MoveList) PastPreferredBucket() bool {
	return ml.next >= ml.preferred
}

// PromoteFirst finds the given move, if still unconsumed, and swaps it to the very front
// of the remaining moves. No-op if the move is absent or already consumed.
//
// Matches on From/To/Promotion alone, not m.Equals -- m is commonly a transposition-table hash
// move or a HintPv move reconstructed without its Check annotation (transposition.Entry.Move
// always returns Check: NoCheck, since Entry never stores it), while every move already in
// ml.moves carries the annotation LegalMoves computed for it. Requiring Check to match too would
// silently fail to promote the hash move whenever it happens to give check.
func (ml *MoveList) PromoteFirst(m Move) {
	for i := ml.next; i < len(ml.moves); i++ {
		c := ml.moves[i]
		if c.From == m.From && c.To == m.To && c.Promotion == m.Promotion {
			ml.moves[ml.next], ml.moves[i] = ml.moves[i], ml.moves[ml.next]
			return
		}
	}
}

// Next returns the next move in order, consuming it. Returns false once exhausted.
func (ml *MoveList) Next() (Move, bool) {
	if ml.next >= len(ml.moves) {
		return Move{}, false
	}
	m := ml.moves[ml.next]
	ml.next++
	return m, true
}

// Size returns the count of remaining, unconsumed moves.
func (ml *MoveList) Size() int {
	return len(ml.moves) - ml.next
}

func (ml *MoveList) String() string {
	if ml.Size() == 0 {
		return "[size=0]"
	}
	return fmt.Sprintf("[next=%v, size=%v]", ml.moves[ml.next], ml.Size())
}
