package search

import (
	"context"

	"github.com/kestrelchess/core/pkg/board"
	"github.com/kestrelchess/core/pkg/eval"
	"github.com/kestrelchess/core/pkg/transposition"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"go.uber.org/atomic"
)

// drawBiasUnit is the small nudge applied to a returned draw score (and deducted when a draw is
// merely reachable from here), signed by material lead and ply parity so that two copies of the
// engine do not collude to repeat a drawn position forever.
const drawBiasUnit eval.Score = 0.01

// futilityMargin is the fixed "potential improvement" allowance added to capture-worth and the
// static stand-pat strength before comparing against alpha in the futility-pruning test.
const futilityMargin eval.Score = 0.75

// mightDrawNonCapturePly is the non-capture-ply threshold above which a draw by repetition is
// plausible enough to justify the full ring scan (IsDrawThreefoldRepetition) on top of the
// cheap Zobrist-only fast check, which runs at every node.
const mightDrawNonCapturePly = 8

// hashMoveMinSearchDepth is the remaining-depth threshold below which trying the transposition
// table's stored move ahead of the ordered movelist isn't worth the branch, per spec.md 4.2 step 9.
const hashMoveMinSearchDepth = 3

// minDelegateSearchDepth is the remaining-depth threshold below which a child subtree is too
// shallow to be worth handing to a worker -- the dispatch/join overhead would dwarf the work.
const minDelegateSearchDepth = 2

// Delegate hands a child search off to a worker (normally backed by a searcherpool.Pool) and
// reports results back to the master as they complete, which may not be submission order.
type Delegate interface {
	// TryDelegate attempts to assign the given child move -- to be searched from the position
	// reached by playing move on b, at window (beta.Negate(), alpha.Negate()), remaining depth
	// searchDepth-1, ply+1 -- to an idle worker. Returns false if no worker was available, in
	// which case the caller must search the move itself.
	TryDelegate(ctx context.Context, b *board.Board, move board.Move, alpha, beta eval.Score, searchDepth, ply int) bool
	// JoinOne blocks until at least one delegated search completes and returns its result.
	JoinOne(ctx context.Context) (move board.Move, score eval.Score, pv SearchPv, ok bool)
	// InFlight reports the number of delegated searches not yet completed.
	InFlight() int
	// Bail cancels every in-flight delegated search. Guarantees InFlight() == 0 on return.
	Bail()
}

// Context carries everything a Minimax call needs beyond the board and window: shared state
// (transposition table, history table, stats, move-now flag) that is identical across an entire
// Think invocation, plus the per-invocation root bookkeeping used for hash aging and move hints.
type Context struct {
	TT       *transposition.Table
	Eval     eval.Evaluator
	Noise    eval.Random
	History  *History
	Stats    *EngineStats
	MoveNow  *atomic.Bool
	Delegate Delegate

	RootPly   int
	HintMove  board.Move
	RootMoves []board.Move // caller-supplied root movelist, e.g. a "search these only" restriction
}

func (c *Context) moveNow() bool {
	return c.MoveNow != nil && c.MoveNow.Load()
}

// Minimax searches b to searchDepth (negative meaning quiescence, unbounded below since the
// stand-pat check terminates it) within window (alpha, beta), implementing spec.md 4.2's
// twelve-step algorithm. Returns a fail-soft score from the perspective of the side to move:
// a value <= alpha is an upper bound, >= beta a lower bound, otherwise exact.
func Minimax(ctx context.Context, sctx *Context, b *board.Board, alpha, beta eval.Score, searchDepth, ply int) (eval.Score, SearchPv, error) {
	// Step 1: stat-count.
	sctx.Stats.Nodes.Inc()
	quiescing := searchDepth < 0
	if !quiescing {
		sctx.Stats.NonQuiesce.Inc()
	}

	if contextx.IsCancelled(ctx) {
		return 0, SearchPv{}, ErrHalted
	}

	turn := b.Turn()

	// Step 2: draw checks, with a small bias instead of a flat zero to discourage gratuitous
	// repetition when ahead (and encourage it when behind), varied by ply parity so neither side
	// can rely on the other also wanting the draw at the same ply.
	mightDraw := b.NoCapturePly() >= mightDrawNonCapturePly || b.FirstRepeatPly() >= 0
	isDraw := b.IsDrawFiftyMove() || b.IsDrawInsufficientMaterial() || b.IsDrawThreefoldRepetitionFast() ||
		(mightDraw && b.IsDrawThreefoldRepetition())
	if isDraw {
		return drawBias(b, ply), SearchPv{StartDepth: ply}, nil
	}

	// Step 3: a repeat is reachable but not yet forced -- lean the score away from (or toward)
	// it symmetrically with the draw bias above.
	var repeatBias eval.Score
	if mightDraw {
		repeatBias = drawBias(b, ply)
	}

	stat := sctx.Eval.Evaluate(ctx, b) + sctx.Noise.Evaluate(ctx, b)

	// Step 4: quiescence-only shortcuts.
	if quiescing && !b.IsChecked() {
		if eval.IsBasicMateEndgame(b, turn) {
			return eval.KingDistance(b, turn), SearchPv{StartDepth: ply}, nil
		}
		if stat >= beta {
			return stat - repeatBias, SearchPv{StartDepth: ply}, nil
		}
		if stat > alpha {
			alpha = stat
		}
	}

	// Step 6: transposition probe. Skipped when a draw is plausible (mightDraw) unless the
	// non-capture count has just reset to zero, since a stored score could otherwise mask the
	// repetition logic just applied.
	var hashMove board.Move
	if sctx.TT != nil && (!mightDraw || b.NoCapturePly() == 0) {
		if e, ok := sctx.TT.Probe(b.Hash()); ok {
			hashMove = e.Move()
			if int(e.Depth) >= searchDepth {
				ev := e.Eval()
				_, lowMate := ev.Low.MateDistance()
				_, highMate := ev.High.MateDistance()
				if ev.Exact() || ev.Low >= beta || ev.High <= alpha || lowMate || highMate {
					sctx.Stats.HashHits.Inc()
					return clampToWindow(ev, alpha, beta), SearchPv{StartDepth: ply, Moves: nonEmpty(hashMove)}, nil
				}
			}
		}
	}

	// Step 7: move generation.
	sctx.Stats.MoveGenCalls.Inc()
	moves := b.LegalMoves()
	if ply == 0 && len(sctx.RootMoves) > 0 {
		moves = sctx.RootMoves
	}
	if len(moves) == 0 {
		if quiescing {
			return stat - repeatBias, SearchPv{StartDepth: ply}, nil
		}
		if b.IsChecked() {
			return eval.LossScore + eval.Score(ply), SearchPv{StartDepth: ply}, nil // checkmate
		}
		return 0, SearchPv{StartDepth: ply}, nil // stalemate
	}

	// Step 8: order moves. Quiescing restricts to tactical moves and sorts by capture worth;
	// otherwise the movelist's preferred bucket handles captures/promotions/checks/history.
	if quiescing {
		moves = tacticalOnly(b, moves)
		if len(moves) == 0 {
			return stat - repeatBias, SearchPv{StartDepth: ply}, nil
		}
		sortByCaptureWorth(b, moves)
	}

	list := board.NewMoveList(moves, func(m board.Move) bool {
		return eval.IsCapture(b, m) || isPromotion(m) || m.Check != board.NoCheck || sctx.History.Hit(turn, m, ply)
	})
	if ply == 0 && sctx.HintMove != (board.Move{}) {
		list.PromoteFirst(sctx.HintMove)
	}

	// Step 9: try the hashed move first once the subtree is deep enough to make it worthwhile.
	if hashMove != (board.Move{}) && searchDepth > hashMoveMinSearchDepth && ply > 0 {
		list.PromoteFirst(hashMove)
	}

	// Step 10: the move loop.
	alphaOrig := alpha
	best := eval.LossScore - 1
	var bestMove board.Move
	var bestPv SearchPv
	first := true

	for {
		if sctx.moveNow() {
			if sctx.Delegate != nil {
				sctx.Delegate.Bail()
			}
			return winOrBest(best), bestPv, nil
		}

		move, ok := list.Next()
		if !ok {
			break
		}

		if !quiescing && !first && list.PastPreferredBucket() && futilityPrune(b, move, stat, alpha) {
			continue
		}

		if !first && !quiescing && searchDepth >= minDelegateSearchDepth && sctx.Delegate != nil {
			if sctx.Delegate.TryDelegate(ctx, b, move, alpha, beta, searchDepth, ply) {
				continue // a worker now owns this child; its result arrives via JoinOne below
			}
		}

		b.MakeMove(move)
		childScore, childPv, err := Minimax(ctx, sctx, b, beta.Negate(), alpha.Negate(), searchDepth-1, ply+1)
		b.UnmakeMove()
		if err != nil {
			return 0, SearchPv{}, err
		}
		score := eval.IncrementMateDistance(childScore).Negate()

		if score > best {
			best = score
			bestMove = move
			bestPv = childPv.Prepend(move)
		}
		first = false

		if best >= beta {
			if sctx.Delegate != nil {
				sctx.Delegate.Bail()
			}
			sctx.storeHash(b, alphaOrig, beta, best, bestMove, searchDepth)
			return best, bestPv, nil
		}
		if best > alpha {
			alpha = best
		}
	}

	if sctx.Delegate != nil {
		for sctx.Delegate.InFlight() > 0 {
			move, score, pv, ok := sctx.Delegate.JoinOne(ctx)
			if !ok {
				break
			}
			// The worker already converted score/pv to this node's perspective (negate +
			// mate-distance increment) and prepended move before posting RspSearchDone -- see
			// thinker.go's runSearch. Treat them as final, matching the local sibling path
			// above which does that conversion exactly once.
			if score > best {
				best = score
				bestMove = move
				bestPv = pv
			}
			if best >= beta {
				sctx.Delegate.Bail()
				break
			}
			if best > alpha {
				alpha = best
			}
		}
	}

	// Step 11: history heuristic update.
	if best > alphaOrig && !isAutoPreferred(b, bestMove) {
		sctx.History.Store(turn, bestMove, ply)
	}

	// Step 12: conditional transposition store.
	sctx.storeHash(b, alphaOrig, beta, best, bestMove, searchDepth)

	return best, bestPv, nil
}

func (sctx *Context) storeHash(b *board.Board, alphaOrig, beta, best eval.Score, bestMove board.Move, searchDepth int) {
	if sctx.TT == nil {
		return
	}
	ev := classify(alphaOrig, beta, best)
	sctx.TT.Store(b.Hash(), sctx.RootPly, searchDepth, ev, bestMove)
	sctx.Stats.HashWrites.Inc()
}

func classify(alphaOrig, beta, best eval.Score) eval.Eval {
	switch {
	case best <= alphaOrig:
		return eval.Eval{Low: eval.LossScore, High: best}
	case best >= beta:
		return eval.Eval{Low: best, High: eval.WinScore}
	default:
		return eval.Eval{Low: best, High: best}
	}
}

func clampToWindow(ev eval.Eval, alpha, beta eval.Score) eval.Score {
	if ev.Exact() {
		return ev.Low
	}
	if ev.Low >= beta {
		return ev.Low
	}
	return ev.High
}

func winOrBest(best eval.Score) eval.Score {
	if best < eval.LossScore {
		return 0
	}
	return best
}

func drawBias(b *board.Board, ply int) eval.Score {
	turn := b.Turn()
	lead := b.Material(turn) - b.Material(turn.Opponent())

	var sign eval.Score
	switch {
	case lead > 0:
		sign = 1
	case lead < 0:
		sign = -1
	}
	if ply%2 == 1 {
		sign = -sign
	}
	return sign * drawBiasUnit
}

func isPromotion(m board.Move) bool {
	_, ok := m.IsPromotion()
	return ok
}

func isAutoPreferred(b *board.Board, m board.Move) bool {
	if eval.IsCapture(b, m) || isPromotion(m) {
		return true
	}
	_, _, isCastle := m.IsCastle()
	return isCastle
}

func tacticalOnly(b *board.Board, moves []board.Move) []board.Move {
	out := moves[:0]
	for _, m := range moves {
		if eval.IsCapture(b, m) || m.Check != board.NoCheck || isPromotion(m) {
			out = append(out, m)
		}
	}
	return out
}

func sortByCaptureWorth(b *board.Board, moves []board.Move) {
	worth := make([]eval.Score, len(moves))
	for i, m := range moves {
		worth[i] = eval.CaptureGain(b, m)
	}
	for i := 1; i < len(moves); i++ {
		for j := i; j > 0 && worth[j] > worth[j-1]; j-- {
			worth[j], worth[j-1] = worth[j-1], worth[j]
			moves[j], moves[j-1] = moves[j-1], moves[j]
		}
	}
}

func futilityPrune(b *board.Board, m board.Move, stat, alpha eval.Score) bool {
	if m.Check != board.NoCheck {
		return false
	}
	return eval.CaptureGain(b, m)+stat+futilityMargin <= alpha
}

func nonEmpty(m board.Move) []board.Move {
	if m == (board.Move{}) {
		return nil
	}
	return []board.Move{m}
}
