// Package eval contains position evaluation logic and utilities.
package eval

import (
	"context"
	"github.com/kestrelchess/core/pkg/board"
)

// Evaluator is a static position evaluator.
type Evaluator interface {
	// Evaluate returns the position score, in pawns, from the perspective of the side to move.
	Evaluate(ctx context.Context, b *board.Board) Score
}

// Material returns the nominal material advantage for the side to move, using Board's
// incrementally maintained material totals rather than re-summing the piece lists.
type Material struct{}

func (Material) Evaluate(ctx context.Context, b *board.Board) Score {
	turn := b.Turn()
	return Score(b.Material(turn)-b.Material(turn.Opponent())) / 100
}

// NominalValue is the absolute nominal value, in pawns, of a piece type. The king is given an
// arbitrary large value so that it always dominates comparisons without ever being summed into
// material totals (Board never counts the king's worth).
func NominalValue(p board.Piece) Score {
	switch p {
	case board.Pawn:
		return 1
	case board.Bishop, board.Knight:
		return 3
	case board.Rook:
		return 5
	case board.Queen:
		return 9
	case board.King:
		return 100
	default:
		return 0
	}
}

// CaptureGain returns the nominal material gain of playing m against b, pre-move: the value of
// whatever it captures (including en passant) plus the value gained by any promotion.
func CaptureGain(b *board.Board, m board.Move) Score {
	var gain Score
	if m.IsEnPassant() {
		gain += NominalValue(board.Pawn)
	} else if o := b.At(m.To); !o.IsEmpty() {
		gain += NominalValue(o.Piece())
	}
	if promo, ok := m.IsPromotion(); ok {
		gain += NominalValue(promo) - NominalValue(board.Pawn)
	}
	return gain
}

// IsCapture reports whether m captures a piece on b, including en passant.
func IsCapture(b *board.Board, m board.Move) bool {
	if m.IsEnPassant() {
		return true
	}
	return !b.At(m.To).IsEmpty()
}
