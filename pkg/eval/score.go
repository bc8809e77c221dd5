package eval

import (
	"fmt"
	"github.com/kestrelchess/core/pkg/board"
)

// Score is signed move or position score in pawns. Positive favors white. If all pawns become
// queens and the opponent has only the king left, the standard material advantage score
// is: 9*8 (p) + 9 (q) + 2*5 (r) + 2*3 (k) + 2*3 (b) = 103. Score must be +/- 1,000,000, although
// a human interpretation in centi-pawns is desirable.
type Score float32

const (
	NegInf         = MinScore - 1
	MinScore Score = -1000000
	MaxScore Score = 1000000
	Inf            = MaxScore + 1

	// mateBand is the threshold beyond which a Score is understood to encode a forced mate
	// rather than a material/positional evaluation: MaxScore-mateBand leaves room for a mate
	// in up to 1,000 plies, far beyond any reachable search depth.
	mateBand Score = MaxScore - 1000
)

func (s Score) String() string {
	if d, ok := s.MateDistance(); ok {
		return fmt.Sprintf("mate %d", d)
	}
	return fmt.Sprintf("%.2f", s)
}

// Negate flips a score to the opposite side's perspective.
func (s Score) Negate() Score {
	return -s
}

// MateInXScore returns the score for delivering mate in x full moves (the side to move mates
// on its x'th move from here).
func MateInXScore(x int) Score {
	return MaxScore - Score(2*x-1)
}

// MateDistance reports the number of plies to a forced mate encoded in s, and its sign: positive
// if the side to move is mating, negative if it is getting mated. Returns ok=false for any score
// that isn't a mate score.
func (s Score) MateDistance() (int, bool) {
	switch {
	case s > mateBand:
		return int(MaxScore - s), true
	case s < -mateBand:
		return -int(MaxScore + s), true
	default:
		return 0, false
	}
}

// IncrementMateDistance pushes a mate score one ply further away from the root as it is
// propagated back up the search tree; non-mate scores pass through unchanged.
func IncrementMateDistance(s Score) Score {
	switch {
	case s > mateBand:
		return s - 1
	case s < -mateBand:
		return s + 1
	default:
		return s
	}
}

// Unit returns the signed unit for the color: 1 for White and -1 for Black.
func Unit(c board.Color) Score {
	if c == board.White {
		return 1
	} else {
		return -1
	}
}

// Crop crops a Score into [MinScore;MaxScore].
func Crop(s Score) Score {
	switch {
	case s > MaxScore:
		return MaxScore
	case s < MinScore:
		return MinScore
	default:
		return s
	}
}

// Max returns the largest of the given scores.
func Max(a, b Score) Score {
	if a < b {
		return b
	}
	return a
}

// Min returns the smallest of the given scores.
func Min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}

// LossScore and WinScore are the extreme ends of the score range, returned for a known forced
// loss or win. LossThreshold and WinThreshold mark the mate band: any score beyond one of these
// has been confirmed to encode a forced mate rather than a material/positional estimate.
const (
	LossScore     Score = MinScore
	WinScore      Score = MaxScore
	LossThreshold Score = -mateBand
	WinThreshold  Score = mateBand
)

// Eval is a search-node evaluation expressed as a [Low, High] bound pair, narrowing to a point
// value (Low == High) when the node was searched to an exact result rather than cut off by
// alpha-beta. This is the shape stored in the transposition table and carried by DisplayPv.
type Eval struct {
	Low, High Score
}

// Exact reports whether e is a precise value rather than a one-sided bound.
func (e Eval) Exact() bool {
	return e.Low == e.High
}

func (e Eval) Negate() Eval {
	return Eval{Low: e.High.Negate(), High: e.Low.Negate()}
}

func (e Eval) String() string {
	if e.Exact() {
		return e.Low.String()
	}
	return fmt.Sprintf("[%v;%v]", e.Low, e.High)
}
