package eval

import "github.com/kestrelchess/core/pkg/board"

// KingDistance is the lone-king-driven-to-the-edge heuristic used once material has reduced to
// king-and-major(s) vs. bare king: reward the defending king sitting near the rim and the
// attacking king standing close to it. Corners score the same as other edge squares.
func KingDistance(b *board.Board, attacker board.Color) Score {
	pos := b.Position()
	atkKing := pos.KingSquare(attacker)
	defKing := pos.KingSquare(attacker.Opponent())

	// Rim: how close the defender's king already sits to the edge -- the smaller the
	// distance-to-edge, the more advanced the mating attempt.
	rim := Score(7 - 2*edgeDistance(defKing))

	// Proximity: keep the attacking king close to the defender's, to support the mating net.
	dist := chebyshev(atkKing, defKing)
	closeness := Score(14-dist) / 2

	return rim + closeness
}

// edgeDistance is how many squares sq sits from the nearest board edge, in [0;3].
func edgeDistance(sq board.Square) int {
	f, r := int(sq.File()), int(sq.Rank())
	df := min3(f, 7-f)
	dr := min3(r, 7-r)
	if df < dr {
		return df
	}
	return dr
}

func min3(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func chebyshev(a, b board.Square) int {
	df := int(a.File()) - int(b.File())
	if df < 0 {
		df = -df
	}
	dr := int(a.Rank()) - int(b.Rank())
	if dr < 0 {
		dr = -dr
	}
	if df > dr {
		return df
	}
	return dr
}

// IsBasicMateEndgame reports whether the side not to move (the potential defender, `lone`) has
// only its king left, while `attacker` retains at least one pawn-less major/minor and no pawns
// of its own to promote -- the narrow condition under which KingDistance's edge-driving heuristic
// applies rather than ordinary material evaluation.
func IsBasicMateEndgame(b *board.Board, attacker board.Color) bool {
	lone := attacker.Opponent()
	if b.Material(lone) != 0 {
		return false
	}
	if len(b.PieceSquares(attacker, board.Pawn)) != 0 {
		return false
	}
	return b.Material(attacker) > 0
}
