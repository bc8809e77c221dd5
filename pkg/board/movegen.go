package board

// pinAxis identifies the line a pinned piece is constrained to move along.
type pinAxis int

const (
	axisFile pinAxis = iota
	axisRank
	axisDiagA // a1-h8 direction: file and rank deltas share sign
	axisDiagB // a8-h1 direction: file and rank deltas have opposite sign
)

func axisOf(df, dr int) pinAxis {
	switch {
	case df == 0:
		return axisFile
	case dr == 0:
		return axisRank
	case df == dr:
		return axisDiagA
	default:
		return axisDiagB
	}
}

// LegalMoves generates exactly the legal moves for the side to move: castling, pin-aware
// sliding, check evasion and en passant, directly (no pseudo-legal generation followed by a
// legality filter). See spec.md's three-phase description: pin list, checker identification
// (Board already caches the checking square incrementally), then phase-ordered emission. Each
// emitted move's check annotation is resolved by checkAnnotation playing the move out on a
// scratch copy of the occupancy, which folds discovered and direct check into one query.
func (b *Board) LegalMoves() []Move {
	turn := b.pos.turn
	kingSq := b.pos.KingSquare(turn)

	pins := b.computePins(kingSq, turn)

	var interposeMask map[Square]bool
	checker := b.check
	if checker == DoubleCheck {
		return b.emitKingMoves(turn, kingSq)
	}
	if checker != NoCheck {
		interposeMask = b.rayBetween(kingSq, checker)
	}

	var moves []Move
	if checker == NoCheck {
		moves = append(moves, b.emitCastles(turn)...)
	}
	moves = append(moves, b.emitPawnMoves(turn, pins, checker, interposeMask)...)
	moves = append(moves, b.emitSliderMoves(turn, Queen, pins, checker, interposeMask)...)
	moves = append(moves, b.emitSliderMoves(turn, Bishop, pins, checker, interposeMask)...)
	moves = append(moves, b.emitKnightMoves(turn, pins, checker, interposeMask)...)
	moves = append(moves, b.emitSliderMoves(turn, Rook, pins, checker, interposeMask)...)
	moves = append(moves, b.emitKingMoves(turn, kingSq)...)
	return moves
}

// computePins walks all eight rays from the king outward; a lone friendly piece followed by an
// enemy slider of the matching family is pinned to that ray's axis.
func (b *Board) computePins(kingSq Square, friendly Color) map[Square]pinAxis {
	pins := map[Square]pinAxis{}
	opp := friendly.Opponent()

	scan := func(dirs [4][2]int, types ...Piece) {
		for _, d := range dirs {
			cur := kingSq
			var candidate Square
			haveCandidate := false
			for {
				next, ok := step(cur, d[0], d[1])
				if !ok {
					break
				}
				o := b.pos.At(next)
				if o.IsEmpty() {
					cur = next
					continue
				}
				if !haveCandidate {
					if o.Color() != friendly {
						break // enemy piece directly in the way: no pin, possibly a checker
					}
					candidate = next
					haveCandidate = true
					cur = next
					continue
				}
				// second occupied square on the ray.
				if o.Color() == opp {
					for _, t := range types {
						if o.Piece() == t {
							pins[candidate] = axisOf(d[0], d[1])
						}
					}
				}
				break
			}
		}
	}

	scan(rookDirections, Rook, Queen)
	scan(bishopDirections, Bishop, Queen)
	return pins
}

// rayBetween returns the squares strictly between two aligned squares (exclusive), used to
// find interposition squares against a checking slider. Returns an empty set if the checker is not
// aligned with the king (a knight or pawn checker, which cannot be interposed against).
func (b *Board) rayBetween(kingSq, checkerSq Square) map[Square]bool {
	df := int(checkerSq.File()) - int(kingSq.File())
	dr := int(checkerSq.Rank()) - int(kingSq.Rank())

	sdf, sdr := sign(df), sign(dr)
	if df != 0 && dr != 0 && abs(df) != abs(dr) {
		return map[Square]bool{} // knight or pawn: no interposition squares
	}

	between := map[Square]bool{}
	cur := kingSq
	for {
		next, ok := step(cur, sdf, sdr)
		if !ok || next == checkerSq {
			break
		}
		between[next] = true
		cur = next
	}
	return between
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// checkAnnotation computes a move's Move.Check field by playing the move out on a scratch
// copy of the occupancy array (Position is a plain value, so the copy is cheap) and asking
// whether the resulting position leaves the opponent's king attacked. The checkers are found
// here by walking the slider rays from that king with rayChecker and testing the knight and
// pawn squares around it; two checkers yield DoubleCheck.
func (b *Board) checkAnnotation(turn Color, from, to Square, promo Piece, isEnPassant bool, castle Move, isCastle bool) Square {
	trial := b.pos

	switch {
	case isCastle:
		color, kingside, _ := castle.IsCastle()
		rank := Rank1
		if color == Black {
			rank = Rank8
		}
		rookFrom, rookTo, kingTo := FileH, FileF, FileG
		if !kingside {
			rookFrom, rookTo, kingTo = FileA, FileD, FileC
		}
		trial.squares[NewSquare(FileE, rank)] = Empty
		trial.squares[NewSquare(rookFrom, rank)] = Empty
		trial.squares[NewSquare(rookTo, rank)] = NewOccupant(color, Rook)
		trial.squares[NewSquare(kingTo, rank)] = NewOccupant(color, King)
	case isEnPassant:
		capSq := NewSquare(to.File(), from.Rank())
		trial.squares[capSq] = Empty
		trial.squares[from] = Empty
		trial.squares[to] = NewOccupant(turn, Pawn)
	default:
		moving := trial.At(from)
		trial.squares[from] = Empty
		if promo != NoPiece {
			trial.squares[to] = NewOccupant(turn, promo)
		} else {
			trial.squares[to] = moving
		}
	}

	opp := turn.Opponent()
	oppKing := trial.KingSquare(opp)

	checkers := 0
	var last Square
	count := func(found bool, sq Square) {
		if found {
			checkers++
			last = sq
		}
	}
	for _, d := range rookDirections {
		sq, ok := rayChecker(&trial, oppKing, d, turn, Rook, Queen)
		count(ok, sq)
	}
	for _, d := range bishopDirections {
		sq, ok := rayChecker(&trial, oppKing, d, turn, Bishop, Queen)
		count(ok, sq)
	}
	for _, d := range knightOffsets {
		if sq, ok := step(oppKing, d[0], d[1]); ok {
			if o := trial.At(sq); !o.IsEmpty() && o.Color() == turn && o.Piece() == Knight {
				count(true, sq)
			}
		}
	}
	dr := 1
	if turn == Black {
		dr = -1
	}
	for _, df := range []int{-1, 1} {
		if sq, ok := step(oppKing, df, -dr); ok {
			if o := trial.At(sq); !o.IsEmpty() && o.Color() == turn && o.Piece() == Pawn {
				count(true, sq)
			}
		}
	}

	switch checkers {
	case 0:
		return NoCheck
	case 1:
		return last
	default:
		return DoubleCheck
	}
}
