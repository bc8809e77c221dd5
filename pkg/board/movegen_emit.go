package board

// deltaAxisMatches reports whether the direction from `from` to `to` runs along the given
// pin axis (either toward or away from the king).
func deltaAxisMatches(from, to Square, axis pinAxis) bool {
	df := int(to.File()) - int(from.File())
	dr := int(to.Rank()) - int(from.Rank())
	if df == 0 && dr == 0 {
		return false
	}
	return axisOf(sign(df), sign(dr)) == axis
}

// moveAllowed applies the pin and check-evasion restrictions common to every non-king move:
// a pinned piece may only move along its pin axis, and while in single check the destination
// must capture the checker or interpose on the ray to the king.
func moveAllowed(from, to Square, pins map[Square]pinAxis, checker Square, interposeMask map[Square]bool) bool {
	if axis, pinned := pins[from]; pinned {
		if !deltaAxisMatches(from, to, axis) {
			return false
		}
	}
	if checker != NoCheck {
		if to != checker && !interposeMask[to] {
			return false
		}
	}
	return true
}

var promotionPieces = [4]Piece{Queen, Rook, Bishop, Knight}

func (b *Board) emitPawnMoves(turn Color, pins map[Square]pinAxis, checker Square, interposeMask map[Square]bool) []Move {
	var moves []Move
	dr := 1
	startRank, promoRank := Rank2, Rank8
	if turn == Black {
		dr = -1
		startRank, promoRank = Rank7, Rank1
	}

	for _, from := range b.pieceList.list(turn, Pawn) {
		// Single push.
		if to, ok := step(from, 0, dr); ok && b.pos.IsEmpty(to) {
			if moveAllowed(from, to, pins, checker, interposeMask) {
				moves = append(moves, b.pawnMove(turn, from, to, to.Rank() == promoRank)...)
			}
			// Double push, only from the start rank and only if the single push square is clear.
			if from.Rank() == startRank {
				if to2, ok := step(to, 0, dr); ok && b.pos.IsEmpty(to2) {
					if moveAllowed(from, to2, pins, checker, interposeMask) {
						moves = append(moves, Move{From: from, To: to2, Check: b.checkAnnotation(turn, from, to2, NoPiece, false, Move{}, false)})
					}
				}
			}
		}

		for _, df := range []int{-1, 1} {
			to, ok := step(from, df, dr)
			if !ok {
				continue
			}
			if o := b.pos.At(to); !o.IsEmpty() && o.Color() == turn.Opponent() {
				if moveAllowed(from, to, pins, checker, interposeMask) {
					moves = append(moves, b.pawnMove(turn, from, to, to.Rank() == promoRank)...)
				}
				continue
			}
			if ep, ok := b.pos.EnPassant(); ok && ep == to && b.pos.IsEmpty(to) {
				if b.enPassantIsLegal(turn, from, to) {
					moves = append(moves, Move{From: from, To: to, Promotion: Pawn, Check: b.checkAnnotation(turn, from, to, NoPiece, true, Move{}, false)})
				}
			}
		}
	}
	return moves
}

func (b *Board) pawnMove(turn Color, from, to Square, isPromotion bool) []Move {
	if !isPromotion {
		return []Move{{From: from, To: to, Check: b.checkAnnotation(turn, from, to, NoPiece, false, Move{}, false)}}
	}
	moves := make([]Move, 0, 4)
	for _, promo := range promotionPieces {
		moves = append(moves, Move{From: from, To: to, Promotion: promo, Check: b.checkAnnotation(turn, from, to, promo, false, Move{}, false)})
	}
	return moves
}

// enPassantIsLegal covers the one case the ordinary pin detector cannot see: the capturing
// pawn pinned against its own king along the capture rank, where both pawns vanish from that
// rank in the same move and expose the king to a rook or queen beyond the captured pawn.
func (b *Board) enPassantIsLegal(turn Color, from, to Square) bool {
	trial := b.pos
	capSq := NewSquare(to.File(), from.Rank())
	trial.squares[capSq] = Empty
	trial.squares[from] = Empty
	trial.squares[to] = NewOccupant(turn, Pawn)

	kingSq := trial.KingSquare(turn)
	return !trial.IsAttacked(turn, kingSq)
}

func (b *Board) emitKnightMoves(turn Color, pins map[Square]pinAxis, checker Square, interposeMask map[Square]bool) []Move {
	var moves []Move
	for _, from := range b.pieceList.list(turn, Knight) {
		if _, pinned := pins[from]; pinned {
			continue // a pinned knight cannot move at all.
		}
		for _, d := range knightOffsets {
			to, ok := step(from, d[0], d[1])
			if !ok {
				continue
			}
			if o := b.pos.At(to); !o.IsEmpty() && o.Color() == turn {
				continue
			}
			if !moveAllowed(from, to, pins, checker, interposeMask) {
				continue
			}
			moves = append(moves, Move{From: from, To: to, Check: b.checkAnnotation(turn, from, to, NoPiece, false, Move{}, false)})
		}
	}
	return moves
}

func (b *Board) emitSliderMoves(turn Color, p Piece, pins map[Square]pinAxis, checker Square, interposeMask map[Square]bool) []Move {
	var dirs [][4][2]int
	switch p {
	case Rook:
		dirs = [][4][2]int{rookDirections}
	case Bishop:
		dirs = [][4][2]int{bishopDirections}
	case Queen:
		dirs = [][4][2]int{rookDirections, bishopDirections}
	}

	var moves []Move
	for _, from := range b.pieceList.list(turn, p) {
		for _, group := range dirs {
			for _, d := range group {
				cur := from
				for {
					to, ok := step(cur, d[0], d[1])
					if !ok {
						break
					}
					o := b.pos.At(to)
					if !o.IsEmpty() && o.Color() == turn {
						break
					}
					if moveAllowed(from, to, pins, checker, interposeMask) {
						moves = append(moves, Move{From: from, To: to, Check: b.checkAnnotation(turn, from, to, NoPiece, false, Move{}, false)})
					}
					if !o.IsEmpty() {
						break // captured an enemy piece: ray stops here either way.
					}
					cur = to
				}
			}
		}
	}
	return moves
}

// emitKingMoves generates king steps, validating each destination by simulating the king's
// move and asking whether the resulting position leaves it attacked -- this naturally handles
// the case of a king stepping straight back from a slider along the same ray, since the
// simulated occupancy no longer has the king blocking its own escape square.
func (b *Board) emitKingMoves(turn Color, kingSq Square) []Move {
	var moves []Move
	for _, d := range kingOffsets {
		to, ok := step(kingSq, d[0], d[1])
		if !ok {
			continue
		}
		if o := b.pos.At(to); !o.IsEmpty() && o.Color() == turn {
			continue
		}
		if !b.kingMoveIsSafe(turn, kingSq, to) {
			continue
		}
		moves = append(moves, Move{From: kingSq, To: to, Check: b.checkAnnotation(turn, kingSq, to, NoPiece, false, Move{}, false)})
	}
	return moves
}

func (b *Board) kingMoveIsSafe(turn Color, from, to Square) bool {
	trial := b.pos
	trial.squares[from] = Empty
	trial.squares[to] = NewOccupant(turn, King)
	return !trial.IsAttacked(turn, to)
}

// emitCastles generates 0, 1 or 2 castling moves, checking that the rights are still held,
// the squares between king and rook are empty, and the king does not start, pass through, or
// land on an attacked square.
func (b *Board) emitCastles(turn Color) []Move {
	rank := Rank1
	kingside, queenside := WhiteKingSideCastle, WhiteQueenSideCastle
	if turn == Black {
		rank = Rank8
		kingside, queenside = BlackKingSideCastle, BlackQueenSideCastle
	}
	kingSq := NewSquare(FileE, rank)

	var moves []Move
	if b.pos.Castling().IsAllowed(kingside) {
		f, g, h := NewSquare(FileF, rank), NewSquare(FileG, rank), NewSquare(FileH, rank)
		if b.pos.IsEmpty(f) && b.pos.IsEmpty(g) && b.pos.At(h).Piece() == Rook {
			if !b.pos.IsAttacked(turn, kingSq) && !b.pos.IsAttacked(turn, f) && !b.pos.IsAttacked(turn, g) {
				m := NewCastleMove(turn, true)
				m.Check = b.checkAnnotation(turn, 0, 0, NoPiece, false, m, true)
				moves = append(moves, m)
			}
		}
	}
	if b.pos.Castling().IsAllowed(queenside) {
		d, c, bb, a := NewSquare(FileD, rank), NewSquare(FileC, rank), NewSquare(FileB, rank), NewSquare(FileA, rank)
		if b.pos.IsEmpty(d) && b.pos.IsEmpty(c) && b.pos.IsEmpty(bb) && b.pos.At(a).Piece() == Rook {
			if !b.pos.IsAttacked(turn, kingSq) && !b.pos.IsAttacked(turn, d) && !b.pos.IsAttacked(turn, c) {
				m := NewCastleMove(turn, false)
				m.Check = b.checkAnnotation(turn, 0, 0, NoPiece, false, m, true)
				moves = append(moves, m)
			}
		}
	}
	return moves
}
