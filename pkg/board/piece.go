package board

import "strings"

// Piece represents a chess piece type without color: Empty, or one of the six piece
// kinds. Used as the Move.Promotion field and as the key into the per-type worth table. 3 bits.
type Piece uint8

const (
	NoPiece Piece = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// NumPieceTypes is the count of real (non-empty) piece types: Pawn through King.
const NumPieceTypes Piece = 6

// worth holds the nominal material value, in centipawns, for each piece type. Indexed
// directly by Piece for O(1) lookup. King is never summed into material totals.
var worth = [NumPieceTypes + 1]int{
	NoPiece: 0,
	Pawn:    100,
	Knight:  320,
	Bishop:  330,
	Rook:    500,
	Queen:   900,
	King:    0,
}

// Worth returns the nominal material value of the piece type, in centipawns.
func (p Piece) Worth() int {
	return worth[p]
}

func ParsePiece(r rune) (Piece, bool) {
	switch r {
	case 'p', 'P':
		return Pawn, true
	case 'n', 'N':
		return Knight, true
	case 'b', 'B':
		return Bishop, true
	case 'r', 'R':
		return Rook, true
	case 'q', 'Q':
		return Queen, true
	case 'k', 'K':
		return King, true
	default:
		return NoPiece, false
	}
}

func (p Piece) IsValid() bool {
	return Pawn <= p && p <= King
}

func (p Piece) String() string {
	switch p {
	case NoPiece:
		return " "
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return "?"
	}
}

// Occupant represents the content of a single board square: the sum type {Empty; one of
// {King,Queen,Rook,Bishop,Knight,Pawn} x one of {White,Black}}. Encoded as a small index so
// type and color are O(1) field extractions and Worth is an O(1) table lookup. 4 bits.
type Occupant uint8

// Empty is the occupant of a square with no piece on it.
const Empty Occupant = 0

// NewOccupant encodes a colored piece as an Occupant. Piece must not be NoPiece.
func NewOccupant(c Color, p Piece) Occupant {
	return Occupant(1 + int(c)*int(NumPieceTypes) + int(p) - 1)
}

func (o Occupant) IsEmpty() bool {
	return o == Empty
}

// Color returns the occupying piece's color. Undefined if IsEmpty.
func (o Occupant) Color() Color {
	if int(o-1) >= int(NumPieceTypes) {
		return Black
	}
	return White
}

// Piece returns the occupying piece's type. Returns NoPiece if IsEmpty.
func (o Occupant) Piece() Piece {
	if o.IsEmpty() {
		return NoPiece
	}
	return Piece((int(o-1))%int(NumPieceTypes)) + 1
}

// Worth returns the nominal material value of the occupant, in centipawns. Zero if empty.
func (o Occupant) Worth() int {
	return o.Piece().Worth()
}

func (o Occupant) String() string {
	if o.IsEmpty() {
		return "."
	}
	if o.Color() == White {
		return strings.ToUpper(o.Piece().String())
	}
	return o.Piece().String()
}
