package search

import (
	"github.com/kestrelchess/core/pkg/board"
)

// History is the history heuristic table: for each (turn, source, destination), the ply at
// which that move last caused a beta cutoff. A move is "preferred" by history if it was stored
// within Window plies of the current ply, in either direction -- grounded on the original
// engine's HistoryWindow, widened here to a per-color table since Board no longer exposes a
// single flattened square-pair index.
type History struct {
	table  [board.NumColors][board.NumSquares][board.NumSquares]int
	window int // plies; 0 disables, 2 (one move) is killer-moves-only
}

// NewHistory builds a history table with the given window, in moves (as the config surface
// exposes it); 0 disables the heuristic, 1 restricts it to killer moves only.
func NewHistory(windowMoves int) *History {
	return &History{window: windowMoves << 1}
}

func (h *History) Clear() {
	h.table = [board.NumColors][board.NumSquares][board.NumSquares]int{}
}

func (h *History) SetWindow(windowMoves int) {
	h.window = windowMoves << 1
}

func (h *History) Store(turn board.Color, m board.Move, ply int) {
	if h == nil {
		return
	}
	h.table[turn][m.From][m.To] = ply
}

// Hit reports whether m was stored within the current window of ply, i.e. counts as a
// "preferred" move by recency of past cutoffs.
func (h *History) Hit(turn board.Color, m board.Move, ply int) bool {
	if h == nil || h.window <= 0 {
		return false
	}
	stored := h.table[turn][m.From][m.To]
	d := stored - ply
	if d < 0 {
		d = -d
	}
	return stored != 0 && d < h.window
}
