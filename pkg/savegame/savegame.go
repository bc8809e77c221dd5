// Package savegame implements the minimal save/restore/undo/redo ledger for a game in progress:
// a starting position, the two sides' starting clock configuration, and the flat array of moves
// played since, each tagged with the mover's clock reading afterward. Grounded on
// original_source/SaveGame.h's GamePlyT array plus explicit Save/Restore framing.
package savegame

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/kestrelchess/core/pkg/board"
	"github.com/kestrelchess/core/pkg/board/fen"
)

// magic identifies the file format; version allows it to evolve without silently misreading an
// older save.
var magic = [4]byte{'K', 'C', 'S', 'G'}

const version uint32 = 1

// ClockConfig is the starting configuration of one side's clock, serialized alongside the game
// so Restore can rebuild both the position and the clocks exactly as they were at save time.
type ClockConfig struct {
	StartTime           time.Duration
	Increment           time.Duration
	MovesToNextControl  int32
}

// Ply is one recorded half-move: the move itself, plus the mover's clock reading immediately
// after it (including any increment just applied), per original_source/SaveGame.h's GamePlyT.
type Ply struct {
	Move     board.Move
	TimeLeft time.Duration
}

// SaveGame is the append-only (until a GotoPly rewind discards redo information) ply ledger for
// one game: where it started, the clocks it started with, and every move played since.
type SaveGame struct {
	startFEN string
	startPly int
	headPly  int // navigation point; CommitMove discards any recorded ply at or past this
	clocks   [2]ClockConfig // indexed by board.Color
	plies    []Ply          // plies[i] was played at ply startPly+i; may hold redo info past headPly
}

// New creates a ledger starting from pos with the given starting clock configuration for each
// color.
func New(pos *board.Position, white, black ClockConfig) *SaveGame {
	return &SaveGame{
		startFEN: fen.Encode(pos),
		startPly: pos.Ply(),
		headPly:  pos.Ply(),
		clocks:   [2]ClockConfig{board.White: white, board.Black: black},
	}
}

// CommitMove records move at the current head ply and advances it, discarding any redo
// information past the head -- the usual "making a new move after undoing" semantics, per
// original_source/SaveGame.cpp's CommitMove.
func (g *SaveGame) CommitMove(move board.Move, timeLeft time.Duration) {
	idx := g.headPly - g.startPly
	g.plies = g.plies[:idx]
	g.plies = append(g.plies, Ply{Move: move, TimeLeft: timeLeft})
	g.headPly++
}

// SetStartPosition resets the ledger to begin at pos with no moves recorded, without touching
// the stored clock configuration (use New or SetClocks for that).
func (g *SaveGame) SetStartPosition(pos *board.Position) {
	g.startFEN = fen.Encode(pos)
	g.startPly = pos.Ply()
	g.headPly = pos.Ply()
	g.plies = g.plies[:0]
}

// SetClocks overwrites the starting clock configuration recorded for a new game.
func (g *SaveGame) SetClocks(white, black ClockConfig) {
	g.clocks = [2]ClockConfig{board.White: white, board.Black: black}
}

// StartFEN returns the ledger's starting position in FEN.
func (g *SaveGame) StartFEN() string {
	return g.startFEN
}

// Clocks returns the starting clock configuration for both colors.
func (g *SaveGame) Clocks() (white, black ClockConfig) {
	return g.clocks[board.White], g.clocks[board.Black]
}

func (g *SaveGame) FirstPly() int {
	return g.startPly
}

// LastPly is the ply just past the last recorded move, including any redo information beyond
// the current head.
func (g *SaveGame) LastPly() int {
	return g.startPly + len(g.plies)
}

// CurrentPly is the ledger's navigation point -- where GotoPly last left it, or LastPly() if
// every recorded move has been replayed.
func (g *SaveGame) CurrentPly() int {
	return g.headPly
}

// MoveAt returns the move recorded at ply (FirstPly() <= ply < LastPly()), regardless of where
// the current head sits.
func (g *SaveGame) MoveAt(ply int) (board.Move, bool) {
	idx := ply - g.startPly
	if idx < 0 || idx >= len(g.plies) {
		return board.Move{}, false
	}
	return g.plies[idx].Move, true
}

// Len returns the number of plies recorded, including any redo information past the head.
func (g *SaveGame) Len() int {
	return len(g.plies)
}

// Encode writes the ledger to w in the on-disk save-game format.
func (g *SaveGame) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, version); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, int32(g.startPly)); err != nil {
		return err
	}
	for _, c := range g.clocks {
		if err := writeClockConfig(bw, c); err != nil {
			return err
		}
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(g.startFEN))); err != nil {
		return err
	}
	if _, err := bw.WriteString(g.startFEN); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(g.plies))); err != nil {
		return err
	}
	for _, p := range g.plies {
		if err := writePly(bw, p); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads a ledger previously written by Encode.
func Decode(r io.Reader) (*SaveGame, error) {
	br := bufio.NewReader(r)

	var got [4]byte
	if _, err := io.ReadFull(br, got[:]); err != nil {
		return nil, fmt.Errorf("savegame: reading magic: %w", err)
	}
	if got != magic {
		return nil, fmt.Errorf("savegame: not a save-game file (bad magic %q)", got)
	}

	var v uint32
	if err := binary.Read(br, binary.LittleEndian, &v); err != nil {
		return nil, fmt.Errorf("savegame: reading version: %w", err)
	}
	if v != version {
		return nil, fmt.Errorf("savegame: unsupported version %v", v)
	}

	var startPly int32
	if err := binary.Read(br, binary.LittleEndian, &startPly); err != nil {
		return nil, fmt.Errorf("savegame: reading start ply: %w", err)
	}

	g := &SaveGame{startPly: int(startPly)}
	for i := range g.clocks {
		c, err := readClockConfig(br)
		if err != nil {
			return nil, fmt.Errorf("savegame: reading clock %v: %w", i, err)
		}
		g.clocks[i] = c
	}

	var fenLen uint32
	if err := binary.Read(br, binary.LittleEndian, &fenLen); err != nil {
		return nil, fmt.Errorf("savegame: reading fen length: %w", err)
	}
	fenBytes := make([]byte, fenLen)
	if _, err := io.ReadFull(br, fenBytes); err != nil {
		return nil, fmt.Errorf("savegame: reading fen: %w", err)
	}
	g.startFEN = string(fenBytes)

	var numPlies uint32
	if err := binary.Read(br, binary.LittleEndian, &numPlies); err != nil {
		return nil, fmt.Errorf("savegame: reading ply count: %w", err)
	}
	g.plies = make([]Ply, numPlies)
	for i := range g.plies {
		p, err := readPly(br)
		if err != nil {
			return nil, fmt.Errorf("savegame: reading ply %v: %w", i, err)
		}
		g.plies[i] = p
	}

	if _, err := fen.Decode(g.startFEN); err != nil {
		return nil, fmt.Errorf("savegame: stored start position is invalid: %w", err)
	}
	return g, nil
}

func writeClockConfig(w io.Writer, c ClockConfig) error {
	fields := []any{int64(c.StartTime), int64(c.Increment), c.MovesToNextControl}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func readClockConfig(r io.Reader) (ClockConfig, error) {
	var startTime, increment int64
	var movesToNextControl int32
	for _, f := range []any{&startTime, &increment, &movesToNextControl} {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return ClockConfig{}, err
		}
	}
	return ClockConfig{
		StartTime:          time.Duration(startTime),
		Increment:          time.Duration(increment),
		MovesToNextControl: movesToNextControl,
	}, nil
}

func writePly(w io.Writer, p Ply) error {
	fields := []any{p.Move.From, p.Move.To, p.Move.Promotion, p.Move.Check, int64(p.TimeLeft)}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func readPly(r io.Reader) (Ply, error) {
	var from, to, promo, check uint8
	var timeLeft int64
	fields := []any{&from, &to, &promo, &check, &timeLeft}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return Ply{}, err
		}
	}
	return Ply{
		Move: board.Move{
			From:      board.Square(from),
			To:        board.Square(to),
			Promotion: board.Piece(promo),
			Check:     board.Square(check),
		},
		TimeLeft: time.Duration(timeLeft),
	}, nil
}

// GotoPly seeks the ledger's head to ply, replaying from startFEN, and returns the resulting
// position. Moves the head to ply but leaves the recorded plies (and any redo information past
// it) untouched, per original_source/SaveGame.cpp's GotoPly.
func (g *SaveGame) GotoPly(ply int) (*board.Position, error) {
	if ply < g.FirstPly() || ply > g.LastPly() {
		return nil, fmt.Errorf("savegame: ply %v out of range [%v;%v]", ply, g.FirstPly(), g.LastPly())
	}

	pos, err := fen.Decode(g.startFEN)
	if err != nil {
		return nil, fmt.Errorf("savegame: stored start position is invalid: %w", err)
	}

	zt := board.NewZobristTable(1)
	b := board.NewBoard(zt, pos)
	for i := 0; i < ply-g.startPly; i++ {
		b.MakeMove(g.plies[i].Move)
	}
	g.headPly = ply
	return b.Position(), nil
}

// ClockAt returns the recorded clock reading at ply (the time left after the move that reached
// it), or false if ply is the starting ply with no move recorded yet.
func (g *SaveGame) ClockAt(ply int) (time.Duration, bool) {
	idx := ply - g.startPly - 1
	if idx < 0 || idx >= len(g.plies) {
		return 0, false
	}
	return g.plies[idx].TimeLeft, true
}
