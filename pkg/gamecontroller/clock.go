package gamecontroller

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// Infinite marks a clock with no time limit at all, per the original engine's
// CLOCK_TIME_INFINITE sentinel.
const Infinite = time.Duration(math.MaxInt64)

// Clock is a single side's chess clock: a starting allotment, a per-move increment applied
// after the move that consumed it, and an optional classical time-control period (another
// starting allotment added every N moves). Safe for concurrent Remaining/IsRunning reads against a
// Start/Stop/Reset from the owning GameController goroutine.
type Clock struct {
	mu sync.Mutex

	startTime time.Duration // put back on the clock on Reset
	remaining time.Duration
	increment time.Duration

	movesToNextControl int // 0 == rest of game, no period reset

	running       bool
	turnStartedAt time.Time
	lastTimeTaken time.Duration

	perMoveLimit time.Duration
}

// NewClock builds a stopped clock with startTime on it.
func NewClock(startTime, increment time.Duration, movesToNextControl int) *Clock {
	return &Clock{
		startTime:          startTime,
		remaining:          startTime,
		increment:          increment,
		movesToNextControl: movesToNextControl,
		perMoveLimit:       Infinite,
	}
}

func (c *Clock) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Clock) IsInfinite() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining == Infinite
}

// Start begins timing the current move, a no-op if already running.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		c.running = true
		c.turnStartedAt = time.Now()
	}
}

// Stop ends timing the current move and deducts the elapsed time, returning it.
func (c *Clock) Stop() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return 0
	}
	c.running = false
	c.lastTimeTaken = time.Since(c.turnStartedAt)
	if c.remaining != Infinite {
		c.remaining -= c.lastTimeTaken
	}
	return c.lastTimeTaken
}

// Reset stops the clock and restores the starting allotment, e.g. for NewGame.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	c.remaining = c.startTime
}

// AddTime adds (or subtracts) time directly, leaving an already-infinite clock infinite.
func (c *Clock) AddTime(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remaining == Infinite {
		return
	}
	c.remaining += d
}

// ApplyIncrement credits the per-move increment and, at a classical time control boundary,
// the next period's full allotment. Meant to be called just after a move is made -- the
// increment rewards the side that just moved, not the side now to move. ply is the ply number
// of the move just made (1-indexed from White's first move).
func (c *Clock) ApplyIncrement(ply int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remaining == Infinite {
		return
	}
	c.remaining += c.increment
	if c.movesToNextControl > 0 && ((ply+1)/2)%c.movesToNextControl == 0 {
		c.remaining += c.startTime
	}
}

func (c *Clock) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// SetRemaining overwrites the clock's live remaining time without touching its start/increment/
// time-control configuration, e.g. restoring a clock reading recorded in a save-game.
func (c *Clock) SetRemaining(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remaining = d
}

func (c *Clock) SetPerMoveLimit(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.perMoveLimit = d
}

func (c *Clock) PerMoveLimit() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.perMoveLimit
}

// Limits returns a soft and hard search-time budget for the move about to be thought about: the
// search should not start a new iterative-deepening level past the soft limit, and must be
// force-stopped at the hard limit. Ported from the teacher's searchctl.TimeControl.Limits,
// generalized from a two-sided struct to a per-side Clock: assume 40 moves remain if no explicit
// time-control period is set, let soft = remaining/(2*moves), hard = 3*soft.
func (c *Clock) Limits() (soft, hard time.Duration) {
	c.mu.Lock()
	remaining := c.remaining
	movesToNextControl := c.movesToNextControl
	perMoveLimit := c.perMoveLimit
	c.mu.Unlock()

	if remaining == Infinite {
		return perMoveLimit, perMoveLimit
	}

	moves := time.Duration(40)
	if movesToNextControl > 0 {
		moves = time.Duration(movesToNextControl) + 1
	}

	soft = remaining / (2 * moves)
	hard = 3 * soft
	if perMoveLimit != Infinite && perMoveLimit < hard {
		hard = perMoveLimit
		if soft > hard {
			soft = hard
		}
	}
	return soft, hard
}

// Params returns the clock's configuration (not its live remaining time), for copying into
// another clock via SetParams -- e.g. GameController.ResetClocks restoring a live clock from its
// initial-clock counterpart, per original_source/Clock.h's SetParameters.
func (c *Clock) Params() (startTime, increment time.Duration, movesToNextControl int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startTime, c.increment, c.movesToNextControl
}

// SetParams overwrites the clock's configuration and puts the new starting allotment on it,
// stopped.
func (c *Clock) SetParams(startTime, increment time.Duration, movesToNextControl int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	c.startTime = startTime
	c.remaining = startTime
	c.increment = increment
	c.movesToNextControl = movesToNextControl
}

func (c *Clock) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remaining == Infinite {
		return "inf"
	}
	return fmt.Sprintf("%.1fs", c.remaining.Seconds())
}
