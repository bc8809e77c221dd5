package config

// Standard option names, per spec.md 6's Config surface. A front-end wires these to its own
// engine instance via NewStandardRegistry; any additional UCI/Winboard-specific items it needs
// are free to Register alongside these.
const (
	MaxDepthSpin      = "limits/maxDepth"
	MaxMemorySpin     = "limits/maxMemory"
	MaxNodesSpin      = "limits/maxNodes"
	MaxThreadsSpin    = "limits/maxThreads"
	RandomMovesCheck  = "randomMoves"
	CanResignCheck    = "canResign"
	HistoryWindowSpin = "historyWindow"
)

// Setters is the set of live engine hooks NewStandardRegistry wires the spec's named config
// items to. A nil field leaves the corresponding item registered (so it's still discoverable
// and SetSpin/SetCheckbox still succeed) but inert -- e.g. a front-end that hasn't built a
// SearcherPool yet can omit MaxThreads.
type Setters struct {
	// MaxDepth sets the iteration depth cap; 0 means unlimited, per spec.md 6.
	MaxDepth func(depth int)
	// MaxMemory sets the transposition table's byte budget in MiB; 0 disables the table.
	MaxMemory func(mib int)
	// MaxNodes sets the best-effort minimax node cap; 0 means unlimited.
	MaxNodes func(nodes int)
	// MaxThreads sets the target worker-pool size.
	MaxThreads func(n int)
	// RandomMoves toggles piece-list permutation on new game.
	RandomMoves func(v bool)
	// CanResign toggles the resignation policy.
	CanResign func(v bool)
	// HistoryWindow sets the history-heuristic window, in moves; 0 disables it, 1 is
	// killer-moves-only.
	HistoryWindow func(moves int)
}

// NewStandardRegistry builds a Registry pre-populated with spec.md 6's seven named config
// items (limits/maxDepth, limits/maxMemory, limits/maxNodes, limits/maxThreads, randomMoves,
// canResign, historyWindow), each wired to the corresponding Setters hook. Defaults mirror
// original_source/Config.cpp's predefined items: unlimited depth/nodes, no persistent hash,
// a single search thread, deterministic move ordering, resignation disabled, and history
// window disabled.
func NewStandardRegistry(s Setters) *Registry {
	r := New()

	_ = r.RegisterSpin(MaxDepthSpin, "maximum iterative-deepening depth (0 = unlimited)", 0, 0, 1<<20, s.MaxDepth)
	_ = r.RegisterSpin(MaxMemorySpin, "transposition table size in MiB (0 = disabled)", 0, 0, 1<<20, s.MaxMemory)
	_ = r.RegisterSpin(MaxNodesSpin, "maximum minimax node count (0 = unlimited)", 0, 0, 1<<30, s.MaxNodes)
	_ = r.RegisterSpin(MaxThreadsSpin, "target worker-pool size", 1, 1, 512, s.MaxThreads)
	_ = r.RegisterCheckbox(RandomMovesCheck, "permute piece-list order on new game", false, s.RandomMoves)
	_ = r.RegisterCheckbox(CanResignCheck, "allow the engine to resign lost positions", false, s.CanResign)
	_ = r.RegisterSpin(HistoryWindowSpin, "history-heuristic window in moves (0 = disabled, 1 = killer-moves-only)", 0, 0, 1<<16, s.HistoryWindow)

	return r
}
