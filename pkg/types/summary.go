package types

// DepthSummary holds the aggregated counts for one depth level.
// RatioValue is nil when no barrier has been observed at this depth.
type DepthSummary struct {
	Depth      int      `json:"depth"`
	Nodes      int64    `json:"nodes"`
	Checkmates int64    `json:"checkmates"`
	Stalemates int64    `json:"stalemates"`
	DeadEnds   int64    `json:"dead_ends"`
	SafeMoves  int64    `json:"safe_moves"`
	RatioValue *float64 `json:"ratio"`
}

// Ratio returns the depth's counts as a Ratio scope.
func (d DepthSummary) Ratio() Ratio {
	return Ratio{
		SafeMoves:  d.SafeMoves,
		Checkmates: d.Checkmates,
		DeadEnds:   d.DeadEnds,
	}
}

// RunSummary is the serializable result of one analysis run: the root,
// how far generation and resolution progressed, per-depth counts, and the
// overall refined ratio. The rendering of this structure is left to
// external consumers; encoding/json handles it as-is.
type RunSummary struct {
	RunID          string         `json:"run_id"`
	RootFEN        string         `json:"root_fen"`
	MaxDepth       int            `json:"max_depth"`
	GeneratedDepth int            `json:"generated_depth"`
	RetroComplete  bool           `json:"retro_complete"`
	TotalNodes     int64          `json:"total_nodes"`
	Depths         []DepthSummary `json:"depths"`
	Overall        Ratio          `json:"overall"`
	OverallRatio   *float64       `json:"overall_ratio"`
}
