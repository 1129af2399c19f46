package types

import "fmt"

// Ratio aggregates barrier counts over a scope: a single depth or the
// whole tree. SafeMoves sums the remaining safe move counters of
// unresolved ongoing nodes; Checkmates and DeadEnds size the barrier.
type Ratio struct {
	SafeMoves  int64 `json:"safe_moves"`
	Checkmates int64 `json:"checkmates"`
	DeadEnds   int64 `json:"dead_ends"`
}

// BarrierSize is the denominator of the refined ratio.
func (r Ratio) BarrierSize() int64 {
	return r.Checkmates + r.DeadEnds
}

// Value returns the refined ratio safe_moves / (checkmates + dead_ends).
// The second return value is false when no barrier has been observed in
// the scope (denominator zero), in which case the ratio is undefined.
func (r Ratio) Value() (float64, bool) {
	barrier := r.BarrierSize()
	if barrier == 0 {
		return 0, false
	}
	return float64(r.SafeMoves) / float64(barrier), true
}

// String renders the ratio for human-readable output.
func (r Ratio) String() string {
	v, ok := r.Value()
	if !ok {
		return "no barrier observed"
	}
	return fmt.Sprintf("%.2f", v)
}
