// Package ratio aggregates barrier counts over the stored tree and
// computes the refined ratio safe_moves / (checkmates + dead_ends).
// All operations are pure reads: they can run against a partially
// generated or partially resolved tree and report the counters as they
// stand.
package ratio

import (
	"fmt"

	"github.com/mesh-intelligence/barricade/pkg/types"
)

// Aggregator reads ratio scopes and run summaries from a tree store.
type Aggregator struct {
	store types.TreeStore
}

// New creates an aggregator over the given store.
func New(store types.TreeStore) *Aggregator {
	return &Aggregator{store: store}
}

// Overall returns the refined-ratio counts over the whole tree.
func (a *Aggregator) Overall(runID string) (types.Ratio, error) {
	return a.store.ScopeRatio(runID, types.DepthNone)
}

// AtDepth returns the refined-ratio counts over a single depth.
func (a *Aggregator) AtDepth(runID string, depth int) (types.Ratio, error) {
	if depth < 0 {
		return types.Ratio{}, types.ErrInvalidDepth
	}
	return a.store.ScopeRatio(runID, depth)
}

// PerDepth returns the aggregated counts for every stored depth.
func (a *Aggregator) PerDepth(runID string) ([]types.DepthSummary, error) {
	return a.store.DepthSummaries(runID)
}

// Summary assembles the serializable result of a run: per-depth counts
// and ratios plus the overall ratio.
func (a *Aggregator) Summary(run *types.Run) (*types.RunSummary, error) {
	depths, err := a.store.DepthSummaries(run.RunID)
	if err != nil {
		return nil, fmt.Errorf("summarizing depths: %w", err)
	}
	total, err := a.store.TotalNodes(run.RunID)
	if err != nil {
		return nil, err
	}
	overall, err := a.Overall(run.RunID)
	if err != nil {
		return nil, err
	}

	summary := &types.RunSummary{
		RunID:          run.RunID,
		RootFEN:        run.RootFEN,
		MaxDepth:       run.MaxDepth,
		GeneratedDepth: run.GeneratedDepth,
		RetroComplete:  run.RetroComplete(),
		TotalNodes:     total,
		Depths:         depths,
		Overall:        overall,
	}
	if v, ok := overall.Value(); ok {
		summary.OverallRatio = &v
	}
	return summary, nil
}
