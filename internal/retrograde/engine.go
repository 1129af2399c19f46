// Package retrograde implements the backward decrement pass: levels are
// processed from the deepest committed depth up to the root, converting
// checkmate and dead-end children into parent counter updates. Because a
// level is only visited once every level below it is resolved, a single
// sweep suffices and cascades across depths fall out for free.
// See docs/ARCHITECTURE.md § Retrograde Engine.
package retrograde

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/barricade/pkg/types"
)

// Engine runs the retrograde resolution pass over a stored tree.
type Engine struct {
	store types.TreeStore
	log   zerolog.Logger
}

// New creates an engine over the given store.
func New(store types.TreeStore, log zerolog.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// Run resolves the stored tree from the deepest committed level down to
// the root. Resuming after an interruption re-runs the level that was in
// flight: counters are recomputed from child statuses, never decremented
// in place, so the re-run converges to the same rows. Cancellation is
// honored at level boundaries.
func (e *Engine) Run(ctx context.Context, run *types.Run) error {
	if run.GeneratedDepth == types.DepthNone {
		return fmt.Errorf("%w: nothing generated yet", types.ErrNoRun)
	}

	start := run.GeneratedDepth
	if run.RetroStarted() {
		start = run.RetroDepth - 1
	}
	if start < 0 {
		e.log.Debug().Msg("retrograde pass already complete")
		return nil
	}

	for depth := start; depth >= 0; depth-- {
		if err := ctx.Err(); err != nil {
			e.log.Info().Int("retro_depth", run.RetroDepth).
				Msg("retrograde pass stopped at level boundary")
			return err
		}

		resolutions, deadEnds, err := e.resolveLevel(run, depth)
		if err != nil {
			return err
		}

		if err := e.store.ApplyResolutions(run.RunID, depth, resolutions); err != nil {
			return fmt.Errorf("committing resolutions at depth %d: %w", depth, err)
		}
		run.RetroDepth = depth

		e.log.Info().
			Int("depth", depth).
			Int("updates", len(resolutions)).
			Int("dead_ends", deadEnds).
			Msg("level resolved")
	}

	return nil
}

// resolveLevel recomputes every node at one depth from the final statuses
// of its children one level below. A node's safe move count is always
// child_count minus the number of trapped children; an ongoing expanded
// node whose count reaches zero becomes a dead end.
func (e *Engine) resolveLevel(run *types.Run, depth int) ([]types.Resolution, int, error) {
	if err := e.checkLevelIntegrity(run, depth); err != nil {
		return nil, 0, err
	}

	trapped, err := e.store.TrappedChildCounts(run.RunID, depth+1)
	if err != nil {
		return nil, 0, err
	}

	var resolutions []types.Resolution
	deadEnds := 0
	err = e.store.IterLevel(run.RunID, depth, func(n *types.Node) error {
		if n.TerminalState != types.TerminalOngoing {
			// Checkmate and stalemate terminals are fixed at generation.
			return nil
		}
		if n.ChildCount == 0 {
			// Unexpanded frontier leaf: permanently safe, never assessed.
			return nil
		}

		bad := int(trapped[n.NodeID])
		if bad > n.ChildCount {
			return fmt.Errorf("%w: node %d has %d trapped children but child count %d",
				types.ErrIntegrity, n.NodeID, bad, n.ChildCount)
		}

		safe := n.ChildCount - bad
		status := types.StatusSafe
		resolved := false
		if safe == 0 {
			status = types.StatusDeadEnd
			resolved = true
			deadEnds++
		}

		// Resolution is monotonic; a resolved node flipping back means
		// the stored tree is inconsistent.
		if n.Resolved && n.Status == types.StatusDeadEnd && status != types.StatusDeadEnd {
			return fmt.Errorf("%w: node %d would revert from dead_end", types.ErrIntegrity, n.NodeID)
		}

		if safe != n.SafeMoveCount || status != n.Status || resolved != n.Resolved {
			resolutions = append(resolutions, types.Resolution{
				NodeID:        n.NodeID,
				SafeMoveCount: safe,
				Status:        status,
				Resolved:      resolved,
			})
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return resolutions, deadEnds, nil
}

// checkLevelIntegrity verifies that the children recorded at a depth all
// exist one level below. A mismatch means the tree was built incorrectly;
// it is fatal and never silently repaired.
func (e *Engine) checkLevelIntegrity(run *types.Run, depth int) error {
	sum, err := e.store.ChildCountSum(run.RunID, depth)
	if err != nil {
		return err
	}
	width, err := e.store.LevelWidth(run.RunID, depth+1)
	if err != nil {
		return err
	}
	if sum != width {
		return fmt.Errorf("%w: depth %d records %d children but depth %d holds %d nodes",
			types.ErrIntegrity, depth, sum, depth+1, width)
	}
	return nil
}
