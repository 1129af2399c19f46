// Package generate implements breadth-first expansion of the move tree,
// level by level, into the tree store. Each level is committed as one
// batch before the checkpoint advances, so an interrupted run loses at
// most the level that was in flight.
// See docs/ARCHITECTURE.md § Tree Generator.
package generate

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/barricade/internal/oracle"
	"github.com/mesh-intelligence/barricade/pkg/types"
)

// Generator expands a root position to a bounded depth.
type Generator struct {
	store   types.TreeStore
	oracle  oracle.Oracle
	log     zerolog.Logger
	workers int
}

// New creates a generator. workers bounds the move-enumeration pool;
// 0 means one worker per CPU.
func New(store types.TreeStore, orc oracle.Oracle, log zerolog.Logger, workers int) *Generator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Generator{store: store, oracle: orc, log: log, workers: workers}
}

// Run generates the tree for rootFEN down to maxDepth. With resume, it
// continues the stored run from its last committed level; otherwise a
// stored run is an error and must be reset first. Cancellation is
// honored at level boundaries only; the checkpoint then reflects the
// last fully committed level.
func (g *Generator) Run(ctx context.Context, rootFEN string, maxDepth int, resume bool) (*types.Run, error) {
	if maxDepth < 0 {
		return nil, types.ErrInvalidDepth
	}

	// Reject a malformed root before any work begins.
	rootTerminal, err := g.oracle.Classify(rootFEN)
	if err != nil {
		return nil, err
	}

	run, err := g.prepareRun(rootFEN, maxDepth, resume)
	if err != nil {
		return nil, err
	}

	if run.GeneratedDepth == types.DepthNone {
		if err := g.putRoot(run, rootTerminal); err != nil {
			return nil, err
		}
	}

	for depth := run.GeneratedDepth; depth < run.MaxDepth; depth++ {
		if err := ctx.Err(); err != nil {
			g.log.Info().Int("generated_depth", run.GeneratedDepth).
				Msg("generation stopped at level boundary")
			return run, err
		}

		frontier, err := g.collectFrontier(run, depth)
		if err != nil {
			return nil, err
		}
		if len(frontier) == 0 {
			// Every node at this depth is terminal; deeper levels are empty.
			if err := g.store.FinishGeneration(run.RunID, run.MaxDepth); err != nil {
				return nil, err
			}
			run.GeneratedDepth = run.MaxDepth
			g.log.Info().Int("depth", depth).Msg("frontier empty, generation finished early")
			break
		}

		children, parentCounts, err := g.expandLevel(ctx, run, frontier, depth+1)
		if err != nil {
			return nil, err
		}

		if err := g.store.PutLevel(run.RunID, depth+1, children, parentCounts); err != nil {
			return nil, fmt.Errorf("committing level %d: %w", depth+1, err)
		}
		run.GeneratedDepth = depth + 1

		g.log.Info().
			Int("depth", depth+1).
			Int("nodes", len(children)).
			Int("frontier", len(frontier)).
			Msg("level committed")
	}

	return run, nil
}

// prepareRun loads or creates the run checkpoint.
func (g *Generator) prepareRun(rootFEN string, maxDepth int, resume bool) (*types.Run, error) {
	run, err := g.store.LoadRun()
	switch {
	case err == nil && !resume:
		return nil, types.ErrRunExists
	case err != nil && resume:
		return nil, fmt.Errorf("resume: %w", err)
	case err != nil:
		return g.store.CreateRun(rootFEN, maxDepth)
	}

	if run.RootFEN != rootFEN {
		return nil, fmt.Errorf("%w: stored root %q", types.ErrRunMismatch, run.RootFEN)
	}
	// Growing the tree after resolution started would leave the resolved
	// statuses stale, whether or not the stored target already allows the
	// extra levels. The run must be reset first.
	if run.RetroStarted() && maxDepth > run.GeneratedDepth {
		return nil, fmt.Errorf("%w: retrograde pass already started", types.ErrRunMismatch)
	}
	if run.MaxDepth != maxDepth {
		if err := g.store.SetMaxDepth(run.RunID, maxDepth); err != nil {
			return nil, err
		}
		run.MaxDepth = maxDepth
	}
	return run, nil
}

// putRoot commits depth 0 as its own level.
func (g *Generator) putRoot(run *types.Run, terminal string) error {
	root := &types.Node{
		NodeID:        1,
		Depth:         0,
		Position:      run.RootFEN,
		TerminalState: terminal,
		Resolved:      terminal != types.TerminalOngoing,
		Status:        types.StatusForTerminal(terminal),
	}
	if err := g.store.PutLevel(run.RunID, 0, []*types.Node{root}, nil); err != nil {
		return fmt.Errorf("committing root: %w", err)
	}
	run.GeneratedDepth = 0
	return nil
}

// collectFrontier returns the ongoing nodes at the last committed depth,
// in ascending id order.
func (g *Generator) collectFrontier(run *types.Run, depth int) ([]*types.Node, error) {
	var frontier []*types.Node
	err := g.store.IterLevel(run.RunID, depth, func(n *types.Node) error {
		if n.TerminalState == types.TerminalOngoing {
			frontier = append(frontier, n)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collecting frontier at depth %d: %w", depth, err)
	}
	return frontier, nil
}

// expandLevel enumerates the continuations of every frontier node on a
// bounded worker pool, then assigns child ids sequentially in frontier
// order. Ids are therefore deterministic for a given oracle, which makes
// regeneration of an interrupted level reproduce identical rows.
func (g *Generator) expandLevel(ctx context.Context, run *types.Run, frontier []*types.Node, depth int) ([]*types.Node, map[int64]int, error) {
	expansions := make([][]oracle.Child, len(frontier))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, parent := range frontier {
		i, parent := i, parent
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			children, err := g.oracle.Expand(parent.Position)
			if err != nil {
				return fmt.Errorf("expanding node %d: %w", parent.NodeID, err)
			}
			expansions[i] = children
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	nextID, err := g.store.NextNodeID(run.RunID)
	if err != nil {
		return nil, nil, err
	}

	// Frontier arrives in ascending id order from IterLevel, so the id
	// assignment below is stable across regeneration.
	var nodes []*types.Node
	parentCounts := make(map[int64]int, len(frontier))
	for i, parent := range frontier {
		children := expansions[i]
		parentCounts[parent.NodeID] = len(children)
		for _, child := range children {
			nodes = append(nodes, &types.Node{
				NodeID:        nextID,
				ParentID:      parent.NodeID,
				Depth:         depth,
				Position:      child.Position,
				Move:          child.Move,
				TerminalState: child.Terminal,
				Resolved:      child.Terminal != types.TerminalOngoing,
				Status:        types.StatusForTerminal(child.Terminal),
			})
			nextID++
		}
	}
	return nodes, parentCounts, nil
}
