// Node table operations: level-batched writes, streamed reads, and the
// idempotent resolution batch used by the retrograde pass.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/barricade/pkg/types"
)

// PutLevel atomically persists one whole depth level. In one transaction
// it discards any stale rows at the target depth (a partial level from an
// interrupted run), inserts the new nodes, records the parents' child and
// safe move counters, and advances the run's generation checkpoint.
// The level must directly follow the last committed one.
func (s *Store) PutLevel(runID string, depth int, nodes []*types.Node, parentCounts map[int64]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return err
	}
	if depth < 0 {
		return types.ErrInvalidDepth
	}
	for _, n := range nodes {
		if n.Depth != depth {
			return fmt.Errorf("%w: node %d has depth %d, level is %d",
				types.ErrInvalidDepth, n.NodeID, n.Depth, depth)
		}
		if err := n.Validate(); err != nil {
			return fmt.Errorf("node %d: %w", n.NodeID, err)
		}
	}

	return s.withRetry(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		var generated int
		err = tx.QueryRow("SELECT generated_depth FROM runs WHERE run_id = ?", runID).Scan(&generated)
		if err == sql.ErrNoRows {
			return types.ErrNoRun
		}
		if err != nil {
			return fmt.Errorf("loading run %s: %w", runID, err)
		}
		if depth > generated+1 {
			return fmt.Errorf("%w: committing depth %d with generated depth %d",
				types.ErrInvalidDepth, depth, generated)
		}

		// Discard the partial level from an interrupted run, never merge.
		if _, err := tx.Exec(
			"DELETE FROM nodes WHERE run_id = ? AND depth = ?", runID, depth,
		); err != nil {
			return fmt.Errorf("discarding partial level %d: %w", depth, err)
		}

		insert, err := tx.Prepare(
			`INSERT INTO nodes (node_id, run_id, parent_id, depth, position, move,
			                    terminal_state, child_count, safe_move_count, resolved, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer insert.Close()

		for _, n := range nodes {
			parentID := sql.NullInt64{Int64: n.ParentID, Valid: n.ParentID != 0}
			move := sql.NullString{String: n.Move, Valid: n.Move != ""}
			if _, err := insert.Exec(
				n.NodeID, runID, parentID, n.Depth, n.Position, move,
				n.TerminalState, n.ChildCount, n.SafeMoveCount, n.Resolved, n.Status,
			); err != nil {
				return fmt.Errorf("inserting node %d: %w", n.NodeID, err)
			}
		}

		for parentID, count := range parentCounts {
			if _, err := tx.Exec(
				"UPDATE nodes SET child_count = ?, safe_move_count = ? WHERE node_id = ? AND run_id = ?",
				count, count, parentID, runID,
			); err != nil {
				return fmt.Errorf("recording child count for node %d: %w", parentID, err)
			}
		}

		if _, err := tx.Exec(
			"UPDATE runs SET generated_depth = ?, updated_at = ? WHERE run_id = ?",
			depth, time.Now().UTC().Format(timeFormat), runID,
		); err != nil {
			return fmt.Errorf("advancing generation checkpoint: %w", err)
		}

		return tx.Commit()
	})
}

// IterLevel streams the nodes at one depth in ascending id order. The
// callback must not invoke other store operations; collect mutations and
// apply them as a batch afterwards.
func (s *Store) IterLevel(runID string, depth int, fn func(*types.Node) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkAttached(); err != nil {
		return err
	}

	rows, err := s.db.Query(
		`SELECT node_id, parent_id, depth, position, move,
		        terminal_state, child_count, safe_move_count, resolved, status
		 FROM nodes WHERE run_id = ? AND depth = ? ORDER BY node_id ASC`,
		runID, depth,
	)
	if err != nil {
		return fmt.Errorf("querying level %d: %w", depth, err)
	}
	defer rows.Close()

	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return fmt.Errorf("scanning level %d: %w", depth, err)
		}
		if err := fn(node); err != nil {
			return err
		}
	}
	return rows.Err()
}

// scanNode hydrates one nodes row.
func scanNode(rows *sql.Rows) (*types.Node, error) {
	var n types.Node
	var parentID sql.NullInt64
	var move sql.NullString
	err := rows.Scan(&n.NodeID, &parentID, &n.Depth, &n.Position, &move,
		&n.TerminalState, &n.ChildCount, &n.SafeMoveCount, &n.Resolved, &n.Status)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		n.ParentID = parentID.Int64
	}
	if move.Valid {
		n.Move = move.String
	}
	return &n, nil
}

// LevelWidth returns the number of nodes stored at a depth.
func (s *Store) LevelWidth(runID string, depth int) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkAttached(); err != nil {
		return 0, err
	}

	var width int64
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM nodes WHERE run_id = ? AND depth = ?", runID, depth,
	).Scan(&width)
	if err != nil {
		return 0, fmt.Errorf("counting level %d: %w", depth, err)
	}
	return width, nil
}

// ChildCountSum returns the sum of child counts recorded at a depth.
// Together with LevelWidth of the next depth it backs the integrity
// check of the retrograde pass.
func (s *Store) ChildCountSum(runID string, depth int) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkAttached(); err != nil {
		return 0, err
	}

	var sum int64
	err := s.db.QueryRow(
		"SELECT COALESCE(SUM(child_count), 0) FROM nodes WHERE run_id = ? AND depth = ?",
		runID, depth,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("summing child counts at depth %d: %w", depth, err)
	}
	return sum, nil
}

// TrappedChildCounts returns, per parent id, how many children at the
// given depth are checkmate or dead-end. The map size is bounded by the
// width of the parent level.
func (s *Store) TrappedChildCounts(runID string, depth int) (map[int64]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkAttached(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT parent_id, COUNT(*) FROM nodes
		 WHERE run_id = ? AND depth = ? AND status IN (?, ?) AND parent_id IS NOT NULL
		 GROUP BY parent_id`,
		runID, depth, types.StatusCheckmate, types.StatusDeadEnd,
	)
	if err != nil {
		return nil, fmt.Errorf("counting trapped children at depth %d: %w", depth, err)
	}
	defer rows.Close()

	counts := make(map[int64]int64)
	for rows.Next() {
		var parentID, count int64
		if err := rows.Scan(&parentID, &count); err != nil {
			return nil, fmt.Errorf("scanning trapped counts: %w", err)
		}
		counts[parentID] = count
	}
	return counts, rows.Err()
}

// ApplyResolutions applies one level's counter/status mutations and
// advances the retrograde checkpoint to depth, atomically. Resolutions
// carry absolute values, so re-running a level after a crash converges to
// the same rows.
func (s *Store) ApplyResolutions(runID string, depth int, resolutions []types.Resolution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return err
	}

	return s.withRetry(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		update, err := tx.Prepare(
			`UPDATE nodes SET safe_move_count = ?, status = ?, resolved = ?
			 WHERE node_id = ? AND run_id = ?`,
		)
		if err != nil {
			return fmt.Errorf("preparing update: %w", err)
		}
		defer update.Close()

		for _, r := range resolutions {
			if _, err := update.Exec(r.SafeMoveCount, r.Status, r.Resolved, r.NodeID, runID); err != nil {
				return fmt.Errorf("resolving node %d: %w", r.NodeID, err)
			}
		}

		if _, err := tx.Exec(
			"UPDATE runs SET retro_depth = ?, updated_at = ? WHERE run_id = ?",
			depth, time.Now().UTC().Format(timeFormat), runID,
		); err != nil {
			return fmt.Errorf("advancing retrograde checkpoint: %w", err)
		}

		return tx.Commit()
	})
}

// NextNodeID returns the next unassigned node id for the run.
func (s *Store) NextNodeID(runID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkAttached(); err != nil {
		return 0, err
	}

	var maxID int64
	err := s.db.QueryRow(
		"SELECT COALESCE(MAX(node_id), 0) FROM nodes WHERE run_id = ?", runID,
	).Scan(&maxID)
	if err != nil {
		return 0, fmt.Errorf("finding max node id: %w", err)
	}
	return maxID + 1, nil
}
