// Read-side aggregation queries backing the ratio aggregator. These are
// pure reads; they are safe to run at any point of a run, including while
// generation or resolution is still in progress.
package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/barricade/pkg/types"
)

// DepthSummaries aggregates node, terminal, dead-end, and safe move
// counts per depth, in ascending depth order.
func (s *Store) DepthSummaries(runID string) ([]types.DepthSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkAttached(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT depth,
		        COUNT(*),
		        SUM(CASE WHEN terminal_state = ? THEN 1 ELSE 0 END),
		        SUM(CASE WHEN terminal_state = ? THEN 1 ELSE 0 END),
		        SUM(CASE WHEN status = ? THEN 1 ELSE 0 END),
		        SUM(CASE WHEN terminal_state = ? AND status = ? THEN safe_move_count ELSE 0 END)
		 FROM nodes WHERE run_id = ?
		 GROUP BY depth ORDER BY depth ASC`,
		types.TerminalCheckmate, types.TerminalStalemate,
		types.StatusDeadEnd,
		types.TerminalOngoing, types.StatusSafe,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregating depth summaries: %w", err)
	}
	defer rows.Close()

	var summaries []types.DepthSummary
	for rows.Next() {
		var d types.DepthSummary
		if err := rows.Scan(&d.Depth, &d.Nodes, &d.Checkmates, &d.Stalemates,
			&d.DeadEnds, &d.SafeMoves); err != nil {
			return nil, fmt.Errorf("scanning depth summary: %w", err)
		}
		if v, ok := d.Ratio().Value(); ok {
			d.RatioValue = &v
		}
		summaries = append(summaries, d)
	}
	return summaries, rows.Err()
}

// ScopeRatio aggregates the refined-ratio counts over one depth, or over
// the whole tree when depth is DepthNone. Safe moves are summed over
// ongoing nodes that have not been resolved into the barrier.
func (s *Store) ScopeRatio(runID string, depth int) (types.Ratio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ratio types.Ratio
	if err := s.checkAttached(); err != nil {
		return ratio, err
	}

	query := `SELECT
	        COALESCE(SUM(CASE WHEN terminal_state = ? AND status = ? THEN safe_move_count ELSE 0 END), 0),
	        COALESCE(SUM(CASE WHEN terminal_state = ? THEN 1 ELSE 0 END), 0),
	        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
	 FROM nodes WHERE run_id = ?`
	args := []any{
		types.TerminalOngoing, types.StatusSafe,
		types.TerminalCheckmate,
		types.StatusDeadEnd,
		runID,
	}
	if depth != types.DepthNone {
		query += " AND depth = ?"
		args = append(args, depth)
	}

	err := s.db.QueryRow(query, args...).Scan(&ratio.SafeMoves, &ratio.Checkmates, &ratio.DeadEnds)
	if err != nil {
		return ratio, fmt.Errorf("aggregating ratio: %w", err)
	}
	return ratio, nil
}

// TotalNodes returns the number of nodes stored for the run.
func (s *Store) TotalNodes(runID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkAttached(); err != nil {
		return 0, err
	}

	var total int64
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM nodes WHERE run_id = ?", runID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("counting nodes: %w", err)
	}
	return total, nil
}
