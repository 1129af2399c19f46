// Run checkpoint persistence: create, load, and checkpoint advances.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/barricade/pkg/types"
)

// CreateRun records a new run checkpoint with a UUID v7 id. The store
// holds at most one run at a time; starting over requires Reset.
func (s *Store) CreateRun(rootFEN string, maxDepth int) (*types.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return nil, err
	}
	if rootFEN == "" {
		return nil, types.ErrInvalidPosition
	}
	if maxDepth < 0 {
		return nil, types.ErrInvalidDepth
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		return nil, fmt.Errorf("counting runs: %w", err)
	}
	if count > 0 {
		return nil, types.ErrRunExists
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating UUID v7: %w", err)
	}

	now := time.Now().UTC()
	run := &types.Run{
		RunID:          id.String(),
		RootFEN:        rootFEN,
		MaxDepth:       maxDepth,
		GeneratedDepth: types.DepthNone,
		RetroDepth:     types.DepthNone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.withRetry(func() error {
		_, err := s.db.Exec(
			`INSERT INTO runs (run_id, root_fen, max_depth, generated_depth, retro_depth, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.RootFEN, run.MaxDepth, run.GeneratedDepth, run.RetroDepth,
			now.Format(timeFormat), now.Format(timeFormat),
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("persisting run: %w", err)
	}

	return run, nil
}

// LoadRun returns the stored run checkpoint, or ErrNoRun.
func (s *Store) LoadRun() (*types.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkAttached(); err != nil {
		return nil, err
	}

	row := s.db.QueryRow(
		`SELECT run_id, root_fen, max_depth, generated_depth, retro_depth, created_at, updated_at
		 FROM runs ORDER BY created_at DESC LIMIT 1`,
	)

	var run types.Run
	var createdAt, updatedAt string
	err := row.Scan(&run.RunID, &run.RootFEN, &run.MaxDepth,
		&run.GeneratedDepth, &run.RetroDepth, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNoRun
	}
	if err != nil {
		return nil, fmt.Errorf("loading run: %w", err)
	}

	if run.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return nil, fmt.Errorf("parsing run created_at: %w", err)
	}
	if run.UpdatedAt, err = time.Parse(timeFormat, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing run updated_at: %w", err)
	}

	return &run, nil
}

// SetMaxDepth raises the run's generation target on resume. Lowering the
// target below the already-generated depth is rejected.
func (s *Store) SetMaxDepth(runID string, maxDepth int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return err
	}

	var generated int
	err := s.db.QueryRow("SELECT generated_depth FROM runs WHERE run_id = ?", runID).Scan(&generated)
	if err == sql.ErrNoRows {
		return types.ErrNoRun
	}
	if err != nil {
		return fmt.Errorf("loading run %s: %w", runID, err)
	}
	if maxDepth < generated {
		return types.ErrRunMismatch
	}

	return s.withRetry(func() error {
		_, err := s.db.Exec(
			"UPDATE runs SET max_depth = ?, updated_at = ? WHERE run_id = ?",
			maxDepth, time.Now().UTC().Format(timeFormat), runID,
		)
		return err
	})
}

// FinishGeneration advances the generation checkpoint to maxDepth without
// storing nodes. Used when the frontier empties before the depth bound:
// every deeper level is empty, so there is nothing left to commit.
func (s *Store) FinishGeneration(runID string, maxDepth int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return err
	}

	return s.withRetry(func() error {
		res, err := s.db.Exec(
			"UPDATE runs SET generated_depth = ?, updated_at = ? WHERE run_id = ?",
			maxDepth, time.Now().UTC().Format(timeFormat), runID,
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return types.ErrNoRun
		}
		return nil
	})
}
