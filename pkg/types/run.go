package types

import "time"

// Sentinel values for the run checkpoint fields.
const (
	// DepthNone marks a checkpoint field that has not advanced yet:
	// GeneratedDepth before the root is committed, RetroDepth before
	// the backward pass starts.
	DepthNone = -1
)

// Run is the checkpoint record for one analysis session. It is created
// when generation starts, updated after each fully committed level, and
// removed only by an explicit reset.
type Run struct {
	RunID     string    `json:"run_id"`     // UUID v7, generated on creation.
	RootFEN   string    `json:"root_fen"`   // Root position of the tree.
	MaxDepth  int       `json:"max_depth"`  // Target generation depth.
	CreatedAt time.Time `json:"created_at"` // Timestamp of creation.
	UpdatedAt time.Time `json:"updated_at"` // Timestamp of last checkpoint advance.

	// GeneratedDepth is the highest depth for which the whole level is
	// committed to the tree store. DepthNone until the root is stored.
	GeneratedDepth int `json:"generated_depth"`

	// RetroDepth is the lowest depth the retrograde pass has fully
	// resolved. DepthNone until the pass starts; 0 when the pass has
	// reached the root.
	RetroDepth int `json:"retro_depth"`
}

// GenerationComplete reports whether every level up to MaxDepth is committed.
func (r *Run) GenerationComplete() bool {
	return r.GeneratedDepth >= r.MaxDepth
}

// RetroStarted reports whether the retrograde pass has committed at
// least one level.
func (r *Run) RetroStarted() bool {
	return r.RetroDepth != DepthNone
}

// RetroComplete reports whether the retrograde pass has resolved down to
// the root.
func (r *Run) RetroComplete() bool {
	return r.RetroDepth == 0
}

// Validate checks that the run record is well-formed.
func (r *Run) Validate() error {
	if r.RunID == "" {
		return ErrInvalidID
	}
	if r.RootFEN == "" {
		return ErrInvalidPosition
	}
	if r.MaxDepth < 0 {
		return ErrInvalidDepth
	}
	if r.GeneratedDepth < DepthNone || r.GeneratedDepth > r.MaxDepth {
		return ErrInvalidDepth
	}
	if r.RetroDepth < DepthNone {
		return ErrInvalidDepth
	}
	return nil
}
