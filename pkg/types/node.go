package types

// Terminal states assigned at generation time from the rules oracle.
// A node's terminal state never changes after creation.
const (
	TerminalOngoing   = "ongoing"
	TerminalCheckmate = "checkmate"
	TerminalStalemate = "stalemate"
)

// validTerminalStates is the set of recognized terminal state values.
var validTerminalStates = map[string]bool{
	TerminalOngoing:   true,
	TerminalCheckmate: true,
	TerminalStalemate: true,
}

// Node statuses. Checkmate and stalemate are fixed at generation time;
// dead_end is derived by the retrograde pass when every move from an
// ongoing node leads into the barrier.
const (
	StatusSafe      = "safe"
	StatusCheckmate = "checkmate"
	StatusStalemate = "stalemate"
	StatusDeadEnd   = "dead_end"
)

// validStatuses is the set of recognized node status values.
var validStatuses = map[string]bool{
	StatusSafe:      true,
	StatusCheckmate: true,
	StatusStalemate: true,
	StatusDeadEnd:   true,
}

// Node is one vertex of the stored move tree. Nodes are rows in the tree
// store, addressed by id and indexed by depth and parent; the tree is
// never materialized as an in-memory object graph.
type Node struct {
	NodeID        int64  // Assigned on creation, ascending within a run.
	ParentID      int64  // Id of the parent node; 0 for the root.
	Depth         int    // parent.Depth + 1; the root has depth 0.
	Position      string // Full board state in FEN, enough to re-derive legal moves.
	Move          string // UCI move applied to the parent's position; empty for the root.
	TerminalState string // One of the Terminal* constants.
	ChildCount    int    // Legal moves enumerated when this node was expanded; 0 until then.
	SafeMoveCount int    // Moves not yet proven to enter the barrier; 0 <= SafeMoveCount <= ChildCount.
	Resolved      bool   // True once the node's classification is final.
	Status        string // One of the Status* constants.
}

// IsRoot reports whether the node is the tree root.
func (n *Node) IsRoot() bool {
	return n.ParentID == 0
}

// Terminal reports whether the node was classified as a true terminal
// (checkmate or stalemate) at generation time. An ongoing node with
// ChildCount 0 is an unexpanded frontier leaf, not a terminal.
func (n *Node) Terminal() bool {
	return n.TerminalState == TerminalCheckmate || n.TerminalState == TerminalStalemate
}

// Trapped reports whether the node is part of the barrier: a checkmate
// terminal or a derived dead end. Trapped children decrement their
// parent's safe move count; stalemates do not.
func (n *Node) Trapped() bool {
	return n.Status == StatusCheckmate || n.Status == StatusDeadEnd
}

// Validate checks structural invariants on the node row.
func (n *Node) Validate() error {
	if n.NodeID <= 0 {
		return ErrInvalidID
	}
	if n.Depth < 0 {
		return ErrInvalidDepth
	}
	if n.Depth == 0 && n.ParentID != 0 {
		return ErrInvalidParent
	}
	if n.Depth > 0 && n.ParentID == 0 {
		return ErrInvalidParent
	}
	if n.Position == "" {
		return ErrInvalidPosition
	}
	if !validTerminalStates[n.TerminalState] {
		return ErrInvalidTerminalState
	}
	if !validStatuses[n.Status] {
		return ErrInvalidStatus
	}
	if n.ChildCount < 0 || n.SafeMoveCount < 0 || n.SafeMoveCount > n.ChildCount {
		return ErrCounterRange
	}
	if n.Terminal() && n.ChildCount != 0 {
		return ErrCounterRange
	}
	return nil
}

// StatusForTerminal returns the generation-time status for a terminal
// state: checkmate and stalemate map to themselves, ongoing maps to safe.
func StatusForTerminal(terminal string) string {
	switch terminal {
	case TerminalCheckmate:
		return StatusCheckmate
	case TerminalStalemate:
		return StatusStalemate
	default:
		return StatusSafe
	}
}

// Resolution is one counter/status mutation produced by the retrograde
// pass. Values are absolute, never deltas, so re-applying a resolution
// after a crash is a no-op.
type Resolution struct {
	NodeID        int64
	SafeMoveCount int
	Status        string
	Resolved      bool
}
