package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validNode() Node {
	return Node{
		NodeID:        2,
		ParentID:      1,
		Depth:         1,
		Position:      "8/8/8/8/8/8/8/K6k w - - 0 1",
		Move:          "a1a2",
		TerminalState: TerminalOngoing,
		ChildCount:    3,
		SafeMoveCount: 3,
		Status:        StatusSafe,
	}
}

func TestNodeValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Node)
		wantErr error
	}{
		{"valid node", func(n *Node) {}, nil},
		{"zero id", func(n *Node) { n.NodeID = 0 }, ErrInvalidID},
		{"negative depth", func(n *Node) { n.Depth = -1 }, ErrInvalidDepth},
		{"root with parent", func(n *Node) { n.Depth = 0; n.ParentID = 7 }, ErrInvalidParent},
		{"non-root without parent", func(n *Node) { n.ParentID = 0 }, ErrInvalidParent},
		{"empty position", func(n *Node) { n.Position = "" }, ErrInvalidPosition},
		{"bogus terminal state", func(n *Node) { n.TerminalState = "resigned" }, ErrInvalidTerminalState},
		{"bogus status", func(n *Node) { n.Status = "winning" }, ErrInvalidStatus},
		{"safe count above child count", func(n *Node) { n.SafeMoveCount = 4 }, ErrCounterRange},
		{"negative safe count", func(n *Node) { n.SafeMoveCount = -1 }, ErrCounterRange},
		{
			"terminal with children",
			func(n *Node) {
				n.TerminalState = TerminalCheckmate
				n.Status = StatusCheckmate
				n.SafeMoveCount = 0
			},
			ErrCounterRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := validNode()
			tt.mutate(&n)
			err := n.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNodeClassifiers(t *testing.T) {
	root := Node{NodeID: 1, Depth: 0, TerminalState: TerminalOngoing, Status: StatusSafe}
	assert.True(t, root.IsRoot())
	assert.False(t, root.Terminal())
	assert.False(t, root.Trapped())

	mate := Node{NodeID: 2, ParentID: 1, Depth: 1, TerminalState: TerminalCheckmate, Status: StatusCheckmate}
	assert.True(t, mate.Terminal())
	assert.True(t, mate.Trapped())

	stale := Node{NodeID: 3, ParentID: 1, Depth: 1, TerminalState: TerminalStalemate, Status: StatusStalemate}
	assert.True(t, stale.Terminal())
	assert.False(t, stale.Trapped(), "stalemates are outside the barrier")

	dead := Node{NodeID: 4, ParentID: 1, Depth: 1, TerminalState: TerminalOngoing, Status: StatusDeadEnd}
	assert.False(t, dead.Terminal())
	assert.True(t, dead.Trapped())
}

func TestStatusForTerminal(t *testing.T) {
	assert.Equal(t, StatusCheckmate, StatusForTerminal(TerminalCheckmate))
	assert.Equal(t, StatusStalemate, StatusForTerminal(TerminalStalemate))
	assert.Equal(t, StatusSafe, StatusForTerminal(TerminalOngoing))
}
