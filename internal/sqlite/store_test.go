package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/barricade/pkg/types"
)

const testFEN = "8/8/8/8/8/8/8/K6k w - - 0 1"

func setupStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	require.NoError(t, s.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { s.Detach() })
	return s
}

// rootNode returns a valid depth-0 node.
func rootNode() *types.Node {
	return &types.Node{
		NodeID:        1,
		Depth:         0,
		Position:      testFEN,
		TerminalState: types.TerminalOngoing,
		Status:        types.StatusSafe,
	}
}

// childNode returns a valid ongoing child of parent at depth 1.
func childNode(id int64, parent int64, move string) *types.Node {
	return &types.Node{
		NodeID:        id,
		ParentID:      parent,
		Depth:         1,
		Position:      testFEN,
		Move:          move,
		TerminalState: types.TerminalOngoing,
		Status:        types.StatusSafe,
	}
}

func TestAttachDetach(t *testing.T) {
	s := NewStore()
	dir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	require.NoError(t, s.Attach(config))
	assert.ErrorIs(t, s.Attach(config), types.ErrAlreadyAttached)

	require.NoError(t, s.Detach())
	require.NoError(t, s.Detach(), "detach is idempotent")

	_, err := s.LoadRun()
	assert.ErrorIs(t, err, types.ErrNotAttached)
}

func TestAttachRejectsInvalidConfig(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.Attach(types.Config{}), types.ErrBackendEmpty)
	assert.ErrorIs(t, s.Attach(types.Config{Backend: "redis"}), types.ErrBackendUnknown)
}

func TestCreateAndLoadRun(t *testing.T) {
	s := setupStore(t)

	_, err := s.LoadRun()
	assert.ErrorIs(t, err, types.ErrNoRun)

	created, err := s.CreateRun(testFEN, 4)
	require.NoError(t, err)
	assert.NotEmpty(t, created.RunID)
	assert.Equal(t, types.DepthNone, created.GeneratedDepth)
	assert.Equal(t, types.DepthNone, created.RetroDepth)

	loaded, err := s.LoadRun()
	require.NoError(t, err)
	assert.Equal(t, created.RunID, loaded.RunID)
	assert.Equal(t, testFEN, loaded.RootFEN)
	assert.Equal(t, 4, loaded.MaxDepth)

	_, err = s.CreateRun(testFEN, 4)
	assert.ErrorIs(t, err, types.ErrRunExists, "store holds one run at a time")
}

func TestCreateRunValidation(t *testing.T) {
	s := setupStore(t)

	_, err := s.CreateRun("", 4)
	assert.ErrorIs(t, err, types.ErrInvalidPosition)

	_, err = s.CreateRun(testFEN, -1)
	assert.ErrorIs(t, err, types.ErrInvalidDepth)
}

func TestSetMaxDepth(t *testing.T) {
	s := setupStore(t)
	run, err := s.CreateRun(testFEN, 2)
	require.NoError(t, err)

	require.NoError(t, s.PutLevel(run.RunID, 0, []*types.Node{rootNode()}, nil))
	require.NoError(t, s.PutLevel(run.RunID, 1,
		[]*types.Node{childNode(2, 1, "a1a2")}, map[int64]int{1: 1}))

	require.NoError(t, s.SetMaxDepth(run.RunID, 5))
	loaded, err := s.LoadRun()
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.MaxDepth)

	assert.ErrorIs(t, s.SetMaxDepth(run.RunID, 0), types.ErrRunMismatch,
		"cannot lower the target below the generated depth")
	assert.ErrorIs(t, s.SetMaxDepth("nope", 5), types.ErrNoRun)
}

func TestPutLevelAdvancesCheckpoint(t *testing.T) {
	s := setupStore(t)
	run, err := s.CreateRun(testFEN, 3)
	require.NoError(t, err)

	require.NoError(t, s.PutLevel(run.RunID, 0, []*types.Node{rootNode()}, nil))

	loaded, err := s.LoadRun()
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.GeneratedDepth)

	children := []*types.Node{
		childNode(2, 1, "a1a2"),
		childNode(3, 1, "a1b1"),
	}
	require.NoError(t, s.PutLevel(run.RunID, 1, children, map[int64]int{1: 2}))

	loaded, err = s.LoadRun()
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.GeneratedDepth)

	// Parent counters were recorded in the same transaction.
	var root *types.Node
	require.NoError(t, s.IterLevel(run.RunID, 0, func(n *types.Node) error {
		root = n
		return nil
	}))
	require.NotNil(t, root)
	assert.Equal(t, 2, root.ChildCount)
	assert.Equal(t, 2, root.SafeMoveCount)
}

func TestPutLevelRejectsDepthGap(t *testing.T) {
	s := setupStore(t)
	run, err := s.CreateRun(testFEN, 3)
	require.NoError(t, err)

	require.NoError(t, s.PutLevel(run.RunID, 0, []*types.Node{rootNode()}, nil))

	gap := childNode(2, 1, "a1a2")
	gap.Depth = 2
	err = s.PutLevel(run.RunID, 2, []*types.Node{gap}, nil)
	assert.ErrorIs(t, err, types.ErrInvalidDepth)
}

func TestPutLevelReplacesPartialLevel(t *testing.T) {
	s := setupStore(t)
	run, err := s.CreateRun(testFEN, 3)
	require.NoError(t, err)

	require.NoError(t, s.PutLevel(run.RunID, 0, []*types.Node{rootNode()}, nil))
	require.NoError(t, s.PutLevel(run.RunID, 1,
		[]*types.Node{childNode(2, 1, "a1a2")}, map[int64]int{1: 1}))

	// Recommitting the same depth discards the earlier rows wholesale.
	replacement := []*types.Node{
		childNode(4, 1, "a1b1"),
		childNode(5, 1, "a1b2"),
	}
	require.NoError(t, s.PutLevel(run.RunID, 1, replacement, map[int64]int{1: 2}))

	width, err := s.LevelWidth(run.RunID, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, width)

	var ids []int64
	require.NoError(t, s.IterLevel(run.RunID, 1, func(n *types.Node) error {
		ids = append(ids, n.NodeID)
		return nil
	}))
	assert.Equal(t, []int64{4, 5}, ids, "levels stream in ascending id order")
}

func TestPutLevelValidatesNodes(t *testing.T) {
	s := setupStore(t)
	run, err := s.CreateRun(testFEN, 3)
	require.NoError(t, err)

	bad := rootNode()
	bad.Position = ""
	err = s.PutLevel(run.RunID, 0, []*types.Node{bad}, nil)
	assert.ErrorIs(t, err, types.ErrInvalidPosition)

	wrongDepth := rootNode()
	wrongDepth.Depth = 1
	wrongDepth.ParentID = 1
	err = s.PutLevel(run.RunID, 0, []*types.Node{wrongDepth}, nil)
	assert.ErrorIs(t, err, types.ErrInvalidDepth)
}

func TestTrappedChildCounts(t *testing.T) {
	s := setupStore(t)
	run, err := s.CreateRun(testFEN, 2)
	require.NoError(t, err)

	require.NoError(t, s.PutLevel(run.RunID, 0, []*types.Node{rootNode()}, nil))

	mate := childNode(2, 1, "a1a2")
	mate.TerminalState = types.TerminalCheckmate
	mate.Status = types.StatusCheckmate
	mate.Resolved = true
	stale := childNode(3, 1, "a1b1")
	stale.TerminalState = types.TerminalStalemate
	stale.Status = types.StatusStalemate
	stale.Resolved = true
	open := childNode(4, 1, "a1b2")

	require.NoError(t, s.PutLevel(run.RunID, 1,
		[]*types.Node{mate, stale, open}, map[int64]int{1: 3}))

	counts, err := s.TrappedChildCounts(run.RunID, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[1], "stalemates do not count against the parent")
}

func TestApplyResolutionsIsIdempotent(t *testing.T) {
	s := setupStore(t)
	run, err := s.CreateRun(testFEN, 1)
	require.NoError(t, err)

	root := rootNode()
	require.NoError(t, s.PutLevel(run.RunID, 0, []*types.Node{root}, nil))
	require.NoError(t, s.PutLevel(run.RunID, 1,
		[]*types.Node{childNode(2, 1, "a1a2")}, map[int64]int{1: 1}))

	resolutions := []types.Resolution{{
		NodeID:        1,
		SafeMoveCount: 0,
		Status:        types.StatusDeadEnd,
		Resolved:      true,
	}}

	for i := 0; i < 2; i++ {
		require.NoError(t, s.ApplyResolutions(run.RunID, 0, resolutions))

		var got *types.Node
		require.NoError(t, s.IterLevel(run.RunID, 0, func(n *types.Node) error {
			got = n
			return nil
		}))
		require.NotNil(t, got)
		assert.Equal(t, 0, got.SafeMoveCount)
		assert.Equal(t, types.StatusDeadEnd, got.Status)
		assert.True(t, got.Resolved)

		loaded, err := s.LoadRun()
		require.NoError(t, err)
		assert.Equal(t, 0, loaded.RetroDepth)
	}
}

func TestChildCountSum(t *testing.T) {
	s := setupStore(t)
	run, err := s.CreateRun(testFEN, 2)
	require.NoError(t, err)

	require.NoError(t, s.PutLevel(run.RunID, 0, []*types.Node{rootNode()}, nil))
	require.NoError(t, s.PutLevel(run.RunID, 1, []*types.Node{
		childNode(2, 1, "a1a2"),
		childNode(3, 1, "a1b1"),
	}, map[int64]int{1: 2}))

	sum, err := s.ChildCountSum(run.RunID, 0)
	require.NoError(t, err)
	width, err := s.LevelWidth(run.RunID, 1)
	require.NoError(t, err)
	assert.Equal(t, width, sum)
}

func TestNextNodeID(t *testing.T) {
	s := setupStore(t)
	run, err := s.CreateRun(testFEN, 2)
	require.NoError(t, err)

	next, err := s.NextNodeID(run.RunID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, next)

	require.NoError(t, s.PutLevel(run.RunID, 0, []*types.Node{rootNode()}, nil))
	require.NoError(t, s.PutLevel(run.RunID, 1,
		[]*types.Node{childNode(2, 1, "a1a2"), childNode(3, 1, "a1b1")},
		map[int64]int{1: 2}))

	next, err = s.NextNodeID(run.RunID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, next)
}

func TestScopeRatio(t *testing.T) {
	s := setupStore(t)
	run, err := s.CreateRun(testFEN, 1)
	require.NoError(t, err)

	root := rootNode()
	require.NoError(t, s.PutLevel(run.RunID, 0, []*types.Node{root}, nil))

	mate := childNode(2, 1, "a1a2")
	mate.TerminalState = types.TerminalCheckmate
	mate.Status = types.StatusCheckmate
	mate.Resolved = true
	open := childNode(3, 1, "a1b1")
	open2 := childNode(4, 1, "a1b2")

	require.NoError(t, s.PutLevel(run.RunID, 1,
		[]*types.Node{mate, open, open2}, map[int64]int{1: 3}))
	require.NoError(t, s.ApplyResolutions(run.RunID, 0, []types.Resolution{{
		NodeID:        1,
		SafeMoveCount: 2,
		Status:        types.StatusSafe,
		Resolved:      false,
	}}))

	overall, err := s.ScopeRatio(run.RunID, types.DepthNone)
	require.NoError(t, err)
	assert.EqualValues(t, 2, overall.SafeMoves)
	assert.EqualValues(t, 1, overall.Checkmates)
	assert.EqualValues(t, 0, overall.DeadEnds)

	atRoot, err := s.ScopeRatio(run.RunID, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atRoot.SafeMoves)
	assert.EqualValues(t, 0, atRoot.Checkmates)
}

func TestDepthSummaries(t *testing.T) {
	s := setupStore(t)
	run, err := s.CreateRun(testFEN, 1)
	require.NoError(t, err)

	require.NoError(t, s.PutLevel(run.RunID, 0, []*types.Node{rootNode()}, nil))

	mate := childNode(2, 1, "a1a2")
	mate.TerminalState = types.TerminalCheckmate
	mate.Status = types.StatusCheckmate
	mate.Resolved = true
	open := childNode(3, 1, "a1b1")
	require.NoError(t, s.PutLevel(run.RunID, 1,
		[]*types.Node{mate, open}, map[int64]int{1: 2}))

	summaries, err := s.DepthSummaries(run.RunID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, 0, summaries[0].Depth)
	assert.EqualValues(t, 1, summaries[0].Nodes)
	assert.Nil(t, summaries[0].RatioValue, "no barrier at the root level")

	assert.Equal(t, 1, summaries[1].Depth)
	assert.EqualValues(t, 2, summaries[1].Nodes)
	assert.EqualValues(t, 1, summaries[1].Checkmates)
	require.NotNil(t, summaries[1].RatioValue)
	assert.Equal(t, 0.0, *summaries[1].RatioValue)
}

func TestTotalNodes(t *testing.T) {
	s := setupStore(t)
	run, err := s.CreateRun(testFEN, 1)
	require.NoError(t, err)

	total, err := s.TotalNodes(run.RunID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	require.NoError(t, s.PutLevel(run.RunID, 0, []*types.Node{rootNode()}, nil))
	total, err = s.TotalNodes(run.RunID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestReset(t *testing.T) {
	s := setupStore(t)
	run, err := s.CreateRun(testFEN, 1)
	require.NoError(t, err)
	require.NoError(t, s.PutLevel(run.RunID, 0, []*types.Node{rootNode()}, nil))

	require.NoError(t, s.Reset())

	_, err = s.LoadRun()
	assert.ErrorIs(t, err, types.ErrNoRun)

	// A fresh run can be created after reset.
	_, err = s.CreateRun(testFEN, 2)
	require.NoError(t, err)
}

func TestReopenPreservesData(t *testing.T) {
	dir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	s := NewStore()
	require.NoError(t, s.Attach(config))
	run, err := s.CreateRun(testFEN, 3)
	require.NoError(t, err)
	require.NoError(t, s.PutLevel(run.RunID, 0, []*types.Node{rootNode()}, nil))
	require.NoError(t, s.Detach())

	reopened := NewStore()
	require.NoError(t, reopened.Attach(config))
	t.Cleanup(func() { reopened.Detach() })

	loaded, err := reopened.LoadRun()
	require.NoError(t, err)
	assert.Equal(t, run.RunID, loaded.RunID)
	assert.Equal(t, 0, loaded.GeneratedDepth)

	width, err := reopened.LevelWidth(loaded.RunID, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, width)
}
