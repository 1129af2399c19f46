package types

// TreeStore is the durable storage contract for the generated move tree
// and its run checkpoint. Any engine satisfying this contract can back
// the pipeline; the shipped implementation is SQLite.
//
// All iteration and mutation is streamed per depth level: implementations
// must keep the working set proportional to one level's width, never to
// the total tree size.
type TreeStore interface {
	// Attach opens the store described by the config. Detach releases
	// it; Detach is idempotent.
	Attach(config Config) error
	Detach() error

	// CreateRun records a new run checkpoint. Returns ErrRunExists if a
	// run is already stored.
	CreateRun(rootFEN string, maxDepth int) (*Run, error)

	// LoadRun returns the stored run checkpoint, or ErrNoRun.
	LoadRun() (*Run, error)

	// SetMaxDepth raises the run's generation target on resume.
	SetMaxDepth(runID string, maxDepth int) error

	// FinishGeneration advances the generation checkpoint to maxDepth
	// without storing nodes, used when the frontier empties early.
	FinishGeneration(runID string, maxDepth int) error

	// PutLevel atomically persists one whole depth level: any stale rows
	// at that depth are discarded, the nodes are inserted, the parents'
	// child and safe move counters are recorded, and the generation
	// checkpoint advances to depth. Either all of that is visible
	// afterward or none of it.
	PutLevel(runID string, depth int, nodes []*Node, parentCounts map[int64]int) error

	// IterLevel streams the nodes at one depth in ascending id order.
	// It is restartable: calling it again replays the level.
	IterLevel(runID string, depth int, fn func(*Node) error) error

	// LevelWidth returns the number of nodes stored at a depth.
	LevelWidth(runID string, depth int) (int64, error)

	// ChildCountSum returns the sum of child counts recorded at a depth.
	ChildCountSum(runID string, depth int) (int64, error)

	// TrappedChildCounts returns, per parent id, how many children at
	// the given depth are checkmate or dead-end.
	TrappedChildCounts(runID string, depth int) (map[int64]int64, error)

	// ApplyResolutions applies one level's counter/status mutations and
	// advances the retrograde checkpoint to depth, atomically. The
	// resolutions carry absolute values, so re-applying the same batch
	// after a crash is safe.
	ApplyResolutions(runID string, depth int, resolutions []Resolution) error

	// NextNodeID returns the next unassigned node id for the run.
	NextNodeID(runID string) (int64, error)

	// DepthSummaries aggregates node, terminal, dead-end, and safe move
	// counts per depth.
	DepthSummaries(runID string) ([]DepthSummary, error)

	// TotalNodes returns the number of nodes stored for the run.
	TotalNodes(runID string) (int64, error)

	// ScopeRatio aggregates the refined-ratio counts over one depth, or
	// over the whole tree when depth is DepthNone.
	ScopeRatio(runID string, depth int) (Ratio, error)

	// Reset removes all stored nodes and runs.
	Reset() error
}
