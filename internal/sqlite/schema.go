package sqlite

// Schema DDL. Nodes carry both the generation-time fields (position,
// move, terminal_state, child_count) and the mutable resolution fields
// (safe_move_count, resolved, status). The runs table is the checkpoint.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    root_fen TEXT NOT NULL,
    max_depth INTEGER NOT NULL,
    generated_depth INTEGER NOT NULL DEFAULT -1,
    retro_depth INTEGER NOT NULL DEFAULT -1,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS nodes (
    node_id INTEGER PRIMARY KEY,
    run_id TEXT NOT NULL,
    parent_id INTEGER,
    depth INTEGER NOT NULL,
    position TEXT NOT NULL,
    move TEXT,
    terminal_state TEXT NOT NULL,
    child_count INTEGER NOT NULL DEFAULT 0,
    safe_move_count INTEGER NOT NULL DEFAULT 0,
    resolved INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_nodes_run_depth ON nodes(run_id, depth);
CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id);
CREATE INDEX IF NOT EXISTS idx_nodes_run_depth_status ON nodes(run_id, depth, status);
`
