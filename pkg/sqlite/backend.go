// Package sqlite provides the public API for the SQLite tree store.
// It exposes the factory function while keeping the implementation
// internal.
//
// Example:
//
//	store := sqlite.NewStore()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".barricade-db",
//	})
//	defer store.Detach()
package sqlite

import (
	"github.com/mesh-intelligence/barricade/internal/sqlite"
	"github.com/mesh-intelligence/barricade/pkg/types"
)

// NewStore creates a new SQLite tree store instance. The store is not
// attached; call Attach with a Config to initialize.
func NewStore() types.TreeStore {
	return sqlite.NewStore()
}
