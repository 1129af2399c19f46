package types

import "errors"

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrWorkersInvalid = errors.New("workers must not be negative")
)

// Entity validation errors.
var (
	ErrInvalidID            = errors.New("invalid id")
	ErrInvalidParent        = errors.New("invalid parent reference")
	ErrInvalidDepth         = errors.New("invalid depth")
	ErrInvalidPosition      = errors.New("invalid position")
	ErrInvalidTerminalState = errors.New("invalid terminal state")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrCounterRange         = errors.New("safe move count out of range")
)

// Store and pipeline errors.
var (
	// ErrNotAttached is returned by store operations before Attach or
	// after Detach.
	ErrNotAttached = errors.New("store not attached")

	// ErrAlreadyAttached is returned by Attach on an attached store.
	ErrAlreadyAttached = errors.New("store already attached")

	// ErrRunExists is returned when starting a fresh run while a
	// previous run is still stored; reset first or resume.
	ErrRunExists = errors.New("a run already exists; reset or resume")

	// ErrNoRun is returned when no run record is stored.
	ErrNoRun = errors.New("no run found")

	// ErrRunMismatch is returned when a resume request does not match
	// the stored run.
	ErrRunMismatch = errors.New("request does not match the stored run")

	// ErrIntegrity marks a fatal data-integrity fault: stored child
	// rows disagree with a parent's recorded child count. The tree was
	// built incorrectly and the pass must not continue.
	ErrIntegrity = errors.New("tree integrity violation")

	// ErrStorage marks an unrecoverable storage fault: the database
	// could not be opened or a write kept failing after retries.
	ErrStorage = errors.New("storage failure")
)
