package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/barricade/pkg/types"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"storage fault", fmt.Errorf("%w: attach: disk full", types.ErrStorage), exitSysError},
		{"integrity fault", fmt.Errorf("resolving: %w", types.ErrIntegrity), exitSysError},
		{"store not attached", types.ErrNotAttached, exitSysError},
		{"store already attached", types.ErrAlreadyAttached, exitSysError},
		{"existing run", types.ErrRunExists, exitUserError},
		{"no run stored", types.ErrNoRun, exitUserError},
		{"resume mismatch", fmt.Errorf("resume: %w", types.ErrRunMismatch), exitUserError},
		{"bad position", types.ErrInvalidPosition, exitUserError},
		{"flag misuse", errors.New("unknown flag: --bogus"), exitUserError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
