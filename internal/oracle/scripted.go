package oracle

import (
	"fmt"

	"github.com/mesh-intelligence/barricade/pkg/types"
)

// Scripted is an Oracle backed by a hand-built tree instead of the rules
// of chess. Engine tests use it to pin down exact tree shapes; it also
// documents the oracle contract independently of any chess library.
type Scripted struct {
	children  map[string][]Child
	terminals map[string]string
}

// NewScripted returns an empty scripted oracle.
func NewScripted() *Scripted {
	return &Scripted{
		children:  make(map[string][]Child),
		terminals: make(map[string]string),
	}
}

// Expandable registers an ongoing position with its continuations.
// Child entries carry their own terminal states; a child that is itself
// expandable must be registered separately with its own continuations.
func (s *Scripted) Expandable(position string, children ...Child) *Scripted {
	s.children[position] = children
	s.terminals[position] = types.TerminalOngoing
	return s
}

// Terminal registers a terminal position.
func (s *Scripted) Terminal(position, terminal string) *Scripted {
	s.terminals[position] = terminal
	return s
}

// Classify returns the registered terminal state of a position.
func (s *Scripted) Classify(position string) (string, error) {
	terminal, ok := s.terminals[position]
	if !ok {
		return "", fmt.Errorf("%w: unscripted position %q", types.ErrInvalidPosition, position)
	}
	return terminal, nil
}

// Expand returns the registered continuations of a position.
func (s *Scripted) Expand(position string) ([]Child, error) {
	children, ok := s.children[position]
	if !ok {
		return nil, fmt.Errorf("%w: unscripted position %q", types.ErrInvalidPosition, position)
	}
	return children, nil
}
