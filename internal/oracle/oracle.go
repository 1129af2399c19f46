// Package oracle provides the chess rules oracle: legal move
// enumeration, successor positions, and terminal classification for a
// FEN. The analysis pipeline only sees the Oracle interface; the Chess
// implementation delegates the rules of the game to dragontoothmg.
package oracle

import (
	"fmt"

	dragon "github.com/dylhunn/dragontoothmg"

	"github.com/mesh-intelligence/barricade/pkg/types"
)

// StartPosition is the standard chess starting position.
const StartPosition = dragon.Startpos

// Child is one legal continuation from a position: the move in UCI
// notation, the resulting position, and that position's terminal state.
type Child struct {
	Move     string
	Position string
	Terminal string
}

// Oracle enumerates legal continuations and classifies positions. It is
// pure and deterministic: the same position always yields the same
// children in the same order.
type Oracle interface {
	// Classify returns the terminal state of a position.
	Classify(position string) (string, error)

	// Expand returns every legal continuation from a position, each
	// already classified. Calling Expand on a terminal position is an
	// error.
	Expand(position string) ([]Child, error)
}

// Compile-time interface check.
var _ Oracle = (*Chess)(nil)

// Chess implements Oracle on dragontoothmg bitboard move generation.
type Chess struct{}

// New returns the chess rules oracle.
func New() *Chess {
	return &Chess{}
}

// Classify parses the position and returns its terminal state: ongoing
// while legal moves exist, checkmate when the side to move has no legal
// moves and its king is in check, stalemate otherwise.
func (c *Chess) Classify(position string) (string, error) {
	// dragon.ParseFen does not report parse errors; it returns only a Board.
	board := dragon.ParseFen(position)
	return classify(&board), nil
}

// Expand enumerates the legal moves of an ongoing position and returns
// each successor with its move and terminal state.
func (c *Chess) Expand(position string) ([]Child, error) {
	board := dragon.ParseFen(position)

	moves := board.GenerateLegalMoves()
	if len(moves) == 0 {
		return nil, fmt.Errorf("%w: expanding terminal position %q", types.ErrInvalidPosition, position)
	}

	children := make([]Child, 0, len(moves))
	for _, move := range moves {
		unapply := board.Apply(move)
		children = append(children, Child{
			Move:     move.String(),
			Position: board.ToFen(),
			Terminal: classify(&board),
		})
		unapply()
	}
	return children, nil
}

// classify inspects a parsed board for the side to move.
func classify(board *dragon.Board) string {
	if len(board.GenerateLegalMoves()) > 0 {
		return types.TerminalOngoing
	}
	if board.OurKingInCheck() {
		return types.TerminalCheckmate
	}
	return types.TerminalStalemate
}
