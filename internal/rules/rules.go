// Package rules holds the pure legality and outcome functions for Ultimate
// Tic-Tac-Toe. It is the single legality gate for every game mode: local,
// vs CPU, and online moves all pass through ValidateMove.
package rules

import (
	"fmt"

	"github.com/gridrush/ultimate-tictactoe/internal/apperror"
	"github.com/gridrush/ultimate-tictactoe/internal/entity"
)

// TurnState carries whose move it is and which sub-board the previous move
// constrained them to. SubGrid is entity.AnySubGrid when unconstrained.
type TurnState struct {
	Active  string
	SubGrid int
}

// NewTurnState is the fixed opening state: X moves first, anywhere.
func NewTurnState() TurnState {
	return TurnState{
		Active:  entity.PlayerX,
		SubGrid: entity.AnySubGrid,
	}
}

// ValidateMove checks a candidate move, in order: the game is not over, the
// mover holds the turn, the move respects the sub-board constraint, the
// target sub-board is still open, and the cell is empty. Each failing
// clause yields its own sentinel so callers can tell a stale view from a
// protocol violation. The board is never mutated.
func ValidateMove(board *entity.Board, turn TurnState, subGrid, cell int, mover string) error {
	if subGrid < 0 || subGrid >= 9 {
		return fmt.Errorf("%w: sub-grid %d", entity.ErrInvalidSubGrid, subGrid)
	}

	if cell < 0 || cell >= 9 {
		return fmt.Errorf("%w: cell %d", entity.ErrInvalidCell, cell)
	}

	if board.MetaWinner() != entity.EmptyCell {
		return apperror.ErrGameOver
	}

	if mover != turn.Active {
		return apperror.ErrNotYourTurn
	}

	// The constraint relaxes to any open sub-board once its target is
	// decided or full.
	if turn.SubGrid != entity.AnySubGrid && subGrid != turn.SubGrid && board.SubBoardOpen(turn.SubGrid) {
		return apperror.ErrWrongSubBoard
	}

	if !board.SubBoardOpen(subGrid) {
		return apperror.ErrSubBoardClosed
	}

	if board[subGrid][cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// NextTurn derives the turn state after a move has been applied: the other
// player moves, constrained to the sub-board matching the played cell
// unless that sub-board is already decided or full.
func NextTurn(board *entity.Board, turn TurnState, subGrid, cell int) TurnState {
	constrained := cell
	if !board.SubBoardOpen(cell) {
		constrained = entity.AnySubGrid
	}

	return TurnState{
		Active:  entity.ToggleMark(turn.Active),
		SubGrid: constrained,
	}
}

// Evaluate reports the game outcome: entity.PlayerX or entity.PlayerO on a
// won meta-line, entity.PlayerTie when every sub-board is decided or full
// with no meta-line, entity.EmptyCell while the game is in progress.
func Evaluate(board *entity.Board) string {
	return board.MetaWinner()
}
