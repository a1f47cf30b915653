package entity

import (
	"errors"
	"fmt"

	"github.com/gridrush/ultimate-tictactoe/internal/apperror"
)

const (
	PlayerX = "X"
	PlayerO = "O"

	// PlayerTie marks a drawn grid. A drawn sub-board contributes to
	// neither player's meta-line.
	PlayerTie = "-"

	EmptyCell = ""
)

var (
	ErrInvalidCell    = errors.New("invalid cell index")
	ErrInvalidSubGrid = errors.New("invalid sub-grid index")

	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// SubBoard is one inner 3x3 grid, row-major.
type SubBoard [9]string

// Board is the 3x3 meta-board of sub-boards, row-major, so index i of the
// outer array matches meta-board position i.
type Board [9]SubBoard

func NewBoard() *Board {
	return &Board{}
}

// Winner reports the decided outcome of the grid: PlayerX or PlayerO on a
// completed line, PlayerTie when all nine positions are taken with no line,
// or EmptyCell while the grid is still open.
func (that *SubBoard) Winner() string {
	return scanGrid(*that)
}

func (that *SubBoard) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}
	return true
}

// ApplyMove sets a single cell. It only guards indices and overwrites; the
// full legality gate lives in the rules package.
func (that *Board) ApplyMove(subGrid, cell int, symbol string) error {
	if subGrid < 0 || subGrid >= len(that) {
		return fmt.Errorf("%w: sub-grid %d", ErrInvalidSubGrid, subGrid)
	}

	if cell < 0 || cell >= len(that[subGrid]) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if that[subGrid][cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that[subGrid][cell] = symbol

	return nil
}

func (that *Board) SubBoardWinner(subGrid int) string {
	return that[subGrid].Winner()
}

// SubBoardOpen reports whether a sub-board can still accept moves.
func (that *Board) SubBoardOpen(subGrid int) bool {
	return that[subGrid].Winner() == EmptyCell
}

// MetaWinner derives the game outcome from the nine sub-board winners:
// PlayerX or PlayerO on a completed meta-line, PlayerTie when every
// sub-board is decided or full with no meta-line, EmptyCell otherwise.
// Winners are always recomputed from raw cells, never trusted from a
// stored summary.
func (that *Board) MetaWinner() string {
	var winners [9]string
	for i := range that {
		winners[i] = that[i].Winner()
	}

	return scanGrid(winners)
}

func (that *Board) Reset() {
	*that = Board{}
}

// scanGrid applies the shared win-detection scan to nine positions: rows,
// then columns, then diagonals, first match wins. It serves both levels;
// at the meta level a drawn sub-board (PlayerTie) matches nothing.
func scanGrid(grid [9]string) string {
	for _, combo := range WinCombos {
		a, b, c := grid[combo[0]], grid[combo[1]], grid[combo[2]]
		if a != EmptyCell && a != PlayerTie && a == b && b == c {
			return a
		}
	}

	for _, pos := range grid {
		if pos == EmptyCell {
			return EmptyCell
		}
	}

	return PlayerTie
}
