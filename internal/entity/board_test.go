package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridrush/ultimate-tictactoe/internal/apperror"
)

// drawnSubBoard has every cell taken and no completed line.
var drawnSubBoard = SubBoard{PlayerX, PlayerX, PlayerO, PlayerO, PlayerO, PlayerX, PlayerX, PlayerO, PlayerX}

func TestSubBoard_Winner(t *testing.T) {
	t.Run("Row win", func(t *testing.T) {
		// Given: sub-board 0 cells [X,X,_, O,O,_, _,_,_]
		sub := SubBoard{PlayerX, PlayerX, "", PlayerO, PlayerO, "", "", "", ""}

		// When: X plays cell 2
		sub[2] = PlayerX

		// Then: the sub-board is won by X immediately
		require.Equal(t, PlayerX, sub.Winner())
	})

	t.Run("Column win", func(t *testing.T) {
		sub := SubBoard{PlayerO, PlayerX, "", PlayerO, PlayerX, "", PlayerO, "", ""}

		require.Equal(t, PlayerO, sub.Winner())
	})

	t.Run("Diagonal win", func(t *testing.T) {
		sub := SubBoard{PlayerX, PlayerO, "", PlayerO, PlayerX, "", "", "", PlayerX}

		require.Equal(t, PlayerX, sub.Winner())
	})

	t.Run("Ongoing", func(t *testing.T) {
		sub := SubBoard{PlayerX, PlayerO, PlayerX, "", PlayerO, "", PlayerX, "", ""}

		require.Equal(t, EmptyCell, sub.Winner())
	})

	t.Run("Draw", func(t *testing.T) {
		require.Equal(t, PlayerTie, drawnSubBoard.Winner())
	})
}

func TestBoard_ApplyMove(t *testing.T) {
	t.Run("Sets an empty cell", func(t *testing.T) {
		// Given: an empty board
		board := NewBoard()

		// When: X plays sub-board 4, cell 4
		err := board.ApplyMove(4, 4, PlayerX)

		// Then: the cell holds X and everything else is untouched
		require.NoError(t, err)
		require.Equal(t, PlayerX, board[4][4])
		require.Equal(t, EmptyCell, board[4][3])
	})

	t.Run("Error on occupied cell", func(t *testing.T) {
		// Given: a board where (4,4) is already taken
		board := NewBoard()
		require.NoError(t, board.ApplyMove(4, 4, PlayerX))

		// When: O tries to overwrite the same cell
		err := board.ApplyMove(4, 4, PlayerO)

		// Then: the overwrite is rejected and the cell keeps its value
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		require.Equal(t, PlayerX, board[4][4])
	})

	t.Run("Error on invalid indices", func(t *testing.T) {
		board := NewBoard()

		assert.ErrorIs(t, board.ApplyMove(9, 0, PlayerX), ErrInvalidSubGrid)
		assert.ErrorIs(t, board.ApplyMove(-1, 0, PlayerX), ErrInvalidSubGrid)
		assert.ErrorIs(t, board.ApplyMove(0, 9, PlayerX), ErrInvalidCell)
		assert.ErrorIs(t, board.ApplyMove(0, -1, PlayerX), ErrInvalidCell)
	})
}

func TestBoard_MetaWinner(t *testing.T) {
	t.Run("No winner on empty board", func(t *testing.T) {
		board := NewBoard()

		require.Equal(t, EmptyCell, board.MetaWinner())
	})

	t.Run("Meta row of won sub-boards", func(t *testing.T) {
		// Given: X owns sub-boards 0, 1, 2
		board := NewBoard()
		winRow := SubBoard{PlayerX, PlayerX, PlayerX, "", "", "", "", "", ""}
		board[0], board[1], board[2] = winRow, winRow, winRow

		// Then: the meta-board is won by X
		require.Equal(t, PlayerX, board.MetaWinner())
	})

	t.Run("Drawn sub-board contributes to neither meta-line", func(t *testing.T) {
		// Given: X owns 0 and 2, but sub-board 1 is a draw
		board := NewBoard()
		winRow := SubBoard{PlayerX, PlayerX, PlayerX, "", "", "", "", "", ""}
		board[0], board[2] = winRow, winRow
		board[1] = drawnSubBoard

		// Then: no meta winner
		require.Equal(t, EmptyCell, board.MetaWinner())
	})

	t.Run("Draw when all sub-boards are decided with no meta-line", func(t *testing.T) {
		// Given: all 9 sub-boards end in a draw
		board := NewBoard()
		for i := range board {
			board[i] = drawnSubBoard
		}

		// Then: the game is a draw
		require.Equal(t, PlayerTie, board.MetaWinner())
	})

	t.Run("Monotonic once decided", func(t *testing.T) {
		// Given: a meta win for X
		board := NewBoard()
		winRow := SubBoard{PlayerX, PlayerX, PlayerX, "", "", "", "", "", ""}
		board[0], board[1], board[2] = winRow, winRow, winRow
		require.Equal(t, PlayerX, board.MetaWinner())

		// When: unrelated cells keep filling up
		board[8][0] = PlayerO
		board[7][3] = PlayerO

		// Then: the winner never flips
		require.Equal(t, PlayerX, board.MetaWinner())
	})
}

func TestBoard_SubBoardOpen(t *testing.T) {
	board := NewBoard()

	// Given: sub-board 3 is won, sub-board 5 is drawn
	board[3] = SubBoard{PlayerO, PlayerO, PlayerO, "", "", "", "", "", ""}
	board[5] = drawnSubBoard

	// Then: both are closed, the rest are open
	assert.False(t, board.SubBoardOpen(3))
	assert.False(t, board.SubBoardOpen(5))
	assert.True(t, board.SubBoardOpen(0))
}

func TestBoard_Reset(t *testing.T) {
	// Given: a board with some moves
	board := NewBoard()
	require.NoError(t, board.ApplyMove(4, 4, PlayerX))
	require.NoError(t, board.ApplyMove(4, 5, PlayerO))

	// When: the board is reset
	board.Reset()

	// Then: every cell is empty again
	require.Equal(t, NewBoard(), board)
}

func TestBoard_ReplayDeterminism(t *testing.T) {
	// Given: a fixed sequence of legal moves
	type move struct {
		subGrid, cell int
		symbol        string
	}
	moves := []move{
		{4, 4, PlayerX}, {4, 0, PlayerO}, {0, 4, PlayerX},
		{4, 8, PlayerO}, {8, 2, PlayerX}, {2, 6, PlayerO},
	}

	// When: the sequence is replayed twice from an empty board
	first := NewBoard()
	second := NewBoard()
	for _, m := range moves {
		require.NoError(t, first.ApplyMove(m.subGrid, m.cell, m.symbol))
		require.NoError(t, second.ApplyMove(m.subGrid, m.cell, m.symbol))
	}

	// Then: both replays produce the same board
	require.Equal(t, first, second)
}
