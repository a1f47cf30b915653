package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridrush/ultimate-tictactoe/internal/entity"
	"github.com/gridrush/ultimate-tictactoe/internal/rules"
)

var drawnSubBoard = entity.SubBoard{
	entity.PlayerX, entity.PlayerX, entity.PlayerO,
	entity.PlayerO, entity.PlayerO, entity.PlayerX,
	entity.PlayerX, entity.PlayerO, entity.PlayerX,
}

func TestBotService_PickMove(t *testing.T) {
	bot := NewBotService()

	t.Run("Respects the sub-board constraint", func(t *testing.T) {
		// Given: the bot is constrained to sub-board 4 with one move played
		board := entity.NewBoard()
		require.NoError(t, board.ApplyMove(4, 4, entity.PlayerX))
		turn := rules.TurnState{Active: entity.PlayerO, SubGrid: 4}

		// When: the bot picks repeatedly
		for i := 0; i < 50; i++ {
			move, err := bot.PickMove(board, turn)

			// Then: every pick lands on an empty cell of sub-board 4
			require.NoError(t, err)
			require.Equal(t, 4, move.SubGrid)
			require.Equal(t, entity.EmptyCell, board[move.SubGrid][move.Cell])
		}
	})

	t.Run("Roams freely when the constraint target is closed", func(t *testing.T) {
		// Given: the constrained sub-board is drawn
		board := entity.NewBoard()
		board[4] = drawnSubBoard
		turn := rules.TurnState{Active: entity.PlayerO, SubGrid: 4}

		// When: the bot picks repeatedly
		for i := 0; i < 50; i++ {
			move, err := bot.PickMove(board, turn)

			// Then: it never picks the closed sub-board and the move is legal
			require.NoError(t, err)
			require.NotEqual(t, 4, move.SubGrid)
			require.NoError(t, rules.ValidateMove(board, turn, move.SubGrid, move.Cell, entity.PlayerO))
		}
	})

	t.Run("Skips won sub-boards under free choice", func(t *testing.T) {
		board := entity.NewBoard()
		board[0] = entity.SubBoard{entity.PlayerX, entity.PlayerX, entity.PlayerX, "", "", "", "", "", ""}
		turn := rules.TurnState{Active: entity.PlayerO, SubGrid: entity.AnySubGrid}

		for i := 0; i < 50; i++ {
			move, err := bot.PickMove(board, turn)

			require.NoError(t, err)
			require.NotEqual(t, 0, move.SubGrid)
		}
	})

	t.Run("Error when no legal moves remain", func(t *testing.T) {
		// Given: every sub-board is drawn
		board := entity.NewBoard()
		for i := range board {
			board[i] = drawnSubBoard
		}
		turn := rules.TurnState{Active: entity.PlayerO, SubGrid: entity.AnySubGrid}

		// When: the bot is asked to move anyway
		_, err := bot.PickMove(board, turn)

		// Then: the invariant breach is reported
		require.ErrorIs(t, err, ErrNoAvailableMoves)
	})
}
