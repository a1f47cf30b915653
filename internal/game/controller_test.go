package game

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridrush/ultimate-tictactoe/internal/apperror"
	"github.com/gridrush/ultimate-tictactoe/internal/entity"
	"github.com/gridrush/ultimate-tictactoe/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestController_LocalMulti(t *testing.T) {
	t.Run("Alternates marks and derives the constraint", func(t *testing.T) {
		// Given: a local two-player game
		controller := New(testLogger(), ModeLocalMulti, nil, 0, nil)

		// When: X opens at sub-board 4, cell 7
		snap, err := controller.MakeMove(4, 7)
		require.NoError(t, err)

		// Then: O is on the move, constrained to sub-board 7
		require.Equal(t, entity.PlayerX, snap.Board[4][7])
		require.Equal(t, entity.PlayerO, snap.Turn.Active)
		require.Equal(t, 7, snap.Turn.SubGrid)

		// When: O answers inside sub-board 7
		snap, err = controller.MakeMove(7, 0)
		require.NoError(t, err)

		// Then: the turn is back with X, constrained to sub-board 0
		require.Equal(t, entity.PlayerO, snap.Board[7][0])
		require.Equal(t, entity.PlayerX, snap.Turn.Active)
		require.Equal(t, 0, snap.Turn.SubGrid)
	})

	t.Run("Rejects a move outside the constraint", func(t *testing.T) {
		controller := New(testLogger(), ModeLocalMulti, nil, 0, nil)

		_, err := controller.MakeMove(4, 7)
		require.NoError(t, err)

		// When: O ignores the constraint
		_, err = controller.MakeMove(2, 2)

		// Then: the move is rejected and the board is unchanged
		require.ErrorIs(t, err, apperror.ErrWrongSubBoard)
		require.Equal(t, entity.EmptyCell, controller.Snapshot().Board[2][2])
	})
}

func TestController_VsCPU(t *testing.T) {
	t.Run("Bot answers after the think delay", func(t *testing.T) {
		// Given: a vs-CPU game with a short think delay
		botMoves := make(chan Snapshot, 1)
		controller := New(testLogger(), ModeVsCPU, service.NewBotService(), time.Millisecond, func(snap Snapshot) {
			botMoves <- snap
		})

		// When: the human plays X
		snap, err := controller.MakeMove(4, 4)
		require.NoError(t, err)
		require.Equal(t, entity.PlayerO, snap.Turn.Active)

		// Then: the bot replies with a legal O move in sub-board 4
		select {
		case snap = <-botMoves:
		case <-time.After(2 * time.Second):
			t.Fatal("bot never moved")
		}

		require.Equal(t, entity.PlayerX, snap.Turn.Active)

		var botCells int
		for _, cell := range snap.Board[4] {
			if cell == entity.PlayerO {
				botCells++
			}
		}
		require.Equal(t, 1, botCells)
	})

	t.Run("Rejects human input while the bot holds the turn", func(t *testing.T) {
		// Given: the bot is thinking
		controller := New(testLogger(), ModeVsCPU, service.NewBotService(), time.Second, nil)

		_, err := controller.MakeMove(4, 4)
		require.NoError(t, err)

		// When: the human tries to move again immediately
		_, err = controller.MakeMove(4, 5)

		// Then: the move is rejected
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Reset drops a pending bot move", func(t *testing.T) {
		// Given: a bot move scheduled behind a long delay
		botMoves := make(chan Snapshot, 1)
		controller := New(testLogger(), ModeVsCPU, service.NewBotService(), 50*time.Millisecond, func(snap Snapshot) {
			botMoves <- snap
		})

		_, err := controller.MakeMove(4, 4)
		require.NoError(t, err)

		// When: the game resets before the bot wakes up
		controller.Reset()

		// Then: the stale bot move never lands
		select {
		case <-botMoves:
			t.Fatal("stale bot move was applied after reset")
		case <-time.After(200 * time.Millisecond):
		}

		assert.Equal(t, *entity.NewBoard(), controller.Snapshot().Board)
	})
}
