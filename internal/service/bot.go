package service

import (
	"errors"
	"math/rand"

	"github.com/gridrush/ultimate-tictactoe/internal/entity"
	"github.com/gridrush/ultimate-tictactoe/internal/rules"
)

// ErrNoAvailableMoves signals an invariant breach: the bot should never be
// asked to move on a finished board.
var ErrNoAvailableMoves = errors.New("no available moves")

type Move struct {
	SubGrid int
	Cell    int
}

type BotService interface {
	PickMove(board *entity.Board, turn rules.TurnState) (Move, error)
}

type botService struct{}

func NewBotService() BotService {
	return &botService{}
}

// PickMove enumerates every cell legal under the current constraint and
// returns one drawn uniformly at random.
func (that *botService) PickMove(board *entity.Board, turn rules.TurnState) (Move, error) {
	constrained := turn.SubGrid != entity.AnySubGrid && board.SubBoardOpen(turn.SubGrid)

	available := make([]Move, 0, 81)
	for subGrid := range board {
		if !board.SubBoardOpen(subGrid) {
			continue
		}

		if constrained && subGrid != turn.SubGrid {
			continue
		}

		for cell, symbol := range board[subGrid] {
			if symbol == entity.EmptyCell {
				available = append(available, Move{SubGrid: subGrid, Cell: cell})
			}
		}
	}

	if len(available) == 0 {
		return Move{}, ErrNoAvailableMoves
	}

	return available[rand.Intn(len(available))], nil //nolint: gosec // it's ok
}
