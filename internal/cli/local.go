package cli

import (
	"context"

	"github.com/pterm/pterm"

	"github.com/gridrush/ultimate-tictactoe/internal/entity"
	"github.com/gridrush/ultimate-tictactoe/internal/game"
	"github.com/gridrush/ultimate-tictactoe/internal/service"
)

func (that *Runner) runVsCPU(ctx context.Context) error {
	botMoves := make(chan game.Snapshot, 1)

	controller := game.New(that.logger, game.ModeVsCPU, service.NewBotService(), that.conf.BotThinkDelay, func(snap game.Snapshot) {
		botMoves <- snap
	})

	for {
		if ctx.Err() != nil {
			return nil
		}

		snap := controller.Snapshot()
		renderBoard(&snap.Board, snap.Turn.SubGrid)

		subGrid, cell, err := promptMove("Your move (X)")
		if err != nil {
			pterm.Warning.Printfln("%v", err)
			continue
		}

		snap, err = controller.MakeMove(subGrid, cell)
		if err != nil {
			pterm.Warning.Printfln("Illegal move: %v", err)
			continue
		}

		if snap.Outcome != entity.EmptyCell {
			renderBoard(&snap.Board, entity.AnySubGrid)
			pterm.Info.Println(outcomeMessage(snap.Outcome))
			return nil
		}

		// Wait for the CPU's reply.
		select {
		case snap = <-botMoves:
		case <-ctx.Done():
			return nil
		}

		if snap.Outcome != entity.EmptyCell {
			renderBoard(&snap.Board, entity.AnySubGrid)
			pterm.Info.Println(outcomeMessage(snap.Outcome))
			return nil
		}
	}
}

func (that *Runner) runLocalMulti(ctx context.Context) error {
	controller := game.New(that.logger, game.ModeLocalMulti, nil, 0, nil)

	for {
		if ctx.Err() != nil {
			return nil
		}

		snap := controller.Snapshot()
		renderBoard(&snap.Board, snap.Turn.SubGrid)

		subGrid, cell, err := promptMove("Move for " + snap.Turn.Active)
		if err != nil {
			pterm.Warning.Printfln("%v", err)
			continue
		}

		snap, err = controller.MakeMove(subGrid, cell)
		if err != nil {
			pterm.Warning.Printfln("Illegal move: %v", err)
			continue
		}

		if snap.Outcome != entity.EmptyCell {
			renderBoard(&snap.Board, entity.AnySubGrid)
			pterm.Info.Println(outcomeMessage(snap.Outcome))
			return nil
		}
	}
}
