package cli

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"

	"github.com/gridrush/ultimate-tictactoe/internal/pkg"
	"github.com/gridrush/ultimate-tictactoe/internal/prefs"
	"github.com/gridrush/ultimate-tictactoe/internal/repository"
	"github.com/gridrush/ultimate-tictactoe/internal/repository/storage"
	"github.com/gridrush/ultimate-tictactoe/internal/session"
)

const (
	onlineCreate = "Create room"
	onlineJoin   = "Join room"
	onlineBack   = "Back"

	endedRematch = "Rematch"
	endedLeave   = "Leave"
)

func (that *Runner) runOnline(ctx context.Context) error {
	log := that.logger.With("method", "runOnline")

	redisStorage, err := storage.New(ctx, that.conf.Redis.GetRedisAddr())
	if err != nil {
		return fmt.Errorf("could not connect to room store: %w", err)
	}

	defer func() {
		if closeErr := redisStorage.Close(); closeErr != nil {
			log.Error("could not close room store", "error", closeErr)
		}
	}()

	roomRepo := repository.NewRoomRepository(redisStorage.Connection)

	playerName, err := that.promptPlayerName(ctx)
	if err != nil {
		return err
	}

	playerID := pkg.GenerateGuestID()

	choice, err := pterm.DefaultInteractiveSelect.
		WithOptions([]string{onlineCreate, onlineJoin, onlineBack}).
		Show("Online multiplayer")
	if err != nil {
		return fmt.Errorf("failed to read choice: %w", err)
	}

	var controller *session.Controller

	switch choice {
	case onlineCreate:
		controller, err = session.Create(ctx, that.logger, roomRepo, playerID, playerName)
	case onlineJoin:
		controller, err = that.joinRoom(ctx, roomRepo, playerID, playerName)
	default:
		return nil
	}

	if err != nil {
		return err
	}

	if err = that.prefs.Set(ctx, prefs.KeyLastRoom, controller.Code()); err != nil {
		log.Error("could not remember room code", "error", err)
	}

	pterm.Info.Printfln("Room code: %s (you are %s, playing %s)",
		controller.Code(), controller.Role(), controller.Mark())

	defer controller.Leave(ctx)

	if err = controller.Start(ctx); err != nil {
		return err
	}

	return that.playOnline(ctx, controller)
}

func (that *Runner) joinRoom(ctx context.Context, roomRepo repository.RoomRepository, playerID, playerName string) (*session.Controller, error) {
	lastRoom, err := that.prefs.Get(ctx, prefs.KeyLastRoom)
	if err != nil {
		lastRoom = ""
	}

	code, err := pterm.DefaultInteractiveTextInput.
		WithDefaultValue(lastRoom).
		Show("Room code (5 digits)")
	if err != nil {
		return nil, fmt.Errorf("failed to read room code: %w", err)
	}

	return session.Join(ctx, that.logger, roomRepo, code, playerID, playerName)
}

func (that *Runner) promptPlayerName(ctx context.Context) (string, error) {
	savedName, err := that.prefs.Get(ctx, prefs.KeyPlayerName)
	if err != nil {
		savedName = ""
	}

	name, err := pterm.DefaultInteractiveTextInput.
		WithDefaultValue(savedName).
		Show("Your name")
	if err != nil {
		return "", fmt.Errorf("failed to read name: %w", err)
	}

	if err = that.prefs.Set(ctx, prefs.KeyPlayerName, name); err != nil {
		that.logger.Error("could not remember player name", "error", err)
	}

	return name, nil
}

// playOnline consumes session events until the match ends or the room
// vanishes. Rendering and move prompts happen here; every move decision is
// made by the session controller against the latest snapshot.
func (that *Runner) playOnline(ctx context.Context, controller *session.Controller) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-controller.Events():
			if !ok {
				return nil
			}

			done, err := that.handleOnlineEvent(ctx, controller, event)
			if err != nil || done {
				return err
			}
		}
	}
}

func (that *Runner) handleOnlineEvent(ctx context.Context, controller *session.Controller, event session.Event) (bool, error) {
	switch event.Kind {
	case session.EventWaiting:
		pterm.Info.Println("Waiting for another player to join...")

	case session.EventStarted:
		pterm.Info.Printfln("Game on: %s (X) vs %s (O)", event.Room.Player1Name, event.Room.Player2Name)

	case session.EventBoard:
		if event.Room.CurrentTurn != controller.Role() {
			pterm.Info.Println("Opponent's turn")
			return false, nil
		}

		renderBoard(&event.Room.Board, event.Room.CurrentSubGrid)

		subGrid, cell, err := promptMove(fmt.Sprintf("Your move (%s)", controller.Mark()))
		if err != nil {
			pterm.Warning.Printfln("%v", err)
			return false, nil
		}

		if err = controller.MakeMove(ctx, subGrid, cell); err != nil {
			pterm.Warning.Printfln("Move rejected: %v", err)
		}

	case session.EventEnded:
		return that.handleGameEnded(ctx, controller, event)

	case session.EventRoomDeleted:
		pterm.Info.Println("The room was deleted by the host")
		return true, nil

	case session.EventSyncError:
		pterm.Warning.Printfln("Sync error: %v", event.Err)
	}

	return false, nil
}

func (that *Runner) handleGameEnded(ctx context.Context, controller *session.Controller, event session.Event) (bool, error) {
	switch event.Room.Winner {
	case controller.Role():
		pterm.Info.Println("You won!")
	case "":
		pterm.Info.Println("It's a draw!")
	default:
		pterm.Info.Println("You lost!")
	}

	choice, err := pterm.DefaultInteractiveSelect.
		WithOptions([]string{endedRematch, endedLeave}).
		Show("Game over")
	if err != nil {
		return true, fmt.Errorf("failed to read choice: %w", err)
	}

	if choice != endedRematch {
		return true, nil
	}

	if err = controller.Rematch(ctx); err != nil {
		return true, fmt.Errorf("failed to request rematch: %w", err)
	}

	return false, nil
}
