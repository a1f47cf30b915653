// Package game drives same-device play: two humans sharing a screen, or a
// human against the random bot. Online play goes through internal/session
// instead; both funnel every move through the rules package.
package game

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gridrush/ultimate-tictactoe/internal/apperror"
	"github.com/gridrush/ultimate-tictactoe/internal/entity"
	"github.com/gridrush/ultimate-tictactoe/internal/rules"
	"github.com/gridrush/ultimate-tictactoe/internal/service"
)

type Mode string

const (
	ModeVsCPU      Mode = "vs-cpu"
	ModeLocalMulti Mode = "local-multi"
)

// Snapshot is the state handed to the presentation layer after each
// accepted move. Outcome is entity.EmptyCell while the game is in
// progress, otherwise a symbol or entity.PlayerTie.
type Snapshot struct {
	Board   entity.Board
	Turn    rules.TurnState
	Outcome string
}

// Controller owns the board and turn state for one offline match. All
// mutation happens behind one mutex, so the bot goroutine and the UI never
// touch the board concurrently.
type Controller struct {
	logger     *slog.Logger
	mode       Mode
	bot        service.BotService
	thinkDelay time.Duration
	onUpdate   func(Snapshot)

	mu       sync.Mutex
	board    entity.Board
	turn     rules.TurnState
	outcome  string
	resetGen int
}

// New creates a controller for the given mode. onUpdate is invoked after
// every bot move; it may be nil for pure human-vs-human play.
func New(logger *slog.Logger, mode Mode, bot service.BotService, thinkDelay time.Duration, onUpdate func(Snapshot)) *Controller {
	return &Controller{
		logger:     logger.With("component", "game-controller"),
		mode:       mode,
		bot:        bot,
		thinkDelay: thinkDelay,
		onUpdate:   onUpdate,
		turn:       rules.NewTurnState(),
	}
}

// MakeMove applies a human move for whichever symbol holds the turn. In
// vs-CPU mode the human always plays X; an accepted move that leaves the
// game in progress hands the turn to the bot asynchronously.
func (that *Controller) MakeMove(subGrid, cell int) (Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.mode == ModeVsCPU && that.turn.Active != entity.PlayerX {
		return that.snapshot(), apperror.ErrNotYourTurn
	}

	snap, err := that.applyMove(subGrid, cell, that.turn.Active)
	if err != nil {
		return snap, err
	}

	if that.mode == ModeVsCPU && that.outcome == entity.EmptyCell {
		that.scheduleBotMove()
	}

	return snap, nil
}

// Snapshot returns the current state for rendering.
func (that *Controller) Snapshot() Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot()
}

// Reset clears the board for a rematch. A bot move still pending from the
// previous game is dropped.
func (that *Controller) Reset() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.board.Reset()
	that.turn = rules.NewTurnState()
	that.outcome = entity.EmptyCell
	that.resetGen++
}

// applyMove validates and applies one move; the caller holds the mutex.
func (that *Controller) applyMove(subGrid, cell int, mover string) (Snapshot, error) {
	if err := rules.ValidateMove(&that.board, that.turn, subGrid, cell, mover); err != nil {
		return that.snapshot(), err
	}

	if err := that.board.ApplyMove(subGrid, cell, mover); err != nil {
		return that.snapshot(), fmt.Errorf("failed to apply move: %w", err)
	}

	that.outcome = rules.Evaluate(&that.board)
	if that.outcome == entity.EmptyCell {
		that.turn = rules.NextTurn(&that.board, that.turn, subGrid, cell)
	}

	return that.snapshot(), nil
}

// scheduleBotMove defers the bot's reply by the think delay without
// blocking the caller. The delay is pacing only; a reset during the delay
// invalidates the pending move.
func (that *Controller) scheduleBotMove() {
	gen := that.resetGen

	go func() {
		time.Sleep(that.thinkDelay)

		that.mu.Lock()

		if gen != that.resetGen || that.outcome != entity.EmptyCell {
			that.mu.Unlock()
			return
		}

		log := that.logger.With("method", "scheduleBotMove")

		move, err := that.bot.PickMove(&that.board, that.turn)
		if err != nil {
			// Logic defect upstream: abort the move, don't crash.
			that.mu.Unlock()
			log.Error("bot has no legal moves", "error", err)
			return
		}

		snap, err := that.applyMove(move.SubGrid, move.Cell, that.turn.Active)
		that.mu.Unlock()

		if err != nil {
			log.Error("bot failed to make turn", "error", err)
			return
		}

		if that.onUpdate != nil {
			that.onUpdate(snap)
		}
	}()
}

func (that *Controller) snapshot() Snapshot {
	return Snapshot{
		Board:   that.board,
		Turn:    that.turn,
		Outcome: that.outcome,
	}
}
