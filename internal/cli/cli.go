// Package cli is the terminal front-end: menus, prompts and board
// rendering. It is presentation glue only; all game logic lives in the
// game, rules and session packages.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pterm/pterm"

	"github.com/gridrush/ultimate-tictactoe/internal/config"
	"github.com/gridrush/ultimate-tictactoe/internal/prefs"
)

const (
	menuVsCPU      = "Play vs CPU"
	menuLocalMulti = "Local multiplayer"
	menuOnline     = "Online multiplayer"
	menuQuit       = "Quit"
)

type Runner struct {
	logger *slog.Logger
	conf   *config.Config
	prefs  *prefs.Storage
}

func New(logger *slog.Logger, conf *config.Config, prefs *prefs.Storage) *Runner {
	return &Runner{
		logger: logger.With("component", "cli"),
		conf:   conf,
		prefs:  prefs,
	}
}

// Run shows the mode menu until the player quits or the context is
// cancelled.
func (that *Runner) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		choice, err := pterm.DefaultInteractiveSelect.
			WithOptions([]string{menuVsCPU, menuLocalMulti, menuOnline, menuQuit}).
			Show("Ultimate Tic-Tac-Toe")
		if err != nil {
			return fmt.Errorf("failed to read menu choice: %w", err)
		}

		switch choice {
		case menuVsCPU:
			err = that.runVsCPU(ctx)
		case menuLocalMulti:
			err = that.runLocalMulti(ctx)
		case menuOnline:
			err = that.runOnline(ctx)
		case menuQuit:
			return nil
		}

		if err != nil {
			pterm.Error.Printfln("Game aborted: %v", err)
		}
	}
}

// promptMove reads "sub-board cell" as two digits in 0..8.
func promptMove(prompt string) (int, int, error) {
	input, err := pterm.DefaultInteractiveTextInput.Show(prompt + " (sub-board cell, e.g. 4 7)")
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read move: %w", err)
	}

	var subGrid, cell int
	if _, err = fmt.Sscanf(strings.TrimSpace(input), "%d %d", &subGrid, &cell); err != nil {
		return 0, 0, fmt.Errorf("expected two numbers 0-8: %w", err)
	}

	return subGrid, cell, nil
}
