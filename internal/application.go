package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gridrush/ultimate-tictactoe/internal/cli"
	"github.com/gridrush/ultimate-tictactoe/internal/config"
	"github.com/gridrush/ultimate-tictactoe/internal/prefs"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	prefsStorage, err := prefs.New(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open preferences storage: %w", err)
	}

	defer func() {
		if err = prefsStorage.Close(); err != nil {
			log.Error("could not close preferences storage", "error", err)
		}
	}()

	if err = prefsStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init preferences storage: %w", err)
	}

	runner := cli.New(logger, conf, prefsStorage)

	if err = runner.Run(ctx); err != nil {
		return fmt.Errorf("client exited with error: %w", err)
	}

	return nil
}
