package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/catalogai/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "catalogai",
		Usage:    "Movie, anime and series recommendations from titles you already like",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		os.Exit(reportError(logger, err))
	}
}

// reportError logs err on the process logger and returns the exit code.
//
// Commands may swap the runner's logger (the TUI logs to a file), so failures are always reported here.
func reportError(logger *log.Logger, err error) int {
	var uerr *userError
	switch {
	case errors.As(err, &uerr) && errors.Is(err, shared.ErrInvalidInput):
		logger.Warn(uerr.Error())
		return 2
	case errors.As(err, &uerr):
		logger.Error(uerr.Error())
		return 1
	default:
		logger.Errorf("application error: %v", err)
		return 1
	}
}
