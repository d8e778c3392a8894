package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/GrigstonJC/boardgame-app/internal/cli"
	"github.com/GrigstonJC/boardgame-app/internal/logger"
)

func main() {
	logger.Init()

	// Ctrl+C cancels whatever the current command is waiting on,
	// typically the login redirect listener.
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
