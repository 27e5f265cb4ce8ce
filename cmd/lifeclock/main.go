package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lifeclock/internal/cli"
	"lifeclock/internal/cli/tokenstore"
	"lifeclock/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := os.Getenv("LIFECLOCK_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	cmd := cli.NewRootCommandWith(cli.Deps{
		Tokens:  tokenstore.NewKeyring(),
		Logger:  logger.NewWithWriter(os.Stderr, level),
		InPlace: isTerminal(os.Stdout),
	})
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
