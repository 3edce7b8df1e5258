package main

import (
	"log/slog"
	"os"

	"github.com/SscSPs/erp_ledger/internal/commands"
)

func main() {
	// Command output goes to stdout; service logs stay on stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
