package cmd

import (
	"log/slog"
	"os"

	"github.com/simon/rdev/internal/bridge"
	"github.com/simon/rdev/internal/config"
	"github.com/simon/rdev/internal/history"
	"github.com/simon/rdev/internal/sshconn"
	"github.com/simon/rdev/internal/tools"
)

// buildService wires the shared dependencies behind every command.
// Logging goes to stderr: stdout is the MCP channel.
func buildService() (*tools.Service, func(), error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	runner := sshconn.New(cfg)
	br := bridge.New(runner, cfg.Session)

	// History is best-effort; the tools work without it.
	hist, err := history.Open()
	if err != nil {
		logger.Warn("history disabled", "err", err)
		hist = nil
	}

	cleanup := func() {
		if hist != nil {
			hist.Close()
		}
	}

	return &tools.Service{
		Bridge:  br,
		Runner:  runner,
		History: hist,
		Host:    cfg.Host,
		Log:     logger,
	}, cleanup, nil
}
