package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gemcp/gemcp/internal/agent"
	"github.com/gemcp/gemcp/internal/config"
	"github.com/gemcp/gemcp/internal/mcp"
	"github.com/gemcp/gemcp/internal/ui"
)

// runChat wires up the tool-server session and the orchestrator, then hands
// control to the interactive shell.
//
// The tool server is spawned as a subprocess running serverPath; it lives
// exactly as long as the shell. Ctrl+C cancels the context, which unblocks
// the shell and lets the deferred session close tear the subprocess down.
func runChat(serverPath string, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	args := append(append([]string{}, cfg.ServerArgs...), serverPath)
	transport := &mcpsdk.CommandTransport{
		Command: exec.Command(cfg.ServerCommand, args...),
	}

	sess := mcp.NewSession(logger)
	if err := sess.Connect(ctx, transport); err != nil {
		return fmt.Errorf("connecting to tool server: %w", err)
	}
	defer func() {
		if closeErr := sess.Close(); closeErr != nil {
			logger.Warn("session close error", "error", closeErr)
		}
	}()

	gen, err := agent.NewGemini(ctx, os.Getenv("GEMINI_API_KEY"), cfg.ModelName)
	if err != nil {
		return fmt.Errorf("creating model backend: %w", err)
	}

	orch, err := agent.New(ctx, gen, sess, agent.Config{
		Temperature: cfg.Temperature,
		MaxTurns:    cfg.MaxTurns,
	}, logger)
	if err != nil {
		return fmt.Errorf("creating orchestrator: %w", err)
	}

	term := ui.NewConsole(os.Stdin, os.Stdout)
	term.Printf("gemcp v%s (%s)\n", AppVersion, cfg.ModelName)
	term.Printf("Connected: %d tools, %d resources\n", len(sess.Tools()), len(sess.Resources()))

	return runShell(ctx, term, orch)
}
