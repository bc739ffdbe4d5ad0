// Package cmd provides the CLI entry point: argument handling, startup
// checks, and the interactive chat shell.
//
// Signal handling and graceful shutdown are implemented via context
// cancellation, so the tool-server subprocess is always torn down.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gemcp/gemcp/internal/log"
)

// AppVersion is injected at build time via ldflags.
var AppVersion = "0.1.0"

// Execute is the main entry point for the gemcp CLI.
func Execute() error {
	// Handle special flags before full initialization so --version and
	// --help work even if config is invalid.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			fmt.Printf("gemcp v%s\n", AppVersion)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		}
	}

	logger := initLogger()
	slog.SetDefault(logger)

	if err := checkRequiredEnv(); err != nil {
		return err
	}

	if len(os.Args) < 2 {
		printHelp()
		return fmt.Errorf("tool server script path is required")
	}

	return runChat(os.Args[1], logger)
}

// initLogger initializes the structured logger.
//
// Log level is controlled by the DEBUG environment variable. Logs go to
// stderr; stdout belongs to the chat transcript.
func initLogger() log.Logger {
	cfg := log.Config{Level: slog.LevelInfo}
	if os.Getenv("DEBUG") != "" {
		cfg.Level = slog.LevelDebug
	}
	return log.New(cfg)
}

// checkRequiredEnv verifies that all required environment variables are set.
// Returns a user-friendly error with setup instructions if validation fails.
func checkRequiredEnv() error {
	if os.Getenv("GEMINI_API_KEY") == "" {
		fmt.Fprintln(os.Stderr, "Error: GEMINI_API_KEY environment variable not set")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "gemcp requires a Gemini API key to function.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "To set your API key:")
		fmt.Fprintln(os.Stderr, "  export GEMINI_API_KEY=your-api-key")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Get your API key at: https://ai.google.dev/")

		return fmt.Errorf("GEMINI_API_KEY not set")
	}
	return nil
}

// printHelp displays the help message.
func printHelp() {
	fmt.Println("gemcp - Chat with a Gemini model backed by an MCP tool server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  gemcp <server-script>  Start interactive chat against a tool server")
	fmt.Println("  gemcp --version        Show version information")
	fmt.Println("  gemcp --help           Show this help")
	fmt.Println()
	fmt.Println("Interactive Commands:")
	fmt.Println("  quit, exit, q          Leave the chat")
	fmt.Println()
	fmt.Println("Shortcuts:")
	fmt.Println("  Ctrl+D                 Leave the chat")
	fmt.Println("  Ctrl+C                 Leave the chat, shutting down the tool server")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  GEMINI_API_KEY         Required: Gemini API key")
	fmt.Println("  GEMCP_MODEL_NAME       Optional: override the model")
	fmt.Println("  GEMCP_SERVER_COMMAND   Optional: interpreter for the server script")
	fmt.Println("  DEBUG                  Optional: enable debug logging")
}
