package cmd

import (
	"context"
	"strings"

	"github.com/gemcp/gemcp/internal/ui"
)

// answerer is the slice of the orchestrator the shell needs.
type answerer interface {
	Answer(ctx context.Context, query string) (string, error)
}

// runShell runs the interactive read loop until the user quits, input hits
// EOF, or the context is cancelled.
//
// Input is read on a separate goroutine feeding a channel, so a pending
// blocking read never prevents cancellation (Ctrl+C) from returning control
// and running the deferred session cleanup.
func runShell(ctx context.Context, term ui.IO, orch answerer) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for term.Scan() {
			select {
			case lines <- term.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	term.Println("Type your question, or 'quit' to leave.")

	for {
		term.Print("\nYou: ")

		select {
		case <-ctx.Done():
			term.Println("\nGoodbye!")
			return nil

		case line, ok := <-lines:
			if !ok {
				// EOF (Ctrl+D)
				term.Println("\nGoodbye!")
				return nil
			}

			input := strings.TrimSpace(line)
			if input == "" {
				continue
			}
			switch input {
			case "quit", "exit", "q":
				term.Println("Goodbye!")
				return nil
			}

			answer, err := orch.Answer(ctx, input)
			if err != nil {
				term.Printf("Error: %v\n", err)
				continue
			}
			term.Printf("\nAssistant: %s\n", answer)
		}
	}
}
