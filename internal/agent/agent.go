// Package agent drives the conversation between a Gemini model and a
// connected tool server.
//
// The orchestrator is built once per tool-server session: it translates the
// advertised tools into function declarations, aggregates resource content
// into the system instruction, and then answers queries by looping (send to
// the model, dispatch any function calls it requests, feed the results back)
// until the model replies with plain text.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/genai"

	"github.com/gemcp/gemcp/internal/mcp"
	"github.com/gemcp/gemcp/internal/schema"
)

// roleTool is the content role carrying function responses back to the model.
const roleTool = "tool"

// Generator is the slice of the model backend the orchestrator needs: one
// blocking request/response exchange over an explicit transcript.
type Generator interface {
	Generate(ctx context.Context, history []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ToolServer is the slice of the tool-server session the orchestrator needs.
// Implemented by *mcp.Session.
type ToolServer interface {
	Tools() []*mcpsdk.Tool
	Resources() []*mcpsdk.Resource
	Invoke(ctx context.Context, name string, args map[string]any) (string, error)
	ReadResource(ctx context.Context, uri string) (string, error)
}

// Config holds orchestrator tuning.
type Config struct {
	// Temperature is passed through to the model; zero means SDK default.
	Temperature float32

	// MaxTurns caps model round-trips per query. Zero means DefaultMaxTurns.
	MaxTurns int
}

// DefaultMaxTurns bounds the call/respond loop when Config.MaxTurns is zero.
const DefaultMaxTurns = 8

// Orchestrator owns one conversation against one tool-server session.
//
// The transcript is held as an explicit value and committed only when a turn
// completes, so a failed turn leaves the conversation state untouched.
// Not safe for concurrent use: one conversation, one call at a time.
type Orchestrator struct {
	gen    Generator
	server ToolServer
	logger *slog.Logger

	config   *genai.GenerateContentConfig
	known    map[string]struct{}
	maxTurns int
	history  []*genai.Content
}

// New builds an orchestrator for a ready tool-server session.
//
// Tool translation happens here, once: an untranslatable tool schema fails
// construction rather than silently dropping the tool. Resource aggregation
// also happens here; individual fetch failures are logged and skipped.
func New(ctx context.Context, gen Generator, server ToolServer, cfg Config, logger *slog.Logger) (*Orchestrator, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if server == nil {
		return nil, fmt.Errorf("tool server is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}

	tools := server.Tools()
	decls, err := schema.TranslateAll(tools)
	if err != nil {
		return nil, fmt.Errorf("translating tools: %w", err)
	}

	known := make(map[string]struct{}, len(decls))
	for _, decl := range decls {
		known[decl.Name] = struct{}{}
	}

	resourceText := aggregateResources(ctx, server.Resources(), server.ReadResource, logger)

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction(resourceText, tools)}},
		},
	}
	if cfg.Temperature != 0 {
		temperature := cfg.Temperature
		config.Temperature = &temperature
	}
	if len(decls) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	return &Orchestrator{
		gen:      gen,
		server:   server,
		logger:   logger,
		config:   config,
		known:    known,
		maxTurns: cfg.MaxTurns,
	}, nil
}

// Answer sends the user query to the model and runs the call/respond loop
// until the model produces a plain text reply, which is returned.
//
// Failures the tool itself reports are fed back to the model as
// error-carrying function responses so it can adapt. Everything else
// (unknown tool names, transport failures, model errors) aborts the turn;
// the transcript is rolled back and the orchestrator stays usable.
func (o *Orchestrator) Answer(ctx context.Context, query string) (string, error) {
	logger := o.logger.With("turn_id", uuid.NewString())

	// Private copy of the transcript; committed on success only.
	history := append(slices.Clone(o.history), &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: query}},
	})

	for range o.maxTurns {
		resp, err := o.gen.Generate(ctx, history, o.config)
		if err != nil {
			return "", fmt.Errorf("model request: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", ErrNoResponse
		}

		content := resp.Candidates[0].Content
		history = append(history, content)

		calls := functionCalls(content)
		if len(calls) == 0 {
			o.history = history
			return textContent(content), nil
		}

		// Every call of the model turn is dispatched in order and all
		// results go back in a single tool-role turn.
		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			part, err := o.dispatch(ctx, logger, call)
			if err != nil {
				return "", err
			}
			parts = append(parts, part)
		}
		history = append(history, &genai.Content{Role: roleTool, Parts: parts})
	}

	return "", fmt.Errorf("%w (%d)", ErrTurnLimit, o.maxTurns)
}

// dispatch validates and executes one function call, returning the function
// response part to feed back to the model.
func (o *Orchestrator) dispatch(ctx context.Context, logger *slog.Logger, call *genai.FunctionCall) (*genai.Part, error) {
	if _, ok := o.known[call.Name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, call.Name)
	}

	logger.Info("invoking tool", "tool", call.Name, "args", call.Args)

	result, err := o.server.Invoke(ctx, call.Name, call.Args)
	if err != nil {
		var invErr *mcp.InvocationError
		if errors.As(err, &invErr) {
			// Tool-side failure: recoverable, let the model see it.
			logger.Warn("tool reported failure", "tool", call.Name, "error", invErr.Message)
			return responsePart(call.Name, map[string]any{"error": invErr.Message}), nil
		}
		return nil, fmt.Errorf("invoking tool %q: %w", call.Name, err)
	}

	logger.Debug("tool result", "tool", call.Name, "result", result)
	return responsePart(call.Name, map[string]any{"result": result}), nil
}

func responsePart(name string, response map[string]any) *genai.Part {
	return &genai.Part{
		FunctionResponse: &genai.FunctionResponse{
			Name:     name,
			Response: response,
		},
	}
}

// functionCalls collects the pending function-call requests of a model turn,
// in the order the model returned them.
func functionCalls(content *genai.Content) []*genai.FunctionCall {
	var calls []*genai.FunctionCall
	for _, part := range content.Parts {
		if part.FunctionCall != nil {
			calls = append(calls, part.FunctionCall)
		}
	}
	return calls
}

// textContent concatenates the text parts of a model turn.
func textContent(content *genai.Content) string {
	var b strings.Builder
	for _, part := range content.Parts {
		b.WriteString(part.Text)
	}
	return b.String()
}

// systemInstruction composes the system context from the aggregated resource
// content and the advertised tools.
func systemInstruction(resources string, tools []*mcpsdk.Tool) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant with access to tools from a connected tool server.\n")

	if resources != "" {
		b.WriteString("\nAvailable resources:\n")
		b.WriteString(resources)
	}

	if len(tools) > 0 {
		b.WriteString("\nUse the appropriate tools to help the user:\n")
		for _, tool := range tools {
			fmt.Fprintf(&b, "- %s: %s\n", tool.Name, tool.Description)
		}
	}

	b.WriteString("\nAlways provide helpful, natural responses.")
	return b.String()
}
