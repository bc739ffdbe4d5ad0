// Package mcp wraps the client side of the Model Context Protocol SDK behind
// the session lifecycle the rest of gemcp needs: connect and handshake,
// snapshot the advertised tools and resources, invoke named tools, read
// resource content, and tear the transport down exactly once.
//
// A Session moves through Disconnected → Connecting → Ready → Closed and
// never back; observing server-side changes requires a fresh session. The
// Session is driven by a single conversation loop and is not safe for
// concurrent use.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Implementation identity announced to tool servers during the handshake.
const (
	clientName    = "gemcp"
	clientVersion = "0.1.0"
)

// State is the session lifecycle state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Session is the connection to one tool server.
type Session struct {
	logger *slog.Logger

	state     State
	session   *mcp.ClientSession
	tools     []*mcp.Tool
	resources []*mcp.Resource
}

// NewSession creates a disconnected session.
// If logger is nil, slog.Default() is used.
func NewSession(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{logger: logger}
}

// Connect establishes the transport, performs the protocol handshake, and
// snapshots the tool and resource lists in that order.
//
// On failure the session transitions to Closed and must not be used; create
// a fresh session to retry. A server that does not expose resources is not
// an error: the resource list is simply empty.
func (s *Session) Connect(ctx context.Context, transport mcp.Transport) error {
	if s.state != StateDisconnected {
		return fmt.Errorf("%w: state %s", ErrAlreadyConnected, s.state)
	}
	s.state = StateConnecting

	client := mcp.NewClient(&mcp.Implementation{
		Name:    clientName,
		Version: clientVersion,
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		s.state = StateClosed
		return fmt.Errorf("connecting to tool server: %w", err)
	}

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		_ = session.Close()
		s.state = StateClosed
		return fmt.Errorf("listing tools: %w", err)
	}

	// Tool servers without the resources capability reject resources/list;
	// treat that as an empty list rather than a failed connect.
	var resources []*mcp.Resource
	if res, err := session.ListResources(ctx, nil); err != nil {
		s.logger.Warn("tool server does not expose resources", "error", err)
	} else {
		resources = res.Resources
	}

	s.session = session
	s.tools = tools.Tools
	s.resources = resources
	s.state = StateReady

	s.logger.Info("connected to tool server",
		"tools", len(s.tools),
		"resources", len(s.resources))
	return nil
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Tools returns the tool list snapshot taken at connect time.
func (s *Session) Tools() []*mcp.Tool {
	return s.tools
}

// Resources returns the resource list snapshot taken at connect time.
func (s *Session) Resources() []*mcp.Resource {
	return s.resources
}

// Invoke calls the named tool with the given arguments and returns the text
// of its result.
//
// A failure reported by the tool itself comes back as *InvocationError;
// transport failures come back as plain wrapped errors. Invoke never
// retries: tool side effects may not be idempotent, so retry policy belongs
// to the caller.
func (s *Session) Invoke(ctx context.Context, name string, args map[string]any) (string, error) {
	if s.state != StateReady {
		return "", fmt.Errorf("%w: state %s", ErrNotConnected, s.state)
	}

	result, err := s.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return "", fmt.Errorf("calling tool %q: %w", name, err)
	}

	text := textContent(result.Content)
	if result.IsError {
		return "", &InvocationError{Tool: name, Message: text}
	}
	return text, nil
}

// ReadResource fetches the text content of the resource at uri.
func (s *Session) ReadResource(ctx context.Context, uri string) (string, error) {
	if s.state != StateReady {
		return "", fmt.Errorf("%w: state %s", ErrNotConnected, s.state)
	}

	result, err := s.session.ReadResource(ctx, &mcp.ReadResourceParams{URI: uri})
	if err != nil {
		return "", fmt.Errorf("reading resource %q: %w", uri, err)
	}

	for _, contents := range result.Contents {
		if contents.Text != "" {
			return contents.Text, nil
		}
	}
	return "", nil
}

// Close tears down the transport and protocol session. It is idempotent:
// closing a never-connected or already-closed session is a no-op, and the
// session ends in Closed either way.
func (s *Session) Close() error {
	if s.state == StateClosed || s.session == nil {
		s.state = StateClosed
		return nil
	}

	err := s.session.Close()
	s.session = nil
	s.state = StateClosed
	if err != nil {
		return fmt.Errorf("closing tool server session: %w", err)
	}
	return nil
}

// textContent extracts the first text block from a tool result.
func textContent(content []mcp.Content) string {
	for _, c := range content {
		if text, ok := c.(*mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}
