package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// aggregateResources fetches the content of every advertised resource, in
// server-supplied order, and concatenates it into a single context string of
// labeled blocks.
//
// A resource that cannot be read is logged with its URI and skipped; one
// failed fetch never fails the aggregation. The result may be empty.
func aggregateResources(ctx context.Context, resources []*mcpsdk.Resource,
	read func(context.Context, string) (string, error), logger *slog.Logger) string {

	var b strings.Builder
	for _, res := range resources {
		content, err := read(ctx, res.URI)
		if err != nil {
			logger.Warn("could not read resource", "uri", res.URI, "error", err)
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n%s\n", res.Name, content)
	}
	return b.String()
}
