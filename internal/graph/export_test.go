package graph

import (
	"context"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// NewWithRun builds a System whose queries are routed through run instead
// of a live driver. Tests use it to record Cypher and fabricate results.
func NewWithRun(run func(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error), logger *slog.Logger) System {
	return &system{database: "neo4j", logger: logger.With("system", "graph"), run: run}
}
