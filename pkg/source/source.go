// Package source provides the inbound data-fetch collaborators: clients that
// retrieve a verse's raw graph payload from a backend.
//
// Every backend implements the same narrow contract. Errors carry structured
// codes so callers can tell "this verse has no research graph" (NO_GRAPH_DATA)
// apart from "the backend is unreachable" (FETCH_FAILED); the two must never
// be conflated.
package source

import (
	"context"

	"github.com/versegraph/versegraph/pkg/graph"
)

// Source fetches the raw graph payload for an OSIS verse reference.
type Source interface {
	Fetch(ctx context.Context, osis string) (graph.Payload, error)
}
