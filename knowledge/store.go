// Package knowledge provides the read-only document store tool handlers
// query during a conversation. A Store returns the single most relevant
// document for a query; during evaluation many conversations may query the
// same store concurrently, so implementations must be safe for concurrent
// reads.
package knowledge

import (
	"context"
	"errors"
)

// ErrNoResults is returned when no document matches the query.
var ErrNoResults = errors.New("no results found")

// Store is a read-only knowledge base.
type Store interface {
	// Query returns the most relevant document for the query, or
	// ErrNoResults when nothing matches.
	Query(ctx context.Context, query string) (string, error)
}
