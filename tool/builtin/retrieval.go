package builtin

import (
	"context"
	"errors"

	"github.com/loopworks/flowkit/knowledge"
	"github.com/loopworks/flowkit/tool"
)

// KnowledgeLookup returns a tool querying a knowledge store for the most
// relevant document. A miss is reported as the "No results found" sentinel
// rather than an error, so the model can rephrase the query.
func KnowledgeLookup(store knowledge.Store) (tool.Definition, tool.Handler) {
	def := tool.Definition{
		Name:        "retrieve_knowledge",
		Description: "Looks up relevant context in a knowledge base for a given query.",
		Schema: tool.ObjectSchema(map[string]any{
			"query": tool.StringProperty("The query to retrieve knowledge to help answer."),
		}, "query"),
	}

	handler := func(ctx context.Context, args map[string]any) (any, error) {
		query, _ := tool.StringArg(args, "query")
		doc, err := store.Query(ctx, query)
		if err != nil {
			if errors.Is(err, knowledge.ErrNoResults) {
				return "No results found", nil
			}
			return nil, err
		}
		return doc, nil
	}

	return def, handler
}
