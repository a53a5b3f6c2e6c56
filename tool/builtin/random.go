package builtin

import (
	"context"
	"math/rand/v2"

	"github.com/loopworks/flowkit/tool"
)

// RandomNumber returns a tool picking a random integer between 1 and 100.
func RandomNumber() (tool.Definition, tool.Handler) {
	def := tool.Definition{
		Name:        "pick_random_number",
		Description: "Pick a random number between 1 and 100.",
		Schema:      tool.ObjectSchema(nil),
	}

	handler := func(_ context.Context, _ map[string]any) (any, error) {
		return rand.IntN(100) + 1, nil
	}

	return def, handler
}
