package builtin

import (
	"context"

	"github.com/loopworks/flowkit/tool"
)

// AnswerToolName is the conventional name for the terminal answer tool.
// Configure it as the loop's terminal tool to stop the conversation when
// the model submits its answer.
const AnswerToolName = "provide_answer"

// Answer returns the terminal tool the model calls to submit its final
// answer. The handler echoes the answer so it becomes the dispatch result.
func Answer() (tool.Definition, tool.Handler) {
	def := tool.Definition{
		Name:        AnswerToolName,
		Description: "Provide the final answer to the user, with your reasoning and a clear citation.",
		Schema: tool.ObjectSchema(map[string]any{
			"answer": tool.StringProperty("The final answer."),
		}, "answer"),
	}

	handler := func(_ context.Context, args map[string]any) (any, error) {
		answer, _ := tool.StringArg(args, "answer")
		return answer, nil
	}

	return def, handler
}
