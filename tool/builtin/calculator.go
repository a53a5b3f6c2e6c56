package builtin

import (
	"context"
	"fmt"

	"github.com/loopworks/flowkit/tool"
)

// Calculator returns a tool doing arithmetic on two numbers.
func Calculator() (tool.Definition, tool.Handler) {
	def := tool.Definition{
		Name:        "calculator",
		Description: "Do arithmetic operations on two numbers.",
		Schema: tool.ObjectSchema(map[string]any{
			"operation": tool.StringProperty("One of add, subtract, multiply, divide."),
			"num1":      tool.NumberProperty("The first operand."),
			"num2":      tool.NumberProperty("The second operand."),
		}, "operation", "num1", "num2"),
	}

	handler := func(_ context.Context, args map[string]any) (any, error) {
		operation, _ := tool.StringArg(args, "operation")
		num1, _ := tool.FloatArg(args, "num1")
		num2, _ := tool.FloatArg(args, "num2")

		switch operation {
		case "add":
			return num1 + num2, nil
		case "subtract":
			return num1 - num2, nil
		case "multiply":
			return num1 * num2, nil
		case "divide":
			if num2 == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return num1 / num2, nil
		default:
			return nil, fmt.Errorf("invalid operation %q", operation)
		}
	}

	return def, handler
}
