package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"testing"
)

func greetTool() (Definition, Handler) {
	def := Definition{
		Name:        "greet",
		Description: "Greets someone by name.",
		Schema: ObjectSchema(map[string]any{
			"name": StringProperty("Who to greet."),
		}, "name"),
	}
	handler := func(_ context.Context, args map[string]any) (any, error) {
		name, _ := StringArg(args, "name")
		return "hello " + name, nil
	}
	return def, handler
}

func TestRegistryRegisterAndInvoke(t *testing.T) {
	r := NewRegistry()
	r.Register(greetTool())

	if !r.Has("greet") {
		t.Fatal("Has(greet) = false after Register")
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}

	out, err := r.Invoke(context.Background(), "greet", json.RawMessage(`{"name": "gopher"}`))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out != "hello gopher" {
		t.Errorf("Invoke = %q, want %q", out, "hello gopher")
	}
}

func TestRegistryUnknownTool(t *testing.T) {
	r := NewRegistry()

	_, err := r.Invoke(context.Background(), "missing", nil)
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("Invoke error = %v, want ErrUnknownTool", err)
	}
}

func TestRegistryInvalidArguments(t *testing.T) {
	r := NewRegistry()
	r.Register(greetTool())

	tests := []struct {
		name string
		args string
	}{
		{"missing required field", `{}`},
		{"wrong type", `{"name": 42}`},
		{"unexpected field", `{"name": "x", "extra": true}`},
		{"malformed json", `{"name": `},
	}
	for _, tt := range tests {
		_, err := r.Invoke(context.Background(), "greet", json.RawMessage(tt.args))
		if !errors.Is(err, ErrInvalidArguments) {
			t.Errorf("%s: error = %v, want ErrInvalidArguments", tt.name, err)
		}
	}
}

func TestRegistryHandlerError(t *testing.T) {
	r := NewRegistry()
	r.Register(Definition{Name: "boom", Schema: ObjectSchema(nil)},
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, fmt.Errorf("kaput")
		})

	_, err := r.Invoke(context.Background(), "boom", json.RawMessage(`{}`))
	if err == nil {
		t.Fatal("Invoke succeeded, want handler error")
	}
	if errors.Is(err, ErrInvalidArguments) || errors.Is(err, ErrUnknownTool) {
		t.Errorf("handler error misclassified: %v", err)
	}
}

func TestRegistryResultSerialization(t *testing.T) {
	r := NewRegistry()
	r.Register(Definition{Name: "number", Schema: ObjectSchema(nil)},
		func(_ context.Context, _ map[string]any) (any, error) { return 5.0, nil })
	r.Register(Definition{Name: "payload", Schema: ObjectSchema(nil)},
		func(_ context.Context, _ map[string]any) (any, error) {
			return map[string]string{"title": "Go"}, nil
		})
	r.Register(Definition{Name: "nothing", Schema: ObjectSchema(nil)},
		func(_ context.Context, _ map[string]any) (any, error) { return nil, nil })

	tests := []struct {
		tool string
		want string
	}{
		{"number", "5"},
		{"payload", `{"title":"Go"}`},
		{"nothing", ""},
	}
	for _, tt := range tests {
		out, err := r.Invoke(context.Background(), tt.tool, json.RawMessage(`{}`))
		if err != nil {
			t.Fatalf("Invoke(%s): %v", tt.tool, err)
		}
		if out != tt.want {
			t.Errorf("Invoke(%s) = %q, want %q", tt.tool, out, tt.want)
		}
	}
}

func TestRegistryDefinitions(t *testing.T) {
	r := NewRegistry()
	r.Register(greetTool())
	r.Register(Definition{Name: "other", Schema: ObjectSchema(nil)},
		func(_ context.Context, _ map[string]any) (any, error) { return nil, nil })

	defs := r.Definitions()
	if len(defs) != 2 {
		t.Fatalf("Definitions() = %d entries, want 2", len(defs))
	}
	names := []string{defs[0].Name, defs[1].Name}
	sort.Strings(names)
	if names[0] != "greet" || names[1] != "other" {
		t.Errorf("definition names = %v", names)
	}
	for _, def := range defs {
		if def.Parameters["type"] != "object" {
			t.Errorf("definition %s: parameters type = %v, want object", def.Name, def.Parameters["type"])
		}
	}

	r.Unregister("other")
	if r.Has("other") {
		t.Error("Has(other) = true after Unregister")
	}
}

func TestParseArguments(t *testing.T) {
	args, err := ParseArguments(nil)
	if err != nil {
		t.Fatalf("ParseArguments(nil): %v", err)
	}
	if len(args) != 0 {
		t.Errorf("ParseArguments(nil) = %v, want empty map", args)
	}

	args, err = ParseArguments(json.RawMessage(`null`))
	if err != nil {
		t.Fatalf("ParseArguments(null): %v", err)
	}
	if args == nil {
		t.Error("ParseArguments(null) returned nil map")
	}

	if _, err := ParseArguments(json.RawMessage(`[1, 2]`)); err == nil {
		t.Error("ParseArguments(array) succeeded, want error")
	}
}
