// Package llm defines the conversation data model and the Caller interface
// used to talk to chat-completion providers.
//
// A Caller performs exactly one provider request per Call invocation; it
// never retries internally. Higher layers (the agent loop, the evaluation
// runner) decide whether a provider failure is fatal.
//
// Two production backends are provided: GollmCaller routes through the gollm
// multi-provider SDK, and OpenAICaller talks to the OpenAI chat completions
// API directly. ScriptedCaller replays a fixed sequence of responses and is
// the backbone of deterministic loop tests and dry runs.
package llm
