// Package tool implements the tool registry: a mapping from tool name to a
// schema-described handler the model may request to invoke.
//
// Argument validation happens at the registry boundary. An invocation whose
// arguments do not satisfy the declared schema fails with
// ErrInvalidArguments before the handler runs; an unregistered name fails
// with ErrUnknownTool. Handlers may be impure (retrieval, external I/O).
package tool
