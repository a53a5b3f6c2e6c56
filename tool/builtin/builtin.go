// Package builtin provides ready-made tools: arithmetic, random numbers,
// web search, knowledge-base lookup, and the terminal answer tool.
//
// Each constructor returns a tool.Definition and its tool.Handler so the
// caller decides which tools a given agent registers.
package builtin
