// Package runner is the agent-execution runtime: it exchanges messages with
// the Anthropic Messages API and dispatches tool calls until the model answers
// in plain text.
//
// Invariant:
//   - tool_use and the corresponding tool_result are kept adjacent within a turn
//     to preserve execution context and simplify follow-up reasoning.
//   - tool blocks live only inside one Invoke call; callers see the final text.
//
// Flow:
//
//	user(text) -> assistant(tool_use) -> user(tool_result) -> assistant(text)
package runner
