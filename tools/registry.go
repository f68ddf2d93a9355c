package tools

import "io"

// Registry returns all tool definitions wired for the agent. Simulated sends
// are printed to out.
func Registry(out io.Writer) []ToolDefinition {
	return []ToolDefinition{NewSendEmailDefinition(out)}
}

// Lookup resolves a tool call by name.
func Lookup(defs []ToolDefinition, name string) (ToolDefinition, bool) {
	for _, d := range defs {
		if d.Name == name {
			return d, true
		}
	}
	return ToolDefinition{}, false
}
