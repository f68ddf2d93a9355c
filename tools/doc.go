// Package tools defines tool contracts and implementations.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - send_email: a simulated email send that prints to a writer and cannot fail.
//   - Lookup: name -> definition dispatch used by the runner.
package tools
