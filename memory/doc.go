// Package memory holds the in-process conversation history.
//
// Model:
//   - Only text turns are kept (role + text). Tool blocks stay inside a single
//     runner invocation and never reach the history.
//   - The history is append-only and lives for the process lifetime; nothing
//     is written to disk.
package memory
