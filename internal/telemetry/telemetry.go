// Package telemetry writes structured JSONL events about each turn.
//
// Events never carry raw user text or tool payloads, only sizes, names,
// durations and the turn id.
package telemetry

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// DefaultDir is where events.jsonl is written unless configured otherwise.
const DefaultDir = ".agent"

// Options controls event emission. Emission is off until Configure enables it.
type Options struct {
	Enabled bool
	Dir     string
	// Log receives write failures; events themselves never go here. Nil discards them.
	Log *zerolog.Logger
}

var (
	nop  = zerolog.Nop()
	opts = Options{Dir: DefaultDir, Log: &nop}
)

// Configure replaces the package options. Call once at startup; tests may call it again.
func Configure(o Options) {
	if o.Dir == "" {
		o.Dir = DefaultDir
	}
	if o.Log == nil {
		o.Log = &nop
	}
	opts = o
}

// Enabled reports whether JSONL emission is on.
func Enabled() bool { return opts.Enabled }

// Path returns the events file location.
func Path() string { return filepath.Join(opts.Dir, "events.jsonl") }

// Emit appends a single JSON line to events.jsonl. It augments fields with an
// RFC3339Nano time and the event name; those two keys cannot be overridden.
func Emit(name string, fields map[string]any) {
	if !opts.Enabled {
		return
	}

	// Copy so callers' maps aren't mutated.
	m := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == "time" || k == "event" {
			continue
		}
		m[k] = v
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		opts.Log.Warn().Err(err).Str("dir", opts.Dir).Msg("telemetry: mkdir")
		return
	}

	path := Path()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		opts.Log.Warn().Err(err).Str("path", path).Msg("telemetry: open")
		return
	}
	defer f.Close()

	logger := zerolog.New(f)
	logger.Log().
		Str("time", time.Now().UTC().Format(time.RFC3339Nano)).
		Str("event", name).
		Fields(m).
		Send()
}
