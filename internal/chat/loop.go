// Package chat runs the operator-facing read/dispatch/print loop.
package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/petasbytes/followup-agent/internal/telemetry"
	"github.com/petasbytes/followup-agent/memory"
)

const (
	DefaultExitKeyword = "exit"

	Banner     = "Personal AI Assistant (Type 'exit' to quit)"
	UserPrompt = "\u001b[94mYou\u001b[0m: "
	agentLabel = "\u001b[93mAgent\u001b[0m: "
)

// Agent produces one final reply for an input given the prior turns.
type Agent interface {
	Invoke(ctx context.Context, input string, history []memory.Turn) (string, error)
}

// Loop reads one line at a time from In and answers on Out. History is
// appended to only after a successful exchange.
type Loop struct {
	In      io.Reader
	Out     io.Writer
	Agent   Agent
	History *memory.History
	// ExitKeyword ends the loop when entered in any letter casing.
	ExitKeyword string
	Log         zerolog.Logger
}

// New returns a loop over in/out with a fresh history.
func New(in io.Reader, out io.Writer, agent Agent) *Loop {
	return &Loop{
		In:          in,
		Out:         out,
		Agent:       agent,
		History:     &memory.History{},
		ExitKeyword: DefaultExitKeyword,
		Log:         zerolog.Nop(),
	}
}

// Run blocks until the exit keyword, end of input, an agent error, or ctx
// cancellation. Errors are returned unchanged and leave the history untouched.
// Turns are strictly sequential: the next line is only taken after the
// previous reply has been printed and recorded.
func (l *Loop) Run(ctx context.Context) error {
	if l.History == nil {
		l.History = &memory.History{}
	}
	keyword := l.ExitKeyword
	if keyword == "" {
		keyword = DefaultExitKeyword
	}

	done := make(chan struct{})
	defer close(done)
	lines, readErr := readLines(l.In, done)

	fmt.Fprintln(l.Out, Banner)
	for {
		fmt.Fprint(l.Out, UserPrompt)

		var (
			input string
			ok    bool
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case input, ok = <-lines:
		}
		if !ok {
			if err := <-readErr; err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		}
		if IsExit(input, keyword) {
			return nil
		}

		output, err := l.dispatch(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintf(l.Out, "%s%s\n", agentLabel, output)
	}
}

// readLines feeds r line by line so a blocked read never holds up
// cancellation. readErr receives the scanner error once lines is closed at
// end of input.
func readLines(r io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()
	return lines, readErr
}

func (l *Loop) dispatch(ctx context.Context, input string) (string, error) {
	turnID := telemetry.NewTurnID()
	ctx = telemetry.WithTurnID(ctx, turnID)
	telemetry.EmitLocalFeatures(ctx, input)

	l.Log.Debug().Str("turn_id", turnID).Int("history", l.History.Len()).Msg("dispatching turn")
	output, err := l.Agent.Invoke(ctx, input, l.History.Turns())
	if err != nil {
		return "", err
	}
	l.History.AppendExchange(input, output)
	return output, nil
}

// IsExit reports whether line is the exit keyword in any letter casing.
// Surrounding whitespace makes it an ordinary input.
func IsExit(line, keyword string) bool {
	return strings.EqualFold(line, keyword)
}
