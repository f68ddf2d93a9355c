package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/rs/zerolog"

	"github.com/petasbytes/followup-agent/internal/prompt"
	"github.com/petasbytes/followup-agent/internal/provider"
	"github.com/petasbytes/followup-agent/internal/telemetry"
	"github.com/petasbytes/followup-agent/memory"
	"github.com/petasbytes/followup-agent/tools"
)

// ErrMaxSteps is returned when the model keeps requesting tools past MaxSteps calls.
var ErrMaxSteps = errors.New("runner: no final answer within the step limit")

const (
	defaultMaxTokens = 1024
	defaultMaxSteps  = 8
)

type Runner struct {
	Client    *anthropic.Client
	Tools     []tools.ToolDefinition
	Model     anthropic.Model
	MaxTokens int64
	// MaxSteps bounds model calls per Invoke.
	MaxSteps int
	Log      zerolog.Logger
}

func New(client *anthropic.Client, toolDefs []tools.ToolDefinition) *Runner {
	return &Runner{
		Client:    client,
		Tools:     toolDefs,
		Model:     provider.DefaultModel,
		MaxTokens: defaultMaxTokens,
		MaxSteps:  defaultMaxSteps,
		Log:       zerolog.Nop(),
	}
}

func (r *Runner) anthropicTools() []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(r.Tools))
	for _, t := range r.Tools {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: t.InputSchema,
		}})
	}
	return out
}

// Invoke answers input given the prior turns. It calls the model until a
// response carries no tool calls and returns that response's text. history is
// only read.
func (r *Runner) Invoke(ctx context.Context, input string, history []memory.Turn) (string, error) {
	ctx, _ = telemetry.EnsureTurnID(ctx)
	conv := prompt.Messages(history, input)

	maxSteps := r.MaxSteps
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}

	var earlier []string
	for step := 0; step < maxSteps; step++ {
		msg, toolResults, err := r.RunOneStep(ctx, conv)
		if err != nil {
			return "", err
		}
		text := messageText(msg)
		if len(toolResults) == 0 {
			if strings.TrimSpace(text) == "" {
				// Some replies put all prose before the tool call.
				text = strings.Join(earlier, "\n")
			}
			return text, nil
		}
		if text != "" {
			earlier = append(earlier, text)
		}
		// Provide tool results as a user message back to the model
		conv = append(conv, msg.ToParam(), anthropic.NewUserMessage(toolResults...))
	}
	return "", fmt.Errorf("%w (%d calls)", ErrMaxSteps, maxSteps)
}

// RunOneStep sends the conversation once and executes any requested tools,
// returning their results to be appended as the next user message.
func (r *Runner) RunOneStep(ctx context.Context, conv []anthropic.MessageParam) (*anthropic.Message, []anthropic.ContentBlockParamUnion, error) {
	ctx, turnID := telemetry.EnsureTurnID(ctx)

	maxTokens := r.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:       r.Model,
		MaxTokens:   maxTokens,
		System:      prompt.SystemBlocks(),
		Messages:    conv,
		Temperature: anthropic.Float(provider.Temperature),
		Tools:       r.anthropicTools(),
	}

	start := time.Now()
	msg, err := r.Client.Messages.New(ctx, params)
	if err != nil {
		r.Log.Debug().Err(err).Str("turn_id", turnID).Msg("model call failed")
		return nil, nil, fmt.Errorf("model call: %w", err)
	}
	telemetry.Emit("model_call", map[string]any{
		"turn_id":       turnID,
		"model":         string(r.Model),
		"messages":      len(conv),
		"duration_ms":   time.Since(start).Milliseconds(),
		"stop_reason":   string(msg.StopReason),
		"input_tokens":  msg.Usage.InputTokens,
		"output_tokens": msg.Usage.OutputTokens,
	})
	r.Log.Debug().
		Str("turn_id", turnID).
		Str("stop_reason", string(msg.StopReason)).
		Int("blocks", len(msg.Content)).
		Msg("model responded")

	toolResults := []anthropic.ContentBlockParamUnion{}
	for _, block := range msg.Content {
		if v, ok := block.AsAny().(anthropic.ToolUseBlock); ok {
			// Pass raw JSON input through to the tool implementation
			input := json.RawMessage(v.JSON.Input.Raw())
			toolResults = append(toolResults, r.execTool(ctx, v.ID, v.Name, input))
		}
	}
	return msg, toolResults, nil
}

func (r *Runner) execTool(ctx context.Context, id, name string, input json.RawMessage) anthropic.ContentBlockParamUnion {
	turnID, _ := telemetry.TurnIDFromContext(ctx)

	emit := func(durationMs int64, inputSize int, outputSize int, errStr string) {
		fields := map[string]any{
			"tool_name":   name,
			"duration_ms": durationMs,
			"input_size":  inputSize,
			"output_size": outputSize,
			"turn_id":     turnID,
			"error":       nil,
		}
		if errStr != "" {
			fields["error"] = errStr
		}
		telemetry.Emit("tool_exec", fields)
	}

	start := time.Now()
	inSize := len(input)

	def, ok := tools.Lookup(r.Tools, name)
	if !ok {
		r.Log.Warn().Str("tool", name).Msg("model requested unknown tool")
		emit(time.Since(start).Milliseconds(), inSize, 0, "tool not found")
		return anthropic.NewToolResultBlock(id, fmt.Sprintf("tool %q not found", name), true)
	}

	resp, err := def.Function(input)
	if err != nil {
		// Generic string in telemetry so raw payloads never leak there.
		emit(time.Since(start).Milliseconds(), inSize, 0, "tool error")
		r.Log.Debug().Str("tool", name).Err(err).Msg("tool returned error")
		return anthropic.NewToolResultBlock(id, err.Error(), true)
	}
	emit(time.Since(start).Milliseconds(), inSize, len(resp), "")
	r.Log.Debug().Str("tool", name).Int("output_size", len(resp)).Msg("tool executed")
	return anthropic.NewToolResultBlock(id, resp, false)
}

// messageText joins the visible text blocks of msg.
func messageText(msg *anthropic.Message) string {
	var parts []string
	for _, b := range msg.Content {
		if tb, ok := b.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "\n")
}
