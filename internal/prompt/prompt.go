// Package prompt builds the model input: fixed instructions, prior turns, then
// the current user turn.
package prompt

import (
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/petasbytes/followup-agent/memory"
)

// System is the fixed instruction text sent with every request.
const System = `You are a helpful personal assistant specializing in project management tasks, especially follow-ups.
Your goal is to help a Senior Director in Engineering Project and Program Management automate repetitive tasks.
You have access to tools to help with this.
When asked to send a follow-up, use the 'send_email' tool.
Be concise and professional in your email content.`

// SystemBlocks returns System in the shape expected by the Messages API.
func SystemBlocks() []anthropic.TextBlockParam {
	return []anthropic.TextBlockParam{{Text: System}}
}

// Blank stands in for a turn with no visible text; the API rejects empty and
// whitespace-only text blocks.
const Blank = "(empty message)"

// Messages maps history followed by input onto API messages, one message per
// turn so user and assistant roles keep alternating.
func Messages(history []memory.Turn, input string) []anthropic.MessageParam {
	conv := make([]anthropic.MessageParam, 0, len(history)+1)
	for _, t := range history {
		switch t.Role {
		case memory.RoleUser:
			conv = append(conv, anthropic.NewUserMessage(textBlock(t.Text)))
		case memory.RoleAgent:
			conv = append(conv, anthropic.NewAssistantMessage(textBlock(t.Text)))
		}
	}
	return append(conv, anthropic.NewUserMessage(textBlock(input)))
}

func textBlock(s string) anthropic.ContentBlockParamUnion {
	if strings.TrimSpace(s) == "" {
		s = Blank
	}
	return anthropic.NewTextBlock(s)
}
