package memory

// Role identifies who produced a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Turn is a single text message in the conversation.
type Turn struct {
	Role Role
	Text string
}

// History is an append-only sequence of turns with a single writer.
// The zero value is an empty history ready to use.
type History struct {
	turns []Turn
}

// Append adds a turn at the end of the history.
func (h *History) Append(role Role, text string) {
	h.turns = append(h.turns, Turn{Role: role, Text: text})
}

// AppendExchange records a completed exchange: the user input first, then the agent reply.
func (h *History) AppendExchange(input, output string) {
	h.Append(RoleUser, input)
	h.Append(RoleAgent, output)
}

// Turns returns a copy of all turns, oldest first.
func (h *History) Turns() []Turn {
	if len(h.turns) == 0 {
		return nil
	}
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

func (h *History) Len() int { return len(h.turns) }
