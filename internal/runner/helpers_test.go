package runner_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/petasbytes/followup-agent/internal/provider"
	"github.com/petasbytes/followup-agent/internal/telemetry"
)

// fakeTransport replays canned responses in order and records request bodies.
// The last response repeats once the script runs out.
type fakeTransport struct {
	mu         sync.Mutex
	respStatus int
	responses  []string
	bodies     [][]byte
}

func newFake(responses ...string) *fakeTransport {
	return &fakeTransport{respStatus: 200, responses: responses}
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	b, _ := io.ReadAll(req.Body)
	_ = req.Body.Close()

	f.mu.Lock()
	idx := len(f.bodies)
	f.bodies = append(f.bodies, b)
	f.mu.Unlock()

	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	resp := &http.Response{
		StatusCode: f.respStatus,
		Body:       io.NopCloser(strings.NewReader(f.responses[idx])),
		Header:     make(http.Header),
		Request:    req,
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

func (f *fakeTransport) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bodies)
}

func newClientWithTransport(rt http.RoundTripper) *anthropic.Client {
	// Base URL is irrelevant since transport intercepts
	return provider.NewAnthropicClient("test-key", option.WithHTTPClient(&http.Client{Transport: rt}))
}

type contentItem struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
}

type reqBody struct {
	Model       string   `json:"model"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature *float64 `json:"temperature"`
	System      []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"system"`
	Tools []struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		InputSchema map[string]any `json:"input_schema"`
	} `json:"tools"`
	Messages []struct {
		Role    string        `json:"role"`
		Content []contentItem `json:"content"`
	} `json:"messages"`
}

func decodeReq(t *testing.T, b []byte) reqBody {
	t.Helper()
	var rb reqBody
	if err := json.Unmarshal(b, &rb); err != nil {
		t.Fatalf("unmarshal body: %v\nbody=%s", err, string(b))
	}
	return rb
}

// resultText flattens a tool_result content payload (string or text blocks).
func resultText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var blocks []struct {
		Text string `json:"text"`
	}
	_ = json.Unmarshal(raw, &blocks)
	var out bytes.Buffer
	for _, b := range blocks {
		out.WriteString(b.Text)
	}
	return out.String()
}

func enableTelemetry(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	telemetry.Configure(telemetry.Options{Enabled: true, Dir: dir})
	t.Cleanup(func() { telemetry.Configure(telemetry.Options{}) })
	return dir
}

func readEvents(t *testing.T) []map[string]any {
	t.Helper()
	data, err := readFileIfExists(telemetry.Path())
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func readFileIfExists(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return b, err
}

func lastEvent(events []map[string]any, name string) map[string]any {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i]["event"] == name {
			return events[i]
		}
	}
	return nil
}

const textResp = `{"id":"msg_1","type":"message","role":"assistant","stop_reason":"end_turn",
	"content":[{"type":"text","text":"All done."}]}`

const sendEmailToolUse = `{"id":"msg_0","type":"message","role":"assistant","stop_reason":"tool_use",
	"content":[
		{"type":"text","text":"I'll send that follow-up now."},
		{"type":"tool_use","id":"t1","name":"send_email","input":{"recipient":"John Doe","subject":"Follow-up: Integration Demo Action Item","body":"Hi John,\nPlease complete the demo by Friday."}}
	]}`
