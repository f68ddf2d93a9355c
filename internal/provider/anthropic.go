package provider

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultModel = anthropic.ModelClaude3_7SonnetLatest
	APIVersion   = "2023-06-01"

	// Temperature is fixed for greedy, repeatable tool selection.
	Temperature = 0.0
)

// NewAnthropicClient returns a client for apiKey. Retries are disabled so
// provider failures surface on the first attempt; extra options (HTTP client,
// base URL) are applied last.
func NewAnthropicClient(apiKey string, opts ...option.RequestOption) *anthropic.Client {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	c := anthropic.NewClient(append(base, opts...)...)
	return &c
}
