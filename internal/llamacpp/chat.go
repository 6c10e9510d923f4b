package llamacpp

import (
	"context"
	"net/http"

	"llamamcp/pkg/types"
)

// chatRequest is the OpenAI-compatible /v1/chat/completions payload.
// top_k is not part of this endpoint and is never serialized here.
type chatRequest struct {
	Messages    []types.ChatMessage `json:"messages"`
	MaxTokens   int                 `json:"max_tokens"`
	Temperature float64             `json:"temperature"`
	TopP        float64             `json:"top_p"`
	Stop        []string            `json:"stop,omitempty"`
	Seed        *int64              `json:"seed,omitempty"`
}

// Chat runs a chat completion. Defaults: 256 tokens, temperature 0.7,
// top_p 0.9.
func (c *Client) Chat(ctx context.Context, messages []types.ChatMessage, opts ...GenOption) (*types.ChatResult, error) {
	if messages == nil {
		messages = []types.ChatMessage{}
	}
	o := applyGenOpts(genOpts{
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
		topP:        defaultTopP,
	}, opts)

	req := chatRequest{
		Messages:    messages,
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
		TopP:        o.topP,
		Stop:        o.stop,
		Seed:        o.seed,
	}
	var out types.ChatResult
	if err := c.do(ctx, http.MethodPost, "/v1/chat/completions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
