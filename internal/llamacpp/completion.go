package llamacpp

import (
	"context"
	"net/http"

	"llamamcp/pkg/types"
)

// completionRequest is the native /completion payload. The defaulted
// tunables are always serialized; stop and seed only when set.
type completionRequest struct {
	Prompt      string   `json:"prompt"`
	NPredict    int      `json:"n_predict"`
	Temperature float64  `json:"temperature"`
	TopP        float64  `json:"top_p"`
	TopK        int      `json:"top_k"`
	Stop        []string `json:"stop,omitempty"`
	Seed        *int64   `json:"seed,omitempty"`
}

// Complete generates text for a prompt. Defaults: 256 tokens,
// temperature 0.7, top_p 0.9, top_k 40.
func (c *Client) Complete(ctx context.Context, prompt string, opts ...GenOption) (*types.CompletionResult, error) {
	o := applyGenOpts(genOpts{
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
		topP:        defaultTopP,
		topK:        defaultTopK,
	}, opts)

	req := completionRequest{
		Prompt:      prompt,
		NPredict:    o.maxTokens,
		Temperature: o.temperature,
		TopP:        o.topP,
		TopK:        o.topK,
		Stop:        o.stop,
		Seed:        o.seed,
	}
	var out types.CompletionResult
	if err := c.do(ctx, http.MethodPost, "/completion", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
