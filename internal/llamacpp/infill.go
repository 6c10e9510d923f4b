package llamacpp

import (
	"context"
	"net/http"

	"llamamcp/pkg/types"
)

// infillRequest is the fill-in-middle payload. Only the tunables
// /infill supports are serialized; top_p, top_k and seed options are
// ignored here.
type infillRequest struct {
	InputPrefix string   `json:"input_prefix"`
	InputSuffix string   `json:"input_suffix"`
	NPredict    int      `json:"n_predict"`
	Temperature float64  `json:"temperature"`
	Stop        []string `json:"stop,omitempty"`
}

// Infill generates text to insert between prefix and suffix.
// Defaults: 256 tokens, temperature 0.7.
func (c *Client) Infill(ctx context.Context, prefix, suffix string, opts ...GenOption) (*types.InfillResult, error) {
	o := applyGenOpts(genOpts{
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
	}, opts)

	req := infillRequest{
		InputPrefix: prefix,
		InputSuffix: suffix,
		NPredict:    o.maxTokens,
		Temperature: o.temperature,
		Stop:        o.stop,
	}
	var out types.InfillResult
	if err := c.do(ctx, http.MethodPost, "/infill", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
