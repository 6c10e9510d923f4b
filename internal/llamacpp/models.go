package llamacpp

import (
	"context"
	"net/http"

	"llamamcp/pkg/types"
)

// modelRequest names a model for the router-mode load/unload calls.
type modelRequest struct {
	Model string `json:"model"`
}

// ListModels returns the OpenAI-compatible model list.
func (c *Client) ListModels(ctx context.Context) (*types.ModelList, error) {
	var out types.ModelList
	if err := c.do(ctx, http.MethodGet, "/v1/models", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoadModel asks a router-mode server to load the named model.
// Success is the absence of an error.
func (c *Client) LoadModel(ctx context.Context, model string) error {
	return c.do(ctx, http.MethodPost, "/models/load", modelRequest{Model: model}, nil)
}

// UnloadModel asks a router-mode server to unload the named model.
func (c *Client) UnloadModel(ctx context.Context, model string) error {
	return c.do(ctx, http.MethodPost, "/models/unload", modelRequest{Model: model}, nil)
}
