package llamacpp

import (
	"context"
	"net/http"

	"llamamcp/pkg/types"
)

// ListAdapters returns the loaded LoRA adapters with their current
// scales.
func (c *Client) ListAdapters(ctx context.Context) ([]types.Adapter, error) {
	var out []types.Adapter
	if err := c.do(ctx, http.MethodGet, "/lora-adapters", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetAdapters applies new scales and returns the updated adapter
// list. The request body is a bare array, matching the endpoint.
func (c *Client) SetAdapters(ctx context.Context, scales []types.AdapterScale) ([]types.Adapter, error) {
	if scales == nil {
		scales = []types.AdapterScale{}
	}
	var out []types.Adapter
	if err := c.do(ctx, http.MethodPost, "/lora-adapters", scales, &out); err != nil {
		return nil, err
	}
	return out, nil
}
