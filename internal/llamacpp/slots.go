package llamacpp

import (
	"context"
	"net/http"
)

// Slots returns the per-slot state array. The entry shape varies
// across llama-server builds, so it is passed through undecoded
// beyond generic JSON.
func (c *Client) Slots(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.do(ctx, http.MethodGet, "/slots", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
