package llamacpp

import (
	"context"
	"net/http"

	"llamamcp/pkg/types"
)

// Health reports the server's readiness and slot occupancy.
func (c *Client) Health(ctx context.Context) (*types.Health, error) {
	var out types.Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
