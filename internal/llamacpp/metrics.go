package llamacpp

import (
	"context"
	"net/http"
)

// Metrics returns the server's Prometheus exposition text verbatim,
// unparsed.
func (c *Client) Metrics(ctx context.Context) (string, error) {
	return c.doText(ctx, http.MethodGet, "/metrics")
}
