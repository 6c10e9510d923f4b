package llamacpp

import (
	"context"
	"net/http"
)

// propsRequest wraps updated settings under the key llama-server
// expects for POST /props.
type propsRequest struct {
	DefaultGenerationSettings map[string]any `json:"default_generation_settings"`
}

// Props reads the server properties. When settings is non-nil the
// call becomes a write: the settings are submitted as the new default
// generation settings and the resulting properties are returned.
func (c *Client) Props(ctx context.Context, settings map[string]any) (map[string]any, error) {
	var out map[string]any
	if settings == nil {
		if err := c.do(ctx, http.MethodGet, "/props", nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	if err := c.do(ctx, http.MethodPost, "/props", propsRequest{DefaultGenerationSettings: settings}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
