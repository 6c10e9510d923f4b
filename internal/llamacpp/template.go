package llamacpp

import (
	"context"
	"net/http"

	"llamamcp/pkg/types"
)

type templateRequest struct {
	Messages []types.ChatMessage `json:"messages"`
}

// ApplyTemplate formats messages with the server's chat template and
// returns the resulting prompt. No inference happens.
func (c *Client) ApplyTemplate(ctx context.Context, messages []types.ChatMessage) (*types.TemplateResult, error) {
	if messages == nil {
		messages = []types.ChatMessage{}
	}
	var out types.TemplateResult
	if err := c.do(ctx, http.MethodPost, "/apply-template", templateRequest{Messages: messages}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
