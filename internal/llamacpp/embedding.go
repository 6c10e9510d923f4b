package llamacpp

import (
	"context"
	"net/http"

	"llamamcp/pkg/types"
)

type embeddingRequest struct {
	Content string `json:"content"`
}

// Embedding returns the embedding vector for content. Empty content
// is forwarded as-is.
func (c *Client) Embedding(ctx context.Context, content string) (*types.EmbeddingResult, error) {
	var out types.EmbeddingResult
	if err := c.do(ctx, http.MethodPost, "/embedding", embeddingRequest{Content: content}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
