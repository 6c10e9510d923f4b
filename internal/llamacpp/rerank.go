package llamacpp

import (
	"context"
	"net/http"

	"llamamcp/pkg/types"
)

type rerankRequest struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
}

type rerankResponse struct {
	Results []types.RerankResult `json:"results"`
}

// Rerank scores documents against a query. Results keep the server's
// order; an empty document list yields an empty result list.
func (c *Client) Rerank(ctx context.Context, query string, documents []string) ([]types.RerankResult, error) {
	if documents == nil {
		documents = []string{}
	}
	var out rerankResponse
	if err := c.do(ctx, http.MethodPost, "/reranking", rerankRequest{Query: query, Documents: documents}, &out); err != nil {
		return nil, err
	}
	if out.Results == nil {
		return []types.RerankResult{}, nil
	}
	return out.Results, nil
}
