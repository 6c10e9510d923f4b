package llamacpp

import (
	"context"
	"net/http"

	"llamamcp/pkg/types"
)

type tokenizeRequest struct {
	Content    string `json:"content"`
	AddSpecial bool   `json:"add_special"`
	WithPieces bool   `json:"with_pieces"`
}

type detokenizeRequest struct {
	Tokens []int `json:"tokens"`
}

// Tokenize converts content to token ids. Special tokens are added
// by default; piece strings are omitted unless requested.
func (c *Client) Tokenize(ctx context.Context, content string, opts ...TokenizeOption) (*types.TokenizeResult, error) {
	o := tokenizeOpts{addSpecial: true, withPieces: false}
	for _, opt := range opts {
		opt(&o)
	}
	var out types.TokenizeResult
	req := tokenizeRequest{Content: content, AddSpecial: o.addSpecial, WithPieces: o.withPieces}
	if err := c.do(ctx, http.MethodPost, "/tokenize", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Detokenize reconstructs text from token ids. The id array is
// forwarded exactly as given.
func (c *Client) Detokenize(ctx context.Context, tokens []int) (*types.DetokenizeResult, error) {
	if tokens == nil {
		tokens = []int{}
	}
	var out types.DetokenizeResult
	if err := c.do(ctx, http.MethodPost, "/detokenize", detokenizeRequest{Tokens: tokens}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
