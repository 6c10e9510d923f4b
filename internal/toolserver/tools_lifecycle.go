package toolserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"llamamcp/internal/manager"
	"llamamcp/pkg/types"
)

type serverStartInput struct {
	Model     string `json:"model"`
	Port      *int   `json:"port,omitempty"`
	CtxSize   *int   `json:"ctx_size,omitempty"`
	GPULayers *int   `json:"gpu_layers,omitempty"`
	Threads   *int   `json:"threads,omitempty"`
}

func (s *Server) serverStart(ctx context.Context, req *mcp.CallToolRequest, in serverStartInput) (*mcp.CallToolResult, types.StartResult, error) {
	p := manager.StartParams{Model: in.Model, GPULayers: in.GPULayers, Threads: in.Threads}
	if in.Port != nil {
		p.Port = *in.Port
	}
	if in.CtxSize != nil {
		p.CtxSize = *in.CtxSize
	}
	res, err := s.proc.Start(ctx, p)
	if err != nil {
		return nil, types.StartResult{}, err
	}
	return nil, *res, nil
}

func (s *Server) serverStop(ctx context.Context, req *mcp.CallToolRequest, in emptyInput) (*mcp.CallToolResult, types.StopResult, error) {
	res, err := s.proc.Stop()
	if err != nil {
		return nil, types.StopResult{}, err
	}
	return nil, *res, nil
}
