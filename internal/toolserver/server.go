// Package toolserver exposes the llama-server client and the local
// process lifecycle as MCP tools, one tool per capability. Handlers
// are mechanical: typed input in, core call, typed output out; every
// failure surfaces as a tool error for the calling agent to render.
package toolserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"llamamcp/internal/llamacpp"
	"llamamcp/internal/manager"
)

const serverName = "llamamcp"

// Server bundles the two core components the tools delegate to.
type Server struct {
	llama *llamacpp.Client
	proc  *manager.Manager
	log   zerolog.Logger
}

// New wires a tool server to a client and a process manager.
func New(llama *llamacpp.Client, proc *manager.Manager, log zerolog.Logger) *Server {
	return &Server{llama: llama, proc: proc, log: log}
}

// MCPServer builds the MCP server with every tool registered. Input
// schemas are inferred from the typed handler signatures.
func (s *Server) MCPServer(version string) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)

	mcp.AddTool(srv, &mcp.Tool{Name: "health", Description: "Check llama-server health and slot occupancy"}, s.health)
	mcp.AddTool(srv, &mcp.Tool{Name: "props", Description: "Read server properties, or update default generation settings when provided"}, s.props)
	mcp.AddTool(srv, &mcp.Tool{Name: "models_list", Description: "List available models (OpenAI-compatible)"}, s.modelsList)
	mcp.AddTool(srv, &mcp.Tool{Name: "slots", Description: "Inspect per-slot processing state"}, s.slots)
	mcp.AddTool(srv, &mcp.Tool{Name: "metrics", Description: "Fetch raw Prometheus metrics from llama-server"}, s.metrics)
	mcp.AddTool(srv, &mcp.Tool{Name: "tokenize", Description: "Convert text to token ids"}, s.tokenize)
	mcp.AddTool(srv, &mcp.Tool{Name: "detokenize", Description: "Convert token ids back to text"}, s.detokenize)
	mcp.AddTool(srv, &mcp.Tool{Name: "apply_template", Description: "Format chat messages with the server's template without inference"}, s.applyTemplate)
	mcp.AddTool(srv, &mcp.Tool{Name: "completion", Description: "Generate a text completion for a prompt"}, s.completion)
	mcp.AddTool(srv, &mcp.Tool{Name: "chat", Description: "Run an OpenAI-compatible chat completion"}, s.chat)
	mcp.AddTool(srv, &mcp.Tool{Name: "embedding", Description: "Compute the embedding vector for a text"}, s.embedding)
	mcp.AddTool(srv, &mcp.Tool{Name: "infill", Description: "Fill-in-middle completion between a prefix and a suffix"}, s.infill)
	mcp.AddTool(srv, &mcp.Tool{Name: "rerank", Description: "Score documents by relevance to a query"}, s.rerank)
	mcp.AddTool(srv, &mcp.Tool{Name: "model_load", Description: "Load a model on a router-mode server"}, s.modelLoad)
	mcp.AddTool(srv, &mcp.Tool{Name: "model_unload", Description: "Unload a model on a router-mode server"}, s.modelUnload)
	mcp.AddTool(srv, &mcp.Tool{Name: "lora_list", Description: "List LoRA adapters and their scales"}, s.loraList)
	mcp.AddTool(srv, &mcp.Tool{Name: "lora_set", Description: "Set LoRA adapter scales (0 disables an adapter)"}, s.loraSet)
	mcp.AddTool(srv, &mcp.Tool{Name: "server_start", Description: "Spawn a local llama-server process and wait until healthy"}, s.serverStart)
	mcp.AddTool(srv, &mcp.Tool{Name: "server_stop", Description: "Stop the locally spawned llama-server process"}, s.serverStop)

	return srv
}

// Run serves the tools over stdio until ctx is done. Stdout belongs
// to the MCP transport; logs must go to stderr.
func (s *Server) Run(ctx context.Context, version string) error {
	s.log.Info().Str("name", serverName).Str("version", version).Msg("mcp server starting on stdio")
	return s.MCPServer(version).Run(ctx, &mcp.StdioTransport{})
}
