package toolserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"llamamcp/internal/llamacpp"
	"llamamcp/pkg/types"
)

// Optional tunables arrive as pointers so that an explicit zero (for
// example temperature 0) is distinguishable from "not supplied" and
// forwarded unclamped.
type genInput struct {
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	TopK        *int     `json:"top_k,omitempty"`
	Stop        []string `json:"stop,omitempty"`
	Seed        *int64   `json:"seed,omitempty"`
}

// genOptions maps supplied tunables onto client options.
func (in genInput) genOptions() []llamacpp.GenOption {
	var opts []llamacpp.GenOption
	if in.MaxTokens != nil {
		opts = append(opts, llamacpp.WithMaxTokens(*in.MaxTokens))
	}
	if in.Temperature != nil {
		opts = append(opts, llamacpp.WithTemperature(*in.Temperature))
	}
	if in.TopP != nil {
		opts = append(opts, llamacpp.WithTopP(*in.TopP))
	}
	if in.TopK != nil {
		opts = append(opts, llamacpp.WithTopK(*in.TopK))
	}
	if in.Stop != nil {
		opts = append(opts, llamacpp.WithStop(in.Stop...))
	}
	if in.Seed != nil {
		opts = append(opts, llamacpp.WithSeed(*in.Seed))
	}
	return opts
}

type emptyInput struct{}

func (s *Server) health(ctx context.Context, req *mcp.CallToolRequest, in emptyInput) (*mcp.CallToolResult, types.Health, error) {
	h, err := s.llama.Health(ctx)
	if err != nil {
		return nil, types.Health{}, err
	}
	return nil, *h, nil
}

type propsInput struct {
	Settings map[string]any `json:"settings,omitempty"`
}

type propsOutput struct {
	Props map[string]any `json:"props"`
}

func (s *Server) props(ctx context.Context, req *mcp.CallToolRequest, in propsInput) (*mcp.CallToolResult, propsOutput, error) {
	p, err := s.llama.Props(ctx, in.Settings)
	if err != nil {
		return nil, propsOutput{}, err
	}
	return nil, propsOutput{Props: p}, nil
}

func (s *Server) modelsList(ctx context.Context, req *mcp.CallToolRequest, in emptyInput) (*mcp.CallToolResult, types.ModelList, error) {
	list, err := s.llama.ListModels(ctx)
	if err != nil {
		return nil, types.ModelList{}, err
	}
	return nil, *list, nil
}

type slotsOutput struct {
	Slots []map[string]any `json:"slots"`
}

func (s *Server) slots(ctx context.Context, req *mcp.CallToolRequest, in emptyInput) (*mcp.CallToolResult, slotsOutput, error) {
	slots, err := s.llama.Slots(ctx)
	if err != nil {
		return nil, slotsOutput{}, err
	}
	return nil, slotsOutput{Slots: slots}, nil
}

type metricsOutput struct {
	Metrics string `json:"metrics"`
}

func (s *Server) metrics(ctx context.Context, req *mcp.CallToolRequest, in emptyInput) (*mcp.CallToolResult, metricsOutput, error) {
	m, err := s.llama.Metrics(ctx)
	if err != nil {
		return nil, metricsOutput{}, err
	}
	return nil, metricsOutput{Metrics: m}, nil
}

type tokenizeInput struct {
	Content    string `json:"content"`
	AddSpecial *bool  `json:"add_special,omitempty"`
	WithPieces *bool  `json:"with_pieces,omitempty"`
}

func (s *Server) tokenize(ctx context.Context, req *mcp.CallToolRequest, in tokenizeInput) (*mcp.CallToolResult, types.TokenizeResult, error) {
	var opts []llamacpp.TokenizeOption
	if in.AddSpecial != nil && !*in.AddSpecial {
		opts = append(opts, llamacpp.WithoutSpecial())
	}
	if in.WithPieces != nil && *in.WithPieces {
		opts = append(opts, llamacpp.WithPieces())
	}
	res, err := s.llama.Tokenize(ctx, in.Content, opts...)
	if err != nil {
		return nil, types.TokenizeResult{}, err
	}
	return nil, *res, nil
}

type detokenizeInput struct {
	Tokens []int `json:"tokens"`
}

func (s *Server) detokenize(ctx context.Context, req *mcp.CallToolRequest, in detokenizeInput) (*mcp.CallToolResult, types.DetokenizeResult, error) {
	res, err := s.llama.Detokenize(ctx, in.Tokens)
	if err != nil {
		return nil, types.DetokenizeResult{}, err
	}
	return nil, *res, nil
}

type messagesInput struct {
	Messages []types.ChatMessage `json:"messages"`
}

func (s *Server) applyTemplate(ctx context.Context, req *mcp.CallToolRequest, in messagesInput) (*mcp.CallToolResult, types.TemplateResult, error) {
	res, err := s.llama.ApplyTemplate(ctx, in.Messages)
	if err != nil {
		return nil, types.TemplateResult{}, err
	}
	return nil, *res, nil
}

type completionInput struct {
	Prompt string `json:"prompt"`
	genInput
}

func (s *Server) completion(ctx context.Context, req *mcp.CallToolRequest, in completionInput) (*mcp.CallToolResult, types.CompletionResult, error) {
	res, err := s.llama.Complete(ctx, in.Prompt, in.genOptions()...)
	if err != nil {
		return nil, types.CompletionResult{}, err
	}
	return nil, *res, nil
}

type chatInput struct {
	Messages []types.ChatMessage `json:"messages"`
	genInput
}

func (s *Server) chat(ctx context.Context, req *mcp.CallToolRequest, in chatInput) (*mcp.CallToolResult, types.ChatResult, error) {
	res, err := s.llama.Chat(ctx, in.Messages, in.genOptions()...)
	if err != nil {
		return nil, types.ChatResult{}, err
	}
	return nil, *res, nil
}

type embeddingInput struct {
	Content string `json:"content"`
}

func (s *Server) embedding(ctx context.Context, req *mcp.CallToolRequest, in embeddingInput) (*mcp.CallToolResult, types.EmbeddingResult, error) {
	res, err := s.llama.Embedding(ctx, in.Content)
	if err != nil {
		return nil, types.EmbeddingResult{}, err
	}
	return nil, *res, nil
}

type infillInput struct {
	InputPrefix string `json:"input_prefix"`
	InputSuffix string `json:"input_suffix"`
	genInput
}

func (s *Server) infill(ctx context.Context, req *mcp.CallToolRequest, in infillInput) (*mcp.CallToolResult, types.InfillResult, error) {
	res, err := s.llama.Infill(ctx, in.InputPrefix, in.InputSuffix, in.genOptions()...)
	if err != nil {
		return nil, types.InfillResult{}, err
	}
	return nil, *res, nil
}

type rerankInput struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
}

type rerankOutput struct {
	Results []types.RerankResult `json:"results"`
}

func (s *Server) rerank(ctx context.Context, req *mcp.CallToolRequest, in rerankInput) (*mcp.CallToolResult, rerankOutput, error) {
	res, err := s.llama.Rerank(ctx, in.Query, in.Documents)
	if err != nil {
		return nil, rerankOutput{}, err
	}
	return nil, rerankOutput{Results: res}, nil
}

type modelInput struct {
	Model string `json:"model"`
}

type statusOutput struct {
	Status string `json:"status"`
}

func (s *Server) modelLoad(ctx context.Context, req *mcp.CallToolRequest, in modelInput) (*mcp.CallToolResult, statusOutput, error) {
	if err := s.llama.LoadModel(ctx, in.Model); err != nil {
		return nil, statusOutput{}, err
	}
	return nil, statusOutput{Status: "loaded"}, nil
}

func (s *Server) modelUnload(ctx context.Context, req *mcp.CallToolRequest, in modelInput) (*mcp.CallToolResult, statusOutput, error) {
	if err := s.llama.UnloadModel(ctx, in.Model); err != nil {
		return nil, statusOutput{}, err
	}
	return nil, statusOutput{Status: "unloaded"}, nil
}

type adaptersOutput struct {
	Adapters []types.Adapter `json:"adapters"`
}

func (s *Server) loraList(ctx context.Context, req *mcp.CallToolRequest, in emptyInput) (*mcp.CallToolResult, adaptersOutput, error) {
	res, err := s.llama.ListAdapters(ctx)
	if err != nil {
		return nil, adaptersOutput{}, err
	}
	return nil, adaptersOutput{Adapters: res}, nil
}

type loraSetInput struct {
	Adapters []types.AdapterScale `json:"adapters"`
}

func (s *Server) loraSet(ctx context.Context, req *mcp.CallToolRequest, in loraSetInput) (*mcp.CallToolResult, adaptersOutput, error) {
	res, err := s.llama.SetAdapters(ctx, in.Adapters)
	if err != nil {
		return nil, adaptersOutput{}, err
	}
	return nil, adaptersOutput{Adapters: res}, nil
}
