// Package types holds the wire-level records exchanged with a
// llama-server instance, plus the descriptors returned by the local
// process lifecycle operations. The JSON shapes mirror the server's
// endpoints one to one; nothing here is mutated after construction.
package types

// HealthStatus is the readiness value reported by GET /health.
type HealthStatus string

const (
	HealthOK      HealthStatus = "ok"
	HealthLoading HealthStatus = "loading"
	HealthError   HealthStatus = "error"
)

// Health is the response of GET /health.
type Health struct {
	Status          HealthStatus `json:"status"`
	SlotsIdle       int          `json:"slots_idle"`
	SlotsProcessing int          `json:"slots_processing"`
}

// Model is one entry of the OpenAI-compatible GET /v1/models list.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ModelList is the response of GET /v1/models.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// TokenizeResult is the response of POST /tokenize. Pieces is only
// populated when the request asked for piece strings.
type TokenizeResult struct {
	Tokens []int    `json:"tokens"`
	Pieces []string `json:"pieces,omitempty"`
}

// DetokenizeResult is the response of POST /detokenize.
type DetokenizeResult struct {
	Content string `json:"content"`
}

// ChatMessage is one role/content pair, used by chat and
// template application.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TemplateResult is the response of POST /apply-template: the prompt
// the server's chat template would produce. No inference is performed.
type TemplateResult struct {
	Prompt string `json:"prompt"`
}

// Timings are the generation counters llama-server attaches to a
// completion response.
type Timings struct {
	PromptN             int     `json:"prompt_n"`
	PromptMS            float64 `json:"prompt_ms"`
	PromptPerSecond     float64 `json:"prompt_per_second"`
	PredictedN          int     `json:"predicted_n"`
	PredictedMS         float64 `json:"predicted_ms"`
	PredictedPerSecond  float64 `json:"predicted_per_second"`
}

// CompletionResult is the response of POST /completion.
type CompletionResult struct {
	Content            string         `json:"content"`
	Stop               bool           `json:"stop"`
	GenerationSettings map[string]any `json:"generation_settings,omitempty"`
	Timings            Timings        `json:"timings"`
}

// ChatChoice is one choice of an OpenAI-style chat completion.
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatUsage carries OpenAI-style token accounting.
type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResult is the response of POST /v1/chat/completions.
type ChatResult struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   ChatUsage    `json:"usage"`
}

// EmbeddingResult is the response of POST /embedding.
type EmbeddingResult struct {
	Embedding []float64 `json:"embedding"`
}

// InfillResult is the response of POST /infill.
type InfillResult struct {
	Content string `json:"content"`
}

// RerankResult scores one document against the rerank query. Results
// keep the order the server returned them in; the client never
// re-sorts.
type RerankResult struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Adapter is one LoRA adapter as reported by GET /lora-adapters.
// Scale 0 means the adapter is disabled.
type Adapter struct {
	ID    int     `json:"id"`
	Path  string  `json:"path"`
	Scale float64 `json:"scale"`
}

// AdapterScale sets the scale for one adapter id via POST /lora-adapters.
type AdapterScale struct {
	ID    int     `json:"id"`
	Scale float64 `json:"scale"`
}

// StartResult describes a successfully started local server process.
type StartResult struct {
	Status string `json:"status"`
	PID    int    `json:"pid"`
	Model  string `json:"model"`
	Port   int    `json:"port"`
}

// StopResult describes a successfully stopped local server process.
type StopResult struct {
	Status string `json:"status"`
	PID    int    `json:"pid"`
}

// ErrorResponse is the consistent JSON error payload of the admin API.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
