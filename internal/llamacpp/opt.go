package llamacpp

// Endpoint defaults applied when the caller does not override them.
// They match llama-server's documented generation defaults.
const (
	defaultMaxTokens   = 256
	defaultTemperature = 0.7
	defaultTopP        = 0.9
	defaultTopK        = 40
)

// genOpts is the merged set of generation tunables. Each generating
// method seeds it with its own defaults, then applies caller options
// in order; the last option for a field wins. Explicit values are
// passed through as-is, including zeros.
type genOpts struct {
	maxTokens   int
	temperature float64
	topP        float64
	topK        int
	stop        []string
	seed        *int64
}

// GenOption overrides one generation tunable.
type GenOption func(*genOpts)

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) GenOption {
	return func(o *genOpts) { o.maxTokens = n }
}

// WithTemperature sets the sampling temperature. 0 and 2 are valid
// extremes and are forwarded unclamped.
func WithTemperature(t float64) GenOption {
	return func(o *genOpts) { o.temperature = t }
}

// WithTopP sets the nucleus sampling threshold.
func WithTopP(p float64) GenOption {
	return func(o *genOpts) { o.topP = p }
}

// WithTopK limits sampling to the top K candidate tokens. Ignored by
// endpoints that do not support it (chat, infill).
func WithTopK(k int) GenOption {
	return func(o *genOpts) { o.topK = k }
}

// WithStop sets stop sequences; generation halts when any matches.
func WithStop(stop ...string) GenOption {
	return func(o *genOpts) { o.stop = stop }
}

// WithSeed fixes the random seed for reproducible output.
func WithSeed(seed int64) GenOption {
	return func(o *genOpts) { o.seed = &seed }
}

func applyGenOpts(defaults genOpts, opts []GenOption) genOpts {
	o := defaults
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// tokenizeOpts holds the /tokenize flags.
type tokenizeOpts struct {
	addSpecial bool
	withPieces bool
}

// TokenizeOption overrides one tokenize flag.
type TokenizeOption func(*tokenizeOpts)

// WithoutSpecial disables insertion of special tokens (BOS etc.)
// during tokenization. The server default is to add them.
func WithoutSpecial() TokenizeOption {
	return func(o *tokenizeOpts) { o.addSpecial = false }
}

// WithPieces requests the textual piece for each token id alongside
// the ids.
func WithPieces() TokenizeOption {
	return func(o *tokenizeOpts) { o.withPieces = true }
}
