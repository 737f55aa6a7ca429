// Package predict generates short LLM market commentary from computed
// snapshots. It is a best-effort supplement: a missing API key disables it
// instead of degrading the rest of the API.
package predict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"voyager-api/pkg/derivatives"
	"voyager-api/pkg/market"
	"voyager-api/pkg/options"
)

const systemPrompt = "You are a market analyst. You will be given a JSON " +
	"payload describing one symbol: price, recent percentage changes, " +
	"technical indicators, funding metrics, and optionally option-chain " +
	"analytics. Write a short, factual outlook grounded only in the supplied " +
	"numbers. Do not invent data that is absent from the payload. Return JSON " +
	"with: {\"summary\": str, \"bias\": \"bullish\"|\"bearish\"|\"neutral\", " +
	"\"confidence\": float}. The summary should be 1-3 sentences."

// ErrDisabled is returned when commentary is requested without an API key.
var ErrDisabled = errors.New("predict: no API key configured")

// Request bundles the computed metrics the commentary is grounded on.
type Request struct {
	Symbol      string               `json:"symbol"`
	Snapshot    *market.Snapshot     `json:"snapshot,omitempty"`
	Derivatives *derivatives.Summary `json:"derivatives,omitempty"`
	Options     *options.Summary     `json:"options,omitempty"`
}

// Outlook is the parsed commentary result.
type Outlook struct {
	Symbol      string  `json:"symbol"`
	Summary     string  `json:"summary"`
	Bias        string  `json:"bias"`
	Confidence  float64 `json:"confidence"`
	Model       string  `json:"model"`
	GeneratedAt int64   `json:"generatedAt"`
}

// Client produces commentary through the OpenAI chat completions API.
type Client struct {
	config       *Config
	openaiClient *openai.Client
}

// ClientOption configures optional client behaviour.
type ClientOption func(*clientOptions)

type clientOptions struct {
	httpClient   *http.Client
	openaiClient *openai.Client
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *clientOptions) {
		opts.httpClient = client
	}
}

// WithOpenAIClient injects a pre-configured OpenAI client (primarily for testing).
func WithOpenAIClient(client *openai.Client) ClientOption {
	return func(opts *clientOptions) {
		opts.openaiClient = client
	}
}

// NewClient constructs a commentary client. A config without an API key
// yields a client whose Outlook calls return ErrDisabled.
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("predict: config cannot be nil")
	}

	optState := clientOptions{}
	for _, opt := range opts {
		opt(&optState)
	}

	c := &Client{config: cfg}
	if optState.openaiClient != nil {
		c.openaiClient = optState.openaiClient
		return c, nil
	}
	if !cfg.Enabled() {
		return c, nil
	}

	oaOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		oaOpts = append(oaOpts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		oaOpts = append(oaOpts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.MaxRetries > 0 {
		oaOpts = append(oaOpts, option.WithMaxRetries(cfg.MaxRetries))
	}
	if optState.httpClient != nil {
		oaOpts = append(oaOpts, option.WithHTTPClient(optState.httpClient))
	}
	clientVal := openai.NewClient(oaOpts...)
	c.openaiClient = &clientVal
	return c, nil
}

// Enabled reports whether Outlook calls can succeed.
func (c *Client) Enabled() bool {
	return c.openaiClient != nil
}

// Outlook generates commentary for one symbol from its computed metrics.
func (c *Client) Outlook(ctx context.Context, req *Request) (*Outlook, error) {
	if req == nil {
		return nil, errors.New("predict: request cannot be nil")
	}
	if strings.TrimSpace(req.Symbol) == "" {
		return nil, errors.New("predict: symbol must not be empty")
	}
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("predict: encode payload: %w", err)
	}

	jsonObject := shared.NewResponseFormatJSONObjectParam()
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(string(payload)),
		},
		Temperature:         openai.Float(c.config.Temperature),
		MaxCompletionTokens: openai.Int(int64(c.config.MaxTokens)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &jsonObject,
		},
	}

	completion, err := c.openaiClient.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("predict: chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("predict: empty completion")
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	var parsed struct {
		Summary    string  `json:"summary"`
		Bias       string  `json:"bias"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("predict: decode commentary: %w", err)
	}

	bias := strings.ToLower(strings.TrimSpace(parsed.Bias))
	switch bias {
	case "bullish", "bearish", "neutral":
	default:
		bias = "neutral"
	}

	return &Outlook{
		Symbol:      strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Summary:     parsed.Summary,
		Bias:        bias,
		Confidence:  parsed.Confidence,
		Model:       completion.Model,
		GeneratedAt: time.Now().Unix(),
	}, nil
}
