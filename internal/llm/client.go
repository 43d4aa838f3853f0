package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenRouter speaks the OpenAI-compatible chat completions API. The default
// base URL targets openrouter.ai; any compatible endpoint works.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

const (
	callTimeout = 30 * time.Second
	temperature = 0.1
	maxTokens   = 4000
)

// Client issues chat completions against an OpenAI-compatible endpoint,
// rate-limited per model. Model and credential vary per call because the
// orchestrator rotates both across a pool.
type Client struct {
	baseURL string
	httpc   *http.Client
	limiter *ModelLimiter
}

func NewClient(baseURL string, rps float64, burst int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: callTimeout},
		limiter: NewModelLimiter(rps, burst),
	}
}

// Call sends one system+user completion request and returns the model's
// text output.
func (c *Client) Call(ctx context.Context, model, credential, system, user string) (string, error) {
	if err := c.limiter.Wait(ctx, model); err != nil {
		return "", err
	}

	lc, err := openai.New(
		openai.WithToken(credential),
		openai.WithModel(model),
		openai.WithBaseURL(c.baseURL),
		openai.WithHTTPClient(c.httpc),
	)
	if err != nil {
		return "", fmt.Errorf("init model client: %w", err)
	}

	resp, err := lc.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, system),
			llms.TextParts(llms.ChatMessageTypeHuman, user),
		},
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from %s", model)
	}
	return resp.Choices[0].Content, nil
}
