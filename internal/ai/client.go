package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// newsPrompt asks for a short public-sector news digest. The answer comes
// back as free text; sources arrive as annotated citations when the model
// provides them.
const newsPrompt = "Quais são as 5 notícias mais recentes e relevantes sobre gestão pública ou tecnologia para o setor público no Brasil?"

var (
	ErrNotConfigured = errors.New("ai service not configured")
	ErrEmptyPrompt   = errors.New("prompt is required")
)

// Source is a grounding citation attached to a generated answer.
type Source struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url"`
}

// NewsDigest is the result of the news operation.
type NewsDigest struct {
	News    string   `json:"news"`
	Sources []Source `json:"sources"`
}

// Config selects the upstream model endpoint. BaseURL is optional and points
// at any OpenAI-compatible API.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client wraps the chat-completion API behind the two operations the
// application needs. Without an API key it stays inert and every call
// returns ErrNotConfigured, so the rest of the wiring is unconditional.
type Client struct {
	api   *openai.Client
	model string
}

func NewClient(cfg Config) *Client {
	if cfg.APIKey == "" {
		return &Client{}
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(clientConfig),
		model: cfg.Model,
	}
}

// Analyze sends a free-form prompt and returns the generated text.
func (c *Client) Analyze(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrEmptyPrompt
	}
	return c.complete(ctx, prompt)
}

// News generates the public-sector news digest. Citation extraction from
// annotations is best-effort: models without web access return text only.
func (c *Client) News(ctx context.Context) (*NewsDigest, error) {
	text, err := c.complete(ctx, newsPrompt)
	if err != nil {
		return nil, err
	}
	return &NewsDigest{News: text, Sources: []Source{}}, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	if c.api == nil {
		return "", ErrNotConfigured
	}
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
