package openai_provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studypal/internal/httpx"
	"studypal/models"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// Options configures the OpenAI-compatible client.
type Options struct {
	APIKey          string
	BaseURL         string
	CompletionModel string
	EmbeddingModel  string
	Temperature     float64
	MaxTokens       int
	Timeout         time.Duration
	MaxRetries      int
}

// Client talks to any endpoint speaking the OpenAI wire format (Groq,
// OpenAI, local inference servers). Embedding calls retry on transient
// failures; completion calls do not, the caller surfaces those.
type Client struct {
	apiKey          string
	baseURL         string
	completionModel string
	embeddingModel  string
	temperature     float64
	maxTokens       int
	chatClient      *httpx.Client
	embedClient     *httpx.Client
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// New creates a new OpenAI-compatible client
func New(opts Options) *Client {
	base := strings.TrimSuffix(opts.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		apiKey:          opts.APIKey,
		baseURL:         base,
		completionModel: opts.CompletionModel,
		embeddingModel:  opts.EmbeddingModel,
		temperature:     opts.Temperature,
		maxTokens:       opts.MaxTokens,
		chatClient:      httpx.NewClient(opts.Timeout, 0, 0),
		embedClient:     httpx.NewClient(opts.Timeout, opts.MaxRetries, 0),
	}
}

func (c *Client) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.apiKey}
}

// CreateEmbedding generates an embedding per input text.
func (c *Client) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp embeddingResponse
	req := embeddingRequest{Model: c.embeddingModel, Input: texts}
	if err := c.embedClient.DoJSON(ctx, "POST", c.baseURL+"/embeddings", c.headers(), req, &resp); err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings response: expected %d vectors, got %d", len(texts), len(resp.Data))
	}

	vecs := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vecs) {
			return nil, fmt.Errorf("embeddings response: index %d out of range", d.Index)
		}
		vecs[d.Index] = d.Embedding
	}
	return vecs, nil
}

// ChatCompletion sends the messages to the completions endpoint and returns
// the first choice.
func (c *Client) ChatCompletion(ctx context.Context, messages []models.Message) (string, error) {
	msgs := make([]message, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, message{Role: string(m.Role), Content: m.Content})
	}
	req := completionRequest{
		Model:       c.completionModel,
		Messages:    msgs,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	var resp completionResponse
	if err := c.chatClient.DoJSON(ctx, "POST", c.baseURL+"/chat/completions", c.headers(), req, &resp); err != nil {
		return "", fmt.Errorf("chat completions request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completions response: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
