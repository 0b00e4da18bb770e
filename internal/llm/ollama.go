package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// OllamaProvider talks to a local Ollama daemon, handy when working on the
// prompts without an API key.
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllamaProvider(baseURL string, model string) *OllamaProvider {
	return &OllamaProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  newHTTPClient(),
	}
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
	Options  struct {
		Temperature float64 `json:"temperature"`
		NumPredict  int     `json:"num_predict,omitempty"`
	} `json:"options"`
}

type ollamaChatResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	DoneReason      string        `json:"done_reason"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
	Error           string        `json:"error"`
}

func (p *OllamaProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	in := ollamaChatRequest{Model: firstNonEmpty(req.Model, p.model)}
	in.Options.Temperature = req.Temperature
	in.Options.NumPredict = req.MaxTokens
	if req.JSONMode {
		in.Format = "json"
	}
	for _, m := range req.Messages {
		in.Messages = append(in.Messages, ollamaMessage{Role: string(m.Role), Content: m.Content})
	}

	var out ollamaChatResponse
	status, raw, err := postJSON(ctx, p.client, p.baseURL+"/api/chat", nil, in, &out)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	if status != http.StatusOK {
		if out.Error != "" {
			return nil, fmt.Errorf("ollama status %d: %s", status, out.Error)
		}
		return nil, fmt.Errorf("ollama status %d: %s", status, raw)
	}

	return &CompletionResponse{
		Content:      out.Message.Content,
		InputTokens:  out.PromptEvalCount,
		OutputTokens: out.EvalCount,
		Model:        out.Model,
		FinishReason: out.DoneReason,
	}, nil
}
