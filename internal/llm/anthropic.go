package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const (
	anthropicAPIURL  = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"

	// Claude has no JSON switch; the reply is prefilled with "{" instead.
	jsonInstruction = "Responda somente com um objeto JSON válido, sem texto adicional."
)

// AnthropicProvider calls the Claude Messages API.
type AnthropicProvider struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

func NewAnthropicProvider(apiKey string, model string) *AnthropicProvider {
	return &AnthropicProvider{
		apiKey:   apiKey,
		model:    model,
		endpoint: anthropicAPIURL,
		client:   newHTTPClient(),
	}
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

type anthropicTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	System      string          `json:"system,omitempty"`
	Messages    []anthropicTurn `json:"messages"`
}

type anthropicResponse struct {
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *AnthropicProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	in := anthropicRequest{
		Model:       firstNonEmpty(req.Model, p.model),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if in.MaxTokens == 0 {
		in.MaxTokens = 1024
	}

	var system []string
	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		in.Messages = append(in.Messages, anthropicTurn{Role: string(m.Role), Content: m.Content})
	}
	if req.JSONMode {
		system = append(system, jsonInstruction)
		in.Messages = append(in.Messages, anthropicTurn{Role: string(RoleAssistant), Content: "{"})
	}
	in.System = strings.Join(system, "\n\n")

	header := http.Header{}
	header.Set("x-api-key", p.apiKey)
	header.Set("anthropic-version", anthropicVersion)

	var out anthropicResponse
	status, raw, err := postJSON(ctx, p.client, p.endpoint, header, in, &out)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("anthropic %s: %s", out.Error.Type, out.Error.Message)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("anthropic status %d: %s", status, raw)
	}

	var text strings.Builder
	if req.JSONMode {
		text.WriteString("{")
	}
	for _, block := range out.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &CompletionResponse{
		Content:      text.String(),
		InputTokens:  out.Usage.InputTokens,
		OutputTokens: out.Usage.OutputTokens,
		Model:        out.Model,
		FinishReason: out.StopReason,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
