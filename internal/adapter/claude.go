package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/set-night/mindlink/internal/domain"
)

type claudeAdapter struct{}

type claudeRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	System      string        `json:"system,omitempty"`
	Messages    []wireMessage `json:"messages"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeResponse struct {
	ID      string          `json:"id"`
	Model   string          `json:"model"`
	Content []claudeContent `json:"content"`
	Usage   struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (claudeAdapter) Authorize(h http.Header, token domain.Secret) {
	h.Set("x-api-key", token.Expose())
	h.Set("anthropic-version", domain.FamilyClaude.APIVersion())
}

func (claudeAdapter) BuildPayload(history []domain.MessageBundle, next domain.Message, cfg domain.ModelConfig) ([]byte, error) {
	req := claudeRequest{
		Model:       cfg.Provider.ModelID(),
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		System:      cfg.SystemPrompt,
		Messages:    wireMessages(cfg.Provider, history, next),
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal claude request: %w", err)
	}
	return payload, nil
}

func (claudeAdapter) ParseResponse(body []byte, _ domain.ModelConfig) (domain.Message, domain.Usage, error) {
	var resp claudeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Message{}, domain.Usage{}, fmt.Errorf("parse claude response: %w", err)
	}
	if len(resp.Content) == 0 {
		return domain.Message{}, domain.Usage{}, fmt.Errorf("parse claude response: %w", domain.ErrEmptyContent)
	}

	last := resp.Content[len(resp.Content)-1]
	usage := domain.Usage{InputTokens: resp.Usage.InputTokens, OutputTokens: resp.Usage.OutputTokens}
	return domain.FromAssistant(last.Text), usage, nil
}
