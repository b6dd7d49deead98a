package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/set-night/mindlink/internal/domain"
)

// chatGPTAdapter sends no system field: a system prompt is already the
// first history entry of a ChatGPT session.
type chatGPTAdapter struct{}

type chatGPTRequest struct {
	Model               string        `json:"model"`
	MaxCompletionTokens int           `json:"max_completion_tokens"`
	Temperature         float64       `json:"temperature"`
	Messages            []wireMessage `json:"messages"`
}

type chatGPTChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string  `json:"role"`
		Content *string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type chatGPTResponse struct {
	ID      string          `json:"id"`
	Model   string          `json:"model"`
	Choices []chatGPTChoice `json:"choices"`
	Usage   struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (chatGPTAdapter) Authorize(h http.Header, token domain.Secret) {
	h.Set("Authorization", "Bearer "+token.Expose())
}

func (chatGPTAdapter) BuildPayload(history []domain.MessageBundle, next domain.Message, cfg domain.ModelConfig) ([]byte, error) {
	req := chatGPTRequest{
		Model:               cfg.Provider.ModelID(),
		MaxCompletionTokens: cfg.MaxTokens,
		Temperature:         cfg.Temperature,
		Messages:            wireMessages(cfg.Provider, history, next),
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal chatgpt request: %w", err)
	}
	return payload, nil
}

func (chatGPTAdapter) ParseResponse(body []byte, _ domain.ModelConfig) (domain.Message, domain.Usage, error) {
	var resp chatGPTResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Message{}, domain.Usage{}, fmt.Errorf("parse chatgpt response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Message{}, domain.Usage{}, fmt.Errorf("parse chatgpt response: %w", domain.ErrEmptyContent)
	}

	last := resp.Choices[len(resp.Choices)-1]
	if last.Message.Content == nil {
		return domain.Message{}, domain.Usage{}, fmt.Errorf("parse chatgpt response: choice %d: %w", last.Index, domain.ErrEmptyContent)
	}
	usage := domain.Usage{InputTokens: resp.Usage.PromptTokens, OutputTokens: resp.Usage.CompletionTokens}
	return domain.FromAssistant(*last.Message.Content), usage, nil
}
