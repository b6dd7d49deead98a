// Package adapter translates between the local message model and each
// provider's wire format.
package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/set-night/mindlink/internal/domain"
)

// Adapter builds outbound payloads and parses inbound replies for one
// provider family.
type Adapter interface {
	// Authorize attaches the family's auth and version headers.
	Authorize(h http.Header, token domain.Secret)
	BuildPayload(history []domain.MessageBundle, next domain.Message, cfg domain.ModelConfig) ([]byte, error)
	ParseResponse(body []byte, cfg domain.ModelConfig) (domain.Message, domain.Usage, error)
}

// For selects the adapter for p.
func For(p domain.Provider) (Adapter, error) {
	if p != nil && !p.Valid() {
		return nil, fmt.Errorf("%w: unknown %s model version", domain.ErrUnsupportedProvider, p.Family())
	}
	switch p.(type) {
	case domain.Claude:
		return claudeAdapter{}, nil
	case domain.ChatGPT:
		return chatGPTAdapter{}, nil
	case domain.Gemini:
		return geminiAdapter{}, nil
	default:
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedProvider, p)
	}
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// wireMessages projects history, then next, through the provider's role names.
func wireMessages(p domain.Provider, history []domain.MessageBundle, next domain.Message) []wireMessage {
	out := make([]wireMessage, 0, len(history)+1)
	for _, b := range history {
		out = append(out, wireMessage{Role: b.Message.Role.WireName(p), Content: b.Message.Content})
	}
	return append(out, wireMessage{Role: next.Role.WireName(p), Content: next.Content})
}

type errorEnvelope struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// DecodeAPIError reads the error envelope shared by the supported providers.
// Bodies that do not match it are reported verbatim.
func DecodeAPIError(status int, body []byte) *domain.APIError {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		return &domain.APIError{Status: status, Type: env.Error.Type, Message: env.Error.Message}
	}
	return &domain.APIError{Status: status, Message: strings.TrimSpace(string(body))}
}
