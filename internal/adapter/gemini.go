package adapter

import (
	"fmt"
	"net/http"

	"github.com/set-night/mindlink/internal/domain"
)

// geminiAdapter authorizes requests but cannot yet translate messages.
type geminiAdapter struct{}

func (geminiAdapter) Authorize(h http.Header, token domain.Secret) {
	h.Set("x-goog-api-key", token.Expose())
}

func (geminiAdapter) BuildPayload(_ []domain.MessageBundle, _ domain.Message, cfg domain.ModelConfig) ([]byte, error) {
	return nil, fmt.Errorf("build payload for %v: %w", cfg.Provider, domain.ErrUnsupportedProvider)
}

func (geminiAdapter) ParseResponse(_ []byte, cfg domain.ModelConfig) (domain.Message, domain.Usage, error) {
	return domain.Message{}, domain.Usage{}, fmt.Errorf("parse response for %v: %w", cfg.Provider, domain.ErrUnsupportedProvider)
}
