package domain

// ModelConfig is the immutable per-session configuration produced by the
// config builder.
type ModelConfig struct {
	Provider Provider
	Token    Secret
	// SystemPrompt is empty when no system prompt applies.
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
}

func (c ModelConfig) HasSystemPrompt() bool {
	return c.SystemPrompt != ""
}

// RemoteModel is a model advertised by a provider's model listing.
type RemoteModel struct {
	ID          string
	DisplayName string
	Family      Family
	// Provider is nil when no local provider maps to ID.
	Provider Provider
}

func (m RemoteModel) IsSupported() bool {
	return m.Provider != nil
}
