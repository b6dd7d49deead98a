package service

import (
	"math"

	"github.com/set-night/mindlink/internal/config"
	"github.com/set-night/mindlink/internal/domain"
)

// CredentialResolver supplies the secret for a provider.
type CredentialResolver interface {
	Resolve(p domain.Provider) (domain.Secret, error)
}

// ModelConfigBuilder collects settings and reports every problem at Build
// instead of failing on the first one.
type ModelConfigBuilder struct {
	resolver     CredentialResolver
	provider     domain.Provider
	systemPrompt string
	maxTokens    *int
	temperature  *float64
	errs         []*domain.ConfigBuildError
}

func NewModelConfigBuilder(resolver CredentialResolver, p domain.Provider) *ModelConfigBuilder {
	return &ModelConfigBuilder{resolver: resolver, provider: p}
}

func (b *ModelConfigBuilder) WithSystemPrompt(prompt string) *ModelConfigBuilder {
	b.systemPrompt = prompt
	return b
}

func (b *ModelConfigBuilder) WithMaxTokens(maxTokens int) *ModelConfigBuilder {
	if maxTokens <= 0 {
		b.errs = append(b.errs, domain.Validation(
			"max tokens must be positive. Value supplied: %d", maxTokens))
	}
	b.maxTokens = &maxTokens
	return b
}

// WithTemperature records out-of-range values as errors but still stores
// them, so a later call can override.
func (b *ModelConfigBuilder) WithTemperature(temperature float64) *ModelConfigBuilder {
	if math.IsNaN(temperature) || temperature < config.MinTemperature || temperature > config.MaxTemperature {
		b.errs = append(b.errs, domain.Validation(
			"temperature parameter is out of bounds. Value supplied: %v; Temperature bounds: [%v, %v]",
			temperature, config.MinTemperature, config.MaxTemperature))
	}
	b.temperature = &temperature
	return b
}

// Build returns the config, the single error found, or a Multi error
// listing all of them in detection order.
func (b *ModelConfigBuilder) Build() (domain.ModelConfig, error) {
	errs := append([]*domain.ConfigBuildError(nil), b.errs...)

	var token domain.Secret
	if b.provider == nil {
		errs = append(errs, domain.Validation("no provider selected"))
	} else {
		if !b.provider.Valid() {
			errs = append(errs, domain.Validation("unknown %s model version", b.provider.Family()))
		}
		secret, err := b.resolver.Resolve(b.provider)
		if err != nil {
			errs = append(errs, domain.NoTokenSet(err))
		} else {
			token = secret
		}
	}

	switch len(errs) {
	case 0:
	case 1:
		return domain.ModelConfig{}, errs[0]
	default:
		return domain.ModelConfig{}, domain.MultiConfigError(errs)
	}

	cfg := domain.ModelConfig{
		Provider:     b.provider,
		Token:        token,
		SystemPrompt: b.systemPrompt,
		MaxTokens:    config.DefaultMaxTokens,
		Temperature:  config.DefaultTemperature,
	}
	if b.maxTokens != nil {
		cfg.MaxTokens = *b.maxTokens
	}
	if b.temperature != nil {
		cfg.Temperature = *b.temperature
	}
	return cfg, nil
}
