package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/set-night/mindlink/internal/adapter"
	"github.com/set-night/mindlink/internal/domain"
)

// Catalog compares the models providers advertise against the ones this
// module knows how to address.
type Catalog struct {
	client   HTTPDoer
	resolver CredentialResolver
	cache    *ModelsCache
}

func NewCatalog(client HTTPDoer, resolver CredentialResolver, cache *ModelsCache) *Catalog {
	return &Catalog{client: client, resolver: resolver, cache: cache}
}

type modelList struct {
	Data []struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"data"`
}

// ListModels fetches the family's model listing, served from cache when fresh.
func (c *Catalog) ListModels(ctx context.Context, f domain.Family) ([]domain.RemoteModel, error) {
	if cached := c.cache.Get(f); cached != nil {
		return cached, nil
	}

	// Gemini lists models in a different shape.
	if f != domain.FamilyClaude && f != domain.FamilyChatGPT {
		return nil, fmt.Errorf("list %s models: %w", f, domain.ErrUnsupportedProvider)
	}

	p := domain.DefaultProvider(f)
	token, err := c.resolver.Resolve(p)
	if err != nil {
		return nil, fmt.Errorf("resolve %s credential: %w", f, err)
	}
	a, err := adapter.For(p)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.ModelsEndpoint(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	a.Authorize(req.Header, token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s models: %w", f, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s models: %w", f, adapter.DecodeAPIError(resp.StatusCode, body))
	}

	var list modelList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("parse models: %w", err)
	}

	models := make([]domain.RemoteModel, 0, len(list.Data))
	for _, m := range list.Data {
		model := domain.RemoteModel{ID: m.ID, DisplayName: m.DisplayName, Family: f}
		if p, err := domain.ParseProvider(m.ID); err == nil {
			model.Provider = p
		}
		models = append(models, model)
	}

	c.cache.Set(f, models)
	return models, nil
}

// Unsupported returns the advertised models with no local provider.
func (c *Catalog) Unsupported(ctx context.Context, f domain.Family) ([]domain.RemoteModel, error) {
	models, err := c.ListModels(ctx, f)
	if err != nil {
		return nil, err
	}
	var out []domain.RemoteModel
	for _, m := range models {
		if !m.IsSupported() {
			out = append(out, m)
		}
	}
	return out, nil
}
