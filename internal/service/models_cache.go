package service

import (
	"sync"
	"time"

	"github.com/set-night/mindlink/internal/domain"
)

type cachedModels struct {
	models   []domain.RemoteModel
	cachedAt time.Time
}

// ModelsCache keeps each family's model listing for ttl.
type ModelsCache struct {
	mu      sync.RWMutex
	entries map[domain.Family]cachedModels
	ttl     time.Duration
	now     func() time.Time
}

func NewModelsCache(ttl time.Duration) *ModelsCache {
	return &ModelsCache{
		entries: make(map[domain.Family]cachedModels),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns nil when the family has no fresh entry.
func (c *ModelsCache) Get(f domain.Family) []domain.RemoteModel {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[f]
	if !ok || c.now().Sub(entry.cachedAt) > c.ttl {
		return nil
	}
	return entry.models
}

func (c *ModelsCache) Set(f domain.Family, models []domain.RemoteModel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[f] = cachedModels{models: models, cachedAt: c.now()}
}
