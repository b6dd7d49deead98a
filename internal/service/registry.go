package service

import (
	"fmt"
	"sync"

	"github.com/set-night/mindlink/internal/domain"
)

// ChatSettings are the per-chat choices a front end lets users change.
type ChatSettings struct {
	Provider    domain.Provider
	Temperature float64
}

// ConfigFactory builds the model config for a chat's settings.
type ConfigFactory func(ChatSettings) (domain.ModelConfig, error)

// SessionRegistry keeps one in-memory session per chat.
type SessionRegistry struct {
	client    HTTPDoer
	newConfig ConfigFactory
	defaults  ChatSettings

	mu       sync.Mutex
	sessions map[int64]*Session
	settings map[int64]ChatSettings
	active   map[int64]bool
}

func NewSessionRegistry(client HTTPDoer, newConfig ConfigFactory, defaults ChatSettings) *SessionRegistry {
	return &SessionRegistry{
		client:    client,
		newConfig: newConfig,
		defaults:  defaults,
		sessions:  make(map[int64]*Session),
		settings:  make(map[int64]ChatSettings),
		active:    make(map[int64]bool),
	}
}

// TryAcquire marks a request in flight for the chat. It reports false while
// another request holds the chat; otherwise the caller must call release.
func (r *SessionRegistry) TryAcquire(chatID int64) (release func(), ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active[chatID] {
		return nil, false
	}
	r.active[chatID] = true
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.active, chatID)
	}, true
}

func (r *SessionRegistry) Settings(chatID int64) ChatSettings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settingsLocked(chatID)
}

func (r *SessionRegistry) settingsLocked(chatID int64) ChatSettings {
	if s, ok := r.settings[chatID]; ok {
		return s
	}
	return r.defaults
}

// FindOrCreate returns the chat's session, creating it from the chat's settings.
func (r *SessionRegistry) FindOrCreate(chatID int64) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[chatID]; ok {
		return s, nil
	}
	return r.createLocked(chatID)
}

// Reset drops the chat's history and starts a new session.
func (r *SessionRegistry) Reset(chatID int64) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, chatID)
	return r.createLocked(chatID)
}

// SetProvider switches the chat to p. The session is reset since history
// built for one family does not replay on another.
func (r *SessionRegistry) SetProvider(chatID int64, p domain.Provider) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings := r.settingsLocked(chatID)
	previous := settings
	settings.Provider = p
	r.settings[chatID] = settings

	delete(r.sessions, chatID)
	s, err := r.createLocked(chatID)
	if err != nil {
		r.settings[chatID] = previous
		return nil, err
	}
	return s, nil
}

// SetTemperature applies to later sends; history is kept.
func (r *SessionRegistry) SetTemperature(chatID int64, temperature float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings := r.settingsLocked(chatID)
	settings.Temperature = temperature
	cfg, err := r.newConfig(settings)
	if err != nil {
		return err
	}
	if s, ok := r.sessions[chatID]; ok {
		if err := s.SetConfig(cfg); err != nil {
			return err
		}
	}
	r.settings[chatID] = settings
	return nil
}

func (r *SessionRegistry) createLocked(chatID int64) (*Session, error) {
	cfg, err := r.newConfig(r.settingsLocked(chatID))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s := NewSession(cfg, r.client)
	r.sessions[chatID] = s
	return s, nil
}
