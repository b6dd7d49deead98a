// Package credentials resolves provider secrets from the environment and
// caches them, rereading the source only after a lookup came up empty.
package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/set-night/mindlink/internal/domain"
)

var ErrMissingCredential = errors.New("missing credential")

// MissingCredentialError names the variable an operator has to set.
type MissingCredentialError struct {
	Family   domain.Family
	Variable string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("must set %s in your env", e.Variable)
}

func (e *MissingCredentialError) Is(target error) bool {
	return target == ErrMissingCredential
}

type snapshot struct {
	Anthropic string `env:"API_KEY_ANTHROPIC"`
	OpenAI    string `env:"API_KEY_OPENAI"`
	Google    string `env:"API_KEY_GOOGLE"`
}

func (s snapshot) secret(f domain.Family) domain.Secret {
	switch f {
	case domain.FamilyClaude:
		return domain.NewSecret(s.Anthropic)
	case domain.FamilyChatGPT:
		return domain.NewSecret(s.OpenAI)
	case domain.FamilyGemini:
		return domain.NewSecret(s.Google)
	default:
		panic(fmt.Sprintf("credentials: unhandled provider family %s", f))
	}
}

// Store is safe for concurrent use. Lookups take the read lock; a reload
// takes the write lock and is performed by at most one caller per flag flip.
type Store struct {
	mu           sync.RWMutex
	current      snapshot
	reloadNeeded atomic.Bool

	environ func() map[string]string
	dotenv  []string
}

type Option func(*Store)

// WithEnvironment replaces the process environment as the variable source.
func WithEnvironment(fn func() map[string]string) Option {
	return func(s *Store) { s.environ = fn }
}

// WithDotenv sets the dotenv files layered under the environment. Missing
// files are skipped.
func WithDotenv(files ...string) Option {
	return func(s *Store) { s.dotenv = files }
}

func New(opts ...Option) (*Store, error) {
	s := &Store{
		environ: processEnvironment,
		dotenv:  []string{".env"},
	}
	for _, opt := range opts {
		opt(s)
	}

	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	s.current = snap
	return s, nil
}

// Resolve returns the secret for p's family. A miss flags the store for
// reload so the next call rereads the source.
func (s *Store) Resolve(p domain.Provider) (domain.Secret, error) {
	if s.reloadNeeded.Load() {
		if err := s.reload(); err != nil {
			return domain.Secret{}, err
		}
	}

	family := p.Family()

	s.mu.RLock()
	secret := s.current.secret(family)
	s.mu.RUnlock()

	if secret.IsZero() {
		s.reloadNeeded.Store(true)
		return domain.Secret{}, &MissingCredentialError{Family: family, Variable: family.CredentialVar()}
	}
	return secret, nil
}

// ReloadNeeded reports whether the next Resolve will reread the source.
func (s *Store) ReloadNeeded() bool {
	return s.reloadNeeded.Load()
}

// reload flips the flag while holding the write lock, so a reader that sees
// the flag cleared cannot take the read lock before the new snapshot is in.
func (s *Store) reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.reloadNeeded.CompareAndSwap(true, false) {
		return nil
	}
	snap, err := s.load()
	if err != nil {
		s.reloadNeeded.Store(true)
		return err
	}
	s.current = snap
	slog.Debug("credentials reloaded")
	return nil
}

func (s *Store) load() (snapshot, error) {
	vars := make(map[string]string)
	for _, file := range s.dotenv {
		values, err := godotenv.Read(file)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("skip dotenv file", "file", file, "error", err)
			}
			continue
		}
		maps.Copy(vars, values)
	}
	maps.Copy(vars, s.environ())

	var snap snapshot
	if err := env.ParseWithOptions(&snap, env.Options{Environment: vars}); err != nil {
		return snapshot{}, fmt.Errorf("parse credentials: %w", err)
	}
	return snap, nil
}

func processEnvironment() map[string]string {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return vars
}
