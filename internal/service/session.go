package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/set-night/mindlink/internal/adapter"
	"github.com/set-night/mindlink/internal/domain"
)

// HTTPDoer is the transport a session posts through. *http.Client satisfies it
// and owns any timeout policy.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Session holds one conversation: its live configuration, its history and
// its transport. Sends are serialized; history only grows, two bundles per
// successful tracked exchange.
type Session struct {
	id     uuid.UUID
	client HTTPDoer

	mu      sync.Mutex
	config  domain.ModelConfig
	history []domain.MessageBundle
}

// NewSession seeds a system bundle when the provider expects the system
// prompt as the first history entry.
func NewSession(cfg domain.ModelConfig, client HTTPDoer) *Session {
	s := &Session{
		id:     uuid.New(),
		client: client,
		config: cfg,
	}
	if cfg.Provider.Family().SystemInHistory() && cfg.HasSystemPrompt() {
		s.history = append(s.history, domain.NewMessageBundle(
			domain.FromSystem(cfg.SystemPrompt),
			domain.NewMessageMetadata(cfg),
		))
	}
	return s
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) Config() domain.ModelConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// SetConfig replaces the configuration used by later sends. Bundles already
// in history keep the configuration they were sent with. Families that carry
// the system prompt in history keep the prompt fixed at NewSession.
func (s *Session) SetConfig(cfg domain.ModelConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	family := s.config.Provider.Family()
	if cfg.Provider.Family() != family {
		return fmt.Errorf("set config %s -> %s: %w", family, cfg.Provider.Family(), domain.ErrFamilyChange)
	}
	if family.SystemInHistory() && cfg.SystemPrompt != s.config.SystemPrompt {
		return fmt.Errorf("set config on %s: %w", family, domain.ErrSystemPromptChange)
	}
	s.config = cfg
	return nil
}

// SendTracked sends msg with the full history as context and, on success,
// appends msg and the reply to history. On failure history is untouched.
func (s *Session) SendTracked(ctx context.Context, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	outbound, reply, err := s.exchange(ctx, msg)
	if err != nil {
		return err
	}

	s.history = append(s.history, outbound, reply)
	slog.Debug("exchange committed",
		"session_id", s.id,
		"provider", s.config.Provider.String(),
		"history_len", len(s.history),
		"input_tokens", reply.Metadata.Usage.InputTokens,
		"output_tokens", reply.Metadata.Usage.OutputTokens,
	)
	return nil
}

// SendUntracked behaves like SendTracked on the wire but leaves history
// unchanged and returns the reply instead.
func (s *Session) SendUntracked(ctx context.Context, msg domain.Message) (domain.MessageBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, reply, err := s.exchange(ctx, msg)
	if err != nil {
		return domain.MessageBundle{}, err
	}
	return reply, nil
}

// exchange performs one request/response round trip. Callers hold s.mu.
func (s *Session) exchange(ctx context.Context, msg domain.Message) (outbound, reply domain.MessageBundle, err error) {
	cfg := s.config
	outbound = domain.NewMessageBundle(msg, domain.NewMessageMetadata(cfg))

	a, err := adapter.For(cfg.Provider)
	if err != nil {
		return outbound, reply, sendError(err)
	}

	payload, err := a.BuildPayload(s.history, msg, cfg)
	if err != nil {
		return outbound, reply, sendError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Provider.Family().Endpoint(), bytes.NewReader(payload))
	if err != nil {
		return outbound, reply, &domain.SendError{Kind: domain.SendRequest, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	a.Authorize(req.Header, cfg.Token)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return outbound, reply, &domain.SendError{Kind: domain.SendRequest, Err: fmt.Errorf("post %s: %w", cfg.Provider, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return outbound, reply, &domain.SendError{Kind: domain.SendExtractContent, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return outbound, reply, &domain.SendError{
			Kind:   domain.SendRequest,
			Status: resp.StatusCode,
			Err:    adapter.DecodeAPIError(resp.StatusCode, body),
		}
	}

	replyMsg, usage, err := a.ParseResponse(body, cfg)
	if err != nil {
		return outbound, reply, sendError(err)
	}

	meta := domain.NewMessageMetadata(cfg)
	meta.Usage = usage
	reply = domain.NewMessageBundle(replyMsg, meta)

	slog.Debug("provider replied",
		"session_id", s.id,
		"provider", cfg.Provider.String(),
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return outbound, reply, nil
}

// sendError classifies adapter failures.
func sendError(err error) *domain.SendError {
	if errors.Is(err, domain.ErrUnsupportedProvider) {
		return &domain.SendError{Kind: domain.SendUnsupportedProvider, Err: err}
	}
	return &domain.SendError{Kind: domain.SendParseResponse, Err: err}
}

// History returns a copy of the committed bundles in order.
func (s *Session) History() []domain.MessageBundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.MessageBundle(nil), s.history...)
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Usage totals the usage reported for every committed reply.
func (s *Session) Usage() domain.Usage {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total domain.Usage
	for _, b := range s.history {
		total = total.Add(b.Metadata.Usage)
	}
	return total
}

// LogHistory writes one record per bundle to logger.
func (s *Session) LogHistory(logger *slog.Logger) {
	for i, b := range s.History() {
		logger.Info("history entry",
			"session_id", s.id,
			"index", i,
			"role", b.Message.Role.String(),
			"content", b.Message.Content,
			"message_id", b.Metadata.ID,
			"timestamp", b.Metadata.Timestamp,
			"provider", b.Metadata.Config.Provider.String(),
			"temperature", b.Metadata.Config.Temperature,
			"max_tokens", b.Metadata.Config.MaxTokens,
		)
	}
}

// PrintHistory writes a plain transcript to w.
func (s *Session) PrintHistory(w io.Writer) error {
	for _, b := range s.History() {
		if _, err := fmt.Fprintf(w, "[%s] %s: %s\n",
			b.Metadata.Timestamp.Format(time.RFC3339), b.Message.Role, b.Message.Content); err != nil {
			return fmt.Errorf("print history: %w", err)
		}
	}
	return nil
}
