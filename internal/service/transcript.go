package service

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Transcript is the exported form of a session. The credential is never part of it.
type Transcript struct {
	SessionID uuid.UUID         `yaml:"session_id"`
	Provider  string            `yaml:"provider"`
	Usage     TranscriptUsage   `yaml:"usage"`
	Messages  []TranscriptEntry `yaml:"messages"`
}

type TranscriptUsage struct {
	InputTokens  int `yaml:"input_tokens"`
	OutputTokens int `yaml:"output_tokens"`
}

type TranscriptEntry struct {
	ID          uuid.UUID        `yaml:"id"`
	Timestamp   time.Time        `yaml:"timestamp"`
	Role        string           `yaml:"role"`
	Content     string           `yaml:"content"`
	Provider    string           `yaml:"provider"`
	Temperature float64          `yaml:"temperature"`
	MaxTokens   int              `yaml:"max_tokens"`
	Usage       *TranscriptUsage `yaml:"usage,omitempty"`
}

func (s *Session) Transcript() Transcript {
	usage := s.Usage()
	t := Transcript{
		SessionID: s.id,
		Provider:  s.Config().Provider.String(),
		Usage:     TranscriptUsage{InputTokens: usage.InputTokens, OutputTokens: usage.OutputTokens},
	}
	for _, b := range s.History() {
		entry := TranscriptEntry{
			ID:          b.Metadata.ID,
			Timestamp:   b.Metadata.Timestamp,
			Role:        b.Message.Role.String(),
			Content:     b.Message.Content,
			Provider:    b.Metadata.Config.Provider.String(),
			Temperature: b.Metadata.Config.Temperature,
			MaxTokens:   b.Metadata.Config.MaxTokens,
		}
		if u := b.Metadata.Usage; u.Total() > 0 {
			entry.Usage = &TranscriptUsage{InputTokens: u.InputTokens, OutputTokens: u.OutputTokens}
		}
		t.Messages = append(t.Messages, entry)
	}
	return t
}

// ExportYAML writes the session transcript to w.
func (s *Session) ExportYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s.Transcript()); err != nil {
		return fmt.Errorf("export transcript: %w", err)
	}
	return enc.Close()
}
