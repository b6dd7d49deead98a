package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageMetadata is captured when a message is sent and never changed afterwards.
type MessageMetadata struct {
	ID        uuid.UUID
	Timestamp time.Time
	// Config is the configuration in effect when the message was sent.
	Config ModelConfig
	// Usage is set on replies only.
	Usage Usage
}

func NewMessageMetadata(cfg ModelConfig) MessageMetadata {
	return MessageMetadata{
		ID:        uuid.New(),
		Timestamp: time.Now().UTC(),
		Config:    cfg,
	}
}

// MessageBundle is the unit stored in session history.
type MessageBundle struct {
	Message  Message
	Metadata MessageMetadata
}

func NewMessageBundle(msg Message, meta MessageMetadata) MessageBundle {
	return MessageBundle{Message: msg, Metadata: meta}
}

// Usage is the token accounting a provider reports for one exchange.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

func (u Usage) Add(other Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
	}
}
