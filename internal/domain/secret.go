package domain

import (
	"encoding/json"
	"log/slog"
)

const redacted = "[REDACTED]"

// Secret holds a provider token. Every textual rendering is redacted; only
// Expose returns the raw value.
type Secret struct {
	value string
}

func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Expose returns the raw token. Call it only when attaching an auth header.
func (s Secret) Expose() string { return s.value }

func (s Secret) IsZero() bool { return s.value == "" }

func (s Secret) String() string { return redacted }

func (s Secret) GoString() string { return redacted }

func (s Secret) LogValue() slog.Value { return slog.StringValue(redacted) }

func (s Secret) MarshalJSON() ([]byte, error) { return json.Marshal(redacted) }
