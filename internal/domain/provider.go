package domain

import "fmt"

// Family groups the model versions served by one hosted provider.
type Family int

const (
	FamilyClaude Family = iota + 1
	FamilyChatGPT
	FamilyGemini
)

// AuthScheme describes how a family expects the secret on the wire.
type AuthScheme string

const (
	AuthAPIKeyHeader AuthScheme = "x-api-key"
	AuthBearer       AuthScheme = "bearer"
	AuthGoogAPIKey   AuthScheme = "x-goog-api-key"
)

// Families lists every supported family in a stable order.
func Families() []Family {
	return []Family{FamilyClaude, FamilyChatGPT, FamilyGemini}
}

func (f Family) String() string {
	switch f {
	case FamilyClaude:
		return "claude"
	case FamilyChatGPT:
		return "chatgpt"
	case FamilyGemini:
		return "gemini"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// Endpoint is the chat endpoint requests are posted to.
func (f Family) Endpoint() string {
	switch f {
	case FamilyClaude:
		return "https://api.anthropic.com/v1/messages"
	case FamilyChatGPT:
		return "https://api.openai.com/v1/chat/completions"
	case FamilyGemini:
		return "https://generativelanguage.googleapis.com/v1beta/models"
	default:
		panic(unknownFamily(f))
	}
}

// ModelsEndpoint lists the models the provider currently serves.
func (f Family) ModelsEndpoint() string {
	switch f {
	case FamilyClaude:
		return "https://api.anthropic.com/v1/models"
	case FamilyChatGPT:
		return "https://api.openai.com/v1/models"
	case FamilyGemini:
		return "https://generativelanguage.googleapis.com/v1beta/models"
	default:
		panic(unknownFamily(f))
	}
}

// APIVersion is the value of the version header, empty when the family has none.
func (f Family) APIVersion() string {
	switch f {
	case FamilyClaude:
		return "2023-06-01"
	case FamilyChatGPT, FamilyGemini:
		return ""
	default:
		panic(unknownFamily(f))
	}
}

func (f Family) AuthScheme() AuthScheme {
	switch f {
	case FamilyClaude:
		return AuthAPIKeyHeader
	case FamilyChatGPT:
		return AuthBearer
	case FamilyGemini:
		return AuthGoogAPIKey
	default:
		panic(unknownFamily(f))
	}
}

// CredentialVar names the environment variable holding the family's secret.
func (f Family) CredentialVar() string {
	switch f {
	case FamilyClaude:
		return "API_KEY_ANTHROPIC"
	case FamilyChatGPT:
		return "API_KEY_OPENAI"
	case FamilyGemini:
		return "API_KEY_GOOGLE"
	default:
		panic(unknownFamily(f))
	}
}

// SystemInHistory reports whether the system prompt must travel as the first
// history entry instead of a dedicated request field.
func (f Family) SystemInHistory() bool {
	switch f {
	case FamilyChatGPT:
		return true
	case FamilyClaude, FamilyGemini:
		return false
	default:
		panic(unknownFamily(f))
	}
}

func unknownFamily(f Family) string {
	return fmt.Sprintf("domain: unhandled provider family %d", int(f))
}

// Provider is a closed set: only Claude, ChatGPT and Gemini implement it.
type Provider interface {
	Family() Family
	// ModelID is the wire model identifier.
	ModelID() string
	String() string
	// Valid reports whether the version is one of the declared constants.
	// ModelID and String panic on an invalid provider.
	Valid() bool
	sealed()
}

type ClaudeVersion int

const (
	ClaudeSonnet4 ClaudeVersion = iota + 1
	ClaudeOpus41
	ClaudeHaiku35
)

type ChatGPTVersion int

const (
	GPT5 ChatGPTVersion = iota + 1
	GPT5Mini
	GPT41
)

type GeminiVersion int

const (
	Gemini25Pro GeminiVersion = iota + 1
	Gemini25Flash
)

type Claude struct{ Version ClaudeVersion }

type ChatGPT struct{ Version ChatGPTVersion }

type Gemini struct{ Version GeminiVersion }

func (Claude) sealed()  {}
func (ChatGPT) sealed() {}
func (Gemini) sealed()  {}

func (Claude) Family() Family  { return FamilyClaude }
func (ChatGPT) Family() Family { return FamilyChatGPT }
func (Gemini) Family() Family  { return FamilyGemini }

func (c Claude) Valid() bool {
	switch c.Version {
	case ClaudeSonnet4, ClaudeOpus41, ClaudeHaiku35:
		return true
	}
	return false
}

func (c ChatGPT) Valid() bool {
	switch c.Version {
	case GPT5, GPT5Mini, GPT41:
		return true
	}
	return false
}

func (g Gemini) Valid() bool {
	switch g.Version {
	case Gemini25Pro, Gemini25Flash:
		return true
	}
	return false
}

func (c Claude) ModelID() string {
	switch c.Version {
	case ClaudeSonnet4:
		return "claude-sonnet-4-20250514"
	case ClaudeOpus41:
		return "claude-opus-4-1-20250805"
	case ClaudeHaiku35:
		return "claude-3-5-haiku-20241022"
	default:
		panic(fmt.Sprintf("domain: unhandled claude version %d", int(c.Version)))
	}
}

func (c ChatGPT) ModelID() string {
	switch c.Version {
	case GPT5:
		return "gpt-5"
	case GPT5Mini:
		return "gpt-5-mini"
	case GPT41:
		return "gpt-4.1"
	default:
		panic(fmt.Sprintf("domain: unhandled chatgpt version %d", int(c.Version)))
	}
}

func (g Gemini) ModelID() string {
	switch g.Version {
	case Gemini25Pro:
		return "gemini-2.5-pro"
	case Gemini25Flash:
		return "gemini-2.5-flash"
	default:
		panic(fmt.Sprintf("domain: unhandled gemini version %d", int(g.Version)))
	}
}

func (c Claude) String() string  { return c.Family().String() + "/" + c.ModelID() }
func (c ChatGPT) String() string { return c.Family().String() + "/" + c.ModelID() }
func (g Gemini) String() string  { return g.Family().String() + "/" + g.ModelID() }

// AllProviders enumerates every provider variant and version.
func AllProviders() []Provider {
	return []Provider{
		Claude{ClaudeSonnet4},
		Claude{ClaudeOpus41},
		Claude{ClaudeHaiku35},
		ChatGPT{GPT5},
		ChatGPT{GPT5Mini},
		ChatGPT{GPT41},
		Gemini{Gemini25Pro},
		Gemini{Gemini25Flash},
	}
}

// DefaultProvider is the version used when only the family matters,
// e.g. to resolve the family's credential.
func DefaultProvider(f Family) Provider {
	switch f {
	case FamilyClaude:
		return Claude{ClaudeSonnet4}
	case FamilyChatGPT:
		return ChatGPT{GPT5}
	case FamilyGemini:
		return Gemini{Gemini25Pro}
	default:
		panic(unknownFamily(f))
	}
}

var providersByModelID = func() map[string]Provider {
	m := make(map[string]Provider)
	for _, p := range AllProviders() {
		m[p.ModelID()] = p
	}
	return m
}()

// ParseProvider maps a wire model identifier back to its provider.
func ParseProvider(modelID string) (Provider, error) {
	p, ok := providersByModelID[modelID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, modelID)
	}
	return p, nil
}
