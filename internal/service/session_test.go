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
	"testing"

	"github.com/set-night/mindlink/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendTrackedGrowsByTwo(t *testing.T) {
	echo := &echoProvider{}
	cfg := mustConfig(t, domain.Claude{Version: domain.ClaudeSonnet4}, "")
	s := NewSession(cfg, echo.client())
	require.Equal(t, 0, s.Len())

	const n = 4
	for i := 0; i < n; i++ {
		require.NoError(t, s.SendTracked(context.Background(), domain.FromUser(fmt.Sprintf("turn %d", i))))
		assert.Equal(t, 2*(i+1), s.Len())
	}

	history := s.History()
	require.Len(t, history, 2*n)
	for i := 0; i < len(history); i += 2 {
		assert.Equal(t, domain.RoleUser, history[i].Message.Role)
		assert.Equal(t, domain.RoleAssistant, history[i+1].Message.Role)
		assert.Equal(t, "echo: "+history[i].Message.Content, history[i+1].Message.Content)
	}

	// each request replays the full history before the new message
	for i, p := range echo.payloads {
		assert.Len(t, p.Messages, 2*i+1)
	}
}

func TestClaudeSystemPromptIsAField(t *testing.T) {
	echo := &echoProvider{}
	cfg := mustConfig(t, domain.Claude{Version: domain.ClaudeSonnet4}, "be brief")
	s := NewSession(cfg, echo.client())
	assert.Equal(t, 0, s.Len())

	require.NoError(t, s.SendTracked(context.Background(), domain.FromUser("hi")))
	require.Len(t, echo.payloads, 1)
	assert.Equal(t, "be brief", echo.payloads[0].System)
	assert.Len(t, echo.payloads[0].Messages, 1)
}

func TestChatGPTSeedsSystemPrompt(t *testing.T) {
	echo := &echoProvider{}
	cfg := mustConfig(t, domain.ChatGPT{Version: domain.GPT5}, "be brief")
	s := NewSession(cfg, echo.client())
	require.Equal(t, 1, s.Len())
	assert.Equal(t, domain.FromSystem("be brief"), s.History()[0].Message)

	const n = 3
	for i := 0; i < n; i++ {
		require.NoError(t, s.SendTracked(context.Background(), domain.FromUser(fmt.Sprintf("q%d", i))))
	}
	assert.Equal(t, 2*n+1, s.Len())

	first := echo.payloads[0]
	assert.Empty(t, first.System)
	require.Len(t, first.Messages, 2)
	assert.Equal(t, "developer", first.Messages[0].Role)
	assert.Equal(t, "be brief", first.Messages[0].Content)
}

func TestChatGPTWithoutPromptStartsEmpty(t *testing.T) {
	cfg := mustConfig(t, domain.ChatGPT{Version: domain.GPT5Mini}, "")
	s := NewSession(cfg, (&echoProvider{}).client())
	assert.Equal(t, 0, s.Len())
}

func TestRequestHeaders(t *testing.T) {
	tests := []struct {
		provider domain.Provider
		want     map[string]string
	}{
		{
			provider: domain.Claude{Version: domain.ClaudeHaiku35},
			want: map[string]string{
				"X-Api-Key":         "sk-ant",
				"Anthropic-Version": "2023-06-01",
				"Content-Type":      "application/json",
			},
		},
		{
			provider: domain.ChatGPT{Version: domain.GPT41},
			want: map[string]string{
				"Authorization": "Bearer sk-oai",
				"Content-Type":  "application/json",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.provider.String(), func(t *testing.T) {
			echo := &echoProvider{}
			s := NewSession(mustConfig(t, tt.provider, ""), echo.client())
			require.NoError(t, s.SendTracked(context.Background(), domain.FromUser("hi")))

			require.Len(t, echo.urls, 1)
			assert.Equal(t, tt.provider.Family().Endpoint(), echo.urls[0])
			for k, v := range tt.want {
				assert.Equal(t, v, echo.headers[0].Get(k), k)
			}
		})
	}
}

func TestSendTrackedFailureLeavesHistory(t *testing.T) {
	tests := []struct {
		name       string
		transport  roundTrip
		wantKind   domain.SendErrorKind
		wantStatus int
		wantErr    error
	}{
		{
			name: "transport failure",
			transport: func(*http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
			wantKind: domain.SendRequest,
		},
		{
			name: "non-success status",
			transport: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusTooManyRequests, `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`), nil
			},
			wantKind:   domain.SendRequest,
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name: "malformed body",
			transport: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"content":`), nil
			},
			wantKind: domain.SendParseResponse,
		},
		{
			name: "empty content",
			transport: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"content":[]}`), nil
			},
			wantKind: domain.SendParseResponse,
			wantErr:  domain.ErrEmptyContent,
		},
		{
			name: "unreadable body",
			transport: func(*http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(errReader{})}, nil
			},
			wantKind:   domain.SendExtractContent,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			echo := &echoProvider{}
			cfg := mustConfig(t, domain.Claude{Version: domain.ClaudeSonnet4}, "")
			s := NewSession(cfg, echo.client())
			require.NoError(t, s.SendTracked(context.Background(), domain.FromUser("hi")))
			before := s.History()

			s.client = &http.Client{Transport: tt.transport}
			err := s.SendTracked(context.Background(), domain.FromUser("again"))
			require.Error(t, err)

			var sendErr *domain.SendError
			require.ErrorAs(t, err, &sendErr)
			assert.Equal(t, tt.wantKind, sendErr.Kind)
			assert.Equal(t, tt.wantStatus, sendErr.Status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			assert.Equal(t, before, s.History())
		})
	}
}

func TestNonSuccessStatusCarriesAPIError(t *testing.T) {
	client := &http.Client{Transport: roundTrip(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"error":{"type":"invalid_request_error","message":"Incorrect API key provided"}}`), nil
	})}
	s := NewSession(mustConfig(t, domain.ChatGPT{Version: domain.GPT5}, ""), client)

	err := s.SendTracked(context.Background(), domain.FromUser("hi"))
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Incorrect API key provided", apiErr.Message)
}

func TestGeminiSendIsUnsupported(t *testing.T) {
	echo := &echoProvider{}
	s := NewSession(mustConfig(t, domain.Gemini{Version: domain.Gemini25Pro}, ""), echo.client())

	err := s.SendTracked(context.Background(), domain.FromUser("hi"))
	var sendErr *domain.SendError
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, domain.SendUnsupportedProvider, sendErr.Kind)
	assert.ErrorIs(t, err, domain.ErrUnsupportedProvider)

	_, err = s.SendUntracked(context.Background(), domain.FromUser("hi"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedProvider)

	assert.Zero(t, echo.calls())
	assert.Zero(t, s.Len())
}

func TestSendUntracked(t *testing.T) {
	echo := &echoProvider{}
	s := NewSession(mustConfig(t, domain.Claude{Version: domain.ClaudeSonnet4}, ""), echo.client())
	require.NoError(t, s.SendTracked(context.Background(), domain.FromUser("hi")))
	require.Equal(t, 2, s.Len())

	reply, err := s.SendUntracked(context.Background(), domain.FromUser("side question"))
	require.NoError(t, err)
	assert.Equal(t, domain.FromAssistant("echo: side question"), reply.Message)
	assert.Equal(t, domain.Usage{InputTokens: 10, OutputTokens: 2}, reply.Metadata.Usage)
	assert.Equal(t, 2, s.Len())

	// the untracked request still carried the tracked history as context
	assert.Len(t, echo.payloads[1].Messages, 3)

	s.client = &http.Client{Transport: roundTrip(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("down")
	})}
	_, err = s.SendUntracked(context.Background(), domain.FromUser("again"))
	require.Error(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestMetadataKeepsConfigSnapshot(t *testing.T) {
	echo := &echoProvider{}
	cfg := mustConfig(t, domain.Claude{Version: domain.ClaudeSonnet4}, "")
	s := NewSession(cfg, echo.client())
	require.NoError(t, s.SendTracked(context.Background(), domain.FromUser("one")))

	hotter := cfg
	hotter.Temperature = 0.9
	hotter.Provider = domain.Claude{Version: domain.ClaudeOpus41}
	require.NoError(t, s.SetConfig(hotter))
	require.NoError(t, s.SendTracked(context.Background(), domain.FromUser("two")))

	history := s.History()
	require.Len(t, history, 4)
	assert.Equal(t, 0.5, history[0].Metadata.Config.Temperature)
	assert.Equal(t, 0.5, history[1].Metadata.Config.Temperature)
	assert.Equal(t, 0.9, history[2].Metadata.Config.Temperature)
	assert.Equal(t, domain.Claude{Version: domain.ClaudeOpus41}, history[3].Metadata.Config.Provider)
	assert.Equal(t, "claude-opus-4-1-20250805", echo.payloads[1].Model)
	assert.NotEqual(t, history[0].Metadata.ID, history[1].Metadata.ID)
}

func TestSetConfigRejectsFamilyChange(t *testing.T) {
	s := NewSession(mustConfig(t, domain.Claude{Version: domain.ClaudeSonnet4}, ""), (&echoProvider{}).client())

	err := s.SetConfig(mustConfig(t, domain.ChatGPT{Version: domain.GPT5}, ""))
	assert.ErrorIs(t, err, domain.ErrFamilyChange)
	assert.Equal(t, domain.Claude{Version: domain.ClaudeSonnet4}, s.Config().Provider)
}

func TestSetConfigKeepsSeededSystemPrompt(t *testing.T) {
	cfg := mustConfig(t, domain.ChatGPT{Version: domain.GPT5}, "be brief")
	s := NewSession(cfg, (&echoProvider{}).client())

	changed := cfg
	changed.SystemPrompt = "be verbose"
	err := s.SetConfig(changed)
	assert.ErrorIs(t, err, domain.ErrSystemPromptChange)
	assert.Equal(t, "be brief", s.Config().SystemPrompt)

	cleared := cfg
	cleared.SystemPrompt = ""
	assert.ErrorIs(t, s.SetConfig(cleared), domain.ErrSystemPromptChange)

	hotter := cfg
	hotter.Temperature = 0.9
	hotter.Provider = domain.ChatGPT{Version: domain.GPT5Mini}
	require.NoError(t, s.SetConfig(hotter))
	assert.Equal(t, 0.9, s.Config().Temperature)

	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, domain.FromSystem("be brief"), history[0].Message)
}

func TestSetConfigAllowsPromptChangeOutsideHistory(t *testing.T) {
	cfg := mustConfig(t, domain.Claude{Version: domain.ClaudeSonnet4}, "be brief")
	s := NewSession(cfg, (&echoProvider{}).client())

	changed := cfg
	changed.SystemPrompt = "be verbose"
	require.NoError(t, s.SetConfig(changed))
	assert.Equal(t, "be verbose", s.Config().SystemPrompt)
}

func TestConcurrentSendsAreSerialized(t *testing.T) {
	echo := &echoProvider{}
	s := NewSession(mustConfig(t, domain.ChatGPT{Version: domain.GPT5}, ""), echo.client())

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.SendTracked(context.Background(), domain.FromUser(fmt.Sprintf("m%d", i))))
		}()
	}
	wg.Wait()

	history := s.History()
	require.Len(t, history, 2*n)
	for i := 0; i < len(history); i += 2 {
		assert.Equal(t, "echo: "+history[i].Message.Content, history[i+1].Message.Content)
	}
}

func TestUsageTotals(t *testing.T) {
	s := NewSession(mustConfig(t, domain.Claude{Version: domain.ClaudeSonnet4}, ""), (&echoProvider{}).client())
	for i := 0; i < 3; i++ {
		require.NoError(t, s.SendTracked(context.Background(), domain.FromUser("x")))
	}
	assert.Equal(t, domain.Usage{InputTokens: 30, OutputTokens: 6}, s.Usage())
}

func TestHistoryObserversOnEmptySession(t *testing.T) {
	s := NewSession(mustConfig(t, domain.Claude{Version: domain.ClaudeSonnet4}, ""), (&echoProvider{}).client())

	var buf bytes.Buffer
	assert.NotPanics(t, func() {
		s.LogHistory(slog.New(slog.NewJSONHandler(&buf, nil)))
		require.NoError(t, s.PrintHistory(&buf))
	})
	assert.Empty(t, buf.String())
	assert.Empty(t, s.History())
}

func TestPrintAndLogHistory(t *testing.T) {
	s := NewSession(mustConfig(t, domain.Claude{Version: domain.ClaudeSonnet4}, ""), (&echoProvider{}).client())
	require.NoError(t, s.SendTracked(context.Background(), domain.FromUser("hello")))

	var printed bytes.Buffer
	require.NoError(t, s.PrintHistory(&printed))
	assert.Contains(t, printed.String(), "user: hello")
	assert.Contains(t, printed.String(), "assistant: echo: hello")

	var logged bytes.Buffer
	s.LogHistory(slog.New(slog.NewJSONHandler(&logged, nil)))
	assert.Equal(t, 2, bytes.Count(logged.Bytes(), []byte("history entry")))
	assert.NotContains(t, logged.String(), "sk-ant")
}

func TestZeroVersionConfigFailsWithoutPanic(t *testing.T) {
	echo := &echoProvider{}
	cfg := mustConfig(t, domain.Claude{Version: domain.ClaudeSonnet4}, "")
	cfg.Provider = domain.Claude{}
	s := NewSession(cfg, echo.client())

	var err error
	assert.NotPanics(t, func() {
		err = s.SendTracked(context.Background(), domain.FromUser("hi"))
	})
	var sendErr *domain.SendError
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, domain.SendUnsupportedProvider, sendErr.Kind)
	assert.Zero(t, echo.calls())
	assert.Zero(t, s.Len())
}
