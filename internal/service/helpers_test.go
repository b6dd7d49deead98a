package service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/set-night/mindlink/internal/credentials"
	"github.com/set-night/mindlink/internal/domain"
	"github.com/stretchr/testify/require"
)

type roundTrip func(*http.Request) (*http.Response, error)

func (r roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return r(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

type wirePayload struct {
	Model    string `json:"model"`
	System   string `json:"system"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func claudeReply(text string, in, out int) string {
	return fmt.Sprintf(`{"id":"msg","model":"claude","content":[{"type":"text","text":%q}],"usage":{"input_tokens":%d,"output_tokens":%d}}`, text, in, out)
}

func chatGPTReply(text string, in, out int) string {
	return fmt.Sprintf(`{"id":"c","choices":[{"index":0,"message":{"role":"assistant","content":%q}}],"usage":{"prompt_tokens":%d,"completion_tokens":%d}}`, text, in, out)
}

// echoProvider answers "echo: <last message>" in the wire shape of the
// family the request was posted to and records every payload.
type echoProvider struct {
	mu       sync.Mutex
	payloads []wirePayload
	headers  []http.Header
	urls     []string
}

func (e *echoProvider) client() *http.Client {
	return &http.Client{Transport: roundTrip(e.handle)}
}

func (e *echoProvider) handle(req *http.Request) (*http.Response, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	var p wirePayload
	if err := json.Unmarshal(body, &p); err != nil {
		return jsonResponse(http.StatusBadRequest, `{"error":{"type":"invalid_request_error","message":"bad json"}}`), nil
	}

	e.mu.Lock()
	e.payloads = append(e.payloads, p)
	e.headers = append(e.headers, req.Header.Clone())
	e.urls = append(e.urls, req.URL.String())
	e.mu.Unlock()

	last := p.Messages[len(p.Messages)-1].Content
	if req.URL.String() == domain.FamilyChatGPT.Endpoint() {
		return jsonResponse(http.StatusOK, chatGPTReply("echo: "+last, 10, 2)), nil
	}
	return jsonResponse(http.StatusOK, claudeReply("echo: "+last, 10, 2)), nil
}

func (e *echoProvider) calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.payloads)
}

func newStore(t *testing.T, vars map[string]string) *credentials.Store {
	t.Helper()
	store, err := credentials.New(
		credentials.WithEnvironment(func() map[string]string { return vars }),
		credentials.WithDotenv(),
	)
	require.NoError(t, err)
	return store
}

func allKeys() map[string]string {
	return map[string]string{
		"API_KEY_ANTHROPIC": "sk-ant",
		"API_KEY_OPENAI":    "sk-oai",
		"API_KEY_GOOGLE":    "sk-goog",
	}
}

func mustConfig(t *testing.T, p domain.Provider, systemPrompt string) domain.ModelConfig {
	t.Helper()
	cfg, err := NewModelConfigBuilder(newStore(t, allKeys()), p).
		WithSystemPrompt(systemPrompt).
		Build()
	require.NoError(t, err)
	return cfg
}

// errReader fails every read.
type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }
