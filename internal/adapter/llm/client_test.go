package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGeminiClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-test:generateContent" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "secret" {
			t.Errorf("unexpected api key header: %q", got)
		}
		var req GenerateContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "hello" {
			t.Errorf("unexpected request: %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"next_question\":"},{"text":"\"hi\"}"}]}}]}`)
	}))
	defer server.Close()

	client := NewGeminiClient(server.URL, "secret", "gemini-test", time.Second)
	text, err := client.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"next_question":"hi"}`, text)
	assert.Equal(t, "gemini", client.Name())
}

func TestGeminiClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`)
	}))
	defer server.Close()

	client := NewGeminiClient(server.URL, "", "m", time.Second)
	_, err := client.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGeminiClientNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[]}`)
	}))
	defer server.Close()

	client := NewGeminiClient(server.URL, "", "m", time.Second)
	_, err := client.Complete(context.Background(), "hello")
	assert.Error(t, err)
}

func TestGeminiClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewGeminiClient(server.URL, "", "m", 20*time.Millisecond)
	_, err := client.Complete(context.Background(), "hello")
	assert.Error(t, err)
}

func TestOpenAIClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt","choices":[{"index":0,"message":{"role":"assistant","content":"{\"next_question\":\"hi\"}"},"finish_reason":"stop"}],"usage":{"prompt_tokens":1,"completion_tokens":2,"total_tokens":3}}`)
	}))
	defer server.Close()

	client := NewOpenAIClient("secret", server.URL, "gpt", time.Second)
	text, err := client.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"next_question":"hi"}`, text)
}

func TestOpenAIClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"error":{"message":"upstream down","type":"server_error"}}`)
	}))
	defer server.Close()

	client := NewOpenAIClient("secret", server.URL, "gpt", time.Second)
	_, err := client.Complete(context.Background(), "hello")
	assert.Error(t, err)
}

func TestMockClientReplyIsFencedJSON(t *testing.T) {
	text, err := NewMockClient().Complete(context.Background(), "line one\nCandidate said hi")
	require.NoError(t, err)
	assert.Contains(t, text, "```json")
	assert.Contains(t, text, "next_question")
	assert.Contains(t, text, "overall_score")
}

func TestMockClientKeepsMultiByteTextValid(t *testing.T) {
	prompt := "Candidate's last answer: \"" + strings.Repeat("é日本", 40) + "\""
	text, err := NewMockClient().Complete(context.Background(), prompt)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(text))

	assert.Equal(t, "日本語...", truncate("日本語テキスト", 3))
	assert.Equal(t, "short", truncate("short", 60))
}

func TestMockClientHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMockClient().Complete(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewCompleter(t *testing.T) {
	logger := zap.NewNop()

	c, err := NewCompleter(Options{Mode: "mock", Provider: ProviderOpenAI}, logger)
	require.NoError(t, err)
	assert.IsType(t, &MockClient{}, c)

	c, err = NewCompleter(Options{Provider: ProviderGemini, GeminiModel: "m"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &GeminiClient{}, c)

	c, err = NewCompleter(Options{Provider: "OpenAI", OpenAIModel: "m"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	_, err = NewCompleter(Options{Provider: "bard"}, logger)
	assert.Error(t, err)
}
