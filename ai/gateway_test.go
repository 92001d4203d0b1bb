package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"chatbot-evaluation/backend/internal/models"
	"chatbot-evaluation/backend/internal/prompts"
	"chatbot-evaluation/backend/pkg/logger"
	"chatbot-evaluation/backend/pkg/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Output: &bytes.Buffer{}})
}

func replyWith(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": content},
		})
	}
}

var healthStandard = ScopeConfig{
	Model:       models.ModelLlama,
	UseCase:     models.UseCaseHealthCare,
	PromptStyle: models.PromptStandard,
}

func TestSendTurnBuildsProviderRequest(t *testing.T) {
	var got ChatRequest
	var gotRequestID, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		replyWith("Try a short walk after lunch.")(w, r)
	}))
	defer srv.Close()

	g := NewGateway(Config{DefaultEndpoint: srv.URL, APIKey: "secret"}, prompts.Default(), testLogger())
	history := []Turn{
		{Role: RoleUser, Content: "Hi"},
		{Role: RoleAssistant, Content: "Hello! How can I help?"},
	}

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-77")
	res := g.SendTurn(ctx, healthStandard, history, "How do I sleep better?")

	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Try a short walk after lunch.", res.Content)
	assert.Nil(t, res.Reasoning)
	assert.False(t, res.Timestamp.IsZero())

	systemPrompt, err := prompts.Default().ResolvePrompt(models.UseCaseHealthCare, models.PromptStandard, models.ModelLlama)
	require.NoError(t, err)

	assert.Equal(t, "llama3.1", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, Params{Temperature: 0, MaxNewTokens: 4096, TopP: 0.95, TopK: 50}, got.Options)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, Turn{Role: RoleSystem, Content: systemPrompt}, got.Messages[0])
	assert.Equal(t, history, got.Messages[1:3])
	assert.Equal(t, Turn{Role: RoleUser, Content: "How do I sleep better?"}, got.Messages[3])
	assert.Equal(t, "req-77", gotRequestID)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestSendTurnSplitsReasoning(t *testing.T) {
	srv := httptest.NewServer(replyWith("<think>reasoning text</think>final answer"))
	defer srv.Close()

	g := NewGateway(Config{DefaultEndpoint: srv.URL}, prompts.Default(), testLogger())
	res := g.SendTurn(context.Background(), healthStandard, nil, "hello")

	require.True(t, res.Success)
	assert.Equal(t, "final answer", res.Content)
	require.NotNil(t, res.Reasoning)
	assert.Equal(t, "reasoning text", *res.Reasoning)
}

func TestSendTurnRoutesByModel(t *testing.T) {
	var llamaHits, deepseekHits atomic.Int32
	llama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llamaHits.Add(1)
		replyWith("llama")(w, r)
	}))
	defer llama.Close()
	deepseek := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deepseekHits.Add(1)
		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 8192, req.Options.MaxNewTokens)
		replyWith("deepseek")(w, r)
	}))
	defer deepseek.Close()

	g := NewGateway(Config{
		DefaultEndpoint: llama.URL,
		Endpoints:       map[models.LanguageModel]string{models.ModelDeepSeek: deepseek.URL},
	}, prompts.Default(), testLogger())

	scope := healthStandard
	scope.Model = models.ModelDeepSeek
	res := g.SendTurn(context.Background(), scope, nil, "hi")
	require.True(t, res.Success)
	assert.Equal(t, "deepseek", res.Content)

	res = g.SendTurn(context.Background(), healthStandard, nil, "hi")
	require.True(t, res.Success)
	assert.Equal(t, "llama", res.Content)

	assert.EqualValues(t, 1, llamaHits.Load())
	assert.EqualValues(t, 1, deepseekHits.Load())
}

func TestSendTurnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	g := NewGateway(Config{DefaultEndpoint: srv.URL, Timeout: 50 * time.Millisecond}, prompts.Default(), testLogger())
	res := g.SendTurn(context.Background(), healthStandard, nil, "hello?")

	assert.False(t, res.Success)
	assert.Equal(t, "Request timed out", res.Error)
	assert.False(t, res.Timestamp.IsZero())
}

func TestSendTurnIgnoresCallerCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(30 * time.Millisecond)
		replyWith("still answered")(w, r)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGateway(Config{DefaultEndpoint: srv.URL}, prompts.Default(), testLogger())
	res := g.SendTurn(ctx, healthStandard, nil, "hello")
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "still answered", res.Content)
}

func TestSendTurnFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/unavailable":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/garbage":
			_, _ = w.Write([]byte("not json"))
		case "/thinking-only":
			replyWith("<think>hmm</think>   ")(w, r)
		}
	}))
	defer srv.Close()

	newGateway := func(path string) *Gateway {
		return NewGateway(Config{DefaultEndpoint: srv.URL + path}, prompts.Default(), testLogger())
	}

	res := newGateway("/unavailable").SendTurn(context.Background(), healthStandard, nil, "hi")
	assert.False(t, res.Success)
	assert.Equal(t, "Server error: 503", res.Error)

	res = newGateway("/garbage").SendTurn(context.Background(), healthStandard, nil, "hi")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "error unmarshaling response")

	res = newGateway("/thinking-only").SendTurn(context.Background(), healthStandard, nil, "hi")
	assert.False(t, res.Success)
	assert.Equal(t, "Empty response from model", res.Error)

	assert.EqualValues(t, 3, hits.Load())

	// rejected before any network call
	res = newGateway("/unavailable").SendTurn(context.Background(), healthStandard, nil, "   ")
	assert.False(t, res.Success)
	assert.Equal(t, "Message must not be empty", res.Error)

	empty := prompts.NewCatalog(nil, nil, nil)
	res = NewGateway(Config{DefaultEndpoint: srv.URL}, empty, testLogger()).SendTurn(context.Background(), healthStandard, nil, "hi")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "prompt catalog")

	assert.EqualValues(t, 3, hits.Load())
}

func TestSendTurnUnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(replyWith("unused"))
	url := srv.URL
	srv.Close()

	res := NewGateway(Config{DefaultEndpoint: url}, prompts.Default(), testLogger()).
		SendTurn(context.Background(), healthStandard, nil, "hi")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "error making API request")
}

func TestParamTableFallsBackToDefault(t *testing.T) {
	table := DefaultParamTable()
	assert.Equal(t, table.Default, table.For(models.LanguageModel("mistral")))
	assert.Equal(t, 0.6, table.For(models.ModelDeepSeek).Temperature)
}

func TestHistoryFromMessages(t *testing.T) {
	msgs := []models.ChatMessage{
		{Sender: models.SenderUser, Content: "question"},
		{Sender: models.SenderBot, Content: "answer"},
	}
	assert.Equal(t, []Turn{
		{Role: RoleUser, Content: "question"},
		{Role: RoleAssistant, Content: "answer"},
	}, HistoryFromMessages(msgs))
}
