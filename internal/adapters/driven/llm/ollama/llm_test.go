package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage/docsage-cli/internal/core/domain"
	"github.com/docsage/docsage-cli/internal/core/ports/driven"
)

func TestChat(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: "Alpha comes first."},
			Done:    true,
		})
	}))
	defer server.Close()

	svc := New(Config{BaseURL: server.URL, Model: "mistral"})

	reply, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "Answer briefly."},
		{Role: driven.RoleUser, Content: "what is alpha?"},
	}, driven.ChatOptions{Temperature: 0.2})
	require.NoError(t, err)

	assert.Equal(t, "Alpha comes first.", reply)
	assert.Equal(t, "mistral", gotReq.Model)
	assert.False(t, gotReq.Stream)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	require.NotNil(t, gotReq.Options)
	assert.InDelta(t, 0.2, gotReq.Options.Temperature, 1e-9)
}

func TestChat_ZeroTemperatureSerialized(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Content: "ok"}})
	}))
	defer server.Close()

	svc := New(Config{BaseURL: server.URL})

	_, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleUser, Content: "q"},
	}, driven.ChatOptions{})
	require.NoError(t, err)

	// Deterministic generation relies on temperature 0 reaching the model.
	opts, ok := raw["options"].(map[string]any)
	require.True(t, ok)
	_, present := opts["temperature"]
	assert.True(t, present)
}

func TestChat_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := New(Config{BaseURL: server.URL})

	_, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleUser, Content: "q"},
	}, driven.ChatOptions{})
	require.ErrorIs(t, err, domain.ErrChat)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestChat_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	svc := New(Config{BaseURL: server.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Chat(ctx, []driven.ChatMessage{
		{Role: driven.RoleUser, Content: "q"},
	}, driven.ChatOptions{})
	require.ErrorIs(t, err, domain.ErrCancelled)
}

func TestPing_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := New(Config{BaseURL: server.URL})
	require.ErrorIs(t, svc.Ping(context.Background()), domain.ErrChat)
}

func TestModelName_Default(t *testing.T) {
	svc := New(Config{})
	assert.Equal(t, DefaultModel, svc.ModelName())
}
