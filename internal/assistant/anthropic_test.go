package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/civic/internal/domain"
)

func TestAnthropicClient_Complete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5",
			"content": [{"type": "text", "text": "There are 4 open issues."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 120, "output_tokens": 8}
		}`))
	}))
	defer srv.Close()

	client := NewAnthropicClient(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku-4-5", BaseURL: srv.URL})

	text, err := client.Complete(context.Background(), CompletionRequest{
		System:    "system prompt",
		History:   []domain.ChatMessage{{Role: domain.ChatRoleUser, Content: "hi"}, {Role: domain.ChatRoleAssistant, Content: "Hello!"}},
		Message:   "how many issues?",
		MaxTokens: MaxReplyTokens,
	})
	require.NoError(t, err)
	assert.Equal(t, "There are 4 open issues.", text)

	assert.Equal(t, "claude-haiku-4-5", got["model"])
	assert.EqualValues(t, MaxReplyTokens, got["max_tokens"])
	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, messages, 3)
}

func TestAnthropicClient_CompleteError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
	}))
	defer srv.Close()

	client := NewAnthropicClient(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku-4-5", BaseURL: srv.URL})

	_, err := client.Complete(context.Background(), CompletionRequest{Message: "hi", MaxTokens: 10})
	assert.ErrorContains(t, err, "anthropic API call")
	assert.Equal(t, 1, calls)
}
