package service

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katakuxiko/askexperts/internal/config"
)

func newAzureServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *LLMClient) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewLLMClient(config.OpenAIConfig{
		Endpoint:       server.URL,
		Key:            "aoai-key",
		APIVersion:     "2024-02-15-preview",
		EmbeddingModel: "text-embedding-ada-amd",
	})
	return server, client
}

func TestLLMClient_Embedding(t *testing.T) {
	_, client := newAzureServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/deployments/text-embedding-ada-amd/embeddings", r.URL.Path)
		assert.Equal(t, "2024-02-15-preview", r.URL.Query().Get("api-version"))
		assert.Equal(t, "aoai-key", r.Header.Get("api-key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []any{"who knows Go"}, body["input"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.1,0.2,0.3]}]}`))
	})

	vec, err := client.Embedding(context.Background(), "who knows Go")
	require.NoError(t, err)
	assert.Len(t, vec, 3)
}

func TestLLMClient_Embedding_Empty(t *testing.T) {
	_, client := newAzureServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[]}`))
	})

	_, err := client.Embedding(context.Background(), "x")
	require.ErrorIs(t, err, errEmptyEmbedding)
}

func TestLLMClient_Complete(t *testing.T) {
	var body map[string]any
	_, client := newAzureServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/deployments/gpt35/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  Ask Alice.  "},"finish_reason":"stop"}]}`))
	})

	gen := config.GenerationConfig{Model: "gpt35", Temperature: 0.5, MaxTokens: 800, TopP: 0.95, Stop: "###"}
	msgs := BuildMessages("corpus", "who")
	answer, err := client.Complete(context.Background(), msgs, gen)
	require.NoError(t, err)
	assert.Equal(t, "  Ask Alice.  ", answer)

	assert.Equal(t, "gpt35", body["model"])
	assert.EqualValues(t, 800, body["max_tokens"])
	assert.InDelta(t, 0.5, body["temperature"], 1e-6)
	assert.InDelta(t, 0.95, body["top_p"], 1e-6)
	assert.Equal(t, []any{"###"}, body["stop"])
	require.Len(t, body["messages"], 2)
}

func TestLLMClient_Complete_NoStop(t *testing.T) {
	var body map[string]any
	_, client := newAzureServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	})

	_, err := client.Complete(context.Background(), []openai.ChatCompletionMessage{{Role: "user", Content: "x"}}, config.GenerationConfig{Model: "gpt35", MaxTokens: 10})
	require.NoError(t, err)
	_, hasStop := body["stop"]
	assert.False(t, hasStop)
}

func TestLLMClient_Complete_ZeroTemperatureAndTopP(t *testing.T) {
	var body map[string]any
	_, client := newAzureServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	})

	_, err := client.Complete(context.Background(), BuildMessages("corpus", "who"), config.GenerationConfig{Model: "gpt35", Temperature: 0, TopP: 0, MaxTokens: 10})
	require.NoError(t, err)

	require.Contains(t, body, "temperature")
	require.Contains(t, body, "top_p")
	assert.InDelta(t, 0, body["temperature"], 1e-6)
	assert.InDelta(t, 0, body["top_p"], 1e-6)
}

func TestKeepZero(t *testing.T) {
	assert.Equal(t, float32(math.SmallestNonzeroFloat32), keepZero(0))
	assert.Equal(t, float32(0.7), keepZero(0.7))
}

func TestLLMClient_Complete_NoChoices(t *testing.T) {
	_, client := newAzureServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Complete(context.Background(), nil, config.GenerationConfig{Model: "gpt35", MaxTokens: 10})
	require.ErrorIs(t, err, errEmptyCompletion)
}

func TestLLMClient_Complete_Unauthorized(t *testing.T) {
	_, client := newAzureServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"401","message":"Access denied"}}`))
	})

	_, err := client.Complete(context.Background(), nil, config.GenerationConfig{Model: "gpt35", MaxTokens: 10})
	require.Error(t, err)
}
