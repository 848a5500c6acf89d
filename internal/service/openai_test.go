package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mealcatalog/internal/config"
)

func newTestOpenAIClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.OpenAIConfig{
		APIKey:              "test-key",
		APIBase:             srv.URL,
		ChatModel:           "test-chat",
		EmbeddingModel:      "test-embed",
		EmbeddingDimensions: 2,
		BatchSize:           2,
		Timeout:             5,
		Enabled:             true,
	}
	return NewOpenAIClient(cfg, zap.NewNop())
}

func TestOpenAIClient_ParseIntentWithAI(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-chat", req.Model)
		assert.Equal(t, "user", req.Messages[1].Role)

		content := "```json\n{\"category\": \"Italian\", \"price_max\": 15, \"sort_by\": \"price\"}\n```"
		fmt.Fprintf(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":%q}}]}`, content)
	})

	got, err := client.ParseIntentWithAI(context.Background(), "italian under 15")
	require.NoError(t, err)
	assert.Equal(t, "Italian", *got.Category)
	assert.Equal(t, 15.0, *got.PriceMax)
	assert.Equal(t, "price", *got.SortBy)
}

func TestOpenAIClient_RejectsInvalidIntent(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"{\"rating_min\": 9}"}}]}`)
	})

	_, err := client.ParseIntentWithAI(context.Background(), "amazing food")
	assert.ErrorContains(t, err, "rating_min")
}

func TestOpenAIClient_HTTPError(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	})

	_, err := client.ParseIntentWithAI(context.Background(), "pizza")
	assert.ErrorContains(t, err, "status 429")
}

func TestOpenAIClient_ParseIntentWithAIStream(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		for _, part := range []string{`{\"search_term\":`, ` \"ramen\"}`} {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":\"%s\"}}]}\n\n", part)
		}
		fmt.Fprint(w, "data: not-json\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	var content string
	got, err := client.ParseIntentWithAIStream(context.Background(), "ramen", func(thinking, c string) error {
		content += c
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, `{"search_term": "ramen"}`, content)
	assert.Equal(t, "ramen", *got.SearchTerm)
}

func TestOpenAIClient_CreateEmbeddings(t *testing.T) {
	var calls atomic.Int32
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/embeddings", r.URL.Path)

		var req EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "float", req.EncodingFormat)

		// answer out of order; the client must restore input order
		var data []map[string]any
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, map[string]any{"index": i, "embedding": []float32{float32(len(req.Input[i])), 0}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data, "model": req.Model})
	})

	got, err := client.CreateEmbeddings(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	require.Len(t, got, 3)
	assert.Equal(t, []float32{1, 0}, got[0])
	assert.Equal(t, []float32{2, 0}, got[1])
	assert.Equal(t, []float32{3, 0}, got[2])
}

func TestOpenAIClient_Disabled(t *testing.T) {
	client := NewOpenAIClient(&config.OpenAIConfig{APIBase: "http://localhost"}, zap.NewNop())
	assert.False(t, client.IsEnabled())

	_, err := client.ParseIntentWithAI(context.Background(), "pizza")
	assert.ErrorIs(t, err, ErrAIDisabled)
	_, err = client.CreateEmbeddings(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, ErrAIDisabled)
}

func TestStreamChunkParsers(t *testing.T) {
	data := []byte(`{"choices":[{"delta":{"content":"hi","reasoning_content":"hmm"},"finish_reason":"stop"}]}`)

	nv, err := (&NVIDIAStreamChunkParser{}).ParseChunk(data)
	require.NoError(t, err)
	assert.Equal(t, "hi", nv.Content)
	assert.Equal(t, "hmm", nv.ThinkingContent)
	assert.True(t, nv.Done)

	oa, err := (&OpenAIStreamChunkParser{}).ParseChunk(data)
	require.NoError(t, err)
	assert.Equal(t, "hi", oa.Content)
	assert.Empty(t, oa.ThinkingContent)

	assert.True(t, IsNVIDIAProvider("https://integrate.api.nvidia.com/v1"))
	assert.True(t, IsOpenAIProvider("https://api.openai.com/v1"))
}
