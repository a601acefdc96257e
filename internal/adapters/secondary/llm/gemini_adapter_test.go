package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibin/crop-advisor/config"
	"github.com/vibin/crop-advisor/internal/core/domain"
	"github.com/vibin/crop-advisor/internal/logger"
	"google.golang.org/genai"
)

const testKey = "good-key"

// fakeGemini answers generateContent and model lookups like the Gemini REST API
func fakeGemini(t *testing.T, reply string, bodies chan<- map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		key := r.Header.Get("x-goog-api-key")
		if key == "" {
			key = r.URL.Query().Get("key")
		}
		if key != testKey {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`)
			return
		}

		if strings.HasSuffix(r.URL.Path, ":generateContent") {
			if bodies != nil {
				var body map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				bodies <- body
			}
			json.NewEncoder(w).Encode(map[string]any{
				"candidates": []any{
					map[string]any{
						"content": map[string]any{
							"role":  "model",
							"parts": []any{map[string]any{"text": reply}},
						},
						"finishReason": "STOP",
					},
				},
			})
			return
		}

		io.WriteString(w, `{"name":"models/gemini-1.5-flash","displayName":"Gemini 1.5 Flash"}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func modelConfig(baseURL, key string) *config.ModelConfig {
	cfg := config.DefaultConfig().Model
	cfg.APIKey = key
	cfg.BaseURL = baseURL
	return &cfg
}

func TestNewGeminiAdapterRequiresKey(t *testing.T) {
	_, err := NewGeminiAdapter(context.Background(), modelConfig("", ""), logger.Discard())
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestGeminiGenerateContent(t *testing.T) {
	bodies := make(chan map[string]any, 1)
	srv := fakeGemini(t, "Try reducing watering.", bodies)

	adapter, err := NewGeminiAdapter(context.Background(), modelConfig(srv.URL, testKey), logger.Discard())
	require.NoError(t, err)

	resp, err := adapter.GenerateContent(context.Background(), domain.NewPlantCheckRequest("image/jpeg", []byte{0xff, 0xd8}))
	require.NoError(t, err)
	assert.Equal(t, "Try reducing watering.", resp.Text)

	body := <-bodies
	contents := body["contents"].([]any)
	require.Len(t, contents, 1)
	parts := contents[0].(map[string]any)["parts"].([]any)
	require.Len(t, parts, 2)
	inline := parts[0].(map[string]any)["inlineData"].(map[string]any)
	assert.Equal(t, "image/jpeg", inline["mimeType"])
	assert.Equal(t, "/9g=", inline["data"])
	assert.Equal(t, domain.PlantCheckPrompt, parts[1].(map[string]any)["text"])
}

func TestGeminiRejectedKey(t *testing.T) {
	srv := fakeGemini(t, "unused", nil)

	adapter, err := NewGeminiAdapter(context.Background(), modelConfig(srv.URL, "bad-key"), logger.Discard())
	require.NoError(t, err)

	_, err = adapter.GenerateContent(context.Background(), domain.NewChatRequest("hello"))
	assert.Error(t, err)
}

func TestGeminiVerifyOnStart(t *testing.T) {
	srv := fakeGemini(t, "unused", nil)

	cfg := modelConfig(srv.URL, "bad-key")
	cfg.VerifyOnStart = true
	_, err := NewGeminiAdapter(context.Background(), cfg, logger.Discard())
	assert.ErrorContains(t, err, "verify model")

	cfg = modelConfig(srv.URL, testKey)
	cfg.VerifyOnStart = true
	_, err = NewGeminiAdapter(context.Background(), cfg, logger.Discard())
	assert.NoError(t, err)
}

func TestToGenAIContents(t *testing.T) {
	contents := toGenAIContents(domain.NewChatRequest("hi"))

	require.Len(t, contents, 1)
	assert.Equal(t, genai.RoleUser, contents[0].Role)
	require.Len(t, contents[0].Parts, 1)
	assert.Nil(t, contents[0].Parts[0].InlineData)
	assert.Equal(t, domain.ChatPromptPrefix+"hi", contents[0].Parts[0].Text)
}

// cannedGemini answers every generateContent call with the given JSON body
func cannedGemini(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeminiUnusableReplies(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		errText string
	}{
		{
			name:    "prompt blocked",
			body:    `{"promptFeedback":{"blockReason":"SAFETY"}}`,
			errText: "prompt blocked by model: SAFETY",
		},
		{
			name:    "no candidates",
			body:    `{}`,
			errText: "model returned no candidates",
		},
		{
			name:    "candidate stopped for safety",
			body:    `{"candidates":[{"finishReason":"SAFETY"}]}`,
			errText: "reply blocked by model: SAFETY",
		},
		{
			name:    "candidate stopped for recitation",
			body:    `{"candidates":[{"content":{"role":"model","parts":[]},"finishReason":"RECITATION"}]}`,
			errText: "reply blocked by model: RECITATION",
		},
		{
			name:    "empty text",
			body:    `{"candidates":[{"content":{"role":"model","parts":[{"text":""}]},"finishReason":"STOP"}]}`,
			errText: "model returned an empty reply",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := cannedGemini(t, tt.body)

			adapter, err := NewGeminiAdapter(context.Background(), modelConfig(srv.URL, testKey), logger.Discard())
			require.NoError(t, err)

			resp, err := adapter.GenerateContent(context.Background(), domain.NewChatRequest("hi"))
			assert.EqualError(t, err, tt.errText)
			assert.Empty(t, resp.Text)
		})
	}
}

func TestGeminiReplyWithMaxTokensIsKept(t *testing.T) {
	srv := cannedGemini(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Water less"}]},"finishReason":"MAX_TOKENS"}]}`)

	adapter, err := NewGeminiAdapter(context.Background(), modelConfig(srv.URL, testKey), logger.Discard())
	require.NoError(t, err)

	resp, err := adapter.GenerateContent(context.Background(), domain.NewChatRequest("hi"))
	require.NoError(t, err)
	assert.Equal(t, "Water less", resp.Text)
}
