package aiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bed-management-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(url string) *Client {
	return NewClient(config.AIConfig{
		BaseURL:      url,
		TriggerPath:  "/ejecutar-ia",
		TriggerParam: "iniciar",
		Timeout:      2 * time.Second,
	}, zap.NewNop())
}

func TestTrigger_PostsPayload(t *testing.T) {
	var got TriggerRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ejecutar-ia", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"started"}`))
	}))
	defer server.Close()

	payload, err := newTestClient(server.URL).Trigger(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "iniciar", got.Parametro1)
	assert.JSONEq(t, `{"parametro1":"iniciar"}`, string(payload))
}

func TestTrigger_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Trigger(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestTrigger_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).Trigger(context.Background())

	assert.Error(t, err)
}
