package lambda

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		APIKey:           "test-key",
		BaseURL:          server.URL,
		DisableRateLimit: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return client
}

func jsonHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	})
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("LAMBDA_API_KEY", "")

	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewClientFallsBackToEnvAPIKey(t *testing.T) {
	t.Setenv("LAMBDA_API_KEY", "env-key")

	client, err := NewClient(Config{DisableRateLimit: true})
	require.NoError(t, err)
	assert.Equal(t, "env-key", client.apiKey)
}

func TestDoSetsAuthAndNormalizesPath(t *testing.T) {
	var gotPath, gotAuth, gotAccept string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[]}`))
	}))

	_, err := client.Get(context.Background(), "instances", nil)
	require.NoError(t, err)

	assert.Equal(t, "/instances", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
}

func TestDoUnwrapsDataEnvelope(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusOK, `{"data":{"ok":true}}`))

	payload, err := client.Get(context.Background(), "/instances", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(payload))
}

func TestDoPassesThroughBodyWithoutDataKey(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusOK, `{"ok":true}`))

	payload, err := client.Get(context.Background(), "/instances", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(payload))
}

func TestDoNonJSONBodyYieldsNilPayload(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("pong"))
	}))

	payload, err := client.Get(context.Background(), "/instances", nil)
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestDoDecodesProviderErrorEnvelope(t *testing.T) {
	body := `{"error":{"code":"global/invalid-api-key","message":"API key is invalid","suggestion":"Create a new key"}}`
	client := newTestClient(t, jsonHandler(http.StatusForbidden, body))

	_, err := client.Get(context.Background(), "/instances", nil)
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "global/invalid-api-key", apiErr.Code)
	assert.Equal(t, "API key is invalid", apiErr.Message)
	assert.Equal(t, "Create a new key", apiErr.Suggestion)
	assert.NotNil(t, apiErr.Body)
}

func TestDoErrorWithoutJSONBodyStillFails(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))

	_, err := client.Get(context.Background(), "/instances", nil)
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "unknown", apiErr.Code)
	assert.Equal(t, "HTTP 502", apiErr.Message)
	assert.Nil(t, apiErr.Body)
}

func TestDoErrorWithMalformedJSONIsToleratedAsNoBody(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusBadRequest, `{"error": oops`))

	_, err := client.Get(context.Background(), "/instances", nil)
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "unknown", apiErr.Code)
	assert.Equal(t, "HTTP 400", apiErr.Message)
}

func TestDoErrorObjectWithMissingFieldsUsesDefaults(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusNotFound, `{"error":{}}`))

	_, err := client.Get(context.Background(), "/instances", nil)
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "unknown", apiErr.Code)
	assert.Empty(t, apiErr.Message)
	assert.Empty(t, apiErr.Suggestion)
}
