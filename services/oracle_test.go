package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOracleNotifierPostsRequest(t *testing.T) {
	received := make(chan oracleRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req oracleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		received <- req
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	NewOracleNotifier(srv.URL).NotifyRequest(7, 5)
	got := <-received
	assert.Equal(t, uint64(7), got.RequestID)
	assert.Equal(t, 5, got.NumValues)
}

func TestOracleNotifierToleratesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	// Errors are logged, never propagated.
	NewOracleNotifier(srv.URL).NotifyRequest(8, 5)
	NewOracleNotifier("http://127.0.0.1:1").NotifyRequest(9, 5)
}
