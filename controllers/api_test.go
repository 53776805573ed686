package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellapacxx/lottery-backend/controllers"
	"github.com/bellapacxx/lottery-backend/routes"
	"github.com/bellapacxx/lottery-backend/services"
)

func newServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core := services.NewCore(services.DefaultParams(), "owner", nil, nil, nil)
	controllers.Init(core)
	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, principal string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if principal != "" {
		req.Header.Set("X-Principal", principal)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAccountEndpoints(t *testing.T) {
	r := newServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/accounts", gin.H{"address": "alice"}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/accounts", gin.H{"address": "alice"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/accounts", gin.H{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Minting is owner-gated through the principal header.
	w = doJSON(t, r, http.MethodPost, "/api/accounts/alice/mint", gin.H{"amount": "100"}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/accounts/alice/mint", gin.H{"amount": "100"}, "owner")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/accounts/alice", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Account struct {
			Address string `json:"address"`
			Balance string `json:"balance"`
		} `json:"account"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.Account.Address)
	assert.Equal(t, "100", resp.Account.Balance)

	w = doJSON(t, r, http.MethodGet, "/api/accounts/nobody", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBettingFlow(t *testing.T) {
	r := newServer(t)

	doJSON(t, r, http.MethodPost, "/api/accounts", gin.H{"address": "alice"}, "")
	doJSON(t, r, http.MethodPost, "/api/accounts/alice/mint", gin.H{"amount": "100"}, "owner")

	w := doJSON(t, r, http.MethodPost, "/api/stake", gin.H{"address": "alice", "amount": "50"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/rounds/current", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var current struct {
		Round struct {
			RoundID uint64 `json:"roundId"`
		} `json:"round"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &current))
	assert.Equal(t, uint64(1), current.Round.RoundID)
	assert.Equal(t, "open", current.Status)

	w = doJSON(t, r, http.MethodPost, "/api/bets", gin.H{
		"address": "alice",
		"numbers": []int{1, 2, 3, 4, 5},
		"amount":  "10",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/bets", gin.H{
		"address": "alice",
		"numbers": []int{5, 4, 3, 2, 1},
		"amount":  "10",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/rounds/1/bets", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var bets []struct {
		Bettor string `json:"bettor"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bets))
	require.Len(t, bets, 1)
	assert.Equal(t, "alice", bets[0].Bettor)

	// The round has not ended, so neither closing nor claiming works yet.
	w = doJSON(t, r, http.MethodPost, "/api/rounds/end", nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/claims", gin.H{
		"address":     "alice",
		"round_id":    1,
		"bet_indices": []int{0},
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/claims/claimable?round=1&address=alice", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRandomnessCallbackEndpoint(t *testing.T) {
	r := newServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/randomness/callback", gin.H{
		"request_id": 999,
		"values":     []uint64{1, 2, 3, 4, 5},
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/randomness/callback", gin.H{"values": []uint64{1}}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminEndpoints(t *testing.T) {
	r := newServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/admin/pause", nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/admin/pause", nil, "owner")
	assert.Equal(t, http.StatusOK, w.Code)

	// Paused engine rejects bets with a conflict.
	doJSON(t, r, http.MethodPost, "/api/accounts", gin.H{"address": "alice"}, "")
	doJSON(t, r, http.MethodPost, "/api/accounts/alice/mint", gin.H{"amount": "100"}, "owner")
	doJSON(t, r, http.MethodPost, "/api/stake", gin.H{"address": "alice", "amount": "50"}, "")
	w = doJSON(t, r, http.MethodPost, "/api/bets", gin.H{
		"address": "alice",
		"numbers": []int{1, 2, 3, 4, 5},
		"amount":  "10",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/admin/unpause", nil, "owner")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/admin/schedule", gin.H{
		"param": "max_payout_per_round",
		"value": "5000",
	}, "owner")
	assert.Equal(t, http.StatusOK, w.Code)

	// The timelock has not elapsed.
	w = doJSON(t, r, http.MethodPost, "/api/admin/execute", gin.H{
		"param": "max_payout_per_round",
		"value": "5000",
	}, "owner")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/admin/roles", gin.H{
		"principal": "op",
		"role":      "operator",
	}, "owner")
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/admin/roles", gin.H{
		"principal": "op2",
		"role":      "operator",
	}, "mallory")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
