package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gift-redeem/redeemctl/internal/gateway"
)

func newGateway(t *testing.T, handler http.HandlerFunc) *gateway.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return gateway.NewClient(gateway.Options{BaseURL: srv.URL})
}

func ok(t *testing.T, w http.ResponseWriter, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{"code": 0, "msg": "success", "data": data})
	require.NoError(t, err)
}

func TestProviders_DecodesServerOrder(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/providers", r.URL.Path)
		ok(t, w, map[string]any{"providers": []map[string]string{
			{"name": "gitlab", "display_name": "GitLab"},
			{"name": "github", "display_name": "GitHub"},
		}})
	})

	providers, err := NewAuthAPI(gw).Providers(context.Background())
	require.NoError(t, err)
	require.Len(t, providers, 2)
	assert.Equal(t, "gitlab", providers[0].Name, "server order preserved")
}

func TestExchangeCallback_SendsCodeStateAndJSONResponseType(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/callback/github", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "the-code", q.Get("code"))
		assert.Equal(t, "the-state", q.Get("state"))
		assert.Equal(t, "json", q.Get("response_type"))
		ok(t, w, map[string]any{
			"token": "tok",
			"user":  map[string]any{"id": 1, "username": "alice"},
		})
	})

	result, err := NewAuthAPI(gw).ExchangeCallback(context.Background(), "github", "the-code", "the-state")
	require.NoError(t, err)
	assert.Equal(t, "tok", result.Token)
	assert.Equal(t, "alice", result.User.Username)
}

func TestUpdateStatus_PutsToStatusPath(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]string
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		ok(t, w, nil)
	})

	err := NewBenefitAPI(gw).UpdateStatus(context.Background(), "u-1", "paused")
	require.NoError(t, err)
	assert.Equal(t, "/benefits/u-1/status", gotPath)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "paused", gotBody["status"])
}

func TestByUUID_DecodesViewWithClaimStatus(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/claim/u-1", r.URL.Path)
		ok(t, w, map[string]any{
			"benefit":      map[string]any{"uuid": "u-1", "title": "Trial", "status": "active"},
			"claim_status": "already_claimed",
		})
	})

	view, err := NewBenefitAPI(gw).ByUUID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Trial", view.Benefit.Title)
	assert.Equal(t, "already_claimed", view.ClaimStatus)
}

func TestClaim_PostsWithEmptyBody(t *testing.T) {
	var gotMethod string
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		ok(t, w, map[string]any{"claim": map[string]any{"code": "KEY-1", "oauth_provider": "github"}})
	})

	result, err := NewBenefitAPI(gw).Claim(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "KEY-1", result.Claim.Code)
}
