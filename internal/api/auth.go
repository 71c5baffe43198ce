// Package api declares the typed endpoint bindings over the gateway
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/gift-redeem/redeemctl/internal/gateway"
	"github.com/gift-redeem/redeemctl/internal/model"
)

// AuthAPI binds the /auth endpoints
type AuthAPI struct {
	gw *gateway.Client
}

// NewAuthAPI creates the auth endpoint bindings
func NewAuthAPI(gw *gateway.Client) *AuthAPI {
	return &AuthAPI{gw: gw}
}

// CallbackResult is the payload of a successful code exchange
type CallbackResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Providers lists the enabled login providers in server order
func (a *AuthAPI) Providers(ctx context.Context) ([]model.Provider, error) {
	data, err := a.gw.Get(ctx, "/auth/providers", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Providers []model.Provider `json:"providers"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding providers: %w", err)
	}
	return payload.Providers, nil
}

// LoginURL returns the provider's authorization URL
func (a *AuthAPI) LoginURL(ctx context.Context, provider string) (string, error) {
	data, err := a.gw.Get(ctx, "/auth/login/"+url.PathEscape(provider), nil)
	if err != nil {
		return "", err
	}

	var payload struct {
		AuthURL string `json:"auth_url"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("decoding login URL: %w", err)
	}
	return payload.AuthURL, nil
}

// ExchangeCallback performs the server-side code exchange
func (a *AuthAPI) ExchangeCallback(ctx context.Context, provider, code, state string) (*CallbackResult, error) {
	query := url.Values{}
	query.Set("code", code)
	query.Set("state", state)
	query.Set("response_type", "json")

	data, err := a.gw.Get(ctx, "/auth/callback/"+url.PathEscape(provider), query)
	if err != nil {
		return nil, err
	}

	var result CallbackResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decoding callback result: %w", err)
	}
	return &result, nil
}

// VerifyCode exchanges a client-received authorization code for a token
func (a *AuthAPI) VerifyCode(ctx context.Context, provider, code string) (*CallbackResult, error) {
	body := map[string]string{"code": code}

	data, err := a.gw.Post(ctx, "/auth/verify/"+url.PathEscape(provider), body)
	if err != nil {
		return nil, err
	}

	var result CallbackResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decoding verify result: %w", err)
	}
	return &result, nil
}

// Profile fetches the current user's profile
func (a *AuthAPI) Profile(ctx context.Context) (*model.User, error) {
	data, err := a.gw.Get(ctx, "/auth/profile", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		User model.User `json:"user"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	return &payload.User, nil
}
