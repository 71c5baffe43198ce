// Package model defines the API-facing data types shared by the stores
package model

import "time"

// Benefit status values. Transitions are server-authoritative; the client
// only reflects the status it is given.
const (
	StatusActive  = "active"
	StatusPaused  = "paused"
	StatusExpired = "expired"
	StatusDeleted = "deleted"
)

// User is the authenticated user's profile
type User struct {
	ID        uint           `json:"id"`
	Username  string         `json:"username"`
	AvatarURL string         `json:"avatar_url"`
	CreatedAt time.Time      `json:"created_at"`
	Accounts  []OAuthAccount `json:"accounts,omitempty"`
}

// OAuthAccount is a third-party identity linked to the user
type OAuthAccount struct {
	Provider         string    `json:"provider"`
	ProviderUsername string    `json:"provider_username"`
	ProviderEmail    string    `json:"provider_email"`
	ProviderAvatar   string    `json:"provider_avatar"`
	CreatedAt        time.Time `json:"created_at"`
	LastUsedAt       time.Time `json:"last_used_at"`
}

// Provider is a login provider descriptor as returned by /auth/providers.
// The server controls the ordering.
type Provider struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// Benefit is a redeemable offer created by a user
type Benefit struct {
	ID               uint                   `json:"id,omitempty"`
	UUID             string                 `json:"uuid"`
	Title            string                 `json:"title"`
	Description      string                 `json:"description"`
	TotalCount       int                    `json:"total_count"`
	ClaimedCount     int                    `json:"claimed_count"`
	CreatedAt        time.Time              `json:"created_at"`
	ExpiresAt        time.Time              `json:"expires_at"`
	Status           string                 `json:"status"`
	ClaimURL         string                 `json:"claim_url,omitempty"`
	AllowedProviders []string               `json:"allowed_providers,omitempty"`
	MinAccountAge    int                    `json:"min_account_age,omitempty"`
	Creator          *UserSummary           `json:"creator,omitempty"`
	ClaimConditions  map[string]interface{} `json:"claim_conditions,omitempty"`
}

// UserSummary is the reduced user record embedded in benefit and claim payloads
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// BenefitSummary is the reduced benefit record embedded in claim payloads
type BenefitSummary struct {
	ID          uint   `json:"id,omitempty"`
	UUID        string `json:"uuid"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Claim records that a user redeemed a specific benefit
type Claim struct {
	ID            uint            `json:"id,omitempty"`
	ClaimedAt     time.Time       `json:"claimed_at"`
	OAuthProvider string          `json:"oauth_provider"`
	Benefit       *BenefitSummary `json:"benefit,omitempty"`
	User          *UserSummary    `json:"user,omitempty"`
	Code          string          `json:"code,omitempty"`
}

// CreateBenefitInput is the request body for POST /benefits
type CreateBenefitInput struct {
	Title            string                 `json:"title"`
	Description      string                 `json:"description,omitempty"`
	Codes            []string               `json:"codes"`
	ExpiresAt        *time.Time             `json:"expires_at,omitempty"`
	AllowedProviders []string               `json:"allowed_providers,omitempty"`
	MinAccountAge    int                    `json:"min_account_age,omitempty"`
	ClaimConditions  map[string]interface{} `json:"claim_conditions,omitempty"`
}
