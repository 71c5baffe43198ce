package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/gift-redeem/redeemctl/internal/gateway"
	"github.com/gift-redeem/redeemctl/internal/model"
)

// BenefitAPI binds the /benefits and /claim endpoints
type BenefitAPI struct {
	gw *gateway.Client
}

// NewBenefitAPI creates the benefit endpoint bindings
func NewBenefitAPI(gw *gateway.Client) *BenefitAPI {
	return &BenefitAPI{gw: gw}
}

// CreateResult is the payload of a successful benefit creation
type CreateResult struct {
	Benefit model.Benefit `json:"benefit"`
}

// BenefitView is the public view of a benefit fetched by claim uuid
type BenefitView struct {
	Benefit     model.Benefit `json:"benefit"`
	ClaimStatus string        `json:"claim_status"`
}

// ClaimResult is the payload of a successful claim
type ClaimResult struct {
	Claim model.Claim `json:"claim"`
}

// Create creates a new benefit
func (b *BenefitAPI) Create(ctx context.Context, input model.CreateBenefitInput) (*CreateResult, error) {
	data, err := b.gw.Post(ctx, "/benefits", input)
	if err != nil {
		return nil, err
	}

	var result CreateResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decoding created benefit: %w", err)
	}
	return &result, nil
}

// Mine lists the benefits created by the current user
func (b *BenefitAPI) Mine(ctx context.Context) ([]model.Benefit, error) {
	data, err := b.gw.Get(ctx, "/benefits/my", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Benefits []model.Benefit `json:"benefits"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding benefits: %w", err)
	}
	return payload.Benefits, nil
}

// UpdateStatus changes a benefit's status
func (b *BenefitAPI) UpdateStatus(ctx context.Context, uuid, status string) error {
	body := map[string]string{"status": status}
	_, err := b.gw.Put(ctx, "/benefits/"+url.PathEscape(uuid)+"/status", body)
	return err
}

// Claims lists the claims recorded against one benefit
func (b *BenefitAPI) Claims(ctx context.Context, uuid string) ([]model.Claim, error) {
	data, err := b.gw.Get(ctx, "/benefits/"+url.PathEscape(uuid)+"/claims", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Claims []model.Claim `json:"claims"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding benefit claims: %w", err)
	}
	return payload.Claims, nil
}

// ByUUID fetches a benefit through its public claim uuid
func (b *BenefitAPI) ByUUID(ctx context.Context, uuid string) (*BenefitView, error) {
	data, err := b.gw.Get(ctx, "/claim/"+url.PathEscape(uuid), nil)
	if err != nil {
		return nil, err
	}

	var view BenefitView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("decoding benefit: %w", err)
	}
	return &view, nil
}

// Claim redeems a benefit for the current user
func (b *BenefitAPI) Claim(ctx context.Context, uuid string) (*ClaimResult, error) {
	data, err := b.gw.Post(ctx, "/claim/"+url.PathEscape(uuid), nil)
	if err != nil {
		return nil, err
	}

	var result ClaimResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decoding claim: %w", err)
	}
	return &result, nil
}

// MyClaims lists the claims made by the current user
func (b *BenefitAPI) MyClaims(ctx context.Context) ([]model.Claim, error) {
	data, err := b.gw.Get(ctx, "/claims/my", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Claims []model.Claim `json:"claims"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding claims: %w", err)
	}
	return payload.Claims, nil
}
