// Package benefit owns the benefit and claim collections for redeemctl
package benefit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gift-redeem/redeemctl/internal/api"
	"github.com/gift-redeem/redeemctl/internal/model"
)

// BenefitService is the slice of the endpoint layer the store consumes
type BenefitService interface {
	Create(ctx context.Context, input model.CreateBenefitInput) (*api.CreateResult, error)
	Mine(ctx context.Context) ([]model.Benefit, error)
	UpdateStatus(ctx context.Context, uuid, status string) error
	Claims(ctx context.Context, uuid string) ([]model.Claim, error)
	ByUUID(ctx context.Context, uuid string) (*api.BenefitView, error)
	Claim(ctx context.Context, uuid string) (*api.ClaimResult, error)
	MyClaims(ctx context.Context) ([]model.Claim, error)
}

// Store holds the current user's benefits and claims. The benefit
// collection is kept newest-first; fetches replace it wholesale and
// Create prepends.
//
// Like the session store, the loading/lastErr pair is shared across all
// operations and races last-writer-wins under concurrent calls.
type Store struct {
	svc    BenefitService
	logger *slog.Logger

	mu       sync.Mutex
	benefits []model.Benefit
	claims   []model.Claim
	current  *api.BenefitView
	loading  bool
	lastErr  string
}

// NewStore creates an empty domain store
func NewStore(svc BenefitService, logger *slog.Logger) *Store {
	return &Store{svc: svc, logger: logger}
}

// Benefits returns the owned benefit collection, newest first
func (s *Store) Benefits() []model.Benefit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.benefits
}

// Claims returns the current user's claim collection
func (s *Store) Claims() []model.Claim {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claims
}

// Current returns the benefit last fetched by uuid, or nil
func (s *Store) Current() *api.BenefitView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Loading reports whether an operation is in flight
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the message of the last failed operation, empty if the
// most recent operation succeeded
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Active returns the benefits with status active. The result is a
// fresh projection; mutating it does not touch the owned collection.
func (s *Store) Active() []model.Benefit {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Benefit
	for _, b := range s.benefits {
		if b.Status == model.StatusActive {
			out = append(out, b)
		}
	}
	return out
}

// Expired returns the benefits with status expired or deleted
func (s *Store) Expired() []model.Benefit {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Benefit
	for _, b := range s.benefits {
		if b.Status == model.StatusExpired || b.Status == model.StatusDeleted {
			out = append(out, b)
		}
	}
	return out
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *Store) finish(err error) {
	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.lastErr = err.Error()
	}
	s.mu.Unlock()
}

// Create creates a benefit and prepends it to the local collection
func (s *Store) Create(ctx context.Context, input model.CreateBenefitInput) (*api.CreateResult, error) {
	s.begin()
	result, err := s.svc.Create(ctx, input)
	s.finish(err)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.benefits = append([]model.Benefit{result.Benefit}, s.benefits...)
	s.mu.Unlock()
	return result, nil
}

// FetchMine replaces the benefit collection with the server's list
func (s *Store) FetchMine(ctx context.Context) ([]model.Benefit, error) {
	s.begin()
	benefits, err := s.svc.Mine(ctx)
	s.finish(err)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.benefits = benefits
	s.mu.Unlock()
	return benefits, nil
}

// UpdateStatus changes a benefit's status on the server and, only after
// the server confirms, patches the matching local entry in place. A
// uuid with no local entry is silently skipped.
func (s *Store) UpdateStatus(ctx context.Context, uuid, status string) (bool, error) {
	s.begin()
	err := s.svc.UpdateStatus(ctx, uuid, status)
	s.finish(err)
	if err != nil {
		return false, err
	}

	patched := false
	s.mu.Lock()
	for i := range s.benefits {
		if s.benefits[i].UUID == uuid {
			s.benefits[i].Status = status
			patched = true
			break
		}
	}
	s.mu.Unlock()
	return patched, nil
}

// FetchBenefitClaims returns the claims recorded against one benefit.
// The result is handed to the caller and not retained by the store.
func (s *Store) FetchBenefitClaims(ctx context.Context, uuid string) ([]model.Claim, error) {
	s.begin()
	claims, err := s.svc.Claims(ctx, uuid)
	s.finish(err)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// GetByUUID fetches a benefit through its public claim uuid and makes
// it the current benefit, replacing any prior value
func (s *Store) GetByUUID(ctx context.Context, uuid string) (*api.BenefitView, error) {
	s.begin()
	view, err := s.svc.ByUUID(ctx, uuid)
	s.finish(err)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = view
	s.mu.Unlock()
	return view, nil
}

// ClaimBenefit redeems the benefit. The local claim collection is NOT
// updated; callers refetch with FetchMyClaims to observe the new claim.
func (s *Store) ClaimBenefit(ctx context.Context, uuid string) (*api.ClaimResult, error) {
	s.begin()
	result, err := s.svc.Claim(ctx, uuid)
	s.finish(err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FetchMyClaims replaces the claim collection with the server's list
func (s *Store) FetchMyClaims(ctx context.Context) ([]model.Claim, error) {
	s.begin()
	claims, err := s.svc.MyClaims(ctx)
	s.finish(err)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.claims = claims
	s.mu.Unlock()
	return claims, nil
}
