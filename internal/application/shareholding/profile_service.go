package shareholding

import (
	"context"
	"fmt"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/domain/shareholding"
	"github.com/google/uuid"
)

// ErrProfileExists is returned when a tenant creates a second profile
var ErrProfileExists = shared.NewConflictError("PROFILE_EXISTS", "Company share profile already exists")

// ProfileService manages the company share profile and its shareholders
type ProfileService struct {
	profiles shareholding.ProfileRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles shareholding.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Create creates the tenant's profile. A tenant has at most one.
func (s *ProfileService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProfileRequest) (*ProfileResponse, error) {
	exists, err := s.profiles.ExistsForTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to check share profile: %w", err)
	}
	if exists {
		return nil, ErrProfileExists
	}

	inputs := make([]shareholding.ShareholderInput, len(req.Shareholders))
	for i, h := range req.Shareholders {
		inputs[i] = h.toInput()
	}
	profile, err := shareholding.NewCompanyShareProfile(tenantID, req.CompanyName, inputs)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}

	resp := ToProfileResponse(profile)
	return &resp, nil
}

// Get returns the tenant's profile with its shareholders
func (s *ProfileService) Get(ctx context.Context, tenantID uuid.UUID) (*ProfileResponse, error) {
	profile, err := s.profiles.FindByTenant(ctx, tenantID)
	if err != nil {
		if shared.KindOf(err) == shared.KindNotFound {
			return nil, shared.NewNotFoundError("Company share profile not found")
		}
		return nil, err
	}
	resp := ToProfileResponse(profile)
	return &resp, nil
}

// AddShareholder adds a shareholder to an existing profile
func (s *ProfileService) AddShareholder(ctx context.Context, tenantID uuid.UUID, req ShareholderRequest) (*ShareholderResponse, error) {
	profile, err := s.profiles.FindByTenantForUpdate(ctx, tenantID)
	if err != nil {
		if shared.KindOf(err) == shared.KindNotFound {
			return nil, shared.NewNotFoundError("Company share profile not found")
		}
		return nil, err
	}

	holder, err := profile.AddShareholder(req.toInput())
	if err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}

	resp := ToShareholderResponse(holder)
	return &resp, nil
}
