package shareholding

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository defines persistence for share profiles and shareholders
type ProfileRepository interface {
	// FindByTenant loads the tenant's profile with its shareholders
	FindByTenant(ctx context.Context, tenantID uuid.UUID) (*CompanyShareProfile, error)

	// FindByTenantForUpdate loads the profile and locks the shareholder rows
	FindByTenantForUpdate(ctx context.Context, tenantID uuid.UUID) (*CompanyShareProfile, error)

	// ExistsForTenant checks whether the tenant already has a profile
	ExistsForTenant(ctx context.Context, tenantID uuid.UUID) (bool, error)

	// Save creates or updates the profile and all of its shareholders
	Save(ctx context.Context, profile *CompanyShareProfile) error

	// FindShareholderForUpdate loads one shareholder of the tenant, locked
	FindShareholderForUpdate(ctx context.Context, tenantID, shareholderID uuid.UUID) (*Shareholder, error)

	// FindShareholderByNameForUpdate matches the name case-insensitively
	FindShareholderByNameForUpdate(ctx context.Context, tenantID uuid.UUID, name string) (*Shareholder, error)

	// SaveShareholder persists a single shareholder
	SaveShareholder(ctx context.Context, holder *Shareholder) error

	// ListTenantIDs returns every tenant that has a share profile
	ListTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// DistributionRepository defines persistence for the distribution ledger
type DistributionRepository interface {
	// FindForUpdate returns the record for (shareholder, period), locked, or
	// shared.ErrNotFound
	FindForUpdate(ctx context.Context, shareholderID uuid.UUID, period string) (*Distribution, error)

	// Save creates or updates a distribution record
	Save(ctx context.Context, d *Distribution) error

	// FindByTenant lists records of a tenant, optionally for one period
	FindByTenant(ctx context.Context, tenantID uuid.UUID, period string) ([]Distribution, error)
}
