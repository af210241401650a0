package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/domain/shareholding"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/persistence/models"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProfileRepository implements shareholding.ProfileRepository
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

func (r *GormProfileRepository) find(db *gorm.DB, tenantID uuid.UUID, lock bool) (*shareholding.CompanyShareProfile, error) {
	holders := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Order("name ASC")
		if lock {
			tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		return tx
	}
	var model models.ShareProfileModel
	if err := db.Preload("Shareholders", holders).First(&model, "tenant_id = ?", tenantID).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByTenant loads the tenant's profile with its shareholders
func (r *GormProfileRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*shareholding.CompanyShareProfile, error) {
	return r.find(r.db.WithContext(ctx), tenantID, false)
}

// FindByTenantForUpdate loads the profile and locks its shareholder rows
func (r *GormProfileRepository) FindByTenantForUpdate(ctx context.Context, tenantID uuid.UUID) (*shareholding.CompanyShareProfile, error) {
	return r.find(r.db.WithContext(ctx), tenantID, true)
}

// ExistsForTenant checks whether the tenant already has a profile
func (r *GormProfileRepository) ExistsForTenant(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ShareProfileModel{}).
		Scopes(tenant.Scope(tenantID)).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates the profile and all of its shareholders
func (r *GormProfileRepository) Save(ctx context.Context, profile *shareholding.CompanyShareProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(models.ShareProfileModelFromDomain(profile)).Error; err != nil {
			return translateError(err, shared.ErrAlreadyExists, nil)
		}
		for i := range profile.Shareholders {
			if err := tx.Save(models.ShareholderModelFromDomain(&profile.Shareholders[i])).Error; err != nil {
				return translateError(err, shareholding.ErrDuplicateHolder, nil)
			}
		}
		return nil
	})
}

// FindShareholderForUpdate loads one shareholder of the tenant, locked
func (r *GormProfileRepository) FindShareholderForUpdate(ctx context.Context, tenantID, shareholderID uuid.UUID) (*shareholding.Shareholder, error) {
	var model models.ShareholderModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Owned(tenantID, shareholderID)).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindShareholderByNameForUpdate matches the name case-insensitively
func (r *GormProfileRepository) FindShareholderByNameForUpdate(ctx context.Context, tenantID uuid.UUID, name string) (*shareholding.Shareholder, error) {
	var model models.ShareholderModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "tenant_id = ? AND UPPER(name) = ?", tenantID, strings.ToUpper(strings.TrimSpace(name))).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// SaveShareholder persists a single shareholder
func (r *GormProfileRepository) SaveShareholder(ctx context.Context, holder *shareholding.Shareholder) error {
	if err := r.db.WithContext(ctx).Save(models.ShareholderModelFromDomain(holder)).Error; err != nil {
		return fmt.Errorf("failed to save shareholder: %w", err)
	}
	return nil
}

// ListTenantIDs returns every tenant that has a share profile
func (r *GormProfileRepository) ListTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.ShareProfileModel{}).
		Order("created_at ASC").Pluck("tenant_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

var _ shareholding.ProfileRepository = (*GormProfileRepository)(nil)

// GormDistributionRepository implements shareholding.DistributionRepository
type GormDistributionRepository struct {
	db *gorm.DB
}

// NewGormDistributionRepository creates a new GormDistributionRepository
func NewGormDistributionRepository(db *gorm.DB) *GormDistributionRepository {
	return &GormDistributionRepository{db: db}
}

// FindForUpdate returns the (shareholder, period) record, locked
func (r *GormDistributionRepository) FindForUpdate(ctx context.Context, shareholderID uuid.UUID, period string) (*shareholding.Distribution, error) {
	var model models.DistributionModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "shareholder_id = ? AND period = ?", shareholderID, period).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a distribution record
func (r *GormDistributionRepository) Save(ctx context.Context, d *shareholding.Distribution) error {
	if err := r.db.WithContext(ctx).Save(models.DistributionModelFromDomain(d)).Error; err != nil {
		return translateError(err, shared.ErrConcurrencyConflict, nil)
	}
	return nil
}

// FindByTenant lists records of a tenant, optionally for one period
func (r *GormDistributionRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, period string) ([]shareholding.Distribution, error) {
	query := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID))
	if period != "" {
		query = query.Where("period = ?", period)
	}
	var rows []models.DistributionModel
	if err := query.Order("period DESC, created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]shareholding.Distribution, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var _ shareholding.DistributionRepository = (*GormDistributionRepository)(nil)
