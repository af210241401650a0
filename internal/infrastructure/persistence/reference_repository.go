package persistence

import (
	"context"
	"strings"

	"github.com/eric6923/finTrack-sub000/internal/domain/reference"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/persistence/models"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReferenceRepository implements reference.Repository for one entity
// type T stored as model M
type GormReferenceRepository[T reference.Named, M any] struct {
	db     *gorm.DB
	mapper models.ReferenceMapper[T, M]
}

// NewGormReferenceRepository creates a repository for one reference table
func NewGormReferenceRepository[T reference.Named, M any](db *gorm.DB, mapper models.ReferenceMapper[T, M]) *GormReferenceRepository[T, M] {
	return &GormReferenceRepository[T, M]{db: db, mapper: mapper}
}

// NewGormBusRepository creates the bus repository
func NewGormBusRepository(db *gorm.DB) reference.BusRepository {
	return NewGormReferenceRepository(db, models.BusMapper)
}

// NewGormOperatorRepository creates the operator repository
func NewGormOperatorRepository(db *gorm.DB) reference.OperatorRepository {
	return NewGormReferenceRepository(db, models.OperatorMapper)
}

// NewGormAgentRepository creates the agent repository
func NewGormAgentRepository(db *gorm.DB) reference.AgentRepository {
	return NewGormReferenceRepository(db, models.AgentMapper)
}

// NewGormCategoryRepository creates the category repository
func NewGormCategoryRepository(db *gorm.DB) reference.CategoryRepository {
	return NewGormReferenceRepository(db, models.CategoryMapper)
}

// FindByID finds an item of the tenant
func (r *GormReferenceRepository[T, M]) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*T, error) {
	var model M
	if err := r.db.WithContext(ctx).Scopes(tenant.Owned(tenantID, id)).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return r.mapper.ToDomain(&model), nil
}

// FindAll lists the tenant's items ordered by name
func (r *GormReferenceRepository[T, M]) FindAll(ctx context.Context, tenantID uuid.UUID) ([]T, error) {
	var rows []M
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]T, len(rows))
	for i := range rows {
		out[i] = *r.mapper.ToDomain(&rows[i])
	}
	return out, nil
}

// ExistsByName checks for a case-insensitive name match within the tenant
func (r *GormReferenceRepository[T, M]) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error) {
	var count int64
	var model M
	if err := r.db.WithContext(ctx).Model(&model).Scopes(tenant.Scope(tenantID)).
		Where("UPPER(name) = ?", strings.ToUpper(strings.TrimSpace(name))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an item
func (r *GormReferenceRepository[T, M]) Save(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Save(r.mapper.ToModel(entity)).Error; err != nil {
		return translateError(err, reference.ErrNameTaken, nil)
	}
	return nil
}

// Delete removes an item. Items still referenced elsewhere fail with
// reference.ErrInUse.
func (r *GormReferenceRepository[T, M]) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	var model M
	result := r.db.WithContext(ctx).Scopes(tenant.Owned(tenantID, id)).Delete(&model)
	if result.Error != nil {
		return translateError(result.Error, nil, reference.ErrInUse)
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound)
	}
	return nil
}
