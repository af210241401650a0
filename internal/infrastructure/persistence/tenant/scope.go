// Package tenant provides GORM scopes that confine ledger queries to one tenant.
//
// Usage:
//
//	db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Find(&buses)
//	db.WithContext(ctx).Scopes(tenant.Owned(tenantID, id)).First(&entry)
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTenantIDRequired is returned when a query is scoped to the nil tenant
var ErrTenantIDRequired = errors.New("tenant_id is required")

// Column is the tenant column shared by every tenant-owned table
const Column = "tenant_id"

// Scope filters a query to rows owned by tenantID. A nil tenant poisons the
// statement so that nothing runs unscoped.
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return db.Where(Column+" = ?", tenantID)
	}
}

// Owned filters a query to the single row id owned by tenantID
func Owned(tenantID, id uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return Scope(tenantID)(db).Where("id = ?", id)
	}
}
