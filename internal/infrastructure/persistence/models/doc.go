// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
// - base.go: Base persistence models (BaseModel, TenantAggregateModel)
// - ledger.go: ledger entries, deferred sales, sub-ledgers and balances
// - shareholding.go: share profiles, shareholders and distribution records
// - reference.go: buses, operators, agents and categories
package models
