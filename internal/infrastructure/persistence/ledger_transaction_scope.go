package persistence

import (
	"context"

	appledger "github.com/eric6923/finTrack-sub000/internal/application/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/reference"
	"github.com/eric6923/finTrack-sub000/internal/domain/shareholding"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every repository handed to the callback shares one database transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Entries() ledger.EntryRepository {
	return NewGormEntryRepository(r.tx)
}

func (r *gormTransactionalRepositories) Balances() ledger.AccountBalanceRepository {
	return NewGormAccountBalanceRepository(r.tx)
}

func (r *gormTransactionalRepositories) Profiles() shareholding.ProfileRepository {
	return NewGormProfileRepository(r.tx)
}

func (r *gormTransactionalRepositories) Distributions() shareholding.DistributionRepository {
	return NewGormDistributionRepository(r.tx)
}

func (r *gormTransactionalRepositories) Buses() reference.BusRepository {
	return NewGormBusRepository(r.tx)
}

func (r *gormTransactionalRepositories) Operators() reference.OperatorRepository {
	return NewGormOperatorRepository(r.tx)
}

func (r *gormTransactionalRepositories) Agents() reference.AgentRepository {
	return NewGormAgentRepository(r.tx)
}

func (r *gormTransactionalRepositories) Categories() reference.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appledger.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
