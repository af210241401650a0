package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccountBalanceRepository implements ledger.AccountBalanceRepository
type GormAccountBalanceRepository struct {
	db *gorm.DB
}

// NewGormAccountBalanceRepository creates a new GormAccountBalanceRepository
func NewGormAccountBalanceRepository(db *gorm.DB) *GormAccountBalanceRepository {
	return &GormAccountBalanceRepository{db: db}
}

// Find returns the tenant's balances, or zero balances if none exist yet
func (r *GormAccountBalanceRepository) Find(ctx context.Context, tenantID uuid.UUID) (*ledger.AccountBalance, error) {
	var model models.AccountBalanceModel
	err := r.db.WithContext(ctx).First(&model, "tenant_id = ?", tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ledger.NewAccountBalance(tenantID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load balances: %w", err)
	}
	return model.ToDomain(), nil
}

// FindForUpdate creates the tenant's balance row if needed and locks it
func (r *GormAccountBalanceRepository) FindForUpdate(ctx context.Context, tenantID uuid.UUID) (*ledger.AccountBalance, error) {
	db := r.db.WithContext(ctx)
	seed := &models.AccountBalanceModel{
		TenantID:       tenantID,
		CashBalance:    valueobject.Zero().Amount(),
		BankBalance:    valueobject.Zero().Amount(),
		OutstandingDue: valueobject.Zero().Amount(),
		Version:        1,
		UpdatedAt:      time.Now().UTC(),
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
		return nil, fmt.Errorf("failed to create balances: %w", err)
	}

	var model models.AccountBalanceModel
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "tenant_id = ?", tenantID).Error; err != nil {
		return nil, fmt.Errorf("failed to lock balances: %w", err)
	}
	return model.ToDomain(), nil
}

// Save persists balances and bumps the row version
func (r *GormAccountBalanceRepository) Save(ctx context.Context, balance *ledger.AccountBalance) error {
	balance.Version++
	model := models.AccountBalanceModelFromDomain(balance)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		balance.Version--
		return fmt.Errorf("failed to save balances: %w", err)
	}
	return nil
}

var _ ledger.AccountBalanceRepository = (*GormAccountBalanceRepository)(nil)
