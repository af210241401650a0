package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/eric6923/finTrack-sub000/internal/domain/ledger"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/persistence/models"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEntryRepository implements ledger.EntryRepository using GORM
type GormEntryRepository struct {
	db *gorm.DB
}

// NewGormEntryRepository creates a new GormEntryRepository
func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

func (r *GormEntryRepository) withSale(db *gorm.DB) *gorm.DB {
	return db.Preload("DeferredSale").
		Preload("DeferredSale.Collection").
		Preload("DeferredSale.Commission")
}

func inPeriod(db *gorm.DB, column string, period ledger.Period) *gorm.DB {
	if period.IsAllTime() {
		return db
	}
	return db.Where(column+" >= ? AND "+column+" < ?", period.Start, period.End)
}

// FindByID loads an entry regardless of tenant so ownership can be checked
func (r *GormEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	var model models.LedgerEntryModel
	if err := r.withSale(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads an entry and locks its row until the transaction ends
func (r *GormEntryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	var model models.LedgerEntryModel
	if err := r.withSale(r.db.WithContext(ctx)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant returns a page of entries and the total match count
func (r *GormEntryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.EntryFilter) ([]ledger.Entry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).Scopes(tenant.Scope(tenantID))
	if filter.Direction != nil {
		query = query.Where("direction = ?", string(*filter.Direction))
	}
	if filter.Channel != nil {
		query = query.Where("channel = ?", string(*filter.Channel))
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.DeferredOnly {
		query = query.Where("is_deferred = ?", true)
	}
	if filter.PendingOnly {
		query = query.Where("is_deferred = ? AND outstanding_due > 0", true)
	}
	query = inPeriod(query, "created_at", filter.Period).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	f := filter.Normalize()
	var rows []models.LedgerEntryModel
	if err := r.withSale(query).
		Order(entryOrder(f.OrderBy, f.OrderDir)).
		Offset(f.Offset()).
		Limit(f.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toEntries(rows), total, nil
}

// FindByPeriod returns every entry of a tenant in a period, oldest first
func (r *GormEntryRepository) FindByPeriod(ctx context.Context, tenantID uuid.UUID, period ledger.Period) ([]ledger.Entry, error) {
	var rows []models.LedgerEntryModel
	query := inPeriod(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), "created_at", period)
	if err := r.withSale(query).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntries(rows), nil
}

// FindProfitCandidates returns CREDIT entries in the period that are not
// pay-later or are fully settled
func (r *GormEntryRepository) FindProfitCandidates(ctx context.Context, tenantID uuid.UUID, period ledger.Period) ([]ledger.Entry, error) {
	var rows []models.LedgerEntryModel
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND direction = ?", tenantID, string(ledger.DirectionCredit)).
		Where("(is_deferred = ? OR outstanding_due = 0)", false)
	query = inPeriod(query, "created_at", period)
	if err := r.withSale(query).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntries(rows), nil
}

// SumDebitsExcludingCategory totals DEBIT entries in the period whose
// category name differs from categoryName. Names compare case-insensitively.
func (r *GormEntryRepository) SumDebitsExcludingCategory(ctx context.Context, tenantID uuid.UUID, period ledger.Period, categoryName string) (valueobject.Money, error) {
	var result struct {
		Total decimal.NullDecimal
	}
	query := r.db.WithContext(ctx).
		Table("ledger_entries AS e").
		Select("SUM(e.amount) AS total").
		Joins("LEFT JOIN categories c ON c.id = e.category_id").
		Where("e.tenant_id = ? AND e.direction = ?", tenantID, string(ledger.DirectionDebit)).
		Where("(c.name IS NULL OR UPPER(c.name) <> ?)", strings.ToUpper(categoryName))
	query = inPeriod(query, "e.created_at", period)
	if err := query.Scan(&result).Error; err != nil {
		return valueobject.Money{}, fmt.Errorf("failed to sum debits: %w", err)
	}
	if !result.Total.Valid {
		return valueobject.Zero(), nil
	}
	return valueobject.NewMoney(result.Total.Decimal), nil
}

// Save creates or updates an entry together with its deferred sale. A sale
// or commission that no longer exists on the entry is removed.
func (r *GormEntryRepository) Save(ctx context.Context, entry *ledger.Entry) error {
	db := r.db.WithContext(ctx)
	model := models.LedgerEntryModelFromDomain(entry)
	if err := db.Omit(clause.Associations).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}

	if entry.DeferredSale == nil {
		return r.deleteSale(db, entry.ID)
	}

	sale := models.DeferredSaleModelFromDomain(entry.TenantID, entry.DeferredSale)
	if err := db.Omit(clause.Associations).Save(sale).Error; err != nil {
		return fmt.Errorf("failed to save deferred sale: %w", err)
	}
	if sale.Collection != nil {
		if err := db.Save(sale.Collection).Error; err != nil {
			return fmt.Errorf("failed to save collection: %w", err)
		}
	}
	if sale.Commission != nil {
		if err := db.Save(sale.Commission).Error; err != nil {
			return fmt.Errorf("failed to save commission: %w", err)
		}
	} else if err := db.Where("deferred_sale_id = ?", sale.ID).Delete(&models.CommissionModel{}).Error; err != nil {
		return fmt.Errorf("failed to remove commission: %w", err)
	}
	return nil
}

func (r *GormEntryRepository) deleteSale(db *gorm.DB, entryID uuid.UUID) error {
	saleIDs := db.Model(&models.DeferredSaleModel{}).Select("id").Where("entry_id = ?", entryID)
	if err := db.Where("deferred_sale_id IN (?)", saleIDs).Delete(&models.CollectionModel{}).Error; err != nil {
		return fmt.Errorf("failed to remove collection: %w", err)
	}
	if err := db.Where("deferred_sale_id IN (?)", saleIDs).Delete(&models.CommissionModel{}).Error; err != nil {
		return fmt.Errorf("failed to remove commission: %w", err)
	}
	if err := db.Where("entry_id = ?", entryID).Delete(&models.DeferredSaleModel{}).Error; err != nil {
		return fmt.Errorf("failed to remove deferred sale: %w", err)
	}
	return nil
}

// Delete removes an entry and its deferred sale
func (r *GormEntryRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.LedgerEntryModel{}).Scopes(tenant.Owned(tenantID, id)).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound(gorm.ErrRecordNotFound)
	}
	if err := r.deleteSale(db, id); err != nil {
		return err
	}
	result := db.Scopes(tenant.Owned(tenantID, id)).Delete(&models.LedgerEntryModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound)
	}
	return nil
}

// DetachSettlements clears the link from settlement entries to a deleted entry
func (r *GormEntryRepository) DetachSettlements(ctx context.Context, tenantID, settledEntryID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("settled_entry_id = ?", settledEntryID).
		Update("settled_entry_id", nil).Error
}

func toEntries(rows []models.LedgerEntryModel) []ledger.Entry {
	entries := make([]ledger.Entry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries
}

var _ ledger.EntryRepository = (*GormEntryRepository)(nil)
