package shareholding

import (
	"fmt"
	"strings"
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeProfile is the aggregate type for share profiles
const AggregateTypeProfile = "CompanyShareProfile"

var (
	ErrInvalidPercentage  = shared.NewDomainError("INVALID_PERCENTAGE", "Share percentage must be between 0 and 100")
	ErrNameRequired       = shared.NewDomainError("NAME_REQUIRED", "Name is required")
	ErrDuplicateHolder    = shared.NewConflictError("ALREADY_EXISTS", "A shareholder with this name already exists")
	ErrShareholderMissing = shared.NewDomainErrorWithKind(shared.KindNotFound, "SHAREHOLDER_NOT_FOUND", "Shareholder not found")
	ErrNoShareholders     = shared.NewDomainErrorWithKind(shared.KindNotFound, "NO_SHAREHOLDERS", "No company share profile or shareholders found")
)

var hundred = decimal.NewFromInt(100)

// Shareholder owns a percentage of the company's monthly profit
type Shareholder struct {
	ID                     uuid.UUID
	TenantID               uuid.UUID
	ProfileID              uuid.UUID
	Name                   string
	SharePercentage        decimal.Decimal
	FinancedAmount         valueobject.Money
	AccumulatedShareProfit valueobject.Money
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// ShareholderInput is the caller payload for a shareholder
type ShareholderInput struct {
	Name            string
	SharePercentage string
}

func newShareholder(tenantID, profileID uuid.UUID, in ShareholderInput) (*Shareholder, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	pct, err := decimal.NewFromString(strings.TrimSpace(in.SharePercentage))
	if err != nil || pct.IsNegative() || pct.GreaterThan(hundred) {
		return nil, ErrInvalidPercentage
	}
	now := time.Now().UTC()
	return &Shareholder{
		ID:                     uuid.New(),
		TenantID:               tenantID,
		ProfileID:              profileID,
		Name:                   name,
		SharePercentage:        pct,
		FinancedAmount:         valueobject.Zero(),
		AccumulatedShareProfit: valueobject.Zero(),
		CreatedAt:              now,
		UpdatedAt:              now,
	}, nil
}

// AddFinanced records money the company paid out on the shareholder's behalf
func (s *Shareholder) AddFinanced(amount valueobject.Money) {
	s.FinancedAmount = s.FinancedAmount.Add(amount)
	s.UpdatedAt = time.Now().UTC()
}

// ReduceFinanced undoes AddFinanced, used when a finance DEBIT is reversed
func (s *Shareholder) ReduceFinanced(amount valueobject.Money) {
	s.FinancedAmount = s.FinancedAmount.Sub(amount)
	s.UpdatedAt = time.Now().UTC()
}

// FinanceCategoryName is the category name that routes DEBITs to this
// shareholder when no explicit link is set.
func (s *Shareholder) FinanceCategoryName() string {
	return FinanceCategoryName(s.Name)
}

// FinanceCategorySuffix marks a category as a shareholder finance category
const FinanceCategorySuffix = " FINANCE"

// FinanceCategoryName builds "<Name> FINANCE"
func FinanceCategoryName(holderName string) string {
	return strings.ToUpper(strings.TrimSpace(holderName)) + FinanceCategorySuffix
}

// HolderNameFromCategory strips the finance suffix from a category name.
// ok is false when the category is not a finance category.
func HolderNameFromCategory(categoryName string) (name string, ok bool) {
	trimmed := strings.TrimSpace(categoryName)
	if !strings.HasSuffix(strings.ToUpper(trimmed), FinanceCategorySuffix) {
		return "", false
	}
	name = strings.TrimSpace(trimmed[:len(trimmed)-len(FinanceCategorySuffix)])
	return name, name != ""
}

// CompanyShareProfile is the single share register of a tenant
type CompanyShareProfile struct {
	shared.TenantAggregateRoot
	CompanyName  string
	Shareholders []Shareholder
}

// NewCompanyShareProfile creates the profile together with its shareholders.
// Percentages are not required to add up to 100.
func NewCompanyShareProfile(tenantID uuid.UUID, companyName string, holders []ShareholderInput) (*CompanyShareProfile, error) {
	name := strings.TrimSpace(companyName)
	if name == "" {
		return nil, ErrNameRequired
	}
	p := &CompanyShareProfile{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CompanyName:         name,
	}
	for _, in := range holders {
		if _, err := p.AddShareholder(in); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// AddShareholder appends a shareholder, rejecting duplicate names
func (p *CompanyShareProfile) AddShareholder(in ShareholderInput) (*Shareholder, error) {
	holder, err := newShareholder(p.TenantID, p.ID, in)
	if err != nil {
		return nil, err
	}
	if p.FindShareholderByName(holder.Name) != nil {
		return nil, shared.NewConflictError("ALREADY_EXISTS",
			fmt.Sprintf("Shareholder %q already exists", holder.Name))
	}
	p.Shareholders = append(p.Shareholders, *holder)
	p.Touch()
	return &p.Shareholders[len(p.Shareholders)-1], nil
}

// FindShareholderByName matches names case-insensitively
func (p *CompanyShareProfile) FindShareholderByName(name string) *Shareholder {
	for i := range p.Shareholders {
		if strings.EqualFold(p.Shareholders[i].Name, strings.TrimSpace(name)) {
			return &p.Shareholders[i]
		}
	}
	return nil
}

// TotalPercentage sums all share percentages
func (p *CompanyShareProfile) TotalPercentage() decimal.Decimal {
	total := decimal.Zero
	for _, h := range p.Shareholders {
		total = total.Add(h.SharePercentage)
	}
	return total
}

// HasShareholders reports whether distribution can run
func (p *CompanyShareProfile) HasShareholders() bool {
	return len(p.Shareholders) > 0
}
