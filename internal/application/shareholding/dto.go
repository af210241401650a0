package shareholding

import (
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared/valueobject"
	"github.com/eric6923/finTrack-sub000/internal/domain/shareholding"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShareholderRequest names a shareholder and their percentage (0 to 100)
type ShareholderRequest struct {
	Name            string `json:"name" binding:"required,max=100"`
	SharePercentage string `json:"share_percentage" binding:"required"`
}

func (r ShareholderRequest) toInput() shareholding.ShareholderInput {
	return shareholding.ShareholderInput{Name: r.Name, SharePercentage: r.SharePercentage}
}

// CreateProfileRequest creates the tenant's company share profile
type CreateProfileRequest struct {
	CompanyName  string               `json:"company_name" binding:"required,max=200"`
	Shareholders []ShareholderRequest `json:"shareholders" binding:"dive"`
}

// ShareholderResponse is a shareholder as returned by the API
type ShareholderResponse struct {
	ID                     uuid.UUID         `json:"id"`
	Name                   string            `json:"name"`
	SharePercentage        decimal.Decimal   `json:"share_percentage"`
	FinanceCategory        string            `json:"finance_category"`
	FinancedAmount         valueobject.Money `json:"financed_amount"`
	AccumulatedShareProfit valueobject.Money `json:"accumulated_share_profit"`
}

// ProfileResponse is the company share profile as returned by the API
type ProfileResponse struct {
	ID              uuid.UUID             `json:"id"`
	CompanyName     string                `json:"company_name"`
	TotalPercentage decimal.Decimal       `json:"total_percentage"`
	Shareholders    []ShareholderResponse `json:"shareholders"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// ToShareholderResponse converts a domain Shareholder
func ToShareholderResponse(h *shareholding.Shareholder) ShareholderResponse {
	return ShareholderResponse{
		ID:                     h.ID,
		Name:                   h.Name,
		SharePercentage:        h.SharePercentage,
		FinanceCategory:        h.FinanceCategoryName(),
		FinancedAmount:         h.FinancedAmount,
		AccumulatedShareProfit: h.AccumulatedShareProfit,
	}
}

// ToProfileResponse converts a domain CompanyShareProfile
func ToProfileResponse(p *shareholding.CompanyShareProfile) ProfileResponse {
	holders := make([]ShareholderResponse, len(p.Shareholders))
	for i := range p.Shareholders {
		holders[i] = ToShareholderResponse(&p.Shareholders[i])
	}
	return ProfileResponse{
		ID:              p.ID,
		CompanyName:     p.CompanyName,
		TotalPercentage: p.TotalPercentage(),
		Shareholders:    holders,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
