package reference

import (
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/reference"
	"github.com/google/uuid"
)

// Kind selects one of the reference lists
type Kind string

const (
	KindBus      Kind = "buses"
	KindOperator Kind = "operators"
	KindAgent    Kind = "agents"
	KindCategory Kind = "categories"
)

// BusRequest creates a bus
type BusRequest struct {
	Name               string `json:"name" binding:"required,max=100"`
	RegistrationNumber string `json:"registration_number" binding:"max=30"`
}

// PartyRequest creates an operator or an agent
type PartyRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Phone string `json:"phone" binding:"max=20"`
}

// CategoryRequest creates a category. ShareholderID links a finance
// category to its shareholder.
type CategoryRequest struct {
	Name          string     `json:"name" binding:"required,max=100"`
	ShareholderID *uuid.UUID `json:"shareholder_id"`
}

// ItemResponse is the response shape for every reference entity
type ItemResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Kind               Kind       `json:"kind"`
	Name               string     `json:"name"`
	RegistrationNumber string     `json:"registration_number,omitempty"`
	Phone              string     `json:"phone,omitempty"`
	ShareholderID      *uuid.UUID `json:"shareholder_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// ToItemResponse converts any reference entity to its response
func ToItemResponse(entity any) ItemResponse {
	switch v := entity.(type) {
	case *reference.Bus:
		return ItemResponse{ID: v.ID, Kind: KindBus, Name: v.Name, RegistrationNumber: v.RegistrationNumber, CreatedAt: v.CreatedAt}
	case *reference.Operator:
		return ItemResponse{ID: v.ID, Kind: KindOperator, Name: v.Name, Phone: v.Phone, CreatedAt: v.CreatedAt}
	case *reference.Agent:
		return ItemResponse{ID: v.ID, Kind: KindAgent, Name: v.Name, Phone: v.Phone, CreatedAt: v.CreatedAt}
	case *reference.Category:
		return ItemResponse{ID: v.ID, Kind: KindCategory, Name: v.Name, ShareholderID: v.ShareholderID, CreatedAt: v.CreatedAt}
	default:
		return ItemResponse{}
	}
}
