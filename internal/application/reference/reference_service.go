package reference

import (
	"context"
	"fmt"

	"github.com/eric6923/finTrack-sub000/internal/domain/reference"
	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/domain/shareholding"
	"github.com/google/uuid"
)

// ErrUnknownKind is returned for a list name other than buses, operators,
// agents or categories
var ErrUnknownKind = shared.NewDomainErrorWithKind(shared.KindNotFound, "NOT_FOUND", "Unknown reference list")

// ShareholderFinder resolves the shareholder a finance category links to
type ShareholderFinder interface {
	FindShareholderForUpdate(ctx context.Context, tenantID, shareholderID uuid.UUID) (*shareholding.Shareholder, error)
}

// Service manages buses, operators, agents and categories
type Service struct {
	buses      reference.BusRepository
	operators  reference.OperatorRepository
	agents     reference.AgentRepository
	categories reference.CategoryRepository
	holders    ShareholderFinder
}

// NewService creates a new reference Service
func NewService(
	buses reference.BusRepository,
	operators reference.OperatorRepository,
	agents reference.AgentRepository,
	categories reference.CategoryRepository,
	holders ShareholderFinder,
) *Service {
	return &Service{buses: buses, operators: operators, agents: agents, categories: categories, holders: holders}
}

// CreateBus creates a bus with a unique name
func (s *Service) CreateBus(ctx context.Context, tenantID uuid.UUID, req BusRequest) (*ItemResponse, error) {
	bus, err := reference.NewBus(tenantID, req.Name, req.RegistrationNumber)
	if err != nil {
		return nil, err
	}
	return create(ctx, s.buses, tenantID, bus)
}

// CreateOperator creates an operator with a unique name
func (s *Service) CreateOperator(ctx context.Context, tenantID uuid.UUID, req PartyRequest) (*ItemResponse, error) {
	op, err := reference.NewOperator(tenantID, req.Name, req.Phone)
	if err != nil {
		return nil, err
	}
	return create(ctx, s.operators, tenantID, op)
}

// CreateAgent creates an agent with a unique name
func (s *Service) CreateAgent(ctx context.Context, tenantID uuid.UUID, req PartyRequest) (*ItemResponse, error) {
	agent, err := reference.NewAgent(tenantID, req.Name, req.Phone)
	if err != nil {
		return nil, err
	}
	return create(ctx, s.agents, tenantID, agent)
}

// CreateCategory creates a category. A linked shareholder must belong to the
// tenant.
func (s *Service) CreateCategory(ctx context.Context, tenantID uuid.UUID, req CategoryRequest) (*ItemResponse, error) {
	cat, err := reference.NewCategory(tenantID, req.Name, req.ShareholderID)
	if err != nil {
		return nil, err
	}
	if req.ShareholderID != nil {
		if _, err := s.holders.FindShareholderForUpdate(ctx, tenantID, *req.ShareholderID); err != nil {
			if shared.KindOf(err) == shared.KindNotFound {
				return nil, shareholding.ErrShareholderMissing
			}
			return nil, fmt.Errorf("failed to load shareholder: %w", err)
		}
	}
	return create(ctx, s.categories, tenantID, cat)
}

// List returns every item of one reference list, ordered by name
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, kind Kind) ([]ItemResponse, error) {
	switch kind {
	case KindBus:
		return list(ctx, s.buses, tenantID)
	case KindOperator:
		return list(ctx, s.operators, tenantID)
	case KindAgent:
		return list(ctx, s.agents, tenantID)
	case KindCategory:
		return list(ctx, s.categories, tenantID)
	default:
		return nil, ErrUnknownKind
	}
}

// Get returns one item
func (s *Service) Get(ctx context.Context, tenantID uuid.UUID, kind Kind, id uuid.UUID) (*ItemResponse, error) {
	switch kind {
	case KindBus:
		return get(ctx, s.buses, tenantID, id)
	case KindOperator:
		return get(ctx, s.operators, tenantID, id)
	case KindAgent:
		return get(ctx, s.agents, tenantID, id)
	case KindCategory:
		return get(ctx, s.categories, tenantID, id)
	default:
		return nil, ErrUnknownKind
	}
}

// Delete removes an item. Items still referenced by transactions are
// rejected by the repository with reference.ErrInUse.
func (s *Service) Delete(ctx context.Context, tenantID uuid.UUID, kind Kind, id uuid.UUID) error {
	switch kind {
	case KindBus:
		return s.buses.Delete(ctx, tenantID, id)
	case KindOperator:
		return s.operators.Delete(ctx, tenantID, id)
	case KindAgent:
		return s.agents.Delete(ctx, tenantID, id)
	case KindCategory:
		return s.categories.Delete(ctx, tenantID, id)
	default:
		return ErrUnknownKind
	}
}

func create[T reference.Named](ctx context.Context, repo reference.Repository[T], tenantID uuid.UUID, entity *T) (*ItemResponse, error) {
	exists, err := repo.ExistsByName(ctx, tenantID, (*entity).GetName())
	if err != nil {
		return nil, fmt.Errorf("failed to check name: %w", err)
	}
	if exists {
		return nil, reference.ErrNameTaken
	}
	if err := repo.Save(ctx, entity); err != nil {
		return nil, err
	}
	resp := ToItemResponse(entity)
	return &resp, nil
}

func list[T reference.Named](ctx context.Context, repo reference.Repository[T], tenantID uuid.UUID) ([]ItemResponse, error) {
	items, err := repo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ToItemResponse(&items[i])
	}
	return out, nil
}

func get[T reference.Named](ctx context.Context, repo reference.Repository[T], tenantID, id uuid.UUID) (*ItemResponse, error) {
	item, err := repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if shared.KindOf(err) == shared.KindNotFound {
			return nil, shared.NewNotFoundError("Item not found")
		}
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}
