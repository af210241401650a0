package shareholding

import (
	"context"
	"testing"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/domain/shareholding"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*shareholding.CompanyShareProfile, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shareholding.CompanyShareProfile), args.Error(1)
}

func (m *MockProfileRepository) FindByTenantForUpdate(ctx context.Context, tenantID uuid.UUID) (*shareholding.CompanyShareProfile, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shareholding.CompanyShareProfile), args.Error(1)
}

func (m *MockProfileRepository) ExistsForTenant(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, p *shareholding.CompanyShareProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProfileRepository) FindShareholderForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*shareholding.Shareholder, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shareholding.Shareholder), args.Error(1)
}

func (m *MockProfileRepository) FindShareholderByNameForUpdate(ctx context.Context, tenantID uuid.UUID, name string) (*shareholding.Shareholder, error) {
	args := m.Called(ctx, tenantID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shareholding.Shareholder), args.Error(1)
}

func (m *MockProfileRepository) SaveShareholder(ctx context.Context, h *shareholding.Shareholder) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockProfileRepository) ListTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func TestProfileService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockProfileRepository)
	svc := NewProfileService(repo)
	repo.On("ExistsForTenant", ctx, tenantID).Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*shareholding.CompanyShareProfile")).Return(nil)

	resp, err := svc.Create(ctx, tenantID, CreateProfileRequest{
		CompanyName: "Sharma Travels",
		Shareholders: []ShareholderRequest{
			{Name: "Ravi", SharePercentage: "60"},
			{Name: "Asha", SharePercentage: "25.5"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Sharma Travels", resp.CompanyName)
	require.Len(t, resp.Shareholders, 2)
	assert.Equal(t, "RAVI FINANCE", resp.Shareholders[0].FinanceCategory)
	assert.True(t, resp.TotalPercentage.Equal(decimal.RequireFromString("85.5")))
	assert.True(t, resp.Shareholders[1].FinancedAmount.IsZero())
	repo.AssertExpectations(t)
}

func TestProfileService_Create_Failures(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("already exists", func(t *testing.T) {
		repo := new(MockProfileRepository)
		repo.On("ExistsForTenant", ctx, tenantID).Return(true, nil)

		_, err := NewProfileService(repo).Create(ctx, tenantID, CreateProfileRequest{CompanyName: "X"})

		assert.ErrorIs(t, err, ErrProfileExists)
		assert.Equal(t, shared.KindConflict, shared.KindOf(err))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("percentage out of range", func(t *testing.T) {
		repo := new(MockProfileRepository)
		repo.On("ExistsForTenant", ctx, tenantID).Return(false, nil)

		_, err := NewProfileService(repo).Create(ctx, tenantID, CreateProfileRequest{
			CompanyName:  "X",
			Shareholders: []ShareholderRequest{{Name: "Ravi", SharePercentage: "101"}},
		})

		assert.ErrorIs(t, err, shareholding.ErrInvalidPercentage)
	})

	t.Run("duplicate shareholder", func(t *testing.T) {
		repo := new(MockProfileRepository)
		repo.On("ExistsForTenant", ctx, tenantID).Return(false, nil)

		_, err := NewProfileService(repo).Create(ctx, tenantID, CreateProfileRequest{
			CompanyName: "X",
			Shareholders: []ShareholderRequest{
				{Name: "Ravi", SharePercentage: "10"},
				{Name: "ravi", SharePercentage: "20"},
			},
		})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestProfileService_Get(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockProfileRepository)
	svc := NewProfileService(repo)
	repo.On("FindByTenant", ctx, tenantID).Return(nil, shared.ErrNotFound).Once()

	_, err := svc.Get(ctx, tenantID)
	assert.Equal(t, shared.KindNotFound, shared.KindOf(err))

	p, err := shareholding.NewCompanyShareProfile(tenantID, "Sharma Travels",
		[]shareholding.ShareholderInput{{Name: "Ravi", SharePercentage: "50"}})
	require.NoError(t, err)
	repo.On("FindByTenant", ctx, tenantID).Return(p, nil).Once()

	resp, err := svc.Get(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, resp.ID)
	assert.Len(t, resp.Shareholders, 1)
}

func TestProfileService_AddShareholder(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	p, err := shareholding.NewCompanyShareProfile(tenantID, "Sharma Travels",
		[]shareholding.ShareholderInput{{Name: "Ravi", SharePercentage: "50"}})
	require.NoError(t, err)
	repo := new(MockProfileRepository)
	svc := NewProfileService(repo)
	repo.On("FindByTenantForUpdate", ctx, tenantID).Return(p, nil)
	repo.On("Save", ctx, p).Return(nil).Once()

	resp, err := svc.AddShareholder(ctx, tenantID, ShareholderRequest{Name: "Asha", SharePercentage: "20"})
	require.NoError(t, err)
	assert.Equal(t, "Asha", resp.Name)
	assert.Equal(t, p.ID, p.Shareholders[1].ProfileID)

	_, err = svc.AddShareholder(ctx, tenantID, ShareholderRequest{Name: "RAVI", SharePercentage: "5"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	repo.AssertNumberOfCalls(t, "Save", 1)
}
