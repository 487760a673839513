package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/greenpath/logistics/internal/domain"
	"github.com/greenpath/logistics/internal/pkg/logger"
	"github.com/greenpath/logistics/internal/repository"
)

// MockShipmentRepository - мок репозитория перевозок
type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) Create(ctx context.Context, shipment *domain.Shipment) error {
	args := m.Called(ctx, shipment)
	return args.Error(0)
}

func (m *MockShipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) List(ctx context.Context, scope domain.ShipmentScope, filter repository.ShipmentFilter) ([]*domain.Shipment, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) Update(ctx context.Context, shipment *domain.Shipment) error {
	args := m.Called(ctx, shipment)
	return args.Error(0)
}

func (m *MockShipmentRepository) UpdateMetrics(ctx context.Context, id uuid.UUID, distance, carbonFootprint decimal.Decimal) error {
	args := m.Called(ctx, id, distance, carbonFootprint)
	return args.Error(0)
}

func (m *MockShipmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDistanceResolver - мок резолвера дистанций
type MockDistanceResolver struct {
	mock.Mock
}

func (m *MockDistanceResolver) Resolve(ctx context.Context, origin, destination string) (decimal.Decimal, error) {
	args := m.Called(ctx, origin, destination)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func pendingShipment(id uuid.UUID) *domain.Shipment {
	return &domain.Shipment{
		ID:          id,
		Origin:      "Paris",
		Destination: "Berlin",
		Weight:      decimal.NewFromInt(2),
		VehicleID:   uuid.New(),
		OwnerID:     uuid.New(),
		Vehicle: &domain.Vehicle{
			Name:           "diesel truck",
			EmissionFactor: decimal.RequireFromString("0.062"),
		},
	}
}

func TestService_Recompute(t *testing.T) {
	shipmentID := uuid.New()

	t.Run("заполняет distance и carbon_footprint", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		resolver := new(MockDistanceResolver)
		service := NewService(repo, resolver, logger.NewNoop())

		repo.On("GetByID", mock.Anything, shipmentID).Return(pendingShipment(shipmentID), nil)
		resolver.On("Resolve", mock.Anything, "Paris", "Berlin").
			Return(decimal.NewFromInt(500), nil)
		repo.On("UpdateMetrics", mock.Anything, shipmentID,
			mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(500)) }),
			mock.MatchedBy(func(f decimal.Decimal) bool { return f.Equal(decimal.NewFromInt(62)) }),
		).Return(nil)

		err := service.Recompute(context.Background(), shipmentID)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
		resolver.AssertExpectations(t)
	})

	t.Run("известная дистанция не резолвится повторно", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		resolver := new(MockDistanceResolver)
		service := NewService(repo, resolver, logger.NewNoop())

		shipment := pendingShipment(shipmentID)
		known := decimal.NewFromInt(500)
		shipment.Distance = &known

		repo.On("GetByID", mock.Anything, shipmentID).Return(shipment, nil)
		repo.On("UpdateMetrics", mock.Anything, shipmentID,
			mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(known) }),
			mock.MatchedBy(func(f decimal.Decimal) bool { return f.Equal(decimal.NewFromInt(62)) }),
		).Return(nil)

		err := service.Recompute(context.Background(), shipmentID)

		assert.NoError(t, err)
		resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("нулевая дистанция резолвится заново", func(t *testing.T) {
		// Ноль - след прошлого фоллбека, а не настоящая дистанция
		repo := new(MockShipmentRepository)
		resolver := new(MockDistanceResolver)
		service := NewService(repo, resolver, logger.NewNoop())

		shipment := pendingShipment(shipmentID)
		shipment.Distance = &decimal.Zero
		fallback := decimal.Zero
		shipment.CarbonFootprint = &fallback

		repo.On("GetByID", mock.Anything, shipmentID).Return(shipment, nil)
		resolver.On("Resolve", mock.Anything, "Paris", "Berlin").
			Return(decimal.NewFromInt(500), nil)
		repo.On("UpdateMetrics", mock.Anything, shipmentID,
			mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(500)) }),
			mock.MatchedBy(func(f decimal.Decimal) bool { return f.Equal(decimal.NewFromInt(62)) }),
		).Return(nil)

		err := service.Recompute(context.Background(), shipmentID)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
		resolver.AssertExpectations(t)
	})

	t.Run("негеокодируемый маршрут получает нулевую дистанцию", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		resolver := new(MockDistanceResolver)
		service := NewService(repo, resolver, logger.NewNoop())

		repo.On("GetByID", mock.Anything, shipmentID).Return(pendingShipment(shipmentID), nil)
		resolver.On("Resolve", mock.Anything, "Paris", "Berlin").
			Return(decimal.Decimal{}, domain.ErrRouteUnresolved)
		repo.On("UpdateMetrics", mock.Anything, shipmentID,
			mock.MatchedBy(func(d decimal.Decimal) bool { return d.IsZero() }),
			mock.MatchedBy(func(f decimal.Decimal) bool { return f.IsZero() }),
		).Return(nil)

		err := service.Recompute(context.Background(), shipmentID)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("транспортная ошибка геокодера тоже дает нулевой fallback", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		resolver := new(MockDistanceResolver)
		service := NewService(repo, resolver, logger.NewNoop())

		repo.On("GetByID", mock.Anything, shipmentID).Return(pendingShipment(shipmentID), nil)
		resolver.On("Resolve", mock.Anything, "Paris", "Berlin").
			Return(decimal.Decimal{}, errors.New("connection refused"))
		repo.On("UpdateMetrics", mock.Anything, shipmentID,
			mock.MatchedBy(func(d decimal.Decimal) bool { return d.IsZero() }),
			mock.MatchedBy(func(f decimal.Decimal) bool { return f.IsZero() }),
		).Return(nil)

		err := service.Recompute(context.Background(), shipmentID)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("удаленная перевозка - no-op без ошибки", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		resolver := new(MockDistanceResolver)
		service := NewService(repo, resolver, logger.NewNoop())

		repo.On("GetByID", mock.Anything, shipmentID).Return(nil, domain.ErrShipmentNotFound)

		err := service.Recompute(context.Background(), shipmentID)

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "UpdateMetrics", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("перевозка удалена между чтением и записью - no-op", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		resolver := new(MockDistanceResolver)
		service := NewService(repo, resolver, logger.NewNoop())

		repo.On("GetByID", mock.Anything, shipmentID).Return(pendingShipment(shipmentID), nil)
		resolver.On("Resolve", mock.Anything, "Paris", "Berlin").
			Return(decimal.NewFromInt(500), nil)
		repo.On("UpdateMetrics", mock.Anything, shipmentID, mock.Anything, mock.Anything).
			Return(domain.ErrShipmentNotFound)

		err := service.Recompute(context.Background(), shipmentID)

		assert.NoError(t, err)
	})

	t.Run("ошибка базы при чтении возвращается наверх для redelivery", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		resolver := new(MockDistanceResolver)
		service := NewService(repo, resolver, logger.NewNoop())

		dbErr := errors.New("connection reset")
		repo.On("GetByID", mock.Anything, shipmentID).Return(nil, dbErr)

		err := service.Recompute(context.Background(), shipmentID)

		assert.ErrorIs(t, err, dbErr)
	})
}

// Повторная доставка того же задания дает тот же результат
func TestService_Recompute_Idempotent(t *testing.T) {
	shipmentID := uuid.New()

	repo := new(MockShipmentRepository)
	resolver := new(MockDistanceResolver)
	service := NewService(repo, resolver, logger.NewNoop())

	// После первого прогона вторая доставка видит уже рассчитанные поля
	first := pendingShipment(shipmentID)
	second := pendingShipment(shipmentID)
	resolved := decimal.NewFromInt(500)
	second.Distance = &resolved

	repo.On("GetByID", mock.Anything, shipmentID).Return(first, nil).Once()
	repo.On("GetByID", mock.Anything, shipmentID).Return(second, nil).Once()
	resolver.On("Resolve", mock.Anything, "Paris", "Berlin").Return(resolved, nil).Once()
	repo.On("UpdateMetrics", mock.Anything, shipmentID,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(resolved) }),
		mock.MatchedBy(func(f decimal.Decimal) bool { return f.Equal(decimal.NewFromInt(62)) }),
	).Return(nil).Twice()

	assert.NoError(t, service.Recompute(context.Background(), shipmentID))
	assert.NoError(t, service.Recompute(context.Background(), shipmentID))

	repo.AssertExpectations(t)
	resolver.AssertExpectations(t)
}
