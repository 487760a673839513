package shipment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/greenpath/logistics/internal/domain"
	"github.com/greenpath/logistics/internal/infrastructure/queue"
	"github.com/greenpath/logistics/internal/pkg/logger"
	"github.com/greenpath/logistics/internal/repository"
)

// CreateShipmentRequest - запрос на создание перевозки
// Distance и carbon_footprint клиент не задает: их считает пайплайн метрик
type CreateShipmentRequest struct {
	Origin      string          `json:"origin" validate:"required"`
	Destination string          `json:"destination" validate:"required"`
	Weight      decimal.Decimal `json:"weight" validate:"required"`
	VehicleID   uuid.UUID       `json:"vehicle_id" validate:"required"`
}

// UpdateShipmentRequest - запрос на изменение перевозки
// nil-поля остаются нетронутыми
type UpdateShipmentRequest struct {
	Origin      *string          `json:"origin,omitempty"`
	Destination *string          `json:"destination,omitempty"`
	Weight      *decimal.Decimal `json:"weight,omitempty"`
	VehicleID   *uuid.UUID       `json:"vehicle_id,omitempty"`
}

// Service содержит бизнес-логику работы с перевозками:
// валидация, атрибуция, область видимости и постановка пересчета в очередь
type Service struct {
	shipmentRepo repository.ShipmentRepository
	vehicleRepo  repository.VehicleRepository
	profileRepo  repository.ProfileRepository
	dispatcher   queue.Dispatcher
	logger       logger.Logger
}

// NewService создает новый экземпляр ShipmentService
func NewService(
	shipmentRepo repository.ShipmentRepository,
	vehicleRepo repository.VehicleRepository,
	profileRepo repository.ProfileRepository,
	dispatcher queue.Dispatcher,
	logger logger.Logger,
) *Service {
	return &Service{
		shipmentRepo: shipmentRepo,
		vehicleRepo:  vehicleRepo,
		profileRepo:  profileRepo,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// CreateShipment создает перевозку и ставит ее в очередь на расчет метрик
// Ответ возвращается сразу: distance и carbon_footprint могут быть еще пустыми
func (s *Service) CreateShipment(ctx context.Context, actorID uuid.UUID, req *CreateShipmentRequest) (*domain.Shipment, error) {
	profile, err := s.actorProfile(ctx, actorID)
	if err != nil {
		return nil, err
	}

	ownerID, companyID, err := domain.Attribute(actorID, profile)
	if err != nil {
		return nil, err
	}

	shipment := &domain.Shipment{
		Origin:      req.Origin,
		Destination: req.Destination,
		Weight:      req.Weight,
		VehicleID:   req.VehicleID,
		OwnerID:     ownerID,
		CompanyID:   companyID,
	}

	// Валидация до сохранения и до любого геокодирования
	if err := shipment.Validate(); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	shipment.Vehicle = vehicle

	if err := s.shipmentRepo.Create(ctx, shipment); err != nil {
		s.logger.Error("Failed to create shipment", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create shipment: %w", err)
	}

	s.dispatchMetrics(ctx, shipment.ID)

	s.logger.Info("Shipment created", map[string]interface{}{
		"shipment_id": shipment.ID,
		"owner_id":    ownerID,
	})

	return shipment, nil
}

// GetShipment возвращает перевозку, если она видна актору
// Перевозка вне области видимости неотличима от несуществующей
func (s *Service) GetShipment(ctx context.Context, actorID, id uuid.UUID) (*domain.Shipment, error) {
	scope, err := s.actorScope(ctx, actorID)
	if err != nil {
		return nil, err
	}

	shipment, err := s.shipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !scope.Matches(shipment) {
		return nil, domain.ErrShipmentNotFound
	}

	return shipment, nil
}

// ListShipments возвращает перевозки актора с учетом фильтров
// Предикат видимости уходит в SQL вместе с фильтрами
func (s *Service) ListShipments(ctx context.Context, actorID uuid.UUID, filter repository.ShipmentFilter) ([]*domain.Shipment, error) {
	scope, err := s.actorScope(ctx, actorID)
	if err != nil {
		return nil, err
	}

	return s.shipmentRepo.List(ctx, scope, filter)
}

// UpdateShipment изменяет перевозку
// Разрешено только владельцу; смена любого входа расчета сбрасывает
// производные поля и ставит пересчет в очередь
func (s *Service) UpdateShipment(ctx context.Context, actorID, id uuid.UUID, req *UpdateShipmentRequest) (*domain.Shipment, error) {
	shipment, err := s.visibleShipment(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanMutate(actorID, shipment) {
		return nil, domain.ErrForbidden
	}

	routeChanged := false
	inputsChanged := false

	if req.Origin != nil && *req.Origin != shipment.Origin {
		shipment.Origin = *req.Origin
		routeChanged = true
	}
	if req.Destination != nil && *req.Destination != shipment.Destination {
		shipment.Destination = *req.Destination
		routeChanged = true
	}
	if req.Weight != nil && !req.Weight.Equal(shipment.Weight) {
		shipment.Weight = *req.Weight
		inputsChanged = true
	}
	if req.VehicleID != nil && *req.VehicleID != shipment.VehicleID {
		if _, err := s.vehicleRepo.GetByID(ctx, *req.VehicleID); err != nil {
			return nil, err
		}
		shipment.VehicleID = *req.VehicleID
		inputsChanged = true
	}

	// Новый маршрут обесценивает и дистанцию, и footprint
	if routeChanged {
		shipment.Distance = nil
	}
	if routeChanged || inputsChanged {
		shipment.CarbonFootprint = nil
	}

	if err := shipment.Validate(); err != nil {
		return nil, err
	}

	if err := s.shipmentRepo.Update(ctx, shipment); err != nil {
		return nil, fmt.Errorf("failed to update shipment: %w", err)
	}

	if routeChanged || inputsChanged {
		s.dispatchMetrics(ctx, shipment.ID)
	}

	s.logger.Info("Shipment updated", map[string]interface{}{
		"shipment_id": shipment.ID,
	})

	return shipment, nil
}

// DeleteShipment удаляет перевозку; разрешено только владельцу
func (s *Service) DeleteShipment(ctx context.Context, actorID, id uuid.UUID) error {
	shipment, err := s.visibleShipment(ctx, actorID, id)
	if err != nil {
		return err
	}

	if !domain.CanMutate(actorID, shipment) {
		return domain.ErrForbidden
	}

	if err := s.shipmentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Shipment deleted", map[string]interface{}{
		"shipment_id": id,
	})

	return nil
}

// actorProfile загружает профиль актора
// Отсутствующий профиль не ошибка: политика видимости обрабатывает nil
// как клиента без компании
func (s *Service) actorProfile(ctx context.Context, actorID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get actor profile: %w", err)
	}
	return profile, nil
}

// actorScope вычисляет область видимости актора
func (s *Service) actorScope(ctx context.Context, actorID uuid.UUID) (domain.ShipmentScope, error) {
	profile, err := s.actorProfile(ctx, actorID)
	if err != nil {
		return domain.ShipmentScope{None: true}, err
	}
	return domain.ScopeFor(actorID, profile)
}

// visibleShipment возвращает перевозку, если она в области видимости актора
func (s *Service) visibleShipment(ctx context.Context, actorID, id uuid.UUID) (*domain.Shipment, error) {
	scope, err := s.actorScope(ctx, actorID)
	if err != nil {
		return nil, err
	}

	shipment, err := s.shipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !scope.Matches(shipment) {
		return nil, domain.ErrShipmentNotFound
	}

	return shipment, nil
}

// dispatchMetrics ставит перевозку в очередь на пересчет
// Строка уже закоммичена: неудача постановки не валит запрос,
// перевозка просто остается в статусе pending до следующего триггера
func (s *Service) dispatchMetrics(ctx context.Context, shipmentID uuid.UUID) {
	if err := s.dispatcher.Dispatch(ctx, shipmentID); err != nil {
		s.logger.Error("Failed to dispatch metrics recompute", map[string]interface{}{
			"shipment_id": shipmentID,
			"error":       err.Error(),
		})
	}
}
