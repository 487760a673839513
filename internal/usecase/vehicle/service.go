package vehicle

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/greenpath/logistics/internal/domain"
	"github.com/greenpath/logistics/internal/pkg/logger"
	"github.com/greenpath/logistics/internal/repository"
)

// CreateVehicleRequest - запрос на создание типа транспорта
type CreateVehicleRequest struct {
	Name           string          `json:"name" validate:"required"`
	EmissionFactor decimal.Decimal `json:"emission_factor" validate:"required"`
	Description    string          `json:"description,omitempty"`
}

// Service содержит бизнес-логику работы со справочником транспорта
type Service struct {
	vehicleRepo repository.VehicleRepository
	logger      logger.Logger
}

// NewService создает новый экземпляр VehicleService
func NewService(vehicleRepo repository.VehicleRepository, logger logger.Logger) *Service {
	return &Service{
		vehicleRepo: vehicleRepo,
		logger:      logger,
	}
}

// CreateVehicle создает новый тип транспорта
func (s *Service) CreateVehicle(ctx context.Context, req *CreateVehicleRequest) (*domain.Vehicle, error) {
	s.logger.Info("Creating new vehicle type", map[string]interface{}{
		"name": req.Name,
	})

	vehicle := &domain.Vehicle{
		Name:           req.Name,
		EmissionFactor: req.EmissionFactor,
		Description:    req.Description,
	}

	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	// Проверяем, что тип с таким именем еще не зарегистрирован
	existing, err := s.vehicleRepo.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, domain.ErrVehicleNotFound) {
		return nil, fmt.Errorf("failed to check existing vehicle: %w", err)
	}

	if existing != nil {
		s.logger.Warn("Vehicle type already exists", map[string]interface{}{
			"name": req.Name,
		})
		return nil, domain.ErrVehicleAlreadyExists
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		s.logger.Error("Failed to create vehicle", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.logger.Info("Vehicle type created successfully", map[string]interface{}{
		"vehicle_id": vehicle.ID,
	})

	return vehicle, nil
}

// GetVehicleByID возвращает тип транспорта по ID
func (s *Service) GetVehicleByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, id)
}

// ListVehicles возвращает список типов транспорта
func (s *Service) ListVehicles(ctx context.Context, limit, offset int) ([]*domain.Vehicle, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.vehicleRepo.List(ctx, limit, offset)
}

// DeleteVehicle удаляет тип транспорта
// Тип, на который ссылаются перевозки, защищен: исторические расчеты
// должны сохранить свой emission_factor
func (s *Service) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	if err := s.vehicleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrVehicleInUse) {
			s.logger.Warn("Refusing to delete referenced vehicle type", map[string]interface{}{
				"vehicle_id": id,
			})
		}
		return err
	}

	s.logger.Info("Vehicle type deleted", map[string]interface{}{
		"vehicle_id": id,
	})

	return nil
}
