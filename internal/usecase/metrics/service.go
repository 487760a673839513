package metrics

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

// DistanceResolver определяет интерфейс резолвера дистанций
type DistanceResolver interface {
	Resolve(ctx context.Context, origin, destination string) (decimal.Decimal, error)
}

// Service выполняет отложенный пересчет производных полей перевозки
// Запускается воркером после коммита создавшей/изменившей записи;
// дубли доставки безопасны, т.к. пересчет идемпотентен
type Service struct {
	shipmentRepo repository.ShipmentRepository
	resolver     DistanceResolver
	logger       logger.Logger
}

// NewService создает новый сервис пересчета метрик
func NewService(
	shipmentRepo repository.ShipmentRepository,
	resolver DistanceResolver,
	logger logger.Logger,
) *Service {
	return &Service{
		shipmentRepo: shipmentRepo,
		resolver:     resolver,
		logger:       logger,
	}
}

// Recompute приводит distance и carbon_footprint перевозки в согласованное
// состояние. Пишутся только два производных поля, остальные колонки строки
// параллельными правками не затираются.
//
// Перевозка, удаленная до или во время пересчета, дает no-op без ошибки:
// ждущего вызывающего нет, ретраить нечего
func (s *Service) Recompute(ctx context.Context, shipmentID uuid.UUID) error {
	shipment, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		if errors.Is(err, domain.ErrShipmentNotFound) {
			s.logger.Warn("Shipment gone before recompute, skipping", map[string]interface{}{
				"shipment_id": shipmentID,
			})
			return nil
		}
		return fmt.Errorf("failed to load shipment: %w", err)
	}

	// Шаг 1: разрешаем дистанцию, если она еще не известна.
	// Ноль - это прошлый неудачный фоллбек, даем маршруту второй шанс
	distance := shipment.Distance
	if distance == nil || distance.IsZero() {
		resolved, err := s.resolver.Resolve(ctx, shipment.Origin, shipment.Destination)
		if err != nil {
			// Деградация по контракту: негеокодируемый маршрут получает
			// нулевую дистанцию, а не вечный NULL в footprint
			zero := decimal.Zero
			resolved = zero
			s.logger.Warn("Distance unresolved, falling back to zero", map[string]interface{}{
				"shipment_id": shipmentID,
				"origin":      shipment.Origin,
				"destination": shipment.Destination,
				"error":       err.Error(),
			})
		}
		distance = &resolved
	}

	// Шаг 2: считаем footprint по актуальным входам
	footprint, err := Footprint(*distance, shipment.Weight, shipment.Vehicle.EmissionFactor)
	if err != nil {
		return fmt.Errorf("failed to compute footprint: %w", err)
	}

	// Шаг 3: записываем ровно два производных поля
	if err := s.shipmentRepo.UpdateMetrics(ctx, shipmentID, *distance, footprint); err != nil {
		if errors.Is(err, domain.ErrShipmentNotFound) {
			s.logger.Warn("Shipment deleted mid-recompute, skipping write", map[string]interface{}{
				"shipment_id": shipmentID,
			})
			return nil
		}
		return fmt.Errorf("failed to persist metrics: %w", err)
	}

	s.logger.Info("Shipment metrics recomputed", map[string]interface{}{
		"shipment_id":      shipmentID,
		"distance_km":      distance.String(),
		"carbon_footprint": footprint.String(),
	})

	return nil
}
