package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Shipment - перевозка груза
// Distance и CarbonFootprint - производные поля: они кэшируют результат расчета
// и пересчитываются воркером всякий раз, когда меняется origin/destination/weight/vehicle.
// Писать в них руками вне пайплайна пересчета нельзя
type Shipment struct {
	ID          uuid.UUID        `json:"id"`
	Origin      string           `json:"origin"`
	Destination string           `json:"destination"`
	Distance    *decimal.Decimal `json:"distance,omitempty"` // км, NULL до разрешения
	Weight      decimal.Decimal  `json:"weight"`             // тонны
	VehicleID   uuid.UUID        `json:"vehicle_id"`
	// Результат distance * weight * vehicle.emission_factor, NULL до расчета
	CarbonFootprint *decimal.Decimal `json:"carbon_footprint,omitempty"`
	OwnerID         uuid.UUID        `json:"owner_id"`
	CompanyID       *uuid.UUID       `json:"company_id,omitempty"` // NULL для клиентских перевозок
	CreatedAt       time.Time        `json:"created_at"`

	// Связанные данные (не хранятся в строке, заполняются при необходимости)
	Vehicle *Vehicle `json:"vehicle,omitempty"`
}

// Validate проверяет корректность данных перевозки
// Срабатывает до сохранения и до любой попытки геокодирования
func (s *Shipment) Validate() error {
	if s.Origin == "" || s.Destination == "" {
		return ErrInvalidShipmentData
	}
	if strings.EqualFold(strings.TrimSpace(s.Origin), strings.TrimSpace(s.Destination)) {
		return ErrSameOriginDestination
	}
	if !s.Weight.IsPositive() {
		return ErrInvalidWeight
	}
	// Ноль - валидное сохраненное состояние: воркер пишет его,
	// когда маршрут не геокодируется
	if s.Distance != nil && s.Distance.IsNegative() {
		return ErrInvalidDistance
	}
	if s.VehicleID == uuid.Nil {
		return ErrInvalidShipmentData
	}
	if s.OwnerID == uuid.Nil {
		return ErrInvalidShipmentData
	}
	return nil
}

// NeedsMetrics сообщает, требуется ли перевозке пересчет производных полей
func (s *Shipment) NeedsMetrics() bool {
	return s.CarbonFootprint == nil || s.Distance == nil
}
