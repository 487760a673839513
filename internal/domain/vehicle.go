package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vehicle - справочник типов транспорта и их коэффициентов выбросов
// На Vehicle ссылаются перевозки, поэтому удаление используемого типа запрещено:
// иначе исторические расчеты carbon_footprint потеряют свой входной параметр
type Vehicle struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"` // Уникальное имя типа ("Truck", "Cargo Van")
	EmissionFactor decimal.Decimal `json:"emission_factor"` // кг CO2 на тонно-километр
	Description    string          `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Validate проверяет корректность данных транспорта
func (v *Vehicle) Validate() error {
	if v.Name == "" {
		return ErrInvalidVehicleData
	}
	if !v.EmissionFactor.IsPositive() {
		return ErrInvalidEmissionFactor
	}
	return nil
}
