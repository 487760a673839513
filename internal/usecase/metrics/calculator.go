package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/greenpath/logistics/internal/domain"
)

// Округление производных полей: дистанция до сотых километра,
// footprint до граммов CO2
const (
	distancePrecision  = 2
	footprintPrecision = 3
)

// Footprint вычисляет углеродный след перевозки в кг CO2
//
//	footprint = distance_km * weight_tons * emission_factor
//
// Чистая функция без побочных эффектов, детерминирована для одних и тех же
// входов. Отсутствующие входы сюда не доходят: absence распространяется
// указателями на уровне Shipment, а не нулями
func Footprint(distanceKm, weightTons, emissionFactor decimal.Decimal) (decimal.Decimal, error) {
	if distanceKm.IsNegative() || weightTons.IsNegative() || emissionFactor.IsNegative() {
		return decimal.Decimal{}, domain.ErrInvalidMetricsInput
	}

	return distanceKm.Mul(weightTons).Mul(emissionFactor).Round(footprintPrecision), nil
}
