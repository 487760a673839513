package metrics

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/greenpath/logistics/internal/domain"
	"github.com/greenpath/logistics/internal/infrastructure/geocoding"
)

// Средний радиус Земли в километрах
const earthRadiusKm = 6371.0088

// Resolver переводит пару названий мест в расстояние по дуге большого круга
// Состояние перевозок не трогает: единственный побочный эффект -
// сетевые вызовы геокодера
type Resolver struct {
	geocoder geocoding.Client
}

// NewResolver создает новый резолвер дистанций
func NewResolver(geocoder geocoding.Client) *Resolver {
	return &Resolver{geocoder: geocoder}
}

// Resolve возвращает расстояние между местами в километрах
// Если хотя бы одно место не геокодируется, возвращается
// domain.ErrRouteUnresolved - вызывающая сторона обязана иметь fallback
func (r *Resolver) Resolve(ctx context.Context, origin, destination string) (decimal.Decimal, error) {
	from, err := r.geocoder.Geocode(ctx, origin)
	if err != nil {
		if errors.Is(err, domain.ErrPlaceNotFound) {
			return decimal.Decimal{}, fmt.Errorf("origin %q: %w", origin, domain.ErrRouteUnresolved)
		}
		return decimal.Decimal{}, fmt.Errorf("geocode origin %q: %w", origin, err)
	}

	to, err := r.geocoder.Geocode(ctx, destination)
	if err != nil {
		if errors.Is(err, domain.ErrPlaceNotFound) {
			return decimal.Decimal{}, fmt.Errorf("destination %q: %w", destination, domain.ErrRouteUnresolved)
		}
		return decimal.Decimal{}, fmt.Errorf("geocode destination %q: %w", destination, err)
	}

	km := haversine(from, to)
	return decimal.NewFromFloat(km).Round(distancePrecision), nil
}

// haversine вычисляет расстояние по дуге большого круга в километрах
func haversine(from, to geocoding.Point) float64 {
	lat1 := from.Latitude * math.Pi / 180
	lat2 := to.Latitude * math.Pi / 180
	dLat := (to.Latitude - from.Latitude) * math.Pi / 180
	dLon := (to.Longitude - from.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
