package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/greenpath/logistics/internal/domain"
	"github.com/greenpath/logistics/internal/infrastructure/geocoding"
)

// fakeGeocoder - геокодер на фиксированном справочнике координат
type fakeGeocoder struct {
	places map[string]geocoding.Point
	err    error
	calls  int
}

func (f *fakeGeocoder) Geocode(ctx context.Context, place string) (geocoding.Point, error) {
	f.calls++
	if f.err != nil {
		return geocoding.Point{}, f.err
	}
	point, ok := f.places[place]
	if !ok {
		return geocoding.Point{}, domain.ErrPlaceNotFound
	}
	return point, nil
}

func TestResolver_Resolve(t *testing.T) {
	geocoder := &fakeGeocoder{
		places: map[string]geocoding.Point{
			"Paris":  {Latitude: 48.8566, Longitude: 2.3522},
			"Berlin": {Latitude: 52.5200, Longitude: 13.4050},
		},
	}
	resolver := NewResolver(geocoder)

	distance, err := resolver.Resolve(context.Background(), "Paris", "Berlin")

	assert.NoError(t, err)
	// Ортодромия Париж-Берлин около 878 км
	km, _ := distance.Float64()
	assert.InDelta(t, 878.0, km, 2.0)
	assert.True(t, distance.Equal(distance.Round(2)))
}

func TestResolver_Resolve_Symmetric(t *testing.T) {
	geocoder := &fakeGeocoder{
		places: map[string]geocoding.Point{
			"Paris":  {Latitude: 48.8566, Longitude: 2.3522},
			"Berlin": {Latitude: 52.5200, Longitude: 13.4050},
		},
	}
	resolver := NewResolver(geocoder)

	forward, err := resolver.Resolve(context.Background(), "Paris", "Berlin")
	assert.NoError(t, err)

	backward, err := resolver.Resolve(context.Background(), "Berlin", "Paris")
	assert.NoError(t, err)

	assert.True(t, forward.Equal(backward))
}

func TestResolver_Resolve_SamePoint(t *testing.T) {
	geocoder := &fakeGeocoder{
		places: map[string]geocoding.Point{
			"Paris": {Latitude: 48.8566, Longitude: 2.3522},
			"Lutetia": {Latitude: 48.8566, Longitude: 2.3522},
		},
	}
	resolver := NewResolver(geocoder)

	distance, err := resolver.Resolve(context.Background(), "Paris", "Lutetia")

	assert.NoError(t, err)
	assert.True(t, distance.Equal(decimal.Zero))
}

func TestResolver_Resolve_UnknownPlace(t *testing.T) {
	geocoder := &fakeGeocoder{
		places: map[string]geocoding.Point{
			"Paris": {Latitude: 48.8566, Longitude: 2.3522},
		},
	}
	resolver := NewResolver(geocoder)

	t.Run("неизвестный origin", func(t *testing.T) {
		_, err := resolver.Resolve(context.Background(), "Atlantis", "Paris")
		assert.ErrorIs(t, err, domain.ErrRouteUnresolved)
	})

	t.Run("неизвестный destination", func(t *testing.T) {
		_, err := resolver.Resolve(context.Background(), "Paris", "Atlantis")
		assert.ErrorIs(t, err, domain.ErrRouteUnresolved)
	})
}

// Транспортная ошибка геокодера не маскируется под ErrRouteUnresolved
func TestResolver_Resolve_TransportError(t *testing.T) {
	transportErr := errors.New("connection refused")
	geocoder := &fakeGeocoder{err: transportErr}
	resolver := NewResolver(geocoder)

	_, err := resolver.Resolve(context.Background(), "Paris", "Berlin")

	assert.ErrorIs(t, err, transportErr)
	assert.NotErrorIs(t, err, domain.ErrRouteUnresolved)
}
