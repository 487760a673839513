package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/greenpath/logistics/internal/domain"
)

func TestHTTPClient_Geocode(t *testing.T) {
	t.Run("успешное геокодирование", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search", r.URL.Path)
			assert.Equal(t, "Paris", r.URL.Query().Get("q"))
			assert.Equal(t, "json", r.URL.Query().Get("format"))
			assert.Equal(t, "1", r.URL.Query().Get("limit"))
			assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"lat": "48.8566", "lon": "2.3522"}]`))
		}))
		defer server.Close()

		client := NewHTTPClient(server.URL, "test-agent", 5*time.Second)

		point, err := client.Geocode(context.Background(), "Paris")

		assert.NoError(t, err)
		assert.InDelta(t, 48.8566, point.Latitude, 0.0001)
		assert.InDelta(t, 2.3522, point.Longitude, 0.0001)
	})

	t.Run("пустой ответ - место не найдено", func(t *testing.T) {
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := NewHTTPClient(server.URL, "test-agent", 5*time.Second)

		_, err := client.Geocode(context.Background(), "Atlantis")

		assert.ErrorIs(t, err, domain.ErrPlaceNotFound)
		// "Не найдено" окончательно - ретраев быть не должно
		assert.Equal(t, 1, requests)
	})

	t.Run("серверная ошибка ретраится", func(t *testing.T) {
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			if requests < 2 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"lat": "48.8566", "lon": "2.3522"}]`))
		}))
		defer server.Close()

		client := NewHTTPClient(server.URL, "test-agent", 5*time.Second)

		point, err := client.Geocode(context.Background(), "Paris")

		assert.NoError(t, err)
		assert.Equal(t, 2, requests)
		assert.InDelta(t, 48.8566, point.Latitude, 0.0001)
	})

	t.Run("некорректные координаты в ответе", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"lat": "not-a-number", "lon": "2.3522"}]`))
		}))
		defer server.Close()

		client := NewHTTPClient(server.URL, "test-agent", 5*time.Second)

		_, err := client.Geocode(context.Background(), "Paris")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrPlaceNotFound)
	})

	t.Run("отмена контекста прерывает ретраи", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewHTTPClient(server.URL, "test-agent", 5*time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Geocode(ctx, "Paris")

		assert.Error(t, err)
	})
}
