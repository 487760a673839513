package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/greenpath/logistics/internal/domain"
)

// Point - географические координаты места
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Client - интерфейс внешнего геокодера
// Провайдер сетевой и лимитированный: промах трактуется как окончательный
// для данного вызова, политика ретраев по бизнес-причинам здесь не живет
type Client interface {
	// Geocode возвращает координаты по названию места
	// Если место не найдено, возвращается domain.ErrPlaceNotFound
	Geocode(ctx context.Context, place string) (Point, error)
}

// nominatimResult - элемент ответа Nominatim search API
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// httpClient - HTTP реализация геокодера поверх Nominatim
type httpClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewHTTPClient создает новый HTTP клиент геокодирования
func NewHTTPClient(baseURL, userAgent string, timeout time.Duration) Client {
	return &httpClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Geocode запрашивает координаты места у Nominatim
func (c *httpClient) Geocode(ctx context.Context, place string) (Point, error) {
	params := url.Values{}
	params.Set("q", place)
	params.Set("format", "json")
	params.Set("limit", "1")

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Point{}, fmt.Errorf("failed to create request: %w", err)
	}

	// Nominatim требует идентифицирующий User-Agent
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	// Ретраим только транспортные ошибки: "не найдено" ретраем не лечится
	var lastErr error
	maxRetries := 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-ctx.Done():
				return Point{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		point, err := c.doRequest(req)
		if err == nil {
			return point, nil
		}
		if errors.Is(err, domain.ErrPlaceNotFound) {
			return Point{}, err
		}
		lastErr = err
	}

	return Point{}, fmt.Errorf("geocoding failed after %d attempts: %w", maxRetries, lastErr)
}

// doRequest выполняет HTTP запрос и разбирает ответ
func (c *httpClient) doRequest(req *http.Request) (Point, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Point{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Point{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("geocoder returned status %d: %s", resp.StatusCode, string(body))
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return Point{}, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(results) == 0 {
		return Point{}, domain.ErrPlaceNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}

	return Point{Latitude: lat, Longitude: lon}, nil
}
