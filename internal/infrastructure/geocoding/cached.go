package geocoding

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/greenpath/logistics/internal/pkg/redis"
)

const (
	geocodeCachePrefix = "geocode:"
	geocodeCacheTTL    = 24 * time.Hour
)

// CachedClient добавляет Redis-кэширование к геокодеру
// Координаты города стабильны, а провайдер лимитирован, поэтому повторные
// запросы одной и той же пары мест не должны каждый раз ходить в сеть
type CachedClient struct {
	client Client
	cache  *redis.Client
}

// NewCachedClient создает кэширующую обертку над геокодером
func NewCachedClient(client Client, cache *redis.Client) *CachedClient {
	return &CachedClient{
		client: client,
		cache:  cache,
	}
}

// Geocode возвращает координаты места (с кэшированием успешных ответов)
func (c *CachedClient) Geocode(ctx context.Context, place string) (Point, error) {
	cacheKey := geocodeCachePrefix + strings.ToLower(strings.TrimSpace(place))

	// 1. Проверяем кэш
	cached, err := c.cache.Get(ctx, cacheKey)
	if err == nil {
		if point, ok := parseCachedPoint(cached); ok {
			return point, nil
		}
	} else if err != redisv9.Nil {
		// Ошибка кэша не фатальна - продолжаем работу с провайдером
	}

	// 2. Cache miss - идем к провайдеру
	point, err := c.client.Geocode(ctx, place)
	if err != nil {
		// Промахи не кэшируем: для данного вызова промах окончателен,
		// но место может появиться у провайдера позже
		return Point{}, err
	}

	// 3. Сохраняем результат в кэш (ошибка записи не критична)
	value := fmt.Sprintf("%.7f,%.7f", point.Latitude, point.Longitude)
	_ = c.cache.Set(ctx, cacheKey, value, geocodeCacheTTL)

	return point, nil
}

// parseCachedPoint разбирает значение кэша вида "lat,lon"
func parseCachedPoint(value string) (Point, bool) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return Point{}, false
	}
	lat, err1 := strconv.ParseFloat(parts[0], 64)
	lon, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil {
		return Point{}, false
	}
	return Point{Latitude: lat, Longitude: lon}, true
}
