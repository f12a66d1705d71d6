package cache

import (
	"time"

	"github.com/narabot/narabot/internal/domain"
)

// Cache хранит результаты недавних одинаковых поисков, чтобы не гонять
// одинаковые запросы в апстрим. Типизирован под единственное, что мы
// кешируем: redis-бэкенду нужна сериализация, а не interface{}.
type Cache interface {
	Get(key string) (*domain.SearchResult, bool)
	Set(key string, result *domain.SearchResult, ttl time.Duration)
	Delete(key string)
	Stop()
}
