package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/narabot/narabot/internal/cache"
	"github.com/narabot/narabot/internal/domain"
	"github.com/narabot/narabot/internal/g2b"
	"github.com/narabot/narabot/internal/metrics"
)

type SearchService interface {
	Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResult, error)
}

type SearchConfig struct {
	CacheTTL time.Duration
}

type SearchServiceDeps struct {
	Resolver g2b.Resolver
	Cache    cache.Cache
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Config   SearchConfig
}

type searchService struct {
	resolver g2b.Resolver
	cache    cache.Cache
	logger   *zap.Logger
	metrics  *metrics.Metrics
	config   SearchConfig
}

func NewSearchService(deps SearchServiceDeps) SearchService {
	if deps.Config.CacheTTL == 0 {
		deps.Config.CacheTTL = 10 * time.Minute
	}

	return &searchService{
		resolver: deps.Resolver,
		cache:    deps.Cache,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		config:   deps.Config,
	}
}

// Search валидирует запрос, пробует кеш и только потом идет в апстрим.
// Ноль найденных извещений - успешный исход с пустым срезом.
func (s *searchService) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResult, error) {
	startTime := time.Now()

	if s.metrics != nil {
		s.metrics.IncSearchesInFlight()
		defer s.metrics.DecSearchesInFlight()
	}

	// без ключа в апстрим не ходим вообще
	if s.resolver == nil {
		return nil, domain.ErrMissingCredential
	}

	req.Sanitize()
	if err := req.Validate(); err != nil {
		if s.metrics != nil {
			s.metrics.RecordSearch(req.Mode.String(), "validation_error", time.Since(startTime))
		}
		return nil, err
	}

	key := s.cacheKey(req)

	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if s.metrics != nil {
				s.metrics.RecordCacheHit()
				s.metrics.RecordSearch(req.Mode.String(), "cache_hit", time.Since(startTime))
			}
			cp := *cached
			cp.FromCache = true
			return &cp, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss()
		}
	}

	s.logger.Info("searching upstream",
		zap.String("mode", req.Mode.String()),
		zap.Int("keyword_length", len(req.Keyword)),
		zap.Int("rows", req.Rows),
	)

	resolved, err := s.resolver.Resolve(ctx, req)
	if err != nil {
		s.recordFailure(req.Mode, err, startTime)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordEndpointAttempt(req.Mode.String(), "success")
	}

	result := &domain.SearchResult{
		Notices:   g2b.Normalize(resolved.Raw, req.Mode),
		SourceURL: resolved.URL,
		Attempt:   resolved.Attempt,
	}

	if s.cache != nil {
		s.cache.Set(key, result, s.config.CacheTTL)
	}

	s.logger.Info("search done",
		zap.String("mode", req.Mode.String()),
		zap.Int("notices", len(result.Notices)),
		zap.Int("endpoint_attempt", resolved.Attempt),
	)

	if s.metrics != nil {
		s.metrics.RecordSearch(req.Mode.String(), "success", time.Since(startTime))
	}

	return result, nil
}

func (s *searchService) recordFailure(mode domain.QueryMode, err error, startTime time.Time) {
	var exhausted *g2b.ExhaustedError
	if errors.As(err, &exhausted) {
		if s.metrics != nil {
			for _, a := range exhausted.Attempts {
				s.metrics.RecordEndpointAttempt(mode.String(), string(a.Kind))
			}
			s.metrics.RecordSearch(mode.String(), "exhausted", time.Since(startTime))
		}
		s.logger.Warn("all endpoints exhausted",
			zap.String("mode", mode.String()),
			zap.Int("attempts", len(exhausted.Attempts)),
		)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordSearch(mode.String(), "error", time.Since(startTime))
	}
	s.logger.Error("search failed", zap.String("mode", mode.String()), zap.Error(err))
}

// cacheKey - одинаковые (режим, слово, период, rows) в окне TTL не должны
// порождать повторный сетевой вызов.
func (s *searchService) cacheKey(req *domain.SearchRequest) string {
	keyword := strings.Join(strings.Fields(strings.ToLower(req.Keyword)), " ")
	data := fmt.Sprintf("%s|%s|%s|%s|%d",
		req.Mode,
		keyword,
		req.Begin.Format("20060102"),
		req.End.Format("20060102"),
		req.Rows,
	)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash[:8])
}
