package shortener

import (
	"context"
	"errors"
	"time"

	"github.com/tinylink/tinylink/internal/ratelimit"
	"go.uber.org/zap"
)

// Config tunes the orchestration behavior of Service.
type Config struct {
	// MappingTTL is how long a new mapping stays valid.
	MappingTTL time.Duration
	// CacheTTL caps cache entry lifetime. Entries are always further
	// capped at the mapping's remaining lifetime.
	CacheTTL time.Duration
	// MaxGenerateAttempts bounds the collision retry loop.
	MaxGenerateAttempts int
	// StoreTimeout bounds each repository call.
	StoreTimeout time.Duration
	// CacheTimeout bounds each cache call.
	CacheTimeout time.Duration
	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns the production defaults: 30 day mappings,
// 24 hour cache entries, 5 generation attempts.
func DefaultConfig() Config {
	return Config{
		MappingTTL:          30 * 24 * time.Hour,
		CacheTTL:            24 * time.Hour,
		MaxGenerateAttempts: 5,
		StoreTimeout:        3 * time.Second,
		CacheTimeout:        500 * time.Millisecond,
	}
}

// Service orchestrates code generation, the durable repository, the
// cache, and the rate limiter for the create and resolve paths.
type Service struct {
	repo     Repository
	cache    Cache
	limiter  ratelimit.Limiter
	generate CodeGenerator
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates the orchestrator. cache and limiter may be nil,
// in which case the corresponding step is skipped.
func NewService(
	repo Repository,
	cache Cache,
	limiter ratelimit.Limiter,
	generate CodeGenerator,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if cfg.MappingTTL <= 0 {
		cfg.MappingTTL = DefaultConfig().MappingTTL
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}

	if cfg.MaxGenerateAttempts <= 0 {
		cfg.MaxGenerateAttempts = DefaultConfig().MaxGenerateAttempts
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		repo:     repo,
		cache:    cache,
		limiter:  limiter,
		generate: generate,
		cfg:      cfg,
		logger:   logger,
		now:      now,
	}
}

// Shorten validates the URL, deduplicates against existing non-expired
// mappings, and otherwise allocates a fresh code with bounded collision
// retries. The store's uniqueness constraint is the sole serialization
// point for collisions.
func (s *Service) Shorten(ctx context.Context, rawURL, clientID string) (*Mapping, error) {
	if err := s.admit(ctx, clientID, ratelimit.ScopeShorten); err != nil {
		return nil, err
	}

	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, ErrInvalidURL
	}

	hash := HashURL(normalized)

	existing, err := s.getByURLHash(ctx, hash)
	if err == nil && !existing.Expired(s.now()) {
		s.cachePut(ctx, existing)

		return existing, nil
	}

	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	for attempt := 0; attempt < s.cfg.MaxGenerateAttempts; attempt++ {
		createdAt := s.now()
		mapping := &Mapping{
			Code:        s.generate(),
			OriginalURL: rawURL,
			URLHash:     hash,
			CreatedAt:   createdAt,
			ExpiresAt:   createdAt.Add(s.cfg.MappingTTL),
		}

		err := s.insert(ctx, mapping)
		if errors.Is(err, ErrDuplicateCode) {
			s.logger.Warn("short code collision, regenerating",
				zap.String("code", string(mapping.Code)),
				zap.Int("attempt", attempt+1),
			)

			continue
		}

		if err != nil {
			return nil, err
		}

		s.cachePut(ctx, mapping)

		return mapping, nil
	}

	return nil, ErrGenerationExhausted
}

// Resolve returns the original URL for a code, serving from cache when
// possible and classifying expiry against the durable record.
func (s *Service) Resolve(ctx context.Context, code Code, clientID string) (string, error) {
	if err := s.admit(ctx, clientID, ratelimit.ScopeResolve); err != nil {
		return "", err
	}

	if entry, err := s.cacheGet(ctx, code); err == nil {
		return entry.OriginalURL, nil
	}

	mapping, err := s.getByCode(ctx, code)
	if err != nil {
		return "", err
	}

	if mapping.Expired(s.now()) {
		// Purge any stale cache entry so later callers cannot be
		// served past the record's true expiration.
		s.cacheInvalidate(ctx, code)

		return "", ErrExpired
	}

	s.cachePut(ctx, mapping)

	return mapping.OriginalURL, nil
}

// admit checks the rate limiter for the client and scope. Limiter
// failures fail open: admission control is load shedding, not a
// correctness gate.
func (s *Service) admit(ctx context.Context, clientID string, scope ratelimit.Scope) error {
	if s.limiter == nil || clientID == "" {
		return nil
	}

	decision, err := s.limiter.Allow(ctx, clientID, scope)
	if err != nil {
		s.logger.Warn("rate limit check failed",
			zap.String("scope", string(scope)),
			zap.Error(err),
		)

		return nil
	}

	if !decision.Allowed {
		return &RateLimitError{RetryAfter: decision.RetryAfter}
	}

	return nil
}

func (s *Service) insert(ctx context.Context, mapping *Mapping) error {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	return s.mapStoreErr(s.repo.Insert(ctx, mapping))
}

func (s *Service) getByCode(ctx context.Context, code Code) (*Mapping, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	mapping, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}

	return mapping, nil
}

func (s *Service) getByURLHash(ctx context.Context, hash URLHash) (*Mapping, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	mapping, err := s.repo.GetByURLHash(ctx, hash)
	if err != nil {
		return nil, s.mapStoreErr(err)
	}

	return mapping, nil
}

func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.StoreTimeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, s.cfg.StoreTimeout)
}

// mapStoreErr classifies timeouts as transient so callers never
// mistake an unavailable store for a missing mapping.
func (s *Service) mapStoreErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrStoreUnavailable
	}

	return err
}

// cacheGet reads through the cache. Any cache failure is treated as a
// miss; the repository remains the fallback path.
func (s *Service) cacheGet(ctx context.Context, code Code) (*CacheEntry, error) {
	if s.cache == nil {
		return nil, ErrCacheMiss
	}

	ctx, cancel := s.cacheContext(ctx)
	defer cancel()

	entry, err := s.cache.Get(ctx, code)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Debug("cache get failed",
				zap.String("code", string(code)),
				zap.Error(err),
			)
		}

		return nil, ErrCacheMiss
	}

	return entry, nil
}

// cachePut populates the cache with a TTL capped at the mapping's
// remaining lifetime. Failures are logged and ignored; cache writes
// never affect the client-visible result.
func (s *Service) cachePut(ctx context.Context, mapping *Mapping) {
	if s.cache == nil {
		return
	}

	remaining := mapping.RemainingLife(s.now())
	if remaining <= 0 {
		return
	}

	ttl := s.cfg.CacheTTL
	if remaining < ttl {
		ttl = remaining
	}

	ctx, cancel := s.cacheContext(ctx)
	defer cancel()

	if err := s.cache.Put(ctx, mapping.Code, mapping.OriginalURL, ttl); err != nil {
		s.logger.Debug("cache put failed",
			zap.String("code", string(mapping.Code)),
			zap.Error(err),
		)
	}
}

func (s *Service) cacheInvalidate(ctx context.Context, code Code) {
	if s.cache == nil {
		return
	}

	ctx, cancel := s.cacheContext(ctx)
	defer cancel()

	if err := s.cache.Invalidate(ctx, code); err != nil {
		s.logger.Debug("cache invalidate failed",
			zap.String("code", string(code)),
			zap.Error(err),
		)
	}
}

func (s *Service) cacheContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.CacheTimeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, s.cfg.CacheTimeout)
}
