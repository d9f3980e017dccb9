package catalog

import (
	"context"
	"movieapi/errs"
	"movieapi/pkg/logger"
	"movieapi/pkg/metrics"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type Service interface {
	Popular(ctx context.Context, page int) (MovieList, error)
	Details(ctx context.Context, externalID string) (Movie, error)
	Search(ctx context.Context, query string, page int) (MovieList, error)
	LocalEntry(ctx context.Context, externalID string) (Entry, error)
}

// Client fetches from the upstream provider. Each call returns the decoded,
// validated payload together with the raw bytes it was decoded from.
type Client interface {
	Popular(ctx context.Context, page int) (MovieList, []byte, error)
	Details(ctx context.Context, externalID string) (Movie, []byte, error)
	Search(ctx context.Context, query string, page int) (MovieList, []byte, error)
}

type Repository interface {
	FindByExternalID(ctx context.Context, externalID string) (Entry, error)
	Upsert(ctx context.Context, e Entry) (Entry, error)
}

// Cache is fail-open: an unreachable backend reads as a miss and a failed
// write reports false. Expiration is enforced by the store.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) bool
}

type Usecase struct {
	client Client
	repo   Repository
	cache  Cache
	log    *zap.SugaredLogger
}

type Option func(uc *Usecase)

func WithLogger(l *zap.SugaredLogger) Option {
	return func(uc *Usecase) {
		uc.log = l
	}
}

func NewUsecase(c Client, r Repository, cache Cache, opts ...Option) *Usecase {
	uc := &Usecase{
		client: c,
		repo:   r,
		cache:  cache,
		log:    logger.NOOPLogger,
	}
	for _, fn := range opts {
		fn(uc)
	}
	return uc
}

// Popular assumes 1 <= page <= MaxPage; callers validate.
func (uc *Usecase) Popular(ctx context.Context, page int) (MovieList, error) {
	return withResults(readThrough(ctx, uc, OpPopular, PopularKey(page),
		func(ctx context.Context) (MovieList, []byte, error) {
			return uc.client.Popular(ctx, page)
		},
		func(l MovieList) []Movie { return l.Results },
	))
}

func (uc *Usecase) Details(ctx context.Context, externalID string) (Movie, error) {
	return readThrough(ctx, uc, OpDetails, DetailsKey(externalID),
		func(ctx context.Context) (Movie, []byte, error) {
			return uc.client.Details(ctx, externalID)
		},
		func(m Movie) []Movie { return []Movie{m} },
	)
}

// Search assumes a non-blank query; callers validate.
func (uc *Usecase) Search(ctx context.Context, query string, page int) (MovieList, error) {
	return withResults(readThrough(ctx, uc, OpSearch, SearchKey(query, page),
		func(ctx context.Context) (MovieList, []byte, error) {
			return uc.client.Search(ctx, strings.TrimSpace(query), page)
		},
		func(l MovieList) []Movie { return l.Results },
	))
}

func (uc *Usecase) LocalEntry(ctx context.Context, externalID string) (Entry, error) {
	return uc.repo.FindByExternalID(ctx, externalID)
}

// readThrough serves key from the cache, or fetches it upstream, reconciles
// every record into the repository and caches the raw payload.
//
// A hit never touches the client or the repository. Upstream failures are
// returned as is and leave cache and repository untouched. Reconciliation
// failures are logged and do not fail the read.
func readThrough[T any](
	ctx context.Context,
	uc *Usecase,
	op, key string,
	fetch func(ctx context.Context) (T, []byte, error),
	records func(T) []Movie,
) (T, error) {
	var zero T

	if raw, ok := uc.cache.Get(ctx, key); ok {
		var cached T
		err := json.Unmarshal(raw, &cached)
		if err == nil {
			metrics.CatalogCacheLookups.WithLabelValues(op, "hit").Inc()
			return cached, nil
		}
		uc.log.Warnw("discarding undecodable cache entry", "operation", op, "key", key, "error", err)
	}
	metrics.CatalogCacheLookups.WithLabelValues(op, "miss").Inc()

	// Side effects of a fetch land even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	value, raw, err := fetch(ctx)
	if err != nil {
		uc.log.Errorw("upstream fetch failed", "operation", op, "key", key, "error", err)
		return zero, err
	}

	for _, m := range records(value) {
		if _, err := uc.repo.Upsert(ctx, m.Entry()); err != nil {
			metrics.CatalogReconcileFailures.WithLabelValues(op).Inc()
			uc.log.Warnw("reconcile movie failed",
				"operation", op,
				"external_id", m.ExternalID(),
				"error", err,
			)
		}
	}

	if !uc.cache.Set(ctx, key, raw, CacheTTL) {
		uc.log.Warnw("cache write skipped", "operation", op, "key", key)
	}

	return value, nil
}

// IsUpstreamUnavailable reports whether err is a failed upstream fetch.
func IsUpstreamUnavailable(err error) bool {
	return errs.ErrorCode(err) == errs.EUNAVAILABLE
}

func withResults(l MovieList, err error) (MovieList, error) {
	if err == nil && l.Results == nil {
		l.Results = []Movie{}
	}
	return l, err
}
