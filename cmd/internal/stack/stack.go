// Package stack assembles the catalog components shared by the binaries.
package stack

import (
	"fmt"
	"io"
	"movieapi/badger"
	"movieapi/cache"
	"movieapi/catalog"
	"movieapi/pkg/config"
	"movieapi/postgres"
	"movieapi/redis"
	"movieapi/tmdb"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	return postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     fmt.Sprintf("%d", cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,

		MaxOpenConns: cfg.DB.MaxOpenConns,
	})
}

// Catalog is the wired catalog usecase together with the cache store it reads
// through.
type Catalog struct {
	Service *catalog.Usecase
	Cache   *cache.Store

	backend io.Closer
}

// Close releases the cache backend.
func (c *Catalog) Close() error {
	return c.backend.Close()
}

func NewCatalog(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger) (*Catalog, error) {
	backend, closer, err := newCacheBackend(cfg)
	if err != nil {
		return nil, err
	}

	store := cache.New(backend, cache.Options{
		Timeout:         cfg.Cache.Timeout,
		BreakerFailures: cfg.Cache.BreakerFailures,
		BreakerCooldown: cfg.Cache.BreakerCooldown,
		Logger:          log.Named("cache"),
	})

	client := tmdb.NewClient(tmdb.Options{
		BaseURL:           cfg.Catalog.BaseURL,
		APIKey:            cfg.Catalog.APIKey,
		Timeout:           cfg.Catalog.Timeout,
		RequestsPerSecond: cfg.Catalog.RateLimit,
		Burst:             cfg.Catalog.RateBurst,
		Logger:            log.Named("tmdb"),
	})

	uc := catalog.NewUsecase(
		client,
		postgres.NewMovieRepository(db),
		store,
		catalog.WithLogger(log.Named("catalog")),
	)
	return &Catalog{Service: uc, Cache: store, backend: closer}, nil
}

func newCacheBackend(cfg *config.Config) (cache.Backend, io.Closer, error) {
	switch cfg.Cache.Driver {
	case "redis":
		client := redis.NewClient(redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		return redis.NewCacheBackend(client), client, nil
	case "badger":
		db, err := badger.Open(cfg.Cache.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		return badger.NewCacheBackend(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}
