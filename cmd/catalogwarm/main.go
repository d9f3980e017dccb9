package main

import (
	"context"
	"flag"
	"fmt"
	"movieapi/catalog"
	"movieapi/cmd/internal/stack"
	"movieapi/pkg/config"
	"movieapi/pkg/logger"
	"os"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultPages = 5

func main() {
	var pages int
	flag.IntVar(&pages, "pages", defaultPages, "Number of popular pages to warm (1-500)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config failed:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, "build logger failed:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := stack.OpenDatabase(cfg)
	if err != nil {
		log.Fatalw("cannot open postgres connection", "error", err)
	}

	c, err := stack.NewCatalog(cfg, db, log)
	if err != nil {
		log.Fatalw("cannot open cache backend", "driver", cfg.Cache.Driver, "error", err)
	}
	defer c.Close()

	warmed, err := warm(context.Background(), c.Service, pages, log)
	if err != nil {
		log.Errorw("warm stopped", "warmed", warmed, "error", err, "cache", c.Cache.State())
		c.Close()
		os.Exit(1)
	}

	log.Infow("warm completed", "pages", warmed)
}

type popularService interface {
	Popular(ctx context.Context, page int) (catalog.MovieList, error)
}

// warm reads popular pages 1..pages and stops at the first failure. It
// returns the number of pages read.
func warm(ctx context.Context, svc popularService, pages int, log *zap.SugaredLogger) (int, error) {
	if !catalog.ValidPage(pages) {
		return 0, catalog.ErrInvalidPage
	}

	for page := 1; page <= pages; page++ {
		list, err := svc.Popular(ctx, page)
		if err != nil {
			return page - 1, err
		}
		log.Infow("warmed page", "page", page, "movies", len(list.Results))
		if list.TotalPages > 0 && page >= list.TotalPages {
			return page, nil
		}
	}
	return pages, nil
}
