package main

import (
	"flag"
	"fmt"
	"movieapi/cmd/internal/stack"
	"movieapi/pkg/config"
	"movieapi/pkg/logger"
	"os"

	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

func main() {
	var (
		dir  string
		down bool
	)
	flag.StringVar(&dir, "dir", "migrations", "Directory holding migration files")
	flag.BoolVar(&down, "down", false, "Roll back the most recent migration")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot load config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := stack.OpenDatabase(cfg)
	if err != nil {
		log.Fatalw("cannot connecting to db", "error", err)
	}

	migrations := &migrate.FileMigrationSource{
		Dir: dir,
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalw("cannot get db instance", "error", err)
	}

	var total int
	if down {
		total, err = migrate.ExecMax(sqlDB, "postgres", migrations, migrate.Down, 1)
	} else {
		total, err = migrate.Exec(sqlDB, "postgres", migrations, migrate.Up)
	}
	if err != nil {
		log.Fatalw("cannot execute migration", "error", err)
	}

	log.Infow("applied migrations", "total", total, "down", down)
}
