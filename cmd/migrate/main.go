package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/backoffice/backend/internal/infrastructure/config"
	"github.com/backoffice/backend/internal/infrastructure/logger"
	"github.com/backoffice/backend/internal/infrastructure/migration"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		configPath     string
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&configPath, "config", "", "path to config file (TOML)")
	flag.StringVar(&migrationsPath, "path", defaultMigrationsPath, "path to migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log := logger.New(logLevel, "console")
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}
	if cfg.Database.Driver != "postgres" {
		log.Fatal("migrations require the postgres driver", zap.String("driver", cfg.Database.Driver))
	}

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal("failed to resolve migrations path", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("failed to ping database", zap.Error(err))
	}

	m, err := migration.New(db, absPath, log)
	if err != nil {
		log.Fatal("failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("migration up failed", zap.Error(err))
		}

	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("migration down failed", zap.Error(err))
		}

	case "step":
		if len(args) < 2 {
			log.Fatal("step count required, usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("invalid step count", zap.String("value", args[1]))
		}
		if err := m.Steps(n); err != nil {
			log.Fatal("migration step failed", zap.Error(err))
		}

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("failed to get version", zap.Error(err))
		}
		if version == 0 {
			log.Info("no migrations applied")
		} else {
			log.Info("current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}

	case "force":
		if len(args) < 2 {
			log.Fatal("version required, usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("invalid version number", zap.String("value", args[1]))
		}
		log.Warn("forcing migration version")
		if err := m.Force(version); err != nil {
			log.Fatal("force version failed", zap.Error(err))
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [flags] <command>

Commands:
  up               apply all pending migrations
  down             roll back all migrations
  step <n>         apply n migrations (negative rolls back)
  version          print the current schema version
  force <version>  set the schema version without migrating

Flags:
  -config <path>     config file (TOML)
  -path <path>       migrations directory (default: migrations)
  -log-level <level> debug, info, warn, error (default: info)`)
}
