package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/hirosato/giftaid-review/internal/common/config"
	applogger "github.com/hirosato/giftaid-review/internal/common/logger"
	"github.com/hirosato/giftaid-review/internal/platform/backend"
	"github.com/hirosato/giftaid-review/internal/platform/sqlite"
)

const usage = `usage:
  operation seed <file.json>   load companies, products, transactions and user companies into the configured store
  operation migrate            apply the SQLite schema migrations at SQLITE_PATH`

// Example: STORAGE_BACKEND=sqlite go run ./cmd/operation seed cmd/operation/testdata/seed.json
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger, err := applogger.New(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	switch command {
	case "seed":
		if len(args) != 1 {
			return fmt.Errorf("seed needs exactly one file\n%s", usage)
		}
		file, err := readSeedFile(args[0])
		if err != nil {
			return err
		}
		b, err := backend.Open(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer b.Close()
		return seed(ctx, b.Store, file, logger)

	case "migrate":
		if cfg.StorageBackend != config.StorageSQLite {
			return fmt.Errorf("migrate only applies to the sqlite backend, got %q", cfg.StorageBackend)
		}
		if err := sqlite.RunMigrations(cfg.SQLitePath); err != nil {
			return err
		}
		logger.Info("Migrations applied", zap.String("path", cfg.SQLitePath))
		return nil

	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}
