package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/erp_ledger/internal/core/services"
	"github.com/SscSPs/erp_ledger/internal/handlers"
	"github.com/SscSPs/erp_ledger/internal/platform/cache"
	"github.com/SscSPs/erp_ledger/internal/platform/chartseed"
	"github.com/SscSPs/erp_ledger/internal/platform/config"
	"github.com/SscSPs/erp_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/erp_ledger/internal/repositories/memory"
	"github.com/SscSPs/erp_ledger/pkg/database"
)

// @title ERP Ledger API
// @version 1.0
// @description Chart of accounts, vouchers, business event postings and financial reports.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx := context.Background()

	var repos portsrepo.RepositoryProvider
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage; data is lost on restart")
		repos = memory.NewRepositoryProvider(memory.NewStore())
	default:
		logger.Info("Running database migrations...", slog.String("source", cfg.MigrationsPath))
		changed, err := database.Migrate(cfg.DatabaseURL, cfg.MigrationsPath, database.Up)
		if err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if changed {
			logger.Info("Database migrations applied successfully.")
		} else {
			logger.Info("No new migrations to apply.")
		}

		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(dbPool)
		repos = pgsql.NewRepositoryProvider(dbPool)
	}

	// The balance sheet cache is optional; without Redis every report is computed.
	var reportCache portsrepo.ReportCache
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, report cache disabled", slog.String("error", err.Error()))
		} else {
			defer client.Close()
			reportCache = cache.NewReportCache(client, cfg.ReportCacheTTL)
			logger.Info("Report cache enabled", slog.Duration("ttl", cfg.ReportCacheTTL))
		}
	}

	svc := services.NewServiceContainer(repos, reportCache)

	chartSource := func() (domain.ChartDefinition, error) {
		if cfg.ChartSeedPath != "" {
			return chartseed.Load(cfg.ChartSeedPath)
		}
		return chartseed.Default()
	}

	if cfg.SeedChartOnStart {
		chart, err := chartSource()
		if err != nil {
			logger.Error("Failed to load chart definition", slog.String("error", err.Error()))
			os.Exit(1)
		}
		resp, err := svc.Chart.SeedChart(ctx, chart, "system")
		if err != nil {
			logger.Error("Failed to seed chart of accounts", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Chart of accounts ready",
			slog.Int("main_groups_created", resp.MainGroupsCreated),
			slog.Int("subgroups_created", resp.SubgroupsCreated),
			slog.Int("accounts_created", resp.AccountsCreated))
	}

	r, err := handlers.NewRouter(cfg, svc, chartSource, logger)
	if err != nil {
		logger.Error("Failed to build router", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
