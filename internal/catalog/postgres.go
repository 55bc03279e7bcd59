package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bonuscheck/receipt-pipeline/internal/common"
)

// Open creates a pgx pool against the catalog database.
func Open(ctx context.Context, cfg common.CatalogConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to catalog database")
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse catalog DSN: %w", err)
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "receipt-pipeline"

	ctx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		logger.Error("failed to connect to catalog database", "error", err)
		return nil, err
	}
	logger.Info("connected to catalog database")
	return pool, nil
}

// LoadPostgres fetches a fresh alias snapshot. Called by the orchestration
// layer before each invocation so the core always sees current aliases.
func LoadPostgres(ctx context.Context, pool *pgxpool.Pool) (AliasIndex, error) {
	rows, err := pool.Query(ctx,
		`SELECT sku_code, alias FROM catalog_aliases ORDER BY sku_code, position`)
	if err != nil {
		return nil, fmt.Errorf("query catalog aliases: %w", err)
	}
	defer rows.Close()

	idx, err := indexFromRows(rows)
	if err != nil {
		return nil, err
	}
	return idx, nil
}
