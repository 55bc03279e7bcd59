package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/bonuscheck/receipt-pipeline/internal/catalog"
	"github.com/bonuscheck/receipt-pipeline/internal/common"
	"github.com/bonuscheck/receipt-pipeline/internal/export"
	"github.com/bonuscheck/receipt-pipeline/internal/ocr"
	"github.com/bonuscheck/receipt-pipeline/internal/payload"
	"github.com/bonuscheck/receipt-pipeline/internal/pipeline"
)

func main() {
	tokensPath := flag.String("tokens", "", "path to OCR token dump JSON (profile -> tokens)")
	xlsxPath := flag.String("xlsx", "", "also write a review-queue XLSX to this path")
	validate := flag.Bool("validate", true, "validate the payload against the wire schema")
	flag.Parse()

	cfg := common.LoadConfig()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	if *tokensPath == "" {
		logger.Error("usage", "cmd", "receiptscan -tokens <tokens.json> [-xlsx out.xlsx]")
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	idx, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Error("load catalog", "error", err)
		os.Exit(1)
	}

	raw, err := os.ReadFile(*tokensPath)
	if err != nil {
		logger.Error("read token dump", "path", *tokensPath, "error", err)
		os.Exit(1)
	}
	var tokens ocr.TokensByProfile
	if err := json.Unmarshal(raw, &tokens); err != nil {
		logger.Error("decode token dump", "path", *tokensPath, "error", err)
		os.Exit(1)
	}

	p := pipeline.NewPipeline(logger, pipeline.Config{
		Thresholds: payload.Thresholds{
			ManualReview:           cfg.Pipeline.ManualReviewThreshold,
			AutoAccept:             cfg.Pipeline.AutoAcceptThreshold,
			TotalsTolerancePercent: cfg.Pipeline.TotalsTolerancePercent,
		},
		ValidateOutput: *validate,
	})

	start := time.Now()
	jobID, out, err := p.Run(ctx, tokens, idx)
	if err != nil {
		logger.Error("postprocess failed",
			"job_id", jobID, "error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Error("encode payload", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))

	if *xlsxPath != "" {
		svc := export.NewService(logger)
		book, err := svc.ReviewQueueXLSX([]export.Entry{{ReceiptID: jobID, Payload: out}})
		if err != nil {
			logger.Error("build review workbook", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxPath, book, 0o644); err != nil {
			logger.Error("write review workbook", "path", *xlsxPath, "error", err)
			os.Exit(1)
		}
	}

	logger.Info("postprocess complete",
		"job_id", jobID,
		"line_items", len(out.LineItems),
		"manual_review", out.ManualReviewRequired,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func loadCatalog(ctx context.Context, cfg *common.Config, logger *slog.Logger) (catalog.AliasIndex, error) {
	switch cfg.Catalog.Source {
	case "json":
		return catalog.LoadJSON(cfg.Catalog.Path)
	case "sqlite":
		return catalog.LoadSQLite(ctx, cfg.Catalog.Path)
	case "postgres":
		pool, err := catalog.Open(ctx, cfg.Catalog, logger)
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		return catalog.LoadPostgres(ctx, pool)
	default:
		return nil, fmt.Errorf("unsupported catalog source: %q", cfg.Catalog.Source)
	}
}

func logLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
