// Package pipeline orchestrates one postprocessing invocation end to end.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bonuscheck/receipt-pipeline/constants"
	"github.com/bonuscheck/receipt-pipeline/internal/catalog"
	"github.com/bonuscheck/receipt-pipeline/internal/common"
	"github.com/bonuscheck/receipt-pipeline/internal/ocr"
	"github.com/bonuscheck/receipt-pipeline/internal/payload"
	"github.com/bonuscheck/receipt-pipeline/internal/scrape"
)

// Config holds thresholds and behavior flags for the postprocess stage.
type Config struct {
	Thresholds     payload.Thresholds
	ValidateOutput bool // validate the payload JSON against the wire schema
}

type Pipeline struct {
	Logger *slog.Logger
	Cfg    Config
}

func NewPipeline(logger *slog.Logger, cfg Config) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Thresholds == (payload.Thresholds{}) {
		cfg.Thresholds = payload.DefaultThresholds
	}
	return &Pipeline{Logger: logger, Cfg: cfg}
}

// Run builds the structured payload for one receipt's OCR tokens. The
// context bounds only the surrounding bookkeeping; the core itself runs to
// completion in time proportional to input size and has no cancellation
// points. Callers wanting a timeout wrap the whole invocation.
func (p *Pipeline) Run(ctx context.Context, tokens ocr.TokensByProfile, idx catalog.AliasIndex) (uuid.UUID, *payload.StructuredPayload, error) {
	jobID := uuid.New()
	tokenTotal := 0
	for _, batch := range tokens {
		tokenTotal += len(batch)
	}
	p.Logger.Info("postprocess.start",
		"job_id", jobID, "tokens", tokenTotal, "catalog_skus", len(idx),
	)

	if err := ctx.Err(); err != nil {
		return jobID, nil, fmt.Errorf("postprocess aborted: %w", err)
	}

	out := Assemble(tokens, idx, p.Cfg.Thresholds)
	if err := p.checkWireShape(out); err != nil {
		return jobID, nil, err
	}

	p.Logger.Info("postprocess.ok",
		"job_id", jobID,
		"merchant", deref(out.Merchant),
		"purchase_ts", deref(out.PurchaseTS),
		"total", out.Total,
		"line_items", len(out.LineItems),
		"mean_confidence", out.Confidence.Mean,
		"manual_review", out.ManualReviewRequired,
		"anomalies", len(out.Anomalies),
		"status", StatusFor(out),
	)
	return jobID, out, nil
}

// RunRows is the scraped-source entry point: pre-extracted tabular rows
// bypass the clusterer but share normalization, brand detection, matching,
// and the decision policy.
func (p *Pipeline) RunRows(ctx context.Context, page scrape.Page, idx catalog.AliasIndex) (uuid.UUID, *payload.StructuredPayload, error) {
	jobID := uuid.New()
	p.Logger.Info("postprocess.start",
		"job_id", jobID, "source", "scrape", "rows", len(page.Rows), "catalog_skus", len(idx),
	)

	if err := ctx.Err(); err != nil {
		return jobID, nil, fmt.Errorf("postprocess aborted: %w", err)
	}

	out := scrape.Assemble(page, idx, p.Cfg.Thresholds)
	if err := p.checkWireShape(out); err != nil {
		return jobID, nil, err
	}

	p.Logger.Info("postprocess.ok",
		"job_id", jobID,
		"merchant", deref(out.Merchant),
		"total", out.Total,
		"line_items", len(out.LineItems),
		"manual_review", out.ManualReviewRequired,
		"status", StatusFor(out),
	)
	return jobID, out, nil
}

func (p *Pipeline) checkWireShape(out *payload.StructuredPayload) error {
	if !p.Cfg.ValidateOutput {
		return nil
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := payload.ValidateJSONAgainstSchema(payload.BuildPayloadJSONSchema(), raw); err != nil {
		return common.NewAppError("PAYLOAD_SCHEMA", "payload does not match wire schema", err)
	}
	return nil
}

// StatusFor maps a payload to the receipt status the calling layer stores.
func StatusFor(out *payload.StructuredPayload) constants.ReceiptStatus {
	switch {
	case out == nil:
		return constants.ReceiptStatusQueued
	case out.Merchant == nil && out.Total == nil && len(out.LineItems) == 0:
		return constants.ReceiptStatusRejected
	case out.ManualReviewRequired:
		return constants.ReceiptStatusReview
	case out.Confidence.AutoAcceptCandidate:
		return constants.ReceiptStatusAccepted
	default:
		return constants.ReceiptStatusProcessing
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
