// Package export produces XLSX workbooks for the manual-review queue.
package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/bonuscheck/receipt-pipeline/internal/payload"
)

// Entry pairs a processed receipt with its payload for export.
type Entry struct {
	ReceiptID uuid.UUID
	Payload   *payload.StructuredPayload
}

// Service produces XLSX bytes for review exports.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ReviewQueueXLSX returns an XLSX workbook (as bytes) with one row per line
// item; receipts with no items still get a summary row.
func (s *Service) ReviewQueueXLSX(entries []Entry) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Review"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Receipt ID",
		"Merchant",
		"Purchase Date",
		"Item",
		"Quantity",
		"Price (kopecks)",
		"SKU",
		"Match Score",
		"Brand Match",
		"Confidence",
		"Needs Review",
		"Anomalies",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, entry := range entries {
		p := entry.Payload
		if p == nil {
			continue
		}
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		writeCommon := func() {
			write(1, entry.ReceiptID.String())
			write(2, strOrDash(p.Merchant))
			write(3, strOrDash(p.PurchaseTS))
			write(11, p.ManualReviewRequired)
			write(12, strings.Join(p.Anomalies, "; "))
		}
		if len(p.LineItems) == 0 {
			writeCommon()
			write(4, "—")
			row++
			continue
		}
		for _, item := range p.LineItems {
			writeCommon()
			write(4, item.Name)
			write(5, item.Quantity)
			if item.Price != nil {
				write(6, *item.Price)
			}
			write(7, strOrDash(item.SKUCode))
			write(8, item.SKUMatchScore)
			write(9, item.IsBrandMatch)
			write(10, item.Confidence)
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("export.review_queue",
		"receipts", len(entries), "rows", row-2, "bytes", buf.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func strOrDash(s *string) string {
	if s == nil || *s == "" {
		return "—"
	}
	return *s
}
