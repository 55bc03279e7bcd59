package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonuscheck/receipt-pipeline/constants"
	"github.com/bonuscheck/receipt-pipeline/internal/catalog"
	"github.com/bonuscheck/receipt-pipeline/internal/ocr"
	"github.com/bonuscheck/receipt-pipeline/internal/payload"
	"github.com/bonuscheck/receipt-pipeline/internal/scrape"
)

func testPipeline(validate bool) *Pipeline {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPipeline(logger, Config{ValidateOutput: validate})
}

func TestRunValidatesAgainstWireSchema(t *testing.T) {
	p := testPipeline(true)
	jobID, out, err := p.Run(context.Background(), cleanReceiptTokens(), testCatalog())
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.NotEqual(t, uuid.Nil, jobID)
	assert.True(t, out.Confidence.AutoAcceptCandidate)
}

func TestRunEmptyTokensStillValidates(t *testing.T) {
	p := testPipeline(true)
	_, out, err := p.Run(context.Background(), ocr.TokensByProfile{}, catalog.AliasIndex{})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.True(t, out.ManualReviewRequired)
}

func TestRunHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := testPipeline(false)
	_, out, err := p.Run(ctx, cleanReceiptTokens(), testCatalog())
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRows(t *testing.T) {
	page := scrape.Page{
		Rows: []scrape.Row{
			{"Назва", "К-сть", "Ціна"},
			{"Цитрамон-Дарниця", "1", "50.00"},
		},
		Text: "Всього: 50.00\n",
	}
	p := testPipeline(true)
	_, out, err := p.RunRows(context.Background(), page, catalog.AliasIndex{})
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Len(t, out.LineItems, 1)
	assert.True(t, out.LineItems[0].IsBrandMatch)
	require.NotNil(t, out.Total)
	assert.Equal(t, int64(5000), *out.Total)
}

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline(nil, Config{})
	assert.NotNil(t, p.Logger)
	assert.Equal(t, payload.DefaultThresholds, p.Cfg.Thresholds)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, constants.ReceiptStatusQueued, StatusFor(nil))

	empty := Assemble(ocr.TokensByProfile{}, catalog.AliasIndex{}, payload.DefaultThresholds)
	assert.Equal(t, constants.ReceiptStatusRejected, StatusFor(empty))

	clean := Assemble(cleanReceiptTokens(), testCatalog(), payload.DefaultThresholds)
	assert.Equal(t, constants.ReceiptStatusAccepted, StatusFor(clean))

	clean.Confidence.AutoAcceptCandidate = false
	assert.Equal(t, constants.ReceiptStatusProcessing, StatusFor(clean))

	clean.ManualReviewRequired = true
	assert.Equal(t, constants.ReceiptStatusReview, StatusFor(clean))
}
