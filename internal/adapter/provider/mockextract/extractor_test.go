package mockextract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/internal/provider"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func request(content, filename, mime string) provider.ExtractionRequest {
	sum := sha256.Sum256([]byte(content))
	return provider.ExtractionRequest{
		Content:     []byte(content),
		Filename:    filename,
		MimeType:    mime,
		Fingerprint: hex.EncodeToString(sum[:]),
	}
}

func TestExtractor_Deterministic(t *testing.T) {
	t.Parallel()

	ext := NewWithClock(func() time.Time { return fixedNow })
	req := request("same bytes", "bill.jpg", "image/jpeg")

	a, err := ext.Extract(context.Background(), req)
	require.NoError(t, err)
	b, err := ext.Extract(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestExtractor_ResultInvariants(t *testing.T) {
	t.Parallel()

	ext := NewWithClock(func() time.Time { return fixedNow })

	for i := range 50 {
		mime, name := "image/png", "scan.png"
		if i%2 == 0 {
			mime, name = "application/pdf", "invoice.pdf"
		}
		res, err := ext.Extract(context.Background(), request(fmt.Sprintf("doc-%d", i), name, mime))
		require.NoError(t, err)

		assert.Equal(t, Name, res.Provider)
		assert.Empty(t, res.Error)
		assert.True(t, res.DocumentType.IsValid(), "type %q", res.DocumentType)
		assert.GreaterOrEqual(t, res.Confidence, minConfidence)
		assert.LessOrEqual(t, res.Confidence, maxConfidence)
		assert.NotEmpty(t, res.LineItems)
		assert.True(t, domain.IsSupportedCurrency(res.Currency))

		sum := res.Subtotal.Add(res.TaxAmount)
		assert.True(t, sum.Equal(res.TotalAmount), "subtotal %s + tax %s != total %s", res.Subtotal, res.TaxAmount, res.TotalAmount)

		if res.DocumentDate == nil {
			assert.Zero(t, res.DocumentDateConfidence)
		} else {
			assert.False(t, res.DocumentDate.After(fixedNow))
			assert.False(t, res.DocumentDate.Before(fixedNow.AddDate(0, 0, -maxDocumentAgeDays-1)))
		}
	}
}

func TestExtractor_FallsBackToContentHash(t *testing.T) {
	t.Parallel()

	ext := NewWithClock(func() time.Time { return fixedNow })
	withFP := request("payload", "a.pdf", "application/pdf")
	withoutFP := withFP
	withoutFP.Fingerprint = ""

	a, err := ext.Extract(context.Background(), withFP)
	require.NoError(t, err)
	b, err := ext.Extract(context.Background(), withoutFP)
	require.NoError(t, err)

	assert.Equal(t, a.InvoiceNumber, b.InvoiceNumber)
	assert.Equal(t, a.Confidence, b.Confidence)
}

func TestExtractor_Name(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "mock", New().Name())
}
