package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(s string) *time.Time {
	t, err := time.Parse(BusinessDateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestNeedsReview(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		date     *time.Time
		conf     float64
		dateConf float64
		want     bool
	}{
		{"all good", datePtr("2024-03-01"), 0.9, 0.9, false},
		{"exactly at threshold", datePtr("2024-03-01"), 0.6, 0.6, false},
		{"missing date", nil, 0.9, 0.9, true},
		{"low extraction confidence", datePtr("2024-03-01"), 0.4, 0.9, true},
		{"low date confidence", datePtr("2024-03-01"), 0.9, 0.59, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NeedsReview(tt.date, tt.conf, tt.dateConf))
		})
	}
}

func TestDocument_ApplyReviewRouting(t *testing.T) {
	t.Parallel()

	d := Document{DocumentDate: datePtr("2024-03-01"), ExtractionConfidence: 0.4, DocumentDateConfidence: 0.9}
	d.ApplyReviewRouting()
	assert.Equal(t, DocumentStatusNeedsReview, d.Status)
	assert.True(t, d.RequiresReview)

	d.ExtractionConfidence = 0.95
	d.ApplyReviewRouting()
	assert.Equal(t, DocumentStatusProcessed, d.Status)
	assert.False(t, d.RequiresReview)
}

func TestDocument_Snapshot_IsFullDeepCopy(t *testing.T) {
	t.Parallel()

	supplierID := uuid.New()
	d := Document{
		ID:           uuid.New(),
		DocumentDate: datePtr("2024-03-01"),
		SupplierID:   &supplierID,
		RawOCRText:   "INVOICE ...",
		LineItems:    []LineItem{{Description: "Rice", Amount: decimal.NewFromInt(10)}},
		Version:      3,
	}

	s := d.Snapshot()
	require.Equal(t, d.ID, s.ID)
	assert.Equal(t, d, s)
	assert.Equal(t, "INVOICE ...", s.RawOCRText)
	assert.Equal(t, 3, s.Version)

	*d.DocumentDate = d.DocumentDate.AddDate(0, 0, 1)
	d.LineItems[0].Description = "Flour"
	other := uuid.New()
	*d.SupplierID = other

	assert.Equal(t, "2024-03-01", s.DocumentDate.Format(BusinessDateLayout))
	assert.Equal(t, "Rice", s.LineItems[0].Description)
	assert.Equal(t, supplierID, *s.SupplierID)
}

func TestDocument_ConversionDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 10, 22, 15, 0, 0, time.UTC)

	withDate := Document{DocumentDate: datePtr("2024-03-01")}
	assert.Equal(t, "2024-03-01", withDate.ConversionDate(now).Format(BusinessDateLayout))

	withoutDate := Document{}
	assert.Equal(t, "2024-05-10", withoutDate.ConversionDate(now).Format(BusinessDateLayout))
}

func TestParseBusinessDate(t *testing.T) {
	t.Parallel()

	got, err := ParseBusinessDate("2024-02-27")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.February, got.Month())

	got, err = ParseBusinessDate("  ")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseBusinessDate("null")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseBusinessDate("27/02/2024")
	assert.Error(t, err)
}

func TestDocumentChanges_IsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, DocumentChanges{}.IsEmpty())
	status := DocumentStatusProcessed
	assert.False(t, DocumentChanges{Status: &status}.IsEmpty())
	assert.False(t, DocumentChanges{ClearDate: true}.IsEmpty())
}
