package store

import (
	"context"
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabworks-backend/internal/model"
	"fabworks-backend/internal/pricing"
)

var quoteIDPattern = regexp.MustCompile(`^QT[A-Z0-9]{6}$`)

func TestCreateQuotation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	svc := seedPrintService(t, s)

	q, err := s.CreateQuotation(ctx, CreateQuotationParams{
		CustomerName:  "Alice Smith",
		CustomerEmail: "alice@example.com",
		CustomerPhone: "555-0100",
		ServiceType:   model.Category3DPrinting,
		Material:      "PLA+",
		Quantity:      4,
	}, sampleFiles(2))
	require.NoError(t, err)

	assert.Regexp(t, quoteIDPattern, q.QuoteID)
	assert.Equal(t, model.QuotationPendingReview, q.Status)
	assert.Equal(t, pricing.Delivery3DPrinting, q.DeliveryTime)

	base := svc.Price * 4
	assert.GreaterOrEqual(t, q.EstimatedPrice, math.Floor(base))
	assert.Less(t, q.EstimatedPrice, base*6)
	assert.Equal(t, math.Trunc(q.EstimatedPrice), q.EstimatedPrice)

	stored, err := s.GetQuotation(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, stored.Files, 2)
	assert.Equal(t, "bracket-a.stl", stored.Files[0].OriginalName)
}

func TestCreateQuotationNoMatchingService(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	svc := seedPrintService(t, s)
	_, err := s.ToggleService(ctx, svc.ID) // deactivate
	require.NoError(t, err)

	_, err = s.CreateQuotation(ctx, CreateQuotationParams{
		CustomerName:  "Bob Jones",
		CustomerEmail: "bob@example.com",
		ServiceType:   model.Category3DPrinting,
		Material:      "PLA+",
		Quantity:      1,
	}, sampleFiles(1))
	assert.ErrorIs(t, err, ErrServiceUnavailable)

	var count int64
	require.NoError(t, s.DB().Model(&model.Quotation{}).Count(&count).Error)
	assert.Zero(t, count, "failed request must not leave a quotation behind")
}

func TestQuoteIDCollisionRetries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedPrintService(t, s)

	// Fill the table with quotations; each insert must land on a fresh code
	// even though codes are random.
	seen := map[string]bool{}
	for i := 0; i < 25; i++ {
		q, err := s.CreateQuotation(ctx, CreateQuotationParams{
			CustomerName:  "Repeat Customer",
			CustomerEmail: "repeat@example.com",
			ServiceType:   model.Category3DPrinting,
			Material:      "PLA+",
			Quantity:      1,
		}, sampleFiles(1))
		require.NoError(t, err)
		assert.False(t, seen[q.QuoteID], "duplicate quote code %s", q.QuoteID)
		seen[q.QuoteID] = true
	}
}

func TestUpdateQuotationStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedPrintService(t, s)
	q := seedQuotation(t, s, "Alice Smith")

	updated, err := s.UpdateQuotationStatus(ctx, q.ID, model.QuotationSent, "quoted at standard rate")
	require.NoError(t, err)
	assert.Equal(t, model.QuotationSent, updated.Status)
	assert.Equal(t, "quoted at standard rate", updated.Notes)

	_, err = s.UpdateQuotationStatus(ctx, 9999, model.QuotationSent, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListQuotationsFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedPrintService(t, s)
	seedQuotation(t, s, "Alice Smith")
	seedQuotation(t, s, "Bob Jones")
	rejected := seedQuotation(t, s, "Carol White")
	_, err := s.UpdateQuotationStatus(ctx, rejected.ID, model.QuotationRejected, "")
	require.NoError(t, err)

	byStatus, _, err := s.ListQuotations(ctx, ListParams{Status: model.QuotationRejected})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "Carol White", byStatus[0].CustomerName)

	bySearch, _, err := s.ListQuotations(ctx, ListParams{Search: "alice"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Alice Smith", bySearch[0].CustomerName)

	page, pagination, err := s.ListQuotations(ctx, ListParams{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Equal(t, int64(3), pagination.Total)
	assert.Equal(t, 2, pagination.Pages)

	all, _, err := s.ListQuotations(ctx, ListParams{Status: "all"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.NotEmpty(t, all[0].Files, "listing must preload files")
}

func TestConvertQuotationToOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedPrintService(t, s)
	q := seedQuotation(t, s, "Alice Smith")

	order, err := s.ConvertQuotationToOrder(ctx, q.ID, nil, "rush job")
	require.NoError(t, err)

	assert.Equal(t, "FI001", order.OrderID)
	assert.Equal(t, model.OrderPending, order.Status)
	assert.Equal(t, q.EstimatedPrice, order.TotalAmount)
	assert.Equal(t, q.CustomerName, order.CustomerName)
	assert.Equal(t, "rush job", order.Notes)
	require.NotNil(t, order.QuotationID)
	assert.Equal(t, q.ID, *order.QuotationID)

	require.Len(t, order.Files, 1)
	assert.Equal(t, q.Files[0].OriginalName, order.Files[0].OriginalName)
	assert.Equal(t, q.Files[0].FilePath, order.Files[0].FilePath)

	approved, err := s.GetQuotation(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QuotationApproved, approved.Status)

	// Order numbers are sequential across conversions.
	q2 := seedQuotation(t, s, "Bob Jones")
	order2, err := s.ConvertQuotationToOrder(ctx, q2.ID, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "FI002", order2.OrderID)
}

func TestConvertQuotationFilesAreSnapshots(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedPrintService(t, s)
	q := seedQuotation(t, s, "Alice Smith")

	order, err := s.ConvertQuotationToOrder(ctx, q.ID, nil, "")
	require.NoError(t, err)

	// Mutating the quotation's file row must not reach the order copy.
	err = s.DB().Model(&model.QuoteFile{}).
		Where("quotation_id = ?", q.ID).
		Update("original_name", "renamed.stl").Error
	require.NoError(t, err)

	stored, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Files, 1)
	assert.Equal(t, "bracket-a.stl", stored.Files[0].OriginalName)
}

func TestConvertQuotationNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.ConvertQuotationToOrder(ctx, 9999, nil, "")
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, s.DB().Model(&model.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}
