package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fabworks-backend/internal/model"
	"fabworks-backend/internal/pricing"
	"fabworks-backend/internal/upload"
)

// maxQuoteIDAttempts bounds the generate-insert-retry loop for quote codes.
const maxQuoteIDAttempts = 5

// CreateQuotation prices a quote request and persists the quotation row plus
// one file row per upload in a single transaction. The quote code is random;
// on a unique-index collision the whole transaction is retried with a fresh
// code, up to maxQuoteIDAttempts times.
func (s *gormStore) CreateQuotation(ctx context.Context, req CreateQuotationParams, files []upload.StoredFile) (*model.Quotation, error) {
	var lastErr error
	for attempt := 0; attempt < maxQuoteIDAttempts; attempt++ {
		quotation := &model.Quotation{
			QuoteID:       pricing.NewQuoteID(),
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
			ServiceType:   req.ServiceType,
			Material:      req.Material,
			Quantity:      req.Quantity,
			Status:        model.QuotationPendingReview,
		}

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var svc model.Service
			err := tx.Where("category = ? AND material = ? AND active = ?", req.ServiceType, req.Material, true).
				First(&svc).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrServiceUnavailable
			}
			if err != nil {
				return fmt.Errorf("failed to look up service: %w", err)
			}

			quotation.EstimatedPrice = pricing.Estimate(svc.Price, req.Quantity)
			quotation.DeliveryTime = pricing.DeliveryTime(req.ServiceType)

			if err := tx.Create(quotation).Error; err != nil {
				return err
			}

			for _, f := range files {
				qf := model.QuoteFile{
					QuotationID:  quotation.ID,
					Filename:     f.Filename,
					OriginalName: f.OriginalName,
					FilePath:     f.Path,
					FileSize:     f.Size,
					MimeType:     f.MimeType,
				}
				if err := tx.Create(&qf).Error; err != nil {
					return fmt.Errorf("failed to store file record %s: %w", f.OriginalName, err)
				}
				quotation.Files = append(quotation.Files, qf)
			}
			return nil
		})

		if errors.Is(err, gorm.ErrDuplicatedKey) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}
		return quotation, nil
	}
	return nil, fmt.Errorf("could not allocate a unique quote code after %d attempts: %w", maxQuoteIDAttempts, lastErr)
}

// ListQuotations returns one page of quotations with files preloaded,
// newest first.
func (s *gormStore) ListQuotations(ctx context.Context, params ListParams) ([]model.Quotation, Pagination, error) {
	params = params.normalized()

	q := s.db.WithContext(ctx).Model(&model.Quotation{})
	if params.Status != "" && params.Status != "all" {
		q = q.Where("status = ?", params.Status)
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		q = q.Where("LOWER(customer_name) LIKE LOWER(?) OR LOWER(quote_id) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var quotations []model.Quotation
	err := q.Preload("Files").
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.offset()).
		Find(&quotations).Error
	if err != nil {
		return nil, Pagination{}, err
	}

	return quotations, newPagination(params, total), nil
}

func (s *gormStore) GetQuotation(ctx context.Context, id uint) (*model.Quotation, error) {
	var quotation model.Quotation
	if err := s.db.WithContext(ctx).Preload("Files").First(&quotation, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &quotation, nil
}

// UpdateQuotationStatus sets the review status and notes of a quotation.
func (s *gormStore) UpdateQuotationStatus(ctx context.Context, id uint, status, notes string) (*model.Quotation, error) {
	var quotation model.Quotation
	if err := s.db.WithContext(ctx).First(&quotation, id).Error; err != nil {
		return nil, notFound(err)
	}

	updates := map[string]any{"status": status, "notes": notes}
	if err := s.db.WithContext(ctx).Model(&quotation).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &quotation, nil
}

// ConvertQuotationToOrder promotes a quotation into a trackable order. In one
// transaction: allocate the next order number from the counters table, insert
// the order with fields copied from the quotation, snapshot-copy the
// quotation's file rows, and mark the quotation Approved. Any failure rolls
// back every step.
func (s *gormStore) ConvertQuotationToOrder(ctx context.Context, id uint, deadline *time.Time, notes string) (*model.Order, error) {
	var order *model.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quotation model.Quotation
		if err := tx.Preload("Files").First(&quotation, id).Error; err != nil {
			return notFound(err)
		}

		seq, err := nextCounterValue(tx, model.CounterOrders)
		if err != nil {
			return fmt.Errorf("failed to allocate order number: %w", err)
		}

		order = &model.Order{
			OrderID:       pricing.FormatOrderID(seq),
			QuotationID:   &quotation.ID,
			CustomerName:  quotation.CustomerName,
			CustomerEmail: quotation.CustomerEmail,
			CustomerPhone: quotation.CustomerPhone,
			ServiceType:   quotation.ServiceType,
			Material:      quotation.Material,
			Quantity:      quotation.Quantity,
			TotalAmount:   quotation.EstimatedPrice,
			Status:        model.OrderPending,
			Deadline:      deadline,
			Notes:         notes,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, qf := range quotation.Files {
			of := model.OrderFile{
				OrderID:      order.ID,
				Filename:     qf.Filename,
				OriginalName: qf.OriginalName,
				FilePath:     qf.FilePath,
				FileSize:     qf.FileSize,
				MimeType:     qf.MimeType,
			}
			if err := tx.Create(&of).Error; err != nil {
				return fmt.Errorf("failed to copy file record %s: %w", qf.OriginalName, err)
			}
			order.Files = append(order.Files, of)
		}

		if err := tx.Model(&quotation).Update("status", model.QuotationApproved).Error; err != nil {
			return fmt.Errorf("failed to mark quotation approved: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// nextCounterValue atomically increments and returns the named sequence.
// The UPDATE takes a row lock, so concurrent transactions serialize here and
// cannot observe the same value.
func nextCounterValue(tx *gorm.DB, name string) (int64, error) {
	res := tx.Model(&model.Counter{}).
		Where("name = ?", name).
		Update("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		counter := model.Counter{Name: name, Value: 1}
		if err := tx.Create(&counter).Error; err != nil {
			return 0, err
		}
		return counter.Value, nil
	}

	var counter model.Counter
	if err := tx.Where("name = ?", name).First(&counter).Error; err != nil {
		return 0, err
	}
	return counter.Value, nil
}
