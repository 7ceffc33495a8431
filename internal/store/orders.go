package store

import (
	"context"
	"time"

	"fabworks-backend/internal/model"
)

// ListOrders returns one page of orders with files preloaded, newest first.
func (s *gormStore) ListOrders(ctx context.Context, params ListParams) ([]model.Order, Pagination, error) {
	params = params.normalized()

	q := s.db.WithContext(ctx).Model(&model.Order{})
	if params.Status != "" && params.Status != "all" {
		q = q.Where("status = ?", params.Status)
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		q = q.Where("LOWER(customer_name) LIKE LOWER(?) OR LOWER(order_id) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var orders []model.Order
	err := q.Preload("Files").
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.offset()).
		Find(&orders).Error
	if err != nil {
		return nil, Pagination{}, err
	}

	return orders, newPagination(params, total), nil
}

func (s *gormStore) GetOrder(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := s.db.WithContext(ctx).Preload("Files").First(&order, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// UpdateOrder applies a partial update. At least one field must be supplied;
// fields left nil are unchanged.
func (s *gormStore) UpdateOrder(ctx context.Context, id uint, upd OrderUpdate) (*model.Order, error) {
	updates := map[string]any{}
	if upd.Status != nil {
		updates["status"] = *upd.Status
	}
	if upd.Progress != nil {
		updates["progress"] = *upd.Progress
	}
	if upd.Notes != nil {
		updates["notes"] = *upd.Notes
	}
	if len(updates) == 0 {
		return nil, ErrNoFields
	}

	var order model.Order
	if err := s.db.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, notFound(err)
	}

	if err := s.db.WithContext(ctx).Model(&order).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// OrderStats computes the dashboard aggregate: total order count, counts per
// status, revenue for the current calendar month, and the five most recent
// orders. Read-only.
func (s *gormStore) OrderStats(ctx context.Context) (*OrderStats, error) {
	stats := &OrderStats{}

	if err := s.db.WithContext(ctx).Model(&model.Order{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Model(&model.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&stats.ByStatus).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&model.Order{}).
		Where("created_at >= ?", monthStart(time.Now())).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.Revenue).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(5).
		Find(&stats.Recent).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
