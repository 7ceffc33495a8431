package store

import (
	"time"

	"fabworks-backend/internal/model"
)

// ListParams enumerates the supported filters for paginated listings.
// A typed parameter object instead of ad hoc SQL assembly: the set of
// filters is closed and each one maps to a parameterized clause.
type ListParams struct {
	Status string // exact status match; "" or "all" disables the filter
	Search string // case-insensitive substring match on customer name or code
	Page   int
	Limit  int
}

// normalized clamps paging values to sane bounds.
func (p ListParams) normalized() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}

// offset returns the row offset for the current page.
func (p ListParams) offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination is the metadata returned alongside a listing page.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func newPagination(params ListParams, total int64) Pagination {
	pages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	return Pagination{
		Page:  params.Page,
		Limit: params.Limit,
		Total: total,
		Pages: pages,
	}
}

// CreateQuotationParams carries the validated fields of a quote request.
type CreateQuotationParams struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ServiceType   string
	Material      string
	Quantity      int
}

// OrderUpdate is a partial update of an order; nil fields are left unchanged.
type OrderUpdate struct {
	Status   *string
	Progress *int
	Notes    *string
}

// StatusCount is one bucket of the orders-by-status aggregate.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// OrderStats is the read-only dashboard aggregate.
type OrderStats struct {
	Total    int64         `json:"total"`
	ByStatus []StatusCount `json:"byStatus"`
	Revenue  float64       `json:"revenue"`
	Recent   []model.Order `json:"recent"`
}

// monthStart returns midnight on the first day of t's calendar month.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
