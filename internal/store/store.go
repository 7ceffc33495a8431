package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fabworks-backend/internal/model"
	"fabworks-backend/internal/upload"
)

// Sentinel errors mapped to HTTP statuses by the API layer.
var (
	ErrNotFound           = errors.New("record not found")
	ErrServiceUnavailable = errors.New("service not available")
	ErrNoFields           = errors.New("no updates provided")
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	ListServices(ctx context.Context, activeOnly bool) ([]model.Service, error)
	GetService(ctx context.Context, id uint) (*model.Service, error)
	CreateService(ctx context.Context, svc *model.Service) error
	UpdateService(ctx context.Context, id uint, svc *model.Service) (*model.Service, error)
	ToggleService(ctx context.Context, id uint) (*model.Service, error)
	DeleteService(ctx context.Context, id uint) error

	CreateQuotation(ctx context.Context, req CreateQuotationParams, files []upload.StoredFile) (*model.Quotation, error)
	ListQuotations(ctx context.Context, params ListParams) ([]model.Quotation, Pagination, error)
	GetQuotation(ctx context.Context, id uint) (*model.Quotation, error)
	UpdateQuotationStatus(ctx context.Context, id uint, status, notes string) (*model.Quotation, error)
	ConvertQuotationToOrder(ctx context.Context, id uint, deadline *time.Time, notes string) (*model.Order, error)

	ListOrders(ctx context.Context, params ListParams) ([]model.Order, Pagination, error)
	GetOrder(ctx context.Context, id uint) (*model.Order, error)
	UpdateOrder(ctx context.Context, id uint, upd OrderUpdate) (*model.Order, error)
	OrderStats(ctx context.Context) (*OrderStats, error)

	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	SetUserPassword(ctx context.Context, id uint, passwordHash string) error

	UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	ListSubscriptions(ctx context.Context) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for middleware and migrations.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// notFound translates gorm's record-not-found into the store sentinel.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
