package store

import (
	"context"

	"fabworks-backend/internal/model"
)

// ListServices returns the service catalog ordered by category then name.
func (s *gormStore) ListServices(ctx context.Context, activeOnly bool) ([]model.Service, error) {
	q := s.db.WithContext(ctx).Order("category, name")
	if activeOnly {
		q = q.Where("active = ?", true)
	}

	var services []model.Service
	if err := q.Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (s *gormStore) GetService(ctx context.Context, id uint) (*model.Service, error) {
	var svc model.Service
	if err := s.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &svc, nil
}

func (s *gormStore) CreateService(ctx context.Context, svc *model.Service) error {
	return s.db.WithContext(ctx).Create(svc).Error
}

// UpdateService performs a full replace of the catalog row.
func (s *gormStore) UpdateService(ctx context.Context, id uint, svc *model.Service) (*model.Service, error) {
	var existing model.Service
	if err := s.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		return nil, notFound(err)
	}

	existing.Name = svc.Name
	existing.Category = svc.Category
	existing.Material = svc.Material
	existing.Price = svc.Price
	existing.Unit = svc.Unit
	existing.Description = svc.Description
	existing.Active = svc.Active

	if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// ToggleService flips the active flag and returns the updated row.
func (s *gormStore) ToggleService(ctx context.Context, id uint) (*model.Service, error) {
	var svc model.Service
	if err := s.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, notFound(err)
	}

	if err := s.db.WithContext(ctx).Model(&svc).Update("active", !svc.Active).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// DeleteService hard-deletes a catalog row. Services are reference data, so
// no history is kept.
func (s *gormStore) DeleteService(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Service{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
