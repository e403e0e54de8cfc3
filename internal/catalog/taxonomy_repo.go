package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/spoxpro/spoxpro-backend/pkg/db/models"
)

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// ListProductTypes returns all product types ordered by name.
func (r *Repository) ListProductTypes(ctx context.Context) ([]models.ProductType, error) {
	var rows []models.ProductType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// ListSportTypes returns all sport types ordered by name.
func (r *Repository) ListSportTypes(ctx context.Context) ([]models.SportType, error) {
	var rows []models.SportType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// ListMaterials returns all materials ordered by name.
func (r *Repository) ListMaterials(ctx context.Context) ([]models.Material, error) {
	var rows []models.Material
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// EnsureCategory finds or creates the category with the given name.
func (r *Repository) EnsureCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	var row models.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.Category{Name: name}
		err = r.db.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// EnsureProductType finds or creates the product type with the given name.
func (r *Repository) EnsureProductType(ctx context.Context, name string) (*models.ProductType, error) {
	name = strings.TrimSpace(name)
	var row models.ProductType
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.ProductType{Name: name}
		err = r.db.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// EnsureSportType finds or creates the sport type with the given name.
func (r *Repository) EnsureSportType(ctx context.Context, name string) (*models.SportType, error) {
	name = strings.TrimSpace(name)
	var row models.SportType
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.SportType{Name: name}
		err = r.db.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// EnsureMaterial finds or creates the material with the given name.
func (r *Repository) EnsureMaterial(ctx context.Context, name string) (*models.Material, error) {
	name = strings.TrimSpace(name)
	var row models.Material
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.Material{Name: name}
		err = r.db.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
