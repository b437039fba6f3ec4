package assets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adforge/adforge-backend/pkg/db/models"
	"github.com/adforge/adforge-backend/pkg/enums"
	"github.com/adforge/adforge-backend/pkg/pagination"
)

// Repository exposes asset persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an asset repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists an asset record.
func (r *Repository) Create(ctx context.Context, asset *models.Asset) (*models.Asset, error) {
	if err := r.db.WithContext(ctx).Create(asset).Error; err != nil {
		return nil, err
	}
	return asset, nil
}

// FindByID retrieves an asset by ID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	var a models.Asset
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns assets newest first, optionally filtered by type.
func (r *Repository) List(ctx context.Context, assetType *enums.AssetType, page pagination.Params) ([]models.Asset, error) {
	q := r.db.WithContext(ctx).Model(&models.Asset{})
	if assetType != nil {
		q = q.Where("asset_type = ?", *assetType)
	}
	var rows []models.Asset
	if err := q.Order("created_at DESC").Offset(page.Skip).Limit(page.Limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FirstByType returns the oldest asset of the given type, if any.
func (r *Repository) FirstByType(ctx context.Context, assetType enums.AssetType) (*models.Asset, error) {
	var a models.Asset
	if err := r.db.WithContext(ctx).Where("asset_type = ?", assetType).Order("created_at ASC").First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// Delete removes an asset record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Asset{}).Error
}
