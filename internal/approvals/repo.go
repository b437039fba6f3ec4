package approvals

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adforge/adforge-backend/pkg/db/models"
)

// Repository exposes approval persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an approval repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByCreativeID retrieves the approval record owned by a creative.
func (r *Repository) FindByCreativeID(ctx context.Context, creativeID uuid.UUID) (*models.Approval, error) {
	var a models.Approval
	if err := r.db.WithContext(ctx).First(&a, "creative_id = ?", creativeID).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// Save writes the full approval row back.
func (r *Repository) Save(ctx context.Context, approval *models.Approval) error {
	return r.db.WithContext(ctx).Save(approval).Error
}

// RegionForCreative resolves the region of the idea owning the creative.
func (r *Repository) RegionForCreative(ctx context.Context, creativeID uuid.UUID) (string, error) {
	var region string
	err := r.db.WithContext(ctx).
		Model(&models.Idea{}).
		Select("ideas.region").
		Joins("JOIN creatives ON creatives.idea_id = ideas.id").
		Where("creatives.id = ?", creativeID).
		Scan(&region).Error
	if err != nil {
		return "", err
	}
	if region == "" {
		return "", gorm.ErrRecordNotFound
	}
	return region, nil
}
