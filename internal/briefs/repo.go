package briefs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adforge/adforge-backend/pkg/db"
	"github.com/adforge/adforge-backend/pkg/db/models"
	"github.com/adforge/adforge-backend/pkg/pagination"
)

// Repository exposes brief persistence.
type Repository struct {
	client *db.Client
}

// NewRepository constructs a brief repository bound to the shared client.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) conn(ctx context.Context) *gorm.DB {
	return r.client.DB().WithContext(ctx)
}

// Create inserts a new brief row.
func (r *Repository) Create(ctx context.Context, brief *models.Brief) (*models.Brief, error) {
	if err := r.conn(ctx).Create(brief).Error; err != nil {
		return nil, err
	}
	return brief, nil
}

// FindByID retrieves a single brief.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Brief, error) {
	var brief models.Brief
	if err := r.conn(ctx).First(&brief, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brief, nil
}

// List returns briefs newest first.
func (r *Repository) List(ctx context.Context, page pagination.Params) ([]models.Brief, error) {
	var rows []models.Brief
	err := r.conn(ctx).Order("created_at DESC").Offset(page.Skip).Limit(page.Limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes a brief; ideas, creatives and approvals go with it via
// cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Where("id = ?", id).Delete(&models.Brief{}).Error
}
